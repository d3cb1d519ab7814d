package controllers

import (
	"fmt"
	"net/http"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/service"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/gin-gonic/gin"
)

// GetProduitDetail produit et son client
func GetProduitDetail(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	produit, err := service.GetProduit(c.Request.Context(), user, id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, produit, "")
}

// UpdateProduit statut, données techniques ou assignation
func UpdateProduit(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	var req models.UpdateProduitRequest
	if !bindJSON(c, &req) {
		return
	}
	produit, err := service.UpdateProduit(c.Request.Context(), user, id, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, produit, "Produit mis à jour")
}

// DeleteProduit supprime un produit, et le client s'il n'en reste aucun
func DeleteProduit(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	clientDeleted, err := service.DeleteProduit(c.Request.Context(), user, id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	msg := "Produit supprimé"
	if clientDeleted {
		msg = "Produit et client supprimés"
	}
	utils.SuccessResponse(c, gin.H{"client_deleted": clientDeleted}, msg)
}

// DuplicateProduit copie d'un produit vers un autre type
func DuplicateProduit(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	var req models.DuplicateProduitRequest
	if !bindJSON(c, &req) {
		return
	}
	produit, err := service.DuplicateProduit(c.Request.Context(), user, id, req.TypeProduit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, produit, "Produit dupliqué", http.StatusCreated)
}

// GetProduitHistory historique d'un produit
func GetProduitHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	history, err := service.GetProduitHistory(c.Request.Context(), user, id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, history, "")
}

// BulkDeleteProduits suppression en masse
func BulkDeleteProduits(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.BulkDeleteRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := service.BulkDeleteProduits(c.Request.Context(), user, req.IDs)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"deleted": n}, fmt.Sprintf("%d produit(s) supprimé(s)", n))
}
