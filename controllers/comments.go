package controllers

import (
	"net/http"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/service"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/gin-gonic/gin"
)

// GetClientComments commentaires d'un client, ?produit_id= pour un produit
func GetClientComments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	produitID, err := utils.ParseOptionalID(c, "produit_id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	comments, err := service.ListClientComments(c.Request.Context(), user, id, produitID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, comments, "")
}

// AddClientComment ajoute un commentaire à un client
func AddClientComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	var req models.CommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := service.AddClientComment(c.Request.Context(), user, id, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, comment, "Commentaire ajouté", http.StatusCreated)
}

// GetLeadComments commentaires d'un lead
func GetLeadComments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	comments, err := service.ListLeadComments(c.Request.Context(), user, id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, comments, "")
}

// AddLeadComment ajoute un commentaire à un lead
func AddLeadComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	var req models.CommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := service.AddLeadComment(c.Request.Context(), user, id, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, comment, "Commentaire ajouté", http.StatusCreated)
}

// UpdateComment modifie le texte d'un commentaire
func UpdateComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	var req models.CommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := service.UpdateComment(c.Request.Context(), user, id, req.Content)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, comment, "Commentaire modifié")
}

// DeleteComment supprime un commentaire
func DeleteComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if err := service.DeleteComment(c.Request.Context(), user, id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, nil, "Commentaire supprimé")
}
