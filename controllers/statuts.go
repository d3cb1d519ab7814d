package controllers

import (
	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/service"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/gin-gonic/gin"
)

// GetStatuts libellés de workflow (?kind=produit|lead)
func GetStatuts(c *gin.Context) {
	kind := models.StatutKind(c.Query("kind"))
	if kind != "" && kind != models.StatutKindProduit && kind != models.StatutKindLead {
		utils.HandleError(c, utils.CreateBadRequestError("kind inconnu: "+string(kind)))
		return
	}
	statuts, err := service.ListStatuts(c.Request.Context(), kind)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, statuts, "")
}

// UpdateStatut modification d'un libellé
func UpdateStatut(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	var req models.UpdateStatutRequest
	if !bindJSON(c, &req) {
		return
	}
	statut, err := service.UpdateStatut(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, statut, "Statut mis à jour")
}
