package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/service"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/gin-gonic/gin"
)

// GetLeadList leads paginés
func GetLeadList(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	assignedTo, err := utils.ParseOptionalID(c, "assigned_to")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	filter := service.LeadFilter{
		Search:     strings.TrimSpace(c.Query("search")),
		Statut:     models.LeadStatut(c.Query("statut")),
		AssignedTo: assignedTo,
	}
	p := utils.ParsePagination(c)

	leads, total, err := service.ListLeads(c.Request.Context(), user, filter, p)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.PaginatedResponse(c, leads, total, p)
}

// CreateLead création d'un lead
func CreateLead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.LeadRequest
	if !bindJSON(c, &req) {
		return
	}
	lead, err := service.CreateLead(c.Request.Context(), user, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, lead, "Lead créé", http.StatusCreated)
}

// GetLeadDetail détail d'un lead
func GetLeadDetail(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	lead, err := service.GetLead(c.Request.Context(), user, id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, lead, "")
}

// UpdateLead mise à jour partielle
func UpdateLead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	var req models.UpdateLeadRequest
	if !bindJSON(c, &req) {
		return
	}
	lead, err := service.UpdateLead(c.Request.Context(), user, id, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, lead, "Lead mis à jour")
}

// DeleteLead suppression d'un lead
func DeleteLead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if err := service.DeleteLead(c.Request.Context(), user, id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, nil, "Lead supprimé")
}

// ConvertLead transforme un lead en client
func ConvertLead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	var req models.ConvertLeadRequest
	if !bindJSON(c, &req) {
		return
	}
	client, err := service.ConvertLead(c.Request.Context(), user, id, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, client, "Lead converti en client", http.StatusCreated)
}

// BulkAssignLeads assignation en masse de leads
func BulkAssignLeads(c *gin.Context) {
	var req models.BulkAssignRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := service.BulkAssignLeads(c.Request.Context(), req.IDs, req.AssignedTo)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"updated": n}, fmt.Sprintf("%d lead(s) assigné(s)", n))
}

// ImportLeadsCSV import CSV de leads
func ImportLeadsCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("Fichier manquant"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer f.Close()

	result, err := service.ImportLeadsCSV(c.Request.Context(), user, f)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, result, fmt.Sprintf("%d lead(s) importé(s)", result.Imported))
}

// ExportLeadsCSV export CSV des leads visibles
func ExportLeadsCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := service.ExportLeadsCSV(c.Request.Context(), user, &buf); err != nil {
		utils.HandleError(c, err)
		return
	}
	sendAttachment(c, exportName("leads", "csv"), csvContentType, buf.Bytes())
}
