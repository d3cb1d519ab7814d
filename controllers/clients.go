package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/service"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/gin-gonic/gin"
)

const (
	csvContentType   = "text/csv; charset=utf-8"
	excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// GetClientList liste des produits avec leur client, une ligne par produit
func GetClientList(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	assignedTo, err := utils.ParseOptionalID(c, "assigned_to")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	filter := service.ClientFilter{
		Search:      strings.TrimSpace(c.Query("search")),
		Statut:      models.ProduitStatut(c.Query("statut")),
		TypeProduit: models.TypeProduit(c.Query("type_produit")),
		AssignedTo:  assignedTo,
	}
	p := utils.ParsePagination(c)

	produits, total, err := service.ListProduits(c.Request.Context(), user, filter, p)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.PaginatedResponse(c, produits, total, p)
}

// CreateClient création d'un client et de son premier produit
func CreateClient(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.CreateClientRequest
	if !bindJSON(c, &req) {
		return
	}
	client, err := service.CreateClient(c.Request.Context(), user, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, client, "Client créé", http.StatusCreated)
}

// GetClientDetail client et ses produits
func GetClientDetail(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	client, err := service.GetClient(c.Request.Context(), user, id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, client, "")
}

// UpdateClient mise à jour des champs de base
func UpdateClient(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	var req models.UpdateClientRequest
	if !bindJSON(c, &req) {
		return
	}
	client, err := service.UpdateClient(c.Request.Context(), user, id, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, client, "Client mis à jour")
}

// DeleteClient suppression d'un client et de tout ce qui lui est rattaché
func DeleteClient(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if err := service.DeleteClient(c.Request.Context(), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, nil, "Client supprimé")
}

// BulkAssignClients assignation en masse de produits
func BulkAssignClients(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.BulkAssignRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := service.BulkAssignProduits(c.Request.Context(), user, req.IDs, req.AssignedTo)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"updated": n}, fmt.Sprintf("%d produit(s) assigné(s)", n))
}

// ImportClientsCSV import d'un fichier CSV de clients
func ImportClientsCSV(c *gin.Context) {
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

	result, err := service.ImportClientsCSV(c.Request.Context(), user, f)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, result, fmt.Sprintf("%d ligne(s) importée(s)", result.Imported))
}

// ExportClientsCSV export CSV des produits visibles
func ExportClientsCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := service.ExportClientsCSV(c.Request.Context(), user, &buf); err != nil {
		utils.HandleError(c, err)
		return
	}
	sendAttachment(c, exportName("clients", "csv"), csvContentType, buf.Bytes())
}

// ExportClientsExcel export xlsx des produits visibles
func ExportClientsExcel(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	data, err := service.ExportClientsExcel(c.Request.Context(), user)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	sendAttachment(c, exportName("clients", "xlsx"), excelContentType, data)
}

func exportName(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, time.Now().Format("20060102"), ext)
}

func sendAttachment(c *gin.Context, name, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, contentType, data)
}
