package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/france-ecoenergie/crm_back/service"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/gin-gonic/gin"
)

// marge pour les en-têtes multipart au-delà de la taille du fichier
const multipartOverhead = 1 << 20

// UploadDocument dépôt d'un fichier (champs file, client_id, produit_id facultatif)
func UploadDocument(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxUploadBytes()+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.HandleError(c, service.ErrFileTooLarge)
			return
		}
		utils.HandleError(c, utils.CreateBadRequestError("Fichier manquant"))
		return
	}
	clientID, err := formID(c, "client_id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if clientID == nil {
		utils.HandleError(c, utils.CreateBadRequestError("client_id obligatoire"))
		return
	}
	produitID, err := formID(c, "produit_id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	doc, err := service.UploadDocument(c.Request.Context(), user, *clientID, produitID, fh)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, doc, "Document déposé", http.StatusCreated)
}

// GetDocuments documents d'un client (?client_id=, ?produit_id=)
func GetDocuments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	clientID, err := utils.ParseOptionalID(c, "client_id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if clientID == nil {
		utils.HandleError(c, utils.CreateBadRequestError("client_id obligatoire"))
		return
	}
	produitID, err := utils.ParseOptionalID(c, "produit_id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	docs, err := service.ListDocuments(c.Request.Context(), user, *clientID, produitID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, docs, "")
}

// DownloadDocument téléchargement en pièce jointe
func DownloadDocument(c *gin.Context) {
	serveDocument(c, false)
}

// PreviewDocument affichage en ligne (pdf et images)
func PreviewDocument(c *gin.Context) {
	serveDocument(c, true)
}

func serveDocument(c *gin.Context, preview bool) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	doc, path, err := service.OpenDocument(c.Request.Context(), user, id, preview)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if !preview {
		c.FileAttachment(path, doc.FileName)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename*=UTF-8''%s", url.PathEscape(doc.FileName)))
	if doc.MimeType != "" {
		c.Header("Content-Type", doc.MimeType)
	}
	c.File(path)
}

// DeleteDocument suppression d'un document et de son fichier
func DeleteDocument(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if err := service.DeleteDocument(c.Request.Context(), user, id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, nil, "Document supprimé")
}
