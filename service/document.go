package service

import (
	"context"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/france-ecoenergie/crm_back/config"
	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/utils"

	"gorm.io/gorm"
)

// extensions affichables dans le navigateur
var previewExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// MaxUploadBytes taille maximale d'un document
func MaxUploadBytes() int64 {
	return config.LoadConfig().MaxUploadMB << 20
}

// CanPreview indique si le document peut être affiché en ligne
func CanPreview(fileName string) bool {
	return previewExtensions[strings.ToLower(filepath.Ext(fileName))]
}

func detectMimeType(fh *multipart.FileHeader) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); t != "" {
		return t
	}
	if t := fh.Header.Get("Content-Type"); t != "" {
		return t
	}
	return "application/octet-stream"
}

// UploadDocument enregistre un fichier sur disque et ses métadonnées en base
func UploadDocument(ctx context.Context, user *utils.LoginUser, clientID uint, produitID *uint, fh *multipart.FileHeader) (*models.Document, error) {
	if fh == nil {
		return nil, utils.CreateBadRequestError("Fichier manquant")
	}
	if fh.Size > MaxUploadBytes() {
		return nil, ErrFileTooLarge
	}

	db := repository.WithContext(ctx)
	if _, err := clientAttachment(db, user, clientID, produitID); err != nil {
		return nil, err
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	stored, size, err := saveFile(src, fh.Filename)
	if err != nil {
		return nil, err
	}

	doc := models.Document{
		ClientID:   clientID,
		ProduitID:  produitID,
		FileName:   filepath.Base(fh.Filename),
		StoredName: stored,
		Size:       size,
		MimeType:   detectMimeType(fh),
		UploadedBy: user.ID,
		UploadDate: time.Now(),
	}
	if err := db.Create(&doc).Error; err != nil {
		removeFiles(stored)
		return nil, err
	}

	utils.LogInfo(map[string]interface{}{
		"document_id": doc.ID,
		"client_id":   clientID,
		"size":        size,
	}, "document déposé")
	return &doc, nil
}

// ListDocuments documents d'un client, filtrés sur un produit si précisé
func ListDocuments(ctx context.Context, user *utils.LoginUser, clientID uint, produitID *uint) ([]models.Document, error) {
	db := repository.WithContext(ctx)
	if _, err := clientAttachment(db, user, clientID, produitID); err != nil {
		return nil, err
	}

	q := db.Where("client_id = ?", clientID)
	if produitID != nil {
		q = q.Where("produit_id = ?", *produitID)
	} else if !user.IsAdmin() {
		owned := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Produit{}).
			Select("id").
			Where("client_id = ? AND assigned_to = ?", clientID, user.ID)
		q = q.Where("(produit_id IS NULL OR produit_id IN (?))", owned)
	}

	docs := make([]models.Document, 0)
	err := q.Order("upload_date DESC, id DESC").Find(&docs).Error
	return docs, err
}

// loadDocument charge un document visible par l'utilisateur
func loadDocument(tx *gorm.DB, user *utils.LoginUser, id uint) (*models.Document, error) {
	var doc models.Document
	if err := tx.First(&doc, id).Error; err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	if _, err := clientAttachment(tx, user, doc.ClientID, doc.ProduitID); err != nil {
		return nil, ErrDocumentNotFound
	}
	return &doc, nil
}

// OpenDocument renvoie le document et le chemin du fichier sur disque
func OpenDocument(ctx context.Context, user *utils.LoginUser, id uint, preview bool) (*models.Document, string, error) {
	doc, err := loadDocument(repository.WithContext(ctx), user, id)
	if err != nil {
		return nil, "", err
	}
	if preview && !CanPreview(doc.FileName) {
		return nil, "", ErrPreviewType
	}

	path := storedPath(doc.StoredName)
	if _, err := os.Stat(path); err != nil {
		utils.LogError(err, map[string]interface{}{"document_id": id}, "fichier du document absent")
		return nil, "", ErrDocumentNotFound
	}
	return doc, path, nil
}

// DeleteDocument supprime les métadonnées puis le fichier
func DeleteDocument(ctx context.Context, user *utils.LoginUser, id uint) error {
	var stored string
	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc, err := loadDocument(tx, user, id)
		if err != nil {
			return err
		}
		stored = doc.StoredName
		return tx.Delete(doc).Error
	})
	if err != nil {
		return err
	}
	removeFiles(stored)
	return nil
}
