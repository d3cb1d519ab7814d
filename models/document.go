package models

import "time"

// Document métadonnées d'un fichier déposé, le binaire reste sur disque
type Document struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ClientID   uint      `gorm:"index;not null" json:"client_id"`
	ProduitID  *uint     `gorm:"index" json:"produit_id"`
	FileName   string    `gorm:"size:255;not null" json:"file_name"`
	StoredName string    `gorm:"size:255;not null" json:"-"`
	Size       int64     `json:"size"`
	MimeType   string    `gorm:"size:120" json:"mime_type"`
	UploadedBy uint      `gorm:"index" json:"uploaded_by"`
	UploadDate time.Time `json:"upload_date"`
}
