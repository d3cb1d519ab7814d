package models

import "time"

// Comment note libre rattachée à un client (éventuellement à un de ses produits) ou à un lead
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ClientID  *uint     `gorm:"index" json:"client_id"`
	ProduitID *uint     `gorm:"index" json:"produit_id"`
	LeadID    *uint     `gorm:"index" json:"lead_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
