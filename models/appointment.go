package models

import "time"

// Appointment rendez-vous du calendrier
type Appointment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Date      string    `gorm:"size:10;not null;index" json:"date"` // AAAA-MM-JJ
	Time      string    `gorm:"size:5" json:"time"`                 // HH:MM
	Location  string    `gorm:"size:255" json:"location"`
	Notes     string    `gorm:"type:text" json:"notes"`
	ClientID  *uint     `gorm:"index" json:"client_id"`
	ProduitID *uint     `gorm:"index" json:"produit_id"`
	LeadID    *uint     `gorm:"index" json:"lead_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
