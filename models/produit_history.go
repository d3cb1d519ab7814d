package models

import "time"

// Types d'événements de l'historique produit
const (
	HistoryCreation    = "creation"
	HistoryStatut      = "statut"
	HistoryAssignation = "assignation"
	HistoryDuplication = "duplication"
	HistoryConversion  = "conversion"
)

// ProduitHistory trace des changements de statut et d'assignation d'un produit
type ProduitHistory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProduitID    uint      `gorm:"index;not null" json:"produit_id"`
	ClientID     uint      `gorm:"index;not null" json:"client_id"`
	Event        string    `gorm:"size:20;not null" json:"event"`
	FromValue    string    `gorm:"size:100" json:"from_value"`
	ToValue      string    `gorm:"size:100" json:"to_value"`
	OperatorID   uint      `json:"operator_id"`
	OperatorName string    `gorm:"size:100" json:"operator_name"`
	Remark       string    `gorm:"size:255" json:"remark"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

// TableName nom de la table
func (ProduitHistory) TableName() string { return "produit_history" }
