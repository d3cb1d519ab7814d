package models

// StatutKind famille de statuts
type StatutKind string

const (
	StatutKindProduit StatutKind = "produit"
	StatutKindLead    StatutKind = "lead"
)

// Statut libellé de workflow, modifiable par un admin
type Statut struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	Kind     StatutKind `gorm:"size:20;not null;uniqueIndex:idx_statut_kind_key" json:"kind"`
	Key      string     `gorm:"size:40;not null;uniqueIndex:idx_statut_kind_key" json:"key"`
	Label    string     `gorm:"size:120;not null" json:"label"`
	Color    string     `gorm:"size:20" json:"color"`
	Position int        `json:"position"`
}
