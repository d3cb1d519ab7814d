package models

import "time"

// LeadStatut statut de prospection d'un lead
type LeadStatut string

const (
	LeadNouveau      LeadStatut = "nouveau"
	LeadNRP          LeadStatut = "nrp"
	LeadARappeler    LeadStatut = "a_rappeler"
	LeadPasInteresse LeadStatut = "pas_interesse"
	LeadTrash        LeadStatut = "trash"
)

// LeadStatuts liste des statuts de lead
var LeadStatuts = []LeadStatut{LeadNouveau, LeadNRP, LeadARappeler, LeadPasInteresse, LeadTrash}

// IsValid indique si le statut est connu
func (s LeadStatut) IsValid() bool {
	for _, v := range LeadStatuts {
		if v == s {
			return true
		}
	}
	return false
}

// Lead contact prospect, pas encore client
type Lead struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	FirstName    string     `gorm:"size:120;not null" json:"first_name"`
	LastName     string     `gorm:"size:120;not null" json:"last_name"`
	Email        string     `gorm:"size:255;index" json:"email"`
	Phone        string     `gorm:"size:30;index" json:"phone"`
	Societe      string     `gorm:"size:255" json:"societe"`
	Adresse      string     `gorm:"size:255" json:"adresse"`
	CodePostal   string     `gorm:"size:10" json:"code_postal"`
	Ville        string     `gorm:"size:120" json:"ville"`
	Siret        string     `gorm:"size:14" json:"siret"`
	Source       string     `gorm:"size:120" json:"source"`
	Statut       LeadStatut `gorm:"size:40;not null;index;default:nouveau" json:"statut"`
	AssignedTo   *uint      `gorm:"index" json:"assigned_to"`
	AssignedUser *User      `gorm:"foreignKey:AssignedTo" json:"assigned_user,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
