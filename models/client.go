package models

import "time"

// TypeProduit type de produit vendu
type TypeProduit string

const (
	TypeDestratification TypeProduit = "destratification"
	TypePression         TypeProduit = "pression"
	TypeMatelasIsolants  TypeProduit = "matelas_isolants"
)

// TypesProduit liste ordonnée des types de produit
var TypesProduit = []TypeProduit{TypeDestratification, TypePression, TypeMatelasIsolants}

// IsValid indique si le type est connu
func (t TypeProduit) IsValid() bool {
	for _, v := range TypesProduit {
		if v == t {
			return true
		}
	}
	return false
}

// ProduitStatut étape du workflow d'un produit
type ProduitStatut string

const (
	StatutNouveau               ProduitStatut = "nouveau"
	StatutNRP                   ProduitStatut = "nrp"
	StatutARappeler             ProduitStatut = "a_rappeler"
	StatutRdvPlanifie           ProduitStatut = "rdv_planifie"
	StatutVisiteTechnique       ProduitStatut = "visite_technique"
	StatutDevisEnvoye           ProduitStatut = "devis_envoye"
	StatutDevisSigne            ProduitStatut = "devis_signe"
	StatutInstallationPlanifiee ProduitStatut = "installation_planifiee"
	StatutInstallationRealisee  ProduitStatut = "installation_realisee"
	StatutTermine               ProduitStatut = "termine"
)

// ProduitStatuts workflow dans l'ordre
var ProduitStatuts = []ProduitStatut{
	StatutNouveau,
	StatutNRP,
	StatutARappeler,
	StatutRdvPlanifie,
	StatutVisiteTechnique,
	StatutDevisEnvoye,
	StatutDevisSigne,
	StatutInstallationPlanifiee,
	StatutInstallationRealisee,
	StatutTermine,
}

// IsValid indique si le statut appartient au workflow
func (s ProduitStatut) IsValid() bool {
	for _, v := range ProduitStatuts {
		if v == s {
			return true
		}
	}
	return false
}

// Client société cliente (table client_base)
type Client struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	Societe            string `gorm:"size:255;not null;index" json:"societe"`
	Adresse            string `gorm:"size:255" json:"adresse"`
	CodePostal         string `gorm:"size:10;index" json:"code_postal"`
	Ville              string `gorm:"size:120" json:"ville"`
	Siret              string `gorm:"size:14;index" json:"siret"`
	Telephone          string `gorm:"size:30" json:"telephone"`
	Email              string `gorm:"size:255" json:"email"`
	SignataireNom      string `gorm:"size:120" json:"signataire_nom"`
	SignatairePrenom   string `gorm:"size:120" json:"signataire_prenom"`
	SignataireFonction string `gorm:"size:120" json:"signataire_fonction"`
	SignataireTel      string `gorm:"column:signataire_telephone;size:30" json:"signataire_telephone"`
	SignataireEmail    string `gorm:"size:255" json:"signataire_email"`

	// Site des travaux
	AdresseTravaux    string `gorm:"size:255" json:"adresse_travaux"`
	CodePostalTravaux string `gorm:"size:10" json:"code_postal_travaux"`
	VilleTravaux      string `gorm:"size:120" json:"ville_travaux"`
	ContactTravauxNom string `gorm:"size:120" json:"contact_travaux_nom"`
	ContactTravauxTel string `gorm:"column:contact_travaux_telephone;size:30" json:"contact_travaux_telephone"`
	ContactTravauxEm  string `gorm:"column:contact_travaux_email;size:255" json:"contact_travaux_email"`

	Produits  []Produit `gorm:"foreignKey:ClientID" json:"produits,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName nom historique de la table
func (Client) TableName() string { return "client_base" }

// Produit produit rattaché à un client, un seul par type
type Produit struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	ClientID          uint           `gorm:"not null;uniqueIndex:idx_client_type" json:"client_id"`
	TypeProduit       TypeProduit    `gorm:"size:40;not null;uniqueIndex:idx_client_type" json:"type_produit"`
	Statut            ProduitStatut  `gorm:"size:40;not null;index;default:nouveau" json:"statut"`
	DonneesTechniques map[string]any `gorm:"type:text;serializer:json" json:"donnees_techniques"`
	AssignedTo        *uint          `gorm:"index" json:"assigned_to"`
	AssignedUser      *User          `gorm:"foreignKey:AssignedTo" json:"assigned_user,omitempty"`
	Client            *Client        `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// TableName nom de la table des produits
func (Produit) TableName() string { return "client_produits" }
