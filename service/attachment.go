package service

import (
	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/utils"

	"gorm.io/gorm"
)

// attachment cible d'un commentaire ou d'un rendez-vous: un client (éventuellement un de ses produits) ou un lead
type attachment struct {
	ClientID  *uint
	ProduitID *uint
	LeadID    *uint
}

// clientAttachment vérifie l'accès au client et au produit éventuel
func clientAttachment(tx *gorm.DB, user *utils.LoginUser, clientID uint, produitID *uint) (attachment, error) {
	if _, err := loadClient(tx, user, clientID); err != nil {
		return attachment{}, err
	}
	if produitID != nil {
		produit, err := loadProduit(tx, user, *produitID)
		if err != nil {
			return attachment{}, err
		}
		if produit.ClientID != clientID {
			return attachment{}, ErrProduitNotFound
		}
	}
	return attachment{ClientID: &clientID, ProduitID: produitID}, nil
}

// leadAttachment vérifie l'accès au lead
func leadAttachment(tx *gorm.DB, user *utils.LoginUser, leadID uint) (attachment, error) {
	if _, err := loadLead(tx, user, leadID); err != nil {
		return attachment{}, err
	}
	return attachment{LeadID: &leadID}, nil
}

// scope filtre une requête sur comments ou appointments selon la cible.
// Sans produit précisé, un télépro ne voit que les éléments du client ou de ses propres produits.
func (a attachment) scope(q *gorm.DB, user *utils.LoginUser) *gorm.DB {
	switch {
	case a.LeadID != nil:
		return q.Where("lead_id = ?", *a.LeadID)
	case a.ProduitID != nil:
		return q.Where("client_id = ? AND produit_id = ?", *a.ClientID, *a.ProduitID)
	case user.IsAdmin():
		return q.Where("client_id = ?", *a.ClientID)
	default:
		owned := q.Session(&gorm.Session{NewDB: true}).
			Model(&models.Produit{}).
			Select("id").
			Where("client_id = ? AND assigned_to = ?", *a.ClientID, user.ID)
		return q.Where("client_id = ? AND (produit_id IS NULL OR produit_id IN (?))", *a.ClientID, owned)
	}
}
