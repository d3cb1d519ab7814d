package service

import (
	"context"
	"fmt"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/utils"

	"gorm.io/gorm"
)

// recordHistory ajoute une entrée à l'historique du produit dans la transaction courante
func recordHistory(tx *gorm.DB, p *models.Produit, event, from, to string, operator *utils.LoginUser, remark string) error {
	entry := models.ProduitHistory{
		ProduitID: p.ID,
		ClientID:  p.ClientID,
		Event:     event,
		FromValue: from,
		ToValue:   to,
		Remark:    remark,
	}
	if operator != nil {
		entry.OperatorID = operator.ID
		entry.OperatorName = operator.Username
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("historique du produit %d: %w", p.ID, err)
	}
	return nil
}

// assigneeLabel valeur affichée dans l'historique pour une assignation
func assigneeLabel(tx *gorm.DB, id *uint) string {
	if id == nil {
		return ""
	}
	var u models.User
	if err := tx.Select("id", "username").First(&u, *id).Error; err != nil {
		return fmt.Sprint(*id)
	}
	return u.Username
}

// GetProduitHistory historique d'un produit, plus récent en premier
func GetProduitHistory(ctx context.Context, user *utils.LoginUser, produitID uint) ([]models.ProduitHistory, error) {
	db := repository.WithContext(ctx)
	if _, err := loadProduit(db, user, produitID); err != nil {
		return nil, err
	}

	history := make([]models.ProduitHistory, 0)
	if err := db.Where("produit_id = ?", produitID).
		Order("created_at DESC, id DESC").
		Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}
