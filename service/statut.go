package service

import (
	"context"
	"strings"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/repository"

	"gorm.io/gorm"
)

// ListStatuts libellés de workflow, filtrés par famille si précisée
func ListStatuts(ctx context.Context, kind models.StatutKind) ([]models.Statut, error) {
	q := repository.WithContext(ctx).Model(&models.Statut{})
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	statuts := make([]models.Statut, 0)
	err := q.Order("kind, position, id").Find(&statuts).Error
	return statuts, err
}

// UpdateStatut modifie libellé, couleur ou position d'un statut
func UpdateStatut(ctx context.Context, id uint, req models.UpdateStatutRequest) (*models.Statut, error) {
	var statut models.Statut
	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&statut, id).Error; err != nil {
			if repository.IsNotFound(err) {
				return ErrStatutNotFound
			}
			return err
		}
		if req.Label != nil {
			statut.Label = strings.TrimSpace(*req.Label)
		}
		if req.Color != nil {
			statut.Color = strings.TrimSpace(*req.Color)
		}
		if req.Position != nil {
			statut.Position = *req.Position
		}
		return tx.Save(&statut).Error
	})
	if err != nil {
		return nil, err
	}
	return &statut, nil
}
