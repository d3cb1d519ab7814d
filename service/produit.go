package service

import (
	"context"
	"fmt"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// loadProduit charge un produit visible par l'utilisateur
func loadProduit(tx *gorm.DB, user *utils.LoginUser, id uint) (*models.Produit, error) {
	var produit models.Produit
	if err := tx.First(&produit, id).Error; err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrProduitNotFound
		}
		return nil, err
	}
	if !user.IsAdmin() && (produit.AssignedTo == nil || *produit.AssignedTo != user.ID) {
		return nil, ErrProduitNotFound
	}
	return &produit, nil
}

// GetProduit produit avec son client et l'utilisateur assigné
func GetProduit(ctx context.Context, user *utils.LoginUser, id uint) (*models.Produit, error) {
	db := repository.WithContext(ctx)
	produit, err := loadProduit(db, user, id)
	if err != nil {
		return nil, err
	}
	if err := db.Preload("Client").Preload("AssignedUser").First(produit, id).Error; err != nil {
		return nil, err
	}
	return produit, nil
}

// UpdateProduit modifie statut, données techniques ou assignation d'un produit
func UpdateProduit(ctx context.Context, user *utils.LoginUser, id uint, req models.UpdateProduitRequest) (*models.Produit, error) {
	if (req.AssignedTo != nil || req.Unassign) && !user.IsAdmin() {
		return nil, utils.CreateForbiddenError()
	}

	var produit *models.Produit
	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		produit, err = loadProduit(tx, user, id)
		if err != nil {
			return err
		}

		if req.Statut != nil && *req.Statut != produit.Statut {
			from := produit.Statut
			produit.Statut = *req.Statut
			if err := recordHistory(tx, produit, models.HistoryStatut, string(from), string(produit.Statut), user, ""); err != nil {
				return err
			}
		}

		if req.DonneesTechniques != nil {
			produit.DonneesTechniques = req.DonneesTechniques
		}

		if req.AssignedTo != nil || req.Unassign {
			next := req.AssignedTo
			if req.Unassign {
				next = nil
			}
			if err := validateAssignee(tx, next); err != nil {
				return err
			}
			if !sameAssignee(produit.AssignedTo, next) {
				from := assigneeLabel(tx, produit.AssignedTo)
				produit.AssignedTo = next
				if err := recordHistory(tx, produit, models.HistoryAssignation, from, assigneeLabel(tx, next), user, ""); err != nil {
					return err
				}
			}
		}

		return tx.Omit(clause.Associations).Save(produit).Error
	})
	if err != nil {
		return nil, err
	}
	return produit, nil
}

func sameAssignee(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// DuplicateProduit crée sur le même client un produit d'un autre type et y copie
// les commentaires, rendez-vous et documents du produit source
func DuplicateProduit(ctx context.Context, user *utils.LoginUser, id uint, typ models.TypeProduit) (*models.Produit, error) {
	var (
		created *models.Produit
		copied  []string
	)

	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		source, err := loadProduit(tx, user, id)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Produit{}).
			Where("client_id = ? AND type_produit = ?", source.ClientID, typ).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateType
		}

		created = &models.Produit{
			ClientID:    source.ClientID,
			TypeProduit: typ,
			Statut:      models.StatutNouveau,
			AssignedTo:  source.AssignedTo,
		}
		if err := tx.Omit(clause.Associations).Create(created).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateType
			}
			return err
		}

		var comments []models.Comment
		if err := tx.Where("produit_id = ?", source.ID).Order("id").Find(&comments).Error; err != nil {
			return err
		}
		for _, c := range comments {
			c.ID = 0
			c.ProduitID = &created.ID
			if err := tx.Omit(clause.Associations).Create(&c).Error; err != nil {
				return err
			}
		}

		var appointments []models.Appointment
		if err := tx.Where("produit_id = ?", source.ID).Order("id").Find(&appointments).Error; err != nil {
			return err
		}
		for _, a := range appointments {
			a.ID = 0
			a.ProduitID = &created.ID
			if err := tx.Omit(clause.Associations).Create(&a).Error; err != nil {
				return err
			}
		}

		var documents []models.Document
		if err := tx.Where("produit_id = ?", source.ID).Order("id").Find(&documents).Error; err != nil {
			return err
		}
		for _, d := range documents {
			name, err := copyFile(d.StoredName)
			if err != nil {
				return fmt.Errorf("copie du document %d: %w", d.ID, err)
			}
			copied = append(copied, name)
			d.ID = 0
			d.ProduitID = &created.ID
			d.StoredName = name
			if err := tx.Create(&d).Error; err != nil {
				return err
			}
		}

		if err := recordHistory(tx, created, models.HistoryDuplication, string(source.TypeProduit), string(typ), user,
			fmt.Sprintf("dupliqué depuis le produit %d", source.ID)); err != nil {
			return err
		}
		return recordHistory(tx, source, models.HistoryDuplication, string(source.TypeProduit), string(typ), user,
			fmt.Sprintf("dupliqué vers le produit %d", created.ID))
	})
	if err != nil {
		removeFiles(copied...)
		return nil, err
	}

	utils.LogInfo(map[string]interface{}{
		"source_id":    id,
		"produit_id":   created.ID,
		"type_produit": typ,
		"documents":    len(copied),
	}, "produit dupliqué")
	return created, nil
}

// DeleteProduit supprime un produit; le client est supprimé avec son dernier produit
func DeleteProduit(ctx context.Context, user *utils.LoginUser, id uint) (bool, error) {
	var (
		files         []string
		clientDeleted bool
	)
	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		produit, err := loadProduit(tx, user, id)
		if err != nil {
			return err
		}
		files, clientDeleted, err = deleteProduitRows(tx, produit)
		return err
	})
	if err != nil {
		return false, err
	}

	removeFiles(files...)
	utils.LogInfo(map[string]interface{}{
		"produit_id":     id,
		"client_deleted": clientDeleted,
	}, "produit supprimé")
	return clientDeleted, nil
}

// deleteProduitRows supprime un produit et ses rattachements, puis le client s'il n'a plus de produit
func deleteProduitRows(tx *gorm.DB, p *models.Produit) ([]string, bool, error) {
	var files []string
	if err := tx.Model(&models.Document{}).Where("produit_id = ?", p.ID).Pluck("stored_name", &files).Error; err != nil {
		return nil, false, err
	}
	for _, m := range []interface{}{
		&models.Document{},
		&models.Comment{},
		&models.Appointment{},
		&models.ProduitHistory{},
	} {
		if err := tx.Where("produit_id = ?", p.ID).Delete(m).Error; err != nil {
			return nil, false, err
		}
	}
	if err := tx.Delete(&models.Produit{}, p.ID).Error; err != nil {
		return nil, false, err
	}

	var remaining int64
	if err := tx.Model(&models.Produit{}).Where("client_id = ?", p.ClientID).Count(&remaining).Error; err != nil {
		return nil, false, err
	}
	if remaining > 0 {
		return files, false, nil
	}

	clientFiles, err := deleteClientRows(tx, p.ClientID)
	if err != nil {
		return nil, false, err
	}
	return append(files, clientFiles...), true, nil
}

// BulkDeleteProduits supprime plusieurs produits en une transaction
func BulkDeleteProduits(ctx context.Context, user *utils.LoginUser, ids []uint) (int, error) {
	var (
		files   []string
		deleted int
	)
	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			var produit models.Produit
			if err := tx.First(&produit, id).Error; err != nil {
				if repository.IsNotFound(err) {
					continue
				}
				return err
			}
			f, _, err := deleteProduitRows(tx, &produit)
			if err != nil {
				return err
			}
			files = append(files, f...)
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	removeFiles(files...)
	utils.LogInfo(map[string]interface{}{
		"requested": len(ids),
		"deleted":   deleted,
		"operator":  user.Username,
	}, "suppression en masse des produits")
	return deleted, nil
}

// BulkAssignProduits assigne (ou désassigne si assignedTo est nil) plusieurs produits
func BulkAssignProduits(ctx context.Context, user *utils.LoginUser, ids []uint, assignedTo *uint) (int, error) {
	updated := 0
	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateAssignee(tx, assignedTo); err != nil {
			return err
		}
		to := assigneeLabel(tx, assignedTo)

		var produits []models.Produit
		if err := tx.Where("id IN ?", ids).Find(&produits).Error; err != nil {
			return err
		}
		for i := range produits {
			p := &produits[i]
			if sameAssignee(p.AssignedTo, assignedTo) {
				continue
			}
			from := assigneeLabel(tx, p.AssignedTo)
			if err := tx.Model(p).Update("assigned_to", assignedTo).Error; err != nil {
				return err
			}
			p.AssignedTo = assignedTo
			if err := recordHistory(tx, p, models.HistoryAssignation, from, to, user, "assignation en masse"); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
