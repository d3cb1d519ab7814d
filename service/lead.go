package service

import (
	"context"
	"strings"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LeadFilter critères de la liste des leads
type LeadFilter struct {
	Search     string
	Statut     models.LeadStatut
	AssignedTo *uint
}

func scopeLeads(q *gorm.DB, user *utils.LoginUser) *gorm.DB {
	if user.IsAdmin() {
		return q
	}
	return q.Where("leads.assigned_to = ?", user.ID)
}

func leadQuery(db *gorm.DB, user *utils.LoginUser, f LeadFilter) *gorm.DB {
	q := scopeLeads(db.Model(&models.Lead{}), user)

	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"(LOWER(leads.first_name) LIKE ? OR LOWER(leads.last_name) LIKE ? OR LOWER(leads.email) LIKE ? "+
				"OR leads.phone LIKE ? OR LOWER(leads.societe) LIKE ?)",
			like, like, like, like, like,
		)
	}
	// la corbeille n'apparaît que sur demande explicite
	if f.Statut != "" {
		q = q.Where("leads.statut = ?", f.Statut)
	} else {
		q = q.Where("leads.statut <> ?", models.LeadTrash)
	}
	if f.AssignedTo != nil {
		q = q.Where("leads.assigned_to = ?", *f.AssignedTo)
	}
	return q
}

// loadLead charge un lead visible par l'utilisateur
func loadLead(tx *gorm.DB, user *utils.LoginUser, id uint) (*models.Lead, error) {
	var lead models.Lead
	if err := tx.First(&lead, id).Error; err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	if !user.IsAdmin() && (lead.AssignedTo == nil || *lead.AssignedTo != user.ID) {
		return nil, ErrLeadNotFound
	}
	return &lead, nil
}

// ListLeads liste paginée des leads
func ListLeads(ctx context.Context, user *utils.LoginUser, f LeadFilter, p utils.Pagination) ([]models.Lead, int64, error) {
	db := repository.WithContext(ctx)

	var total int64
	if err := leadQuery(db, user, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	leads := make([]models.Lead, 0)
	if err := leadQuery(db, user, f).
		Preload("AssignedUser").
		Order("leads.created_at DESC, leads.id DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&leads).Error; err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// CreateLead crée un lead
func CreateLead(ctx context.Context, user *utils.LoginUser, req models.LeadRequest) (*models.Lead, error) {
	lead := models.Lead{
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Email:      strings.TrimSpace(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
		Societe:    strings.TrimSpace(req.Societe),
		Adresse:    strings.TrimSpace(req.Adresse),
		CodePostal: strings.TrimSpace(req.CodePostal),
		Ville:      strings.TrimSpace(req.Ville),
		Siret:      strings.TrimSpace(req.Siret),
		Source:     strings.TrimSpace(req.Source),
		Statut:     req.Statut,
		AssignedTo: req.AssignedTo,
	}
	if lead.FirstName == "" || lead.LastName == "" {
		return nil, utils.CreateBadRequestError("Prénom et nom obligatoires")
	}
	if lead.Statut == "" {
		lead.Statut = models.LeadNouveau
	}
	if !user.IsAdmin() {
		lead.AssignedTo = &user.ID
	}

	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateAssignee(tx, lead.AssignedTo); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(&lead).Error
	})
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// GetLead détail d'un lead
func GetLead(ctx context.Context, user *utils.LoginUser, id uint) (*models.Lead, error) {
	db := repository.WithContext(ctx)
	if _, err := loadLead(db, user, id); err != nil {
		return nil, err
	}
	var lead models.Lead
	if err := db.Preload("AssignedUser").First(&lead, id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// UpdateLead mise à jour partielle d'un lead
func UpdateLead(ctx context.Context, user *utils.LoginUser, id uint, req models.UpdateLeadRequest) (*models.Lead, error) {
	if req.AssignedTo != nil && !user.IsAdmin() {
		return nil, utils.CreateForbiddenError()
	}

	var lead *models.Lead
	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		lead, err = loadLead(tx, user, id)
		if err != nil {
			return err
		}

		set := func(dst *string, v *string) {
			if v != nil {
				*dst = strings.TrimSpace(*v)
			}
		}
		set(&lead.FirstName, req.FirstName)
		set(&lead.LastName, req.LastName)
		set(&lead.Email, req.Email)
		set(&lead.Phone, req.Phone)
		set(&lead.Societe, req.Societe)
		set(&lead.Adresse, req.Adresse)
		set(&lead.CodePostal, req.CodePostal)
		set(&lead.Ville, req.Ville)
		set(&lead.Siret, req.Siret)
		set(&lead.Source, req.Source)
		if req.Statut != nil {
			lead.Statut = *req.Statut
		}
		if req.AssignedTo != nil {
			if err := validateAssignee(tx, req.AssignedTo); err != nil {
				return err
			}
			lead.AssignedTo = req.AssignedTo
		}
		return tx.Omit(clause.Associations).Save(lead).Error
	})
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// DeleteLead supprime un lead avec ses commentaires et rendez-vous
func DeleteLead(ctx context.Context, user *utils.LoginUser, id uint) error {
	return repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lead, err := loadLead(tx, user, id)
		if err != nil {
			return err
		}
		if err := tx.Where("lead_id = ?", lead.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lead_id = ?", lead.ID).Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Lead{}, lead.ID).Error
	})
}

// ConvertLead transforme un lead en client et produit, migre ses commentaires
// et rendez-vous puis supprime le lead
func ConvertLead(ctx context.Context, user *utils.LoginUser, id uint, req models.ConvertLeadRequest) (*models.Client, error) {
	var client models.Client

	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lead, err := loadLead(tx, user, id)
		if err != nil {
			return err
		}

		client = clientFromFields(req.ClientFields)
		fillFromLead(&client, lead)
		if err := tx.Omit(clause.Associations).Create(&client).Error; err != nil {
			return err
		}

		produit := models.Produit{
			ClientID:          client.ID,
			TypeProduit:       req.TypeProduit,
			Statut:            models.StatutNouveau,
			DonneesTechniques: req.DonneesTechniques,
			AssignedTo:        lead.AssignedTo,
		}
		if produit.AssignedTo == nil && !user.IsAdmin() {
			produit.AssignedTo = &user.ID
		}
		if err := tx.Omit(clause.Associations).Create(&produit).Error; err != nil {
			return err
		}

		moved := map[string]interface{}{
			"lead_id":    nil,
			"client_id":  client.ID,
			"produit_id": produit.ID,
		}
		if err := tx.Model(&models.Comment{}).Where("lead_id = ?", lead.ID).Updates(moved).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Appointment{}).Where("lead_id = ?", lead.ID).Updates(moved).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Lead{}, lead.ID).Error; err != nil {
			return err
		}

		client.Produits = []models.Produit{produit}
		return recordHistory(tx, &produit, models.HistoryConversion, "lead", string(models.StatutNouveau), user,
			"converti depuis le lead "+lead.FirstName+" "+lead.LastName)
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo(map[string]interface{}{
		"lead_id":   id,
		"client_id": client.ID,
		"operator":  user.Username,
	}, "lead converti")
	return &client, nil
}

// fillFromLead complète les champs vides du client avec ceux du lead
func fillFromLead(c *models.Client, l *models.Lead) {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&c.Societe, l.Societe)
	fill(&c.Societe, strings.TrimSpace(l.FirstName+" "+l.LastName))
	fill(&c.Adresse, l.Adresse)
	fill(&c.CodePostal, l.CodePostal)
	fill(&c.Ville, l.Ville)
	fill(&c.Siret, l.Siret)
	fill(&c.Telephone, l.Phone)
	fill(&c.Email, l.Email)
	fill(&c.SignataireNom, l.LastName)
	fill(&c.SignatairePrenom, l.FirstName)
	fill(&c.SignataireTel, l.Phone)
	fill(&c.SignataireEmail, l.Email)
}

// BulkAssignLeads assigne plusieurs leads
func BulkAssignLeads(ctx context.Context, ids []uint, assignedTo *uint) (int, error) {
	var updated int64
	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateAssignee(tx, assignedTo); err != nil {
			return err
		}
		res := tx.Model(&models.Lead{}).Where("id IN ?", ids).Update("assigned_to", assignedTo)
		updated = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, err
	}
	return int(updated), nil
}
