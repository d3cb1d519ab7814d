package service

import (
	"context"
	"errors"
	"strings"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClientFilter critères de la liste des produits clients
type ClientFilter struct {
	Search      string
	Statut      models.ProduitStatut
	TypeProduit models.TypeProduit
	AssignedTo  *uint
}

// clientFromFields construit un client à partir des champs reçus
func clientFromFields(f models.ClientFields) models.Client {
	return models.Client{
		Societe:            strings.TrimSpace(f.Societe),
		Adresse:            strings.TrimSpace(f.Adresse),
		CodePostal:         strings.TrimSpace(f.CodePostal),
		Ville:              strings.TrimSpace(f.Ville),
		Siret:              strings.TrimSpace(f.Siret),
		Telephone:          strings.TrimSpace(f.Telephone),
		Email:              strings.TrimSpace(f.Email),
		SignataireNom:      strings.TrimSpace(f.SignataireNom),
		SignatairePrenom:   strings.TrimSpace(f.SignatairePrenom),
		SignataireFonction: strings.TrimSpace(f.SignataireFonction),
		SignataireTel:      strings.TrimSpace(f.SignataireTel),
		SignataireEmail:    strings.TrimSpace(f.SignataireEmail),
		AdresseTravaux:     strings.TrimSpace(f.AdresseTravaux),
		CodePostalTravaux:  strings.TrimSpace(f.CodePostalTravaux),
		VilleTravaux:       strings.TrimSpace(f.VilleTravaux),
		ContactTravauxNom:  strings.TrimSpace(f.ContactTravauxNom),
		ContactTravauxTel:  strings.TrimSpace(f.ContactTravauxTel),
		ContactTravauxEm:   strings.TrimSpace(f.ContactTravauxEm),
	}
}

// scopeProduits restreint une requête sur client_produits aux produits visibles par l'utilisateur
func scopeProduits(q *gorm.DB, user *utils.LoginUser) *gorm.DB {
	if user.IsAdmin() {
		return q
	}
	return q.Where("client_produits.assigned_to = ?", user.ID)
}

// validateAssignee vérifie que l'utilisateur assigné existe
func validateAssignee(tx *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrInvalidAssignee
	}
	return nil
}

// loadClient charge un client en vérifiant que l'utilisateur y a accès
func loadClient(tx *gorm.DB, user *utils.LoginUser, id uint) (*models.Client, error) {
	var client models.Client
	if err := tx.First(&client, id).Error; err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if user.IsAdmin() {
		return &client, nil
	}

	var count int64
	if err := tx.Model(&models.Produit{}).
		Where("client_id = ? AND assigned_to = ?", id, user.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrClientNotFound
	}
	return &client, nil
}

// produitQuery requête filtrée sur les produits joints à leur client
func produitQuery(db *gorm.DB, user *utils.LoginUser, f ClientFilter) *gorm.DB {
	q := db.Model(&models.Produit{}).
		Joins("JOIN client_base ON client_base.id = client_produits.client_id")
	q = scopeProduits(q, user)

	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"(LOWER(client_base.societe) LIKE ? OR client_base.siret LIKE ? OR LOWER(client_base.ville) LIKE ? "+
				"OR client_base.code_postal LIKE ? OR LOWER(client_base.signataire_nom) LIKE ? "+
				"OR LOWER(client_base.email) LIKE ? OR client_base.telephone LIKE ?)",
			like, like, like, like, like, like, like,
		)
	}
	if f.Statut != "" {
		q = q.Where("client_produits.statut = ?", f.Statut)
	}
	if f.TypeProduit != "" {
		q = q.Where("client_produits.type_produit = ?", f.TypeProduit)
	}
	if f.AssignedTo != nil {
		q = q.Where("client_produits.assigned_to = ?", *f.AssignedTo)
	}
	return q
}

// ListProduits liste les produits avec leur client, une ligne par produit
func ListProduits(ctx context.Context, user *utils.LoginUser, f ClientFilter, p utils.Pagination) ([]models.Produit, int64, error) {
	db := repository.WithContext(ctx)

	var total int64
	if err := produitQuery(db, user, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	produits := make([]models.Produit, 0)
	err := produitQuery(db, user, f).
		Select("client_produits.*").
		Preload("Client").
		Preload("AssignedUser").
		Order("client_produits.updated_at DESC, client_produits.id DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&produits).Error
	if err != nil {
		return nil, 0, err
	}

	utils.LogDbOperation("list", "client_produits", f, len(produits))
	return produits, total, nil
}

// CreateClient crée un client et son premier produit
func CreateClient(ctx context.Context, user *utils.LoginUser, req models.CreateClientRequest) (*models.Client, error) {
	client := clientFromFields(req.ClientFields)
	if client.Societe == "" {
		return nil, utils.CreateBadRequestError("La société est obligatoire")
	}

	statut := req.Statut
	if statut == "" {
		statut = models.StatutNouveau
	}
	assignedTo := req.AssignedTo
	// un télépro ne crée que pour lui-même
	if !user.IsAdmin() {
		assignedTo = &user.ID
	}

	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateAssignee(tx, assignedTo); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&client).Error; err != nil {
			return err
		}
		produit := models.Produit{
			ClientID:          client.ID,
			TypeProduit:       req.TypeProduit,
			Statut:            statut,
			DonneesTechniques: req.DonneesTechniques,
			AssignedTo:        assignedTo,
		}
		if err := tx.Omit(clause.Associations).Create(&produit).Error; err != nil {
			return err
		}
		client.Produits = []models.Produit{produit}
		return recordHistory(tx, &produit, models.HistoryCreation, "", string(statut), user, "")
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo(map[string]interface{}{
		"client_id":    client.ID,
		"type_produit": req.TypeProduit,
		"operator":     user.Username,
	}, "client créé")
	return &client, nil
}

// GetClient client avec ses produits visibles
func GetClient(ctx context.Context, user *utils.LoginUser, id uint) (*models.Client, error) {
	db := repository.WithContext(ctx)
	client, err := loadClient(db, user, id)
	if err != nil {
		return nil, err
	}

	produits := make([]models.Produit, 0)
	q := scopeProduits(db.Where("client_id = ?", id), user)
	if err := q.Preload("AssignedUser").Order("id").Find(&produits).Error; err != nil {
		return nil, err
	}
	client.Produits = produits
	return client, nil
}

// UpdateClient met à jour les champs de base d'un client
func UpdateClient(ctx context.Context, user *utils.LoginUser, id uint, req models.UpdateClientRequest) (*models.Client, error) {
	var client *models.Client
	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		client, err = loadClient(tx, user, id)
		if err != nil {
			return err
		}
		applyClientUpdate(client, req)
		return tx.Omit(clause.Associations).Save(client).Error
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func applyClientUpdate(c *models.Client, req models.UpdateClientRequest) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&c.Societe, req.Societe)
	set(&c.Adresse, req.Adresse)
	set(&c.CodePostal, req.CodePostal)
	set(&c.Ville, req.Ville)
	set(&c.Siret, req.Siret)
	set(&c.Telephone, req.Telephone)
	set(&c.Email, req.Email)
	set(&c.SignataireNom, req.SignataireNom)
	set(&c.SignatairePrenom, req.SignatairePrenom)
	set(&c.SignataireFonction, req.SignataireFonction)
	set(&c.SignataireTel, req.SignataireTel)
	set(&c.SignataireEmail, req.SignataireEmail)
	set(&c.AdresseTravaux, req.AdresseTravaux)
	set(&c.CodePostalTravaux, req.CodePostalTravaux)
	set(&c.VilleTravaux, req.VilleTravaux)
	set(&c.ContactTravauxNom, req.ContactTravauxNom)
	set(&c.ContactTravauxTel, req.ContactTravauxTel)
	set(&c.ContactTravauxEm, req.ContactTravauxEm)
}

// DeleteClient supprime un client et tout ce qui lui est rattaché
func DeleteClient(ctx context.Context, id uint) error {
	var files []string
	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, id).Error; err != nil {
			if repository.IsNotFound(err) {
				return ErrClientNotFound
			}
			return err
		}
		var err error
		files, err = deleteClientRows(tx, id)
		return err
	})
	if err != nil {
		return err
	}

	removeFiles(files...)
	utils.LogInfo(map[string]interface{}{"client_id": id}, "client supprimé")
	return nil
}

// deleteClientRows supprime le client et ses dépendances, renvoie les fichiers à effacer
func deleteClientRows(tx *gorm.DB, clientID uint) ([]string, error) {
	var files []string
	if err := tx.Model(&models.Document{}).Where("client_id = ?", clientID).Pluck("stored_name", &files).Error; err != nil {
		return nil, err
	}

	for _, m := range []interface{}{
		&models.Document{},
		&models.Comment{},
		&models.Appointment{},
		&models.ProduitHistory{},
		&models.Produit{},
	} {
		if err := tx.Where("client_id = ?", clientID).Delete(m).Error; err != nil {
			return nil, err
		}
	}
	if err := tx.Delete(&models.Client{}, clientID).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// isUniqueViolation détecte une violation d'unicité (sqlite ou postgres)
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
