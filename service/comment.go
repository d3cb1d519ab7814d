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

// ListClientComments commentaires d'un client, filtrés sur un produit si précisé
func ListClientComments(ctx context.Context, user *utils.LoginUser, clientID uint, produitID *uint) ([]models.Comment, error) {
	db := repository.WithContext(ctx)
	target, err := clientAttachment(db, user, clientID, produitID)
	if err != nil {
		return nil, err
	}
	return listComments(db, user, target)
}

// ListLeadComments commentaires d'un lead
func ListLeadComments(ctx context.Context, user *utils.LoginUser, leadID uint) ([]models.Comment, error) {
	db := repository.WithContext(ctx)
	target, err := leadAttachment(db, user, leadID)
	if err != nil {
		return nil, err
	}
	return listComments(db, user, target)
}

func listComments(db *gorm.DB, user *utils.LoginUser, target attachment) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	err := target.scope(db.Model(&models.Comment{}), user).
		Preload("User").
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	return comments, err
}

// AddClientComment ajoute un commentaire sur un client ou un de ses produits
func AddClientComment(ctx context.Context, user *utils.LoginUser, clientID uint, req models.CommentRequest) (*models.Comment, error) {
	var comment *models.Comment
	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := clientAttachment(tx, user, clientID, req.ProduitID)
		if err != nil {
			return err
		}
		comment, err = createComment(tx, user, target, req.Content)
		return err
	})
	return comment, err
}

// AddLeadComment ajoute un commentaire sur un lead
func AddLeadComment(ctx context.Context, user *utils.LoginUser, leadID uint, req models.CommentRequest) (*models.Comment, error) {
	var comment *models.Comment
	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := leadAttachment(tx, user, leadID)
		if err != nil {
			return err
		}
		comment, err = createComment(tx, user, target, req.Content)
		return err
	})
	return comment, err
}

func createComment(tx *gorm.DB, user *utils.LoginUser, target attachment, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, utils.CreateBadRequestError("Le commentaire est vide")
	}
	comment := models.Comment{
		Content:   content,
		ClientID:  target.ClientID,
		ProduitID: target.ProduitID,
		LeadID:    target.LeadID,
		UserID:    user.ID,
	}
	if err := tx.Omit(clause.Associations).Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// loadOwnComment charge un commentaire modifiable par l'utilisateur (auteur ou admin)
func loadOwnComment(tx *gorm.DB, user *utils.LoginUser, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := tx.First(&comment, id).Error; err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if !user.IsAdmin() && comment.UserID != user.ID {
		return nil, utils.CreateForbiddenError()
	}
	return &comment, nil
}

// UpdateComment modifie le texte d'un commentaire
func UpdateComment(ctx context.Context, user *utils.LoginUser, id uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, utils.CreateBadRequestError("Le commentaire est vide")
	}

	var comment *models.Comment
	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		comment, err = loadOwnComment(tx, user, id)
		if err != nil {
			return err
		}
		comment.Content = content
		return tx.Omit(clause.Associations).Save(comment).Error
	})
	return comment, err
}

// DeleteComment supprime un commentaire
func DeleteComment(ctx context.Context, user *utils.LoginUser, id uint) error {
	return repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comment, err := loadOwnComment(tx, user, id)
		if err != nil {
			return err
		}
		return tx.Delete(comment).Error
	})
}
