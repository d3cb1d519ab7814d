package service

import (
	"context"
	"strings"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/utils"

	"gorm.io/gorm"
)

// Authenticate vérifie les identifiants et la restriction IP, renvoie l'utilisateur et son jeton
func Authenticate(ctx context.Context, username, password, remoteIP string) (*models.User, string, error) {
	var user models.User
	err := repository.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, "", ErrInvalidCredential
		}
		return nil, "", err
	}

	if !utils.VerifyPassword(password, user.PasswordHash) {
		utils.Logger.Warn().Str("username", user.Username).Msg("mot de passe invalide")
		return nil, "", ErrInvalidCredential
	}

	if !utils.IPAllowed(user.AllowedIP, remoteIP) {
		utils.Logger.Warn().
			Str("username", user.Username).
			Str("ip", remoteIP).
			Msg("connexion refusée: adresse IP non autorisée")
		return nil, "", ErrIPNotAllowed
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// GetUserByID utilisateur par identifiant
func GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := repository.WithContext(ctx).First(&user, id).Error; err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers tous les utilisateurs
func ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	err := repository.WithContext(ctx).Order("username").Find(&users).Error
	return users, err
}

// ListAssignableUsers utilisateurs auxquels on peut assigner un produit ou un lead
func ListAssignableUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	err := repository.WithContext(ctx).
		Select("id", "username", "full_name", "role").
		Order("username").
		Find(&users).Error
	return users, err
}

// CreateUser crée un compte
func CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     strings.TrimSpace(req.Username),
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		Role:         req.Role,
		AllowedIP:    strings.TrimSpace(req.AllowedIP),
	}

	err = repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUsernameFree(tx, user.Username, 0); err != nil {
			return err
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	utils.LogInfo(map[string]interface{}{"user_id": user.ID, "role": user.Role}, "utilisateur créé")
	return &user, nil
}

func ensureUsernameFree(tx *gorm.DB, username string, exceptID uint) error {
	var count int64
	if err := tx.Model(&models.User{}).
		Where("username = ? AND id <> ?", username, exceptID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	return nil
}

// UpdateUser mise à jour partielle d'un compte
func UpdateUser(ctx context.Context, id uint, req models.UpdateUserRequest) (*models.User, error) {
	var user models.User
	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if repository.IsNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}

		if req.Username != nil {
			name := strings.TrimSpace(*req.Username)
			if err := ensureUsernameFree(tx, name, id); err != nil {
				return err
			}
			user.Username = name
		}
		if req.FullName != nil {
			user.FullName = strings.TrimSpace(*req.FullName)
		}
		if req.Password != nil {
			hash, err := utils.HashPassword(*req.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}
		if req.Role != nil {
			user.Role = *req.Role
		}
		if req.AllowedIP != nil {
			user.AllowedIP = strings.TrimSpace(*req.AllowedIP)
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return &user, nil
}

// DeleteUser supprime un compte et libère ses produits et leads
func DeleteUser(ctx context.Context, operator *utils.LoginUser, id uint) error {
	if operator.ID == id {
		return ErrSelfDelete
	}

	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if repository.IsNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}
		if err := tx.Model(&models.Produit{}).Where("assigned_to = ?", id).Update("assigned_to", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Lead{}).Where("assigned_to = ?", id).Update("assigned_to", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return err
	}

	utils.LogInfo(map[string]interface{}{"user_id": id, "operator": operator.Username}, "utilisateur supprimé")
	return nil
}
