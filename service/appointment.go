package service

import (
	"context"
	"strings"
	"time"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const dateLayout = "2006-01-02"

// ListAppointments rendez-vous du calendrier entre deux dates incluses (AAAA-MM-JJ)
func ListAppointments(ctx context.Context, user *utils.LoginUser, start, end string) ([]models.Appointment, error) {
	q := repository.WithContext(ctx).Model(&models.Appointment{})
	if !user.IsAdmin() {
		q = q.Where("user_id = ?", user.ID)
	}
	if start != "" {
		if _, err := time.Parse(dateLayout, start); err != nil {
			return nil, utils.CreateBadRequestError("Date de début invalide")
		}
		q = q.Where("date >= ?", start)
	}
	if end != "" {
		if _, err := time.Parse(dateLayout, end); err != nil {
			return nil, utils.CreateBadRequestError("Date de fin invalide")
		}
		q = q.Where("date <= ?", end)
	}

	appointments := make([]models.Appointment, 0)
	err := q.Preload("User").Order("date, time, id").Find(&appointments).Error
	return appointments, err
}

// ListClientAppointments rendez-vous d'un client
func ListClientAppointments(ctx context.Context, user *utils.LoginUser, clientID uint, produitID *uint) ([]models.Appointment, error) {
	db := repository.WithContext(ctx)
	target, err := clientAttachment(db, user, clientID, produitID)
	if err != nil {
		return nil, err
	}
	return listAppointments(db, user, target)
}

// ListLeadAppointments rendez-vous d'un lead
func ListLeadAppointments(ctx context.Context, user *utils.LoginUser, leadID uint) ([]models.Appointment, error) {
	db := repository.WithContext(ctx)
	target, err := leadAttachment(db, user, leadID)
	if err != nil {
		return nil, err
	}
	return listAppointments(db, user, target)
}

func listAppointments(db *gorm.DB, user *utils.LoginUser, target attachment) ([]models.Appointment, error) {
	appointments := make([]models.Appointment, 0)
	err := target.scope(db.Model(&models.Appointment{}), user).
		Preload("User").
		Order("date, time, id").
		Find(&appointments).Error
	return appointments, err
}

// CreateAppointment crée un rendez-vous rattaché à un client ou à un lead
func CreateAppointment(ctx context.Context, user *utils.LoginUser, req models.AppointmentRequest) (*models.Appointment, error) {
	var appointment *models.Appointment
	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var (
			target attachment
			err    error
		)
		switch {
		case req.LeadID != nil:
			target, err = leadAttachment(tx, user, *req.LeadID)
		case req.ClientID != nil:
			target, err = clientAttachment(tx, user, *req.ClientID, req.ProduitID)
		default:
			err = utils.CreateBadRequestError("client_id ou lead_id obligatoire")
		}
		if err != nil {
			return err
		}

		appointment = &models.Appointment{
			Title:     strings.TrimSpace(req.Title),
			Date:      req.Date,
			Time:      req.Time,
			Location:  strings.TrimSpace(req.Location),
			Notes:     req.Notes,
			ClientID:  target.ClientID,
			ProduitID: target.ProduitID,
			LeadID:    target.LeadID,
			UserID:    user.ID,
		}
		return tx.Omit(clause.Associations).Create(appointment).Error
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

func loadOwnAppointment(tx *gorm.DB, user *utils.LoginUser, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := tx.First(&appointment, id).Error; err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	if !user.IsAdmin() && appointment.UserID != user.ID {
		return nil, ErrAppointmentNotFound
	}
	return &appointment, nil
}

// UpdateAppointment mise à jour partielle d'un rendez-vous
func UpdateAppointment(ctx context.Context, user *utils.LoginUser, id uint, req models.UpdateAppointmentRequest) (*models.Appointment, error) {
	var appointment *models.Appointment
	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		appointment, err = loadOwnAppointment(tx, user, id)
		if err != nil {
			return err
		}
		if req.Title != nil {
			appointment.Title = strings.TrimSpace(*req.Title)
		}
		if req.Date != nil {
			appointment.Date = *req.Date
		}
		if req.Time != nil {
			appointment.Time = *req.Time
		}
		if req.Location != nil {
			appointment.Location = strings.TrimSpace(*req.Location)
		}
		if req.Notes != nil {
			appointment.Notes = *req.Notes
		}
		return tx.Omit(clause.Associations).Save(appointment).Error
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// DeleteAppointment supprime un rendez-vous
func DeleteAppointment(ctx context.Context, user *utils.LoginUser, id uint) error {
	return repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		appointment, err := loadOwnAppointment(tx, user, id)
		if err != nil {
			return err
		}
		return tx.Delete(appointment).Error
	})
}
