package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultTemperatureInterieure = 19.0
	// surface couverte par un déstratificateur selon la hauteur sous plafond
	surfaceParUniteBasse = 400.0
	surfaceParUniteHaute = 300.0
	hauteurSeuil         = 8.0
)

// ListTemperatureData températures de base par département
func ListTemperatureData(ctx context.Context) ([]models.TemperatureData, error) {
	rows := make([]models.TemperatureData, 0)
	err := repository.WithContext(ctx).Order("departement").Find(&rows).Error
	return rows, err
}

// SaveTemperatureData insère ou met à jour les températures par département
func SaveTemperatureData(ctx context.Context, rows []models.TemperatureData) ([]models.TemperatureData, error) {
	for i := range rows {
		rows[i].ID = 0
		rows[i].Departement = strings.ToUpper(strings.TrimSpace(rows[i].Departement))
		if rows[i].Departement == "" {
			return nil, utils.CreateBadRequestError("Département manquant")
		}
	}

	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "departement"}},
				DoUpdates: clause.AssignmentColumns([]string{"nom", "zone", "temperature_base"}),
			}).Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ListTemperatureData(ctx)
}

// ListCoefficientData coefficients du calculateur
func ListCoefficientData(ctx context.Context) ([]models.CoefficientData, error) {
	rows := make([]models.CoefficientData, 0)
	err := repository.WithContext(ctx).Order("category, max_value, key").Find(&rows).Error
	return rows, err
}

// SaveCoefficientData insère ou met à jour les coefficients
func SaveCoefficientData(ctx context.Context, rows []models.CoefficientData) ([]models.CoefficientData, error) {
	for i := range rows {
		rows[i].ID = 0
		rows[i].Category = strings.TrimSpace(rows[i].Category)
		rows[i].Key = strings.TrimSpace(rows[i].Key)
		if rows[i].Category != models.CoefficientIsolation && rows[i].Category != models.CoefficientHauteur {
			return nil, utils.CreateBadRequestError("Catégorie de coefficient inconnue: " + rows[i].Category)
		}
		if rows[i].Key == "" || rows[i].Value <= 0 {
			return nil, utils.CreateBadRequestError("Clé et valeur positive obligatoires")
		}
	}

	err := repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "category"}, {Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"label", "value", "max_value"}),
			}).Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ListCoefficientData(ctx)
}

// Calculate dimensionne une installation de déstratification
func Calculate(ctx context.Context, req models.DimensioningRequest) (*models.DimensioningResult, error) {
	db := repository.WithContext(ctx)

	var temp models.TemperatureData
	if err := db.Where("departement = ?", strings.ToUpper(strings.TrimSpace(req.Departement))).First(&temp).Error; err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrDepartementNotFound
		}
		return nil, err
	}

	var isolation models.CoefficientData
	if err := db.Where("category = ? AND key = ?", models.CoefficientIsolation, req.Isolation).First(&isolation).Error; err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrIsolationNotFound
		}
		return nil, err
	}

	var hauteurs []models.CoefficientData
	if err := db.Where("category = ?", models.CoefficientHauteur).Find(&hauteurs).Error; err != nil {
		return nil, err
	}

	tint := defaultTemperatureInterieure
	if req.TemperatureInterieure != nil {
		tint = *req.TemperatureInterieure
	}

	return computeDimensioning(req.Surface, req.Hauteur, tint, temp.TemperatureBase, isolation.Value, heightFactor(hauteurs, req.Hauteur)), nil
}

// heightFactor facteur de la première tranche couvrant la hauteur, la plus haute sinon
func heightFactor(rows []models.CoefficientData, hauteur float64) float64 {
	if len(rows) == 0 {
		return 1
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].MaxValue < rows[j].MaxValue })
	for _, r := range rows {
		if hauteur <= r.MaxValue {
			return r.Value
		}
	}
	return rows[len(rows)-1].Value
}

func computeDimensioning(surface, hauteur, tint, tbase, g, factor float64) *models.DimensioningResult {
	volume := surface * hauteur
	deltaT := tint - tbase
	if deltaT < 0 {
		deltaT = 0
	}

	perUnit := surfaceParUniteBasse
	if hauteur > hauteurSeuil {
		perUnit = surfaceParUniteHaute
	}
	units := int(math.Ceil(surface / perUnit))
	if units < 1 {
		units = 1
	}

	return &models.DimensioningResult{
		Volume:                round2(volume),
		TemperatureBase:       tbase,
		TemperatureInterieure: tint,
		DeltaT:                round2(deltaT),
		CoefficientG:          g,
		FacteurHauteur:        factor,
		DeperditionsKW:        round2(g * volume * deltaT * factor / 1000),
		NombreDestratifieurs:  units,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
