package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/utils"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// AllModels modèles gérés par AutoMigrate
var AllModels = []interface{}{
	&models.User{},
	&models.Client{},
	&models.Produit{},
	&models.ProduitHistory{},
	&models.Lead{},
	&models.Comment{},
	&models.Appointment{},
	&models.Document{},
	&models.Statut{},
	&models.TemperatureData{},
	&models.CoefficientData{},
	&models.OperationLog{},
}

// InitDatabase ouvre la base (sqlite ou postgres) et applique les migrations
func InitDatabase(driver, dsn string, debug bool) error {
	conn, err := Open(driver, dsn, debug)
	if err != nil {
		return err
	}
	if err := Migrate(conn); err != nil {
		return err
	}

	db = conn
	utils.Logger.Info().Str("driver", driver).Msg("base de données connectée")
	return nil
}

// Open ouvre la connexion sans migrer
func Open(driver, dsn string, debug bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}
	// l'intégrité référentielle est gérée par les services
	cfg := &gorm.Config{
		Logger:                                   logger.Default.LogMode(logLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	var dialector gorm.Dialector
	switch driver {
	case "", "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("pilote de base inconnu: %s", driver)
	}

	var (
		conn *gorm.DB
		err  error
	)
	// postgres peut démarrer après l'application
	for i := 0; i < 5; i++ {
		conn, err = gorm.Open(dialector, cfg)
		if err == nil {
			break
		}
		utils.Logger.Warn().Err(err).Msgf("connexion à la base échouée, nouvelle tentative (%d/5)", i+1)
		time.Sleep(time.Duration(500*(i+1)) * time.Millisecond)
	}
	if err != nil {
		return nil, fmt.Errorf("connexion à la base échouée: %w", err)
	}

	if driver == "" || driver == "sqlite" {
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		// SQLite n'accepte qu'un écrivain à la fois
		sqlDB.SetMaxOpenConns(1)
	}
	return conn, nil
}

// Migrate applique le schéma
func Migrate(conn *gorm.DB) error {
	for _, m := range AllModels {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("migration %T: %w", m, err)
		}
	}
	return nil
}

// colonnes ajoutées après la première mise en production de client_base
var clientLateColumns = []string{"Ville", "VilleTravaux"}

// EnsureClientColumns ajoute à une table client_base existante les colonnes manquantes
// et renvoie leurs noms
func EnsureClientColumns(conn *gorm.DB) ([]string, error) {
	m := conn.Migrator()
	if !m.HasTable(&models.Client{}) {
		return nil, nil
	}

	var added []string
	for _, field := range clientLateColumns {
		if m.HasColumn(&models.Client{}, field) {
			continue
		}
		if err := m.AddColumn(&models.Client{}, field); err != nil {
			return added, fmt.Errorf("ajout de la colonne %s: %w", field, err)
		}
		added = append(added, field)
	}
	return added, nil
}

// DB renvoie la connexion courante
func DB() *gorm.DB {
	if db == nil {
		panic("repository: base de données non initialisée")
	}
	return db
}

// WithContext raccourci pour DB().WithContext
func WithContext(ctx context.Context) *gorm.DB {
	return DB().WithContext(ctx)
}

// CloseDatabase ferme la connexion
func CloseDatabase() {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			utils.Logger.Error().Err(err).Msg("fermeture de la base échouée")
			return
		}
	}
	utils.Logger.Info().Msg("base de données fermée")
}

// InitializeAdminAccount crée le compte administrateur par défaut s'il n'existe aucun admin
func InitializeAdminAccount(ctx context.Context, username, password string) error {
	var count int64
	if err := WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("vérification du compte admin: %w", err)
	}
	if count > 0 {
		utils.Logger.Info().Msg("compte administrateur existant, création ignorée")
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:     username,
		FullName:     "Administrateur",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("création du compte admin: %w", err)
	}

	utils.Logger.Info().Str("username", username).Msg("compte administrateur par défaut créé")
	return nil
}

// GetDatabaseStatus compte les lignes de chaque table
func GetDatabaseStatus(ctx context.Context) map[string]interface{} {
	result := make(map[string]interface{})
	for _, m := range AllModels {
		stmt := &gorm.Statement{DB: DB()}
		if err := stmt.Parse(m); err != nil {
			continue
		}
		table := stmt.Schema.Table

		var count int64
		if err := WithContext(ctx).Model(m).Count(&count).Error; err != nil {
			utils.Logger.Error().Err(err).Str("table", table).Msg("comptage de la table échoué")
			result[table] = map[string]interface{}{"count": 0, "error": err.Error()}
			continue
		}
		result[table] = map[string]interface{}{"count": count}
	}
	return result
}

// FindUser charge un utilisateur par identifiant, nil s'il n'existe plus
func FindUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := WithContext(ctx).First(&user, id).Error; err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// IsNotFound indique une absence d'enregistrement
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
