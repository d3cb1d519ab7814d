package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/france-ecoenergie/crm_back/config"
	"github.com/france-ecoenergie/crm_back/middleware"
	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/routes"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/gin-gonic/gin"
)

// NewRouter moteur gin avec la chaîne de middlewares et toutes les routes
func NewRouter() *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(config.LoadConfig().TrustedProxies); err != nil {
		utils.Logger.Error().Err(err).Msg("TRUSTED_PROXIES invalide, aucun proxy accepté")
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.OperationLoggerMiddleware())

	routes.RegisterRoutes(router)
	return router
}

func main() {
	utils.InitLogger()
	cfg := config.LoadConfig()

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.RegisterValidators()

	if err := repository.InitDatabase(cfg.DBDriver, cfg.DatabaseDSN, cfg.DBDebug); err != nil {
		utils.Logger.Fatal().Err(err).Msg("connexion à la base impossible")
	}
	defer repository.CloseDatabase()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)

	if cfg.MongoURI != "" {
		if err := repository.InitMongoDB(startCtx, cfg.MongoURI, cfg.MongoDB); err != nil {
			utils.Logger.Warn().Err(err).Msg("MongoDB indisponible, journal d'audit en base SQL")
		} else {
			defer repository.CloseMongoDB(context.Background())
		}
	}
	if cfg.RedisURL != "" {
		if err := repository.InitRedis(startCtx, cfg.RedisURL); err != nil {
			utils.Logger.Warn().Err(err).Msg("Redis indisponible, cache et limiteur en mémoire")
		} else {
			defer repository.CloseRedis()
		}
	}

	utils.Logger.Info().Msg("initialisation des données de référence...")
	if err := repository.SeedReferenceData(startCtx); err != nil {
		utils.Logger.Error().Err(err).Msg("initialisation des données de référence échouée")
	}
	if err := repository.InitializeAdminAccount(startCtx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		utils.Logger.Error().Err(err).Msg("initialisation du compte administrateur échouée")
	}
	cancelStart()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		utils.Logger.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("création du dossier de dépôt impossible")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		utils.Logger.Info().Msgf("serveur démarré sur le port %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal().Err(err).Msg("démarrage du serveur impossible")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.Logger.Info().Msg("arrêt du serveur...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("arrêt du serveur en erreur")
	}

	utils.Logger.Info().Msg("serveur arrêté")
}
