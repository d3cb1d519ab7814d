// Commande migrate : applique le schéma sur la base configurée puis se termine.
package main

import (
	"os"

	"github.com/france-ecoenergie/crm_back/config"
	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/utils"
)

func main() {
	utils.InitLogger()
	cfg := config.LoadConfig()

	if err := run(cfg); err != nil {
		utils.Logger.Error().Err(err).Msg("migration échouée")
		os.Exit(1)
	}
	utils.Logger.Info().Msg("migration terminée")
}

func run(cfg *config.Config) error {
	conn, err := repository.Open(cfg.DBDriver, cfg.DatabaseDSN, cfg.DBDebug)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	added, err := repository.EnsureClientColumns(conn)
	if err != nil {
		return err
	}
	for _, col := range added {
		utils.Logger.Info().Str("column", col).Msg("colonne ajoutée à client_base")
	}

	return repository.Migrate(conn)
}
