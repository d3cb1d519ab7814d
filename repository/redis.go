package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedis connecte le cache Redis (facultatif)
func InitRedis(ctx context.Context, url string) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return fmt.Errorf("URL redis invalide: %w", err)
	}

	opts.PoolTimeout = 30 * time.Second
	opts.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("ping redis échoué: %w", err)
	}

	redisClient = client
	utils.Logger.Info().Str("addr", opts.Addr).Msg("redis connecté")
	return nil
}

// Redis renvoie le client Redis, nil si non configuré
func Redis() *redis.Client {
	return redisClient
}

// SetRedis remplace le client Redis courant
func SetRedis(client *redis.Client) {
	redisClient = client
}

// CloseRedis ferme la connexion Redis
func CloseRedis() {
	if redisClient == nil {
		return
	}
	if err := redisClient.Close(); err != nil {
		utils.Logger.Error().Err(err).Msg("fermeture redis échouée")
	}
	redisClient = nil
}
