package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "DATABASE_DSN", "TOKEN_TTL_HOURS", "CORS_ORIGINS", "REDIS_URL", "LOGIN_RATE_PER_MINUTE", "TRUSTED_PROXIES"} {
		t.Setenv(key, "")
	}

	cfg := fromEnv()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "database.db", cfg.DatabaseDSN)
	assert.Equal(t, 24, cfg.TokenTTLHours)
	assert.EqualValues(t, 10, cfg.MaxUploadMB)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.LoginRatePerMinute)
	assert.Nil(t, cfg.TrustedProxies)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_DEBUG", "true")
	t.Setenv("MAX_UPLOAD_MB", "25")
	t.Setenv("CORS_ORIGINS", " https://crm.france-ecoenergie.fr , ,https://admin.france-ecoenergie.fr")
	t.Setenv("TOKEN_TTL_HOURS", "douze")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 172.16.0.0/12")

	cfg := fromEnv()
	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.True(t, cfg.DBDebug)
	assert.EqualValues(t, 25, cfg.MaxUploadMB)
	assert.Equal(t, []string{"https://crm.france-ecoenergie.fr", "https://admin.france-ecoenergie.fr"}, cfg.CORSOrigins)
	assert.Equal(t, 24, cfg.TokenTTLHours, "valeur invalide, défaut conservé")
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.TrustedProxies)
}

func TestLoadConfigIsCached(t *testing.T) {
	assert.Same(t, LoadConfig(), LoadConfig())
}
