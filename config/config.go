package config

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Config configuration de l'application
type Config struct {
	Port  int
	Debug bool

	DBDriver    string
	DatabaseDSN string
	DBDebug     bool

	JWTKey        string
	TokenTTLHours int

	UploadDir   string
	MaxUploadMB int64

	EnrichmentBaseURL string
	GeoBaseURL        string

	RedisURL string
	MongoURI string
	MongoDB  string

	CORSOrigins []string
	// proxys dont X-Forwarded-For est accepté, vide = adresse TCP uniquement
	TrustedProxies []string

	AdminUsername string
	AdminPassword string

	LoginRatePerMinute int
}

var (
	loaded *Config
	once   sync.Once
)

// LoadConfig charge la configuration depuis l'environnement (fichier .env facultatif)
func LoadConfig() *Config {
	once.Do(func() {
		// .env absent en production : on ignore l'erreur
		_ = godotenv.Load()
		loaded = fromEnv()
	})
	return loaded
}

func fromEnv() *Config {
	return &Config{
		Port:               getInt("PORT", 8080),
		Debug:              getEnv("GIN_MODE", "debug") == "debug",
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DatabaseDSN:        getEnv("DATABASE_DSN", "database.db"),
		DBDebug:            getBool("DB_DEBUG", false),
		JWTKey:             getEnv("JWT_KEY", "change-me-in-production"),
		TokenTTLHours:      getInt("TOKEN_TTL_HOURS", 24),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadMB:        int64(getInt("MAX_UPLOAD_MB", 10)),
		EnrichmentBaseURL:  getEnv("ENRICHMENT_BASE_URL", "https://recherche-entreprises.api.gouv.fr"),
		GeoBaseURL:         getEnv("GEO_BASE_URL", "https://geo.api.gouv.fr"),
		RedisURL:           getEnv("REDIS_URL", ""),
		MongoURI:           getEnv("MONGO_URI", ""),
		MongoDB:            getEnv("MONGO_DB", "crm"),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		TrustedProxies:     splitList(getEnv("TRUSTED_PROXIES", "")),
		AdminUsername:      getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:      getEnv("ADMIN_PASSWORD", "admin123"),
		LoginRatePerMinute: getInt("LOGIN_RATE_PER_MINUTE", 10),
	}
}

// getEnv retourne la variable d'environnement ou la valeur par défaut
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
