package utils

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger journal global
var Logger = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.WarnLevel)

// InitLogger initialise le système de journalisation
func InitLogger() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	Logger = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(zerolog.InfoLevel)

	if os.Getenv("GIN_MODE") == "debug" {
		Logger = Logger.Level(zerolog.DebugLevel)
	}

	Logger.Info().Msg("journalisation initialisée")
}

// LogApiRequest journalise une requête API
func LogApiRequest(method, url string, params, body interface{}, headers map[string]string) {
	if headers != nil {
		if auth := headers["Authorization"]; len(auth) > 15 {
			headers["Authorization"] = auth[:15] + "..."
		}
		if _, ok := headers["Cookie"]; ok {
			headers["Cookie"] = "******"
		}
	}

	Logger.Debug().
		Str("method", method).
		Str("url", url).
		Interface("params", params).
		Interface("body", body).
		Interface("headers", headers).
		Msg("requête API")
}

// LogApiResponse journalise une réponse API
func LogApiResponse(method, url string, statusCode int, responseTime time.Duration, responseBody interface{}) {
	event := Logger.Info()
	if statusCode >= 400 {
		event = Logger.Error()
	}
	// les téléchargements ne sont pas journalisés en entier
	if strings.Contains(url, "/download") || strings.Contains(url, "/preview") || strings.Contains(url, "/export") {
		responseBody = nil
	}
	event.
		Str("method", method).
		Str("url", url).
		Int("statusCode", statusCode).
		Dur("responseTime", responseTime).
		Interface("body", responseBody).
		Msg("réponse API")
}

// LogInfo journalise un message avec son contexte
func LogInfo(context map[string]interface{}, message string) {
	Logger.Info().
		Interface("context", context).
		Msg(message)
}

// LogError journalise une erreur avec son contexte
func LogError(err error, context map[string]interface{}, message string) {
	Logger.Error().
		Err(err).
		Interface("context", context).
		Msg(message)
}

// LogDbOperation journalise une opération de base de données
func LogDbOperation(operation string, table string, query interface{}, result interface{}) {
	Logger.Debug().
		Str("operation", operation).
		Str("table", table).
		Interface("query", query).
		Interface("result", result).
		Msg("opération base de données")
}
