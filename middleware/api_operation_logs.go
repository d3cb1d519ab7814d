package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/gin-gonic/gin"
)

// méthodes journalisées
var loggedMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// chemins exclus du journal
var excludedPaths = map[string]bool{
	"/api/health":     true,
	"/api/db-status":  true,
	"/api/auth/login": true,
}

// maxLoggedBody au-delà, le corps est tronqué dans le journal
const maxLoggedBody = 64 << 10

// OperationLoggerMiddleware journal d'audit des opérations d'écriture
func OperationLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !shouldLogOperation(c) {
			c.Next()
			return
		}

		startTime := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		blw := &bodyLogWriter{
			body:           bytes.NewBufferString(""),
			ResponseWriter: c.Writer,
		}
		c.Writer = blw

		var requestBody interface{}
		switch {
		case isMultipart(c):
			requestBody = "[multipart]"
		case c.Request.Body != nil:
			raw, err := io.ReadAll(c.Request.Body)
			if err != nil {
				utils.Logger.Error().Err(err).Msg("lecture du corps de requête échouée")
				break
			}
			c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))
			requestBody = decodeBody(raw, c.ContentType())
		}

		c.Next()

		var responseData interface{}
		if !strings.Contains(path, "/export") && !strings.Contains(path, "/download") {
			responseData = decodeBody(blw.body.Bytes(), c.Writer.Header().Get("Content-Type"))
		}

		var errorMessage string
		if len(c.Errors) > 0 {
			errorMessage = c.Errors.String()
		}

		operatorID, operatorName, operatorRole := extractUserInfo(c)
		operationLog := models.OperationLog{
			Method:        method,
			Path:          path,
			OperatorID:    operatorID,
			OperatorName:  operatorName,
			OperatorRole:  operatorRole,
			RequestBody:   sanitizeData(requestBody),
			ResponseData:  sanitizeData(responseData),
			StatusCode:    c.Writer.Status(),
			Success:       c.Writer.Status() < http.StatusBadRequest,
			ErrorMessage:  errorMessage,
			OperationTime: startTime,
			ResponseTime:  time.Since(startTime).Milliseconds(),
			IPAddress:     c.ClientIP(),
			UserAgent:     c.Request.UserAgent(),
		}

		// le journal ne doit pas dépendre de l'annulation de la requête
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := repository.SaveOperationLog(ctx, &operationLog); err != nil {
			utils.Logger.Error().Err(err).Msg("enregistrement du journal d'opération échoué")
			minimalLog := operationLog
			minimalLog.ID = 0
			minimalLog.RequestBody = nil
			minimalLog.ResponseData = nil
			minimalLog.ErrorMessage = fmt.Sprintf("journal détaillé non enregistré: %v", err)

			if saveErr := repository.SaveOperationLog(ctx, &minimalLog); saveErr != nil {
				utils.Logger.Error().Err(saveErr).Msg("enregistrement du journal minimal échoué")
			}
		}
	}
}

func shouldLogOperation(c *gin.Context) bool {
	if excludedPaths[c.Request.URL.Path] {
		return false
	}
	return loggedMethods[c.Request.Method]
}

func decodeBody(raw []byte, contentType string) interface{} {
	if len(raw) == 0 {
		return nil
	}
	if len(raw) > maxLoggedBody {
		return fmt.Sprintf("[%d octets]", len(raw))
	}
	if strings.Contains(contentType, "application/json") {
		var v interface{}
		if err := json.Unmarshal(raw, &v); err == nil {
			return v
		}
	}
	return string(raw)
}

// extractUserInfo opérateur de la requête, anonyme si non authentifié
func extractUserInfo(c *gin.Context) (string, string, string) {
	user, err := utils.GetUser(c)
	if err != nil {
		return "anonymous", "anonyme", ""
	}
	return strconv.FormatUint(uint64(user.ID), 10), user.Username, string(user.Role)
}

// sanitizeData masque les champs sensibles
func sanitizeData(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		sanitized := make(map[string]interface{}, len(v))
		for k, val := range v {
			switch strings.ToLower(k) {
			case "password", "token", "authorization", "secret", "key":
				sanitized[k] = "******"
			default:
				sanitized[k] = sanitizeData(val)
			}
		}
		return sanitized
	case []interface{}:
		sanitized := make([]interface{}, len(v))
		for i, val := range v {
			sanitized[i] = sanitizeData(val)
		}
		return sanitized
	default:
		return data
	}
}
