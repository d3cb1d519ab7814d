package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ApiError erreur API avec code HTTP
type ApiError struct {
	StatusCode int
	Message    string
	ErrorCode  string
}

// Error implémente l'interface error
func (e *ApiError) Error() string {
	return e.Message
}

// NewApiError crée une erreur API
func NewApiError(message string, statusCode int, errorCode string) *ApiError {
	return &ApiError{
		StatusCode: statusCode,
		Message:    message,
		ErrorCode:  errorCode,
	}
}

// CreateNotFoundError ressource introuvable
func CreateNotFoundError(resource string) *ApiError {
	return NewApiError(resource+" introuvable", http.StatusNotFound, "RESOURCE_NOT_FOUND")
}

// CreateUnauthorizedError accès non authentifié
func CreateUnauthorizedError() *ApiError {
	return NewApiError("Accès non autorisé", http.StatusUnauthorized, "UNAUTHORIZED")
}

// CreateForbiddenError droits insuffisants
func CreateForbiddenError() *ApiError {
	return NewApiError("Droits insuffisants", http.StatusForbidden, "FORBIDDEN")
}

// CreateBadRequestError requête invalide
func CreateBadRequestError(message string) *ApiError {
	return NewApiError(message, http.StatusBadRequest, "BAD_REQUEST")
}

// CreateConflictError conflit avec l'existant
func CreateConflictError(message string) *ApiError {
	return NewApiError(message, http.StatusConflict, "CONFLICT")
}

// HandleError journalise l'erreur et renvoie la réponse adaptée
func HandleError(c *gin.Context, err error) {
	if c == nil || err == nil {
		return
	}

	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= http.StatusInternalServerError {
			LogError(err, map[string]interface{}{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}, "erreur API")
		}
		response := gin.H{"success": false, "error": apiErr.Message}
		if apiErr.ErrorCode != "" {
			response["code"] = apiErr.ErrorCode
		}
		c.AbortWithStatusJSON(apiErr.StatusCode, response)
		return
	}

	LogError(err, map[string]interface{}{
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}, "erreur inattendue")

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "Erreur interne du serveur",
		"code":    "INTERNAL_ERROR",
	})
}

// SuccessResponse réponse de succès
func SuccessResponse(c *gin.Context, data interface{}, message string, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := gin.H{"success": true}
	if data != nil {
		response["data"] = data
	}
	if message != "" {
		response["message"] = message
	}

	c.JSON(code, response)
}

// ErrorResponse réponse d'erreur simple
func ErrorResponse(c *gin.Context, message string, statusCode int) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"success": false,
		"error":   message,
	})
}
