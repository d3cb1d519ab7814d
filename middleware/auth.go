package middleware

import (
	"net/http"
	"strings"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/gin-gonic/gin"
)

// TokenCookie nom du cookie portant le jeton
const TokenCookie = "token"

// AuthMiddleware authentification par jeton Bearer ou cookie
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			utils.Logger.Debug().
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("jeton absent")
			utils.HandleError(c, utils.NewApiError("Accès non autorisé", http.StatusUnauthorized, "MISSING_TOKEN"))
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Logger.Info().Err(err).Str("path", c.Request.URL.Path).Msg("jeton refusé")
			utils.HandleError(c, utils.NewApiError("Jeton invalide ou expiré", http.StatusUnauthorized, "INVALID_TOKEN"))
			return
		}

		// compte supprimé ou rôle modifié depuis l'émission du jeton
		user, err := repository.FindUser(c.Request.Context(), claims.ID)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		if user == nil {
			utils.Logger.Info().Uint("user_id", claims.ID).Str("path", c.Request.URL.Path).Msg("jeton d'un compte supprimé")
			utils.HandleError(c, utils.NewApiError("Compte inexistant", http.StatusUnauthorized, "INVALID_TOKEN"))
			return
		}
		claims.Username = user.Username
		claims.Role = user.Role

		c.Set(utils.ContextUserKey, claims)
		c.Next()
	}
}

// RequireRole refuse l'accès aux utilisateurs qui n'ont aucun des rôles donnés
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.GetUser(c)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}

		utils.Logger.Info().
			Str("username", user.Username).
			Str("role", string(user.Role)).
			Str("path", c.Request.URL.Path).
			Msg("droits insuffisants")
		utils.HandleError(c, utils.CreateForbiddenError())
	}
}

func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}
