package routes

import (
	"github.com/france-ecoenergie/crm_back/controllers"
	"github.com/france-ecoenergie/crm_back/middleware"
	"github.com/france-ecoenergie/crm_back/models"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes enregistre toutes les routes de l'API
func RegisterRoutes(router *gin.Engine) {
	RegisterAuthRoutes(router)
	RegisterUserRoutes(router)

	RegisterClientRoutes(router)
	RegisterLeadRoutes(router)
	RegisterCommentRoutes(router)
	RegisterAppointmentRoutes(router)
	RegisterDocumentRoutes(router)
	RegisterStatutRoutes(router)
	RegisterAnalyticsRoutes(router)
	RegisterEnrichmentRoutes(router)
	RegisterDimensioningRoutes(router)
	RegisterOperationLogRoutes(router)

	router.GET("/api/health", controllers.Health)
	router.GET("/api/db-status",
		middleware.AuthMiddleware(),
		middleware.RequireRole(models.RoleAdmin),
		controllers.DBStatus)
}

// adminOnly raccourci pour les routes réservées aux administrateurs
func adminOnly() gin.HandlerFunc {
	return middleware.RequireRole(models.RoleAdmin)
}
