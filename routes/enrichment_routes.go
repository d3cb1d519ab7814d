package routes

import (
	"github.com/france-ecoenergie/crm_back/controllers"
	"github.com/france-ecoenergie/crm_back/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterEnrichmentRoutes enrichissement SIRET et communes
func RegisterEnrichmentRoutes(router *gin.Engine) {
	enrichmentRoutes := router.Group("/api/enrichment")
	enrichmentRoutes.Use(middleware.AuthMiddleware())

	enrichmentRoutes.GET("/siret/:siret", controllers.LookupSiret)
	enrichmentRoutes.GET("/suggest", controllers.SuggestCompanies)
	enrichmentRoutes.GET("/communes/:code_postal", controllers.GetCommunes)
}
