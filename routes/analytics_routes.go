package routes

import (
	"github.com/france-ecoenergie/crm_back/controllers"
	"github.com/france-ecoenergie/crm_back/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAnalyticsRoutes tableau de bord
func RegisterAnalyticsRoutes(router *gin.Engine) {
	analyticsRoutes := router.Group("/api/analytics")
	analyticsRoutes.Use(middleware.AuthMiddleware())

	analyticsRoutes.GET("", controllers.GetAnalytics)
}
