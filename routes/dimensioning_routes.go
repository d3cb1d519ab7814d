package routes

import (
	"github.com/france-ecoenergie/crm_back/controllers"
	"github.com/france-ecoenergie/crm_back/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterDimensioningRoutes calculateur de dimensionnement
func RegisterDimensioningRoutes(router *gin.Engine) {
	dimRoutes := router.Group("/api/dimensioning")
	dimRoutes.Use(middleware.AuthMiddleware())

	dimRoutes.GET("/temperature-data", controllers.GetTemperatureData)
	dimRoutes.PUT("/temperature-data", adminOnly(), controllers.SaveTemperatureData)
	dimRoutes.GET("/coefficient-data", controllers.GetCoefficientData)
	dimRoutes.PUT("/coefficient-data", adminOnly(), controllers.SaveCoefficientData)
	dimRoutes.POST("/calculate", controllers.CalculateDimensioning)
}
