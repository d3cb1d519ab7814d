package routes

import (
	"github.com/france-ecoenergie/crm_back/controllers"
	"github.com/france-ecoenergie/crm_back/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterStatutRoutes libellés de workflow
func RegisterStatutRoutes(router *gin.Engine) {
	statutRoutes := router.Group("/api/statuts")
	statutRoutes.Use(middleware.AuthMiddleware())

	statutRoutes.GET("", controllers.GetStatuts)
	statutRoutes.PATCH("/:id", adminOnly(), controllers.UpdateStatut)
}
