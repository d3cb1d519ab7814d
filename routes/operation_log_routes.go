package routes

import (
	"github.com/france-ecoenergie/crm_back/controllers"
	"github.com/france-ecoenergie/crm_back/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterOperationLogRoutes consultation du journal d'audit
func RegisterOperationLogRoutes(router *gin.Engine) {
	logRoutes := router.Group("/api/operation-logs")
	logRoutes.Use(middleware.AuthMiddleware(), adminOnly())

	logRoutes.GET("", controllers.GetOperationLogs)
}
