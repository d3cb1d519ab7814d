package routes

import (
	"github.com/france-ecoenergie/crm_back/controllers"
	"github.com/france-ecoenergie/crm_back/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterDocumentRoutes documents clients
func RegisterDocumentRoutes(router *gin.Engine) {
	documentRoutes := router.Group("/api/documents")
	documentRoutes.Use(middleware.AuthMiddleware())

	documentRoutes.GET("", controllers.GetDocuments)
	documentRoutes.POST("", controllers.UploadDocument)
	documentRoutes.GET("/:id/download", controllers.DownloadDocument)
	documentRoutes.GET("/:id/preview", controllers.PreviewDocument)
	documentRoutes.DELETE("/:id", controllers.DeleteDocument)
}
