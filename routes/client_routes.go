package routes

import (
	"github.com/france-ecoenergie/crm_back/controllers"
	"github.com/france-ecoenergie/crm_back/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterClientRoutes clients, produits et leurs rattachements
func RegisterClientRoutes(router *gin.Engine) {
	clientRoutes := router.Group("/api/clients")
	clientRoutes.Use(middleware.AuthMiddleware())

	clientRoutes.GET("", controllers.GetClientList)
	clientRoutes.POST("", controllers.CreateClient)
	clientRoutes.POST("/bulk-assign", adminOnly(), controllers.BulkAssignClients)
	clientRoutes.POST("/import/csv", adminOnly(), controllers.ImportClientsCSV)
	clientRoutes.GET("/export/csv", controllers.ExportClientsCSV)
	clientRoutes.GET("/export/excel", controllers.ExportClientsExcel)

	clientRoutes.GET("/:id", controllers.GetClientDetail)
	clientRoutes.PATCH("/:id", controllers.UpdateClient)
	clientRoutes.DELETE("/:id", adminOnly(), controllers.DeleteClient)
	clientRoutes.GET("/:id/comments", controllers.GetClientComments)
	clientRoutes.POST("/:id/comments", controllers.AddClientComment)
	clientRoutes.GET("/:id/appointments", controllers.GetClientAppointments)
	clientRoutes.POST("/:id/appointments", controllers.AddClientAppointment)

	produitRoutes := clientRoutes.Group("/produits")
	produitRoutes.POST("/bulk-delete", adminOnly(), controllers.BulkDeleteProduits)
	produitRoutes.GET("/:id", controllers.GetProduitDetail)
	produitRoutes.PATCH("/:id", controllers.UpdateProduit)
	produitRoutes.DELETE("/:id", controllers.DeleteProduit)
	produitRoutes.POST("/:id/duplicate", controllers.DuplicateProduit)
	produitRoutes.GET("/:id/history", controllers.GetProduitHistory)
}
