package routes

import (
	"github.com/france-ecoenergie/crm_back/controllers"
	"github.com/france-ecoenergie/crm_back/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterLeadRoutes leads et conversion
func RegisterLeadRoutes(router *gin.Engine) {
	leadRoutes := router.Group("/api/leads")
	leadRoutes.Use(middleware.AuthMiddleware())

	leadRoutes.GET("", controllers.GetLeadList)
	leadRoutes.POST("", controllers.CreateLead)
	leadRoutes.POST("/bulk-assign", adminOnly(), controllers.BulkAssignLeads)
	leadRoutes.POST("/import/csv", controllers.ImportLeadsCSV)
	leadRoutes.GET("/export/csv", controllers.ExportLeadsCSV)

	leadRoutes.GET("/:id", controllers.GetLeadDetail)
	leadRoutes.PATCH("/:id", controllers.UpdateLead)
	leadRoutes.DELETE("/:id", controllers.DeleteLead)
	leadRoutes.POST("/:id/convert", controllers.ConvertLead)
	leadRoutes.GET("/:id/comments", controllers.GetLeadComments)
	leadRoutes.POST("/:id/comments", controllers.AddLeadComment)
	leadRoutes.GET("/:id/appointments", controllers.GetLeadAppointments)
	leadRoutes.POST("/:id/appointments", controllers.AddLeadAppointment)
}
