package routes

import (
	"github.com/france-ecoenergie/crm_back/controllers"
	"github.com/france-ecoenergie/crm_back/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAppointmentRoutes calendrier
func RegisterAppointmentRoutes(router *gin.Engine) {
	appointmentRoutes := router.Group("/api/appointments")
	appointmentRoutes.Use(middleware.AuthMiddleware())

	appointmentRoutes.GET("", controllers.GetCalendar)
	appointmentRoutes.POST("", controllers.CreateAppointment)
	appointmentRoutes.PATCH("/:id", controllers.UpdateAppointment)
	appointmentRoutes.DELETE("/:id", controllers.DeleteAppointment)
}
