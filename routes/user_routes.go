package routes

import (
	"github.com/france-ecoenergie/crm_back/controllers"
	"github.com/france-ecoenergie/crm_back/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes gestion des utilisateurs
func RegisterUserRoutes(router *gin.Engine) {
	userRoutes := router.Group("/api/users")
	userRoutes.Use(middleware.AuthMiddleware())

	userRoutes.GET("/telepros", controllers.GetAssignableUsers)

	userRoutes.GET("", adminOnly(), controllers.GetAllUsers)
	userRoutes.POST("", adminOnly(), controllers.CreateUser)
	userRoutes.PATCH("/:id", adminOnly(), controllers.UpdateUser)
	userRoutes.DELETE("/:id", adminOnly(), controllers.DeleteUser)
}
