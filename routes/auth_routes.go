package routes

import (
	"github.com/france-ecoenergie/crm_back/config"
	"github.com/france-ecoenergie/crm_back/controllers"
	"github.com/france-ecoenergie/crm_back/middleware"
	"github.com/france-ecoenergie/crm_back/repository"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes routes d'authentification
func RegisterAuthRoutes(router *gin.Engine) {
	perMinute := config.LoadConfig().LoginRatePerMinute
	if perMinute < 1 {
		perMinute = 10
	}
	loginLimiter := middleware.NewRateLimiter(repository.Redis(), "login", middleware.PerMinute(perMinute, perMinute))

	authRoutes := router.Group("/api/auth")
	authRoutes.POST("/login", loginLimiter.Handler(), controllers.Login)
	authRoutes.POST("/logout", controllers.Logout)
	authRoutes.GET("/me", middleware.AuthMiddleware(), controllers.Me)
}
