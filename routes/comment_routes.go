package routes

import (
	"github.com/france-ecoenergie/crm_back/controllers"
	"github.com/france-ecoenergie/crm_back/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterCommentRoutes modification et suppression des commentaires
func RegisterCommentRoutes(router *gin.Engine) {
	commentRoutes := router.Group("/api/comments")
	commentRoutes.Use(middleware.AuthMiddleware())

	commentRoutes.PATCH("/:id", controllers.UpdateComment)
	commentRoutes.DELETE("/:id", controllers.DeleteComment)
}
