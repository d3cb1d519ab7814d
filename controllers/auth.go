package controllers

import (
	"net/http"

	"github.com/france-ecoenergie/crm_back/config"
	"github.com/france-ecoenergie/crm_back/middleware"
	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/service"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/gin-gonic/gin"
)

// Login authentifie un utilisateur et pose le cookie de session
func Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := service.Authenticate(c.Request.Context(), req.Username, req.Password, c.ClientIP())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	cfg := config.LoadConfig()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, cfg.TokenTTLHours*3600, "/", "", !cfg.Debug, true)

	utils.LogInfo(map[string]interface{}{
		"username": user.Username,
		"role":     user.Role,
		"ip":       c.ClientIP(),
	}, "connexion réussie")
	utils.SuccessResponse(c, models.LoginResponse{Token: token, User: *user}, "Connexion réussie")
}

// Logout supprime le cookie de session
func Logout(c *gin.Context) {
	cfg := config.LoadConfig()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", !cfg.Debug, true)
	utils.SuccessResponse(c, nil, "Déconnexion réussie")
}

// Me utilisateur connecté
func Me(c *gin.Context) {
	login, ok := currentUser(c)
	if !ok {
		return
	}
	user, err := service.GetUserByID(c.Request.Context(), login.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, user, "")
}
