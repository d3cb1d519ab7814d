package controllers

import (
	"net/http"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/service"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/gin-gonic/gin"
)

// GetAllUsers liste des utilisateurs
func GetAllUsers(c *gin.Context) {
	users, err := service.ListUsers(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, users, "")
}

// GetAssignableUsers utilisateurs pouvant recevoir une assignation
func GetAssignableUsers(c *gin.Context) {
	users, err := service.ListAssignableUsers(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, users, "")
}

// CreateUser création d'un compte
func CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := service.CreateUser(c.Request.Context(), req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, user, "Utilisateur créé", http.StatusCreated)
}

// UpdateUser mise à jour d'un compte
func UpdateUser(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	var req models.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := service.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, user, "Utilisateur mis à jour")
}

// DeleteUser suppression d'un compte
func DeleteUser(c *gin.Context) {
	operator, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if err := service.DeleteUser(c.Request.Context(), operator, id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, nil, "Utilisateur supprimé")
}
