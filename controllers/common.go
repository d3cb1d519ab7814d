package controllers

import (
	"strconv"
	"strings"

	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/gin-gonic/gin"
)

// bindJSON décode le corps JSON, une erreur de validation donne un 400
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("Requête invalide: "+err.Error()))
		return false
	}
	return true
}

// formID identifiant facultatif d'un champ de formulaire multipart
func formID(c *gin.Context, name string) (*uint, error) {
	raw := strings.TrimSpace(c.PostForm(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, utils.CreateBadRequestError("champ " + name + " invalide")
	}
	v := uint(id)
	return &v, nil
}

// currentUser utilisateur connecté, répond 401 sinon
func currentUser(c *gin.Context) (*utils.LoginUser, bool) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return nil, false
	}
	return user, true
}
