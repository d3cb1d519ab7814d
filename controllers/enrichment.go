package controllers

import (
	"github.com/france-ecoenergie/crm_back/service"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/gin-gonic/gin"
)

// LookupSiret entreprise par SIRET
func LookupSiret(c *gin.Context) {
	info, err := service.Enrichment().LookupSiret(c.Request.Context(), c.Param("siret"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, info, "")
}

// SuggestCompanies suggestions d'entreprises (?q=)
func SuggestCompanies(c *gin.Context) {
	companies, err := service.Enrichment().Suggest(c.Request.Context(), c.Query("q"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, companies, "")
}

// GetCommunes communes d'un code postal
func GetCommunes(c *gin.Context) {
	communes, err := service.Enrichment().Communes(c.Request.Context(), c.Param("code_postal"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, communes, "")
}
