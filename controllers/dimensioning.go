package controllers

import (
	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/service"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/gin-gonic/gin"
)

// GetTemperatureData températures de base
func GetTemperatureData(c *gin.Context) {
	rows, err := service.ListTemperatureData(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, rows, "")
}

// SaveTemperatureData remplace ou complète les températures de base
func SaveTemperatureData(c *gin.Context) {
	var rows []models.TemperatureData
	if !bindJSON(c, &rows) {
		return
	}
	saved, err := service.SaveTemperatureData(c.Request.Context(), rows)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, saved, "Températures enregistrées")
}

// GetCoefficientData coefficients du calculateur
func GetCoefficientData(c *gin.Context) {
	rows, err := service.ListCoefficientData(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, rows, "")
}

// SaveCoefficientData remplace ou complète les coefficients
func SaveCoefficientData(c *gin.Context) {
	var rows []models.CoefficientData
	if !bindJSON(c, &rows) {
		return
	}
	saved, err := service.SaveCoefficientData(c.Request.Context(), rows)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, saved, "Coefficients enregistrés")
}

// CalculateDimensioning calcul de dimensionnement
func CalculateDimensioning(c *gin.Context) {
	var req models.DimensioningRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := service.Calculate(c.Request.Context(), req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, result, "")
}
