package controllers

import (
	"net/http"
	"strings"

	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/gin-gonic/gin"
)

// Health sonde de vie
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DBStatus état de la base et volumétrie des tables
func DBStatus(c *gin.Context) {
	utils.SuccessResponse(c, repository.GetDatabaseStatus(c.Request.Context()), "")
}

// GetOperationLogs journal d'audit paginé (?path= filtre par préfixe)
func GetOperationLogs(c *gin.Context) {
	p := utils.ParsePagination(c)
	logs, total, err := repository.ListOperationLogs(c.Request.Context(), strings.TrimSpace(c.Query("path")), p.Offset(), p.Limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.PaginatedResponse(c, logs, total, p)
}
