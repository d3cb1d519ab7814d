package controllers

import (
	"github.com/france-ecoenergie/crm_back/service"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/gin-gonic/gin"
)

// GetAnalytics tableau de bord (timeRange=week|current_week|month|quarter|year|custom|all)
func GetAnalytics(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	stats, err := service.GetAnalytics(
		c.Request.Context(),
		user,
		c.DefaultQuery("timeRange", "month"),
		c.Query("startDate"),
		c.Query("endDate"),
	)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, stats, "")
}
