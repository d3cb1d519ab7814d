package controllers

import (
	"net/http"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/service"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/gin-gonic/gin"
)

// GetCalendar rendez-vous entre start et end (AAAA-MM-JJ)
func GetCalendar(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	appointments, err := service.ListAppointments(c.Request.Context(), user, c.Query("start"), c.Query("end"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, appointments, "")
}

// CreateAppointment création d'un rendez-vous
func CreateAppointment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.AppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	appointment, err := service.CreateAppointment(c.Request.Context(), user, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, appointment, "Rendez-vous créé", http.StatusCreated)
}

// createAttachedAppointment rendez-vous créé depuis une fiche client ou lead
func createAttachedAppointment(c *gin.Context, attach func(req *models.AppointmentRequest, id uint)) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.AppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	attach(&req, id)

	appointment, err := service.CreateAppointment(c.Request.Context(), user, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, appointment, "Rendez-vous créé", http.StatusCreated)
}

// AddClientAppointment rendez-vous pour un client
func AddClientAppointment(c *gin.Context) {
	createAttachedAppointment(c, func(req *models.AppointmentRequest, id uint) {
		req.ClientID = &id
		req.LeadID = nil
	})
}

// AddLeadAppointment rendez-vous pour un lead
func AddLeadAppointment(c *gin.Context) {
	createAttachedAppointment(c, func(req *models.AppointmentRequest, id uint) {
		req.LeadID = &id
		req.ClientID = nil
		req.ProduitID = nil
	})
}

// GetClientAppointments rendez-vous d'un client, ?produit_id= pour un produit
func GetClientAppointments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	produitID, err := utils.ParseOptionalID(c, "produit_id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	appointments, err := service.ListClientAppointments(c.Request.Context(), user, id, produitID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, appointments, "")
}

// GetLeadAppointments rendez-vous d'un lead
func GetLeadAppointments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	appointments, err := service.ListLeadAppointments(c.Request.Context(), user, id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, appointments, "")
}

// UpdateAppointment mise à jour partielle
func UpdateAppointment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	var req models.UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	appointment, err := service.UpdateAppointment(c.Request.Context(), user, id, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, appointment, "Rendez-vous modifié")
}

// DeleteAppointment suppression d'un rendez-vous
func DeleteAppointment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if err := service.DeleteAppointment(c.Request.Context(), user, id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, nil, "Rendez-vous supprimé")
}
