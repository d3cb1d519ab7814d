package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/france-ecoenergie/crm_back/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentsVisibilityAndOwnership(t *testing.T) {
	fx := setupDB(t)
	ctx := context.Background()

	c := newClient(t, fx.admin, "Garage Renard", models.TypeDestratification, &fx.telepro.ID)
	mine := c.Produits[0].ID
	other, err := DuplicateProduit(ctx, fx.admin, mine, models.TypePression)
	require.NoError(t, err)
	_, err = UpdateProduit(ctx, fx.admin, other.ID, models.UpdateProduitRequest{AssignedTo: &fx.telepro2.ID})
	require.NoError(t, err)

	general, err := AddClientComment(ctx, fx.admin, c.ID, models.CommentRequest{Content: "client historique"})
	require.NoError(t, err)
	_, err = AddClientComment(ctx, fx.telepro, c.ID, models.CommentRequest{Content: "destrat ok", ProduitID: &mine})
	require.NoError(t, err)
	_, err = AddClientComment(ctx, fx.telepro2, c.ID, models.CommentRequest{Content: "pression à chiffrer", ProduitID: &other.ID})
	require.NoError(t, err)

	all, err := ListClientComments(ctx, fx.admin, c.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	visible, err := ListClientComments(ctx, fx.telepro, c.ID, nil)
	require.NoError(t, err)
	contents := make([]string, 0, len(visible))
	for _, cm := range visible {
		contents = append(contents, cm.Content)
	}
	assert.ElementsMatch(t, []string{"client historique", "destrat ok"}, contents)

	_, err = ListClientComments(ctx, fx.telepro, c.ID, &other.ID)
	assert.ErrorIs(t, err, ErrProduitNotFound)

	_, err = UpdateComment(ctx, fx.telepro, general.ID, "modifié")
	assert.Equal(t, http.StatusForbidden, apiStatus(t, err))

	_, err = AddClientComment(ctx, fx.admin, c.ID, models.CommentRequest{Content: "   "})
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))

	updated, err := UpdateComment(ctx, fx.admin, general.ID, "client historique (2019)")
	require.NoError(t, err)
	assert.Equal(t, "client historique (2019)", updated.Content)

	require.NoError(t, DeleteComment(ctx, fx.admin, general.ID))
	assert.ErrorIs(t, DeleteComment(ctx, fx.admin, general.ID), ErrCommentNotFound)
}

func TestAppointmentsCalendar(t *testing.T) {
	fx := setupDB(t)
	ctx := context.Background()

	c := newClient(t, fx.admin, "Verrerie Caron", models.TypeDestratification, &fx.telepro.ID)
	l := newLead(t, fx.admin, "Marc", "Aubert", &fx.telepro2.ID)

	_, err := CreateAppointment(ctx, fx.telepro, models.AppointmentRequest{Title: "Visite", Date: "2026-10-05", ClientID: &c.ID})
	require.NoError(t, err)
	_, err = CreateAppointment(ctx, fx.telepro, models.AppointmentRequest{Title: "Relance", Date: "2026-11-12", ClientID: &c.ID})
	require.NoError(t, err)
	a, err := CreateAppointment(ctx, fx.telepro2, models.AppointmentRequest{Title: "Appel", Date: "2026-10-15", LeadID: &l.ID})
	require.NoError(t, err)

	_, err = CreateAppointment(ctx, fx.telepro2, models.AppointmentRequest{Title: "Intrus", Date: "2026-10-15", ClientID: &c.ID})
	assert.ErrorIs(t, err, ErrClientNotFound)
	_, err = CreateAppointment(ctx, fx.admin, models.AppointmentRequest{Title: "Orphelin", Date: "2026-10-15"})
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))

	october, err := ListAppointments(ctx, fx.admin, "2026-10-01", "2026-10-31")
	require.NoError(t, err)
	assert.Len(t, october, 2)

	own, err := ListAppointments(ctx, fx.telepro, "", "")
	require.NoError(t, err)
	assert.Len(t, own, 2)

	_, err = ListAppointments(ctx, fx.admin, "01/10/2026", "")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))

	title := "Appel de suivi"
	updated, err := UpdateAppointment(ctx, fx.telepro2, a.ID, models.UpdateAppointmentRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Appel de suivi", updated.Title)

	_, err = UpdateAppointment(ctx, fx.telepro, a.ID, models.UpdateAppointmentRequest{Title: &title})
	require.Error(t, err)

	require.NoError(t, DeleteAppointment(ctx, fx.admin, a.ID))
}
