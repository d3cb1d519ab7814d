package service

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClientKeepsDonneesTechniques(t *testing.T) {
	fx := setupDB(t)
	ctx := context.Background()

	donnees := map[string]any{
		"surface":   1200.0,
		"hauteur":   9.5,
		"chauffage": "aérotherme gaz",
	}
	c, err := CreateClient(ctx, fx.admin, models.CreateClientRequest{
		ClientFields:      models.ClientFields{Societe: "  Entrepôts Rhône  ", CodePostal: "69007"},
		TypeProduit:       models.TypeDestratification,
		DonneesTechniques: donnees,
	})
	require.NoError(t, err)
	assert.Equal(t, "Entrepôts Rhône", c.Societe)

	p, err := GetProduit(ctx, fx.admin, c.Produits[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatutNouveau, p.Statut)
	assert.Equal(t, 1200.0, p.DonneesTechniques["surface"])
	assert.Equal(t, 9.5, p.DonneesTechniques["hauteur"])
	assert.Equal(t, "aérotherme gaz", p.DonneesTechniques["chauffage"])
	require.NotNil(t, p.Client)
	assert.Equal(t, c.ID, p.Client.ID)

	history, err := GetProduitHistory(ctx, fx.admin, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.HistoryCreation, history[0].Event)
}

func TestCreateClientRequiresSociete(t *testing.T) {
	fx := setupDB(t)

	_, err := CreateClient(context.Background(), fx.admin, models.CreateClientRequest{
		ClientFields: models.ClientFields{Societe: "   "},
		TypeProduit:  models.TypePression,
	})
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
}

func TestTeleproCreatesForHimself(t *testing.T) {
	fx := setupDB(t)

	c := newClient(t, fx.telepro, "Atelier Martin", models.TypePression, &fx.telepro2.ID)
	require.NotNil(t, c.Produits[0].AssignedTo)
	assert.Equal(t, fx.telepro.ID, *c.Produits[0].AssignedTo)
}

func TestTeleproOnlySeesAssignedProduits(t *testing.T) {
	fx := setupDB(t)
	ctx := context.Background()

	mine := newClient(t, fx.admin, "Logistique Sud", models.TypeDestratification, &fx.telepro.ID)
	other := newClient(t, fx.admin, "Plasturgie Nord", models.TypeDestratification, &fx.telepro2.ID)
	newClient(t, fx.admin, "Non assigné", models.TypeMatelasIsolants, nil)

	produits, total, err := ListProduits(ctx, fx.telepro, ClientFilter{}, utils.Pagination{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, produits, 1)
	assert.Equal(t, mine.ID, produits[0].ClientID)

	_, total, err = ListProduits(ctx, fx.admin, ClientFilter{}, utils.Pagination{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	_, err = GetClient(ctx, fx.telepro, other.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)
	_, err = GetProduit(ctx, fx.telepro, other.Produits[0].ID)
	assert.ErrorIs(t, err, ErrProduitNotFound)
}

func TestListProduitsFilters(t *testing.T) {
	fx := setupDB(t)
	ctx := context.Background()

	newClient(t, fx.admin, "Menuiserie Dubois", models.TypeDestratification, nil)
	newClient(t, fx.admin, "Fonderie Lambert", models.TypePression, &fx.telepro.ID)

	produits, total, err := ListProduits(ctx, fx.admin, ClientFilter{Search: "lambert"}, utils.Pagination{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, produits, 1)
	assert.Equal(t, models.TypePression, produits[0].TypeProduit)

	_, total, err = ListProduits(ctx, fx.admin, ClientFilter{TypeProduit: models.TypeDestratification}, utils.Pagination{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = ListProduits(ctx, fx.admin, ClientFilter{AssignedTo: &fx.telepro.ID}, utils.Pagination{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestUpdateProduitStatutAndAssignment(t *testing.T) {
	fx := setupDB(t)
	ctx := context.Background()

	c := newClient(t, fx.admin, "Papeterie Morel", models.TypeDestratification, &fx.telepro.ID)
	id := c.Produits[0].ID

	statut := models.StatutDevisEnvoye
	p, err := UpdateProduit(ctx, fx.telepro, id, models.UpdateProduitRequest{Statut: &statut})
	require.NoError(t, err)
	assert.Equal(t, models.StatutDevisEnvoye, p.Statut)

	_, err = UpdateProduit(ctx, fx.telepro, id, models.UpdateProduitRequest{AssignedTo: &fx.telepro2.ID})
	assert.Equal(t, http.StatusForbidden, apiStatus(t, err))

	p, err = UpdateProduit(ctx, fx.admin, id, models.UpdateProduitRequest{AssignedTo: &fx.telepro2.ID})
	require.NoError(t, err)
	require.NotNil(t, p.AssignedTo)
	assert.Equal(t, fx.telepro2.ID, *p.AssignedTo)

	history, err := GetProduitHistory(ctx, fx.admin, id)
	require.NoError(t, err)
	events := make([]string, 0, len(history))
	for _, h := range history {
		events = append(events, h.Event)
	}
	assert.ElementsMatch(t, []string{models.HistoryCreation, models.HistoryStatut, models.HistoryAssignation}, events)

	_, err = GetProduit(ctx, fx.telepro, id)
	assert.ErrorIs(t, err, ErrProduitNotFound)
}

func TestDuplicateProduitCopiesAttachments(t *testing.T) {
	fx := setupDB(t)
	ctx := context.Background()

	c := newClient(t, fx.admin, "Brasserie Lefèvre", models.TypeDestratification, &fx.telepro.ID)
	source := c.Produits[0].ID

	_, err := AddClientComment(ctx, fx.telepro, c.ID, models.CommentRequest{Content: "Intéressé, rappeler lundi", ProduitID: &source})
	require.NoError(t, err)
	_, err = CreateAppointment(ctx, fx.telepro, models.AppointmentRequest{
		Title: "Visite technique", Date: "2026-11-03", Time: "10:30", ClientID: &c.ID, ProduitID: &source,
	})
	require.NoError(t, err)
	doc, err := UploadDocument(ctx, fx.telepro, c.ID, &source, fileHeader(t, "devis.pdf", []byte("%PDF-1.4 devis")))
	require.NoError(t, err)

	dup, err := DuplicateProduit(ctx, fx.telepro, source, models.TypePression)
	require.NoError(t, err)
	assert.Equal(t, c.ID, dup.ClientID)
	assert.Equal(t, models.StatutNouveau, dup.Statut)
	require.NotNil(t, dup.AssignedTo)
	assert.Equal(t, fx.telepro.ID, *dup.AssignedTo)

	comments, err := ListClientComments(ctx, fx.telepro, c.ID, &dup.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Intéressé, rappeler lundi", comments[0].Content)

	appointments, err := ListClientAppointments(ctx, fx.telepro, c.ID, &dup.ID)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, "2026-11-03", appointments[0].Date)

	docs, err := ListDocuments(ctx, fx.telepro, c.ID, &dup.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.NotEqual(t, doc.ID, docs[0].ID)
	assert.NotEqual(t, doc.StoredName, docs[0].StoredName)
	content, err := os.ReadFile(storedPath(docs[0].StoredName))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 devis", string(content))

	_, err = DuplicateProduit(ctx, fx.telepro, source, models.TypePression)
	assert.ErrorIs(t, err, ErrDuplicateType)
	assert.Equal(t, http.StatusConflict, apiStatus(t, err))
}

func TestDeleteLastProduitDeletesClient(t *testing.T) {
	fx := setupDB(t)
	ctx := context.Background()

	c := newClient(t, fx.admin, "Chaudronnerie Petit", models.TypeDestratification, nil)
	first := c.Produits[0].ID
	doc, err := UploadDocument(ctx, fx.admin, c.ID, &first, fileHeader(t, "plan.png", []byte("png")))
	require.NoError(t, err)

	second, err := DuplicateProduit(ctx, fx.admin, first, models.TypeMatelasIsolants)
	require.NoError(t, err)

	deleted, err := DeleteProduit(ctx, fx.admin, first)
	require.NoError(t, err)
	assert.False(t, deleted)
	_, statErr := os.Stat(storedPath(doc.StoredName))
	assert.True(t, os.IsNotExist(statErr))

	got, err := GetClient(ctx, fx.admin, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Produits, 1)
	assert.Equal(t, second.ID, got.Produits[0].ID)

	deleted, err = DeleteProduit(ctx, fx.admin, second.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = GetClient(ctx, fx.admin, c.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestBulkAssignAndDeleteProduits(t *testing.T) {
	fx := setupDB(t)
	ctx := context.Background()

	a := newClient(t, fx.admin, "Imprimerie A", models.TypeDestratification, nil)
	b := newClient(t, fx.admin, "Imprimerie B", models.TypePression, nil)
	ids := []uint{a.Produits[0].ID, b.Produits[0].ID}

	n, err := BulkAssignProduits(ctx, fx.admin, ids, &fx.telepro.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, total, err := ListProduits(ctx, fx.telepro, ClientFilter{}, utils.Pagination{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, err = BulkAssignProduits(ctx, fx.admin, ids, uintPtr(9999))
	assert.ErrorIs(t, err, ErrInvalidAssignee)

	n, err = BulkDeleteProduits(ctx, fx.admin, ids)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = GetClient(ctx, fx.admin, a.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestDeleteClientRemovesEverything(t *testing.T) {
	fx := setupDB(t)
	ctx := context.Background()

	c := newClient(t, fx.admin, "Scierie Blanc", models.TypeDestratification, nil)
	pid := c.Produits[0].ID
	_, err := AddClientComment(ctx, fx.admin, c.ID, models.CommentRequest{Content: "note"})
	require.NoError(t, err)
	doc, err := UploadDocument(ctx, fx.admin, c.ID, &pid, fileHeader(t, "photo.jpg", []byte("jpg")))
	require.NoError(t, err)

	require.NoError(t, DeleteClient(ctx, c.ID))

	_, err = GetClient(ctx, fx.admin, c.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)
	_, statErr := os.Stat(storedPath(doc.StoredName))
	assert.True(t, os.IsNotExist(statErr))

	assert.ErrorIs(t, DeleteClient(ctx, c.ID), ErrClientNotFound)
}
