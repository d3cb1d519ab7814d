package service

import (
	"context"
	"testing"
	"time"

	"github.com/france-ecoenergie/crm_back/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTimeRange(t *testing.T) {
	// jeudi
	now := time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)

	from, to, err := ResolveTimeRange("all", "", "", now)
	require.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)

	from, to, err = ResolveTimeRange("week", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -7), *from)
	assert.Equal(t, now, *to)

	from, _, err = ResolveTimeRange("current_week", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), *from)

	sunday := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	from, _, err = ResolveTimeRange("current_week", "", "", sunday)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), *from)

	from, _, err = ResolveTimeRange("month", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -30), *from)

	from, _, err = ResolveTimeRange("quarter", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 15, 14, 30, 0, 0, time.UTC), *from)

	from, _, err = ResolveTimeRange("year", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 15, 14, 30, 0, 0, time.UTC), *from)

	from, to, err = ResolveTimeRange("custom", "2026-09-01", "2026-09-30", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), *from)
	assert.Equal(t, time.Date(2026, 9, 30, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), *to)

	for _, bad := range [][3]string{
		{"custom", "", "2026-09-30"},
		{"custom", "01/09/2026", "2026-09-30"},
		{"custom", "2026-09-30", "2026-09-01"},
		{"decade", "", ""},
	} {
		_, _, err := ResolveTimeRange(bad[0], bad[1], bad[2], now)
		assert.Error(t, err, "%v", bad)
	}
}

func TestMonthlyCounts(t *testing.T) {
	dates := []time.Time{
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, []CountItem{
		{Name: "2025-12", Count: 1},
		{Name: "2026-01", Count: 1},
		{Name: "2026-03", Count: 2},
	}, monthlyCounts(dates))
	assert.Empty(t, monthlyCounts(nil))
}

func TestGetAnalytics(t *testing.T) {
	fx := setupDB(t)
	ctx := context.Background()

	c := newClient(t, fx.admin, "Laiterie Simon", models.TypeDestratification, &fx.telepro.ID)
	_, err := DuplicateProduit(ctx, fx.admin, c.Produits[0].ID, models.TypePression)
	require.NoError(t, err)
	newClient(t, fx.admin, "Cartonnerie Noël", models.TypeDestratification, &fx.telepro2.ID)
	newLead(t, fx.admin, "Sarah", "Meunier", &fx.telepro.ID)

	future := time.Now().AddDate(0, 0, 3).Format(dateLayout)
	_, err = CreateAppointment(ctx, fx.telepro, models.AppointmentRequest{Title: "Visite", Date: future, ClientID: &c.ID})
	require.NoError(t, err)

	stats, err := GetAnalytics(ctx, fx.admin, "all", "", "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Totals.Clients)
	assert.EqualValues(t, 3, stats.Totals.Produits)
	assert.EqualValues(t, 1, stats.Totals.Leads)
	assert.EqualValues(t, 1, stats.Totals.UpcomingAppointments)

	byType := make(map[string]int64)
	for _, item := range stats.ProduitsByType {
		byType[item.Name] = item.Count
	}
	assert.Equal(t, map[string]int64{"destratification": 2, "pression": 1}, byType)
	require.Len(t, stats.MonthlyCreations, 1)
	assert.EqualValues(t, 3, stats.MonthlyCreations[0].Count)

	mine, err := GetAnalytics(ctx, fx.telepro, "month", "", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, mine.Totals.Clients)
	assert.EqualValues(t, 2, mine.Totals.Produits)
	require.Len(t, mine.ProduitsByAssignee, 1)
	assert.Equal(t, "alice", mine.ProduitsByAssignee[0].Username)

	_, err = GetAnalytics(ctx, fx.admin, "custom", "", "")
	require.Error(t, err)
}
