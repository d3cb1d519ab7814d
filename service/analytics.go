package service

import (
	"context"
	"sort"
	"time"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/utils"

	"gorm.io/gorm"
)

// CountItem effectif par valeur
type CountItem struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// AssigneeCount effectif par utilisateur assigné
type AssigneeCount struct {
	UserID   *uint  `json:"user_id"`
	Username string `json:"username"`
	Count    int64  `json:"count"`
}

// AnalyticsTotals compteurs globaux
type AnalyticsTotals struct {
	Clients              int64 `json:"clients"`
	Produits             int64 `json:"produits"`
	Leads                int64 `json:"leads"`
	UpcomingAppointments int64 `json:"upcoming_appointments"`
}

// AnalyticsStats tableau de bord
type AnalyticsStats struct {
	TimeRange          string          `json:"time_range"`
	StartDate          *time.Time      `json:"start_date,omitempty"`
	EndDate            *time.Time      `json:"end_date,omitempty"`
	Totals             AnalyticsTotals `json:"totals"`
	ProduitsByStatut   []CountItem     `json:"produits_by_statut"`
	ProduitsByType     []CountItem     `json:"produits_by_type"`
	ProduitsByAssignee []AssigneeCount `json:"produits_by_assignee"`
	LeadsByStatut      []CountItem     `json:"leads_by_statut"`
	MonthlyCreations   []CountItem     `json:"monthly_creations"`
}

// ResolveTimeRange bornes de la période demandée; nil signifie sans borne
func ResolveTimeRange(timeRange, startDate, endDate string, now time.Time) (*time.Time, *time.Time, error) {
	var start time.Time
	switch timeRange {
	case "", "all":
		return nil, nil, nil
	case "custom":
		if startDate == "" || endDate == "" {
			return nil, nil, utils.CreateBadRequestError("startDate et endDate obligatoires pour une période personnalisée")
		}
		s, err := time.ParseInLocation(dateLayout, startDate, now.Location())
		if err != nil {
			return nil, nil, utils.CreateBadRequestError("startDate invalide")
		}
		e, err := time.ParseInLocation(dateLayout, endDate, now.Location())
		if err != nil {
			return nil, nil, utils.CreateBadRequestError("endDate invalide")
		}
		e = e.Add(24*time.Hour - time.Nanosecond)
		if e.Before(s) {
			return nil, nil, utils.CreateBadRequestError("endDate antérieure à startDate")
		}
		return &s, &e, nil
	case "week":
		// 7 derniers jours
		start = now.AddDate(0, 0, -7)
	case "current_week":
		// depuis lundi
		days := int(now.Weekday()) - 1
		if now.Weekday() == time.Sunday {
			days = 6
		}
		monday := now.AddDate(0, 0, -days)
		start = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, now.Location())
	case "month":
		start = now.AddDate(0, 0, -30)
	case "quarter":
		start = now.AddDate(0, -3, 0)
	case "year":
		start = now.AddDate(-1, 0, 0)
	default:
		return nil, nil, utils.CreateBadRequestError("timeRange inconnu: " + timeRange)
	}
	return &start, &now, nil
}

// GetAnalytics statistiques de la période, limitées au périmètre de l'utilisateur
func GetAnalytics(ctx context.Context, user *utils.LoginUser, timeRange, startDate, endDate string) (*AnalyticsStats, error) {
	now := time.Now()
	from, to, err := ResolveTimeRange(timeRange, startDate, endDate, now)
	if err != nil {
		return nil, err
	}

	db := repository.WithContext(ctx)
	inRange := func(q *gorm.DB, column string) *gorm.DB {
		if from != nil {
			q = q.Where(column+" >= ?", *from)
		}
		if to != nil {
			q = q.Where(column+" <= ?", *to)
		}
		return q
	}
	produits := func() *gorm.DB {
		return inRange(scopeProduits(db.Model(&models.Produit{}), user), "client_produits.created_at")
	}
	leads := func() *gorm.DB {
		return inRange(scopeLeads(db.Model(&models.Lead{}), user), "leads.created_at")
	}

	stats := &AnalyticsStats{TimeRange: timeRange, StartDate: from, EndDate: to}

	if err := produits().Distinct("client_produits.client_id").Count(&stats.Totals.Clients).Error; err != nil {
		return nil, err
	}
	if err := produits().Count(&stats.Totals.Produits).Error; err != nil {
		return nil, err
	}
	if err := leads().Where("leads.statut <> ?", models.LeadTrash).Count(&stats.Totals.Leads).Error; err != nil {
		return nil, err
	}

	appointments := db.Model(&models.Appointment{}).Where("date >= ?", now.Format(dateLayout))
	if !user.IsAdmin() {
		appointments = appointments.Where("user_id = ?", user.ID)
	}
	if err := appointments.Count(&stats.Totals.UpcomingAppointments).Error; err != nil {
		return nil, err
	}

	stats.ProduitsByStatut = make([]CountItem, 0)
	if err := produits().Select("client_produits.statut AS name, COUNT(*) AS count").
		Group("client_produits.statut").Order("count DESC").
		Scan(&stats.ProduitsByStatut).Error; err != nil {
		return nil, err
	}

	stats.ProduitsByType = make([]CountItem, 0)
	if err := produits().Select("client_produits.type_produit AS name, COUNT(*) AS count").
		Group("client_produits.type_produit").Order("count DESC").
		Scan(&stats.ProduitsByType).Error; err != nil {
		return nil, err
	}

	stats.ProduitsByAssignee = make([]AssigneeCount, 0)
	if err := produits().
		Select("client_produits.assigned_to AS user_id, COALESCE(users.username, '') AS username, COUNT(*) AS count").
		Joins("LEFT JOIN users ON users.id = client_produits.assigned_to").
		Group("client_produits.assigned_to, users.username").Order("count DESC").
		Scan(&stats.ProduitsByAssignee).Error; err != nil {
		return nil, err
	}

	stats.LeadsByStatut = make([]CountItem, 0)
	if err := leads().Select("leads.statut AS name, COUNT(*) AS count").
		Group("leads.statut").Order("count DESC").
		Scan(&stats.LeadsByStatut).Error; err != nil {
		return nil, err
	}

	// regroupement mensuel en Go, les fonctions de date diffèrent entre sqlite et postgres
	var created []time.Time
	if err := produits().Pluck("client_produits.created_at", &created).Error; err != nil {
		return nil, err
	}
	stats.MonthlyCreations = monthlyCounts(created)

	utils.LogInfo(map[string]interface{}{
		"username":  user.Username,
		"timeRange": timeRange,
		"produits":  stats.Totals.Produits,
	}, "statistiques calculées")
	return stats, nil
}

// monthlyCounts compte les créations par mois (AAAA-MM), ordre chronologique
func monthlyCounts(dates []time.Time) []CountItem {
	counts := make(map[string]int64)
	var months []string
	for _, d := range dates {
		m := d.Format("2006-01")
		if _, ok := counts[m]; !ok {
			months = append(months, m)
		}
		counts[m]++
	}
	sort.Strings(months)

	out := make([]CountItem, 0, len(months))
	for _, m := range months {
		out = append(out, CountItem{Name: m, Count: counts[m]})
	}
	return out
}
