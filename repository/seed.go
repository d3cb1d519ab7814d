package repository

import (
	"context"
	"fmt"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var produitStatutLabels = map[models.ProduitStatut][2]string{
	models.StatutNouveau:               {"Nouveau", "#3b82f6"},
	models.StatutNRP:                   {"NRP", "#f97316"},
	models.StatutARappeler:             {"À rappeler", "#eab308"},
	models.StatutRdvPlanifie:           {"RDV planifié", "#8b5cf6"},
	models.StatutVisiteTechnique:       {"Visite technique", "#06b6d4"},
	models.StatutDevisEnvoye:           {"Devis envoyé", "#0ea5e9"},
	models.StatutDevisSigne:            {"Devis signé", "#10b981"},
	models.StatutInstallationPlanifiee: {"Installation planifiée", "#14b8a6"},
	models.StatutInstallationRealisee:  {"Installation réalisée", "#22c55e"},
	models.StatutTermine:               {"Terminé", "#64748b"},
}

var leadStatutLabels = map[models.LeadStatut][2]string{
	models.LeadNouveau:      {"Nouveau", "#3b82f6"},
	models.LeadNRP:          {"NRP", "#f97316"},
	models.LeadARappeler:    {"À rappeler", "#eab308"},
	models.LeadPasInteresse: {"Pas intéressé", "#ef4444"},
	models.LeadTrash:        {"Corbeille", "#6b7280"},
}

// coefficients G (W/m3.K) par niveau d'isolation et facteurs de hauteur
var defaultCoefficients = []models.CoefficientData{
	{Category: models.CoefficientIsolation, Key: "non_isole", Label: "Bâtiment non isolé", Value: 1.8},
	{Category: models.CoefficientIsolation, Key: "faible", Label: "Isolation faible", Value: 1.4},
	{Category: models.CoefficientIsolation, Key: "moyenne", Label: "Isolation moyenne", Value: 1.0},
	{Category: models.CoefficientIsolation, Key: "bonne", Label: "Bonne isolation", Value: 0.75},
	{Category: models.CoefficientIsolation, Key: "rt2012", Label: "Isolation RT 2012", Value: 0.5},
	{Category: models.CoefficientHauteur, Key: "h5", Label: "Jusqu'à 5 m", Value: 1.0, MaxValue: 5},
	{Category: models.CoefficientHauteur, Key: "h8", Label: "5 à 8 m", Value: 1.1, MaxValue: 8},
	{Category: models.CoefficientHauteur, Key: "h12", Label: "8 à 12 m", Value: 1.2, MaxValue: 12},
	{Category: models.CoefficientHauteur, Key: "h20", Label: "Plus de 12 m", Value: 1.3, MaxValue: 99},
}

// SeedReferenceData insère les données de référence manquantes
func SeedReferenceData(ctx context.Context) error {
	return WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, s := range models.ProduitStatuts {
			l := produitStatutLabels[s]
			if err := upsertIgnore(tx, &models.Statut{Kind: models.StatutKindProduit, Key: string(s), Label: l[0], Color: l[1], Position: i}); err != nil {
				return err
			}
		}
		for i, s := range models.LeadStatuts {
			l := leadStatutLabels[s]
			if err := upsertIgnore(tx, &models.Statut{Kind: models.StatutKindLead, Key: string(s), Label: l[0], Color: l[1], Position: i}); err != nil {
				return err
			}
		}
		for _, c := range defaultCoefficients {
			c := c
			if err := upsertIgnore(tx, &c); err != nil {
				return err
			}
		}
		for _, t := range defaultTemperatures() {
			t := t
			if err := upsertIgnore(tx, &t); err != nil {
				return err
			}
		}
		utils.Logger.Info().Msg("données de référence vérifiées")
		return nil
	})
}

// upsertIgnore n'écrase jamais les valeurs modifiées par un admin
func upsertIgnore(tx *gorm.DB, value interface{}) error {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(value).Error; err != nil {
		return fmt.Errorf("insertion des données de référence: %w", err)
	}
	return nil
}

func defaultTemperatures() []models.TemperatureData {
	rows := []struct {
		dep, nom, zone string
		temp           float64
	}{
		{"01", "Ain", "H1c", -10}, {"02", "Aisne", "H1a", -7}, {"03", "Allier", "H1c", -8},
		{"04", "Alpes-de-Haute-Provence", "H2d", -8}, {"05", "Hautes-Alpes", "H1c", -10}, {"06", "Alpes-Maritimes", "H3", -5},
		{"07", "Ardèche", "H2d", -6}, {"08", "Ardennes", "H1b", -10}, {"09", "Ariège", "H2c", -5},
		{"10", "Aube", "H1b", -10}, {"11", "Aude", "H3", -5}, {"12", "Aveyron", "H2c", -8},
		{"13", "Bouches-du-Rhône", "H3", -5}, {"14", "Calvados", "H1a", -7}, {"15", "Cantal", "H1c", -8},
		{"16", "Charente", "H2b", -5}, {"17", "Charente-Maritime", "H2b", -5}, {"18", "Cher", "H2b", -7},
		{"19", "Corrèze", "H1c", -8}, {"2A", "Corse-du-Sud", "H3", -2}, {"2B", "Haute-Corse", "H3", -2},
		{"21", "Côte-d'Or", "H1c", -10}, {"22", "Côtes-d'Armor", "H2a", -4}, {"23", "Creuse", "H1c", -8},
		{"24", "Dordogne", "H2c", -5}, {"25", "Doubs", "H1c", -12}, {"26", "Drôme", "H2d", -6},
		{"27", "Eure", "H1a", -7}, {"28", "Eure-et-Loir", "H1a", -7}, {"29", "Finistère", "H2a", -4},
		{"30", "Gard", "H3", -5}, {"31", "Haute-Garonne", "H2c", -5}, {"32", "Gers", "H2c", -5},
		{"33", "Gironde", "H2c", -5}, {"34", "Hérault", "H3", -5}, {"35", "Ille-et-Vilaine", "H2a", -4},
		{"36", "Indre", "H2b", -7}, {"37", "Indre-et-Loire", "H2b", -7}, {"38", "Isère", "H1c", -10},
		{"39", "Jura", "H1c", -12}, {"40", "Landes", "H2c", -5}, {"41", "Loir-et-Cher", "H2b", -7},
		{"42", "Loire", "H1c", -10}, {"43", "Haute-Loire", "H1c", -8}, {"44", "Loire-Atlantique", "H2b", -5},
		{"45", "Loiret", "H1b", -7}, {"46", "Lot", "H2c", -6}, {"47", "Lot-et-Garonne", "H2c", -5},
		{"48", "Lozère", "H2d", -8}, {"49", "Maine-et-Loire", "H2b", -7}, {"50", "Manche", "H2a", -4},
		{"51", "Marne", "H1b", -10}, {"52", "Haute-Marne", "H1b", -12}, {"53", "Mayenne", "H2b", -7},
		{"54", "Meurthe-et-Moselle", "H1b", -15}, {"55", "Meuse", "H1b", -12}, {"56", "Morbihan", "H2a", -4},
		{"57", "Moselle", "H1b", -15}, {"58", "Nièvre", "H1b", -10}, {"59", "Nord", "H1a", -9},
		{"60", "Oise", "H1a", -7}, {"61", "Orne", "H1a", -7}, {"62", "Pas-de-Calais", "H1a", -9},
		{"63", "Puy-de-Dôme", "H1c", -8}, {"64", "Pyrénées-Atlantiques", "H2c", -5}, {"65", "Hautes-Pyrénées", "H2c", -5},
		{"66", "Pyrénées-Orientales", "H3", -5}, {"67", "Bas-Rhin", "H1b", -15}, {"68", "Haut-Rhin", "H1b", -15},
		{"69", "Rhône", "H1c", -10}, {"70", "Haute-Saône", "H1b", -12}, {"71", "Saône-et-Loire", "H1c", -10},
		{"72", "Sarthe", "H2b", -7}, {"73", "Savoie", "H1c", -10}, {"74", "Haute-Savoie", "H1c", -10},
		{"75", "Paris", "H1a", -5}, {"76", "Seine-Maritime", "H1a", -7}, {"77", "Seine-et-Marne", "H1a", -7},
		{"78", "Yvelines", "H1a", -7}, {"79", "Deux-Sèvres", "H2b", -7}, {"80", "Somme", "H1a", -9},
		{"81", "Tarn", "H2c", -5}, {"82", "Tarn-et-Garonne", "H2c", -5}, {"83", "Var", "H3", -5},
		{"84", "Vaucluse", "H2d", -6}, {"85", "Vendée", "H2b", -5}, {"86", "Vienne", "H2b", -7},
		{"87", "Haute-Vienne", "H1c", -8}, {"88", "Vosges", "H1b", -15}, {"89", "Yonne", "H1b", -10},
		{"90", "Territoire de Belfort", "H1b", -15}, {"91", "Essonne", "H1a", -7}, {"92", "Hauts-de-Seine", "H1a", -7},
		{"93", "Seine-Saint-Denis", "H1a", -7}, {"94", "Val-de-Marne", "H1a", -7}, {"95", "Val-d'Oise", "H1a", -7},
	}

	out := make([]models.TemperatureData, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.TemperatureData{Departement: r.dep, Nom: r.nom, Zone: r.zone, TemperatureBase: r.temp})
	}
	return out
}
