package models

// TemperatureData température extérieure de base par département
type TemperatureData struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	Departement     string  `gorm:"size:3;uniqueIndex;not null" json:"departement"`
	Nom             string  `gorm:"size:120" json:"nom"`
	Zone            string  `gorm:"size:10" json:"zone"`
	TemperatureBase float64 `json:"temperature_base"`
}

// TableName nom de la table
func (TemperatureData) TableName() string { return "temperature_data" }

// Catégories de coefficients
const (
	CoefficientIsolation = "isolation" // coefficient G en W/m3.K
	CoefficientHauteur   = "hauteur"   // facteur correctif selon la hauteur sous plafond
)

// CoefficientData coefficient du calculateur de dimensionnement
type CoefficientData struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Category string  `gorm:"size:40;not null;uniqueIndex:idx_coef_cat_key" json:"category"`
	Key      string  `gorm:"size:40;not null;uniqueIndex:idx_coef_cat_key" json:"key"`
	Label    string  `gorm:"size:120" json:"label"`
	Value    float64 `json:"value"`
	MaxValue float64 `json:"max_value"` // borne haute (hauteur en m) pour la catégorie hauteur
}

// TableName nom de la table
func (CoefficientData) TableName() string { return "coefficient_data" }
