package utils

import (
	"regexp"
	"sync"

	"github.com/france-ecoenergie/crm_back/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	siretPattern = regexp.MustCompile(`^\d{14}$`)
	registerOnce sync.Once
)

// IsValidSiret vérifie le format d'un SIRET (14 chiffres)
func IsValidSiret(siret string) bool {
	return siretPattern.MatchString(siret)
}

// RegisterValidators enregistre les règles métier auprès du validateur de gin
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("siret", func(fl validator.FieldLevel) bool {
			return IsValidSiret(fl.Field().String())
		})
		_ = v.RegisterValidation("type_produit", func(fl validator.FieldLevel) bool {
			return models.TypeProduit(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("produit_statut", func(fl validator.FieldLevel) bool {
			return models.ProduitStatut(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("lead_statut", func(fl validator.FieldLevel) bool {
			return models.LeadStatut(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("iplist", func(fl validator.FieldLevel) bool {
			return ValidIPList(fl.Field().String())
		})
	})
}
