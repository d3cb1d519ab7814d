package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/france-ecoenergie/crm_back/config"
	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
)

const enrichmentCacheTTL = 24 * time.Hour

var postalCodePattern = regexp.MustCompile(`^\d{5}$`)

// CompanyInfo attributs d'entreprise projetés sur les champs client
type CompanyInfo struct {
	Societe    string `json:"societe"`
	Adresse    string `json:"adresse"`
	CodePostal string `json:"code_postal"`
	Ville      string `json:"ville"`
	Siret      string `json:"siret"`
	Siren      string `json:"siren"`
	NAF        string `json:"naf"`
	Dirigeant  string `json:"dirigeant"`
}

type searchResponse struct {
	Results      []companyResult `json:"results"`
	TotalResults int             `json:"total_results"`
}

type companyResult struct {
	Siren                  string          `json:"siren"`
	NomComplet             string          `json:"nom_complet"`
	NomRaisonSociale       string          `json:"nom_raison_sociale"`
	ActivitePrincipale     string          `json:"activite_principale"`
	Siege                  *etablissement  `json:"siege"`
	Dirigeants             []dirigeant     `json:"dirigeants"`
	MatchingEtablissements []etablissement `json:"matching_etablissements"`
}

type etablissement struct {
	Siret              string `json:"siret"`
	Adresse            string `json:"adresse"`
	CodePostal         string `json:"code_postal"`
	LibelleCommune     string `json:"libelle_commune"`
	ActivitePrincipale string `json:"activite_principale"`
}

type dirigeant struct {
	Nom     string `json:"nom"`
	Prenoms string `json:"prenoms"`
	Qualite string `json:"qualite"`
}

type commune struct {
	Nom  string `json:"nom"`
	Code string `json:"code"`
}

// Enricher client des API publiques d'entreprises et de communes, avec cache Redis facultatif
type Enricher struct {
	api   *resty.Client
	geo   *resty.Client
	cache *redis.Client
}

// NewEnricher crée un client d'enrichissement; cache peut être nil
func NewEnricher(apiBaseURL, geoBaseURL string, cache *redis.Client) *Enricher {
	newClient := func(base string) *resty.Client {
		return resty.New().
			SetBaseURL(strings.TrimRight(base, "/")).
			SetTimeout(10*time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(500*time.Millisecond).
			SetRetryMaxWaitTime(2*time.Second).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= http.StatusInternalServerError
			}).
			SetHeader("Accept", "application/json")
	}
	return &Enricher{
		api:   newClient(apiBaseURL),
		geo:   newClient(geoBaseURL),
		cache: cache,
	}
}

var (
	defaultEnricher     *Enricher
	defaultEnricherOnce sync.Once
)

// Enrichment client d'enrichissement configuré depuis l'environnement
func Enrichment() *Enricher {
	defaultEnricherOnce.Do(func() {
		cfg := config.LoadConfig()
		defaultEnricher = NewEnricher(cfg.EnrichmentBaseURL, cfg.GeoBaseURL, repository.Redis())
	})
	return defaultEnricher
}

// cached lit la clé dans Redis ou calcule puis mémorise la valeur
func cached[T any](ctx context.Context, cache *redis.Client, key string, fetch func() (T, error)) (T, error) {
	var value T
	if cache != nil {
		raw, err := cache.Get(ctx, key).Bytes()
		if err == nil && json.Unmarshal(raw, &value) == nil {
			return value, nil
		}
		if err != nil && !errors.Is(err, redis.Nil) {
			utils.Logger.Warn().Err(err).Str("key", key).Msg("lecture du cache redis échouée")
		}
	}

	value, err := fetch()
	if err != nil {
		return value, err
	}

	if cache != nil {
		if raw, err := json.Marshal(value); err == nil {
			if err := cache.Set(ctx, key, raw, enrichmentCacheTTL).Err(); err != nil {
				utils.Logger.Warn().Err(err).Str("key", key).Msg("écriture du cache redis échouée")
			}
		}
	}
	return value, nil
}

func (e *Enricher) search(ctx context.Context, query string, perPage int) (*searchResponse, error) {
	var out searchResponse
	resp, err := e.api.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        query,
			"per_page": strconv.Itoa(perPage),
		}).
		SetResult(&out).
		Get("/search")
	if err != nil {
		utils.LogError(err, map[string]interface{}{"q": query}, "appel recherche-entreprises échoué")
		return nil, ErrUpstream
	}
	if resp.IsError() {
		utils.Logger.Warn().Int("status", resp.StatusCode()).Str("q", query).Msg("recherche-entreprises en erreur")
		return nil, ErrUpstream
	}
	return &out, nil
}

// LookupSiret entreprise correspondant à un SIRET
func (e *Enricher) LookupSiret(ctx context.Context, siret string) (*CompanyInfo, error) {
	siret = strings.ReplaceAll(strings.TrimSpace(siret), " ", "")
	if !utils.IsValidSiret(siret) {
		return nil, ErrInvalidSiret
	}

	info, err := cached(ctx, e.cache, "enrichment:siret:"+siret, func() (*CompanyInfo, error) {
		res, err := e.search(ctx, siret, 1)
		if err != nil {
			return nil, err
		}
		// recherche plein texte : seul un résultat du même SIREN convient
		for _, r := range res.Results {
			if r.Siren == siret[:9] {
				info := toCompanyInfo(r, siret)
				return &info, nil
			}
		}
		return nil, ErrCompanyNotFound
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Suggest suggestions d'entreprises pour une saisie libre
func (e *Enricher) Suggest(ctx context.Context, query string) ([]CompanyInfo, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 3 {
		return nil, ErrQueryTooShort
	}

	return cached(ctx, e.cache, "enrichment:suggest:"+strings.ToLower(query), func() ([]CompanyInfo, error) {
		res, err := e.search(ctx, query, 10)
		if err != nil {
			return nil, err
		}
		out := make([]CompanyInfo, 0, len(res.Results))
		for _, r := range res.Results {
			out = append(out, toCompanyInfo(r, ""))
		}
		return out, nil
	})
}

// Communes noms des communes d'un code postal
func (e *Enricher) Communes(ctx context.Context, codePostal string) ([]string, error) {
	codePostal = strings.TrimSpace(codePostal)
	if !postalCodePattern.MatchString(codePostal) {
		return nil, ErrInvalidPostalCode
	}

	return cached(ctx, e.cache, "enrichment:communes:"+codePostal, func() ([]string, error) {
		var communes []commune
		resp, err := e.geo.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"codePostal": codePostal,
				"fields":     "nom,code",
				"format":     "json",
			}).
			SetResult(&communes).
			Get("/communes")
		if err != nil {
			utils.LogError(err, map[string]interface{}{"code_postal": codePostal}, "appel geo.api.gouv.fr échoué")
			return nil, ErrUpstream
		}
		if resp.IsError() {
			return nil, ErrUpstream
		}

		names := make([]string, 0, len(communes))
		for _, c := range communes {
			names = append(names, c.Nom)
		}
		sort.Strings(names)
		return names, nil
	})
}

// toCompanyInfo projette un résultat sur les champs client; l'établissement
// correspondant au SIRET demandé est préféré au siège
func toCompanyInfo(r companyResult, siret string) CompanyInfo {
	info := CompanyInfo{
		Societe: r.NomComplet,
		Siren:   r.Siren,
		NAF:     r.ActivitePrincipale,
	}
	if info.Societe == "" {
		info.Societe = r.NomRaisonSociale
	}

	var etab *etablissement
	for i := range r.MatchingEtablissements {
		if siret != "" && r.MatchingEtablissements[i].Siret == siret {
			etab = &r.MatchingEtablissements[i]
			break
		}
	}
	if etab == nil {
		etab = r.Siege
	}
	if etab != nil {
		info.Adresse = etab.Adresse
		info.CodePostal = etab.CodePostal
		info.Ville = etab.LibelleCommune
		info.Siret = etab.Siret
		if etab.ActivitePrincipale != "" {
			info.NAF = etab.ActivitePrincipale
		}
	}
	if siret != "" {
		info.Siret = siret
	}

	// l'adresse complète se termine par le code postal et la commune
	if info.CodePostal != "" {
		if i := strings.Index(info.Adresse, " "+info.CodePostal); i > 0 {
			info.Adresse = strings.TrimSpace(info.Adresse[:i])
		}
	}

	if len(r.Dirigeants) > 0 {
		d := r.Dirigeants[0]
		info.Dirigeant = strings.TrimSpace(d.Prenoms + " " + d.Nom)
	}
	return info
}
