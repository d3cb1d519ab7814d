package service

import (
	"net/http"

	"github.com/france-ecoenergie/crm_back/utils"
)

// Erreurs métier renvoyées par les services, directement traduites par utils.HandleError
var (
	ErrClientNotFound      = utils.CreateNotFoundError("Client")
	ErrProduitNotFound     = utils.CreateNotFoundError("Produit")
	ErrLeadNotFound        = utils.CreateNotFoundError("Lead")
	ErrUserNotFound        = utils.CreateNotFoundError("Utilisateur")
	ErrCommentNotFound     = utils.CreateNotFoundError("Commentaire")
	ErrAppointmentNotFound = utils.CreateNotFoundError("Rendez-vous")
	ErrDocumentNotFound    = utils.CreateNotFoundError("Document")
	ErrStatutNotFound      = utils.CreateNotFoundError("Statut")
	ErrCompanyNotFound     = utils.CreateNotFoundError("Entreprise")
	ErrDepartementNotFound = utils.CreateNotFoundError("Département")
	ErrIsolationNotFound   = utils.CreateNotFoundError("Niveau d'isolation")

	ErrDuplicateType     = utils.CreateConflictError("Le client possède déjà un produit de ce type")
	ErrUsernameTaken     = utils.CreateConflictError("Nom d'utilisateur déjà utilisé")
	ErrInvalidCredential = utils.NewApiError("Identifiants invalides", http.StatusUnauthorized, "INVALID_CREDENTIALS")
	ErrIPNotAllowed      = utils.NewApiError("Connexion refusée depuis cette adresse IP", http.StatusForbidden, "IP_NOT_ALLOWED")
	ErrSelfDelete        = utils.CreateBadRequestError("Impossible de supprimer son propre compte")
	ErrInvalidAssignee   = utils.CreateBadRequestError("Utilisateur assigné introuvable")
	ErrInvalidSiret      = utils.CreateBadRequestError("SIRET invalide: 14 chiffres attendus")
	ErrQueryTooShort     = utils.CreateBadRequestError("La recherche doit contenir au moins 3 caractères")
	ErrInvalidPostalCode = utils.CreateBadRequestError("Code postal invalide")
	ErrFileTooLarge      = utils.NewApiError("Fichier trop volumineux", http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE")
	ErrPreviewType       = utils.NewApiError("Aperçu non disponible pour ce type de fichier", http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE")
	ErrUpstream          = utils.NewApiError("Service d'enrichissement indisponible", http.StatusBadGateway, "UPSTREAM_ERROR")
)
