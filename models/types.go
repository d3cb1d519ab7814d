package models

// Requêtes et réponses de l'API
type (
	// LoginRequest requête de connexion
	LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	// LoginResponse réponse de connexion
	LoginResponse struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}

	// CreateUserRequest création d'un utilisateur
	CreateUserRequest struct {
		Username  string `json:"username" binding:"required,min=2,max=100"`
		FullName  string `json:"full_name" binding:"max=200"`
		Password  string `json:"password" binding:"required,min=6"`
		Role      Role   `json:"role" binding:"required,oneof=admin telepro"`
		AllowedIP string `json:"allowed_ip" binding:"omitempty,iplist"`
	}

	// UpdateUserRequest mise à jour partielle d'un utilisateur
	UpdateUserRequest struct {
		Username  *string `json:"username" binding:"omitempty,min=2,max=100"`
		FullName  *string `json:"full_name" binding:"omitempty,max=200"`
		Password  *string `json:"password" binding:"omitempty,min=6"`
		Role      *Role   `json:"role" binding:"omitempty,oneof=admin telepro"`
		AllowedIP *string `json:"allowed_ip" binding:"omitempty,iplist"`
	}

	// ClientFields champs de base d'un client
	ClientFields struct {
		Societe            string `json:"societe"`
		Adresse            string `json:"adresse"`
		CodePostal         string `json:"code_postal" binding:"omitempty,numeric,len=5"`
		Ville              string `json:"ville"`
		Siret              string `json:"siret" binding:"omitempty,siret"`
		Telephone          string `json:"telephone"`
		Email              string `json:"email" binding:"omitempty,email"`
		SignataireNom      string `json:"signataire_nom"`
		SignatairePrenom   string `json:"signataire_prenom"`
		SignataireFonction string `json:"signataire_fonction"`
		SignataireTel      string `json:"signataire_telephone"`
		SignataireEmail    string `json:"signataire_email" binding:"omitempty,email"`
		AdresseTravaux     string `json:"adresse_travaux"`
		CodePostalTravaux  string `json:"code_postal_travaux" binding:"omitempty,numeric,len=5"`
		VilleTravaux       string `json:"ville_travaux"`
		ContactTravauxNom  string `json:"contact_travaux_nom"`
		ContactTravauxTel  string `json:"contact_travaux_telephone"`
		ContactTravauxEm   string `json:"contact_travaux_email" binding:"omitempty,email"`
	}

	// CreateClientRequest création d'un client et de son premier produit
	CreateClientRequest struct {
		ClientFields
		TypeProduit       TypeProduit    `json:"type_produit" binding:"required,type_produit"`
		Statut            ProduitStatut  `json:"statut" binding:"omitempty,produit_statut"`
		DonneesTechniques map[string]any `json:"donnees_techniques"`
		AssignedTo        *uint          `json:"assigned_to"`
	}

	// UpdateClientRequest mise à jour partielle des champs de base d'un client
	UpdateClientRequest struct {
		Societe            *string `json:"societe" binding:"omitempty,min=1"`
		Adresse            *string `json:"adresse"`
		CodePostal         *string `json:"code_postal" binding:"omitempty,numeric,len=5"`
		Ville              *string `json:"ville"`
		Siret              *string `json:"siret" binding:"omitempty,siret"`
		Telephone          *string `json:"telephone"`
		Email              *string `json:"email" binding:"omitempty,email"`
		SignataireNom      *string `json:"signataire_nom"`
		SignatairePrenom   *string `json:"signataire_prenom"`
		SignataireFonction *string `json:"signataire_fonction"`
		SignataireTel      *string `json:"signataire_telephone"`
		SignataireEmail    *string `json:"signataire_email" binding:"omitempty,email"`
		AdresseTravaux     *string `json:"adresse_travaux"`
		CodePostalTravaux  *string `json:"code_postal_travaux" binding:"omitempty,numeric,len=5"`
		VilleTravaux       *string `json:"ville_travaux"`
		ContactTravauxNom  *string `json:"contact_travaux_nom"`
		ContactTravauxTel  *string `json:"contact_travaux_telephone"`
		ContactTravauxEm   *string `json:"contact_travaux_email" binding:"omitempty,email"`
	}

	// UpdateProduitRequest mise à jour partielle d'un produit
	UpdateProduitRequest struct {
		Statut            *ProduitStatut `json:"statut" binding:"omitempty,produit_statut"`
		DonneesTechniques map[string]any `json:"donnees_techniques"`
		AssignedTo        *uint          `json:"assigned_to"`
		Unassign          bool           `json:"unassign"`
	}

	// DuplicateProduitRequest duplication d'un produit vers un autre type
	DuplicateProduitRequest struct {
		TypeProduit TypeProduit `json:"type_produit" binding:"required,type_produit"`
	}

	// BulkAssignRequest assignation en masse
	BulkAssignRequest struct {
		IDs        []uint `json:"ids" binding:"required,min=1"`
		AssignedTo *uint  `json:"assigned_to"`
	}

	// BulkDeleteRequest suppression en masse
	BulkDeleteRequest struct {
		IDs []uint `json:"ids" binding:"required,min=1"`
	}

	// LeadRequest création d'un lead
	LeadRequest struct {
		FirstName  string     `json:"first_name" binding:"required"`
		LastName   string     `json:"last_name" binding:"required"`
		Email      string     `json:"email" binding:"omitempty,email"`
		Phone      string     `json:"phone"`
		Societe    string     `json:"societe"`
		Adresse    string     `json:"adresse"`
		CodePostal string     `json:"code_postal" binding:"omitempty,numeric,len=5"`
		Ville      string     `json:"ville"`
		Siret      string     `json:"siret" binding:"omitempty,siret"`
		Source     string     `json:"source"`
		Statut     LeadStatut `json:"statut" binding:"omitempty,lead_statut"`
		AssignedTo *uint      `json:"assigned_to"`
	}

	// UpdateLeadRequest mise à jour partielle d'un lead
	UpdateLeadRequest struct {
		FirstName  *string     `json:"first_name" binding:"omitempty,min=1"`
		LastName   *string     `json:"last_name" binding:"omitempty,min=1"`
		Email      *string     `json:"email" binding:"omitempty,email"`
		Phone      *string     `json:"phone"`
		Societe    *string     `json:"societe"`
		Adresse    *string     `json:"adresse"`
		CodePostal *string     `json:"code_postal" binding:"omitempty,numeric,len=5"`
		Ville      *string     `json:"ville"`
		Siret      *string     `json:"siret" binding:"omitempty,siret"`
		Source     *string     `json:"source"`
		Statut     *LeadStatut `json:"statut" binding:"omitempty,lead_statut"`
		AssignedTo *uint       `json:"assigned_to"`
	}

	// ConvertLeadRequest conversion d'un lead en client
	ConvertLeadRequest struct {
		ClientFields
		TypeProduit       TypeProduit    `json:"type_produit" binding:"required,type_produit"`
		DonneesTechniques map[string]any `json:"donnees_techniques"`
	}

	// CommentRequest création ou modification d'un commentaire
	CommentRequest struct {
		Content   string `json:"content" binding:"required"`
		ProduitID *uint  `json:"produit_id"`
	}

	// AppointmentRequest création d'un rendez-vous
	AppointmentRequest struct {
		Title     string `json:"title" binding:"required"`
		Date      string `json:"date" binding:"required,datetime=2006-01-02"`
		Time      string `json:"time" binding:"omitempty,datetime=15:04"`
		Location  string `json:"location"`
		Notes     string `json:"notes"`
		ClientID  *uint  `json:"client_id"`
		ProduitID *uint  `json:"produit_id"`
		LeadID    *uint  `json:"lead_id"`
	}

	// UpdateAppointmentRequest mise à jour partielle d'un rendez-vous
	UpdateAppointmentRequest struct {
		Title    *string `json:"title" binding:"omitempty,min=1"`
		Date     *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
		Time     *string `json:"time" binding:"omitempty,datetime=15:04"`
		Location *string `json:"location"`
		Notes    *string `json:"notes"`
	}

	// UpdateStatutRequest modification d'un libellé de statut
	UpdateStatutRequest struct {
		Label    *string `json:"label" binding:"omitempty,min=1"`
		Color    *string `json:"color"`
		Position *int    `json:"position"`
	}

	// DimensioningRequest entrée du calculateur
	DimensioningRequest struct {
		Surface               float64  `json:"surface" binding:"required,gt=0"`
		Hauteur               float64  `json:"hauteur" binding:"required,gt=0"`
		Departement           string   `json:"departement" binding:"required"`
		Isolation             string   `json:"isolation" binding:"required"`
		TemperatureInterieure *float64 `json:"temperature_interieure"`
	}

	// DimensioningResult résultat du calculateur
	DimensioningResult struct {
		Volume                float64 `json:"volume"`
		TemperatureBase       float64 `json:"temperature_base"`
		TemperatureInterieure float64 `json:"temperature_interieure"`
		DeltaT                float64 `json:"delta_t"`
		CoefficientG          float64 `json:"coefficient_g"`
		FacteurHauteur        float64 `json:"facteur_hauteur"`
		DeperditionsKW        float64 `json:"deperditions_kw"`
		NombreDestratifieurs  int     `json:"nombre_destratificateurs"`
	}

	// ImportError erreur d'import sur une ligne
	ImportError struct {
		Line  int    `json:"line"`
		Error string `json:"error"`
	}

	// ImportResult bilan d'un import CSV
	ImportResult struct {
		Imported int           `json:"imported"`
		Errors   []ImportError `json:"errors"`
	}
)
