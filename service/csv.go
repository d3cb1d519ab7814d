package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ClientCSVHeader colonnes de l'import/export clients (séparateur point-virgule)
var ClientCSVHeader = []string{
	"societe", "adresse", "code_postal", "ville", "siret",
	"signataire_nom", "signataire_prenom", "signataire_telephone", "signataire_email",
	"type_produit", "statut",
}

// leadExportHeader colonnes de l'export leads
var leadExportHeader = []string{"first_name", "last_name", "email", "phone", "societe", "code_postal", "ville", "source", "statut", "created_at"}

var csvValidate = validator.New()

// csvRow ligne lue, avec son numéro de ligne dans le fichier
type csvRow struct {
	line   int
	fields []string
	err    error
}

// csvRows lit un CSV (BOM UTF-8 facultatif) et renvoie l'index des colonnes et les lignes.
// Une ligne mal formée est rendue avec son erreur, la lecture continue.
func csvRows(r io.Reader, comma rune) (map[string]int, []csvRow, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, utils.CreateBadRequestError("Fichier CSV vide")
		}
		return nil, nil, utils.CreateBadRequestError("CSV illisible: " + err.Error())
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var pe *csv.ParseError
		switch {
		case errors.As(err, &pe):
			rows = append(rows, csvRow{line: pe.StartLine, err: fmt.Errorf("ligne mal formée: %v", pe.Err)})
			continue
		case err != nil:
			return nil, nil, utils.CreateBadRequestError("CSV illisible: " + err.Error())
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, csvRow{line: line, fields: record})
	}
	return cols, rows, nil
}

func requireColumns(cols map[string]int, names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := cols[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return utils.CreateBadRequestError("Colonnes manquantes: " + strings.Join(missing, ", "))
	}
	return nil
}

func field(cols map[string]int, row []string, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ImportClientsCSV importe des clients; les lignes en erreur sont signalées sans bloquer les autres.
// Une ligne dont le SIRET (ou société + code postal sans SIRET) existe déjà ajoute un produit au client existant.
func ImportClientsCSV(ctx context.Context, user *utils.LoginUser, r io.Reader) (*models.ImportResult, error) {
	cols, rows, err := csvRows(r, ';')
	if err != nil {
		return nil, err
	}
	if err := requireColumns(cols, "societe", "type_produit"); err != nil {
		return nil, err
	}

	result := &models.ImportResult{Errors: make([]models.ImportError, 0)}
	for _, row := range rows {
		if row.err != nil {
			result.Errors = append(result.Errors, models.ImportError{Line: row.line, Error: row.err.Error()})
			continue
		}
		if isBlankRow(row.fields) {
			continue
		}
		if err := importClientRow(ctx, user, cols, row.fields); err != nil {
			result.Errors = append(result.Errors, models.ImportError{Line: row.line, Error: err.Error()})
			continue
		}
		result.Imported++
	}

	utils.LogInfo(map[string]interface{}{
		"imported": result.Imported,
		"errors":   len(result.Errors),
		"operator": user.Username,
	}, "import CSV clients terminé")
	return result, nil
}

func importClientRow(ctx context.Context, user *utils.LoginUser, cols map[string]int, row []string) error {
	fields := models.ClientFields{
		Societe:          field(cols, row, "societe"),
		Adresse:          field(cols, row, "adresse"),
		CodePostal:       field(cols, row, "code_postal"),
		Ville:            field(cols, row, "ville"),
		Siret:            strings.ReplaceAll(field(cols, row, "siret"), " ", ""),
		SignataireNom:    field(cols, row, "signataire_nom"),
		SignatairePrenom: field(cols, row, "signataire_prenom"),
		SignataireTel:    field(cols, row, "signataire_telephone"),
		SignataireEmail:  field(cols, row, "signataire_email"),
	}
	typ := models.TypeProduit(strings.ToLower(field(cols, row, "type_produit")))
	statut := models.ProduitStatut(strings.ToLower(field(cols, row, "statut")))

	switch {
	case fields.Societe == "":
		return errors.New("société manquante")
	case !typ.IsValid():
		return fmt.Errorf("type_produit invalide: %q", typ)
	case statut != "" && !statut.IsValid():
		return fmt.Errorf("statut invalide: %q", statut)
	case fields.Siret != "" && !utils.IsValidSiret(fields.Siret):
		return fmt.Errorf("SIRET invalide: %q", fields.Siret)
	case fields.CodePostal != "" && !postalCodePattern.MatchString(fields.CodePostal):
		return fmt.Errorf("code postal invalide: %q", fields.CodePostal)
	case fields.SignataireEmail != "" && csvValidate.Var(fields.SignataireEmail, "email") != nil:
		return fmt.Errorf("email invalide: %q", fields.SignataireEmail)
	}
	if statut == "" {
		statut = models.StatutNouveau
	}

	return repository.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		q := tx.Model(&models.Client{})
		if fields.Siret != "" {
			q = q.Where("siret = ?", fields.Siret)
		} else {
			q = q.Where("LOWER(societe) = ? AND code_postal = ?", strings.ToLower(fields.Societe), fields.CodePostal)
		}
		err := q.Order("id").First(&client).Error
		switch {
		case repository.IsNotFound(err):
			client = clientFromFields(fields)
			if err := tx.Omit(clause.Associations).Create(&client).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			var count int64
			if err := tx.Model(&models.Produit{}).
				Where("client_id = ? AND type_produit = ?", client.ID, typ).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("le client %s possède déjà un produit %s", client.Societe, typ)
			}
		}

		produit := models.Produit{ClientID: client.ID, TypeProduit: typ, Statut: statut}
		if err := tx.Omit(clause.Associations).Create(&produit).Error; err != nil {
			return err
		}
		return recordHistory(tx, &produit, models.HistoryCreation, "", string(statut), user, "import CSV")
	})
}

// ExportClientsCSV exporte une ligne par produit au format de l'import, avec BOM pour Excel
func ExportClientsCSV(ctx context.Context, user *utils.LoginUser, w io.Writer) error {
	produits, err := exportProduits(ctx, user)
	if err != nil {
		return err
	}

	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(ClientCSVHeader); err != nil {
		return err
	}
	for _, p := range produits {
		c := p.Client
		if c == nil {
			continue
		}
		if err := cw.Write([]string{
			c.Societe, c.Adresse, c.CodePostal, c.Ville, c.Siret,
			c.SignataireNom, c.SignatairePrenom, c.SignataireTel, c.SignataireEmail,
			string(p.TypeProduit), string(p.Statut),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// exportProduits tous les produits visibles avec client et assigné
func exportProduits(ctx context.Context, user *utils.LoginUser) ([]models.Produit, error) {
	produits := make([]models.Produit, 0)
	err := scopeProduits(repository.WithContext(ctx).Model(&models.Produit{}), user).
		Preload("Client").
		Preload("AssignedUser").
		Order("client_id, id").
		Find(&produits).Error
	return produits, err
}

// ImportLeadsCSV importe des leads; les lignes sans prénom ou nom sont signalées
func ImportLeadsCSV(ctx context.Context, user *utils.LoginUser, r io.Reader) (*models.ImportResult, error) {
	cols, rows, err := csvRows(r, ',')
	if err != nil {
		return nil, err
	}
	if err := requireColumns(cols, "first_name", "last_name"); err != nil {
		return nil, err
	}

	result := &models.ImportResult{Errors: make([]models.ImportError, 0)}
	leads := make([]models.Lead, 0, len(rows))
	for _, rec := range rows {
		if rec.err != nil {
			result.Errors = append(result.Errors, models.ImportError{Line: rec.line, Error: rec.err.Error()})
			continue
		}
		if isBlankRow(rec.fields) {
			continue
		}
		line, row := rec.line, rec.fields
		lead := models.Lead{
			FirstName:  field(cols, row, "first_name"),
			LastName:   field(cols, row, "last_name"),
			Email:      field(cols, row, "email"),
			Phone:      field(cols, row, "phone"),
			Societe:    field(cols, row, "societe"),
			CodePostal: field(cols, row, "code_postal"),
			Ville:      field(cols, row, "ville"),
			Source:     field(cols, row, "source"),
			Statut:     models.LeadNouveau,
		}
		if lead.Source == "" {
			lead.Source = "import CSV"
		}
		switch {
		case lead.FirstName == "" || lead.LastName == "":
			result.Errors = append(result.Errors, models.ImportError{Line: line, Error: "prénom ou nom manquant"})
			continue
		case lead.Email != "" && csvValidate.Var(lead.Email, "email") != nil:
			result.Errors = append(result.Errors, models.ImportError{Line: line, Error: fmt.Sprintf("email invalide: %q", lead.Email)})
			continue
		}
		if !user.IsAdmin() {
			lead.AssignedTo = &user.ID
		}
		leads = append(leads, lead)
	}

	if len(leads) > 0 {
		if err := repository.WithContext(ctx).Omit(clause.Associations).CreateInBatches(&leads, 100).Error; err != nil {
			return nil, err
		}
	}
	result.Imported = len(leads)

	utils.LogInfo(map[string]interface{}{
		"imported": result.Imported,
		"errors":   len(result.Errors),
		"operator": user.Username,
	}, "import CSV leads terminé")
	return result, nil
}

// ExportLeadsCSV exporte les leads visibles
func ExportLeadsCSV(ctx context.Context, user *utils.LoginUser, w io.Writer) error {
	leads := make([]models.Lead, 0)
	if err := scopeLeads(repository.WithContext(ctx).Model(&models.Lead{}), user).
		Order("id").
		Find(&leads).Error; err != nil {
		return err
	}

	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(leadExportHeader); err != nil {
		return err
	}
	for _, l := range leads {
		if err := cw.Write([]string{
			l.FirstName, l.LastName, l.Email, l.Phone, l.Societe, l.CodePostal, l.Ville,
			l.Source, string(l.Statut), l.CreatedAt.Format("2006-01-02 15:04"),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
