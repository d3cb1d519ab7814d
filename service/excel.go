package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/xuri/excelize/v2"
)

const clientsSheet = "Clients"

// clientExcelHeader colonnes de l'export Excel, une ligne par produit
var clientExcelHeader = []string{
	"Société", "Adresse", "Code postal", "Ville", "SIRET", "Téléphone", "Email",
	"Signataire", "Tél. signataire", "Email signataire",
	"Type de produit", "Statut", "Assigné à", "Créé le", "Modifié le",
}

var clientExcelWidths = []float64{30, 35, 12, 20, 18, 16, 28, 25, 16, 28, 20, 22, 18, 18, 18}

// ExportClientsExcel classeur xlsx des produits visibles
func ExportClientsExcel(ctx context.Context, user *utils.LoginUser) ([]byte, error) {
	produits, err := exportProduits(ctx, user)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			utils.Logger.Warn().Err(err).Msg("fermeture du classeur échouée")
		}
	}()

	index, err := f.NewSheet(clientsSheet)
	if err != nil {
		return nil, fmt.Errorf("création de la feuille: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F7A3D"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("style d'en-tête: %w", err)
	}

	for i, h := range clientExcelHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(clientsSheet, cell, h); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(clientsSheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(clientsSheet, col, col, clientExcelWidths[i]); err != nil {
			return nil, err
		}
	}

	row := 2
	for _, p := range produits {
		c := p.Client
		if c == nil {
			continue
		}
		assignee := ""
		if p.AssignedUser != nil {
			assignee = p.AssignedUser.Username
		}
		values := []interface{}{
			c.Societe, c.Adresse, c.CodePostal, c.Ville, c.Siret, c.Telephone, c.Email,
			fmt.Sprintf("%s %s", c.SignatairePrenom, c.SignataireNom), c.SignataireTel, c.SignataireEmail,
			string(p.TypeProduit), string(p.Statut), assignee,
			p.CreatedAt.Format("02/01/2006 15:04"), p.UpdatedAt.Format("02/01/2006 15:04"),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(clientsSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("écriture de la ligne %d: %w", row, err)
		}
		row++
	}

	if err := f.SetPanes(clientsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("écriture du classeur: %w", err)
	}
	return buf.Bytes(), nil
}
