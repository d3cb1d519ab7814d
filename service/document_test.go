package service

import (
	"context"
	"os"
	"testing"

	"github.com/france-ecoenergie/crm_back/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanPreview(t *testing.T) {
	assert.True(t, CanPreview("devis.PDF"))
	assert.True(t, CanPreview("photo.jpeg"))
	assert.False(t, CanPreview("export.xlsx"))
	assert.False(t, CanPreview("sans-extension"))
}

func TestDocumentLifecycle(t *testing.T) {
	fx := setupDB(t)
	ctx := context.Background()

	c := newClient(t, fx.admin, "Tannerie Gauthier", models.TypeDestratification, &fx.telepro.ID)
	pid := c.Produits[0].ID

	pdf, err := UploadDocument(ctx, fx.telepro, c.ID, &pid, fileHeader(t, "../../etc/devis.pdf", []byte("%PDF")))
	require.NoError(t, err)
	assert.Equal(t, "devis.pdf", pdf.FileName)
	assert.Equal(t, "application/pdf", pdf.MimeType)
	assert.EqualValues(t, 4, pdf.Size)
	assert.Equal(t, fx.telepro.ID, pdf.UploadedBy)

	archive, err := UploadDocument(ctx, fx.admin, c.ID, nil, fileHeader(t, "pieces.zip", []byte("PK")))
	require.NoError(t, err)

	_, err = UploadDocument(ctx, fx.telepro2, c.ID, nil, fileHeader(t, "intrus.txt", []byte("x")))
	assert.ErrorIs(t, err, ErrClientNotFound)
	_, err = UploadDocument(ctx, fx.admin, c.ID, nil, nil)
	require.Error(t, err)

	docs, err := ListDocuments(ctx, fx.telepro, c.ID, nil)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	doc, path, err := OpenDocument(ctx, fx.telepro, pdf.ID, true)
	require.NoError(t, err)
	assert.Equal(t, pdf.ID, doc.ID)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(content))

	_, _, err = OpenDocument(ctx, fx.admin, archive.ID, true)
	assert.ErrorIs(t, err, ErrPreviewType)
	_, _, err = OpenDocument(ctx, fx.admin, archive.ID, false)
	require.NoError(t, err)

	_, _, err = OpenDocument(ctx, fx.telepro2, pdf.ID, false)
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	require.NoError(t, DeleteDocument(ctx, fx.telepro, pdf.ID))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	assert.ErrorIs(t, DeleteDocument(ctx, fx.telepro, pdf.ID), ErrDocumentNotFound)
}
