package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/stretchr/testify/require"
)

type fixtures struct {
	admin    *utils.LoginUser
	telepro  *utils.LoginUser
	telepro2 *utils.LoginUser
}

// setupDB base sqlite en mémoire propre au test, données de référence et trois comptes
func setupDB(t *testing.T) fixtures {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, repository.InitDatabase("sqlite", dsn, false))
	t.Cleanup(repository.CloseDatabase)

	SetUploadDir(t.TempDir())
	t.Cleanup(func() { SetUploadDir("") })

	ctx := context.Background()
	require.NoError(t, repository.SeedReferenceData(ctx))

	return fixtures{
		admin:    newUser(t, "admin", models.RoleAdmin, ""),
		telepro:  newUser(t, "alice", models.RoleTelepro, ""),
		telepro2: newUser(t, "bruno", models.RoleTelepro, ""),
	}
}

func newUser(t *testing.T, username string, role models.Role, allowedIP string) *utils.LoginUser {
	t.Helper()
	u, err := CreateUser(context.Background(), models.CreateUserRequest{
		Username:  username,
		FullName:  strings.ToUpper(username),
		Password:  "secret123",
		Role:      role,
		AllowedIP: allowedIP,
	})
	require.NoError(t, err)
	return &utils.LoginUser{ID: u.ID, Role: u.Role, Username: u.Username}
}

func newClient(t *testing.T, user *utils.LoginUser, societe string, typ models.TypeProduit, assignedTo *uint) *models.Client {
	t.Helper()
	c, err := CreateClient(context.Background(), user, models.CreateClientRequest{
		ClientFields: models.ClientFields{
			Societe:    societe,
			CodePostal: "69003",
			Ville:      "Lyon",
		},
		TypeProduit: typ,
		AssignedTo:  assignedTo,
	})
	require.NoError(t, err)
	require.Len(t, c.Produits, 1)
	return c
}

// fileHeader construit un *multipart.FileHeader comme le ferait gin
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func uintPtr(v uint) *uint { return &v }

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := err.(*utils.ApiError)
	require.True(t, ok, "erreur inattendue: %v", err)
	return apiErr.StatusCode
}
