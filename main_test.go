package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/service"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adresse TCP par défaut de httptest.NewRequest
const remoteIP = "192.0.2.1"

func init() {
	gin.SetMode(gin.TestMode)
	utils.RegisterValidators()
}

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	require.NoError(t, repository.InitDatabase("sqlite", dsn, false))
	t.Cleanup(repository.CloseDatabase)

	ctx := context.Background()
	require.NoError(t, repository.SeedReferenceData(ctx))
	require.NoError(t, repository.InitializeAdminAccount(ctx, "admin", "admin123"))

	service.SetUploadDir(t.TempDir())
	t.Cleanup(func() { service.SetUploadDir("") })
	return NewRouter()
}

type response struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Code       string          `json:"code"`
	Pagination struct {
		Total int64 `json:"total"`
	} `json:"pagination"`
}

func send(t *testing.T, r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, response) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp response
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func jsonRequest(t *testing.T, method, path, token string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func loginRequest(t *testing.T, username, password string) *http.Request {
	return jsonRequest(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": username, "password": password})
}

func loginAs(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w, resp := send(t, r, loginRequest(t, username, password))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data.Token
}

func createUser(t *testing.T, r *gin.Engine, token string, body gin.H) uint {
	t.Helper()
	w, resp := send(t, r, jsonRequest(t, http.MethodPost, "/api/users", token, body))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var data struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data.ID
}

func TestForwardedForIsIgnoredWithoutTrustedProxy(t *testing.T) {
	r := setupServer(t)
	admin := loginAs(t, r, "admin", "admin123")
	createUser(t, r, admin, gin.H{
		"username": "bureau", "password": "secret123", "role": "telepro", "allowed_ip": "10.0.0.5",
	})

	w, resp := send(t, r, loginRequest(t, "bureau", "secret123"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, resp.Success)

	req := loginRequest(t, "bureau", "secret123")
	req.Header.Set("X-Forwarded-For", "10.0.0.5")
	req.Header.Set("X-Real-IP", "10.0.0.5")
	w, _ = send(t, r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = loginRequest(t, "bureau", "secret123")
	req.RemoteAddr = "10.0.0.5:51000"
	w, _ = send(t, r, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginLimiterKeysOnRemoteAddress(t *testing.T) {
	r := setupServer(t)

	for i := 0; i < 10; i++ {
		req := loginRequest(t, "admin", "mauvais")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		w, _ := send(t, r, req)
		require.Equal(t, http.StatusUnauthorized, w.Code, "tentative %d", i+1)
	}

	req := loginRequest(t, "admin", "admin123")
	req.Header.Set("X-Forwarded-For", "203.0.113.200")
	w, resp := send(t, r, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", resp.Code)
}

func TestDeletedAccountTokenIsRejected(t *testing.T) {
	r := setupServer(t)
	admin := loginAs(t, r, "admin", "admin123")
	id := createUser(t, r, admin, gin.H{"username": "boss2", "password": "secret123", "role": "admin"})
	boss := loginAs(t, r, "boss2", "secret123")

	w, _ := send(t, r, jsonRequest(t, http.MethodGet, "/api/users", boss, nil))
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = send(t, r, jsonRequest(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), admin, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = send(t, r, jsonRequest(t, http.MethodGet, "/api/users", boss, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = send(t, r, jsonRequest(t, http.MethodPost, "/api/users", boss, gin.H{
		"username": "porte", "password": "secret123", "role": "admin",
	}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOperationLogsRecorded(t *testing.T) {
	r := setupServer(t)
	admin := loginAs(t, r, "admin", "admin123")

	createUser(t, r, admin, gin.H{"username": "alice", "password": "secret123", "role": "telepro"})
	w, _ := send(t, r, jsonRequest(t, http.MethodPost, "/api/clients", admin, gin.H{
		"societe": "Serres du Rhône", "type_produit": "pression",
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	send(t, r, jsonRequest(t, http.MethodGet, "/api/clients", admin, nil))

	w, resp := send(t, r, jsonRequest(t, http.MethodGet, "/api/operation-logs", admin, nil))
	require.Equal(t, http.StatusOK, w.Code)
	// les lectures et la connexion ne sont pas journalisées
	assert.EqualValues(t, 2, resp.Pagination.Total)
	assert.NotContains(t, string(resp.Data), "secret123")

	w, resp = send(t, r, jsonRequest(t, http.MethodGet, "/api/operation-logs?path=/api/clients", admin, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var logs []struct {
		Method       string `json:"method"`
		Path         string `json:"path"`
		OperatorName string `json:"operator_name"`
		StatusCode   int    `json:"status_code"`
		IPAddress    string `json:"ip_address"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, http.MethodPost, logs[0].Method)
	assert.Equal(t, "admin", logs[0].OperatorName)
	assert.Equal(t, http.StatusCreated, logs[0].StatusCode)
	assert.Equal(t, remoteIP, logs[0].IPAddress)

	telepro := loginAs(t, r, "alice", "secret123")
	w, _ = send(t, r, jsonRequest(t, http.MethodGet, "/api/operation-logs", telepro, nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUploadTooLarge(t *testing.T) {
	r := setupServer(t)
	admin := loginAs(t, r, "admin", "admin123")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("client_id", "1"))
	part, err := mw.CreateFormFile("file", "plan.pdf")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("a"), int(service.MaxUploadBytes())+1))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)
	w, resp := send(t, r, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "FILE_TOO_LARGE", resp.Code)
}
