package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/france-ecoenergie/crm_back/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestIPAllowed(t *testing.T) {
	tests := []struct {
		list   string
		remote string
		want   bool
	}{
		{"", "203.0.113.7", true},
		{"   ", "203.0.113.7", true},
		{"203.0.113.7", "203.0.113.7", true},
		{"203.0.113.7", "203.0.113.8", false},
		{"10.0.0.0/8", "10.250.1.1", true},
		{"10.0.0.0/8", "11.0.0.1", false},
		{"192.168.1.0/24, 203.0.113.7", " 203.0.113.7 ", true},
		{"2001:db8::/32", "2001:db8::1", true},
		{"10.0.0.0/8", "pas-une-ip", false},
		{"mauvais/cidr, 10.0.0.1", "10.0.0.1", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IPAllowed(tt.list, tt.remote), "liste %q, ip %q", tt.list, tt.remote)
	}
}

func TestValidIPList(t *testing.T) {
	assert.True(t, ValidIPList(""))
	assert.True(t, ValidIPList("10.0.0.1"))
	assert.True(t, ValidIPList("10.0.0.0/8, 192.168.1.4,,2001:db8::1"))
	assert.False(t, ValidIPList("10.0.0.0/33"))
	assert.False(t, ValidIPList("10.0.0.1, bureau"))
}

func TestIsValidSiret(t *testing.T) {
	assert.True(t, IsValidSiret("55203253400998"))
	assert.False(t, IsValidSiret("5520325340099"))
	assert.False(t, IsValidSiret("552032534009981"))
	assert.False(t, IsValidSiret("552 032 534 00998"))
	assert.False(t, IsValidSiret("5520325340099A"))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("motdepasse")
	require.NoError(t, err)
	assert.NotEqual(t, "motdepasse", hash)
	assert.True(t, VerifyPassword("motdepasse", hash))
	assert.False(t, VerifyPassword("autre", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(models.User{ID: 42, Username: "alice", Role: models.RoleTelepro})
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.ID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleTelepro, claims.Role)
	assert.Equal(t, "42", claims.Subject)

	_, err = ParseToken(token + "x")
	require.Error(t, err)
	_, err = ParseToken("n.importe.quoi")
	require.Error(t, err)
}

func TestTokenWithUnknownRoleIsRejected(t *testing.T) {
	token, err := GenerateToken(models.User{ID: 1, Username: "x", Role: models.Role("superadmin")})
	require.NoError(t, err)
	_, err = ParseToken(token)
	require.Error(t, err)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandleError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/clients/9", nil)

	HandleError(c, CreateNotFoundError("Client"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, c.IsAborted())
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "RESOURCE_NOT_FOUND", body["code"])

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/clients", nil)

	HandleError(c, errors.New("disk I/O error"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.NotContains(t, w.Body.String(), "disk")
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query       string
		page, limit int
	}{
		{"", 1, 50},
		{"?page=3&limit=20", 3, 20},
		{"?page=-1&limit=abc", 1, 50},
		{"?limit=10000", 1, 500},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/api/leads"+tt.query, nil)
		p := ParsePagination(c)
		assert.Equal(t, tt.page, p.Page, tt.query)
		assert.Equal(t, tt.limit, p.Limit, tt.query)
	}
	assert.Equal(t, 40, Pagination{Page: 3, Limit: 20}.Offset())
}

func TestGetUser(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := GetUser(c)
	require.Error(t, err)

	c.Set(ContextUserKey, &Claims{ID: 7, Username: "bruno", Role: models.RoleAdmin})
	user, err := GetUser(c)
	require.NoError(t, err)
	assert.EqualValues(t, 7, user.ID)
	assert.True(t, user.IsAdmin())

	var nobody *LoginUser
	assert.False(t, nobody.IsAdmin())
}
