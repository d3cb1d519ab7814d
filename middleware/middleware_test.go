package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/repository"
	"github.com/france-ecoenergie/crm_back/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter() *gin.Engine {
	r := gin.New()
	r.Use(Recovery())
	api := r.Group("/api", AuthMiddleware())
	api.GET("/me", func(c *gin.Context) {
		user, err := utils.GetUser(c)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		c.String(http.StatusOK, user.Username)
	})
	api.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	api.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func setupDB(t *testing.T) {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	require.NoError(t, repository.InitDatabase("sqlite", dsn, false))
	t.Cleanup(repository.CloseDatabase)
}

func newAccount(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x", Role: role}
	require.NoError(t, repository.WithContext(context.Background()).Create(user).Error)
	return user
}

func token(t *testing.T, user *models.User) string {
	t.Helper()
	tok, err := utils.GenerateToken(*user)
	require.NoError(t, err)
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	setupDB(t)
	alice := newAccount(t, "alice", models.RoleTelepro)
	r := protectedRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_TOKEN")

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer pas-un-jeton")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, alice))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token(t, alice)})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	setupDB(t)
	alice := newAccount(t, "alice", models.RoleTelepro)
	boss := newAccount(t, "boss", models.RoleAdmin)
	r := protectedRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, alice))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, boss))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTokenFollowsAccountChanges(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	boss := newAccount(t, "boss", models.RoleAdmin)
	gone := newAccount(t, "parti", models.RoleAdmin)
	r := protectedRouter()

	bossToken := token(t, boss)
	goneToken := token(t, gone)

	// rétrogradé après l'émission du jeton
	require.NoError(t, repository.WithContext(ctx).Model(boss).Update("role", models.RoleTelepro).Error)
	req := httptest.NewRequest(http.MethodGet, "/api/admin", nil)
	req.Header.Set("Authorization", "Bearer "+bossToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, repository.WithContext(ctx).Delete(gone).Error)
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+goneToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestRecovery(t *testing.T) {
	setupDB(t)
	boss := newAccount(t, "boss", models.RoleAdmin)
	r := protectedRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/panic", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, boss))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func limitedRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.POST("/login", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func hit(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":41000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterLocalFallback(t *testing.T) {
	r := limitedRouter(NewRateLimiter(nil, "login", PerMinute(3, 3)))

	for i := 0; i < 3; i++ {
		w := hit(r, "198.51.100.1")
		require.Equal(t, http.StatusOK, w.Code, "requête %d", i+1)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	}

	w := hit(r, "198.51.100.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")

	// autre adresse, autre quota
	assert.Equal(t, http.StatusOK, hit(r, "198.51.100.2").Code)
}

func TestRateLimiterRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := limitedRouter(NewRateLimiter(rdb, "login", PerMinute(2, 2)))

	assert.Equal(t, http.StatusOK, hit(r, "198.51.100.7").Code)
	assert.Equal(t, http.StatusOK, hit(r, "198.51.100.7").Code)
	w := hit(r, "198.51.100.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, hit(r, "198.51.100.8").Code)
}

func TestSanitizeData(t *testing.T) {
	in := map[string]interface{}{
		"username": "alice",
		"Password": "secret",
		"nested": map[string]interface{}{
			"token": "abc",
			"items": []interface{}{map[string]interface{}{"secret": "x", "ok": 1.0}},
		},
	}

	out := sanitizeData(in).(map[string]interface{})
	assert.Equal(t, "alice", out["username"])
	assert.Equal(t, "******", out["Password"])
	nested := out["nested"].(map[string]interface{})
	assert.Equal(t, "******", nested["token"])
	item := nested["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "******", item["secret"])
	assert.Equal(t, 1.0, item["ok"])

	assert.Equal(t, "brut", sanitizeData("brut"))
	// l'entrée n'est pas modifiée
	assert.Equal(t, "secret", in["Password"])
}
