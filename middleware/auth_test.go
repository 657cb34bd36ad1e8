package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"areaquiz-server/middleware"
)

const (
	testKey    = "test-signing-key"
	testIssuer = "areaquiz.example.com"
)

func newAuthRouter(roles []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.AuthMiddleware(testKey, testIssuer))
	router.Use(middleware.RoleCheckMiddleware(roles))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString("user_name")})
	})
	return router
}

func signToken(t *testing.T, key, issuer string, roles []string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "teacher1",
		"roles": roles,
		"iss":   issuer,
		"exp":   exp.Unix(),
	})
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func get(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	router := newAuthRouter([]string{"admin", "instructor"})
	token := signToken(t, testKey, testIssuer, []string{"instructor"}, time.Now().Add(time.Hour))

	w := get(router, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "teacher1")
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	router := newAuthRouter([]string{"admin"})
	w := get(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsBadSignature(t *testing.T) {
	router := newAuthRouter([]string{"admin"})
	token := signToken(t, "wrong-key", testIssuer, []string{"admin"}, time.Now().Add(time.Hour))
	w := get(router, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	router := newAuthRouter([]string{"admin"})
	token := signToken(t, testKey, testIssuer, []string{"admin"}, time.Now().Add(-time.Hour))
	w := get(router, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsWrongIssuer(t *testing.T) {
	router := newAuthRouter([]string{"admin"})
	token := signToken(t, testKey, "evil.example.com", []string{"admin"}, time.Now().Add(time.Hour))
	w := get(router, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleCheckRejectsInsufficientRole(t *testing.T) {
	router := newAuthRouter([]string{"admin"})
	token := signToken(t, testKey, testIssuer, []string{"student"}, time.Now().Add(time.Hour))
	w := get(router, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
