package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestParseToken(t *testing.T) {
	tokenStr := signToken(t, jwt.MapClaims{
		"sub":   float64(42),
		"staff": true,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	identity, err := ParseToken(tokenStr, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), identity.UserID)
	assert.True(t, identity.IsStaff)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tokenStr := signToken(t, jwt.MapClaims{"sub": float64(42)})
	_, err := ParseToken(tokenStr, "other-secret")
	assert.Error(t, err)
}

func TestParseTokenRejectsMissingSubject(t *testing.T) {
	tokenStr := signToken(t, jwt.MapClaims{"staff": true})
	_, err := ParseToken(tokenStr, testSecret)
	assert.Error(t, err)
}

func newRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(testSecret))
	handlers := append(extra, func(c *gin.Context) {
		identity := FromContext(c)
		if identity == nil {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID, "staff": identity.IsStaff})
	})
	r.GET("/probe", handlers...)
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddlewareAnonymousPassesThrough(t *testing.T) {
	w := doRequest(newRouter(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")
}

func TestMiddlewareBadTokenIs401(t *testing.T) {
	w := doRequest(newRouter(), "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth(t *testing.T) {
	r := newRouter(RequireAuth())

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := signToken(t, jwt.MapClaims{"sub": float64(7)})
	w = doRequest(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	r := newRouter(RequireAdmin())

	nonStaff := signToken(t, jwt.MapClaims{"sub": float64(7)})
	w := doRequest(r, nonStaff)
	assert.Equal(t, http.StatusForbidden, w.Code)

	staff := signToken(t, jwt.MapClaims{"sub": float64(8), "staff": true})
	w = doRequest(r, staff)
	assert.Equal(t, http.StatusOK, w.Code)
}
