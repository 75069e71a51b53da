package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "auth.identity"

// Identity is the resolved caller. Token issuance is out of scope; tokens
// arrive from the external auth service and are only validated here.
type Identity struct {
	UserID  uint
	IsStaff bool
}

// ParseToken validates a Bearer token string and extracts the identity.
func ParseToken(tokenStr, secret string) (*Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}

	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return nil, fmt.Errorf("missing subject claim")
	}

	identity := &Identity{UserID: uint(sub)}
	if staff, ok := claims["staff"].(bool); ok {
		identity.IsStaff = staff
	}
	return identity, nil
}

// Middleware resolves the caller from the Authorization header when present.
// Requests without a token continue anonymously; read endpoints are public.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}

		identity, err := ParseToken(strings.TrimPrefix(authHeader, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireAuth aborts with 401 unless the request carries a valid identity.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if FromContext(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with 403 unless the caller is staff.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := FromContext(c)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if !identity.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access only"})
			return
		}
		c.Next()
	}
}

// FromContext returns the caller identity, or nil for anonymous requests.
func FromContext(c *gin.Context) *Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(*Identity); ok {
			return identity
		}
	}
	return nil
}

// SetIdentity injects an identity into the context (used by tests).
func SetIdentity(c *gin.Context, identity *Identity) {
	c.Set(identityKey, identity)
}
