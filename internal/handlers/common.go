package handlers

import (
	"strconv"
	"strings"

	"real-estate-marketplace/internal/auth"
	"real-estate-marketplace/internal/database"

	"github.com/gin-gonic/gin"
)

// callerFrom builds the query-scoping caller from the request identity.
func callerFrom(c *gin.Context) database.Caller {
	identity := auth.FromContext(c)
	if identity == nil {
		return database.Caller{}
	}
	return database.Caller{
		UserID:        identity.UserID,
		IsStaff:       identity.IsStaff,
		Authenticated: true,
	}
}

// clientIP prefers the first X-Forwarded-For hop over the socket address.
func clientIP(c *gin.Context) string {
	forwarded := c.GetHeader("X-Forwarded-For")
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	return c.ClientIP()
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// Query-string parsing helpers. Bad values are treated as absent; the catalog
// never answers 400 to a filter.

func queryUint(c *gin.Context, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	v := uint(id)
	return &v
}

func queryInt(c *gin.Context, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func queryIntDefault(c *gin.Context, name string, def int) int {
	if v := queryInt(c, name); v != nil {
		return *v
	}
	return def
}

func queryFloat(c *gin.Context, name string) *float64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

func queryBool(c *gin.Context, name string) *bool {
	raw := strings.ToLower(c.Query(name))
	switch raw {
	case "true", "1":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
