package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"real-estate-marketplace/internal/auth"
	"real-estate-marketplace/internal/database"

	"github.com/gin-gonic/gin"
)

// LegacyListingHandler serves the reduced public catalog when the server runs
// against the legacy PostgreSQL store. Only Available listings are reachable;
// submissions and vetting require the primary MySQL store.
type LegacyListingHandler struct {
	db *database.DB
}

// NewLegacyListingHandler creates a handler over the legacy store
func NewLegacyListingHandler(db *database.DB) *LegacyListingHandler {
	return &LegacyListingHandler{db: db}
}

// List returns one page of Available listings
func (h *LegacyListingHandler) List(c *gin.Context) {
	limit := queryIntDefault(c, "limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := queryIntDefault(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	listings, err := h.db.GetAvailableListings(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query listings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": listings,
		"count":   len(listings),
		"limit":   limit,
		"offset":  offset,
	})
}

// Get returns one Available listing
func (h *LegacyListingHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	listing, err := h.db.GetAvailableListingByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load listing"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Track records a listing engagement event against the legacy store
func (h *LegacyListingHandler) Track(c *gin.Context) {
	var req struct {
		EventType string `json:"event_type" binding:"required"`
		TargetID  uint   `json:"target_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	column, eventType, ok := database.LegacyCounterFor(req.EventType)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tracking target"})
		return
	}

	var userID *uint
	if identity := auth.FromContext(c); identity != nil {
		id := identity.UserID
		userID = &id
	}

	err := h.db.TrackListingEvent(req.TargetID, column, eventType, userID, clientIP(c))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tracking target"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "tracked"})
}
