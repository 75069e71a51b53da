package handlers

import (
	"errors"
	"log"
	"net/http"

	"real-estate-marketplace/internal/analytics"
	"real-estate-marketplace/internal/auth"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler records engagement events from the client
type AnalyticsHandler struct {
	service *analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Track records one engagement event against a listing or promotion
func (h *AnalyticsHandler) Track(c *gin.Context) {
	var req struct {
		EventType  string `json:"event_type" binding:"required"`
		TargetType string `json:"target_type" binding:"required"`
		TargetID   uint   `json:"target_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := analytics.Actor{IP: clientIP(c)}
	if identity := auth.FromContext(c); identity != nil {
		userID := identity.UserID
		actor = analytics.Actor{UserID: &userID}
	}

	err := h.service.Track(analytics.TargetType(req.TargetType), req.TargetID, req.EventType, actor)
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidTarget) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tracking target"})
			return
		}
		log.Printf("Failed to track %s on %s %d: %v", req.EventType, req.TargetType, req.TargetID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "tracked"})
}
