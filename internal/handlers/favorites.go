package handlers

import (
	"errors"
	"net/http"

	"real-estate-marketplace/internal/auth"
	"real-estate-marketplace/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// FavoriteHandler handles a user's saved listings
type FavoriteHandler struct {
	db *gorm.DB
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(db *gorm.DB) *FavoriteHandler {
	return &FavoriteHandler{db: db}
}

// List returns the caller's favorites, newest first
func (h *FavoriteHandler) List(c *gin.Context) {
	identity := auth.FromContext(c)

	var favorites []models.Favorite
	err := h.db.Where("user_id = ?", identity.UserID).
		Order("created_at DESC").
		Preload("Listing").
		Preload("Listing.City").
		Preload("Listing.Images").
		Find(&favorites).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": favorites,
		"count":   len(favorites),
	})
}

// Toggle adds the listing to the caller's favorites, or removes it when it is
// already saved. Toggling twice is a no-op.
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	identity := auth.FromContext(c)

	var req struct {
		ListingID uint `json:"listing_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var listing models.Listing
	if err := h.db.First(&listing, req.ListingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	var favorite models.Favorite
	err := h.db.Where("user_id = ? AND listing_id = ?", identity.UserID, req.ListingID).
		First(&favorite).Error
	if err == nil {
		if err := h.db.Delete(&favorite).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update favorites"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "removed",
			"is_favorite": false,
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update favorites"})
		return
	}

	favorite = models.Favorite{
		UserID:    identity.UserID,
		ListingID: req.ListingID,
	}
	if err := h.db.Create(&favorite).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "added",
		"is_favorite": true,
	})
}
