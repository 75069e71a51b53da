package handlers

import (
	"net/http"

	"real-estate-marketplace/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PromotionHandler serves marketing campaigns
type PromotionHandler struct {
	db *gorm.DB
}

// NewPromotionHandler creates a new promotion handler
func NewPromotionHandler(db *gorm.DB) *PromotionHandler {
	return &PromotionHandler{db: db}
}

// List returns active campaigns in display order
func (h *PromotionHandler) List(c *gin.Context) {
	query := h.db.Where("is_active = ?", true).
		Order("display_order ASC, created_at DESC")
	if promoType := c.Query("type"); promoType != "" {
		query = query.Where("promo_type = ?", promoType)
	}

	var promotions []models.Promotion
	if err := query.Find(&promotions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load promotions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": promotions,
		"count":   len(promotions),
	})
}

// Get returns one active campaign with its gallery and sample units
func (h *PromotionHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Promotion not found"})
		return
	}

	var promotion models.Promotion
	err := h.db.Where("id = ? AND is_active = ?", id, true).
		Preload("Gallery").
		Preload("Units").
		Preload("Units.LinkedListing").
		Preload("TargetListing").
		First(&promotion).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Promotion not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"promotion": promotion,
		"final_url": promotion.FinalURL(),
	})
}
