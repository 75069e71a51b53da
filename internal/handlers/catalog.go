package handlers

import (
	"net/http"

	"real-estate-marketplace/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CatalogHandler serves the reference data the client builds its forms and
// filters from: the geography chain, categories, and their features.
type CatalogHandler struct {
	db *gorm.DB
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// GetGovernorates returns all governorates
func (h *CatalogHandler) GetGovernorates(c *gin.Context) {
	var governorates []models.Governorate
	if err := h.db.Order("name ASC").Find(&governorates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load governorates"})
		return
	}
	c.JSON(http.StatusOK, governorates)
}

// GetCities returns cities, optionally narrowed to one governorate
func (h *CatalogHandler) GetCities(c *gin.Context) {
	query := h.db.Order("name ASC")
	if id := queryUint(c, "governorate"); id != nil {
		query = query.Where("governorate_id = ?", *id)
	}

	var cities []models.City
	if err := query.Find(&cities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cities"})
		return
	}
	c.JSON(http.StatusOK, cities)
}

// GetMajorZones returns major zones, optionally narrowed to one city
func (h *CatalogHandler) GetMajorZones(c *gin.Context) {
	query := h.db.Order("name ASC")
	if id := queryUint(c, "city"); id != nil {
		query = query.Where("city_id = ?", *id)
	}

	var zones []models.MajorZone
	if err := query.Find(&zones).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load major zones"})
		return
	}
	c.JSON(http.StatusOK, zones)
}

// GetSubdivisions returns subdivisions, optionally narrowed to one major zone
func (h *CatalogHandler) GetSubdivisions(c *gin.Context) {
	query := h.db.Order("name ASC")
	if id := queryUint(c, "major_zone"); id != nil {
		query = query.Where("major_zone_id = ?", *id)
	}

	var subdivisions []models.Subdivision
	if err := query.Find(&subdivisions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subdivisions"})
		return
	}
	c.JSON(http.StatusOK, subdivisions)
}

// GetCategories returns all listing categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Order("name ASC").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategoryFeatures returns the dynamic feature definitions of one category
func (h *CatalogHandler) GetCategoryFeatures(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var features []models.Feature
	err := h.db.Where("category_id = ?", id).
		Order("id ASC").
		Find(&features).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load features"})
		return
	}
	c.JSON(http.StatusOK, features)
}

// GetContactInfo returns the site contact card. There is at most one row.
func (h *CatalogHandler) GetContactInfo(c *gin.Context) {
	var info models.ContactInfo
	if err := h.db.First(&info).Error; err != nil {
		// An unset contact card is not an error for the client
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, info)
}
