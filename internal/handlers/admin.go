package handlers

import (
	"fmt"
	"log"
	"net/http"

	"real-estate-marketplace/internal/cache"
	"real-estate-marketplace/internal/cleanup"
	"real-estate-marketplace/internal/models"
	"real-estate-marketplace/internal/notify"
	"real-estate-marketplace/internal/scheduler"
	"real-estate-marketplace/internal/search"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler handles admin-related requests
type AdminHandler struct {
	db             *gorm.DB
	search         *search.SearchClient // nil when search is disabled
	scheduler      *scheduler.Scheduler
	notifyService  *notify.Service
	cleanupService *cleanup.Service
	settings       *cache.Settings
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, searchClient *search.SearchClient, sched *scheduler.Scheduler, notifyService *notify.Service, settings *cache.Settings) *AdminHandler {
	return &AdminHandler{
		db:             db,
		search:         searchClient,
		scheduler:      sched,
		notifyService:  notifyService,
		cleanupService: cleanup.NewService(db),
		settings:       settings,
	}
}

// GetDashboard returns system statistics for the admin dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats := make(map[string]interface{})

	// Listing counts by status
	var availableCount, pendingCount, soldCount int64
	h.db.Model(&models.Listing{}).Where("status = ?", models.ListingStatusAvailable).Count(&availableCount)
	h.db.Model(&models.Listing{}).Where("status = ?", models.ListingStatusPending).Count(&pendingCount)
	h.db.Model(&models.Listing{}).Where("status = ?", models.ListingStatusSold).Count(&soldCount)

	stats["listings"] = map[string]interface{}{
		"available": availableCount,
		"pending":   pendingCount,
		"sold":      soldCount,
		"total":     availableCount + pendingCount + soldCount,
	}

	var userCount, favoriteCount int64
	h.db.Model(&models.User{}).Count(&userCount)
	h.db.Model(&models.Favorite{}).Count(&favoriteCount)
	stats["users"] = map[string]interface{}{
		"total":     userCount,
		"favorites": favoriteCount,
	}

	// Most viewed and most contacted listings
	var topViewed []models.Listing
	h.db.Where("status = ?", models.ListingStatusAvailable).
		Order("views_count DESC").Limit(5).Find(&topViewed)
	stats["top_viewed_listings"] = topViewed

	var topContacted []models.Listing
	h.db.Where("status = ?", models.ListingStatusAvailable).
		Order("whatsapp_clicks + call_clicks DESC").Limit(5).Find(&topContacted)
	stats["top_contacted_listings"] = topContacted

	var topPromotions []models.Promotion
	h.db.Where("is_active = ?", true).
		Order("views_count DESC").Limit(5).Find(&topPromotions)
	stats["top_promotions"] = topPromotions

	// Notification retention statistics
	cleanupStats, err := h.cleanupService.GetStats()
	if err != nil {
		log.Printf("Failed to get cleanup stats: %v", err)
	} else {
		stats["notifications"] = cleanupStats
	}

	c.JSON(http.StatusOK, stats)
}

// GetGovernorateStats returns listing counts by governorate
func (h *AdminHandler) GetGovernorateStats(c *gin.Context) {
	type GovernorateStat struct {
		GovernorateID uint   `json:"governorate_id"`
		Name          string `json:"name"`
		Count         int64  `json:"count"`
	}

	var stats []GovernorateStat
	err := h.db.Model(&models.Listing{}).
		Select("listings.governorate_id, governorates.name, count(*) as count").
		Joins("JOIN governorates ON governorates.id = listings.governorate_id").
		Where("listings.status = ?", models.ListingStatusAvailable).
		Group("listings.governorate_id, governorates.name").
		Order("count DESC").
		Scan(&stats).Error

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"governorate_stats": stats,
		"count":             len(stats),
	})
}

// GetPriceDistribution returns listing counts per price band
func (h *AdminHandler) GetPriceDistribution(c *gin.Context) {
	type PriceRange struct {
		RangeLabel string  `json:"range_label"`
		MinPrice   float64 `json:"min_price"`
		MaxPrice   float64 `json:"max_price"`
		Count      int64   `json:"count"`
	}

	ranges := []PriceRange{
		{RangeLabel: "<500K", MinPrice: 0, MaxPrice: 500_000},
		{RangeLabel: "500K-1M", MinPrice: 500_000, MaxPrice: 1_000_000},
		{RangeLabel: "1M-2M", MinPrice: 1_000_000, MaxPrice: 2_000_000},
		{RangeLabel: "2M-5M", MinPrice: 2_000_000, MaxPrice: 5_000_000},
		{RangeLabel: "5M-10M", MinPrice: 5_000_000, MaxPrice: 10_000_000},
		{RangeLabel: ">10M", MinPrice: 10_000_000, MaxPrice: 10_000_000_000},
	}

	for i := range ranges {
		var count int64
		h.db.Model(&models.Listing{}).
			Where("status = ? AND price >= ? AND price < ?",
				models.ListingStatusAvailable, ranges[i].MinPrice, ranges[i].MaxPrice).
			Count(&count)
		ranges[i].Count = count
	}

	c.JSON(http.StatusOK, gin.H{
		"price_distribution": ranges,
	})
}

// ApproveListing publishes a pending submission and tells the agent
func (h *AdminHandler) ApproveListing(c *gin.Context) {
	h.reviewListing(c, models.ListingStatusAvailable,
		"Listing approved",
		"Your listing %q is now live.")
}

// RejectListing sends a submission back to vetting and tells the agent
func (h *AdminHandler) RejectListing(c *gin.Context) {
	h.reviewListing(c, models.ListingStatusPending,
		"Listing needs changes",
		"Your listing %q was returned for review.")
}

func (h *AdminHandler) reviewListing(c *gin.Context, status models.ListingStatus, title, bodyFormat string) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	var listing models.Listing
	if err := h.db.First(&listing, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	var agent *models.User
	if listing.AgentID != nil {
		var u models.User
		if err := h.db.First(&u, *listing.AgentID).Error; err == nil {
			agent = &u
		}
	}

	var push func()
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&listing).Update("status", status).Error; err != nil {
			return err
		}
		listing.Status = status

		if agent == nil {
			return nil
		}
		body := fmt.Sprintf(bodyFormat, listing.Title)
		var err error
		push, err = h.notifyService.NotifyInTx(tx, agent, models.NotificationTypeListing,
			title, body, "/listings/"+c.Param("id"))
		return err
	})
	if err != nil {
		log.Printf("Failed to review listing %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
		return
	}
	if push != nil {
		push()
	}

	h.syncSearch(&listing)

	c.JSON(http.StatusOK, listing)
}

// UpdateSetting writes one site setting and drops its cache entry
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	key := c.Param("key")

	var req struct {
		Value       string `json:"value"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var setting models.SiteSetting
	err := h.db.Where("`key` = ?", key).First(&setting).Error
	if err == nil {
		updates := map[string]interface{}{"value": req.Value}
		if req.Description != "" {
			updates["description"] = req.Description
		}
		err = h.db.Model(&setting).Updates(updates).Error
	} else {
		setting = models.SiteSetting{
			Key:         key,
			Value:       req.Value,
			Description: req.Description,
		}
		err = h.db.Create(&setting).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store setting"})
		return
	}

	h.settings.Invalidate(key)

	c.JSON(http.StatusOK, gin.H{
		"key":   key,
		"value": req.Value,
	})
}

// CreateAnnouncement queues a bulk push; the scheduler delivers it
func (h *AdminHandler) CreateAnnouncement(c *gin.Context) {
	var req struct {
		Title          string `json:"title" binding:"required"`
		Message        string `json:"message" binding:"required"`
		TargetAudience string `json:"target_audience"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	announcement := models.Announcement{
		Title:          req.Title,
		Message:        req.Message,
		TargetAudience: models.AudienceAll,
	}
	if req.TargetAudience != "" {
		announcement.TargetAudience = models.AnnouncementAudience(req.TargetAudience)
	}

	if err := h.db.Create(&announcement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue announcement"})
		return
	}

	c.JSON(http.StatusCreated, announcement)
}

// DeliverAnnouncements manually triggers announcement delivery
func (h *AdminHandler) DeliverAnnouncements(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Scheduler not available (MySQL/GORM required)",
		})
		return
	}

	log.Println("Admin: Manual announcement delivery requested")

	// Run in goroutine to avoid blocking
	go func() {
		if err := h.scheduler.RunNow(); err != nil {
			log.Printf("Admin: Manual announcement delivery failed: %v", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Announcement delivery started",
		"status":  "running",
	})
}

// Reindex rebuilds the search index from the Available catalog
func (h *AdminHandler) Reindex(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not enabled"})
		return
	}

	log.Println("Admin: Search reindex requested")

	go func() {
		if err := h.search.ClearIndex(); err != nil {
			log.Printf("Admin: Failed to clear search index: %v", err)
			return
		}

		batchSize := 500
		offset := 0
		total := 0
		for {
			var listings []models.Listing
			err := h.db.Where("status = ?", models.ListingStatusAvailable).
				Order("id ASC").
				Preload("Images").
				Limit(batchSize).
				Offset(offset).
				Find(&listings).Error
			if err != nil {
				log.Printf("Admin: Reindex batch failed at offset %d: %v", offset, err)
				return
			}
			if len(listings) == 0 {
				break
			}

			if err := h.search.IndexListings(listings); err != nil {
				log.Printf("Admin: Failed to index batch at offset %d: %v", offset, err)
				return
			}

			total += len(listings)
			offset += batchSize
		}

		log.Printf("Admin: Reindex completed, %d listings indexed", total)
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Reindex started",
		"status":  "running",
	})
}

// RunCleanup deletes old read notifications
func (h *AdminHandler) RunCleanup(c *gin.Context) {
	var req struct {
		RetentionDays    int  `json:"retention_days"`     // Days to keep (default: 90)
		MaxDeletionCount int  `json:"max_deletion_count"` // Safety limit (default: 10000)
		DryRun           bool `json:"dry_run"`            // Dry run mode
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Set defaults
	config := cleanup.DefaultCleanupConfig()
	if req.RetentionDays > 0 {
		config.RetentionDays = req.RetentionDays
	}
	if req.MaxDeletionCount > 0 {
		config.MaxDeletionCount = req.MaxDeletionCount
	}
	config.DryRun = req.DryRun

	result, err := h.cleanupService.Prune(config)
	if err != nil {
		log.Printf("Admin: Cleanup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// syncSearch mirrors a status transition into the search index
func (h *AdminHandler) syncSearch(listing *models.Listing) {
	if h.search == nil {
		return
	}
	var err error
	if listing.Status == models.ListingStatusAvailable {
		err = h.search.IndexListing(listing)
	} else {
		err = h.search.RemoveListing(listing.ID)
	}
	if err != nil {
		log.Printf("Failed to sync listing %d to search index: %v", listing.ID, err)
	}
}
