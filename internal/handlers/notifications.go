package handlers

import (
	"net/http"

	"real-estate-marketplace/internal/auth"
	"real-estate-marketplace/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NotificationHandler serves a user's in-app notification feed
type NotificationHandler struct {
	db *gorm.DB
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

// List returns the caller's notifications, newest first
func (h *NotificationHandler) List(c *gin.Context) {
	identity := auth.FromContext(c)
	limit := queryIntDefault(c, "limit", 50)

	var notifications []models.Notification
	err := h.db.Where("user_id = ?", identity.UserID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
		return
	}

	var unread int64
	h.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", identity.UserID, false).
		Count(&unread)

	c.JSON(http.StatusOK, gin.H{
		"results":      notifications,
		"count":        len(notifications),
		"unread_count": unread,
	})
}

// MarkAllRead flags every notification of the caller as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	identity := auth.FromContext(c)

	err := h.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", identity.UserID, false).
		Update("is_read", true).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UpdateFCMToken stores the caller's push delivery token. An empty token
// unregisters the device.
func (h *NotificationHandler) UpdateFCMToken(c *gin.Context) {
	identity := auth.FromContext(c)

	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.db.Model(&models.User{}).
		Where("id = ?", identity.UserID).
		Update("fcm_token", req.Token).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
