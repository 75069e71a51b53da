package cleanup

import (
	"fmt"
	"log"
	"time"

	"real-estate-marketplace/internal/models"

	"gorm.io/gorm"
)

// Service handles physical deletion of old read notifications. Unread rows are
// never touched; announcements are kept as a permanent send history.
type Service struct {
	db *gorm.DB
}

// NewService creates a new cleanup service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CleanupConfig holds configuration for cleanup operations
type CleanupConfig struct {
	RetentionDays    int  // Days to keep read notifications before deletion (default: 90)
	MaxDeletionCount int  // Maximum number of rows to delete in one run (safety limit)
	DryRun           bool // If true, only log what would be deleted without actually deleting
}

// DefaultCleanupConfig returns default configuration
func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		RetentionDays:    90,
		MaxDeletionCount: 10000,
		DryRun:           false,
	}
}

// CleanupResult holds the result of a cleanup operation
type CleanupResult struct {
	TargetCount  int       `json:"target_count"`  // Number of notifications eligible for deletion
	DeletedCount int       `json:"deleted_count"` // Number of notifications actually deleted
	DryRun       bool      `json:"dry_run"`       // Whether this was a dry run
	ExecutedAt   time.Time `json:"executed_at"`   // When the cleanup was executed
}

// countExpired counts read notifications older than the retention window
func (s *Service) countExpired(retentionDays int) (int64, time.Time, error) {
	cutoffDate := time.Now().AddDate(0, 0, -retentionDays)

	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("is_read = ? AND created_at < ?", true, cutoffDate).
		Count(&count).Error
	if err != nil {
		return 0, cutoffDate, fmt.Errorf("failed to count expired notifications: %w", err)
	}

	return count, cutoffDate, nil
}

// Prune deletes read notifications that fell out of the retention window
func (s *Service) Prune(config CleanupConfig) (*CleanupResult, error) {
	result := &CleanupResult{
		DryRun:     config.DryRun,
		ExecutedAt: time.Now(),
	}

	count, cutoffDate, err := s.countExpired(config.RetentionDays)
	if err != nil {
		return nil, err
	}
	result.TargetCount = int(count)

	if result.TargetCount == 0 {
		return result, nil
	}

	// Safety check: abort if too many rows would be deleted
	if result.TargetCount > config.MaxDeletionCount {
		return nil, fmt.Errorf("safety check failed: %d notifications exceed max deletion limit of %d",
			result.TargetCount, config.MaxDeletionCount)
	}

	if config.DryRun {
		log.Printf("Cleanup: [DRY-RUN] Would delete %d read notifications older than %s",
			result.TargetCount, cutoffDate.Format("2006-01-02"))
		result.DeletedCount = result.TargetCount
		return result, nil
	}

	deletion := s.db.Where("is_read = ? AND created_at < ?", true, cutoffDate).
		Delete(&models.Notification{})
	if deletion.Error != nil {
		return nil, fmt.Errorf("failed to delete expired notifications: %w", deletion.Error)
	}
	result.DeletedCount = int(deletion.RowsAffected)

	log.Printf("Cleanup: Deleted %d read notifications older than %s",
		result.DeletedCount, cutoffDate.Format("2006-01-02"))

	return result, nil
}

// GetStats returns notification retention statistics
func (s *Service) GetStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var total int64
	if err := s.db.Model(&models.Notification{}).Count(&total).Error; err != nil {
		return nil, err
	}
	stats["total_notifications"] = total

	var unread int64
	if err := s.db.Model(&models.Notification{}).
		Where("is_read = ?", false).
		Count(&unread).Error; err != nil {
		return nil, err
	}
	stats["unread_notifications"] = unread

	expired, _, err := s.countExpired(DefaultCleanupConfig().RetentionDays)
	if err != nil {
		return nil, err
	}
	stats["expired_ready_for_deletion"] = expired

	return stats, nil
}
