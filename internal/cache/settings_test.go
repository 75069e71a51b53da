package cache

import (
	"testing"
	"time"

	"real-estate-marketplace/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SiteSetting{}))
	return db
}

func TestGetReadsThroughAndCaches(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.SiteSetting{Key: "support_phone", Value: "123"}).Error)

	settings := NewSettings(db, time.Hour)
	assert.Equal(t, "123", settings.Get("support_phone", "fallback"))

	// A direct database write is invisible until the entry is invalidated
	require.NoError(t, db.Model(&models.SiteSetting{}).
		Where("`key` = ?", "support_phone").
		Update("value", "456").Error)
	assert.Equal(t, "123", settings.Get("support_phone", "fallback"))

	settings.Invalidate("support_phone")
	assert.Equal(t, "456", settings.Get("support_phone", "fallback"))
}

func TestGetMissingKeyReturnsDefault(t *testing.T) {
	settings := NewSettings(newTestDB(t), time.Hour)
	assert.Equal(t, "fallback", settings.Get("nope", "fallback"))
}

func TestGetExpiredEntryRefetches(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.SiteSetting{Key: "banner", Value: "old"}).Error)

	settings := NewSettings(db, time.Nanosecond)
	assert.Equal(t, "old", settings.Get("banner", ""))

	require.NoError(t, db.Model(&models.SiteSetting{}).
		Where("`key` = ?", "banner").
		Update("value", "new").Error)
	time.Sleep(time.Millisecond)
	assert.Equal(t, "new", settings.Get("banner", ""))
}
