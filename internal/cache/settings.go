package cache

import (
	"sync"
	"time"

	"real-estate-marketplace/internal/models"

	"gorm.io/gorm"
)

// Settings is a process-wide read-through cache over the site_settings
// table. Reads hit the database only on a miss or after the TTL expires;
// writes must call Invalidate synchronously so the next read sees the new
// value. Constructed once at startup and passed by reference.
type Settings struct {
	db  *gorm.DB
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]settingEntry
}

type settingEntry struct {
	value     string
	expiresAt time.Time
}

func NewSettings(db *gorm.DB, ttl time.Duration) *Settings {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Settings{
		db:      db,
		ttl:     ttl,
		entries: make(map[string]settingEntry),
	}
}

// Get returns the setting value for key, or def when the key does not exist.
// Database errors degrade to the default; settings are never load-bearing
// enough to fail a request over.
func (s *Settings) Get(key, def string) string {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.value
	}

	var setting models.SiteSetting
	if err := s.db.Where("`key` = ?", key).First(&setting).Error; err != nil {
		return def
	}

	s.mu.Lock()
	s.entries[key] = settingEntry{value: setting.Value, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	return setting.Value
}

// Invalidate drops the cached entry for key. Called synchronously from the
// settings write path.
func (s *Settings) Invalidate(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}
