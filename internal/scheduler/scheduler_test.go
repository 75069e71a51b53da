package scheduler

import (
	"sync"
	"testing"

	"real-estate-marketplace/internal/config"
	"real-estate-marketplace/internal/models"
	"real-estate-marketplace/internal/notify"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingSender struct {
	mu        sync.Mutex
	usernames []string
}

func (r *recordingSender) Send(user *models.User, title, body, link string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usernames = append(r.usernames, user.Username)
	return nil
}

func newTestScheduler(t *testing.T) (*Scheduler, *gorm.DB, *recordingSender) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Notification{}, &models.Announcement{}))

	sender := &recordingSender{}
	sched := NewScheduler(db, notify.NewDispatcher(sender), config.DefaultConfig())
	return sched, db, sender
}

func seedUser(t *testing.T, db *gorm.DB, username string, clientType models.ClientType, fcmToken string) models.User {
	t.Helper()
	user := models.User{
		Username:    username,
		PhoneNumber: "+2010000" + username,
		ClientType:  clientType,
		FCMToken:    fcmToken,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestRunNowDeliversAndMarksSent(t *testing.T) {
	sched, db, sender := newTestScheduler(t)

	withToken := seedUser(t, db, "buyer1", models.ClientTypeBuyer, "token-1")
	noToken := seedUser(t, db, "seller1", models.ClientTypeSeller, "")

	announcement := models.Announcement{
		Title:          "Maintenance",
		Message:        "Down tonight",
		TargetAudience: models.AudienceAll,
	}
	require.NoError(t, db.Create(&announcement).Error)

	require.NoError(t, sched.RunNow())

	var rows []models.Notification
	require.NoError(t, db.Order("user_id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, withToken.ID, rows[0].UserID)
	assert.Equal(t, noToken.ID, rows[1].UserID)
	assert.Equal(t, "Maintenance", rows[0].Title)
	assert.Equal(t, models.NotificationTypeSystem, rows[0].Type)

	var updated models.Announcement
	require.NoError(t, db.First(&updated, announcement.ID).Error)
	assert.True(t, updated.IsSent)
	require.NotNil(t, updated.SentAt)

	assert.Equal(t, []string{"buyer1"}, sender.usernames)
}

func TestAudienceFiltering(t *testing.T) {
	sched, db, _ := newTestScheduler(t)

	buyer := seedUser(t, db, "buyer1", models.ClientTypeBuyer, "")
	seedUser(t, db, "seller1", models.ClientTypeSeller, "")

	announcement := models.Announcement{
		Title:          "Buyers Only",
		Message:        "New listings this week",
		TargetAudience: models.AudienceBuyers,
	}
	require.NoError(t, db.Create(&announcement).Error)

	require.NoError(t, sched.RunNow())

	var rows []models.Notification
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, buyer.ID, rows[0].UserID)
}

func TestRunNowSkipsAlreadySent(t *testing.T) {
	sched, db, sender := newTestScheduler(t)

	seedUser(t, db, "buyer1", models.ClientTypeBuyer, "token-1")

	sent := models.Announcement{
		Title:          "Old News",
		Message:        "Already delivered",
		TargetAudience: models.AudienceAll,
		IsSent:         true,
	}
	require.NoError(t, db.Create(&sent).Error)

	require.NoError(t, sched.RunNow())

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.Empty(t, sender.usernames)
}
