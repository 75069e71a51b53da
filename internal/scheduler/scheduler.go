package scheduler

import (
	"fmt"
	"log"
	"time"

	"real-estate-marketplace/internal/config"
	"real-estate-marketplace/internal/models"
	"real-estate-marketplace/internal/notify"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Scheduler delivers queued announcements in the background
type Scheduler struct {
	cron       *cron.Cron
	db         *gorm.DB
	dispatcher *notify.Dispatcher
	config     *config.Config
	isRunning  bool
}

// NewScheduler creates a new scheduler
func NewScheduler(db *gorm.DB, dispatcher *notify.Dispatcher, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		db:         db,
		dispatcher: dispatcher,
		config:     cfg,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Announcements.Enabled {
		log.Println("Scheduler: Announcement delivery is disabled in configuration")
		return nil
	}

	interval := s.config.Announcements.IntervalMinutes
	if interval <= 0 {
		interval = 1
	}
	cronSpec := fmt.Sprintf("@every %dm", interval)

	_, err := s.cron.AddFunc(cronSpec, func() {
		if err := s.deliverPending(); err != nil {
			log.Printf("Scheduler: Announcement delivery failed: %v", err)
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: Started announcement delivery every %dm", interval)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: Stopped")
	}
}

// deliverPending sends every unsent announcement to its audience
func (s *Scheduler) deliverPending() error {
	var pending []models.Announcement
	if err := s.db.Where("is_sent = ?", false).Order("created_at ASC").Find(&pending).Error; err != nil {
		return err
	}

	if len(pending) == 0 {
		return nil
	}

	log.Printf("Scheduler: Found %d pending announcements", len(pending))

	for i := range pending {
		if err := s.deliver(&pending[i]); err != nil {
			log.Printf("Scheduler: Failed to deliver announcement %d: %v", pending[i].ID, err)
			continue
		}
	}

	return nil
}

// deliver fans one announcement out to its audience. Each reachable user gets
// a notification row; pushes are best-effort and do not block the send mark.
func (s *Scheduler) deliver(announcement *models.Announcement) error {
	users, err := s.audienceUsers(announcement.TargetAudience)
	if err != nil {
		return err
	}

	notifications := make([]models.Notification, 0, len(users))
	for i := range users {
		notifications = append(notifications, models.Notification{
			UserID:  users[i].ID,
			Title:   announcement.Title,
			Message: announcement.Message,
			Type:    models.NotificationTypeSystem,
		})
	}
	if len(notifications) > 0 {
		if err := s.db.CreateInBatches(notifications, 200).Error; err != nil {
			return err
		}
	}

	successCount := 0
	errorCount := 0
	for i := range users {
		if users[i].FCMToken == "" {
			continue
		}
		if err := s.dispatcher.DispatchSync(&users[i], announcement.Title, announcement.Message, "/notifications"); err != nil {
			errorCount++
			continue
		}
		successCount++
	}

	now := time.Now()
	if err := s.db.Model(announcement).Updates(map[string]interface{}{
		"is_sent": true,
		"sent_at": now,
	}).Error; err != nil {
		return err
	}
	announcement.IsSent = true
	announcement.SentAt = &now

	log.Printf("Scheduler: Announcement %d delivered to %d users. Pushed: %d, Errors: %d",
		announcement.ID, len(users), successCount, errorCount)

	return nil
}

func (s *Scheduler) audienceUsers(audience models.AnnouncementAudience) ([]models.User, error) {
	query := s.db.Model(&models.User{})
	if audience != models.AudienceAll {
		query = query.Where("client_type = ?", string(audience))
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// RunNow immediately delivers pending announcements (for manual trigger)
func (s *Scheduler) RunNow() error {
	log.Println("Scheduler: Manual trigger - delivering pending announcements...")
	return s.deliverPending()
}
