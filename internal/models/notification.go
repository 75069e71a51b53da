package models

import "time"

// NotificationType tags what a notification is about.
type NotificationType string

const (
	NotificationTypeSystem  NotificationType = "System"
	NotificationTypeListing NotificationType = "Listing"
	NotificationTypeOffer   NotificationType = "Offer"
)

type Notification struct {
	ID      uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  uint             `gorm:"not null;index" json:"user_id"`
	User    *User            `gorm:"foreignKey:UserID" json:"-"`
	Title   string           `gorm:"type:varchar(255);not null" json:"title"`
	Message string           `gorm:"type:text;not null" json:"message"`
	Type    NotificationType `gorm:"column:notification_type;type:varchar(20);not null;default:'System'" json:"notification_type"`

	// Client navigation target when the notification is tapped.
	ActionURL string `gorm:"type:varchar(255)" json:"action_url,omitempty"`

	IsRead    bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// AnnouncementAudience selects which users a bulk push targets.
type AnnouncementAudience string

const (
	AudienceAll       AnnouncementAudience = "ALL"
	AudienceBuyers    AnnouncementAudience = "Buyer"
	AudienceSellers   AnnouncementAudience = "Seller"
	AudienceMarketers AnnouncementAudience = "Marketer"
)

// Announcement is a queued bulk push. The scheduler delivers unsent rows and
// flips IsSent; rows are kept as a send history.
type Announcement struct {
	ID             uint                 `gorm:"primaryKey;autoIncrement" json:"id"`
	Title          string               `gorm:"type:varchar(200);not null" json:"title"`
	Message        string               `gorm:"type:text;not null" json:"message"`
	TargetAudience AnnouncementAudience `gorm:"type:varchar(20);not null;default:'ALL'" json:"target_audience"`
	IsSent         bool                 `gorm:"not null;default:false;index" json:"is_sent"`
	CreatedAt      time.Time            `gorm:"not null;autoCreateTime" json:"created_at"`
	SentAt         *time.Time           `json:"sent_at,omitempty"`
}

func (Announcement) TableName() string {
	return "announcements"
}
