package models

import "time"

// AnalyticsEventType is the event kind recorded in the log. These are the
// stored values; the track API accepts the shorter client-facing kinds
// (VIEW, WHATSAPP, CALL, CLICK_DETAILS) and maps them here.
type AnalyticsEventType string

const (
	EventViewListing   AnalyticsEventType = "VIEW_LISTING"
	EventViewPromo     AnalyticsEventType = "VIEW_PROMO"
	EventClickPromo    AnalyticsEventType = "CLICK_PROMO"
	EventClickWhatsapp AnalyticsEventType = "CLICK_WHATSAPP"
	EventClickCall     AnalyticsEventType = "CLICK_CALL"
)

// AnalyticsEvent is an append-only log row. Exactly one of ListingID and
// PromotionID is set; rows are never mutated after creation.
type AnalyticsEvent struct {
	ID        uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	EventType AnalyticsEventType `gorm:"type:varchar(20);not null;index" json:"event_type"`

	ListingID   *uint      `gorm:"index" json:"listing_id,omitempty"`
	Listing     *Listing   `gorm:"foreignKey:ListingID" json:"-"`
	PromotionID *uint      `gorm:"index" json:"promotion_id,omitempty"`
	Promotion   *Promotion `gorm:"foreignKey:PromotionID" json:"-"`

	UserID    *uint  `gorm:"index" json:"user_id,omitempty"`
	User      *User  `gorm:"foreignKey:UserID" json:"-"`
	IPAddress string `gorm:"type:varchar(45)" json:"ip_address,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}
