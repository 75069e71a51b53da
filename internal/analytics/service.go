package analytics

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"real-estate-marketplace/internal/models"
)

// ErrInvalidTarget is returned when the tracked listing or promotion does not
// exist, or the event kind is not valid for the target type.
var ErrInvalidTarget = errors.New("analytics: invalid tracking target")

// TargetType selects which entity an event counts against.
type TargetType string

const (
	TargetListing   TargetType = "listing"
	TargetPromotion TargetType = "promotion"
)

// Client-facing event kinds accepted by the track endpoint.
const (
	KindView         = "VIEW"
	KindWhatsapp     = "WHATSAPP"
	KindCall         = "CALL"
	KindClickDetails = "CLICK_DETAILS"
)

// Actor identifies who produced an event. Authenticated callers are recorded
// by user ID; anonymous ones by client IP.
type Actor struct {
	UserID *uint
	IP     string
}

// Service records engagement events: one relative counter bump on the target
// row plus one append-only log row, atomically.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// listingCounters and promoCounters map a client event kind to the denormalized
// counter column it increments and the log row event type.
var listingCounters = map[string]struct {
	column    string
	eventType models.AnalyticsEventType
}{
	KindView:     {"views_count", models.EventViewListing},
	KindWhatsapp: {"whatsapp_clicks", models.EventClickWhatsapp},
	KindCall:     {"call_clicks", models.EventClickCall},
}

var promoCounters = map[string]struct {
	column    string
	eventType models.AnalyticsEventType
}{
	KindView:         {"views_count", models.EventViewPromo},
	KindClickDetails: {"clicks_count", models.EventClickPromo},
	KindWhatsapp:     {"whatsapp_clicks", models.EventClickWhatsapp},
	KindCall:         {"call_clicks", models.EventClickCall},
}

// Track bumps the matching counter and writes the log row in one transaction.
// The increment is relative (col = col + 1) so concurrent events never lose
// counts to a stale read.
func (s *Service) Track(target TargetType, targetID uint, kind string, actor Actor) error {
	switch target {
	case TargetListing:
		mapping, ok := listingCounters[kind]
		if !ok {
			return ErrInvalidTarget
		}
		return s.track(&models.Listing{}, targetID, mapping.column, models.AnalyticsEvent{
			EventType: mapping.eventType,
			ListingID: &targetID,
		}, actor)
	case TargetPromotion:
		mapping, ok := promoCounters[kind]
		if !ok {
			return ErrInvalidTarget
		}
		return s.track(&models.Promotion{}, targetID, mapping.column, models.AnalyticsEvent{
			EventType: mapping.eventType,
			PromotionID: &targetID,
		}, actor)
	default:
		return ErrInvalidTarget
	}
}

func (s *Service) track(model interface{}, targetID uint, column string, event models.AnalyticsEvent, actor Actor) error {
	event.UserID = actor.UserID
	if actor.UserID == nil {
		event.IPAddress = actor.IP
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(model).
			Where("id = ?", targetID).
			UpdateColumn(column, gorm.Expr(column+" + 1"))
		if result.Error != nil {
			return fmt.Errorf("failed to bump %s: %w", column, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrInvalidTarget
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to log event: %w", err)
		}
		return nil
	})
}
