package analytics

import (
	"testing"

	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.NewGormDBFromDB(db).InitSchema())
	return NewService(db), db
}

func seedListing(t *testing.T, db *gorm.DB) *models.Listing {
	t.Helper()
	gov := models.Governorate{Name: "Capital"}
	require.NoError(t, db.Create(&gov).Error)
	city := models.City{Name: "Downtown", GovernorateID: gov.ID}
	require.NoError(t, db.Create(&city).Error)
	zone := models.MajorZone{Name: "First", CityID: city.ID}
	require.NoError(t, db.Create(&zone).Error)
	category := models.Category{Name: "Apartments", Slug: "apartments"}
	require.NoError(t, db.Create(&category).Error)

	listing := models.Listing{
		ReferenceCode: "REF-TEST01",
		Title:         "Flat",
		Price:         100,
		AreaSqm:       80,
		GovernorateID: gov.ID,
		CityID:        city.ID,
		MajorZoneID:   zone.ID,
		CategoryID:    category.ID,
		Status:        models.ListingStatusAvailable,
	}
	require.NoError(t, db.Create(&listing).Error)
	return &listing
}

func TestTrackBumpsCounterAndLogsEvent(t *testing.T) {
	service, db := newTestService(t)
	listing := seedListing(t, db)

	userID := uint(7)
	require.NoError(t, service.Track(TargetListing, listing.ID, KindView, Actor{UserID: &userID}))
	require.NoError(t, service.Track(TargetListing, listing.ID, KindView, Actor{IP: "10.0.0.1"}))
	require.NoError(t, service.Track(TargetListing, listing.ID, KindWhatsapp, Actor{IP: "10.0.0.1"}))

	var got models.Listing
	require.NoError(t, db.First(&got, listing.ID).Error)
	assert.Equal(t, uint(2), got.ViewsCount)
	assert.Equal(t, uint(1), got.WhatsappClicks)
	assert.Equal(t, uint(0), got.CallClicks)

	var events []models.AnalyticsEvent
	require.NoError(t, db.Order("id ASC").Find(&events).Error)
	require.Len(t, events, 3)
	assert.Equal(t, models.EventViewListing, events[0].EventType)
	require.NotNil(t, events[0].UserID)
	assert.Equal(t, userID, *events[0].UserID)
	assert.Empty(t, events[0].IPAddress, "authenticated events carry no IP")
	assert.Nil(t, events[1].UserID)
	assert.Equal(t, "10.0.0.1", events[1].IPAddress)
	assert.Equal(t, models.EventClickWhatsapp, events[2].EventType)
}

func TestTrackPromotionCounters(t *testing.T) {
	service, db := newTestService(t)

	promo := models.Promotion{Title: "Launch", Slug: "launch", Type: models.PromoTypeGeneral, IsActive: true}
	require.NoError(t, db.Create(&promo).Error)

	require.NoError(t, service.Track(TargetPromotion, promo.ID, KindView, Actor{IP: "10.0.0.2"}))
	require.NoError(t, service.Track(TargetPromotion, promo.ID, KindClickDetails, Actor{IP: "10.0.0.2"}))
	require.NoError(t, service.Track(TargetPromotion, promo.ID, KindCall, Actor{IP: "10.0.0.2"}))

	var got models.Promotion
	require.NoError(t, db.First(&got, promo.ID).Error)
	assert.Equal(t, uint(1), got.ViewsCount)
	assert.Equal(t, uint(1), got.ClicksCount)
	assert.Equal(t, uint(1), got.CallClicks)

	var events []models.AnalyticsEvent
	require.NoError(t, db.Order("id ASC").Find(&events).Error)
	require.Len(t, events, 3)
	assert.Equal(t, models.EventViewPromo, events[0].EventType)
	assert.Equal(t, models.EventClickPromo, events[1].EventType)
}

func TestTrackMissingTargetWritesNothing(t *testing.T) {
	service, db := newTestService(t)

	err := service.Track(TargetListing, 12345, KindView, Actor{IP: "10.0.0.3"})
	assert.ErrorIs(t, err, ErrInvalidTarget)

	var count int64
	require.NoError(t, db.Model(&models.AnalyticsEvent{}).Count(&count).Error)
	assert.Zero(t, count, "failed tracking must not leave a log row")
}

func TestTrackRejectsMismatchedKinds(t *testing.T) {
	service, db := newTestService(t)
	listing := seedListing(t, db)

	// CLICK_DETAILS is promotion-only
	err := service.Track(TargetListing, listing.ID, KindClickDetails, Actor{IP: "10.0.0.4"})
	assert.ErrorIs(t, err, ErrInvalidTarget)

	err = service.Track("banner", listing.ID, KindView, Actor{IP: "10.0.0.4"})
	assert.ErrorIs(t, err, ErrInvalidTarget)

	var got models.Listing
	require.NoError(t, db.First(&got, listing.ID).Error)
	assert.Zero(t, got.ViewsCount)
}
