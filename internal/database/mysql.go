package database

import (
	"fmt"
	"strconv"
	"time"

	"real-estate-marketplace/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	db *gorm.DB
}

func NewGormDB(host, port, user, password, dbname string) (*GormDB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, err
	}

	// Test connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return &GormDB{db: db}, nil
}

// NewGormDBFromDB wraps an existing gorm.DB instance (used by tests).
func NewGormDBFromDB(db *gorm.DB) *GormDB {
	return &GormDB{db: db}
}

// DB returns the underlying gorm.DB instance
func (gdb *GormDB) DB() *gorm.DB {
	return gdb.db
}

func (gdb *GormDB) Close() error {
	sqlDB, err := gdb.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate
func (gdb *GormDB) InitSchema() error {
	return gdb.db.AutoMigrate(
		&models.User{},
		&models.Governorate{},
		&models.City{},
		&models.MajorZone{},
		&models.Subdivision{},
		&models.Category{},
		&models.Feature{},
		&models.Listing{},
		&models.ListingFeature{},
		&models.ListingImage{},
		&models.ListingDocument{},
		&models.Promotion{},
		&models.PromotionImage{},
		&models.PromotionUnit{},
		&models.Favorite{},
		&models.AnalyticsEvent{},
		&models.Notification{},
		&models.SiteSetting{},
		&models.Announcement{},
		&models.ContactInfo{},
	)
}

// CreateListing persists a new listing with its attribute values, images and
// documents in one transaction. Reference code and slug are filled in here.
func (gdb *GormDB) CreateListing(listing *models.Listing, attributes map[string]string, imageURLs []string, documents []models.ListingDocument) error {
	if listing.ReferenceCode == "" {
		listing.ReferenceCode = models.GenerateReferenceCode()
	}
	if listing.Slug == "" {
		listing.Slug = models.Slugify(listing.Title, listing.ReferenceCode)
	}

	return gdb.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(listing).Error; err != nil {
			return err
		}
		if err := saveListingImages(tx, listing, imageURLs); err != nil {
			return err
		}
		for i := range documents {
			documents[i].ListingID = listing.ID
		}
		if len(documents) > 0 {
			if err := tx.Create(&documents).Error; err != nil {
				return err
			}
		}
		return upsertAttributes(tx, listing.ID, attributes)
	})
}

// UpdateListing saves listing field changes, upserts the provided attribute
// map, removes the listed image ids and appends new image URLs, all in one
// transaction.
func (gdb *GormDB) UpdateListing(listing *models.Listing, attributes map[string]string, newImageURLs []string, deletedImageIDs []uint) error {
	return gdb.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(listing).Error; err != nil {
			return err
		}
		if len(deletedImageIDs) > 0 {
			if err := tx.Where("id IN ? AND listing_id = ?", deletedImageIDs, listing.ID).
				Delete(&models.ListingImage{}).Error; err != nil {
				return err
			}
		}
		if err := saveListingImages(tx, listing, newImageURLs); err != nil {
			return err
		}
		return upsertAttributes(tx, listing.ID, attributes)
	})
}

// DeleteListing removes a listing and its dependent rows.
func (gdb *GormDB) DeleteListing(id uint) error {
	return gdb.db.Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []interface{}{
			&models.ListingFeature{}, &models.ListingImage{}, &models.ListingDocument{}, &models.Favorite{},
		} {
			if err := tx.Where("listing_id = ?", id).Delete(dependent).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Listing{}, id).Error
	})
}

// saveListingImages appends image rows and promotes the first image to
// thumbnail when the listing has none.
func saveListingImages(tx *gorm.DB, listing *models.Listing, imageURLs []string) error {
	for i, url := range imageURLs {
		if url == "" {
			continue
		}
		image := models.ListingImage{ListingID: listing.ID, ImageURL: url, SortOrder: i}
		if err := tx.Create(&image).Error; err != nil {
			return err
		}
		if listing.ThumbnailURL == "" {
			listing.ThumbnailURL = url
			if err := tx.Model(listing).Update("thumbnail_url", url).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// upsertAttributes writes one attribute row per feature id present in the
// incoming map. Keys that are not numeric, reference a missing feature, or
// carry an empty value are skipped; loosely-typed client input must never
// fail a listing write.
func upsertAttributes(tx *gorm.DB, listingID uint, attributes map[string]string) error {
	for rawID, value := range attributes {
		if value == "" {
			continue
		}
		featureID, err := strconv.ParseUint(rawID, 10, 32)
		if err != nil {
			continue
		}

		var feature models.Feature
		if err := tx.First(&feature, uint(featureID)).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return err
		}

		row := models.ListingFeature{
			ListingID:   listingID,
			FeatureID:   feature.ID,
			Value:       value,
			ValueTokens: TokenizeValue(value),
		}

		var existing models.ListingFeature
		err = tx.Where("listing_id = ? AND feature_id = ?", listingID, feature.ID).
			First(&existing).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&existing).
				Updates(map[string]interface{}{"value": row.Value, "value_tokens": row.ValueTokens}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
