package models

import (
	"math/rand"
	"strings"
	"time"
)

// ListingStatus is the moderation state of a listing
type ListingStatus string

const (
	ListingStatusPending   ListingStatus = "Pending"
	ListingStatusAvailable ListingStatus = "Available"
	ListingStatusSold      ListingStatus = "Sold"
)

// OfferType distinguishes sale from rental listings
type OfferType string

const (
	OfferTypeSale OfferType = "Sale"
	OfferTypeRent OfferType = "Rent"
)

type Listing struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ReferenceCode string `gorm:"type:varchar(20);not null;uniqueIndex" json:"reference_code"`
	Title         string `gorm:"type:varchar(255);not null" json:"title"`
	Slug          string `gorm:"type:varchar(255);uniqueIndex" json:"slug"`
	Description   string `gorm:"type:text" json:"description"`

	// Primary filter fields
	Price   float64 `gorm:"type:decimal(15,2);not null;index" json:"price"`
	AreaSqm int     `gorm:"not null;index" json:"area_sqm"`

	Bedrooms        *int   `json:"bedrooms,omitempty"`
	Bathrooms       *int   `json:"bathrooms,omitempty"`
	FloorNumber     *int   `json:"floor_number,omitempty"`
	BuildingNumber  string `gorm:"type:varchar(50)" json:"building_number,omitempty"`
	ApartmentNumber string `gorm:"type:varchar(50)" json:"apartment_number,omitempty"`
	ProjectName     string `gorm:"type:varchar(100)" json:"project_name,omitempty"`

	// Geography chain
	GovernorateID uint         `gorm:"not null;index" json:"governorate_id"`
	Governorate   *Governorate `gorm:"foreignKey:GovernorateID" json:"governorate,omitempty"`
	CityID        uint         `gorm:"not null;index:idx_city_offer_status" json:"city_id"`
	City          *City        `gorm:"foreignKey:CityID" json:"city,omitempty"`
	MajorZoneID   uint         `gorm:"not null;index" json:"major_zone_id"`
	MajorZone     *MajorZone   `gorm:"foreignKey:MajorZoneID" json:"major_zone,omitempty"`
	SubdivisionID *uint        `gorm:"index" json:"subdivision_id,omitempty"`
	Subdivision   *Subdivision `gorm:"foreignKey:SubdivisionID" json:"subdivision,omitempty"`

	GoogleMapsURL string   `gorm:"type:varchar(500)" json:"google_maps_url,omitempty"`
	Latitude      *float64 `gorm:"type:decimal(10,8)" json:"latitude,omitempty"`
	Longitude     *float64 `gorm:"type:decimal(10,8)" json:"longitude,omitempty"`

	CategoryID uint      `gorm:"not null;index" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	AgentID    *uint     `gorm:"index" json:"agent_id,omitempty"`
	Agent      *User     `gorm:"foreignKey:AgentID" json:"agent,omitempty"`

	OfferType OfferType     `gorm:"type:varchar(10);not null;default:'Sale';index:idx_offer_status_price" json:"offer_type"`
	Status    ListingStatus `gorm:"type:varchar(20);not null;default:'Pending';index:idx_offer_status_price;index:idx_city_offer_status" json:"status"`

	IsFinanceEligible bool `gorm:"not null;default:false" json:"is_finance_eligible"`

	ThumbnailURL string `gorm:"type:varchar(500)" json:"thumbnail_url,omitempty"`
	VideoURL     string `gorm:"type:varchar(500)" json:"video_url,omitempty"`
	YoutubeURL   string `gorm:"type:varchar(500)" json:"youtube_url,omitempty"`

	// Owner contact details (internal, for vetting)
	OwnerName  string `gorm:"type:varchar(100)" json:"owner_name,omitempty"`
	OwnerPhone string `gorm:"type:varchar(20)" json:"owner_phone,omitempty"`

	// Analytics counters, mutated only via storage-level relative updates
	ViewsCount     uint `gorm:"not null;default:0" json:"views_count"`
	WhatsappClicks uint `gorm:"not null;default:0" json:"whatsapp_clicks"`
	CallClicks     uint `gorm:"not null;default:0" json:"call_clicks"`

	FeatureValues []ListingFeature  `gorm:"foreignKey:ListingID" json:"dynamic_features,omitempty"`
	Images        []ListingImage    `gorm:"foreignKey:ListingID" json:"images,omitempty"`
	Documents     []ListingDocument `gorm:"foreignKey:ListingID" json:"documents,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_listings_created_at,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Listing) TableName() string {
	return "listings"
}

// IsVisibleTo reports whether a single listing may be returned to the given
// caller outside of list mode. Owners see their own submissions in any state.
func (l *Listing) IsVisibleTo(userID uint, isStaff, authenticated bool) bool {
	if isStaff {
		return true
	}
	if l.Status == ListingStatusAvailable {
		return true
	}
	return authenticated && l.AgentID != nil && *l.AgentID == userID
}

const refAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReferenceCode produces a short public reference like REF-X7K2P9.
func GenerateReferenceCode() string {
	var b strings.Builder
	b.WriteString("REF-")
	for i := 0; i < 6; i++ {
		b.WriteByte(refAlphabet[rand.Intn(len(refAlphabet))])
	}
	return b.String()
}

// Slugify builds a URL slug from the title and reference code.
func Slugify(title, referenceCode string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		}
		return -1
	}, slug)
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return strings.ToLower(referenceCode)
	}
	return slug + "-" + strings.ToLower(referenceCode)
}

// ListingFeature is one (listing, feature) attribute-value assignment.
// ValueTokens holds the write-time normalized token list used by the numeric
// exact-match filter (a stored "3,5" becomes ",3,5,").
type ListingFeature struct {
	ID          uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	ListingID   uint     `gorm:"not null;uniqueIndex:idx_listing_feature" json:"listing_id"`
	FeatureID   uint     `gorm:"not null;uniqueIndex:idx_listing_feature" json:"feature_id"`
	Feature     *Feature `gorm:"foreignKey:FeatureID" json:"feature,omitempty"`
	Value       string   `gorm:"type:varchar(255);not null" json:"value"`
	ValueTokens string   `gorm:"type:varchar(300);not null;index" json:"-"`
}

func (ListingFeature) TableName() string {
	return "listing_features"
}

type ListingImage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ListingID uint      `gorm:"not null;index" json:"listing_id"`
	ImageURL  string    `gorm:"type:varchar(500);not null" json:"image_url"`
	SortOrder int       `gorm:"not null;default:0;index" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ListingImage) TableName() string {
	return "listing_images"
}

type ListingDocument struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ListingID    uint      `gorm:"not null;index" json:"listing_id"`
	DocumentURL  string    `gorm:"type:varchar(500);not null" json:"document_url"`
	DocumentType string    `gorm:"type:varchar(50)" json:"document_type"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ListingDocument) TableName() string {
	return "listing_documents"
}
