package models

import (
	"strconv"
	"time"
)

// PromoType classifies a marketing campaign.
type PromoType string

const (
	PromoTypeProject PromoType = "PROJECT"
	PromoTypeService PromoType = "SERVICE"
	PromoTypeGeneral PromoType = "GENERAL"
	PromoTypeListing PromoType = "LISTING"
)

type Promotion struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title    string    `gorm:"type:varchar(200);not null" json:"title"`
	Subtitle string    `gorm:"type:varchar(150)" json:"subtitle,omitempty"`
	Slug     string    `gorm:"type:varchar(255);uniqueIndex" json:"slug"`
	Type     PromoType `gorm:"column:promo_type;type:varchar(20);not null;default:'GENERAL'" json:"promo_type"`

	CoverImageURL    string `gorm:"type:varchar(500)" json:"cover_image_url,omitempty"`
	DeveloperLogoURL string `gorm:"type:varchar(500)" json:"developer_logo_url,omitempty"`
	MasterPlanURL    string `gorm:"type:varchar(500)" json:"master_plan_url,omitempty"`
	VideoURL         string `gorm:"type:varchar(500)" json:"video_url,omitempty"`
	YoutubeURL       string `gorm:"type:varchar(500)" json:"youtube_url,omitempty"`

	// Set only for LISTING promotions. Promotion rows are provisioned out of
	// band by the back office; the API only reads them.
	TargetListingID *uint    `gorm:"index" json:"target_listing_id,omitempty"`
	TargetListing   *Listing `gorm:"foreignKey:TargetListingID" json:"target_listing,omitempty"`

	Description     string   `gorm:"type:text" json:"description,omitempty"`
	DeveloperName   string   `gorm:"type:varchar(100)" json:"developer_name,omitempty"`
	PaymentSystem   string   `gorm:"type:text" json:"payment_system,omitempty"`
	DeliveryDate    string   `gorm:"type:varchar(50)" json:"delivery_date,omitempty"`
	ProjectFeatures string   `gorm:"type:text" json:"project_features,omitempty"`
	PriceStartFrom  *float64 `gorm:"type:decimal(15,2)" json:"price_start_from,omitempty"`

	LocationURL    string   `gorm:"type:varchar(500)" json:"location_url,omitempty"`
	Latitude       *float64 `gorm:"type:decimal(10,8)" json:"latitude,omitempty"`
	Longitude      *float64 `gorm:"type:decimal(10,8)" json:"longitude,omitempty"`
	PhoneNumber    string   `gorm:"type:varchar(20)" json:"phone_number,omitempty"`
	WhatsappNumber string   `gorm:"type:varchar(20)" json:"whatsapp_number,omitempty"`

	IsActive     bool `gorm:"not null;default:true;index" json:"is_active"`
	DisplayOrder int  `gorm:"not null;default:0" json:"display_order"`

	ViewsCount     uint `gorm:"not null;default:0" json:"views_count"`
	ClicksCount    uint `gorm:"not null;default:0" json:"clicks_count"`
	WhatsappClicks uint `gorm:"not null;default:0" json:"whatsapp_clicks"`
	CallClicks     uint `gorm:"not null;default:0" json:"call_clicks"`

	Gallery []PromotionImage `gorm:"foreignKey:PromotionID" json:"gallery,omitempty"`
	Units   []PromotionUnit  `gorm:"foreignKey:PromotionID" json:"units,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Promotion) TableName() string {
	return "promotions"
}

// FinalURL is where a client should navigate when the campaign is tapped.
func (p *Promotion) FinalURL() string {
	if p.Type == PromoTypeListing && p.TargetListingID != nil {
		return "/listings/" + strconv.FormatUint(uint64(*p.TargetListingID), 10)
	}
	return "/promotions/" + p.Slug
}

type PromotionImage struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PromotionID uint   `gorm:"not null;index" json:"promotion_id"`
	ImageURL    string `gorm:"type:varchar(500);not null" json:"image_url"`
}

func (PromotionImage) TableName() string {
	return "promotion_images"
}

// PromotionUnit links a campaign to a sample listing (a model villa, flat, ...).
type PromotionUnit struct {
	ID              uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	PromotionID     uint     `gorm:"not null;index" json:"promotion_id"`
	LinkedListingID *uint    `json:"linked_listing_id,omitempty"`
	LinkedListing   *Listing `gorm:"foreignKey:LinkedListingID" json:"linked_listing,omitempty"`
	CustomTitle     string   `gorm:"type:varchar(100)" json:"custom_title,omitempty"`
}

func (PromotionUnit) TableName() string {
	return "promotion_units"
}
