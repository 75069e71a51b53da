package models

import (
	"strings"
	"time"
)

// ClientType segments users for announcement targeting.
type ClientType string

const (
	ClientTypeBuyer    ClientType = "Buyer"
	ClientTypeSeller   ClientType = "Seller"
	ClientTypeInvestor ClientType = "Investor"
	ClientTypeMarketer ClientType = "Marketer"
)

type User struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username    string `gorm:"type:varchar(150);not null;uniqueIndex" json:"username"`
	FirstName   string `gorm:"type:varchar(150)" json:"first_name,omitempty"`
	LastName    string `gorm:"type:varchar(150)" json:"last_name,omitempty"`
	Email       string `gorm:"type:varchar(255)" json:"email,omitempty"`
	PhoneNumber string `gorm:"type:varchar(20);uniqueIndex" json:"phone_number,omitempty"`

	WhatsappLink string     `gorm:"type:varchar(255)" json:"whatsapp_link,omitempty"`
	IsStaff      bool       `gorm:"not null;default:false" json:"is_staff"`
	IsAgent      bool       `gorm:"not null;default:false" json:"is_agent"`
	ClientType   ClientType `gorm:"type:varchar(10);not null;default:'Buyer';index" json:"client_type"`

	// Push delivery token; empty means the user is unreachable.
	FCMToken string `gorm:"type:text" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName prefers the real name over the login name.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// WhatsappURL derives a wa.me link from the phone number when no explicit
// link is stored.
func (u *User) WhatsappURL() string {
	if u.WhatsappLink != "" {
		return u.WhatsappLink
	}
	if u.PhoneNumber == "" {
		return ""
	}
	clean := strings.NewReplacer("+", "", " ", "").Replace(u.PhoneNumber)
	return "https://wa.me/" + clean
}

// Favorite marks a listing as saved by a user, unique per (user, listing).
type Favorite struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_listing" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	ListingID uint      `gorm:"not null;uniqueIndex:idx_user_listing" json:"listing_id"`
	Listing   *Listing  `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}
