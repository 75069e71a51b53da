package models

// SiteSetting is one key-value configuration row. Reads go through the
// process-wide settings cache; writes must invalidate the key.
type SiteSetting struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Key         string `gorm:"type:varchar(100);not null;uniqueIndex" json:"key"`
	Value       string `gorm:"type:text;not null" json:"value"`
	Description string `gorm:"type:varchar(255)" json:"description,omitempty"`
}

func (SiteSetting) TableName() string {
	return "site_settings"
}

// ContactInfo is the single support/social record shown in the site footer.
// Only one row is expected; the handler reads the latest.
type ContactInfo struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SupportPhone   string `gorm:"type:varchar(20);not null" json:"support_phone"`
	WhatsappNumber string `gorm:"type:varchar(20);not null" json:"whatsapp_number"`
	FacebookURL    string `gorm:"type:varchar(255)" json:"facebook_url,omitempty"`
	InstagramURL   string `gorm:"type:varchar(255)" json:"instagram_url,omitempty"`
}

func (ContactInfo) TableName() string {
	return "contact_info"
}
