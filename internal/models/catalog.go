package models

// FeatureInputType constrains how a feature value is entered and interpreted.
type FeatureInputType string

const (
	FeatureInputBool   FeatureInputType = "bool"
	FeatureInputNumber FeatureInputType = "number"
	FeatureInputText   FeatureInputType = "text"
)

// Category is a property type (apartment, land, ...).
type Category struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	Slug     string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"slug"`
	Features []Feature `gorm:"foreignKey:CategoryID" json:"allowed_features,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// Feature is a category-scoped attribute definition that listings can carry
// as key-value pairs (e.g. "has elevator", "bedrooms").
type Feature struct {
	ID         uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID uint             `gorm:"not null;index" json:"category_id"`
	Category   *Category        `gorm:"foreignKey:CategoryID" json:"-"`
	Name       string           `gorm:"type:varchar(100);not null" json:"name"`
	InputType  FeatureInputType `gorm:"type:varchar(10);not null;default:'bool'" json:"input_type"`

	// Numeric features flagged as quick filters surface as buttons in the
	// client's top filter bar; OptionsList is their comma-separated choices.
	IsQuickFilter bool   `gorm:"not null;default:false" json:"is_quick_filter"`
	OptionsList   string `gorm:"type:varchar(200)" json:"options_list,omitempty"`
	Icon          string `gorm:"type:varchar(50);not null;default:'CheckCircle2'" json:"icon"`
}

func (Feature) TableName() string {
	return "features"
}
