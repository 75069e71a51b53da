package models

// Governorate is the top level of the geography hierarchy.
type Governorate struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
}

func (Governorate) TableName() string {
	return "governorates"
}

// City belongs to exactly one governorate. The label fields let a city rename
// what its zone/subdivision levels are called in client UIs.
type City struct {
	ID               uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string       `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	GovernorateID    uint         `gorm:"not null;index" json:"governorate_id"`
	Governorate      *Governorate `gorm:"foreignKey:GovernorateID" json:"governorate,omitempty"`
	ZoneLabel        string       `gorm:"type:varchar(50);not null;default:'District'" json:"zone_label"`
	SubdivisionLabel string       `gorm:"type:varchar(50);not null;default:'Block'" json:"subdivision_label"`
}

func (City) TableName() string {
	return "cities"
}

type MajorZone struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string `gorm:"type:varchar(150);not null" json:"name"`
	CityID uint   `gorm:"not null;index" json:"city_id"`
	City   *City  `gorm:"foreignKey:CityID" json:"city,omitempty"`
}

func (MajorZone) TableName() string {
	return "major_zones"
}

type Subdivision struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string     `gorm:"type:varchar(150);not null" json:"name"`
	MajorZoneID uint       `gorm:"not null;index" json:"major_zone_id"`
	MajorZone   *MajorZone `gorm:"foreignKey:MajorZoneID" json:"major_zone,omitempty"`
}

func (Subdivision) TableName() string {
	return "subdivisions"
}
