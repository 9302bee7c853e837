package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collaborator entities from the asset registry. Only the columns the dispatch
// lifecycle references are modeled here.

type AssetType struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type MajorLocation struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Asset struct {
	ID              int             `gorm:"primary_key" json:"id"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	AssetTypeId     int             `gorm:"index;not null" json:"asset_type_id"`
	MajorLocationId int             `gorm:"index" json:"major_location_id"`
	Meter           decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"meter"`
	IsActive        *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
