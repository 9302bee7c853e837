package models

import (
	"time"

	"gorm.io/gorm"
)

// Event is the audit anchor for a lifecycle: every dispatch request owns
// exactly one, and all machine-generated narration lands on it as comments.
type Event struct {
	ID              int       `gorm:"primary_key" json:"id"`
	EventType       string    `gorm:"size:100;not null" json:"event_type"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	Timestamp       time.Time `gorm:"autoCreateTime" json:"timestamp"`
	UserId          *int      `gorm:"index" json:"user_id"`
	AssetId         *int      `gorm:"index" json:"asset_id"`
	MajorLocationId *int      `json:"major_location_id"`
	Status          string    `gorm:"size:50" json:"status"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AddEvent creates an event inside the caller's transaction and returns its id.
// When an asset is attached, the event's major location defaults to the asset's.
func AddEvent(tx *gorm.DB, eventType string, description string, userId *int, assetId *int, status string) (int, error) {

	event := Event{
		EventType:   eventType,
		Description: description,
		UserId:      userId,
		AssetId:     assetId,
		Status:      status,
	}

	if assetId != nil && event.MajorLocationId == nil {
		var asset Asset
		if err := tx.First(&asset, *assetId).Error; err == nil && asset.MajorLocationId > 0 {
			locationId := asset.MajorLocationId
			event.MajorLocationId = &locationId
		}
	}

	if err := tx.Create(&event).Error; err != nil {
		return 0, err
	}
	return event.ID, nil
}
