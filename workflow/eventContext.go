package workflow

import (
	"bitbucket.org/mmdatafocus/fleet_backend/models"
	"gorm.io/gorm"
)

// EventContext is the engine's view of a request's audit event: narration
// comments and status mirroring.
type EventContext struct {
	EventId int
}

func (c EventContext) AddComment(tx *gorm.DB, userId int, text string, isHumanMade bool) error {
	_, err := models.AddComment(tx, c.EventId, userId, text, isHumanMade)
	return err
}

// Narrate appends a machine-generated comment.
func (c EventContext) Narrate(tx *gorm.DB, userId int, text string) error {
	return c.AddComment(tx, userId, text, false)
}

// SetStatus mirrors the request's workflow status onto the event row.
func (c EventContext) SetStatus(tx *gorm.DB, status string) error {
	return tx.Model(&models.Event{}).Where("id = ?", c.EventId).
		Update("status", status).Error
}

// SetAsset points the event at the dispatched asset, backfilling the major
// location from the asset when the event has none.
func (c EventContext) SetAsset(tx *gorm.DB, assetId int) error {
	var event models.Event
	if err := tx.First(&event, c.EventId).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{"asset_id": assetId}
	if event.MajorLocationId == nil {
		var asset models.Asset
		if err := tx.First(&asset, assetId).Error; err == nil && asset.MajorLocationId > 0 {
			updates["major_location_id"] = asset.MajorLocationId
		}
	}
	return tx.Model(&models.Event{}).Where("id = ?", c.EventId).Updates(updates).Error
}

// RemoveLastNarrations deletes the newest n machine-generated comments.
// changeOutcome uses this to replace the cancel+assign pair with one combined
// comment.
func (c EventContext) RemoveLastNarrations(tx *gorm.DB, n int) error {
	var comments []*models.Comment
	err := tx.Where("event_id = ? AND is_human_made = ?", c.EventId, false).
		Order("created_at DESC, id DESC").Limit(n).Find(&comments).Error
	if err != nil {
		return err
	}
	for _, comment := range comments {
		if err := tx.Delete(&models.Comment{}, comment.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

// Comments returns the event timeline, oldest first.
func (c EventContext) Comments(tx *gorm.DB) ([]*models.Comment, error) {
	return models.GetEventComments(tx, c.EventId)
}
