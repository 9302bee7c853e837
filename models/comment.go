package models

import (
	"time"

	"gorm.io/gorm"
)

type Comment struct {
	ID          int       `gorm:"primary_key" json:"id"`
	EventId     int       `gorm:"index;not null" json:"event_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	UserId      int       `gorm:"index;not null" json:"user_id"`
	IsHumanMade bool      `gorm:"not null;default:false" json:"is_human_made"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// AddComment appends a comment to an event's timeline inside the caller's
// transaction. isHumanMade is false for machine-generated narration.
func AddComment(tx *gorm.DB, eventId int, userId int, content string, isHumanMade bool) (*Comment, error) {

	comment := Comment{
		EventId:     eventId,
		Content:     content,
		UserId:      userId,
		IsHumanMade: isHumanMade,
	}
	if err := tx.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetEventComments returns an event's timeline, oldest first.
func GetEventComments(tx *gorm.DB, eventId int) ([]*Comment, error) {

	var results []*Comment
	err := tx.Where("event_id = ?", eventId).Order("created_at ASC, id ASC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
