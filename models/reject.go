package models

import "time"

// Reject is the outcome that declines a request. It is created already
// Complete; cancelling it is how a rejection is reversed.
type Reject struct {
	OutcomeBase `gorm:"embedded"`

	Reason                string     `gorm:"type:text;not null" json:"reason"`
	RejectionCategory     string     `gorm:"size:100" json:"rejection_category"`
	Notes                 string     `gorm:"type:text" json:"notes"`
	AlternativeSuggestion string     `gorm:"type:text" json:"alternative_suggestion"`
	CanResubmit           bool       `gorm:"not null;default:false" json:"can_resubmit"`
	ResubmitAfter         *time.Time `json:"resubmit_after"`
}

func (Reject) TableName() string { return "dispatch_reject_details" }

type NewReject struct {
	Reason                string     `json:"reason" validate:"required"`
	RejectionCategory     string     `json:"rejection_category"`
	Notes                 string     `json:"notes"`
	AlternativeSuggestion string     `json:"alternative_suggestion"`
	CanResubmit           bool       `json:"can_resubmit"`
	ResubmitAfter         *time.Time `json:"resubmit_after"`
}
