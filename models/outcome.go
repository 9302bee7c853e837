package models

import (
	"time"
)

// OutcomeBase carries the columns every dispatch outcome variant shares.
// Outcomes are never hard-deleted: cancellation flips the cancelled flag and
// stamps who/when/why.
type OutcomeBase struct {
	ID               int              `gorm:"primary_key" json:"id"`
	RequestId        int              `gorm:"index;not null" json:"request_id"`
	RequestEventId   int              `gorm:"not null" json:"request_event_id"`
	OutcomeType      OutcomeType      `gorm:"size:50;not null" json:"outcome_type"`
	ResolutionStatus ResolutionStatus `gorm:"size:50;not null;default:Planned" json:"resolution_status"`
	Cancelled        bool             `gorm:"not null;default:false" json:"cancelled"`
	CancelledAt      *time.Time       `json:"cancelled_at"`
	CancelledById    *int             `json:"cancelled_by_id"`
	CancelledReason  string           `gorm:"type:text" json:"cancelled_reason"`
	CreatedById      int              `gorm:"not null" json:"created_by_id"`
	UpdatedById      int              `json:"updated_by_id"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// Outcome is the uniform view the lifecycle engine takes of the four variants.
type Outcome interface {
	OutcomeID() int
	Type() OutcomeType
	Resolution() ResolutionStatus
	SetResolution(status ResolutionStatus)
	IsCancelled() bool
	CreatedTime() time.Time
	MarkCancelled(actorId int, reason string, at time.Time)
	StampUpdatedBy(actorId int)
}

func (o *OutcomeBase) OutcomeID() int { return o.ID }

func (o *OutcomeBase) Type() OutcomeType { return o.OutcomeType }

func (o *OutcomeBase) Resolution() ResolutionStatus { return o.ResolutionStatus }

func (o *OutcomeBase) SetResolution(status ResolutionStatus) { o.ResolutionStatus = status }

func (o *OutcomeBase) IsCancelled() bool { return o.Cancelled }

func (o *OutcomeBase) CreatedTime() time.Time { return o.CreatedAt }

func (o *OutcomeBase) StampUpdatedBy(actorId int) { o.UpdatedById = actorId }

func (o *OutcomeBase) MarkCancelled(actorId int, reason string, at time.Time) {
	o.Cancelled = true
	o.CancelledAt = &at
	o.CancelledById = &actorId
	o.CancelledReason = reason
	o.UpdatedById = actorId
	o.ResolutionStatus = ResolutionStatusCancelled
}
