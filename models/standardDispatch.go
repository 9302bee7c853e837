package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StandardDispatch is the outcome where one of our own assets is sent out.
type StandardDispatch struct {
	OutcomeBase `gorm:"embedded"`

	AssignedById     *int `json:"assigned_by_id"`
	AssignedPersonId *int `json:"assigned_person_id"`
	AssetDispatchedId *int `gorm:"index" json:"asset_dispatched_id"`

	ScheduledStart time.Time  `gorm:"not null" json:"scheduled_start"`
	ScheduledEnd   time.Time  `gorm:"not null" json:"scheduled_end"`
	ActualStart    *time.Time `json:"actual_start"`
	ActualEnd      *time.Time `json:"actual_end"`

	MeterStart *decimal.Decimal `gorm:"type:decimal(12,2)" json:"meter_start"`
	MeterEnd   *decimal.Decimal `gorm:"type:decimal(12,2)" json:"meter_end"`

	LocationFrom string `gorm:"size:100" json:"location_from"`
	LocationTo   string `gorm:"size:100" json:"location_to"`

	// Legacy mirror of ResolutionStatus, kept for older readers.
	Status            ResolutionStatus `gorm:"size:50;not null;default:Planned" json:"status"`
	ConflictsResolved bool             `gorm:"not null;default:false" json:"conflicts_resolved"`
}

func (StandardDispatch) TableName() string { return "dispatches" }

type NewStandardDispatch struct {
	ScheduledStart    time.Time        `json:"scheduled_start" validate:"required"`
	ScheduledEnd      time.Time        `json:"scheduled_end" validate:"required"`
	AssetDispatchedId *int             `json:"asset_dispatched_id"`
	AssignedPersonId  *int             `json:"assigned_person_id"`
	AssignedById      *int             `json:"assigned_by_id"`
	Status            ResolutionStatus `json:"status"`
	ActualStart       *time.Time       `json:"actual_start"`
	ActualEnd         *time.Time       `json:"actual_end"`
	MeterStart        *decimal.Decimal `json:"meter_start"`
	MeterEnd          *decimal.Decimal `json:"meter_end"`
	LocationFrom      string           `json:"location_from"`
	LocationTo        string           `json:"location_to"`
	ConflictsResolved bool             `json:"conflicts_resolved"`
}
