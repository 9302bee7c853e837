package models

import (
	"github.com/shopspring/decimal"
)

// Reimbursement is the outcome where the requester is cash-settled instead of
// receiving an asset.
type Reimbursement struct {
	OutcomeBase `gorm:"embedded"`

	FromAccount     string          `gorm:"size:100;not null" json:"from_account"`
	ToAccount       string          `gorm:"size:100;not null" json:"to_account"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Reason          string          `gorm:"type:text;not null" json:"reason"`
	PolicyReference string          `gorm:"size:255" json:"policy_reference"`
}

func (Reimbursement) TableName() string { return "dispatch_reimbursement_details" }

type NewReimbursement struct {
	FromAccount     string          `json:"from_account" validate:"required"`
	ToAccount       string          `json:"to_account" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
	Reason          string          `json:"reason" validate:"required"`
	PolicyReference string          `json:"policy_reference"`
}
