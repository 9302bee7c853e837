package models

import (
	"github.com/shopspring/decimal"
)

// Contract is the outcome where an external vendor covers the need.
type Contract struct {
	OutcomeBase `gorm:"embedded"`

	CompanyName       string          `gorm:"size:255;not null" json:"company_name"`
	CostCurrency      string          `gorm:"size:10;not null" json:"cost_currency"`
	CostAmount        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"cost_amount"`
	ContractReference string          `gorm:"size:255" json:"contract_reference"`
	Notes             string          `gorm:"type:text" json:"notes"`
}

func (Contract) TableName() string { return "dispatch_contract_details" }

type NewContract struct {
	CompanyName       string          `json:"company_name" validate:"required"`
	CostCurrency      string          `json:"cost_currency" validate:"required"`
	CostAmount        decimal.Decimal `json:"cost_amount"`
	ContractReference string          `json:"contract_reference"`
	Notes             string          `json:"notes"`
}
