package workflow

import (
	"bitbucket.org/mmdatafocus/fleet_backend/models"
	"bitbucket.org/mmdatafocus/fleet_backend/utils"
	"gorm.io/gorm"
)

// ContractHandler covers the request through an external vendor.
type ContractHandler struct{}

func (ContractHandler) Type() models.OutcomeType { return models.OutcomeTypeContract }

func (h ContractHandler) ValidateAssignment(tx *gorm.DB, request *models.DispatchRequest, input *AssignOutcomeInput) error {
	if input == nil || input.Contract == nil {
		return NewPolicyViolation("contract assignment", "contract details are required")
	}
	if err := utils.ValidateStruct(input.Contract); err != nil {
		return NewPolicyViolation("contract assignment", "%s", err.Error())
	}
	if input.Contract.CostAmount.IsNegative() {
		return NewPolicyViolation("contract assignment", "cost amount must not be negative")
	}
	return nil
}

func (h ContractHandler) Create(tx *gorm.DB, actorId int, request *models.DispatchRequest, input *AssignOutcomeInput) (models.Outcome, error) {
	payload := input.Contract

	contract := models.Contract{
		OutcomeBase:       newOutcomeBase(request, models.OutcomeTypeContract, actorId),
		CompanyName:       payload.CompanyName,
		CostCurrency:      payload.CostCurrency,
		CostAmount:        payload.CostAmount,
		ContractReference: payload.ContractReference,
		Notes:             payload.Notes,
	}
	if err := tx.Create(&contract).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (h ContractHandler) Cancel(tx *gorm.DB, actorId int, outcome models.Outcome, reason string) error {
	if _, ok := outcome.(*models.Contract); !ok {
		return NewConsistencyError("expected a contract, got %s", outcome.Type())
	}
	return cancelOutcomeRow(tx, actorId, outcome, reason)
}

func (h ContractHandler) DescribeAssigned(outcome models.Outcome) string {
	if contract, ok := outcome.(*models.Contract); ok {
		return ContractDetails(contract)
	}
	return ""
}

func (h ContractHandler) DescribeCancelled(outcome models.Outcome, reason string) string {
	return NarrateOutcomeCancelled(models.OutcomeTypeContract, outcome.OutcomeID(), reason)
}
