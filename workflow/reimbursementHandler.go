package workflow

import (
	"bitbucket.org/mmdatafocus/fleet_backend/models"
	"bitbucket.org/mmdatafocus/fleet_backend/utils"
	"gorm.io/gorm"
)

// ReimbursementHandler settles the request in cash instead of an asset.
type ReimbursementHandler struct{}

func (ReimbursementHandler) Type() models.OutcomeType { return models.OutcomeTypeReimbursement }

func (h ReimbursementHandler) ValidateAssignment(tx *gorm.DB, request *models.DispatchRequest, input *AssignOutcomeInput) error {
	if input == nil || input.Reimbursement == nil {
		return NewPolicyViolation("reimbursement assignment", "reimbursement details are required")
	}
	if err := utils.ValidateStruct(input.Reimbursement); err != nil {
		return NewPolicyViolation("reimbursement assignment", "%s", err.Error())
	}
	if !input.Reimbursement.Amount.IsPositive() {
		return NewPolicyViolation("reimbursement assignment", "amount must be positive")
	}
	return nil
}

func (h ReimbursementHandler) Create(tx *gorm.DB, actorId int, request *models.DispatchRequest, input *AssignOutcomeInput) (models.Outcome, error) {
	payload := input.Reimbursement

	reimbursement := models.Reimbursement{
		OutcomeBase:     newOutcomeBase(request, models.OutcomeTypeReimbursement, actorId),
		FromAccount:     payload.FromAccount,
		ToAccount:       payload.ToAccount,
		Amount:          payload.Amount,
		Reason:          payload.Reason,
		PolicyReference: payload.PolicyReference,
	}
	if err := tx.Create(&reimbursement).Error; err != nil {
		return nil, err
	}
	return &reimbursement, nil
}

func (h ReimbursementHandler) Cancel(tx *gorm.DB, actorId int, outcome models.Outcome, reason string) error {
	if _, ok := outcome.(*models.Reimbursement); !ok {
		return NewConsistencyError("expected a reimbursement, got %s", outcome.Type())
	}
	return cancelOutcomeRow(tx, actorId, outcome, reason)
}

func (h ReimbursementHandler) DescribeAssigned(outcome models.Outcome) string {
	if reimbursement, ok := outcome.(*models.Reimbursement); ok {
		return ReimbursementDetails(reimbursement)
	}
	return ""
}

func (h ReimbursementHandler) DescribeCancelled(outcome models.Outcome, reason string) string {
	return NarrateOutcomeCancelled(models.OutcomeTypeReimbursement, outcome.OutcomeID(), reason)
}
