package workflow

import (
	"bitbucket.org/mmdatafocus/fleet_backend/models"
	"bitbucket.org/mmdatafocus/fleet_backend/utils"
	"gorm.io/gorm"
)

// RejectHandler declines the request. A rejection is terminal on creation:
// the row is born Complete, and cancelling it is how a rejection is reversed.
type RejectHandler struct{}

func (RejectHandler) Type() models.OutcomeType { return models.OutcomeTypeReject }

func (h RejectHandler) ValidateAssignment(tx *gorm.DB, request *models.DispatchRequest, input *AssignOutcomeInput) error {
	if input == nil || input.Reject == nil {
		return NewPolicyViolation("reject assignment", "rejection details are required")
	}
	if err := utils.ValidateStruct(input.Reject); err != nil {
		return NewPolicyViolation("reject assignment", "%s", err.Error())
	}
	return nil
}

func (h RejectHandler) Create(tx *gorm.DB, actorId int, request *models.DispatchRequest, input *AssignOutcomeInput) (models.Outcome, error) {
	payload := input.Reject

	reject := models.Reject{
		OutcomeBase:           newOutcomeBase(request, models.OutcomeTypeReject, actorId),
		Reason:                payload.Reason,
		RejectionCategory:     payload.RejectionCategory,
		Notes:                 payload.Notes,
		AlternativeSuggestion: payload.AlternativeSuggestion,
		CanResubmit:           payload.CanResubmit,
		ResubmitAfter:         payload.ResubmitAfter,
	}
	if err := tx.Create(&reject).Error; err != nil {
		return nil, err
	}
	return &reject, nil
}

func (h RejectHandler) Cancel(tx *gorm.DB, actorId int, outcome models.Outcome, reason string) error {
	if _, ok := outcome.(*models.Reject); !ok {
		return NewConsistencyError("expected a rejection, got %s", outcome.Type())
	}
	return cancelOutcomeRow(tx, actorId, outcome, reason)
}

func (h RejectHandler) DescribeAssigned(outcome models.Outcome) string {
	if reject, ok := outcome.(*models.Reject); ok {
		return RejectDetails(reject)
	}
	return ""
}

func (h RejectHandler) DescribeCancelled(outcome models.Outcome, reason string) string {
	return NarrateOutcomeCancelled(models.OutcomeTypeReject, outcome.OutcomeID(), reason)
}
