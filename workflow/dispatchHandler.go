package workflow

import (
	"bitbucket.org/mmdatafocus/fleet_backend/models"
	"bitbucket.org/mmdatafocus/fleet_backend/utils"
	"gorm.io/gorm"
)

// StandardDispatchHandler assigns one of our own assets to the request.
type StandardDispatchHandler struct{}

func (StandardDispatchHandler) Type() models.OutcomeType { return models.OutcomeTypeDispatch }

// dispatchAssetId is the asset the dispatch will go out on: the explicit
// payload asset, falling back to the asset named on the request.
func dispatchAssetId(request *models.DispatchRequest, input *models.NewStandardDispatch) *int {
	if input.AssetDispatchedId != nil {
		return input.AssetDispatchedId
	}
	return request.RequestedAssetId
}

func dispatchStatus(input *models.NewStandardDispatch) models.ResolutionStatus {
	if input.Status == "" {
		return models.ResolutionStatusPlanned
	}
	return input.Status
}

func (h StandardDispatchHandler) ValidateAssignment(tx *gorm.DB, request *models.DispatchRequest, input *AssignOutcomeInput) error {
	if input == nil || input.Dispatch == nil {
		return NewPolicyViolation("dispatch assignment", "dispatch details are required")
	}
	payload := input.Dispatch

	if err := utils.ValidateStruct(payload); err != nil {
		return NewPolicyViolation("dispatch assignment", "%s", err.Error())
	}
	if !payload.ScheduledEnd.After(payload.ScheduledStart) {
		return NewPolicyViolation("dispatch assignment", "scheduled end must be after scheduled start")
	}

	status := dispatchStatus(payload)
	if _, err := models.ParseResolutionStatus(string(status)); err != nil {
		return NewPolicyViolation("dispatch assignment", "invalid status: %s", status)
	}
	if err := CheckDispatchStatusDates(status, payload.ActualStart, payload.ActualEnd); err != nil {
		return err
	}

	if assetId := dispatchAssetId(request, payload); assetId != nil {
		if err := CheckDoubleBooking(tx, *assetId, payload.ScheduledStart, payload.ScheduledEnd, nil); err != nil {
			return err
		}
	}
	return nil
}

func (h StandardDispatchHandler) Create(tx *gorm.DB, actorId int, request *models.DispatchRequest, input *AssignOutcomeInput) (models.Outcome, error) {
	payload := input.Dispatch
	status := dispatchStatus(payload)

	assignedBy := payload.AssignedById
	if assignedBy == nil {
		id := actorId
		assignedBy = &id
	}

	dispatch := models.StandardDispatch{
		OutcomeBase:       newOutcomeBase(request, models.OutcomeTypeDispatch, actorId),
		AssignedById:      assignedBy,
		AssignedPersonId:  payload.AssignedPersonId,
		AssetDispatchedId: dispatchAssetId(request, payload),
		ScheduledStart:    payload.ScheduledStart,
		ScheduledEnd:      payload.ScheduledEnd,
		ActualStart:       payload.ActualStart,
		ActualEnd:         payload.ActualEnd,
		MeterStart:        payload.MeterStart,
		MeterEnd:          payload.MeterEnd,
		LocationFrom:      payload.LocationFrom,
		LocationTo:        payload.LocationTo,
		Status:            status,
		ConflictsResolved: payload.ConflictsResolved,
	}
	dispatch.ResolutionStatus = status

	if err := tx.Create(&dispatch).Error; err != nil {
		return nil, err
	}

	// The event follows the dispatched asset.
	if dispatch.AssetDispatchedId != nil {
		eventCtx := EventContext{EventId: request.EventId}
		if err := eventCtx.SetAsset(tx, *dispatch.AssetDispatchedId); err != nil {
			return nil, err
		}
	}
	return &dispatch, nil
}

func (h StandardDispatchHandler) Cancel(tx *gorm.DB, actorId int, outcome models.Outcome, reason string) error {
	dispatch, ok := outcome.(*models.StandardDispatch)
	if !ok {
		return NewConsistencyError("expected a standard dispatch, got %s", outcome.Type())
	}
	dispatch.Status = models.ResolutionStatusCancelled
	return cancelOutcomeRow(tx, actorId, dispatch, reason)
}

func (h StandardDispatchHandler) DescribeAssigned(outcome models.Outcome) string {
	if dispatch, ok := outcome.(*models.StandardDispatch); ok {
		return DispatchDetails(dispatch)
	}
	return ""
}

func (h StandardDispatchHandler) DescribeCancelled(outcome models.Outcome, reason string) string {
	return NarrateOutcomeCancelled(models.OutcomeTypeDispatch, outcome.OutcomeID(), reason)
}
