package workflow

import (
	"bitbucket.org/mmdatafocus/fleet_backend/models"
	"gorm.io/gorm"
)

// OutcomeManager drives the outcome half of the lifecycle: assignment,
// cancellation, type change and resolution-status transitions. Type-specific
// behavior is delegated to the injected handler registry; the request
// workflow side effects go through a RequestManager on the same request.
type OutcomeManager struct {
	request         *models.DispatchRequest
	registry        HandlerRegistry
	dispatchability AssetDispatchabilityCheck
}

func NewOutcomeManager(request *models.DispatchRequest, registry HandlerRegistry, dispatchability AssetDispatchabilityCheck) *OutcomeManager {
	if dispatchability == nil {
		dispatchability = DefaultAssetDispatchability()
	}
	return &OutcomeManager{
		request:         request,
		registry:        registry,
		dispatchability: dispatchability,
	}
}

// AssignOutcome creates an outcome of the given type, points the request at
// it and derives the new workflow status. The generic workflow narration is
// suppressed; the single "outcome assigned" comment carries the detail.
func (m *OutcomeManager) AssignOutcome(tx *gorm.DB, actorId int, outcomeType models.OutcomeType, input *AssignOutcomeInput) (models.Outcome, error) {

	if err := CheckBeforeOutcomeCreate(tx, m.request.ID); err != nil {
		return nil, err
	}

	handler, err := m.registry.Handler(outcomeType)
	if err != nil {
		return nil, err
	}
	if err := handler.ValidateAssignment(tx, m.request, input); err != nil {
		return nil, err
	}

	outcome, err := handler.Create(tx, actorId, m.request, input)
	if err != nil {
		return nil, err
	}

	outcomeId := outcome.OutcomeID()
	resolutionType := string(outcomeType)
	m.request.ActiveOutcomeType = &outcomeType
	m.request.ActiveOutcomeRowId = &outcomeId
	m.request.ResolutionType = &resolutionType
	m.request.UpdatedById = actorId

	err = tx.Model(&models.DispatchRequest{}).Where("id = ?", m.request.ID).
		Updates(map[string]interface{}{
			"active_outcome_type":   outcomeType,
			"active_outcome_row_id": outcomeId,
			"resolution_type":       resolutionType,
			"updated_by_id":         actorId,
		}).Error
	if err != nil {
		return nil, err
	}

	if err := CheckActiveOutcomePointer(tx, m.request); err != nil {
		return nil, err
	}

	requestMgr := NewRequestManager(m.request)
	derivedStatus := deriveWorkflowStatus(outcomeType, outcome)
	if err := requestMgr.SetWorkflowStatus(tx, actorId, derivedStatus, "", true); err != nil {
		return nil, err
	}

	if m.request.EventId > 0 {
		eventCtx := EventContext{EventId: m.request.EventId}
		comment := NarrateOutcomeAssigned(outcomeType, outcomeId, handler.DescribeAssigned(outcome))
		if err := eventCtx.Narrate(tx, actorId, comment); err != nil {
			return nil, err
		}
	}

	// Revalidate before commit: the loser of two concurrent assignments
	// fails here and rolls back.
	if err := CheckOutcomeUniqueness(tx, m.request.ID); err != nil {
		return nil, err
	}
	return outcome, nil
}

// deriveWorkflowStatus maps a freshly assigned outcome to the request's next
// workflow status. A rejection resolves the request immediately; a dispatch
// created already Complete does too; everything else is Planned.
func deriveWorkflowStatus(outcomeType models.OutcomeType, outcome models.Outcome) models.WorkflowStatus {
	switch outcomeType {
	case models.OutcomeTypeReject:
		return models.WorkflowStatusResolved
	case models.OutcomeTypeDispatch:
		if outcome.Resolution() == models.ResolutionStatusComplete {
			return models.WorkflowStatusResolved
		}
		return models.WorkflowStatusPlanned
	default:
		return models.WorkflowStatusPlanned
	}
}

// CancelActiveOutcome soft-cancels the active outcome, clears the pointer and
// moves the request back to UnderReview.
func (m *OutcomeManager) CancelActiveOutcome(tx *gorm.DB, actorId int, reason string) (models.Outcome, error) {

	if !m.request.HasActiveOutcome() {
		return nil, NewPolicyViolation("", "No active outcome to cancel")
	}

	outcomeType := *m.request.ActiveOutcomeType
	outcome, err := ActiveOutcome(tx, m.request)
	if err != nil {
		return nil, err
	}
	if outcome == nil {
		return nil, &ActiveOutcomePointerError{
			RequestId: m.request.ID,
			Message:   "referenced outcome row does not exist",
		}
	}

	handler, err := m.registry.Handler(outcomeType)
	if err != nil {
		return nil, err
	}
	if err := handler.Cancel(tx, actorId, outcome, reason); err != nil {
		return nil, err
	}

	m.request.ActiveOutcomeType = nil
	m.request.ActiveOutcomeRowId = nil
	m.request.ResolutionType = nil
	m.request.UpdatedById = actorId

	err = tx.Model(&models.DispatchRequest{}).Where("id = ?", m.request.ID).
		Updates(map[string]interface{}{
			"active_outcome_type":   nil,
			"active_outcome_row_id": nil,
			"resolution_type":       nil,
			"updated_by_id":         actorId,
		}).Error
	if err != nil {
		return nil, err
	}

	requestMgr := NewRequestManager(m.request)
	err = requestMgr.SetWorkflowStatus(tx, actorId, models.WorkflowStatusUnderReview, "", true)
	if err != nil {
		return nil, err
	}

	if m.request.EventId > 0 {
		eventCtx := EventContext{EventId: m.request.EventId}
		comment := NarrateOutcomeCancelled(outcomeType, outcome.OutcomeID(), reason)
		if err := eventCtx.Narrate(tx, actorId, comment); err != nil {
			return nil, err
		}
	}
	return outcome, nil
}

// ChangeOutcome is the composed cancel-then-assign. The two individual
// narration comments are replaced by one combined "outcome changed" comment.
func (m *OutcomeManager) ChangeOutcome(tx *gorm.DB, actorId int, newType models.OutcomeType, input *AssignOutcomeInput, reason string) (models.Outcome, error) {

	if !m.request.HasActiveOutcome() {
		return nil, NewPolicyViolation("", "No active outcome to change")
	}

	oldType := *m.request.ActiveOutcomeType
	oldId := *m.request.ActiveOutcomeRowId

	if _, err := m.CancelActiveOutcome(tx, actorId, reason); err != nil {
		return nil, err
	}
	outcome, err := m.AssignOutcome(tx, actorId, newType, input)
	if err != nil {
		return nil, err
	}

	if m.request.EventId > 0 {
		eventCtx := EventContext{EventId: m.request.EventId}
		if err := eventCtx.RemoveLastNarrations(tx, 2); err != nil {
			return nil, err
		}
		comment := NarrateOutcomeChanged(oldType, oldId, newType, outcome.OutcomeID(), reason)
		if err := eventCtx.Narrate(tx, actorId, comment); err != nil {
			return nil, err
		}
	}
	return outcome, nil
}

// SetResolutionStatus advances the active outcome through its own state
// machine, mirroring the legacy dispatch status field and cascading a
// Complete outcome into a Resolved request.
func (m *OutcomeManager) SetResolutionStatus(tx *gorm.DB, actorId int, newStatus models.ResolutionStatus, reason string) error {

	if !m.request.HasActiveOutcome() {
		return NewPolicyViolation("", "No active outcome to update")
	}

	outcomeType := *m.request.ActiveOutcomeType
	outcome, err := ActiveOutcome(tx, m.request)
	if err != nil {
		return err
	}
	if outcome == nil {
		return NewPolicyViolation("", "Active outcome %s not found", outcomeType)
	}

	oldStatus := outcome.Resolution()
	if err := ValidateResolutionTransition(outcomeType, oldStatus, newStatus); err != nil {
		return err
	}

	if dispatch, ok := outcome.(*models.StandardDispatch); ok {
		if newStatus == models.ResolutionStatusInProgress && dispatch.AssetDispatchedId != nil {
			err := m.dispatchability.Check(tx, *dispatch.AssetDispatchedId, newStatus)
			if err != nil {
				return err
			}
		}
		dispatch.Status = newStatus
	}

	outcome.SetResolution(newStatus)
	outcome.StampUpdatedBy(actorId)
	if err := saveOutcomeRow(tx, outcome); err != nil {
		return err
	}

	if newStatus == models.ResolutionStatusComplete {
		requestMgr := NewRequestManager(m.request)
		if err := requestMgr.Resolve(tx, actorId); err != nil {
			return err
		}
	}

	if m.request.EventId > 0 {
		eventCtx := EventContext{EventId: m.request.EventId}
		comment := NarrateResolutionStatusChanged(outcomeType, oldStatus, newStatus, reason)
		if err := eventCtx.Narrate(tx, actorId, comment); err != nil {
			return err
		}
	}
	return nil
}
