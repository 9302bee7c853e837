package workflow

import (
	"time"

	"bitbucket.org/mmdatafocus/fleet_backend/models"
	"gorm.io/gorm"
)

// RequestManager drives the request workflow state machine, enforces intent
// immutability and narrates every transition onto the request's event. All
// methods run inside the caller's transaction; DispatchContext owns the
// transaction boundary and the rebuild afterwards.
type RequestManager struct {
	request *models.DispatchRequest
}

func NewRequestManager(request *models.DispatchRequest) *RequestManager {
	return &RequestManager{request: request}
}

func (m *RequestManager) eventContext() (EventContext, bool) {
	if m.request.EventId <= 0 {
		return EventContext{}, false
	}
	return EventContext{EventId: m.request.EventId}, true
}

// SetWorkflowStatus validates and applies one workflow transition, mirrors
// the legacy status field and the event status, and narrates the change
// unless skipComment is set.
func (m *RequestManager) SetWorkflowStatus(tx *gorm.DB, actorId int, newStatus models.WorkflowStatus, reason string, skipComment bool) error {

	oldStatus := m.request.WorkflowStatus
	if err := ValidateWorkflowTransition(oldStatus, newStatus); err != nil {
		return err
	}

	m.request.WorkflowStatus = newStatus
	m.request.Status = string(newStatus)
	m.request.UpdatedById = actorId

	err := tx.Model(&models.DispatchRequest{}).Where("id = ?", m.request.ID).
		Updates(map[string]interface{}{
			"workflow_status": newStatus,
			"status":          string(newStatus),
			"updated_by_id":   actorId,
		}).Error
	if err != nil {
		return err
	}

	eventCtx, hasEvent := m.eventContext()
	if !hasEvent {
		return nil
	}
	if err := eventCtx.SetStatus(tx, string(newStatus)); err != nil {
		return err
	}
	if !skipComment {
		return eventCtx.Narrate(tx, actorId, NarrateWorkflowStatusChanged(oldStatus, newStatus, reason))
	}
	return nil
}

// Submit is idempotent: the submitted timestamp is set once, and a second
// call against an already-Submitted request changes nothing.
func (m *RequestManager) Submit(tx *gorm.DB, actorId int) error {

	alreadySubmitted := m.request.SubmittedAt != nil &&
		m.request.WorkflowStatus == models.WorkflowStatusSubmitted
	if alreadySubmitted {
		return nil
	}

	if m.request.SubmittedAt == nil {
		now := time.Now().UTC()
		m.request.SubmittedAt = &now
		err := tx.Model(&models.DispatchRequest{}).Where("id = ?", m.request.ID).
			Update("submitted_at", now).Error
		if err != nil {
			return err
		}
	}

	if m.request.WorkflowStatus != models.WorkflowStatusSubmitted {
		err := m.SetWorkflowStatus(tx, actorId, models.WorkflowStatusSubmitted, "", true)
		if err != nil {
			return err
		}
	}

	if eventCtx, hasEvent := m.eventContext(); hasEvent {
		return eventCtx.Narrate(tx, actorId, NarrateRequestSubmitted(m.request.SubmittedAt))
	}
	return nil
}

func (m *RequestManager) BeginReview(tx *gorm.DB, actorId int) error {
	return m.SetWorkflowStatus(tx, actorId, models.WorkflowStatusUnderReview,
		"Review started by dispatcher", false)
}

func (m *RequestManager) RequestFixes(tx *gorm.DB, actorId int, reason string) error {
	err := m.SetWorkflowStatus(tx, actorId, models.WorkflowStatusFixesRequested, "", true)
	if err != nil {
		return err
	}
	if eventCtx, hasEvent := m.eventContext(); hasEvent {
		return eventCtx.Narrate(tx, actorId, NarrateFixesRequested(reason))
	}
	return nil
}

func (m *RequestManager) ResumeReview(tx *gorm.DB, actorId int) error {
	err := m.SetWorkflowStatus(tx, actorId, models.WorkflowStatusUnderReview, "", true)
	if err != nil {
		return err
	}
	if eventCtx, hasEvent := m.eventContext(); hasEvent {
		return eventCtx.Narrate(tx, actorId, NarrateReviewResumed())
	}
	return nil
}

func (m *RequestManager) Plan(tx *gorm.DB, actorId int) error {
	return m.SetWorkflowStatus(tx, actorId, models.WorkflowStatusPlanned,
		"Outcome assigned", false)
}

func (m *RequestManager) Resolve(tx *gorm.DB, actorId int) error {
	return m.SetWorkflowStatus(tx, actorId, models.WorkflowStatusResolved,
		"Outcome completed", false)
}

func (m *RequestManager) CancelRequest(tx *gorm.DB, actorId int, reason string) error {
	err := m.SetWorkflowStatus(tx, actorId, models.WorkflowStatusCancelled, "", true)
	if err != nil {
		return err
	}
	if eventCtx, hasEvent := m.eventContext(); hasEvent {
		return eventCtx.Narrate(tx, actorId, NarrateRequestCancelled(reason))
	}
	return nil
}

// ValidateIntentUpdate rejects edits to locked fields.
func (m *RequestManager) ValidateIntentUpdate(updates map[string]interface{}) error {
	return CheckIntentUpdate(m.request, updates)
}

func (m *RequestManager) IsIntentLocked() bool {
	return IsIntentLocked(m.request)
}
