package workflow

import (
	"context"
	"errors"

	"bitbucket.org/mmdatafocus/fleet_backend/config"
	"bitbucket.org/mmdatafocus/fleet_backend/models"
	"bitbucket.org/mmdatafocus/fleet_backend/utils"
	"gorm.io/gorm"
)

// DispatchContext is the single entry point for mutating a dispatch request
// and its outcomes. Every mutating method runs one transaction and then fully
// rebuilds the cached view from the store; no cached sub-object is trusted
// across a mutation boundary.
type DispatchContext struct {
	db              *gorm.DB
	registry        HandlerRegistry
	dispatchability AssetDispatchabilityCheck

	Request       *models.DispatchRequest
	Event         *models.Event
	Outcomes      []models.Outcome
	ActiveOutcome models.Outcome
}

// LoadDispatchContext loads a context by request id with the standard handler
// wiring.
func LoadDispatchContext(ctx context.Context, requestId int) (*DispatchContext, error) {
	return LoadDispatchContextWith(ctx, requestId, NewHandlerRegistry(), DefaultAssetDispatchability())
}

// LoadDispatchContextWith loads a context with caller-supplied wiring.
func LoadDispatchContextWith(ctx context.Context, requestId int, registry HandlerRegistry, dispatchability AssetDispatchabilityCheck) (*DispatchContext, error) {

	dispatchCtx := &DispatchContext{
		db:              config.GetDB().WithContext(ctx),
		registry:        registry,
		dispatchability: dispatchability,
		Request:         &models.DispatchRequest{ID: requestId},
	}
	if err := dispatchCtx.rebuild(); err != nil {
		return nil, err
	}
	return dispatchCtx, nil
}

// DispatchContextFromRequest builds a context around an already-loaded
// request row.
func DispatchContextFromRequest(ctx context.Context, request *models.DispatchRequest) (*DispatchContext, error) {
	if request == nil || request.ID <= 0 {
		return nil, errors.New("request is required")
	}
	return LoadDispatchContext(ctx, request.ID)
}

// rebuild reloads the request, its event, every outcome row and the active
// outcome resolved from the pointer.
func (c *DispatchContext) rebuild() error {

	var request models.DispatchRequest
	if err := c.db.First(&request, c.Request.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorRecordNotFound
		}
		return err
	}
	c.Request = &request

	c.Event = nil
	if request.EventId > 0 {
		var event models.Event
		err := c.db.First(&event, request.EventId).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			c.Event = &event
		}
	}

	outcomes, err := loadRequestOutcomes(c.db, request.ID)
	if err != nil {
		return err
	}
	c.Outcomes = outcomes

	c.ActiveOutcome = nil
	if request.HasActiveOutcome() {
		active, err := ActiveOutcome(c.db, &request)
		if err != nil {
			return err
		}
		c.ActiveOutcome = active
	}
	return nil
}

// mutate runs one write inside a transaction and rebuilds afterwards. The
// rebuild also runs after a rollback so in-memory fields never drift from the
// store.
func (c *DispatchContext) mutate(fn func(tx *gorm.DB) error) error {
	if err := c.db.Transaction(fn); err != nil {
		if rebuildErr := c.rebuild(); rebuildErr != nil {
			logger := config.GetLogger()
			config.LogError(logger, "context.go", "mutate", "rebuild after rollback", c.Request.ID, rebuildErr)
		}
		return err
	}
	return c.rebuild()
}

// OutcomeHistory returns every outcome row of the request, cancelled ones
// included, sorted by creation time.
func (c *DispatchContext) OutcomeHistory() []models.Outcome {
	return c.Outcomes
}

func (c *DispatchContext) HasEvent() bool {
	return c.Event != nil
}

func (c *DispatchContext) HasActiveOutcome() bool {
	return c.Request.HasActiveOutcome()
}

func (c *DispatchContext) HasAnyOutcome() bool {
	return len(c.Outcomes) > 0
}

// Request workflow operations.

func (c *DispatchContext) Submit(actorId int) error {
	return c.mutate(func(tx *gorm.DB) error {
		return NewRequestManager(c.Request).Submit(tx, actorId)
	})
}

func (c *DispatchContext) SetWorkflowStatus(actorId int, newStatus models.WorkflowStatus, reason string) error {
	return c.mutate(func(tx *gorm.DB) error {
		return NewRequestManager(c.Request).SetWorkflowStatus(tx, actorId, newStatus, reason, false)
	})
}

func (c *DispatchContext) BeginReview(actorId int) error {
	return c.mutate(func(tx *gorm.DB) error {
		return NewRequestManager(c.Request).BeginReview(tx, actorId)
	})
}

func (c *DispatchContext) RequestFixes(actorId int, reason string) error {
	return c.mutate(func(tx *gorm.DB) error {
		return NewRequestManager(c.Request).RequestFixes(tx, actorId, reason)
	})
}

func (c *DispatchContext) ResumeReview(actorId int) error {
	return c.mutate(func(tx *gorm.DB) error {
		return NewRequestManager(c.Request).ResumeReview(tx, actorId)
	})
}

func (c *DispatchContext) Plan(actorId int) error {
	return c.mutate(func(tx *gorm.DB) error {
		return NewRequestManager(c.Request).Plan(tx, actorId)
	})
}

func (c *DispatchContext) Resolve(actorId int) error {
	return c.mutate(func(tx *gorm.DB) error {
		return NewRequestManager(c.Request).Resolve(tx, actorId)
	})
}

// CancelRequest cancels the request, cancelling the active outcome first when
// one exists. One transaction covers both.
func (c *DispatchContext) CancelRequest(actorId int, reason string) error {
	return c.mutate(func(tx *gorm.DB) error {
		if c.Request.HasActiveOutcome() {
			outcomeMgr := NewOutcomeManager(c.Request, c.registry, c.dispatchability)
			if _, err := outcomeMgr.CancelActiveOutcome(tx, actorId, reason); err != nil {
				return err
			}
		}
		return NewRequestManager(c.Request).CancelRequest(tx, actorId, reason)
	})
}

// Outcome lifecycle operations.

func (c *DispatchContext) AssignOutcome(actorId int, outcomeType models.OutcomeType, input *AssignOutcomeInput) error {
	return c.mutate(func(tx *gorm.DB) error {
		outcomeMgr := NewOutcomeManager(c.Request, c.registry, c.dispatchability)
		_, err := outcomeMgr.AssignOutcome(tx, actorId, outcomeType, input)
		return err
	})
}

func (c *DispatchContext) CancelActiveOutcome(actorId int, reason string) error {
	return c.mutate(func(tx *gorm.DB) error {
		outcomeMgr := NewOutcomeManager(c.Request, c.registry, c.dispatchability)
		_, err := outcomeMgr.CancelActiveOutcome(tx, actorId, reason)
		return err
	})
}

func (c *DispatchContext) ChangeOutcome(actorId int, newType models.OutcomeType, input *AssignOutcomeInput, reason string) error {
	return c.mutate(func(tx *gorm.DB) error {
		outcomeMgr := NewOutcomeManager(c.Request, c.registry, c.dispatchability)
		_, err := outcomeMgr.ChangeOutcome(tx, actorId, newType, input, reason)
		return err
	})
}

func (c *DispatchContext) SetResolutionStatus(actorId int, newStatus models.ResolutionStatus, reason string) error {
	return c.mutate(func(tx *gorm.DB) error {
		outcomeMgr := NewOutcomeManager(c.Request, c.registry, c.dispatchability)
		return outcomeMgr.SetResolutionStatus(tx, actorId, newStatus, reason)
	})
}

// AddComment appends a comment to the request's timeline. Human comments come
// from users; the engine's own narration goes through the managers instead.
func (c *DispatchContext) AddComment(userId int, content string, isHumanMade bool) error {
	if !c.HasEvent() {
		return NewDomainError("request %d has no event", c.Request.ID)
	}
	return c.mutate(func(tx *gorm.DB) error {
		return EventContext{EventId: c.Request.EventId}.AddComment(tx, userId, content, isHumanMade)
	})
}

// Comments returns the request's timeline, oldest first.
func (c *DispatchContext) Comments() ([]*models.Comment, error) {
	if !c.HasEvent() {
		return nil, nil
	}
	return models.GetEventComments(c.db, c.Request.EventId)
}

// Validation pass-throughs.

func (c *DispatchContext) ValidateOutcomeUniqueness() error {
	return CheckOutcomeUniqueness(c.db, c.Request.ID)
}

func (c *DispatchContext) ValidateActivePointer() error {
	return CheckActiveOutcomePointer(c.db, c.Request)
}

func (c *DispatchContext) ValidateIntentUpdate(updates map[string]interface{}) error {
	return NewRequestManager(c.Request).ValidateIntentUpdate(updates)
}

func (c *DispatchContext) IsIntentLocked() bool {
	return IsIntentLocked(c.Request)
}

// UpdateRequestFields applies a guarded edit to the request. The intent-lock
// policy runs first; unknown fields are rejected outright.
func (c *DispatchContext) UpdateRequestFields(actorId int, updates map[string]interface{}) error {

	if len(updates) == 0 {
		return nil
	}
	for field := range updates {
		if !alwaysLockedFields[field] && !lockedAfterOutcomeFields[field] && !alwaysEditableFields[field] {
			return NewPolicyViolation("request update", "unknown field: %s", field)
		}
	}
	if err := c.ValidateIntentUpdate(updates); err != nil {
		return err
	}

	return c.mutate(func(tx *gorm.DB) error {
		columns := make(map[string]interface{}, len(updates)+1)
		for field, value := range updates {
			columns[field] = value
		}
		columns["updated_by_id"] = actorId
		return tx.Model(&models.DispatchRequest{}).Where("id = ?", c.Request.ID).
			Updates(columns).Error
	})
}

// CreateFollowupRequest creates a replacement request when the original's
// intent is locked, cross-linking narration on both events. Returns the new
// request's context.
func CreateFollowupRequest(ctx context.Context, originalRequestId int, actorId int, input *models.NewDispatchRequest) (*DispatchContext, error) {

	originalCtx, err := LoadDispatchContext(ctx, originalRequestId)
	if err != nil {
		return nil, err
	}
	if !originalCtx.IsIntentLocked() {
		return nil, NewPolicyViolation("follow-up request",
			"original request %d is not locked; edit it directly instead", originalRequestId)
	}

	previousId := originalRequestId
	input.PreviousRequestId = &previousId

	var newRequest *models.DispatchRequest
	db := config.GetDB().WithContext(ctx)
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		newRequest, err = models.CreateDispatchRequestInTx(ctx, tx, actorId, input)
		if err != nil {
			return err
		}

		if originalCtx.HasEvent() {
			originalEventCtx := EventContext{EventId: originalCtx.Request.EventId}
			err = originalEventCtx.Narrate(tx, actorId, NarrateFollowupCreated(newRequest.ID))
			if err != nil {
				return err
			}
		}
		newEventCtx := EventContext{EventId: newRequest.EventId}
		return newEventCtx.Narrate(tx, actorId, NarrateFollowupFrom(originalRequestId))
	})
	if err != nil {
		return nil, err
	}

	return LoadDispatchContextWith(ctx, newRequest.ID, originalCtx.registry, originalCtx.dispatchability)
}

// DispatchSummary is the read model the CRUD layer renders.
type DispatchSummary struct {
	RequestId           int                   `json:"request_id"`
	WorkflowStatus      models.WorkflowStatus `json:"workflow_status"`
	HasEvent            bool                  `json:"has_event"`
	ActiveOutcomeType   *models.OutcomeType   `json:"active_outcome_type"`
	ActiveOutcomeId     *int                  `json:"active_outcome_id"`
	HasActiveOutcome    bool                  `json:"has_active_outcome"`
	OutcomeHistoryCount int                   `json:"outcome_history_count"`
	IsIntentLocked      bool                  `json:"is_intent_locked"`
}

func (c *DispatchContext) GetSummary() DispatchSummary {
	return DispatchSummary{
		RequestId:           c.Request.ID,
		WorkflowStatus:      c.Request.WorkflowStatus,
		HasEvent:            c.HasEvent(),
		ActiveOutcomeType:   c.Request.ActiveOutcomeType,
		ActiveOutcomeId:     c.Request.ActiveOutcomeRowId,
		HasActiveOutcome:    c.HasActiveOutcome(),
		OutcomeHistoryCount: len(c.Outcomes),
		IsIntentLocked:      c.IsIntentLocked(),
	}
}
