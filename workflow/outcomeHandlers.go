package workflow

import (
	"time"

	"bitbucket.org/mmdatafocus/fleet_backend/models"
	"gorm.io/gorm"
)

// AssignOutcomeInput carries the payload for one outcome assignment. Exactly
// the sub-input matching the assigned type must be set; a handler invoked
// without its sub-input rejects the assignment.
type AssignOutcomeInput struct {
	Dispatch      *models.NewStandardDispatch `json:"dispatch,omitempty"`
	Contract      *models.NewContract         `json:"contract,omitempty"`
	Reimbursement *models.NewReimbursement    `json:"reimbursement,omitempty"`
	Reject        *models.NewReject           `json:"reject,omitempty"`
}

// OutcomeHandler implements the type-specific half of outcome assignment and
// cancellation. Handlers are stateless; all persistence goes through the
// caller's transaction.
type OutcomeHandler interface {
	Type() models.OutcomeType
	ValidateAssignment(tx *gorm.DB, request *models.DispatchRequest, input *AssignOutcomeInput) error
	Create(tx *gorm.DB, actorId int, request *models.DispatchRequest, input *AssignOutcomeInput) (models.Outcome, error)
	Cancel(tx *gorm.DB, actorId int, outcome models.Outcome, reason string) error
	DescribeAssigned(outcome models.Outcome) string
	DescribeCancelled(outcome models.Outcome, reason string) string
}

// HandlerRegistry maps outcome types to their handlers. Built once and
// injected into the OutcomeManager; there is no process-global registry.
type HandlerRegistry struct {
	handlers map[models.OutcomeType]OutcomeHandler
}

// NewHandlerRegistry wires the four standard handlers.
func NewHandlerRegistry() HandlerRegistry {
	registry := HandlerRegistry{handlers: map[models.OutcomeType]OutcomeHandler{}}
	registry.register(StandardDispatchHandler{})
	registry.register(ContractHandler{})
	registry.register(ReimbursementHandler{})
	registry.register(RejectHandler{})
	return registry
}

func (r HandlerRegistry) register(handler OutcomeHandler) {
	r.handlers[handler.Type()] = handler
}

// Handler resolves the handler for an outcome type.
func (r HandlerRegistry) Handler(outcomeType models.OutcomeType) (OutcomeHandler, error) {
	handler, ok := r.handlers[outcomeType]
	if !ok {
		return nil, NewDomainError("no handler registered for outcome type: %s", outcomeType)
	}
	return handler, nil
}

// cancelOutcomeRow is the uniform cancel: soft-cancel stamp plus resolution
// status Cancelled, persisted in place.
func cancelOutcomeRow(tx *gorm.DB, actorId int, outcome models.Outcome, reason string) error {
	outcome.MarkCancelled(actorId, reason, time.Now().UTC())
	return saveOutcomeRow(tx, outcome)
}

func newOutcomeBase(request *models.DispatchRequest, outcomeType models.OutcomeType, actorId int) models.OutcomeBase {
	return models.OutcomeBase{
		RequestId:        request.ID,
		RequestEventId:   request.EventId,
		OutcomeType:      outcomeType,
		ResolutionStatus: InitialResolutionStatus(outcomeType),
		CreatedById:      actorId,
	}
}
