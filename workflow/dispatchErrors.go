package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// Category sentinels for the dispatch lifecycle error taxonomy. Every typed
// error below unwraps to exactly one of these, so callers can branch with
// errors.Is without knowing the concrete type. All of them are recoverable
// domain errors; infrastructure failures (DB, IO) pass through untyped.
var (
	ErrDomain      = errors.New("dispatch domain rule violated")
	ErrTransition  = errors.New("state transition not permitted")
	ErrPolicy      = errors.New("dispatch policy violation")
	ErrConsistency = errors.New("dispatch consistency violation")
	ErrConflict    = errors.New("dispatch resource conflict")
)

// DomainError is the catch-all for rule failures that fit no narrower
// category, e.g. an unregistered outcome type.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return ErrDomain }

func NewDomainError(format string, args ...interface{}) *DomainError {
	return &DomainError{Message: fmt.Sprintf(format, args...)}
}

// TransitionError reports a state change not present in the transition table.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition: %s → %s", e.Entity, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrTransition }

// PolicyViolation reports a business rule rejecting the operation.
type PolicyViolation struct {
	Policy  string
	Message string
}

func (e *PolicyViolation) Error() string {
	if e.Policy == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Policy, e.Message)
}

func (e *PolicyViolation) Unwrap() error { return ErrPolicy }

func NewPolicyViolation(policy string, format string, args ...interface{}) *PolicyViolation {
	return &PolicyViolation{Policy: policy, Message: fmt.Sprintf(format, args...)}
}

// ConsistencyError reports a structural invariant violation. It should be
// unreachable in correct code; raising one signals a prior bug.
type ConsistencyError struct {
	Message string
}

func (e *ConsistencyError) Error() string { return e.Message }

func (e *ConsistencyError) Unwrap() error { return ErrConsistency }

func NewConsistencyError(format string, args ...interface{}) *ConsistencyError {
	return &ConsistencyError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a resource conflict.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Unwrap() error { return ErrConflict }

// IntentLockError rejects an edit to locked request fields. Fields holds every
// offending field name, collected in one pass.
type IntentLockError struct {
	RequestId int
	Fields    []string
}

func (e *IntentLockError) Error() string {
	return fmt.Sprintf("request %d intent is locked, fields not editable: %s",
		e.RequestId, strings.Join(e.Fields, ", "))
}

func (e *IntentLockError) Unwrap() error { return ErrPolicy }

// OutcomeUniquenessError reports a second non-cancelled outcome on a request.
type OutcomeUniquenessError struct {
	RequestId    int
	ExistingType string
	ExistingId   int
}

func (e *OutcomeUniquenessError) Error() string {
	return fmt.Sprintf("request %d already has an active outcome: %s (ID: %d)",
		e.RequestId, e.ExistingType, e.ExistingId)
}

func (e *OutcomeUniquenessError) Unwrap() error { return ErrPolicy }

// ActiveOutcomePointerError reports a half-set or dangling active-outcome
// pointer on a request.
type ActiveOutcomePointerError struct {
	RequestId int
	Message   string
}

func (e *ActiveOutcomePointerError) Error() string {
	return fmt.Sprintf("request %d active outcome pointer: %s", e.RequestId, e.Message)
}

func (e *ActiveOutcomePointerError) Unwrap() error { return ErrConsistency }

// DoubleBookingError reports scheduling overlap on an asset. Conflicts holds
// up to three human-readable summaries of the overlapping dispatches.
type DoubleBookingError struct {
	AssetId   int
	Conflicts []string
}

func (e *DoubleBookingError) Error() string {
	return fmt.Sprintf("asset %d is already booked in the requested window: %s",
		e.AssetId, strings.Join(e.Conflicts, "; "))
}

func (e *DoubleBookingError) Unwrap() error { return ErrConflict }
