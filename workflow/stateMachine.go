package workflow

import (
	"bitbucket.org/mmdatafocus/fleet_backend/models"
)

// Closed transition tables for the two lifecycle families. Self-transitions
// are always permitted no-ops; terminal states are absorbing.

var requestTransitions = map[models.WorkflowStatus][]models.WorkflowStatus{
	models.WorkflowStatusRequested: {
		models.WorkflowStatusSubmitted,
		models.WorkflowStatusUnderReview,
		models.WorkflowStatusPlanned,
		models.WorkflowStatusFixesRequested,
		models.WorkflowStatusResolved,
		models.WorkflowStatusCancelled,
	},
	models.WorkflowStatusSubmitted: {
		models.WorkflowStatusUnderReview,
		models.WorkflowStatusPlanned,
		models.WorkflowStatusCancelled,
	},
	models.WorkflowStatusUnderReview: {
		models.WorkflowStatusFixesRequested,
		models.WorkflowStatusPlanned,
		models.WorkflowStatusCancelled,
	},
	models.WorkflowStatusFixesRequested: {
		models.WorkflowStatusUnderReview,
		models.WorkflowStatusCancelled,
	},
	models.WorkflowStatusPlanned: {
		models.WorkflowStatusUnderReview,
		models.WorkflowStatusResolved,
		models.WorkflowStatusCancelled,
	},
	models.WorkflowStatusResolved:  {},
	models.WorkflowStatusCancelled: {},
}

var baseResolutionTransitions = map[models.ResolutionStatus][]models.ResolutionStatus{
	models.ResolutionStatusPlanned: {
		models.ResolutionStatusComplete,
		models.ResolutionStatusCancelled,
	},
	models.ResolutionStatusComplete:  {},
	models.ResolutionStatusCancelled: {},
}

// Standard dispatches pass through an operational In Progress state.
var dispatchResolutionTransitions = map[models.ResolutionStatus][]models.ResolutionStatus{
	models.ResolutionStatusPlanned: {
		models.ResolutionStatusInProgress,
		models.ResolutionStatusComplete,
		models.ResolutionStatusCancelled,
	},
	models.ResolutionStatusInProgress: {
		models.ResolutionStatusComplete,
		models.ResolutionStatusCancelled,
	},
	models.ResolutionStatusComplete:  {},
	models.ResolutionStatusCancelled: {},
}

// Rejections are born Complete; cancelling one is how it gets reversed.
var rejectResolutionTransitions = map[models.ResolutionStatus][]models.ResolutionStatus{
	models.ResolutionStatusComplete: {
		models.ResolutionStatusCancelled,
	},
	models.ResolutionStatusCancelled: {},
}

func resolutionTransitionsFor(outcomeType models.OutcomeType) map[models.ResolutionStatus][]models.ResolutionStatus {
	switch outcomeType {
	case models.OutcomeTypeDispatch:
		return dispatchResolutionTransitions
	case models.OutcomeTypeReject:
		return rejectResolutionTransitions
	default:
		return baseResolutionTransitions
	}
}

func contains[T comparable](values []T, target T) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// ValidateWorkflowTransition checks a request status change against the
// transition table.
func ValidateWorkflowTransition(from models.WorkflowStatus, to models.WorkflowStatus) error {
	if from == to {
		return nil
	}
	allowed, ok := requestTransitions[from]
	if !ok || !contains(allowed, to) {
		return &TransitionError{Entity: "request workflow", From: string(from), To: string(to)}
	}
	return nil
}

// ValidateResolutionTransition checks an outcome status change against the
// variant's transition table.
func ValidateResolutionTransition(outcomeType models.OutcomeType, from models.ResolutionStatus, to models.ResolutionStatus) error {
	if from == to {
		return nil
	}
	allowed, ok := resolutionTransitionsFor(outcomeType)[from]
	if !ok || !contains(allowed, to) {
		return &TransitionError{
			Entity: string(outcomeType) + " resolution",
			From:   string(from),
			To:     string(to),
		}
	}
	return nil
}

// InitialResolutionStatus is the status an outcome of the given type is
// created in.
func InitialResolutionStatus(outcomeType models.OutcomeType) models.ResolutionStatus {
	if outcomeType == models.OutcomeTypeReject {
		return models.ResolutionStatusComplete
	}
	return models.ResolutionStatusPlanned
}

// IsTerminalWorkflowStatus reports whether no outbound transition exists.
func IsTerminalWorkflowStatus(status models.WorkflowStatus) bool {
	return status == models.WorkflowStatusResolved || status == models.WorkflowStatusCancelled
}

// IsTerminalResolutionStatus reports whether an outcome of the given type can
// leave the given status.
func IsTerminalResolutionStatus(outcomeType models.OutcomeType, status models.ResolutionStatus) bool {
	return len(resolutionTransitionsFor(outcomeType)[status]) == 0
}
