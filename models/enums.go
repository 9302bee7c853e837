package models

import (
	"errors"
)

// WorkflowStatus is the dispatch request lifecycle status.
type WorkflowStatus string

const (
	WorkflowStatusRequested      WorkflowStatus = "Requested"
	WorkflowStatusSubmitted      WorkflowStatus = "Submitted"
	WorkflowStatusUnderReview    WorkflowStatus = "UnderReview"
	WorkflowStatusFixesRequested WorkflowStatus = "FixesRequested"
	WorkflowStatusPlanned        WorkflowStatus = "Planned"
	WorkflowStatusResolved       WorkflowStatus = "Resolved"
	WorkflowStatusCancelled      WorkflowStatus = "Cancelled"
)

func ParseWorkflowStatus(s string) (WorkflowStatus, error) {
	statuses := map[string]WorkflowStatus{
		"Requested":      WorkflowStatusRequested,
		"Submitted":      WorkflowStatusSubmitted,
		"UnderReview":    WorkflowStatusUnderReview,
		"FixesRequested": WorkflowStatusFixesRequested,
		"Planned":        WorkflowStatusPlanned,
		"Resolved":       WorkflowStatusResolved,
		"Cancelled":      WorkflowStatusCancelled,
	}
	status, ok := statuses[s]
	if !ok {
		return "", errors.New("invalid workflow status")
	}
	return status, nil
}

// OutcomeType discriminates the four outcome variants of a dispatch request.
type OutcomeType string

const (
	OutcomeTypeDispatch      OutcomeType = "dispatch"
	OutcomeTypeContract      OutcomeType = "contract"
	OutcomeTypeReimbursement OutcomeType = "reimbursement"
	OutcomeTypeReject        OutcomeType = "reject"
)

// AllOutcomeTypes lists every variant, in handler registration order.
var AllOutcomeTypes = []OutcomeType{
	OutcomeTypeDispatch,
	OutcomeTypeContract,
	OutcomeTypeReimbursement,
	OutcomeTypeReject,
}

func ParseOutcomeType(s string) (OutcomeType, error) {
	types := map[string]OutcomeType{
		"dispatch":      OutcomeTypeDispatch,
		"contract":      OutcomeTypeContract,
		"reimbursement": OutcomeTypeReimbursement,
		"reject":        OutcomeTypeReject,
	}
	outcomeType, ok := types[s]
	if !ok {
		return "", errors.New("invalid outcome type")
	}
	return outcomeType, nil
}

// ResolutionStatus is the outcome lifecycle status. "In Progress" only applies
// to standard dispatches.
type ResolutionStatus string

const (
	ResolutionStatusPlanned    ResolutionStatus = "Planned"
	ResolutionStatusInProgress ResolutionStatus = "In Progress"
	ResolutionStatusComplete   ResolutionStatus = "Complete"
	ResolutionStatusCancelled  ResolutionStatus = "Cancelled"
)

func ParseResolutionStatus(s string) (ResolutionStatus, error) {
	statuses := map[string]ResolutionStatus{
		"Planned":     ResolutionStatusPlanned,
		"In Progress": ResolutionStatusInProgress,
		"Complete":    ResolutionStatusComplete,
		"Cancelled":   ResolutionStatusCancelled,
	}
	status, ok := statuses[s]
	if !ok {
		return "", errors.New("invalid resolution status")
	}
	return status, nil
}
