package workflow

import (
	"fmt"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/fleet_backend/models"
)

// Narration renders the machine-generated comment for every lifecycle
// transition. Pure formatting, no state. All narration lands on the request's
// event with is_human_made=false.

const narrationTimeLayout = "2006-01-02 15:04"

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func NarrateRequestCreated(requestId int) string {
	return fmt.Sprintf("Request created (ID: %d)", requestId)
}

func NarrateRequestSubmitted(submittedAt *time.Time) string {
	when := "N/A"
	if submittedAt != nil {
		when = submittedAt.Format(narrationTimeLayout)
	}
	return fmt.Sprintf("Request submitted at %s", when)
}

func NarrateWorkflowStatusChanged(from models.WorkflowStatus, to models.WorkflowStatus, reason string) string {
	comment := fmt.Sprintf("Workflow status changed: %s → %s", from, to)
	if reason != "" {
		comment += " | Reason: " + reason
	}
	return comment
}

func NarrateRequestCancelled(reason string) string {
	return fmt.Sprintf("Request cancelled | Reason: %s", reason)
}

func NarrateFixesRequested(reason string) string {
	return fmt.Sprintf("Fixes requested | Details: %s", reason)
}

func NarrateReviewResumed() string {
	return "Review resumed after fixes received"
}

func NarrateOutcomeAssigned(outcomeType models.OutcomeType, outcomeId int, extra string) string {
	comment := fmt.Sprintf("Outcome assigned: %s (ID: %d)", titleCase(string(outcomeType)), outcomeId)
	if extra != "" {
		comment += " | " + extra
	}
	return comment
}

func NarrateOutcomeCancelled(outcomeType models.OutcomeType, outcomeId int, reason string) string {
	return fmt.Sprintf("Outcome cancelled: %s (ID: %d) | Reason: %s",
		titleCase(string(outcomeType)), outcomeId, reason)
}

func NarrateOutcomeChanged(oldType models.OutcomeType, oldId int, newType models.OutcomeType, newId int, reason string) string {
	return fmt.Sprintf("Outcome changed: %s (ID: %d) → %s (ID: %d) | Reason: %s",
		titleCase(string(oldType)), oldId, titleCase(string(newType)), newId, reason)
}

func NarrateResolutionStatusChanged(outcomeType models.OutcomeType, from models.ResolutionStatus, to models.ResolutionStatus, reason string) string {
	comment := fmt.Sprintf("%s resolution status: %s → %s", titleCase(string(outcomeType)), from, to)
	if reason != "" {
		comment += " | Reason: " + reason
	}
	return comment
}

func NarrateFollowupCreated(newRequestId int) string {
	return fmt.Sprintf("Follow-up request created (ID: %d) to modify locked request intent", newRequestId)
}

func NarrateFollowupFrom(originalRequestId int) string {
	return fmt.Sprintf("Follow-up to request ID: %d", originalRequestId)
}

// DispatchDetails summarizes a standard dispatch for the assignment comment.
func DispatchDetails(dispatch *models.StandardDispatch) string {
	var parts []string

	if !dispatch.ScheduledStart.IsZero() && !dispatch.ScheduledEnd.IsZero() {
		parts = append(parts, fmt.Sprintf("Scheduled: %s to %s",
			dispatch.ScheduledStart.Format(narrationTimeLayout),
			dispatch.ScheduledEnd.Format(narrationTimeLayout)))
	}
	if dispatch.AssetDispatchedId != nil {
		parts = append(parts, fmt.Sprintf("Asset ID: %d", *dispatch.AssetDispatchedId))
	}
	if dispatch.AssignedPersonId != nil {
		parts = append(parts, fmt.Sprintf("Assigned to User ID: %d", *dispatch.AssignedPersonId))
	}

	if len(parts) == 0 {
		return "No additional details"
	}
	return strings.Join(parts, " | ")
}

func ContractDetails(contract *models.Contract) string {
	parts := []string{
		fmt.Sprintf("Company: %s", contract.CompanyName),
		fmt.Sprintf("Cost: %s %s", contract.CostCurrency, contract.CostAmount.String()),
	}
	if contract.ContractReference != "" {
		parts = append(parts, fmt.Sprintf("Reference: %s", contract.ContractReference))
	}
	return strings.Join(parts, " | ")
}

func ReimbursementDetails(reimbursement *models.Reimbursement) string {
	parts := []string{
		fmt.Sprintf("Amount: %s", reimbursement.Amount.String()),
		fmt.Sprintf("From: %s", reimbursement.FromAccount),
		fmt.Sprintf("To: %s", reimbursement.ToAccount),
	}
	if reimbursement.PolicyReference != "" {
		parts = append(parts, fmt.Sprintf("Policy: %s", reimbursement.PolicyReference))
	}
	return strings.Join(parts, " | ")
}

func RejectDetails(reject *models.Reject) string {
	parts := []string{fmt.Sprintf("Reason: %s", reject.Reason)}

	if reject.RejectionCategory != "" {
		parts = append(parts, fmt.Sprintf("Category: %s", reject.RejectionCategory))
	}
	if reject.CanResubmit {
		resubmit := "Resubmission allowed"
		if reject.ResubmitAfter != nil {
			resubmit += " after " + reject.ResubmitAfter.Format("2006-01-02")
		}
		parts = append(parts, resubmit)
	}
	return strings.Join(parts, " | ")
}
