package workflow

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/fleet_backend/models"
	"github.com/shopspring/decimal"
)

func TestNarrateWorkflowStatusChanged(t *testing.T) {
	got := NarrateWorkflowStatusChanged(models.WorkflowStatusSubmitted, models.WorkflowStatusUnderReview, "")
	want := "Workflow status changed: Submitted → UnderReview"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	got = NarrateWorkflowStatusChanged(models.WorkflowStatusUnderReview, models.WorkflowStatusCancelled, "duplicate request")
	want = "Workflow status changed: UnderReview → Cancelled | Reason: duplicate request"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNarrateOutcomeLifecycle(t *testing.T) {
	got := NarrateOutcomeAssigned(models.OutcomeTypeDispatch, 12, "Asset ID: 3")
	if got != "Outcome assigned: Dispatch (ID: 12) | Asset ID: 3" {
		t.Fatalf("unexpected assignment narration: %q", got)
	}

	got = NarrateOutcomeAssigned(models.OutcomeTypeReject, 4, "")
	if got != "Outcome assigned: Reject (ID: 4)" {
		t.Fatalf("unexpected bare assignment narration: %q", got)
	}

	got = NarrateOutcomeCancelled(models.OutcomeTypeContract, 9, "vendor withdrew")
	if got != "Outcome cancelled: Contract (ID: 9) | Reason: vendor withdrew" {
		t.Fatalf("unexpected cancellation narration: %q", got)
	}

	got = NarrateOutcomeChanged(models.OutcomeTypeDispatch, 12, models.OutcomeTypeContract, 13, "truck broke down")
	if got != "Outcome changed: Dispatch (ID: 12) → Contract (ID: 13) | Reason: truck broke down" {
		t.Fatalf("unexpected change narration: %q", got)
	}

	got = NarrateResolutionStatusChanged(models.OutcomeTypeDispatch, models.ResolutionStatusPlanned, models.ResolutionStatusInProgress, "")
	if got != "Dispatch resolution status: Planned → In Progress" {
		t.Fatalf("unexpected resolution narration: %q", got)
	}
}

func TestNarrateRequestMoments(t *testing.T) {
	if got := NarrateRequestCreated(5); got != "Request created (ID: 5)" {
		t.Fatalf("unexpected creation narration: %q", got)
	}

	submittedAt := time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC)
	if got := NarrateRequestSubmitted(&submittedAt); got != "Request submitted at 2026-09-14 10:30" {
		t.Fatalf("unexpected submission narration: %q", got)
	}
	if got := NarrateRequestSubmitted(nil); got != "Request submitted at N/A" {
		t.Fatalf("unexpected nil submission narration: %q", got)
	}

	if got := NarrateFixesRequested("missing window"); got != "Fixes requested | Details: missing window" {
		t.Fatalf("unexpected fixes narration: %q", got)
	}
	if got := NarrateFollowupFrom(3); got != "Follow-up to request ID: 3" {
		t.Fatalf("unexpected followup narration: %q", got)
	}
}

func TestOutcomeDetailNarration(t *testing.T) {
	assetId := 3
	personId := 8
	dispatch := &models.StandardDispatch{
		ScheduledStart:    time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC),
		ScheduledEnd:      time.Date(2026, 9, 14, 14, 0, 0, 0, time.UTC),
		AssetDispatchedId: &assetId,
		AssignedPersonId:  &personId,
	}
	got := DispatchDetails(dispatch)
	want := "Scheduled: 2026-09-14 10:00 to 2026-09-14 14:00 | Asset ID: 3 | Assigned to User ID: 8"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	contract := &models.Contract{
		CompanyName:  "Golden Road Logistics",
		CostCurrency: "MMK",
		CostAmount:   decimal.NewFromInt(850000),
	}
	if got := ContractDetails(contract); got != "Company: Golden Road Logistics | Cost: MMK 850000" {
		t.Fatalf("unexpected contract details: %q", got)
	}

	reject := &models.Reject{Reason: "no availability", CanResubmit: true}
	if got := RejectDetails(reject); got != "Reason: no availability | Resubmission allowed" {
		t.Fatalf("unexpected reject details: %q", got)
	}
}
