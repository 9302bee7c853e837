package workflow

import (
	"errors"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/fleet_backend/models"
)

func TestDoubleBookingOverlapRejected(t *testing.T) {
	f := newFixture(t)

	first := f.newRequest(t, &f.truck.ID)
	err := first.AssignOutcome(f.dispatcher.ID, models.OutcomeTypeDispatch,
		dispatchInput(testWindowStart, testWindowStart.Add(2*time.Hour), nil, ""))
	if err != nil {
		t.Fatalf("assign first dispatch: %v", err)
	}

	// [10:00,12:00) vs [11:00,13:00): overlap.
	second := f.newRequest(t, &f.truck.ID)
	err = second.AssignOutcome(f.dispatcher.ID, models.OutcomeTypeDispatch,
		dispatchInput(testWindowStart.Add(time.Hour), testWindowStart.Add(3*time.Hour), nil, ""))

	var bookingErr *DoubleBookingError
	if !errors.As(err, &bookingErr) {
		t.Fatalf("expected DoubleBookingError, got %v", err)
	}
	if bookingErr.AssetId != f.truck.ID {
		t.Fatalf("conflict reported for wrong asset: %d", bookingErr.AssetId)
	}
	if len(bookingErr.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict summary, got %d", len(bookingErr.Conflicts))
	}
	if !errors.Is(err, ErrConflict) {
		t.Fatal("double booking should unwrap to ErrConflict")
	}

	// The failed assignment left nothing behind.
	if second.HasAnyOutcome() {
		t.Fatal("failed assignment must not persist an outcome")
	}
}

func TestBackToBackBookingsAllowed(t *testing.T) {
	f := newFixture(t)

	first := f.newRequest(t, &f.truck.ID)
	err := first.AssignOutcome(f.dispatcher.ID, models.OutcomeTypeDispatch,
		dispatchInput(testWindowStart, testWindowStart.Add(2*time.Hour), nil, ""))
	if err != nil {
		t.Fatalf("assign first dispatch: %v", err)
	}

	// [10:00,12:00) then [12:00,14:00): half-open windows touch, no overlap.
	second := f.newRequest(t, &f.truck.ID)
	err = second.AssignOutcome(f.dispatcher.ID, models.OutcomeTypeDispatch,
		dispatchInput(testWindowStart.Add(2*time.Hour), testWindowStart.Add(4*time.Hour), nil, ""))
	if err != nil {
		t.Fatalf("back-to-back booking should pass, got %v", err)
	}
}

func TestCancelledDispatchDoesNotBlock(t *testing.T) {
	f := newFixture(t)

	first := f.newRequest(t, &f.truck.ID)
	err := first.AssignOutcome(f.dispatcher.ID, models.OutcomeTypeDispatch,
		dispatchInput(testWindowStart, testWindowStart.Add(2*time.Hour), nil, ""))
	if err != nil {
		t.Fatalf("assign first dispatch: %v", err)
	}
	if err := first.CancelActiveOutcome(f.dispatcher.ID, "truck recalled"); err != nil {
		t.Fatalf("cancel first dispatch: %v", err)
	}

	second := f.newRequest(t, &f.truck.ID)
	err = second.AssignOutcome(f.dispatcher.ID, models.OutcomeTypeDispatch,
		dispatchInput(testWindowStart, testWindowStart.Add(2*time.Hour), nil, ""))
	if err != nil {
		t.Fatalf("cancelled dispatch should not block the window, got %v", err)
	}
}

func TestExclusionIdSkipsOwnRow(t *testing.T) {
	f := newFixture(t)

	ctx := f.newRequest(t, &f.truck.ID)
	err := ctx.AssignOutcome(f.dispatcher.ID, models.OutcomeTypeDispatch,
		dispatchInput(testWindowStart, testWindowStart.Add(2*time.Hour), nil, ""))
	if err != nil {
		t.Fatalf("assign dispatch: %v", err)
	}
	dispatchId := ctx.ActiveOutcome.OutcomeID()

	// Re-checking the same window for an in-place edit excludes the row itself.
	err = CheckDoubleBooking(f.db, f.truck.ID, testWindowStart, testWindowStart.Add(2*time.Hour), &dispatchId)
	if err != nil {
		t.Fatalf("exclusion id should skip the dispatch's own row, got %v", err)
	}

	err = CheckDoubleBooking(f.db, f.truck.ID, testWindowStart, testWindowStart.Add(2*time.Hour), nil)
	if err == nil {
		t.Fatal("without exclusion the window conflicts with itself")
	}
}

func TestConflictSummariesCapped(t *testing.T) {
	f := newFixture(t)

	// Five overlapping dispatches on the same asset, created directly.
	for i := 0; i < 5; i++ {
		dispatch := models.StandardDispatch{
			OutcomeBase: models.OutcomeBase{
				RequestId:        1000 + i,
				RequestEventId:   1,
				OutcomeType:      models.OutcomeTypeDispatch,
				ResolutionStatus: models.ResolutionStatusPlanned,
				CreatedById:      f.dispatcher.ID,
			},
			AssetDispatchedId: &f.truck.ID,
			ScheduledStart:    testWindowStart,
			ScheduledEnd:      testWindowStart.Add(2 * time.Hour),
			Status:            models.ResolutionStatusPlanned,
		}
		if err := f.db.Create(&dispatch).Error; err != nil {
			t.Fatalf("create dispatch row: %v", err)
		}
	}

	err := CheckDoubleBooking(f.db, f.truck.ID, testWindowStart.Add(time.Hour), testWindowStart.Add(3*time.Hour), nil)
	var bookingErr *DoubleBookingError
	if !errors.As(err, &bookingErr) {
		t.Fatalf("expected DoubleBookingError, got %v", err)
	}
	if len(bookingErr.Conflicts) != maxConflictSummaries {
		t.Fatalf("expected %d summaries, got %d", maxConflictSummaries, len(bookingErr.Conflicts))
	}
}

func TestDispatchStatusDateConsistency(t *testing.T) {
	start := testWindowStart
	end := testWindowStart.Add(2 * time.Hour)

	cases := []struct {
		name        string
		status      models.ResolutionStatus
		actualStart *time.Time
		actualEnd   *time.Time
		valid       bool
	}{
		{"planned with no dates", models.ResolutionStatusPlanned, nil, nil, true},
		{"planned with actual start", models.ResolutionStatusPlanned, &start, nil, false},
		{"in progress with actual start", models.ResolutionStatusInProgress, &start, nil, true},
		{"in progress with actual end", models.ResolutionStatusInProgress, &start, &end, false},
		{"complete with both dates", models.ResolutionStatusComplete, &start, &end, true},
		{"complete with no dates", models.ResolutionStatusComplete, nil, nil, true},
		{"cancelled with actual end", models.ResolutionStatusCancelled, nil, &end, false},
		{"end before start", models.ResolutionStatusComplete, &end, &start, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckDispatchStatusDates(tc.status, tc.actualStart, tc.actualEnd)
			if tc.valid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.valid {
				if err == nil {
					t.Fatal("expected a policy violation")
				}
				if !errors.Is(err, ErrPolicy) {
					t.Fatalf("expected ErrPolicy, got %v", err)
				}
			}
		})
	}
}
