package workflow

import (
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/fleet_backend/models"
)

func unlockedRequest() *models.DispatchRequest {
	return &models.DispatchRequest{ID: 1}
}

func lockedRequest() *models.DispatchRequest {
	outcomeType := models.OutcomeTypeDispatch
	rowId := 7
	return &models.DispatchRequest{
		ID:                 1,
		ActiveOutcomeType:  &outcomeType,
		ActiveOutcomeRowId: &rowId,
	}
}

func TestIntentLockAlwaysLockedFields(t *testing.T) {
	err := CheckIntentUpdate(unlockedRequest(), map[string]interface{}{
		"requested_for": 99,
	})
	var lockErr *IntentLockError
	if !errors.As(err, &lockErr) {
		t.Fatalf("expected IntentLockError, got %v", err)
	}
	if len(lockErr.Fields) != 1 || lockErr.Fields[0] != "requested_for" {
		t.Fatalf("expected offending field requested_for, got %v", lockErr.Fields)
	}
	if !errors.Is(err, ErrPolicy) {
		t.Fatal("intent lock errors should unwrap to ErrPolicy")
	}
}

func TestIntentLockCoreFieldsBeforeOutcome(t *testing.T) {
	err := CheckIntentUpdate(unlockedRequest(), map[string]interface{}{
		"desired_start": testWindowStart,
		"notes":         "still editable",
	})
	if err != nil {
		t.Fatalf("core fields should be editable before an outcome, got %v", err)
	}
}

func TestIntentLockCoreFieldsAfterOutcome(t *testing.T) {
	err := CheckIntentUpdate(lockedRequest(), map[string]interface{}{
		"desired_start": testWindowStart,
		"asset_type_id": 3,
	})
	var lockErr *IntentLockError
	if !errors.As(err, &lockErr) {
		t.Fatalf("expected IntentLockError, got %v", err)
	}
	if len(lockErr.Fields) != 2 {
		t.Fatalf("expected both offending fields reported, got %v", lockErr.Fields)
	}
	if lockErr.Fields[0] != "asset_type_id" || lockErr.Fields[1] != "desired_start" {
		t.Fatalf("expected sorted field names, got %v", lockErr.Fields)
	}
}

func TestIntentLockOperationalFieldsAlwaysEditable(t *testing.T) {
	err := CheckIntentUpdate(lockedRequest(), map[string]interface{}{
		"notes":          "updated plan",
		"dispatch_scope": "regional",
		"num_people":     4,
	})
	if err != nil {
		t.Fatalf("operational fields should stay editable, got %v", err)
	}
}

func TestIsFieldEditable(t *testing.T) {
	if IsFieldEditable(lockedRequest(), "requested_by") {
		t.Fatal("requested_by is never editable")
	}
	if !IsFieldEditable(lockedRequest(), "notes") {
		t.Fatal("notes is always editable")
	}
	if IsFieldEditable(lockedRequest(), "desired_end") {
		t.Fatal("desired_end locks with the outcome")
	}
	if !IsFieldEditable(unlockedRequest(), "desired_end") {
		t.Fatal("desired_end is editable before an outcome")
	}
}

func TestLockedAndEditableFieldSets(t *testing.T) {
	locked := LockedFields(lockedRequest())
	if len(locked) != len(alwaysLockedFields)+len(lockedAfterOutcomeFields) {
		t.Fatalf("unexpected locked set size: %v", locked)
	}
	editable := EditableFields(unlockedRequest())
	if len(editable) != len(alwaysEditableFields)+len(lockedAfterOutcomeFields) {
		t.Fatalf("unexpected editable set size: %v", editable)
	}
}
