package workflow

import (
	"sort"

	"bitbucket.org/mmdatafocus/fleet_backend/models"
)

// Request intent immutability. Core request fields (scheduling window, asset
// requirements, location) lock once an outcome is assigned; operational
// details stay editable throughout fulfillment; attribution fields never
// change after creation.

var alwaysLockedFields = map[string]bool{
	"requested_by":  true,
	"requested_for": true,
}

var lockedAfterOutcomeFields = map[string]bool{
	"desired_start":       true,
	"desired_end":         true,
	"asset_type_id":       true,
	"asset_subclass_text": true,
	"requested_asset_id":  true,
	"major_location_id":   true,
}

var alwaysEditableFields = map[string]bool{
	"dispatch_scope":        true,
	"estimated_meter_usage": true,
	"activity_location":     true,
	"num_people":            true,
	"names_freeform":        true,
	"notes":                 true,
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CheckIntentUpdate rejects updates to locked fields, naming every offending
// field at once.
func CheckIntentUpdate(request *models.DispatchRequest, updates map[string]interface{}) error {

	var offending []string
	for field := range updates {
		if alwaysLockedFields[field] {
			offending = append(offending, field)
		}
	}
	if len(offending) > 0 {
		sort.Strings(offending)
		return &IntentLockError{RequestId: request.ID, Fields: offending}
	}

	if !request.HasActiveOutcome() {
		return nil
	}

	for field := range updates {
		if lockedAfterOutcomeFields[field] {
			offending = append(offending, field)
		}
	}
	if len(offending) > 0 {
		sort.Strings(offending)
		return &IntentLockError{RequestId: request.ID, Fields: offending}
	}
	return nil
}

// IsIntentLocked reports whether the core intent fields are frozen.
func IsIntentLocked(request *models.DispatchRequest) bool {
	return request.HasActiveOutcome()
}

// LockedFields lists the field names not editable on the request right now.
func LockedFields(request *models.DispatchRequest) []string {
	locked := map[string]bool{}
	for f := range alwaysLockedFields {
		locked[f] = true
	}
	if request != nil && request.HasActiveOutcome() {
		for f := range lockedAfterOutcomeFields {
			locked[f] = true
		}
	}
	return sortedKeys(locked)
}

// EditableFields lists the field names editable on the request right now.
func EditableFields(request *models.DispatchRequest) []string {
	editable := map[string]bool{}
	for f := range alwaysEditableFields {
		editable[f] = true
	}
	if request == nil || !request.HasActiveOutcome() {
		for f := range lockedAfterOutcomeFields {
			editable[f] = true
		}
	}
	return sortedKeys(editable)
}

// IsFieldEditable checks one field. Unknown fields default to editable.
func IsFieldEditable(request *models.DispatchRequest, field string) bool {
	if alwaysLockedFields[field] {
		return false
	}
	if alwaysEditableFields[field] {
		return true
	}
	if lockedAfterOutcomeFields[field] {
		return request == nil || !request.HasActiveOutcome()
	}
	return true
}
