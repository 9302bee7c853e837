package workflow

import (
	"bitbucket.org/mmdatafocus/fleet_backend/models"
	"gorm.io/gorm"
)

// At most one non-cancelled outcome may exist per request across all four
// variant tables.

// CheckOutcomeUniqueness verifies the invariant on existing rows. Run after
// every outcome write, inside the same transaction.
func CheckOutcomeUniqueness(tx *gorm.DB, requestId int) error {

	outcomes, err := loadRequestOutcomes(tx, requestId)
	if err != nil {
		return err
	}

	live := liveOutcomes(outcomes)
	if len(live) > 1 {
		return &OutcomeUniquenessError{
			RequestId:    requestId,
			ExistingType: string(live[0].Type()),
			ExistingId:   live[0].OutcomeID(),
		}
	}
	return nil
}

// CheckBeforeOutcomeCreate rejects a new assignment while any non-cancelled
// outcome, of any type, exists.
func CheckBeforeOutcomeCreate(tx *gorm.DB, requestId int) error {

	outcomes, err := loadRequestOutcomes(tx, requestId)
	if err != nil {
		return err
	}

	if live := liveOutcomes(outcomes); len(live) > 0 {
		return &OutcomeUniquenessError{
			RequestId:    requestId,
			ExistingType: string(live[0].Type()),
			ExistingId:   live[0].OutcomeID(),
		}
	}
	return nil
}

// ActiveOutcome resolves the request's pointer to its live outcome row.
// Returns (nil, nil) when the pointer is unset.
func ActiveOutcome(tx *gorm.DB, request *models.DispatchRequest) (models.Outcome, error) {
	if request.ActiveOutcomeType == nil || request.ActiveOutcomeRowId == nil {
		return nil, nil
	}
	return loadOutcomeRow(tx, *request.ActiveOutcomeType, *request.ActiveOutcomeRowId)
}
