package workflow

import (
	"bitbucket.org/mmdatafocus/fleet_backend/models"
	"gorm.io/gorm"
)

// The request's active-outcome pointer is either fully unset or names an
// existing, non-cancelled outcome row of the matching type. A violation means
// a prior write went wrong, so it surfaces as a consistency error rather than
// a policy rejection.
func CheckActiveOutcomePointer(tx *gorm.DB, request *models.DispatchRequest) error {

	typeSet := request.ActiveOutcomeType != nil
	rowSet := request.ActiveOutcomeRowId != nil

	if typeSet != rowSet {
		return &ActiveOutcomePointerError{
			RequestId: request.ID,
			Message:   "type and row id must both be set or both be null",
		}
	}
	if !typeSet {
		return nil
	}

	outcome, err := loadOutcomeRow(tx, *request.ActiveOutcomeType, *request.ActiveOutcomeRowId)
	if err != nil {
		return err
	}
	if outcome == nil {
		return &ActiveOutcomePointerError{
			RequestId: request.ID,
			Message:   "referenced outcome row does not exist",
		}
	}
	if outcome.IsCancelled() {
		return &ActiveOutcomePointerError{
			RequestId: request.ID,
			Message:   "referenced outcome is cancelled",
		}
	}
	if outcome.Type() != *request.ActiveOutcomeType {
		return &ActiveOutcomePointerError{
			RequestId: request.ID,
			Message:   "referenced outcome type does not match pointer type",
		}
	}
	return nil
}
