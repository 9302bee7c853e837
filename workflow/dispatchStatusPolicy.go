package workflow

import (
	"time"

	"bitbucket.org/mmdatafocus/fleet_backend/models"
)

// Cross-field consistency between a dispatch's resolution status and its
// actual dates: an actual start implies work has begun, an actual end implies
// it finished, and a dispatch that never ran carries neither.
func CheckDispatchStatusDates(status models.ResolutionStatus, actualStart *time.Time, actualEnd *time.Time) error {

	if actualStart != nil &&
		status != models.ResolutionStatusInProgress && status != models.ResolutionStatusComplete {
		return NewPolicyViolation("dispatch status validation",
			"actual start is set but status is %s, expected In Progress or Complete", status)
	}

	if actualEnd != nil && status != models.ResolutionStatusComplete {
		return NewPolicyViolation("dispatch status validation",
			"actual end is set but status is %s, expected Complete", status)
	}

	if status == models.ResolutionStatusPlanned || status == models.ResolutionStatusCancelled {
		if actualStart != nil || actualEnd != nil {
			return NewPolicyViolation("dispatch status validation",
				"status %s does not allow actual dates", status)
		}
	}

	if actualStart != nil && actualEnd != nil && actualEnd.Before(*actualStart) {
		return NewPolicyViolation("dispatch status validation",
			"actual end precedes actual start")
	}
	return nil
}

// CheckDispatchRow validates a dispatch row's own status/date consistency.
func CheckDispatchRow(dispatch *models.StandardDispatch) error {
	return CheckDispatchStatusDates(dispatch.ResolutionStatus, dispatch.ActualStart, dispatch.ActualEnd)
}
