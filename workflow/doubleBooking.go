package workflow

import (
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/fleet_backend/models"
	"gorm.io/gorm"
)

const maxConflictSummaries = 3

// FindConflictingDispatches returns non-cancelled dispatches of the asset
// whose scheduled window overlaps [start, end). Windows are half-open, so
// back-to-back bookings do not conflict. excludeDispatchId skips one dispatch
// row, for in-place edits.
func FindConflictingDispatches(tx *gorm.DB, assetId int, start time.Time, end time.Time, excludeDispatchId *int) ([]*models.StandardDispatch, error) {

	query := tx.Where("asset_dispatched_id = ?", assetId).
		Where("cancelled = ?", false).
		Where("scheduled_start < ? AND scheduled_end > ?", end, start)
	if excludeDispatchId != nil {
		query = query.Where("id <> ?", *excludeDispatchId)
	}

	var conflicts []*models.StandardDispatch
	err := query.Order("scheduled_start ASC").Find(&conflicts).Error
	if err != nil {
		return nil, err
	}
	return conflicts, nil
}

// CheckDoubleBooking rejects a window that overlaps an existing booking,
// reporting up to three conflict summaries.
func CheckDoubleBooking(tx *gorm.DB, assetId int, start time.Time, end time.Time, excludeDispatchId *int) error {

	conflicts, err := FindConflictingDispatches(tx, assetId, start, end, excludeDispatchId)
	if err != nil {
		return err
	}
	if len(conflicts) == 0 {
		return nil
	}

	summaries := make([]string, 0, maxConflictSummaries)
	for _, conflict := range conflicts {
		if len(summaries) == maxConflictSummaries {
			break
		}
		summaries = append(summaries, fmt.Sprintf("Dispatch %d: %s to %s",
			conflict.ID,
			conflict.ScheduledStart.Format(narrationTimeLayout),
			conflict.ScheduledEnd.Format(narrationTimeLayout)))
	}
	return &DoubleBookingError{AssetId: assetId, Conflicts: summaries}
}
