package workflow

import (
	"errors"
	"sort"

	"bitbucket.org/mmdatafocus/fleet_backend/models"
	"gorm.io/gorm"
)

// loadRequestOutcomes reads every outcome row of a request across the four
// variant tables, sorted by creation time. Cancelled rows are included; the
// callers that only care about live ones filter with IsCancelled.
func loadRequestOutcomes(tx *gorm.DB, requestId int) ([]models.Outcome, error) {

	var outcomes []models.Outcome

	var dispatches []*models.StandardDispatch
	if err := tx.Where("request_id = ?", requestId).Find(&dispatches).Error; err != nil {
		return nil, err
	}
	for _, d := range dispatches {
		outcomes = append(outcomes, d)
	}

	var contracts []*models.Contract
	if err := tx.Where("request_id = ?", requestId).Find(&contracts).Error; err != nil {
		return nil, err
	}
	for _, c := range contracts {
		outcomes = append(outcomes, c)
	}

	var reimbursements []*models.Reimbursement
	if err := tx.Where("request_id = ?", requestId).Find(&reimbursements).Error; err != nil {
		return nil, err
	}
	for _, r := range reimbursements {
		outcomes = append(outcomes, r)
	}

	var rejects []*models.Reject
	if err := tx.Where("request_id = ?", requestId).Find(&rejects).Error; err != nil {
		return nil, err
	}
	for _, r := range rejects {
		outcomes = append(outcomes, r)
	}

	sort.SliceStable(outcomes, func(i, j int) bool {
		if outcomes[i].CreatedTime().Equal(outcomes[j].CreatedTime()) {
			return outcomes[i].OutcomeID() < outcomes[j].OutcomeID()
		}
		return outcomes[i].CreatedTime().Before(outcomes[j].CreatedTime())
	})
	return outcomes, nil
}

// loadOutcomeRow reads one outcome row by type and id. Returns
// (nil, nil) when the row does not exist.
func loadOutcomeRow(tx *gorm.DB, outcomeType models.OutcomeType, id int) (models.Outcome, error) {

	var outcome models.Outcome
	var err error

	switch outcomeType {
	case models.OutcomeTypeDispatch:
		var row models.StandardDispatch
		err = tx.First(&row, id).Error
		outcome = &row
	case models.OutcomeTypeContract:
		var row models.Contract
		err = tx.First(&row, id).Error
		outcome = &row
	case models.OutcomeTypeReimbursement:
		var row models.Reimbursement
		err = tx.First(&row, id).Error
		outcome = &row
	case models.OutcomeTypeReject:
		var row models.Reject
		err = tx.First(&row, id).Error
		outcome = &row
	default:
		return nil, NewDomainError("unknown outcome type: %s", outcomeType)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// saveOutcomeRow persists the concrete row behind the interface.
func saveOutcomeRow(tx *gorm.DB, outcome models.Outcome) error {
	return tx.Save(outcome).Error
}

func liveOutcomes(outcomes []models.Outcome) []models.Outcome {
	var live []models.Outcome
	for _, o := range outcomes {
		if !o.IsCancelled() {
			live = append(live, o)
		}
	}
	return live
}
