package workflow

import (
	"bitbucket.org/mmdatafocus/fleet_backend/models"
	"gorm.io/gorm"
)

// AssetDispatchabilityCheck gates a dispatch entering In Progress on the
// asset's availability. Maintenance work takes priority over dispatch, so a
// real implementation blocks while the asset has an open work order.
type AssetDispatchabilityCheck interface {
	Check(tx *gorm.DB, assetId int, targetStatus models.ResolutionStatus) error
}

// alwaysDispatchable passes every asset. It stands in until the work-order
// module lands; swap it out via OutcomeManager wiring.
type alwaysDispatchable struct{}

func (alwaysDispatchable) Check(tx *gorm.DB, assetId int, targetStatus models.ResolutionStatus) error {
	return nil
}

// DefaultAssetDispatchability returns the pass-through check.
func DefaultAssetDispatchability() AssetDispatchabilityCheck {
	return alwaysDispatchable{}
}
