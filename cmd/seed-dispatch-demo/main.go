package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"bitbucket.org/mmdatafocus/fleet_backend/config"
	"bitbucket.org/mmdatafocus/fleet_backend/models"
	"bitbucket.org/mmdatafocus/fleet_backend/utils"
	"bitbucket.org/mmdatafocus/fleet_backend/workflow"
	"github.com/shopspring/decimal"
)

// Seeds a demo fleet (users, assets, locations) and walks three dispatch
// requests through the lifecycle so a fresh environment has data to look at.
func main() {
	skipMigrate := flag.Bool("skip-migrate", false, "Skip schema migration before seeding")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	if !*skipMigrate {
		models.MigrateTable()
	}

	dispatcher := models.User{Username: "demo.dispatcher", Name: "Demo Dispatcher", IsActive: utils.NewTrue()}
	requester := models.User{Username: "demo.requester", Name: "Demo Requester", IsActive: utils.NewTrue()}
	for _, user := range []*models.User{&dispatcher, &requester} {
		if err := db.Where("username = ?", user.Username).FirstOrCreate(user).Error; err != nil {
			fail("create user", err)
		}
	}

	truckType := models.AssetType{Name: "Truck"}
	if err := db.Where("name = ?", truckType.Name).FirstOrCreate(&truckType).Error; err != nil {
		fail("create asset type", err)
	}
	yard := models.MajorLocation{Name: "Central Yard"}
	if err := db.Where("name = ?", yard.Name).FirstOrCreate(&yard).Error; err != nil {
		fail("create location", err)
	}
	truck := models.Asset{
		Name:            "Truck 01",
		AssetTypeId:     truckType.ID,
		MajorLocationId: yard.ID,
		Meter:           decimal.NewFromInt(124500),
		IsActive:        utils.NewTrue(),
	}
	if err := db.Where("name = ?", truck.Name).FirstOrCreate(&truck).Error; err != nil {
		fail("create asset", err)
	}

	ctx := utils.SetUserIdInContext(context.Background(), dispatcher.ID)
	ctx = utils.SetUserNameInContext(ctx, dispatcher.Name)
	ctx = utils.SetCorrelationIdInContext(ctx, utils.CorrelationIdFromContextOrNew(ctx))

	windowStart := time.Now().UTC().Truncate(time.Hour).Add(48 * time.Hour)

	// Request 1: dispatched on our own truck and completed.
	first := createRequest(ctx, &requester, truckType.ID, yard.ID, &truck.ID, windowStart, "Gravel haul to north site")
	mustOp(first.Submit(dispatcher.ID), "submit request 1")
	mustOp(first.BeginReview(dispatcher.ID), "begin review request 1")
	mustOp(first.AssignOutcome(dispatcher.ID, models.OutcomeTypeDispatch, &workflow.AssignOutcomeInput{
		Dispatch: &models.NewStandardDispatch{
			ScheduledStart:   windowStart,
			ScheduledEnd:     windowStart.Add(4 * time.Hour),
			AssignedPersonId: &requester.ID,
			LocationFrom:     "Central Yard",
			LocationTo:       "North Site",
		},
	}), "assign dispatch to request 1")
	mustOp(first.SetResolutionStatus(dispatcher.ID, models.ResolutionStatusComplete, "Returned on time"), "complete request 1")

	// Request 2: no asset available, covered by an external vendor.
	second := createRequest(ctx, &requester, truckType.ID, yard.ID, nil, windowStart.Add(24*time.Hour), "Equipment move, oversize load")
	mustOp(second.Submit(dispatcher.ID), "submit request 2")
	mustOp(second.BeginReview(dispatcher.ID), "begin review request 2")
	mustOp(second.AssignOutcome(dispatcher.ID, models.OutcomeTypeContract, &workflow.AssignOutcomeInput{
		Contract: &models.NewContract{
			CompanyName:       "Golden Road Logistics",
			CostCurrency:      "MMK",
			CostAmount:        decimal.NewFromInt(850000),
			ContractReference: "GRL-2026-114",
		},
	}), "assign contract to request 2")

	// Request 3: declined outright.
	third := createRequest(ctx, &requester, truckType.ID, yard.ID, nil, windowStart.Add(72*time.Hour), "Weekend personal errand")
	mustOp(third.Submit(dispatcher.ID), "submit request 3")
	mustOp(third.AssignOutcome(dispatcher.ID, models.OutcomeTypeReject, &workflow.AssignOutcomeInput{
		Reject: &models.NewReject{
			Reason:            "Outside fleet usage policy",
			RejectionCategory: "policy",
			CanResubmit:       false,
		},
	}), "reject request 3")

	for _, demoCtx := range []*workflow.DispatchContext{first, second, third} {
		summary := demoCtx.GetSummary()
		fmt.Printf("request %d: %s (outcomes: %d)\n",
			summary.RequestId, summary.WorkflowStatus, summary.OutcomeHistoryCount)
	}
}

func createRequest(ctx context.Context, requester *models.User, assetTypeId int, locationId int, assetId *int, start time.Time, notes string) *workflow.DispatchContext {

	request, err := models.CreateDispatchRequest(ctx, &models.NewDispatchRequest{
		RequestedFor:      requester.ID,
		DesiredStart:      start,
		DesiredEnd:        start.Add(8 * time.Hour),
		AssetTypeId:       assetTypeId,
		AssetSubclassText: "flatbed",
		RequestedAssetId:  assetId,
		MajorLocationId:   locationId,
		DispatchScope:     "local",
		Notes:             notes,
	})
	if err != nil {
		fail("create request", err)
	}

	dispatchCtx, err := workflow.LoadDispatchContext(ctx, request.ID)
	if err != nil {
		fail("load dispatch context", err)
	}
	return dispatchCtx
}

func mustOp(err error, step string) {
	if err != nil {
		fail(step, err)
	}
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", step, err)
	os.Exit(1)
}
