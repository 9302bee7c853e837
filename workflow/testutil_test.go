package workflow

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/fleet_backend/config"
	"bitbucket.org/mmdatafocus/fleet_backend/models"
	"bitbucket.org/mmdatafocus/fleet_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB creates an in-memory SQLite database with the full schema and
// installs it as the package database handle. The DSN is named per test and
// uses a shared cache so every pooled connection sees the same database.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.AssetType{},
		&models.MajorLocation{},
		&models.Asset{},
		&models.Event{},
		&models.Comment{},
		&models.DispatchRequest{},
		&models.StandardDispatch{},
		&models.Contract{},
		&models.Reimbursement{},
		&models.Reject{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	config.SetDB(db)
	return db
}

type fixture struct {
	db         *gorm.DB
	ctx        context.Context
	dispatcher models.User
	requester  models.User
	truckType  models.AssetType
	yard       models.MajorLocation
	truck      models.Asset
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{db: testDB(t)}

	f.dispatcher = models.User{Username: "dispatcher", Name: "Dispatcher", IsActive: utils.NewTrue()}
	f.requester = models.User{Username: "requester", Name: "Requester", IsActive: utils.NewTrue()}
	for _, user := range []*models.User{&f.dispatcher, &f.requester} {
		if err := f.db.Create(user).Error; err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	f.truckType = models.AssetType{Name: "Truck"}
	if err := f.db.Create(&f.truckType).Error; err != nil {
		t.Fatalf("create asset type: %v", err)
	}
	f.yard = models.MajorLocation{Name: "Yard"}
	if err := f.db.Create(&f.yard).Error; err != nil {
		t.Fatalf("create location: %v", err)
	}
	f.truck = models.Asset{
		Name:            "Truck 01",
		AssetTypeId:     f.truckType.ID,
		MajorLocationId: f.yard.ID,
		IsActive:        utils.NewTrue(),
	}
	if err := f.db.Create(&f.truck).Error; err != nil {
		t.Fatalf("create asset: %v", err)
	}

	f.ctx = utils.SetUserIdInContext(context.Background(), f.dispatcher.ID)
	return f
}

var testWindowStart = time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

func (f *fixture) newRequest(t *testing.T, assetId *int) *DispatchContext {
	t.Helper()
	request, err := models.CreateDispatchRequest(f.ctx, &models.NewDispatchRequest{
		RequestedFor:      f.requester.ID,
		DesiredStart:      testWindowStart,
		DesiredEnd:        testWindowStart.Add(8 * time.Hour),
		AssetTypeId:       f.truckType.ID,
		AssetSubclassText: "flatbed",
		RequestedAssetId:  assetId,
		MajorLocationId:   f.yard.ID,
		DispatchScope:     "local",
		Notes:             "test request",
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	dispatchCtx, err := LoadDispatchContext(f.ctx, request.ID)
	if err != nil {
		t.Fatalf("load dispatch context: %v", err)
	}
	return dispatchCtx
}

func dispatchInput(start time.Time, end time.Time, assetId *int, status models.ResolutionStatus) *AssignOutcomeInput {
	return &AssignOutcomeInput{
		Dispatch: &models.NewStandardDispatch{
			ScheduledStart:    start,
			ScheduledEnd:      end,
			AssetDispatchedId: assetId,
			Status:            status,
		},
	}
}

func rejectInput(reason string) *AssignOutcomeInput {
	return &AssignOutcomeInput{Reject: &models.NewReject{Reason: reason}}
}

func contractInput() *AssignOutcomeInput {
	return &AssignOutcomeInput{Contract: &models.NewContract{
		CompanyName:  "Golden Road Logistics",
		CostCurrency: "MMK",
	}}
}

func reimbursementInput() *AssignOutcomeInput {
	return &AssignOutcomeInput{Reimbursement: &models.NewReimbursement{
		FromAccount: "fleet-ops",
		ToAccount:   "employee-7",
		Amount:      decimal.NewFromInt(45000),
		Reason:      "used own vehicle",
	}}
}
