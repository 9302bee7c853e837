package models

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/fleet_backend/config"
	"bitbucket.org/mmdatafocus/fleet_backend/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens a per-test shared-cache memory database so every pooled
// connection sees the same schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:models_%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&User{}, &AssetType{}, &MajorLocation{}, &Asset{},
		&Event{}, &Comment{},
		&DispatchRequest{}, &StandardDispatch{}, &Contract{}, &Reimbursement{}, &Reject{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	config.SetDB(db)
	return db
}

type seedData struct {
	user     User
	truckType AssetType
	yard     MajorLocation
	truck    Asset
}

func seed(t *testing.T, db *gorm.DB) seedData {
	t.Helper()
	s := seedData{
		user:      User{Username: "dispatcher", Name: "Dispatcher", IsActive: utils.NewTrue()},
		truckType: AssetType{Name: "Truck"},
		yard:      MajorLocation{Name: "Yard"},
	}
	for _, record := range []interface{}{&s.user, &s.truckType, &s.yard} {
		if err := db.Create(record).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	s.truck = Asset{Name: "Truck 01", AssetTypeId: s.truckType.ID, MajorLocationId: s.yard.ID, IsActive: utils.NewTrue()}
	if err := db.Create(&s.truck).Error; err != nil {
		t.Fatalf("seed asset: %v", err)
	}
	return s
}

func TestCreateDispatchRequestCreatesEventAtomically(t *testing.T) {
	db := testDB(t)
	s := seed(t, db)
	ctx := utils.SetUserIdInContext(context.Background(), s.user.ID)

	start := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	request, err := CreateDispatchRequest(ctx, &NewDispatchRequest{
		RequestedFor:      s.user.ID,
		DesiredStart:      start,
		DesiredEnd:        start.Add(8 * time.Hour),
		AssetTypeId:       s.truckType.ID,
		AssetSubclassText: "flatbed",
		RequestedAssetId:  &s.truck.ID,
		MajorLocationId:   s.yard.ID,
		DispatchScope:     "local",
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	if request.WorkflowStatus != WorkflowStatusRequested || request.Status != "Requested" {
		t.Fatalf("unexpected initial status: %s / %s", request.WorkflowStatus, request.Status)
	}
	if request.EventId <= 0 {
		t.Fatal("request should own an event")
	}

	var event Event
	if err := db.First(&event, request.EventId).Error; err != nil {
		t.Fatalf("load event: %v", err)
	}
	if event.EventType != DispatchRequestEventType {
		t.Fatalf("unexpected event type: %s", event.EventType)
	}
	if event.AssetId == nil || *event.AssetId != s.truck.ID {
		t.Fatal("event should carry the requested asset")
	}
	if event.MajorLocationId == nil || *event.MajorLocationId != s.yard.ID {
		t.Fatal("event major location should come from the asset")
	}

	comments, err := GetEventComments(db, request.EventId)
	if err != nil {
		t.Fatalf("load comments: %v", err)
	}
	if len(comments) != 1 || comments[0].IsHumanMade {
		t.Fatalf("expected one machine comment on creation, got %d", len(comments))
	}
}

func TestCreateDispatchRequestValidation(t *testing.T) {
	db := testDB(t)
	s := seed(t, db)
	ctx := utils.SetUserIdInContext(context.Background(), s.user.ID)
	start := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

	// Window must be forward.
	_, err := CreateDispatchRequest(ctx, &NewDispatchRequest{
		RequestedFor:      s.user.ID,
		DesiredStart:      start,
		DesiredEnd:        start.Add(-time.Hour),
		AssetTypeId:       s.truckType.ID,
		AssetSubclassText: "flatbed",
		MajorLocationId:   s.yard.ID,
		DispatchScope:     "local",
	})
	if err == nil {
		t.Fatal("inverted window should be rejected")
	}

	// Foreign keys must resolve.
	_, err = CreateDispatchRequest(ctx, &NewDispatchRequest{
		RequestedFor:      9999,
		DesiredStart:      start,
		DesiredEnd:        start.Add(time.Hour),
		AssetTypeId:       s.truckType.ID,
		AssetSubclassText: "flatbed",
		MajorLocationId:   s.yard.ID,
		DispatchScope:     "local",
	})
	if err == nil {
		t.Fatal("unknown requested_for should be rejected")
	}

	// Actor is required.
	_, err = CreateDispatchRequest(context.Background(), &NewDispatchRequest{
		RequestedFor:      s.user.ID,
		DesiredStart:      start,
		DesiredEnd:        start.Add(time.Hour),
		AssetTypeId:       s.truckType.ID,
		AssetSubclassText: "flatbed",
		MajorLocationId:   s.yard.ID,
		DispatchScope:     "local",
	})
	if err == nil {
		t.Fatal("missing actor should be rejected")
	}
}

func TestGetDispatchRequestsFilters(t *testing.T) {
	db := testDB(t)
	s := seed(t, db)
	ctx := utils.SetUserIdInContext(context.Background(), s.user.ID)
	start := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := CreateDispatchRequest(ctx, &NewDispatchRequest{
			RequestedFor:      s.user.ID,
			DesiredStart:      start.Add(time.Duration(i) * 24 * time.Hour),
			DesiredEnd:        start.Add(time.Duration(i)*24*time.Hour + 8*time.Hour),
			AssetTypeId:       s.truckType.ID,
			AssetSubclassText: "flatbed",
			MajorLocationId:   s.yard.ID,
			DispatchScope:     "local",
		})
		if err != nil {
			t.Fatalf("create request %d: %v", i, err)
		}
	}

	all, err := GetDispatchRequests(ctx, nil, nil)
	if err != nil {
		t.Fatalf("list requests: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(all))
	}

	status := WorkflowStatusRequested
	requested, err := GetDispatchRequests(ctx, &status, &s.user.ID)
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(requested) != 3 {
		t.Fatalf("expected 3 Requested rows, got %d", len(requested))
	}

	resolved := WorkflowStatusResolved
	none, err := GetDispatchRequests(ctx, &resolved, nil)
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no Resolved rows, got %d", len(none))
	}
}

func TestAddEventBackfillsLocationFromAsset(t *testing.T) {
	db := testDB(t)
	s := seed(t, db)

	eventId, err := AddEvent(db, DispatchRequestEventType, "test event", &s.user.ID, &s.truck.ID, "Requested")
	if err != nil {
		t.Fatalf("add event: %v", err)
	}

	var event Event
	if err := db.First(&event, eventId).Error; err != nil {
		t.Fatalf("load event: %v", err)
	}
	if event.MajorLocationId == nil || *event.MajorLocationId != s.yard.ID {
		t.Fatal("event should inherit the asset's major location")
	}
}

func TestParseEnums(t *testing.T) {
	if _, err := ParseWorkflowStatus("Requested"); err != nil {
		t.Fatal("Requested should parse")
	}
	if _, err := ParseWorkflowStatus("Imagined"); err == nil {
		t.Fatal("unknown workflow status should fail")
	}
	if _, err := ParseOutcomeType("reimbursement"); err != nil {
		t.Fatal("reimbursement should parse")
	}
	if _, err := ParseOutcomeType("Dispatch"); err == nil {
		t.Fatal("outcome types are lower case")
	}
	if _, err := ParseResolutionStatus("In Progress"); err != nil {
		t.Fatal("In Progress should parse")
	}
}
