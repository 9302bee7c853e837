package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/fleet_backend/config"
	"bitbucket.org/mmdatafocus/fleet_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DispatchRequestEventType is the event_type stamped on every request's event.
const DispatchRequestEventType = "Dispatch"

// DispatchRequest is one ask for an asset to be made available.
//
// Intent fields (desired window, asset type/subclass, requested asset, major
// location) are locked once an outcome is assigned; RequestedBy/RequestedFor
// are locked from creation. Operational fields stay editable throughout.
// Mutations beyond creation go through workflow.DispatchContext.
type DispatchRequest struct {
	ID int `gorm:"primary_key" json:"id"`

	RequestedBy  *int `json:"requested_by"`
	RequestedFor int  `gorm:"not null" json:"requested_for"`

	DesiredStart      time.Time `gorm:"not null" json:"desired_start"`
	DesiredEnd        time.Time `gorm:"not null" json:"desired_end"`
	AssetTypeId       int       `gorm:"not null" json:"asset_type_id"`
	AssetSubclassText string    `gorm:"size:255;not null" json:"asset_subclass_text"`
	RequestedAssetId  *int      `json:"requested_asset_id"`
	MajorLocationId   int       `gorm:"not null" json:"major_location_id"`

	DispatchScope       string          `gorm:"size:50;not null" json:"dispatch_scope"`
	EstimatedMeterUsage decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"estimated_meter_usage"`
	ActivityLocation    string          `gorm:"size:255" json:"activity_location"`
	NumPeople           *int            `json:"num_people"`
	NamesFreeform       string          `gorm:"type:text" json:"names_freeform"`
	Notes               string          `gorm:"type:text" json:"notes"`

	SubmittedAt    *time.Time     `json:"submitted_at"`
	WorkflowStatus WorkflowStatus `gorm:"size:50;not null;default:Requested" json:"workflow_status"`
	// Legacy mirror of WorkflowStatus, kept for older readers.
	Status string `gorm:"size:50;not null;default:Requested" json:"status"`

	// Active outcome pointer: both nil or both set, and the referenced row
	// must be non-cancelled. workflow.ActiveOutcomePointerPolicy enforces this.
	ActiveOutcomeType  *OutcomeType `gorm:"size:50" json:"active_outcome_type"`
	ActiveOutcomeRowId *int         `json:"active_outcome_row_id"`
	// Legacy mirror of ActiveOutcomeType.
	ResolutionType *string `gorm:"size:50" json:"resolution_type"`

	EventId int `gorm:"index" json:"event_id"`

	// Set when this request replaces an earlier one whose intent was locked.
	PreviousRequestId *int `json:"previous_request_id"`

	CreatedById int       `gorm:"not null" json:"created_by_id"`
	UpdatedById int       `json:"updated_by_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasActiveOutcome reports whether the pointer names an outcome.
func (r *DispatchRequest) HasActiveOutcome() bool {
	return r.ActiveOutcomeType != nil
}

// CreateEvent creates the request's audit event inside the caller's
// transaction. No-op when the request already has one.
func (r *DispatchRequest) CreateEvent(tx *gorm.DB) error {
	if r.EventId > 0 {
		return nil
	}

	description := fmt.Sprintf("Dispatch request created for asset type %d", r.AssetTypeId)
	status := r.Status
	if status == "" {
		status = string(WorkflowStatusRequested)
	}

	var userId *int
	if r.CreatedById > 0 {
		id := r.CreatedById
		userId = &id
	}

	eventId, err := AddEvent(tx, DispatchRequestEventType, description, userId, r.RequestedAssetId, status)
	if err != nil {
		return err
	}
	r.EventId = eventId
	return nil
}

type NewDispatchRequest struct {
	RequestedBy  *int `json:"requested_by"`
	RequestedFor int  `json:"requested_for" validate:"required"`

	DesiredStart      time.Time `json:"desired_start" validate:"required"`
	DesiredEnd        time.Time `json:"desired_end" validate:"required"`
	AssetTypeId       int       `json:"asset_type_id" validate:"required"`
	AssetSubclassText string    `json:"asset_subclass_text" validate:"required"`
	RequestedAssetId  *int      `json:"requested_asset_id"`
	MajorLocationId   int       `json:"major_location_id" validate:"required"`

	DispatchScope       string          `json:"dispatch_scope" validate:"required"`
	EstimatedMeterUsage decimal.Decimal `json:"estimated_meter_usage"`
	ActivityLocation    string          `json:"activity_location"`
	NumPeople           *int            `json:"num_people"`
	NamesFreeform       string          `json:"names_freeform"`
	Notes               string          `json:"notes"`

	PreviousRequestId *int `json:"previous_request_id"`
}

func (input *NewDispatchRequest) validate(ctx context.Context) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if !input.DesiredEnd.After(input.DesiredStart) {
		return errors.New("desired end must be after desired start")
	}
	if err := utils.ValidateResourceId[User](ctx, input.RequestedFor); err != nil {
		return errors.New("requested for user not found")
	}
	if err := utils.ValidateResourceId[AssetType](ctx, input.AssetTypeId); err != nil {
		return errors.New("asset type not found")
	}
	if err := utils.ValidateResourceId[MajorLocation](ctx, input.MajorLocationId); err != nil {
		return errors.New("major location not found")
	}
	if input.RequestedAssetId != nil {
		if err := utils.ValidateResourceId[Asset](ctx, *input.RequestedAssetId); err != nil {
			return errors.New("requested asset not found")
		}
	}
	return nil
}

// CreateDispatchRequest creates a request and its audit event atomically.
// The request starts in the Requested workflow state.
func CreateDispatchRequest(ctx context.Context, input *NewDispatchRequest) (*DispatchRequest, error) {

	actorId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || actorId <= 0 {
		return nil, errors.New("user id is required")
	}

	var request *DispatchRequest
	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		request, err = CreateDispatchRequestInTx(ctx, tx, actorId, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// CreateDispatchRequestInTx creates a request and its event inside an
// existing transaction. Follow-up request creation composes this with
// cross-link narration in one commit.
func CreateDispatchRequestInTx(ctx context.Context, tx *gorm.DB, actorId int, input *NewDispatchRequest) (*DispatchRequest, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	requestedBy := input.RequestedBy
	if requestedBy == nil {
		id := actorId
		requestedBy = &id
	}

	request := DispatchRequest{
		RequestedBy:         requestedBy,
		RequestedFor:        input.RequestedFor,
		DesiredStart:        input.DesiredStart,
		DesiredEnd:          input.DesiredEnd,
		AssetTypeId:         input.AssetTypeId,
		AssetSubclassText:   input.AssetSubclassText,
		RequestedAssetId:    input.RequestedAssetId,
		MajorLocationId:     input.MajorLocationId,
		DispatchScope:       input.DispatchScope,
		EstimatedMeterUsage: input.EstimatedMeterUsage,
		ActivityLocation:    input.ActivityLocation,
		NumPeople:           input.NumPeople,
		NamesFreeform:       input.NamesFreeform,
		Notes:               input.Notes,
		WorkflowStatus:      WorkflowStatusRequested,
		Status:              string(WorkflowStatusRequested),
		PreviousRequestId:   input.PreviousRequestId,
		CreatedById:         actorId,
	}

	if err := tx.Create(&request).Error; err != nil {
		return nil, err
	}
	if err := request.CreateEvent(tx); err != nil {
		return nil, err
	}
	err := tx.Model(&DispatchRequest{}).Where("id = ?", request.ID).
		Update("event_id", request.EventId).Error
	if err != nil {
		return nil, err
	}
	_, err = AddComment(tx, request.EventId, actorId,
		fmt.Sprintf("Request created (ID: %d)", request.ID), false)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func GetDispatchRequest(ctx context.Context, id int) (*DispatchRequest, error) {
	return utils.FetchModel[DispatchRequest](ctx, id)
}

// GetDispatchRequests lists requests, optionally filtered by workflow status
// and requested-for user. Newest first.
func GetDispatchRequests(ctx context.Context, workflowStatus *WorkflowStatus, requestedFor *int) ([]*DispatchRequest, error) {

	db := config.GetDB()
	var results []*DispatchRequest

	dbCtx := db.WithContext(ctx)
	if workflowStatus != nil {
		dbCtx = dbCtx.Where("workflow_status = ?", *workflowStatus)
	}
	if requestedFor != nil && *requestedFor > 0 {
		dbCtx = dbCtx.Where("requested_for = ?", *requestedFor)
	}
	err := dbCtx.Order("created_at DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
