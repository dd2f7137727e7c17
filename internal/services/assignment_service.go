package services

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	intconfig "rumboenvios/internal/config"
	"rumboenvios/internal/domain"
	"rumboenvios/internal/domain/models"
	"rumboenvios/internal/repositories"
	"rumboenvios/internal/utils"
)

// AssignmentService materializes one trip plus its deliveries from a
// multi-client selection. The single-delivery path is the same algorithm
// with a batch of one. Both writes run in one transaction, so a failed
// delivery insert never leaves an orphan trip behind; a batch where every
// client was skipped still commits the trip and says so.
type AssignmentService struct {
	DB          *sql.DB
	Directory   DirectoryService
	Trips       TripService
	Deliveries  DeliveryService
	CompanyRepo repositories.CompanyRepository
	RequestID   string
}

func (s AssignmentService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

type BatchAssignmentInput struct {
	CompanyID          int64
	ClientIDs          []int64
	DriverID           int64
	VehicleDescription string
	PlannedStart       time.Time
	PlannedEnd         *time.Time
	Notes              string
}

type SingleAssignmentInput struct {
	DriverID           int64
	VehicleDescription string
	DestinationAddress string
	PlannedStart       time.Time
	PlannedEnd         *time.Time
	Notes              string
}

// BatchResult reports the outcome attributed to the trip's display code.
// Skipped lists, by name, the clients left out for lacking an address.
type BatchResult struct {
	TripID     int64             `json:"trip_id"`
	TripCode   string            `json:"trip_code"`
	Created    int               `json:"created"`
	Skipped    []string          `json:"skipped,omitempty"`
	Deliveries []models.Delivery `json:"deliveries,omitempty"`
}

// AssignBatch validates everything before the first write, reads the
// company's clients once, then creates the trip and the delivery batch.
// Clients whose cached address is empty are skipped with a warning naming
// them; they never abort the batch.
func (s AssignmentService) AssignBatch(in BatchAssignmentInput, ownerID int64) (BatchResult, error) {
	if ownerID <= 0 {
		return BatchResult{}, domain.ValidationError{Field: "owner", Msg: "authenticated user required"}
	}
	if in.CompanyID <= 0 {
		return BatchResult{}, domain.ValidationError{Field: "company_id", Msg: "required"}
	}
	if in.DriverID <= 0 {
		return BatchResult{}, domain.ValidationError{Field: "driver_id", Msg: "required"}
	}
	if in.PlannedStart.IsZero() {
		return BatchResult{}, domain.ValidationError{Field: "planned_start", Msg: "required"}
	}
	if utils.TrimOrEmpty(in.VehicleDescription) == "" {
		return BatchResult{}, domain.ValidationError{Field: "vehicle_description", Msg: "required"}
	}
	if len(in.ClientIDs) == 0 {
		return BatchResult{}, domain.ValidationError{Field: "client_ids", Msg: "select at least one client"}
	}

	ok, err := s.CompanyRepo.Exists(s.db(), in.CompanyID)
	if err != nil {
		return BatchResult{}, domain.LookupError{Resource: "company", Err: err}
	}
	if !ok {
		return BatchResult{}, domain.NotFoundError{Resource: "company"}
	}

	// One directory read; the loop below works off this snapshot even if a
	// client row changes underneath it (last-read-wins).
	clients, err := s.Directory.ClientsByCompany(in.CompanyID)
	if err != nil {
		return BatchResult{}, err
	}
	byID := make(map[int64]models.Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}

	stubs := make([]deliveryStub, 0, len(in.ClientIDs))
	skipped := []string{}
	for _, clientID := range in.ClientIDs {
		client, found := byID[clientID]
		if !found {
			skipped = append(skipped, fmt.Sprintf("client #%d (not in company)", clientID))
			continue
		}
		if !client.HasAddress() {
			skipped = append(skipped, client.FullName)
			continue
		}
		stubs = append(stubs, deliveryStub{address: client.Address})
	}

	result, err := s.createTripWithDeliveries(tripSpec{
		DriverID:           in.DriverID,
		VehicleDescription: in.VehicleDescription,
		PlannedStart:       in.PlannedStart,
		PlannedEnd:         in.PlannedEnd,
		Notes:              in.Notes,
	}, stubs, ownerID)
	if err != nil {
		return BatchResult{}, err
	}
	result.Skipped = skipped

	utils.LogEvent(s.RequestID, "assignment", "batch",
		"trip="+result.TripCode+" created="+strconv.Itoa(result.Created)+" skipped="+strconv.Itoa(len(skipped)))
	return result, nil
}

// AssignSingle is the N=1 specialization: one trip, one delivery to an
// explicit destination. It shares createTripWithDeliveries with the batch
// path rather than duplicating the sequence.
func (s AssignmentService) AssignSingle(in SingleAssignmentInput, ownerID int64) (BatchResult, error) {
	if ownerID <= 0 {
		return BatchResult{}, domain.ValidationError{Field: "owner", Msg: "authenticated user required"}
	}
	if in.DriverID <= 0 {
		return BatchResult{}, domain.ValidationError{Field: "driver_id", Msg: "required"}
	}
	if in.PlannedStart.IsZero() {
		return BatchResult{}, domain.ValidationError{Field: "planned_start", Msg: "required"}
	}
	if utils.TrimOrEmpty(in.VehicleDescription) == "" {
		return BatchResult{}, domain.ValidationError{Field: "vehicle_description", Msg: "required"}
	}
	if utils.TrimOrEmpty(in.DestinationAddress) == "" {
		return BatchResult{}, domain.ValidationError{Field: "destination_address", Msg: "missing destination"}
	}

	result, err := s.createTripWithDeliveries(tripSpec{
		DriverID:           in.DriverID,
		VehicleDescription: in.VehicleDescription,
		PlannedStart:       in.PlannedStart,
		PlannedEnd:         in.PlannedEnd,
		Notes:              in.Notes,
	}, []deliveryStub{{address: in.DestinationAddress}}, ownerID)
	if err != nil {
		return BatchResult{}, err
	}

	utils.LogEvent(s.RequestID, "assignment", "single", "trip="+result.TripCode)
	return result, nil
}

type tripSpec struct {
	DriverID           int64
	VehicleDescription string
	PlannedStart       time.Time
	PlannedEnd         *time.Time
	Notes              string
}

type deliveryStub struct {
	address string
}

// createTripWithDeliveries is the shared write sequence: one transaction,
// trip first (its id anchors every delivery row), then the delivery batch.
// An empty batch commits the trip alone.
func (s AssignmentService) createTripWithDeliveries(spec tripSpec, stubs []deliveryStub, ownerID int64) (BatchResult, error) {
	conn := s.db()
	if conn == nil {
		return BatchResult{}, domain.InternalError{Msg: "database unavailable"}
	}

	tx, err := conn.Begin()
	if err != nil {
		return BatchResult{}, domain.InternalError{Msg: "transaction begin failed", Err: err}
	}
	defer tx.Rollback()

	trip, err := s.Trips.Create(tx, CreateTripInput{
		DriverID:           spec.DriverID,
		VehicleDescription: spec.VehicleDescription,
		PlannedStart:       spec.PlannedStart,
		PlannedEnd:         spec.PlannedEnd,
		Notes:              spec.Notes,
	}, ownerID)
	if err != nil {
		return BatchResult{}, err
	}

	rows := make([]models.Delivery, 0, len(stubs))
	for _, stub := range stubs {
		row, err := s.Deliveries.Build(CreateDeliveryInput{
			TripID:             trip.ID,
			DriverID:           spec.DriverID,
			VehicleDescription: spec.VehicleDescription,
			DestinationAddress: stub.address,
			StartAt:            spec.PlannedStart,
			EstimatedEnd:       spec.PlannedEnd,
			Notes:              spec.Notes,
		}, ownerID)
		if err != nil {
			return BatchResult{}, err
		}
		rows = append(rows, row)
	}

	saved := []models.Delivery{}
	if len(rows) > 0 {
		saved, err = s.Deliveries.InsertBatch(tx, rows)
		if err != nil {
			return BatchResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return BatchResult{}, domain.InternalError{Msg: "transaction commit failed", Err: err}
	}

	return BatchResult{
		TripID:     trip.ID,
		TripCode:   utils.FormatCode(trip.DisplayCode),
		Created:    len(saved),
		Deliveries: saved,
	}, nil
}
