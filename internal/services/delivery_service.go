package services

import (
	"database/sql"
	"strconv"
	"time"

	"rumboenvios/internal/db"
	"rumboenvios/internal/domain"
	"rumboenvios/internal/domain/models"
	"rumboenvios/internal/repositories"
	"rumboenvios/internal/utils"
)

// DeliveryService owns the delivery entity. The destination guard lives
// here and nowhere else: a delivery without an address is never written,
// whatever path tried to build it.
type DeliveryService struct {
	DeliveryRepo repositories.DeliveryRepository
	TripRepo     repositories.TripRepository
	RequestID    string
	Now          func() time.Time
}

func (s DeliveryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

type CreateDeliveryInput struct {
	TripID             int64
	DriverID           int64
	VehicleDescription string
	DestinationAddress string
	StartAt            time.Time
	EstimatedEnd       *time.Time
	Notes              string
}

// Build validates the input and returns an unsaved Pending delivery row.
// The batch orchestrator builds one row per eligible client and then lands
// them all through InsertBatch.
func (s DeliveryService) Build(in CreateDeliveryInput, ownerID int64) (models.Delivery, error) {
	if ownerID <= 0 {
		return models.Delivery{}, domain.ValidationError{Field: "owner", Msg: "authenticated user required"}
	}
	if in.DriverID <= 0 {
		return models.Delivery{}, domain.ValidationError{Field: "driver_id", Msg: "required"}
	}
	if in.StartAt.IsZero() {
		return models.Delivery{}, domain.ValidationError{Field: "start_at", Msg: "required"}
	}
	if utils.TrimOrEmpty(in.DestinationAddress) == "" {
		return models.Delivery{}, domain.ValidationError{Field: "destination_address", Msg: "missing destination"}
	}

	return models.Delivery{
		TripID:             in.TripID,
		StartAt:            in.StartAt,
		EstimatedEnd:       in.EstimatedEnd,
		DriverID:           in.DriverID,
		VehicleDescription: utils.TrimOrEmpty(in.VehicleDescription),
		DestinationAddress: utils.TrimOrEmpty(in.DestinationAddress),
		Notes:              utils.TrimOrEmpty(in.Notes),
		Status:             models.DeliveryPending,
		OwnerID:            ownerID,
	}, nil
}

// InsertBatch lands prebuilt rows in one statement inside run. The trip
// back-reference, when set, must resolve inside the same run (the batch
// path creates the trip in the same transaction).
func (s DeliveryService) InsertBatch(run db.Runner, rows []models.Delivery) ([]models.Delivery, error) {
	for _, d := range rows {
		if d.TripID != 0 {
			ok, err := s.TripRepo.Exists(run, d.TripID)
			if err != nil {
				return nil, domain.InternalError{Msg: "trip check failed", Err: err}
			}
			if !ok {
				return nil, domain.ValidationError{Field: "trip_id", Msg: "trip " + strconv.FormatInt(d.TripID, 10) + " does not exist"}
			}
		}
	}

	saved, err := s.DeliveryRepo.InsertBatch(run, rows)
	if err != nil {
		return nil, domain.InternalError{Msg: "delivery batch insert failed", Err: err}
	}

	utils.LogEvent(s.RequestID, "delivery", "insert_batch", "count="+strconv.Itoa(len(saved)))
	return saved, nil
}

// Create is the standalone single-delivery write: Build plus a batch
// insert of one.
func (s DeliveryService) Create(run db.Runner, in CreateDeliveryInput, ownerID int64) (models.Delivery, error) {
	row, err := s.Build(in, ownerID)
	if err != nil {
		return models.Delivery{}, err
	}
	saved, err := s.InsertBatch(run, []models.Delivery{row})
	if err != nil {
		return models.Delivery{}, err
	}
	return saved[0], nil
}

// Transition applies one legal status change. Completed/Cancelled are
// terminal: further requests fail without touching status or the already
// stamped actual-end timestamp.
func (s DeliveryService) Transition(id int64, target models.DeliveryStatus) (models.Delivery, error) {
	if !target.Valid() {
		return models.Delivery{}, domain.ValidationError{Field: "status", Msg: "unknown delivery status " + string(target)}
	}

	delivery, err := s.DeliveryRepo.GetByID(id)
	if err == sql.ErrNoRows {
		return models.Delivery{}, domain.NotFoundError{Resource: "delivery"}
	}
	if err != nil {
		return models.Delivery{}, domain.InternalError{Msg: "delivery load failed", Err: err}
	}

	if delivery.Status.Terminal() {
		return models.Delivery{}, domain.TransitionError{Entity: "delivery", From: string(delivery.Status), To: string(target), Terminal: true}
	}
	if !delivery.Status.CanTransition(target) {
		return models.Delivery{}, domain.TransitionError{Entity: "delivery", From: string(delivery.Status), To: string(target)}
	}

	var actualEnd *time.Time
	if target.Terminal() {
		t := s.now()
		actualEnd = &t
	}

	if err := s.DeliveryRepo.UpdateStatus(id, target, actualEnd); err != nil {
		return models.Delivery{}, domain.InternalError{Msg: "delivery status update failed", Err: err}
	}

	utils.LogEvent(s.RequestID, "delivery", "transition", "delivery_id="+strconv.FormatInt(id, 10)+" from="+string(delivery.Status)+" to="+string(target))

	delivery.Status = target
	delivery.ActualEnd = actualEnd
	return delivery, nil
}
