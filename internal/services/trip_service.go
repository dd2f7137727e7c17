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

// TripService owns the trip entity: creation in the Planned state and the
// legal status transitions. It never touches deliveries except through the
// explicit cancel-cascade rule.
type TripService struct {
	TripRepo     repositories.TripRepository
	DriverRepo   repositories.DriverRepository
	DeliveryRepo repositories.DeliveryRepository
	RequestID    string
	Now          func() time.Time
}

func (s TripService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

type CreateTripInput struct {
	DriverID           int64
	VehicleDescription string
	PlannedStart       time.Time
	PlannedEnd         *time.Time
	Notes              string
}

// Create persists a new trip in the Planned state with a fresh display
// code. run lets the caller decide whether it happens inside a larger
// transaction (the batch assignment does) or standalone.
func (s TripService) Create(run db.Runner, in CreateTripInput, ownerID int64) (models.Trip, error) {
	if ownerID <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "owner", Msg: "authenticated user required"}
	}
	if in.DriverID <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "driver_id", Msg: "required"}
	}
	if in.PlannedStart.IsZero() {
		return models.Trip{}, domain.ValidationError{Field: "planned_start", Msg: "required"}
	}

	ok, err := s.DriverRepo.Exists(run, in.DriverID)
	if err != nil {
		return models.Trip{}, domain.InternalError{Msg: "driver check failed", Err: err}
	}
	if !ok {
		return models.Trip{}, domain.NotFoundError{Resource: "driver"}
	}

	trip, err := s.TripRepo.Insert(run, models.Trip{
		DriverID:           in.DriverID,
		VehicleDescription: utils.TrimOrEmpty(in.VehicleDescription),
		PlannedStart:       in.PlannedStart,
		PlannedEnd:         in.PlannedEnd,
		Status:             models.TripPlanned,
		Notes:              utils.TrimOrEmpty(in.Notes),
		OwnerID:            ownerID,
	})
	if err != nil {
		return models.Trip{}, domain.InternalError{Msg: "trip insert failed", Err: err}
	}

	utils.LogEvent(s.RequestID, "trip", "create", "trip_id="+strconv.FormatInt(trip.ID, 10)+" code="+utils.FormatCode(trip.DisplayCode))
	return trip, nil
}

// Transition applies one legal status change. Terminal states reject any
// further request without mutating the record. Moving to Completed or
// Cancelled stamps the actual-end timestamp.
func (s TripService) Transition(id int64, target models.TripStatus) (models.Trip, error) {
	if !target.Valid() {
		return models.Trip{}, domain.ValidationError{Field: "status", Msg: "unknown trip status " + string(target)}
	}

	trip, err := s.TripRepo.GetByID(id)
	if err == sql.ErrNoRows {
		return models.Trip{}, domain.NotFoundError{Resource: "trip"}
	}
	if err != nil {
		return models.Trip{}, domain.InternalError{Msg: "trip load failed", Err: err}
	}

	if trip.Status.Terminal() {
		return models.Trip{}, domain.TransitionError{Entity: "trip", From: string(trip.Status), To: string(target), Terminal: true}
	}
	if !trip.Status.CanTransition(target) {
		return models.Trip{}, domain.TransitionError{Entity: "trip", From: string(trip.Status), To: string(target)}
	}

	var actualEnd *time.Time
	if target.Terminal() {
		t := s.now()
		actualEnd = &t
	}

	if err := s.TripRepo.UpdateStatus(id, target, actualEnd); err != nil {
		return models.Trip{}, domain.InternalError{Msg: "trip status update failed", Err: err}
	}

	utils.LogEvent(s.RequestID, "trip", "transition", "trip_id="+strconv.FormatInt(id, 10)+" from="+string(trip.Status)+" to="+string(target))

	trip.Status = target
	trip.ActualEnd = actualEnd
	return trip, nil
}

// CancelWithDeliveries is the explicit cascade rule: cancel the trip, then
// cancel every attached delivery still in a non-terminal state, all stamped
// with the same cancellation time. Plain Transition never cascades.
func (s TripService) CancelWithDeliveries(id int64) (models.Trip, []int64, error) {
	trip, err := s.Transition(id, models.TripCancelled)
	if err != nil {
		return models.Trip{}, nil, err
	}

	pending, err := s.DeliveryRepo.ListNonTerminalByTrip(id)
	if err != nil {
		return trip, nil, domain.InternalError{Msg: "delivery scan failed after trip cancel", Err: err}
	}

	when := trip.ActualEnd
	cancelled := make([]int64, 0, len(pending))
	for _, deliveryID := range pending {
		if err := s.DeliveryRepo.UpdateStatus(deliveryID, models.DeliveryCancelled, when); err != nil {
			return trip, cancelled, domain.InternalError{Msg: "delivery cancel failed", Err: err}
		}
		cancelled = append(cancelled, deliveryID)
	}

	utils.LogEvent(s.RequestID, "trip", "cancel_cascade", "trip_id="+strconv.FormatInt(id, 10)+" deliveries="+strconv.Itoa(len(cancelled)))
	return trip, cancelled, nil
}
