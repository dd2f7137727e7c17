package services

import (
	"testing"
	"time"

	intconfig "rumboenvios/internal/config"
	"rumboenvios/internal/domain"
	"rumboenvios/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newDeliveryService(t *testing.T, now time.Time) (DeliveryService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	intconfig.DB = db

	return DeliveryService{Now: func() time.Time { return now }}, mock
}

func deliveryRows(id int64, status models.DeliveryStatus) *sqlmock.Rows {
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "display_code", "trip_id", "start_at", "estimated_end",
		"actual_end", "driver_id", "vehicle_description",
		"destination_address", "notes", "status", "owner_id",
		"created_at", "updated_at",
	}).AddRow(id, id, 10, created, nil, nil, 4, "Moto", "Calle 1", "", string(status), 1, created, created)
}

func TestDeliveryBuildRejectsMissingDestination(t *testing.T) {
	svc, mock := newDeliveryService(t, time.Now())

	_, err := svc.Build(CreateDeliveryInput{
		DriverID:           4,
		StartAt:            time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
		DestinationAddress: "   ",
	}, 1)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("build must not touch the database: %v", err)
	}
}

func TestDeliveryCreateStandalone(t *testing.T) {
	svc, mock := newDeliveryService(t, time.Now())

	mock.ExpectQuery("SELECT id FROM trips").WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectExec("UPDATE display_codes").WithArgs(1, "delivery").
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectExec("INSERT INTO deliveries").
		WillReturnResult(sqlmock.NewResult(77, 1))

	saved, err := svc.Create(intconfig.DB, CreateDeliveryInput{
		TripID:             10,
		DriverID:           4,
		StartAt:            time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
		DestinationAddress: "Calle 1",
	}, 1)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if saved.ID != 77 || saved.DisplayCode != 21 {
		t.Fatalf("expected id 77 code 21, got %d/%d", saved.ID, saved.DisplayCode)
	}
	if saved.Status != models.DeliveryPending {
		t.Fatalf("new delivery must be Pending, got %s", saved.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeliveryInsertBatchRejectsUnknownTrip(t *testing.T) {
	svc, mock := newDeliveryService(t, time.Now())

	mock.ExpectQuery("SELECT id FROM trips").WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Create(intconfig.DB, CreateDeliveryInput{
		TripID:             99,
		DriverID:           4,
		StartAt:            time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
		DestinationAddress: "Calle 1",
	}, 1)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for dangling trip ref, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeliveryTransitionCompletedStampsActualEnd(t *testing.T) {
	now := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	svc, mock := newDeliveryService(t, now)

	mock.ExpectQuery("FROM deliveries WHERE id").WithArgs(int64(5)).
		WillReturnRows(deliveryRows(5, models.DeliveryInProgress))
	mock.ExpectExec("UPDATE deliveries").WithArgs("Completed", now, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	delivery, err := svc.Transition(5, models.DeliveryCompleted)
	if err != nil {
		t.Fatalf("Transition error: %v", err)
	}
	if delivery.ActualEnd == nil || !delivery.ActualEnd.Equal(now) {
		t.Fatalf("expected actual end %v, got %v", now, delivery.ActualEnd)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeliveryTransitionTerminalRejected(t *testing.T) {
	svc, mock := newDeliveryService(t, time.Now())

	mock.ExpectQuery("FROM deliveries WHERE id").
		WillReturnRows(deliveryRows(5, models.DeliveryCompleted))

	_, err := svc.Transition(5, models.DeliveryCancelled)
	if !domain.IsTransition(err) {
		t.Fatalf("expected transition error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("terminal delivery must not be mutated: %v", err)
	}
}

func TestDeliveryTransitionPendingToCompletedRejected(t *testing.T) {
	svc, mock := newDeliveryService(t, time.Now())

	mock.ExpectQuery("FROM deliveries WHERE id").
		WillReturnRows(deliveryRows(5, models.DeliveryPending))

	_, err := svc.Transition(5, models.DeliveryCompleted)
	if !domain.IsTransition(err) {
		t.Fatalf("expected transition error for Pending->Completed, got %v", err)
	}
}
