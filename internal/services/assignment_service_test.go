package services

import (
	"testing"
	"time"

	intconfig "rumboenvios/internal/config"
	"rumboenvios/internal/domain"
	"rumboenvios/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newAssignmentService(t *testing.T) (AssignmentService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	intconfig.DB = db

	return AssignmentService{DB: db}, mock
}

func clientRow(rows *sqlmock.Rows, id int64, name, address string) *sqlmock.Rows {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return rows.AddRow(id, id, name, "", "", address, 7, "Active", 1, now, now)
}

func newClientRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "display_code", "full_name", "email", "phone", "address",
		"company_id", "status", "owner_id", "created_at", "updated_at",
	})
}

func TestAssignBatchSkipsClientsWithoutAddress(t *testing.T) {
	svc, mock := newAssignmentService(t)

	rows := newClientRows()
	clientRow(rows, 1, "Ana Alvarez", "Calle 1")
	clientRow(rows, 2, "Bruno Benitez", "  ")
	clientRow(rows, 3, "Carla Castro", "Calle 3")

	mock.ExpectQuery("SELECT id FROM companies").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("FROM clients").WithArgs(int64(7)).
		WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM drivers").WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectExec("UPDATE display_codes").WithArgs(1, "trip").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec("INSERT INTO trips").
		WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectQuery("SELECT id FROM trips").WithArgs(int64(41)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(41))
	mock.ExpectQuery("SELECT id FROM trips").WithArgs(int64(41)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(41))
	mock.ExpectExec("UPDATE display_codes").WithArgs(2, "delivery").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec("INSERT INTO deliveries").
		WillReturnResult(sqlmock.NewResult(100, 2))
	mock.ExpectCommit()

	result, err := svc.AssignBatch(BatchAssignmentInput{
		CompanyID:          7,
		ClientIDs:          []int64{1, 2, 3},
		DriverID:           4,
		VehicleDescription: "Kangoo blanca",
		PlannedStart:       time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
	}, 1)
	if err != nil {
		t.Fatalf("AssignBatch error: %v", err)
	}

	if result.Created != 2 {
		t.Fatalf("expected 2 deliveries created, got %d", result.Created)
	}
	if result.TripID != 41 {
		t.Fatalf("expected trip id 41, got %d", result.TripID)
	}
	if result.TripCode != "0009" {
		t.Fatalf("expected trip code 0009, got %s", result.TripCode)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "Bruno Benitez" {
		t.Fatalf("expected skip warning naming Bruno Benitez, got %v", result.Skipped)
	}
	if len(result.Deliveries) != 2 {
		t.Fatalf("expected 2 saved deliveries, got %d", len(result.Deliveries))
	}
	if result.Deliveries[0].ID != 100 || result.Deliveries[1].ID != 101 {
		t.Fatalf("expected consecutive ids 100,101, got %d,%d", result.Deliveries[0].ID, result.Deliveries[1].ID)
	}
	if result.Deliveries[0].DisplayCode != 11 || result.Deliveries[1].DisplayCode != 12 {
		t.Fatalf("expected display codes 11,12, got %d,%d", result.Deliveries[0].DisplayCode, result.Deliveries[1].DisplayCode)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignBatchUnknownClientIsWarnedNotFatal(t *testing.T) {
	svc, mock := newAssignmentService(t)

	rows := newClientRows()
	clientRow(rows, 1, "Ana Alvarez", "Calle 1")

	mock.ExpectQuery("SELECT id FROM companies").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("FROM clients").
		WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM drivers").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectExec("UPDATE display_codes").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO trips").
		WillReturnResult(sqlmock.NewResult(50, 1))
	mock.ExpectQuery("SELECT id FROM trips").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(50))
	mock.ExpectExec("UPDATE display_codes").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO deliveries").
		WillReturnResult(sqlmock.NewResult(60, 1))
	mock.ExpectCommit()

	result, err := svc.AssignBatch(BatchAssignmentInput{
		CompanyID:          7,
		ClientIDs:          []int64{1, 99},
		DriverID:           4,
		VehicleDescription: "Moto",
		PlannedStart:       time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
	}, 1)
	if err != nil {
		t.Fatalf("AssignBatch error: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("expected 1 delivery created, got %d", result.Created)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "client #99 (not in company)" {
		t.Fatalf("expected unknown-client warning, got %v", result.Skipped)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignBatchValidationFailsBeforeAnyWrite(t *testing.T) {
	svc, mock := newAssignmentService(t)

	_, err := svc.AssignBatch(BatchAssignmentInput{
		CompanyID:    7,
		ClientIDs:    []int64{1},
		DriverID:     0, // missing
		PlannedStart: time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
	}, 1)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// no queries, no transaction
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected zero database activity: %v", err)
	}
}

func TestAssignBatchAllClientsSkippedStillCommitsTrip(t *testing.T) {
	svc, mock := newAssignmentService(t)

	rows := newClientRows()
	clientRow(rows, 1, "Ana Alvarez", "")

	mock.ExpectQuery("SELECT id FROM companies").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("FROM clients").
		WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM drivers").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectExec("UPDATE display_codes").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("INSERT INTO trips").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	result, err := svc.AssignBatch(BatchAssignmentInput{
		CompanyID:          7,
		ClientIDs:          []int64{1},
		DriverID:           4,
		VehicleDescription: "Furgoneta",
		PlannedStart:       time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
	}, 1)
	if err != nil {
		t.Fatalf("AssignBatch error: %v", err)
	}
	if result.Created != 0 {
		t.Fatalf("expected zero deliveries, got %d", result.Created)
	}
	if result.TripID != 42 {
		t.Fatalf("expected trip committed with id 42, got %d", result.TripID)
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("expected 1 skip warning, got %v", result.Skipped)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignBatchRollsBackWhenDeliveryInsertFails(t *testing.T) {
	svc, mock := newAssignmentService(t)

	rows := newClientRows()
	clientRow(rows, 1, "Ana Alvarez", "Calle 1")

	mock.ExpectQuery("SELECT id FROM companies").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("FROM clients").
		WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM drivers").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectExec("UPDATE display_codes").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO trips").
		WillReturnResult(sqlmock.NewResult(43, 1))
	mock.ExpectQuery("SELECT id FROM trips").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(43))
	mock.ExpectExec("UPDATE display_codes").
		WillReturnResult(sqlmock.NewResult(6, 1))
	mock.ExpectExec("INSERT INTO deliveries").
		WillReturnError(sqlErrDeadlock{})
	mock.ExpectRollback()

	_, err := svc.AssignBatch(BatchAssignmentInput{
		CompanyID:          7,
		ClientIDs:          []int64{1},
		DriverID:           4,
		VehicleDescription: "Camioneta",
		PlannedStart:       time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
	}, 1)
	if !domain.IsInternal(err) {
		t.Fatalf("expected internal error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations (rollback missing?): %v", err)
	}
}

type sqlErrDeadlock struct{}

func (sqlErrDeadlock) Error() string { return "Error 1213: Deadlock found when trying to get lock" }

func TestAssignSingleSharesBatchPath(t *testing.T) {
	svc, mock := newAssignmentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM drivers").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectExec("UPDATE display_codes").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectExec("INSERT INTO trips").
		WillReturnResult(sqlmock.NewResult(44, 1))
	mock.ExpectQuery("SELECT id FROM trips").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(44))
	mock.ExpectExec("UPDATE display_codes").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO deliveries").
		WillReturnResult(sqlmock.NewResult(70, 1))
	mock.ExpectCommit()

	result, err := svc.AssignSingle(SingleAssignmentInput{
		DriverID:           4,
		VehicleDescription: "Bici",
		DestinationAddress: "Av. Siempreviva 742",
		PlannedStart:       time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
	}, 1)
	if err != nil {
		t.Fatalf("AssignSingle error: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("expected 1 delivery, got %d", result.Created)
	}
	if len(result.Skipped) != 0 {
		t.Fatalf("single path never skips, got %v", result.Skipped)
	}
	if result.Deliveries[0].DestinationAddress != "Av. Siempreviva 742" {
		t.Fatalf("unexpected destination %q", result.Deliveries[0].DestinationAddress)
	}
	if result.Deliveries[0].Status != models.DeliveryPending {
		t.Fatalf("expected Pending delivery, got %s", result.Deliveries[0].Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignSingleRequiresDestination(t *testing.T) {
	svc, mock := newAssignmentService(t)

	_, err := svc.AssignSingle(SingleAssignmentInput{
		DriverID:           4,
		VehicleDescription: "Bici",
		DestinationAddress: "   ",
		PlannedStart:       time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
	}, 1)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected zero database activity: %v", err)
	}
}

// The directory is read once before any write; delivery destinations come
// from that snapshot, so a concurrent address edit cannot leak into the
// batch mid-loop.
func TestAssignBatchUsesAddressesReadAtStart(t *testing.T) {
	svc, mock := newAssignmentService(t)

	rows := newClientRows()
	clientRow(rows, 1, "Ana Alvarez", "Calle Vieja 10")

	start := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id FROM companies").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	// the only clients read in the whole flow
	mock.ExpectQuery("FROM clients").
		WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM drivers").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectExec("UPDATE display_codes").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO trips").
		WillReturnResult(sqlmock.NewResult(45, 1))
	mock.ExpectQuery("SELECT id FROM trips").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(45))
	mock.ExpectExec("UPDATE display_codes").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO deliveries").
		WithArgs(
			int64(1),         // display_code
			int64(45),        // trip_id
			start,            // start_at
			nil,              // estimated_end
			int64(4),         // driver_id
			"Moto",           // vehicle_description
			"Calle Vieja 10", // destination from the snapshot
			nil,              // notes
			"Pending",        // status
			int64(1),         // owner_id
		).
		WillReturnResult(sqlmock.NewResult(80, 1))
	mock.ExpectCommit()

	result, err := svc.AssignBatch(BatchAssignmentInput{
		CompanyID:          7,
		ClientIDs:          []int64{1},
		DriverID:           4,
		VehicleDescription: "Moto",
		PlannedStart:       start,
	}, 1)
	if err != nil {
		t.Fatalf("AssignBatch error: %v", err)
	}
	if result.Deliveries[0].DestinationAddress != "Calle Vieja 10" {
		t.Fatalf("destination must come from the snapshot, got %q", result.Deliveries[0].DestinationAddress)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
