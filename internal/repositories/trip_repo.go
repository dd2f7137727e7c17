package repositories

import (
	"database/sql"
	"time"

	intconfig "rumboenvios/internal/config"
	"rumboenvios/internal/db"
	"rumboenvios/internal/domain/models"
)

type TripRepository struct {
	DB *sql.DB
}

func (r TripRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const tripColumns = `
	id,
	display_code,
	driver_id,
	COALESCE(vehicle_description, ''),
	planned_start,
	planned_end,
	actual_end,
	status,
	COALESCE(notes, ''),
	owner_id,
	created_at,
	updated_at`

func scanTrip(row *sql.Row) (models.Trip, error) {
	var (
		t          models.Trip
		plannedEnd sql.NullTime
		actualEnd  sql.NullTime
	)
	err := row.Scan(
		&t.ID,
		&t.DisplayCode,
		&t.DriverID,
		&t.VehicleDescription,
		&t.PlannedStart,
		&plannedEnd,
		&actualEnd,
		&t.Status,
		&t.Notes,
		&t.OwnerID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return models.Trip{}, err
	}
	if plannedEnd.Valid {
		t.PlannedEnd = &plannedEnd.Time
	}
	if actualEnd.Valid {
		t.ActualEnd = &actualEnd.Time
	}
	return t, nil
}

// Insert persists a new trip inside run (a *sql.Tx during batch assignment)
// and returns it with the store-assigned id and display code.
func (r TripRepository) Insert(run db.Runner, t models.Trip) (models.Trip, error) {
	code, err := NextDisplayCode(run, "trip")
	if err != nil {
		return models.Trip{}, err
	}

	var plannedEnd any
	if t.PlannedEnd != nil {
		plannedEnd = *t.PlannedEnd
	}

	res, err := run.Exec(`
		INSERT INTO trips (display_code, driver_id, vehicle_description, planned_start, planned_end, status, notes, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`,
		code,
		t.DriverID,
		t.VehicleDescription,
		t.PlannedStart,
		plannedEnd,
		string(t.Status),
		db.NullIfEmpty(t.Notes),
		t.OwnerID,
	)
	if err != nil {
		return models.Trip{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Trip{}, err
	}
	t.ID = id
	t.DisplayCode = code
	return t, nil
}

// Exists checks a trip id resolves to a row, inside run when mid-transaction.
func (r TripRepository) Exists(run db.QueryRower, id int64) (bool, error) {
	var found int64
	err := run.QueryRow(`SELECT id FROM trips WHERE id = ? LIMIT 1`, id).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r TripRepository) GetByID(id int64) (models.Trip, error) {
	row := r.db().QueryRow(`SELECT`+tripColumns+` FROM trips WHERE id = ?`, id)
	return scanTrip(row)
}

// UpdateStatus moves a trip to status, stamping actual_end when given.
func (r TripRepository) UpdateStatus(id int64, status models.TripStatus, actualEnd *time.Time) error {
	var end any
	if actualEnd != nil {
		end = *actualEnd
	}
	res, err := r.db().Exec(`
		UPDATE trips
		SET status = ?, actual_end = COALESCE(?, actual_end), updated_at = NOW()
		WHERE id = ?
	`, string(status), end, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// TripSummary is one row of the trip listing: the trip joined with driver
// and company identity plus the count of attached deliveries.
type TripSummary struct {
	models.Trip
	DriverName    string `json:"driver_name"`
	CompanyName   string `json:"company_name"`
	DeliveryCount int64  `json:"delivery_count"`
}

// ListWithCounts returns all trips (optionally filtered by status) with the
// per-trip delivery count. Trips with zero deliveries report zero.
func (r TripRepository) ListWithCounts(status models.TripStatus) ([]TripSummary, error) {
	query := `
		SELECT
			t.id,
			t.display_code,
			t.driver_id,
			COALESCE(t.vehicle_description, ''),
			t.planned_start,
			t.planned_end,
			t.actual_end,
			t.status,
			COALESCE(t.notes, ''),
			t.owner_id,
			t.created_at,
			t.updated_at,
			COALESCE(dr.full_name, ''),
			COALESCE(co.name, ''),
			COUNT(de.id)
		FROM trips t
		LEFT JOIN drivers dr ON dr.id = t.driver_id
		LEFT JOIN companies co ON co.id = dr.company_id
		LEFT JOIN deliveries de ON de.trip_id = t.id`
	args := []any{}
	if status != "" {
		query += ` WHERE t.status = ?`
		args = append(args, string(status))
	}
	query += `
		GROUP BY t.id
		ORDER BY t.planned_start DESC, t.id DESC`

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TripSummary{}
	for rows.Next() {
		var (
			s          TripSummary
			plannedEnd sql.NullTime
			actualEnd  sql.NullTime
		)
		if err := rows.Scan(
			&s.ID,
			&s.DisplayCode,
			&s.DriverID,
			&s.VehicleDescription,
			&s.PlannedStart,
			&plannedEnd,
			&actualEnd,
			&s.Status,
			&s.Notes,
			&s.OwnerID,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.DriverName,
			&s.CompanyName,
			&s.DeliveryCount,
		); err != nil {
			return out, err
		}
		if plannedEnd.Valid {
			s.PlannedEnd = &plannedEnd.Time
		}
		if actualEnd.Valid {
			s.ActualEnd = &actualEnd.Time
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DetailByID returns one trip joined with driver and company identity.
func (r TripRepository) DetailByID(id int64) (TripSummary, error) {
	row := r.db().QueryRow(`
		SELECT
			t.id,
			t.display_code,
			t.driver_id,
			COALESCE(t.vehicle_description, ''),
			t.planned_start,
			t.planned_end,
			t.actual_end,
			t.status,
			COALESCE(t.notes, ''),
			t.owner_id,
			t.created_at,
			t.updated_at,
			COALESCE(dr.full_name, ''),
			COALESCE(co.name, ''),
			(SELECT COUNT(*) FROM deliveries de WHERE de.trip_id = t.id)
		FROM trips t
		LEFT JOIN drivers dr ON dr.id = t.driver_id
		LEFT JOIN companies co ON co.id = dr.company_id
		WHERE t.id = ?
	`, id)

	var (
		s          TripSummary
		plannedEnd sql.NullTime
		actualEnd  sql.NullTime
	)
	err := row.Scan(
		&s.ID,
		&s.DisplayCode,
		&s.DriverID,
		&s.VehicleDescription,
		&s.PlannedStart,
		&plannedEnd,
		&actualEnd,
		&s.Status,
		&s.Notes,
		&s.OwnerID,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.DriverName,
		&s.CompanyName,
		&s.DeliveryCount,
	)
	if err != nil {
		return TripSummary{}, err
	}
	if plannedEnd.Valid {
		s.PlannedEnd = &plannedEnd.Time
	}
	if actualEnd.Valid {
		s.ActualEnd = &actualEnd.Time
	}
	return s, nil
}
