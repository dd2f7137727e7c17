package repositories

import (
	"database/sql"
	"strings"
	"time"

	intconfig "rumboenvios/internal/config"
	"rumboenvios/internal/db"
	"rumboenvios/internal/domain/models"
)

type DeliveryRepository struct {
	DB *sql.DB
}

func (r DeliveryRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const deliveryColumns = `
	id,
	display_code,
	COALESCE(trip_id, 0),
	start_at,
	estimated_end,
	actual_end,
	driver_id,
	COALESCE(vehicle_description, ''),
	COALESCE(destination_address, ''),
	COALESCE(notes, ''),
	status,
	owner_id,
	created_at,
	updated_at`

func scanDelivery(row *sql.Row) (models.Delivery, error) {
	var (
		d            models.Delivery
		estimatedEnd sql.NullTime
		actualEnd    sql.NullTime
	)
	err := row.Scan(
		&d.ID,
		&d.DisplayCode,
		&d.TripID,
		&d.StartAt,
		&estimatedEnd,
		&actualEnd,
		&d.DriverID,
		&d.VehicleDescription,
		&d.DestinationAddress,
		&d.Notes,
		&d.Status,
		&d.OwnerID,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return models.Delivery{}, err
	}
	if estimatedEnd.Valid {
		d.EstimatedEnd = &estimatedEnd.Time
	}
	if actualEnd.Valid {
		d.ActualEnd = &actualEnd.Time
	}
	return d, nil
}

// InsertBatch persists all rows in one multi-row statement inside run,
// claiming one consecutive display-code range for the whole batch.
// Rows either all land or none do. The returned slice carries the
// store-assigned ids and display codes.
func (r DeliveryRepository) InsertBatch(run db.Runner, rows []models.Delivery) ([]models.Delivery, error) {
	if len(rows) == 0 {
		return []models.Delivery{}, nil
	}

	firstCode, err := NextDisplayCodeRange(run, "delivery", len(rows))
	if err != nil {
		return nil, err
	}

	placeholders := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*10)
	for i, d := range rows {
		placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())")

		var estimatedEnd any
		if d.EstimatedEnd != nil {
			estimatedEnd = *d.EstimatedEnd
		}
		args = append(args,
			firstCode+int64(i),
			nullIfZero(d.TripID),
			d.StartAt,
			estimatedEnd,
			d.DriverID,
			d.VehicleDescription,
			d.DestinationAddress,
			db.NullIfEmpty(d.Notes),
			string(d.Status),
			d.OwnerID,
		)
	}

	res, err := run.Exec(`
		INSERT INTO deliveries (display_code, trip_id, start_at, estimated_end, driver_id, vehicle_description, destination_address, notes, status, owner_id, created_at, updated_at)
		VALUES `+strings.Join(placeholders, ", "),
		args...,
	)
	if err != nil {
		return nil, err
	}

	// LastInsertId is the first id of a multi-row insert; InnoDB assigns the
	// rest consecutively within the statement.
	firstID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := make([]models.Delivery, len(rows))
	for i, d := range rows {
		d.ID = firstID + int64(i)
		d.DisplayCode = firstCode + int64(i)
		out[i] = d
	}
	return out, nil
}

func (r DeliveryRepository) GetByID(id int64) (models.Delivery, error) {
	row := r.db().QueryRow(`SELECT`+deliveryColumns+` FROM deliveries WHERE id = ?`, id)
	return scanDelivery(row)
}

// UpdateStatus moves a delivery to status, stamping actual_end when given.
func (r DeliveryRepository) UpdateStatus(id int64, status models.DeliveryStatus, actualEnd *time.Time) error {
	var end any
	if actualEnd != nil {
		end = *actualEnd
	}
	res, err := r.db().Exec(`
		UPDATE deliveries
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

// DeliveryDetail is a delivery joined with its driver's name for reporting
// and cancellation screens.
type DeliveryDetail struct {
	models.Delivery
	DriverName string `json:"driver_name"`
}

// ListByTrip returns the trip's deliveries in display-code order. A trip
// with zero deliveries yields an empty, non-nil slice.
func (r DeliveryRepository) ListByTrip(tripID int64) ([]DeliveryDetail, error) {
	rows, err := r.db().Query(`
		SELECT
			de.id,
			de.display_code,
			COALESCE(de.trip_id, 0),
			de.start_at,
			de.estimated_end,
			de.actual_end,
			de.driver_id,
			COALESCE(de.vehicle_description, ''),
			COALESCE(de.destination_address, ''),
			COALESCE(de.notes, ''),
			de.status,
			de.owner_id,
			de.created_at,
			de.updated_at,
			COALESCE(dr.full_name, '')
		FROM deliveries de
		LEFT JOIN drivers dr ON dr.id = de.driver_id
		WHERE de.trip_id = ?
		ORDER BY de.display_code ASC
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DeliveryDetail{}
	for rows.Next() {
		var (
			d            DeliveryDetail
			estimatedEnd sql.NullTime
			actualEnd    sql.NullTime
		)
		if err := rows.Scan(
			&d.ID,
			&d.DisplayCode,
			&d.TripID,
			&d.StartAt,
			&estimatedEnd,
			&actualEnd,
			&d.DriverID,
			&d.VehicleDescription,
			&d.DestinationAddress,
			&d.Notes,
			&d.Status,
			&d.OwnerID,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.DriverName,
		); err != nil {
			return out, err
		}
		if estimatedEnd.Valid {
			d.EstimatedEnd = &estimatedEnd.Time
		}
		if actualEnd.Valid {
			d.ActualEnd = &actualEnd.Time
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// List returns every delivery joined with its driver's name, newest first,
// optionally narrowed to one status. Backs the cancellation screen.
func (r DeliveryRepository) List(status models.DeliveryStatus) ([]DeliveryDetail, error) {
	query := `
		SELECT
			de.id,
			de.display_code,
			COALESCE(de.trip_id, 0),
			de.start_at,
			de.estimated_end,
			de.actual_end,
			de.driver_id,
			COALESCE(de.vehicle_description, ''),
			COALESCE(de.destination_address, ''),
			COALESCE(de.notes, ''),
			de.status,
			de.owner_id,
			de.created_at,
			de.updated_at,
			COALESCE(dr.full_name, '')
		FROM deliveries de
		LEFT JOIN drivers dr ON dr.id = de.driver_id`
	args := []any{}
	if status != "" {
		query += `
		WHERE de.status = ?`
		args = append(args, string(status))
	}
	query += `
		ORDER BY de.start_at DESC, de.id DESC`

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DeliveryDetail{}
	for rows.Next() {
		var (
			d            DeliveryDetail
			estimatedEnd sql.NullTime
			actualEnd    sql.NullTime
		)
		if err := rows.Scan(
			&d.ID,
			&d.DisplayCode,
			&d.TripID,
			&d.StartAt,
			&estimatedEnd,
			&actualEnd,
			&d.DriverID,
			&d.VehicleDescription,
			&d.DestinationAddress,
			&d.Notes,
			&d.Status,
			&d.OwnerID,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.DriverName,
		); err != nil {
			return out, err
		}
		if estimatedEnd.Valid {
			d.EstimatedEnd = &estimatedEnd.Time
		}
		if actualEnd.Valid {
			d.ActualEnd = &actualEnd.Time
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListNonTerminalByTrip returns ids of the trip's deliveries still in a
// non-terminal state, for the explicit cancel-cascade rule.
func (r DeliveryRepository) ListNonTerminalByTrip(tripID int64) ([]int64, error) {
	rows, err := r.db().Query(`
		SELECT id FROM deliveries
		WHERE trip_id = ? AND status IN (?, ?)
		ORDER BY id ASC
	`, tripID, string(models.DeliveryPending), string(models.DeliveryInProgress))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return out, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func nullIfZero(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}
