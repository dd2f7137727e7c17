package repositories

import (
	"database/sql"

	intconfig "rumboenvios/internal/config"
	"rumboenvios/internal/db"
	"rumboenvios/internal/domain/models"
)

type DriverRepository struct {
	DB *sql.DB
}

func (r DriverRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const driverColumns = `
	id,
	display_code,
	COALESCE(full_name, ''),
	COALESCE(phone, ''),
	COALESCE(email, ''),
	COALESCE(company_id, 0),
	status,
	owner_id,
	created_at,
	updated_at`

func scanDriverRows(rows *sql.Rows) ([]models.Driver, error) {
	out := []models.Driver{}
	for rows.Next() {
		var d models.Driver
		if err := rows.Scan(
			&d.ID,
			&d.DisplayCode,
			&d.FullName,
			&d.Phone,
			&d.Email,
			&d.CompanyID,
			&d.Status,
			&d.OwnerID,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return out, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListActive returns assignment candidates: drivers with status Active,
// ordered by name.
func (r DriverRepository) ListActive() ([]models.Driver, error) {
	rows, err := r.db().Query(`SELECT`+driverColumns+` FROM drivers WHERE status = ? ORDER BY full_name ASC`, string(models.DriverActive))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDriverRows(rows)
}

func (r DriverRepository) List() ([]models.Driver, error) {
	rows, err := r.db().Query(`SELECT` + driverColumns + ` FROM drivers ORDER BY full_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDriverRows(rows)
}

func (r DriverRepository) GetByID(id int64) (models.Driver, error) {
	var d models.Driver
	err := r.db().QueryRow(`SELECT`+driverColumns+` FROM drivers WHERE id = ?`, id).Scan(
		&d.ID,
		&d.DisplayCode,
		&d.FullName,
		&d.Phone,
		&d.Email,
		&d.CompanyID,
		&d.Status,
		&d.OwnerID,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

// Exists checks a driver id resolves to a row, without loading it.
func (r DriverRepository) Exists(run db.QueryRower, id int64) (bool, error) {
	var found int64
	err := run.QueryRow(`SELECT id FROM drivers WHERE id = ? LIMIT 1`, id).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r DriverRepository) Insert(d models.Driver) (models.Driver, error) {
	code, err := NextDisplayCode(r.db(), "driver")
	if err != nil {
		return models.Driver{}, err
	}

	res, err := r.db().Exec(`
		INSERT INTO drivers (display_code, full_name, phone, email, company_id, status, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, NULLIF(?, 0), ?, ?, NOW(), NOW())
	`,
		code,
		d.FullName,
		db.NullIfEmpty(d.Phone),
		db.NullIfEmpty(d.Email),
		d.CompanyID,
		string(d.Status),
		d.OwnerID,
	)
	if err != nil {
		return models.Driver{}, err
	}
	id, _ := res.LastInsertId()
	d.ID = id
	d.DisplayCode = code
	return d, nil
}

func (r DriverRepository) Update(d models.Driver) error {
	_, err := r.db().Exec(`
		UPDATE drivers
		SET full_name = ?, phone = ?, email = ?, company_id = NULLIF(?, 0), status = ?, updated_at = NOW()
		WHERE id = ?
	`,
		d.FullName,
		db.NullIfEmpty(d.Phone),
		db.NullIfEmpty(d.Email),
		d.CompanyID,
		string(d.Status),
		d.ID,
	)
	return err
}

func (r DriverRepository) Delete(id int64) error {
	res, err := r.db().Exec(`DELETE FROM drivers WHERE id = ?`, id)
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
