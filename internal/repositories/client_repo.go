package repositories

import (
	"database/sql"

	intconfig "rumboenvios/internal/config"
	"rumboenvios/internal/db"
	"rumboenvios/internal/domain/models"
)

type ClientRepository struct {
	DB *sql.DB
}

func (r ClientRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const clientColumns = `
	id,
	display_code,
	COALESCE(full_name, ''),
	COALESCE(email, ''),
	COALESCE(phone, ''),
	COALESCE(address, ''),
	COALESCE(company_id, 0),
	status,
	owner_id,
	created_at,
	updated_at`

func scanClientRows(rows *sql.Rows) ([]models.Client, error) {
	out := []models.Client{}
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(
			&c.ID,
			&c.DisplayCode,
			&c.FullName,
			&c.Email,
			&c.Phone,
			&c.Address,
			&c.CompanyID,
			&c.Status,
			&c.OwnerID,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return out, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListByCompany returns the company's clients ordered by name, address included.
func (r ClientRepository) ListByCompany(companyID int64) ([]models.Client, error) {
	rows, err := r.db().Query(`SELECT`+clientColumns+` FROM clients WHERE company_id = ? ORDER BY full_name ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClientRows(rows)
}

func (r ClientRepository) List() ([]models.Client, error) {
	rows, err := r.db().Query(`SELECT` + clientColumns + ` FROM clients ORDER BY full_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClientRows(rows)
}

func (r ClientRepository) GetByID(id int64) (models.Client, error) {
	var c models.Client
	err := r.db().QueryRow(`SELECT`+clientColumns+` FROM clients WHERE id = ?`, id).Scan(
		&c.ID,
		&c.DisplayCode,
		&c.FullName,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.CompanyID,
		&c.Status,
		&c.OwnerID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (r ClientRepository) Insert(c models.Client) (models.Client, error) {
	code, err := NextDisplayCode(r.db(), "client")
	if err != nil {
		return models.Client{}, err
	}

	res, err := r.db().Exec(`
		INSERT INTO clients (display_code, full_name, email, phone, address, company_id, status, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NULLIF(?, 0), ?, ?, NOW(), NOW())
	`,
		code,
		c.FullName,
		db.NullIfEmpty(c.Email),
		db.NullIfEmpty(c.Phone),
		db.NullIfEmpty(c.Address),
		c.CompanyID,
		string(c.Status),
		c.OwnerID,
	)
	if err != nil {
		return models.Client{}, err
	}
	id, _ := res.LastInsertId()
	c.ID = id
	c.DisplayCode = code
	return c, nil
}

func (r ClientRepository) Update(c models.Client) error {
	_, err := r.db().Exec(`
		UPDATE clients
		SET full_name = ?, email = ?, phone = ?, address = ?, company_id = NULLIF(?, 0), status = ?, updated_at = NOW()
		WHERE id = ?
	`,
		c.FullName,
		db.NullIfEmpty(c.Email),
		db.NullIfEmpty(c.Phone),
		db.NullIfEmpty(c.Address),
		c.CompanyID,
		string(c.Status),
		c.ID,
	)
	return err
}

func (r ClientRepository) Delete(id int64) error {
	res, err := r.db().Exec(`DELETE FROM clients WHERE id = ?`, id)
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
