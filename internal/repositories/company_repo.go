package repositories

import (
	"database/sql"

	intconfig "rumboenvios/internal/config"
	"rumboenvios/internal/db"
	"rumboenvios/internal/domain/models"
)

type CompanyRepository struct {
	DB *sql.DB
}

func (r CompanyRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const companyColumns = `
	id,
	display_code,
	COALESCE(name, ''),
	COALESCE(industry, ''),
	COALESCE(contact_email, ''),
	status,
	COALESCE(address, ''),
	owner_id,
	created_at,
	updated_at`

func (r CompanyRepository) List() ([]models.Company, error) {
	rows, err := r.db().Query(`SELECT` + companyColumns + ` FROM companies ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Company{}
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(
			&c.ID,
			&c.DisplayCode,
			&c.Name,
			&c.Industry,
			&c.ContactEmail,
			&c.Status,
			&c.Address,
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

func (r CompanyRepository) GetByID(id int64) (models.Company, error) {
	var c models.Company
	err := r.db().QueryRow(`SELECT`+companyColumns+` FROM companies WHERE id = ?`, id).Scan(
		&c.ID,
		&c.DisplayCode,
		&c.Name,
		&c.Industry,
		&c.ContactEmail,
		&c.Status,
		&c.Address,
		&c.OwnerID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

// Exists checks a company id resolves to a row, without loading it.
func (r CompanyRepository) Exists(run db.QueryRower, id int64) (bool, error) {
	var found int64
	err := run.QueryRow(`SELECT id FROM companies WHERE id = ? LIMIT 1`, id).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r CompanyRepository) Insert(c models.Company) (models.Company, error) {
	code, err := NextDisplayCode(r.db(), "company")
	if err != nil {
		return models.Company{}, err
	}

	res, err := r.db().Exec(`
		INSERT INTO companies (display_code, name, industry, contact_email, status, address, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`,
		code,
		c.Name,
		db.NullIfEmpty(string(c.Industry)),
		db.NullIfEmpty(c.ContactEmail),
		string(c.Status),
		db.NullIfEmpty(c.Address),
		c.OwnerID,
	)
	if err != nil {
		return models.Company{}, err
	}
	id, _ := res.LastInsertId()
	c.ID = id
	c.DisplayCode = code
	return c, nil
}

func (r CompanyRepository) Update(c models.Company) error {
	_, err := r.db().Exec(`
		UPDATE companies
		SET name = ?, industry = ?, contact_email = ?, status = ?, address = ?, updated_at = NOW()
		WHERE id = ?
	`,
		c.Name,
		db.NullIfEmpty(string(c.Industry)),
		db.NullIfEmpty(c.ContactEmail),
		string(c.Status),
		db.NullIfEmpty(c.Address),
		c.ID,
	)
	return err
}

func (r CompanyRepository) Delete(id int64) error {
	res, err := r.db().Exec(`DELETE FROM companies WHERE id = ?`, id)
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
