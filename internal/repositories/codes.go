package repositories

import (
	"fmt"

	"rumboenvios/internal/db"
)

// Display codes are human-facing sequential identifiers, one sequence per
// entity type, assigned by the store and never computed by the application.
// The sequence lives in the display_codes counter table and is claimed with
// the MySQL LAST_INSERT_ID(expr) pattern so the claim is atomic per
// connection and transaction-safe.

// NextDisplayCode claims the next code for entity.
func NextDisplayCode(run db.Runner, entity string) (int64, error) {
	first, err := NextDisplayCodeRange(run, entity, 1)
	if err != nil {
		return 0, err
	}
	return first, nil
}

// NextDisplayCodeRange claims n consecutive codes for entity and returns the
// first of the range. Used by batch inserts so one claim covers the batch.
func NextDisplayCodeRange(run db.Runner, entity string, n int) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("code range size must be positive, got %d", n)
	}

	res, err := run.Exec(`UPDATE display_codes SET last_code = LAST_INSERT_ID(last_code + ?) WHERE entity = ?`, n, entity)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		// first claim ever for this entity type
		if _, err := run.Exec(`INSERT INTO display_codes (entity, last_code) VALUES (?, ?)`, entity, n); err != nil {
			return 0, err
		}
		return 1, nil
	}

	// LAST_INSERT_ID is session-scoped, so it must come out of the UPDATE's
	// own OK packet. A follow-up SELECT on a pooled *sql.DB can land on a
	// different connection and read another session's value.
	last, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return last - int64(n) + 1, nil
}
