package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestNextDisplayCodeRangeClaimsConsecutiveBlock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE display_codes").WithArgs(3, "delivery").
		WillReturnResult(sqlmock.NewResult(15, 1))

	first, err := NextDisplayCodeRange(db, "delivery", 3)
	if err != nil {
		t.Fatalf("NextDisplayCodeRange error: %v", err)
	}
	if first != 13 {
		t.Fatalf("expected first code 13 for range ending at 15, got %d", first)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// The claimed code must come straight out of the UPDATE's result. A separate
// SELECT LAST_INSERT_ID() on a pooled *sql.DB can run on a different
// connection and read another session's value, handing out wrong or
// duplicate codes on the non-transactional create paths.
func TestNextDisplayCodeClaimComesFromUpdateResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// single round trip; any follow-up query would be an unmet expectation
	mock.ExpectExec("UPDATE display_codes").WithArgs(1, "trip").
		WillReturnResult(sqlmock.NewResult(42, 1))

	code, err := NextDisplayCode(db, "trip")
	if err != nil {
		t.Fatalf("NextDisplayCode error: %v", err)
	}
	if code != 42 {
		t.Fatalf("claimed display code %d, want 42 from the update result", code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("claim must not issue extra statements: %v", err)
	}
}

func TestNextDisplayCodeSeedsCounterOnFirstClaim(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE display_codes").WithArgs(1, "trip").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO display_codes").WithArgs("trip", 1).
		WillReturnResult(sqlmock.NewResult(1, 1))

	code, err := NextDisplayCode(db, "trip")
	if err != nil {
		t.Fatalf("NextDisplayCode error: %v", err)
	}
	if code != 1 {
		t.Fatalf("first claim must yield code 1, got %d", code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNextDisplayCodeRangeRejectsNonPositiveSize(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	if _, err := NextDisplayCodeRange(db, "trip", 0); err == nil {
		t.Fatal("expected error for zero-size range")
	}
}
