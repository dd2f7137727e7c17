package services

import (
	"bytes"
	"testing"
	"time"
	"unicode/utf8"

	intconfig "rumboenvios/internal/config"
	"rumboenvios/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestGenerateTripManifestProducesPDF(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	detail := sqlmock.NewRows([]string{
		"id", "display_code", "driver_id", "vehicle_description",
		"planned_start", "planned_end", "actual_end", "status",
		"notes", "owner_id", "created_at", "updated_at",
		"driver_name", "company_name", "delivery_count",
	}).AddRow(10, 42, 4, "Kangoo", created, nil, nil, "Planned", "", 1, created, created, "Diego Diaz", "Acme", 1)

	deliveries := sqlmock.NewRows([]string{
		"id", "display_code", "trip_id", "start_at", "estimated_end",
		"actual_end", "driver_id", "vehicle_description",
		"destination_address", "notes", "status", "owner_id",
		"created_at", "updated_at", "driver_name",
	}).AddRow(5, 11, 10, created, nil, nil, 4, "Kangoo", "Calle 1", "", "Pending", 1, created, created, "Diego Diaz")

	mock.ExpectQuery("FROM trips t").WithArgs(int64(10)).
		WillReturnRows(detail)
	mock.ExpectQuery("FROM deliveries de").WithArgs(int64(10)).
		WillReturnRows(deliveries)

	svc := ManifestService{}
	pdf, filename, err := svc.GenerateTripManifest(10)
	if err != nil {
		t.Fatalf("GenerateTripManifest error: %v", err)
	}
	if filename != "trip-0042-manifest.pdf" {
		t.Fatalf("unexpected filename %s", filename)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("output does not look like a PDF")
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	long := "Avenida Alcorta 1234, Ñuñoa, Región Metropolitana ÁÉÍÓÚ"
	got := truncate(long, 20)
	if got != "Avenida Alcorta 1"+"..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got)
	}
	if short := "Ñuñoa"; truncate(short, 20) != short {
		t.Fatalf("short strings must pass through, got %q", truncate(short, 20))
	}
}

func TestGenerateTripManifestUnknownTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectQuery("FROM trips t").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	svc := ManifestService{}
	_, _, err = svc.GenerateTripManifest(99)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
