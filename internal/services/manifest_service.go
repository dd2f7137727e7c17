package services

import (
	"bytes"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"rumboenvios/internal/domain"
	"rumboenvios/internal/repositories"
	"rumboenvios/internal/utils"
)

// ManifestService renders the printable trip manifest: the trip header
// joined with driver/company identity plus every attached delivery.
type ManifestService struct {
	TripRepo     repositories.TripRepository
	DeliveryRepo repositories.DeliveryRepository
	RequestID    string
}

// GenerateTripManifest returns the PDF bytes and a suggested filename.
func (s ManifestService) GenerateTripManifest(tripID int64) ([]byte, string, error) {
	trip, err := s.TripRepo.DetailByID(tripID)
	if err == sql.ErrNoRows {
		return nil, "", domain.NotFoundError{Resource: "trip"}
	}
	if err != nil {
		return nil, "", domain.InternalError{Msg: "trip load failed", Err: err}
	}

	deliveries, err := s.DeliveryRepo.ListByTrip(tripID)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "deliveries load failed", Err: err}
	}

	utils.LogEvent(s.RequestID, "manifest", "generate", fmt.Sprintf("trip_id=%d deliveries=%d", tripID, len(deliveries)))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Trip Manifest", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, fmt.Sprintf("Trip #%s", utils.FormatCode(trip.DisplayCode)))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	header := []string{
		fmt.Sprintf("Status          : %s", trip.Status),
		fmt.Sprintf("Driver          : %s", safe(trip.DriverName, "-")),
		fmt.Sprintf("Driver Company  : %s", safe(trip.CompanyName, "-")),
		fmt.Sprintf("Vehicle         : %s", safe(trip.VehicleDescription, "-")),
		fmt.Sprintf("Planned Start   : %s", formatStamp(&trip.PlannedStart)),
		fmt.Sprintf("Planned End     : %s", formatStamp(trip.PlannedEnd)),
		fmt.Sprintf("Notes           : %s", safe(trip.Notes, "-")),
		fmt.Sprintf("Deliveries      : %d", trip.DeliveryCount),
	}
	for _, line := range header {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	if len(deliveries) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Deliveries")
		pdf.Ln(10)

		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(20, 7, "Code", "1", 0, "", false, 0, "")
		pdf.CellFormat(80, 7, "Destination", "1", 0, "", false, 0, "")
		pdf.CellFormat(28, 7, "Status", "1", 0, "", false, 0, "")
		pdf.CellFormat(34, 7, "Start", "1", 1, "", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		for _, d := range deliveries {
			pdf.CellFormat(20, 7, utils.FormatCode(d.DisplayCode), "1", 0, "", false, 0, "")
			pdf.CellFormat(80, 7, truncate(d.DestinationAddress, 48), "1", 0, "", false, 0, "")
			pdf.CellFormat(28, 7, string(d.Status), "1", 0, "", false, 0, "")
			pdf.CellFormat(34, 7, d.StartAt.Format("2006-01-02 15:04"), "1", 1, "", false, 0, "")
		}
	} else {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, "No deliveries attached to this trip.", "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "manifest render failed", Err: err}
	}

	filename := fmt.Sprintf("trip-%s-manifest.pdf", utils.FormatCode(trip.DisplayCode))
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// truncate shortens to max runes; byte slicing would split multi-byte
// characters in accented addresses.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func formatStamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return utils.FormatDateTime(*t)
}
