package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	intconfig "rumboenvios/internal/config"
	"rumboenvios/internal/domain/models"
	"rumboenvios/internal/http/middleware"
	"rumboenvios/internal/repositories"
	"rumboenvios/internal/services"
	"rumboenvios/internal/utils"

	"github.com/gin-gonic/gin"
)

type tripRequest struct {
	DriverID           int64  `json:"driver_id"`
	VehicleDescription string `json:"vehicle_description"`
	StartDate          string `json:"start_date"`
	StartTime          string `json:"start_time"`
	EndDate            string `json:"end_date"`
	EndTime            string `json:"end_time"`
	Notes              string `json:"notes"`
}

// parseSchedule turns the form's date/clock pairs into a start instant and
// an optional end. End fields may be left blank together.
func parseSchedule(startDate, startTime, endDate, endTime string) (time.Time, *time.Time, error) {
	start, err := utils.CombineDateTime(startDate, startTime)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid start: %w", err)
	}
	if endDate == "" && endTime == "" {
		return start, nil, nil
	}
	end, err := utils.CombineDateTime(endDate, endTime)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid end: %w", err)
	}
	return start, &end, nil
}

// GET /api/trips
// ?status= narrows the list to one lifecycle state.
func GetTrips(c *gin.Context) {
	status := models.TripStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		RespondError(c, http.StatusBadRequest, "unknown status", nil)
		return
	}

	repo := repositories.TripRepository{}
	trips, err := repo.ListWithCounts(status)
	if err != nil {
		log.Println("GetTrips query error:", err)
		RespondError(c, http.StatusInternalServerError, "could not load trips", err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GET /api/trips/:id
// Detail view: the trip row plus every delivery attached to it.
func GetTrip(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}

	tripRepo := repositories.TripRepository{}
	trip, err := tripRepo.DetailByID(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "trip not found", nil)
		return
	}
	if err != nil {
		log.Println("GetTrip query error:", err)
		RespondError(c, http.StatusInternalServerError, "could not load trip", err)
		return
	}

	deliveryRepo := repositories.DeliveryRepository{}
	deliveries, err := deliveryRepo.ListByTrip(id)
	if err != nil {
		log.Println("GetTrip deliveries query error:", err)
		RespondError(c, http.StatusInternalServerError, "could not load trip deliveries", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trip":       trip,
		"deliveries": deliveries,
	})
}

// POST /api/trips
func CreateTrip(c *gin.Context) {
	var req tripRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	start, end, err := parseSchedule(req.StartDate, req.StartTime, req.EndDate, req.EndTime)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	svc := services.TripService{RequestID: middleware.GetRequestID(c)}
	trip, err := svc.Create(intconfig.DB, services.CreateTripInput{
		DriverID:           req.DriverID,
		VehicleDescription: req.VehicleDescription,
		PlannedStart:       start,
		PlannedEnd:         end,
		Notes:              req.Notes,
	}, middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

type statusRequest struct {
	Status string `json:"status"`
}

// PATCH /api/trips/:id/status
// Cancelling with ?cascade=true also cancels the trip's pending and
// in-progress deliveries; by default deliveries are left alone.
func UpdateTripStatus(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	target := models.TripStatus(req.Status)
	svc := services.TripService{RequestID: middleware.GetRequestID(c)}

	if target == models.TripCancelled && c.Query("cascade") == "true" {
		trip, cancelled, err := svc.CancelWithDeliveries(id)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"trip":                 trip,
			"cancelled_deliveries": cancelled,
		})
		return
	}

	trip, err := svc.Transition(id, target)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// GET /api/trips/:id/manifest
func GetTripManifest(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}

	svc := services.ManifestService{RequestID: middleware.GetRequestID(c)}
	pdf, filename, err := svc.GenerateTripManifest(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
