package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"rumboenvios/internal/domain/models"
	"rumboenvios/internal/http/middleware"
	"rumboenvios/internal/repositories"
	"rumboenvios/internal/services"

	"github.com/gin-gonic/gin"
)

type batchAssignmentRequest struct {
	CompanyID          int64   `json:"company_id"`
	ClientIDs          []int64 `json:"client_ids"`
	DriverID           int64   `json:"driver_id"`
	VehicleDescription string  `json:"vehicle_description"`
	StartDate          string  `json:"start_date"`
	StartTime          string  `json:"start_time"`
	EndDate            string  `json:"end_date"`
	EndTime            string  `json:"end_time"`
	Notes              string  `json:"notes"`
}

type singleAssignmentRequest struct {
	DriverID           int64  `json:"driver_id"`
	VehicleDescription string `json:"vehicle_description"`
	DestinationAddress string `json:"destination_address"`
	StartDate          string `json:"start_date"`
	StartTime          string `json:"start_time"`
	EndDate            string `json:"end_date"`
	EndTime            string `json:"end_time"`
	Notes              string `json:"notes"`
}

func assignmentService(c *gin.Context) services.AssignmentService {
	reqID := middleware.GetRequestID(c)
	return services.AssignmentService{
		Directory:  services.DirectoryService{RequestID: reqID},
		Trips:      services.TripService{RequestID: reqID},
		Deliveries: services.DeliveryService{RequestID: reqID},
		RequestID:  reqID,
	}
}

// POST /api/assignments
// Creates one trip and one delivery per addressable client of the company.
func CreateBatchAssignment(c *gin.Context) {
	var req batchAssignmentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	start, end, err := parseSchedule(req.StartDate, req.StartTime, req.EndDate, req.EndTime)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	svc := assignmentService(c)
	result, err := svc.AssignBatch(services.BatchAssignmentInput{
		CompanyID:          req.CompanyID,
		ClientIDs:          req.ClientIDs,
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
	c.JSON(http.StatusCreated, result)
}

// POST /api/deliveries
// Single-destination shortcut: same path as the batch with one stop.
func CreateDelivery(c *gin.Context) {
	var req singleAssignmentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	start, end, err := parseSchedule(req.StartDate, req.StartTime, req.EndDate, req.EndTime)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	svc := assignmentService(c)
	result, err := svc.AssignSingle(services.SingleAssignmentInput{
		DriverID:           req.DriverID,
		VehicleDescription: req.VehicleDescription,
		DestinationAddress: req.DestinationAddress,
		PlannedStart:       start,
		PlannedEnd:         end,
		Notes:              req.Notes,
	}, middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GET /api/deliveries
// ?status= narrows to one lifecycle state; the cancellation screen uses it.
func GetDeliveries(c *gin.Context) {
	status := models.DeliveryStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		RespondError(c, http.StatusBadRequest, "unknown status", nil)
		return
	}

	repo := repositories.DeliveryRepository{}
	deliveries, err := repo.List(status)
	if err != nil {
		log.Println("GetDeliveries query error:", err)
		RespondError(c, http.StatusInternalServerError, "could not load deliveries", err)
		return
	}
	c.JSON(http.StatusOK, deliveries)
}

// GET /api/deliveries/:id
func GetDelivery(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	repo := repositories.DeliveryRepository{}
	delivery, err := repo.GetByID(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "delivery not found", nil)
		return
	}
	if err != nil {
		log.Println("GetDelivery query error:", err)
		RespondError(c, http.StatusInternalServerError, "could not load delivery", err)
		return
	}
	c.JSON(http.StatusOK, delivery)
}

// PATCH /api/deliveries/:id/status
func UpdateDeliveryStatus(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := services.DeliveryService{RequestID: middleware.GetRequestID(c)}
	delivery, err := svc.Transition(id, models.DeliveryStatus(req.Status))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, delivery)
}
