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

type driverRequest struct {
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	CompanyID int64  `json:"company_id"`
	Status    string `json:"status"`
}

// GET /api/drivers
// ?active=true narrows to assignment candidates.
func GetDrivers(c *gin.Context) {
	if c.Query("active") == "true" {
		svc := services.DirectoryService{RequestID: middleware.GetRequestID(c)}
		drivers, err := svc.ActiveDrivers()
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, drivers)
		return
	}

	repo := repositories.DriverRepository{}
	drivers, err := repo.List()
	if err != nil {
		log.Println("GetDrivers query error:", err)
		RespondError(c, http.StatusInternalServerError, "could not load drivers", err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

// GET /api/drivers/:id
func GetDriver(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	repo := repositories.DriverRepository{}
	driver, err := repo.GetByID(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "driver not found", nil)
		return
	}
	if err != nil {
		log.Println("GetDriver query error:", err)
		RespondError(c, http.StatusInternalServerError, "could not load driver", err)
		return
	}
	c.JSON(http.StatusOK, driver)
}

// POST /api/drivers
func CreateDriver(c *gin.Context) {
	var req driverRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.FullName == "" {
		RespondError(c, http.StatusBadRequest, "full_name is required", nil)
		return
	}

	status := models.DriverStatus(req.Status)
	if req.Status == "" {
		status = models.DriverActive
	}
	if !status.Valid() {
		RespondError(c, http.StatusBadRequest, "unknown status", nil)
		return
	}

	repo := repositories.DriverRepository{}
	driver, err := repo.Insert(models.Driver{
		FullName:  req.FullName,
		Phone:     req.Phone,
		Email:     req.Email,
		CompanyID: req.CompanyID,
		Status:    status,
		OwnerID:   middleware.GetUserID(c),
	})
	if err != nil {
		log.Println("CreateDriver insert error:", err)
		RespondError(c, http.StatusInternalServerError, "could not create driver", err)
		return
	}
	c.JSON(http.StatusCreated, driver)
}

// PUT /api/drivers/:id
func UpdateDriver(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req driverRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Status != "" && !models.DriverStatus(req.Status).Valid() {
		RespondError(c, http.StatusBadRequest, "unknown status", nil)
		return
	}

	repo := repositories.DriverRepository{}
	existing, err := repo.GetByID(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "driver not found", nil)
		return
	}
	if err != nil {
		log.Println("UpdateDriver query error:", err)
		RespondError(c, http.StatusInternalServerError, "could not load driver", err)
		return
	}

	if req.FullName != "" {
		existing.FullName = req.FullName
	}
	if req.Phone != "" {
		existing.Phone = req.Phone
	}
	if req.Email != "" {
		existing.Email = req.Email
	}
	if req.CompanyID != 0 {
		existing.CompanyID = req.CompanyID
	}
	if req.Status != "" {
		existing.Status = models.DriverStatus(req.Status)
	}

	if err := repo.Update(existing); err != nil {
		log.Println("UpdateDriver update error:", err)
		RespondError(c, http.StatusInternalServerError, "could not update driver", err)
		return
	}
	c.JSON(http.StatusOK, existing)
}

// DELETE /api/drivers/:id
func DeleteDriver(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	repo := repositories.DriverRepository{}
	err := repo.Delete(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "driver not found", nil)
		return
	}
	if err != nil {
		log.Println("DeleteDriver delete error:", err)
		RespondError(c, http.StatusInternalServerError, "could not delete driver", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "driver deleted"})
}
