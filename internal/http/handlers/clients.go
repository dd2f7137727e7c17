package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"

	"rumboenvios/internal/domain/models"
	"rumboenvios/internal/http/middleware"
	"rumboenvios/internal/repositories"

	"github.com/gin-gonic/gin"
)

type clientRequest struct {
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	CompanyID int64  `json:"company_id"`
	Status    string `json:"status"`
}

// GET /api/clients
// Supports ?company_id=N to feed the assignment form.
func GetClients(c *gin.Context) {
	repo := repositories.ClientRepository{}

	if raw := c.Query("company_id"); raw != "" {
		companyID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || companyID <= 0 {
			RespondError(c, http.StatusBadRequest, "invalid company_id", nil)
			return
		}
		clients, err := repo.ListByCompany(companyID)
		if err != nil {
			log.Println("GetClients by company query error:", err)
			RespondError(c, http.StatusInternalServerError, "could not load clients", err)
			return
		}
		c.JSON(http.StatusOK, clients)
		return
	}

	clients, err := repo.List()
	if err != nil {
		log.Println("GetClients query error:", err)
		RespondError(c, http.StatusInternalServerError, "could not load clients", err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GET /api/clients/:id
func GetClient(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	repo := repositories.ClientRepository{}
	client, err := repo.GetByID(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "client not found", nil)
		return
	}
	if err != nil {
		log.Println("GetClient query error:", err)
		RespondError(c, http.StatusInternalServerError, "could not load client", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// POST /api/clients
func CreateClient(c *gin.Context) {
	var req clientRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.FullName == "" {
		RespondError(c, http.StatusBadRequest, "full_name is required", nil)
		return
	}

	status := models.ClientStatus(req.Status)
	if req.Status == "" {
		status = models.ClientActive
	}
	if !status.Valid() {
		RespondError(c, http.StatusBadRequest, "unknown status", nil)
		return
	}

	repo := repositories.ClientRepository{}
	client, err := repo.Insert(models.Client{
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		CompanyID: req.CompanyID,
		Status:    status,
		OwnerID:   middleware.GetUserID(c),
	})
	if err != nil {
		log.Println("CreateClient insert error:", err)
		RespondError(c, http.StatusInternalServerError, "could not create client", err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// PUT /api/clients/:id
func UpdateClient(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req clientRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Status != "" && !models.ClientStatus(req.Status).Valid() {
		RespondError(c, http.StatusBadRequest, "unknown status", nil)
		return
	}

	repo := repositories.ClientRepository{}
	existing, err := repo.GetByID(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "client not found", nil)
		return
	}
	if err != nil {
		log.Println("UpdateClient query error:", err)
		RespondError(c, http.StatusInternalServerError, "could not load client", err)
		return
	}

	if req.FullName != "" {
		existing.FullName = req.FullName
	}
	if req.Email != "" {
		existing.Email = req.Email
	}
	if req.Phone != "" {
		existing.Phone = req.Phone
	}
	if req.Address != "" {
		existing.Address = req.Address
	}
	if req.CompanyID != 0 {
		existing.CompanyID = req.CompanyID
	}
	if req.Status != "" {
		existing.Status = models.ClientStatus(req.Status)
	}

	if err := repo.Update(existing); err != nil {
		log.Println("UpdateClient update error:", err)
		RespondError(c, http.StatusInternalServerError, "could not update client", err)
		return
	}
	c.JSON(http.StatusOK, existing)
}

// DELETE /api/clients/:id
func DeleteClient(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	repo := repositories.ClientRepository{}
	err := repo.Delete(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "client not found", nil)
		return
	}
	if err != nil {
		log.Println("DeleteClient delete error:", err)
		RespondError(c, http.StatusInternalServerError, "could not delete client", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "client deleted"})
}
