package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"rumboenvios/internal/domain/models"
	"rumboenvios/internal/http/middleware"
	"rumboenvios/internal/repositories"

	"github.com/gin-gonic/gin"
)

type companyRequest struct {
	Name         string `json:"name"`
	Industry     string `json:"industry"`
	ContactEmail string `json:"contact_email"`
	Status       string `json:"status"`
	Address      string `json:"address"`
}

// GET /api/companies
func GetCompanies(c *gin.Context) {
	repo := repositories.CompanyRepository{}
	companies, err := repo.List()
	if err != nil {
		log.Println("GetCompanies query error:", err)
		RespondError(c, http.StatusInternalServerError, "could not load companies", err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

// GET /api/companies/:id
func GetCompany(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}

	repo := repositories.CompanyRepository{}
	company, err := repo.GetByID(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "company not found", nil)
		return
	}
	if err != nil {
		log.Println("GetCompany query error:", err)
		RespondError(c, http.StatusInternalServerError, "could not load company", err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// POST /api/companies
func CreateCompany(c *gin.Context) {
	var req companyRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Name == "" {
		RespondError(c, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.Industry != "" && !models.Industry(req.Industry).Valid() {
		RespondError(c, http.StatusBadRequest, "unknown industry", nil)
		return
	}

	status := models.CompanyStatus(req.Status)
	if req.Status == "" {
		status = models.CompanyPending
	}
	if !status.Valid() {
		RespondError(c, http.StatusBadRequest, "unknown status", nil)
		return
	}

	repo := repositories.CompanyRepository{}
	company, err := repo.Insert(models.Company{
		Name:         req.Name,
		Industry:     models.Industry(req.Industry),
		ContactEmail: req.ContactEmail,
		Status:       status,
		Address:      req.Address,
		OwnerID:      middleware.GetUserID(c),
	})
	if err != nil {
		log.Println("CreateCompany insert error:", err)
		RespondError(c, http.StatusInternalServerError, "could not create company", err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

// PUT /api/companies/:id
func UpdateCompany(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req companyRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Industry != "" && !models.Industry(req.Industry).Valid() {
		RespondError(c, http.StatusBadRequest, "unknown industry", nil)
		return
	}
	if req.Status != "" && !models.CompanyStatus(req.Status).Valid() {
		RespondError(c, http.StatusBadRequest, "unknown status", nil)
		return
	}

	repo := repositories.CompanyRepository{}
	existing, err := repo.GetByID(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "company not found", nil)
		return
	}
	if err != nil {
		log.Println("UpdateCompany query error:", err)
		RespondError(c, http.StatusInternalServerError, "could not load company", err)
		return
	}

	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Industry != "" {
		existing.Industry = models.Industry(req.Industry)
	}
	if req.ContactEmail != "" {
		existing.ContactEmail = req.ContactEmail
	}
	if req.Status != "" {
		existing.Status = models.CompanyStatus(req.Status)
	}
	if req.Address != "" {
		existing.Address = req.Address
	}

	if err := repo.Update(existing); err != nil {
		log.Println("UpdateCompany update error:", err)
		RespondError(c, http.StatusInternalServerError, "could not update company", err)
		return
	}
	c.JSON(http.StatusOK, existing)
}

// DELETE /api/companies/:id
func DeleteCompany(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	repo := repositories.CompanyRepository{}
	err := repo.Delete(id)
	if err == sql.ErrNoRows {
		RespondError(c, http.StatusNotFound, "company not found", nil)
		return
	}
	if err != nil {
		log.Println("DeleteCompany delete error:", err)
		RespondError(c, http.StatusInternalServerError, "could not delete company", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "company deleted"})
}
