package services

import (
	"strconv"

	"rumboenvios/internal/domain"
	"rumboenvios/internal/domain/models"
	"rumboenvios/internal/repositories"
	"rumboenvios/internal/utils"
)

// DirectoryService answers the read-only questions the assignment workflow
// starts from: which clients belong to a company, which drivers can be
// assigned. A storage failure is always surfaced as a LookupError so callers
// never mistake a failed read for an empty directory.
type DirectoryService struct {
	ClientRepo repositories.ClientRepository
	DriverRepo repositories.DriverRepository
	RequestID  string
}

// ClientsByCompany returns the company's clients ordered by name,
// addresses included.
func (s DirectoryService) ClientsByCompany(companyID int64) ([]models.Client, error) {
	if companyID <= 0 {
		return nil, domain.ValidationError{Field: "company_id", Msg: "must be positive"}
	}
	clients, err := s.ClientRepo.ListByCompany(companyID)
	if err != nil {
		return nil, domain.LookupError{Resource: "clients", Err: err}
	}
	utils.LogEvent(s.RequestID, "directory", "clients_by_company", "company_id="+strconv.FormatInt(companyID, 10)+" count="+strconv.Itoa(len(clients)))
	return clients, nil
}

// ActiveDrivers returns drivers eligible for assignment, ordered by name.
func (s DirectoryService) ActiveDrivers() ([]models.Driver, error) {
	drivers, err := s.DriverRepo.ListActive()
	if err != nil {
		return nil, domain.LookupError{Resource: "drivers", Err: err}
	}
	return drivers, nil
}
