package models

import "time"

// Industry is the closed set of business categories a company can register as.
type Industry string

const (
	IndustryDelivery    Industry = "delivery"
	IndustryMealService Industry = "meal-service"
	IndustryCourier     Industry = "courier"
	IndustryFlex        Industry = "flex"
)

func (i Industry) Valid() bool {
	switch i {
	case IndustryDelivery, IndustryMealService, IndustryCourier, IndustryFlex:
		return true
	}
	return false
}

type CompanyStatus string

const (
	CompanyActive   CompanyStatus = "Active"
	CompanyInactive CompanyStatus = "Inactive"
	CompanyPending  CompanyStatus = "Pending"
)

func (s CompanyStatus) Valid() bool {
	switch s {
	case CompanyActive, CompanyInactive, CompanyPending:
		return true
	}
	return false
}

type Company struct {
	ID           int64         `json:"id"`
	DisplayCode  int64         `json:"display_code"`
	Name         string        `json:"name"`
	Industry     Industry      `json:"industry"`
	ContactEmail string        `json:"contact_email"`
	Status       CompanyStatus `json:"status"`
	Address      string        `json:"address"`
	OwnerID      int64         `json:"owner_id"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
