package models

import "time"

// DriverStatus is the operational state of a driver. Only Active drivers
// are offered as assignment candidates.
type DriverStatus string

const (
	DriverActive   DriverStatus = "Active"
	DriverInactive DriverStatus = "Inactive"
	DriverOnTrip   DriverStatus = "OnTrip"
	DriverResting  DriverStatus = "Resting"
)

func (s DriverStatus) Valid() bool {
	switch s {
	case DriverActive, DriverInactive, DriverOnTrip, DriverResting:
		return true
	}
	return false
}

type Driver struct {
	ID          int64        `json:"id"`
	DisplayCode int64        `json:"display_code"`
	FullName    string       `json:"full_name"`
	Phone       string       `json:"phone"`
	Email       string       `json:"email"`
	CompanyID   int64        `json:"company_id"`
	Status      DriverStatus `json:"status"`
	OwnerID     int64        `json:"owner_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
