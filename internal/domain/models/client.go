package models

import (
	"strings"
	"time"
)

type ClientStatus string

const (
	ClientActive      ClientStatus = "Active"
	ClientInactive    ClientStatus = "Inactive"
	ClientProspective ClientStatus = "Prospective"
)

func (s ClientStatus) Valid() bool {
	switch s {
	case ClientActive, ClientInactive, ClientProspective:
		return true
	}
	return false
}

type Client struct {
	ID          int64        `json:"id"`
	DisplayCode int64        `json:"display_code"`
	FullName    string       `json:"full_name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Address     string       `json:"address"`
	CompanyID   int64        `json:"company_id"`
	Status      ClientStatus `json:"status"`
	OwnerID     int64        `json:"owner_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// HasAddress reports whether the client can receive a delivery.
// Clients without an address are excluded before delivery rows are built.
func (c Client) HasAddress() bool {
	return strings.TrimSpace(c.Address) != ""
}
