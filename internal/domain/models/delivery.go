package models

import "time"

type DeliveryStatus string

const (
	DeliveryPending    DeliveryStatus = "Pending"
	DeliveryInProgress DeliveryStatus = "InProgress"
	DeliveryCompleted  DeliveryStatus = "Completed"
	DeliveryCancelled  DeliveryStatus = "Cancelled"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryPending, DeliveryInProgress, DeliveryCompleted, DeliveryCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s DeliveryStatus) Terminal() bool {
	return s == DeliveryCompleted || s == DeliveryCancelled
}

var deliveryTransitions = map[DeliveryStatus]map[DeliveryStatus]bool{
	DeliveryPending: {
		DeliveryInProgress: true,
		DeliveryCancelled:  true,
	},
	DeliveryInProgress: {
		DeliveryCompleted: true,
		DeliveryCancelled: true,
	},
	DeliveryCompleted: {},
	DeliveryCancelled: {},
}

// CanTransition reports whether s -> target is a legal delivery transition.
func (s DeliveryStatus) CanTransition(target DeliveryStatus) bool {
	return deliveryTransitions[s][target]
}

// Delivery is one destination-bound line item. Driver and vehicle are
// duplicated from the parent trip so deliveries stay queryable on their own.
type Delivery struct {
	ID                 int64          `json:"id"`
	DisplayCode        int64          `json:"display_code"`
	TripID             int64          `json:"trip_id"`
	StartAt            time.Time      `json:"start_at"`
	EstimatedEnd       *time.Time     `json:"estimated_end,omitempty"`
	ActualEnd          *time.Time     `json:"actual_end,omitempty"`
	DriverID           int64          `json:"driver_id"`
	VehicleDescription string         `json:"vehicle_description"`
	DestinationAddress string         `json:"destination_address"`
	Notes              string         `json:"notes"`
	Status             DeliveryStatus `json:"status"`
	OwnerID            int64          `json:"owner_id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}
