package models

import "time"

type TripStatus string

const (
	TripPlanned    TripStatus = "Planned"
	TripInProgress TripStatus = "InProgress"
	TripCompleted  TripStatus = "Completed"
	TripCancelled  TripStatus = "Cancelled"
)

func (s TripStatus) Valid() bool {
	switch s {
	case TripPlanned, TripInProgress, TripCompleted, TripCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s TripStatus) Terminal() bool {
	return s == TripCompleted || s == TripCancelled
}

// tripTransitions is the exhaustive legal transition table.
var tripTransitions = map[TripStatus]map[TripStatus]bool{
	TripPlanned: {
		TripInProgress: true,
		TripCancelled:  true,
	},
	TripInProgress: {
		TripCompleted: true,
		TripCancelled: true,
	},
	TripCompleted: {},
	TripCancelled: {},
}

// CanTransition reports whether s -> target is a legal trip transition.
func (s TripStatus) CanTransition(target TripStatus) bool {
	return tripTransitions[s][target]
}

type Trip struct {
	ID                 int64      `json:"id"`
	DisplayCode        int64      `json:"display_code"`
	DriverID           int64      `json:"driver_id"`
	VehicleDescription string     `json:"vehicle_description"`
	PlannedStart       time.Time  `json:"planned_start"`
	PlannedEnd         *time.Time `json:"planned_end,omitempty"`
	ActualEnd          *time.Time `json:"actual_end,omitempty"`
	Status             TripStatus `json:"status"`
	Notes              string     `json:"notes"`
	OwnerID            int64      `json:"owner_id"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
