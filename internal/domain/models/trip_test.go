package models

import "testing"

func TestTripTransitionTable(t *testing.T) {
	all := []TripStatus{TripPlanned, TripInProgress, TripCompleted, TripCancelled}

	legal := map[TripStatus][]TripStatus{
		TripPlanned:    {TripInProgress, TripCancelled},
		TripInProgress: {TripCompleted, TripCancelled},
		TripCompleted:  {},
		TripCancelled:  {},
	}

	for _, from := range all {
		allowed := map[TripStatus]bool{}
		for _, to := range legal[from] {
			allowed[to] = true
		}
		for _, to := range all {
			got := from.CanTransition(to)
			if got != allowed[to] {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, allowed[to])
			}
		}
	}
}

func TestTripTerminalStates(t *testing.T) {
	if TripPlanned.Terminal() || TripInProgress.Terminal() {
		t.Fatal("Planned and InProgress are not terminal")
	}
	if !TripCompleted.Terminal() || !TripCancelled.Terminal() {
		t.Fatal("Completed and Cancelled must be terminal")
	}
}

func TestTripStatusValid(t *testing.T) {
	if TripStatus("Parked").Valid() {
		t.Fatal("unknown status must not validate")
	}
	if !TripPlanned.Valid() {
		t.Fatal("Planned must validate")
	}
}
