package parcel

import (
	"fmt"

	"parcelflow/internal/pkg/errs"
)

// Status represents the lifecycle state of a parcel.
// It implements a state machine with a fixed transition graph so that parcels
// follow the correct delivery workflow.
//
// State transitions:
//
//	pending ──> assigned ──> picked_up ──┬──> in_transit ──┐
//	                                     │                 │
//	                                     └────────┬────────┘
//	                                              v
//	                             delivered_to_recipient ──> delivered ──> completed
//
// Every non-terminal state additionally has an edge to cancelled.
// completed and cancelled are terminal: no outgoing edges.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status when a parcel is first created.
	// Parcels in this status are waiting to be assigned to a driver.
	StatusPending

	// StatusAssigned indicates the parcel has been bound to a driver who has
	// not yet collected it.
	StatusAssigned

	// StatusPickedUp indicates the driver has collected the parcel from the
	// pickup address.
	StatusPickedUp

	// StatusInTransit indicates the parcel is en route to the delivery address.
	StatusInTransit

	// StatusDeliveredToRecipient indicates the driver has handed the parcel
	// over at the delivery address; the recipient has not yet confirmed.
	StatusDeliveredToRecipient

	// StatusDelivered indicates the recipient confirmed receipt, optionally
	// with a signature.
	StatusDelivered

	// StatusCompleted indicates the delivery is closed out.
	// This is a terminal state with no further transitions allowed.
	StatusCompleted

	// StatusCancelled indicates the delivery was aborted.
	// This is a terminal state with no further transitions allowed.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:              "unknown",
		StatusPending:              "pending",
		StatusAssigned:             "assigned",
		StatusPickedUp:             "picked_up",
		StatusInTransit:            "in_transit",
		StatusDeliveredToRecipient: "delivered_to_recipient",
		StatusDelivered:            "delivered",
		StatusCompleted:            "completed",
		StatusCancelled:            "cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusPending:              "pending",
		StatusAssigned:             "assigned",
		StatusPickedUp:             "picked_up",
		StatusInTransit:            "in_transit",
		StatusDeliveredToRecipient: "delivered_to_recipient",
		StatusDelivered:            "delivered",
		StatusCompleted:            "completed",
		StatusCancelled:            "cancelled",
	}
}

// getTransitionGraph returns the fixed set of legal status edges.
// Terminal states map to empty sets. The graph is the single source of truth
// for CanTransitionTo; role rights are layered on top by the transition engine.
func getTransitionGraph() map[Status][]Status {
	return map[Status][]Status{
		StatusPending:              {StatusAssigned, StatusCancelled},
		StatusAssigned:             {StatusPickedUp, StatusCancelled},
		StatusPickedUp:             {StatusInTransit, StatusDeliveredToRecipient, StatusCancelled},
		StatusInTransit:            {StatusDeliveredToRecipient, StatusCancelled},
		StatusDeliveredToRecipient: {StatusDelivered, StatusCancelled},
		StatusDelivered:            {StatusCompleted, StatusCancelled},
		StatusCompleted:            {},
		StatusCancelled:            {},
	}
}

// AllStatuses returns every valid status. Useful for exhaustive table checks
// in consumers and tests; the order is fixed.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusAssigned,
		StatusPickedUp,
		StatusInTransit,
		StatusDeliveredToRecipient,
		StatusDelivered,
		StatusCompleted,
		StatusCancelled,
	}
}

// Validate checks if the Status value is one of the eight valid statuses.
// StatusUnknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the snake_case name of the status, or "unknown" for invalid
// values. Implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// StatusFromString parses a status from its snake_case string representation.
// This is the inverse of String for the eight valid statuses.
func StatusFromString(str string) (Status, error) {
	for status, s := range getValidStatusStrings() {
		if s == str {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status", str))
}

// IsTerminal reports whether the status has no outgoing edges.
// completed and cancelled are the only terminal states.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether (s, to) is an edge of the transition graph.
// It checks the graph only; whether the acting role may fire the edge is
// decided by the transition engine.
func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range getTransitionGraph()[s] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionTo validates the edge (s, to) and returns the new status.
//
// Returns:
//   - (to, nil) when the edge exists in the transition graph
//   - (StatusUnknown, InvalidTransitionError) otherwise, including any attempt
//     to leave a terminal state
func (s Status) TransitionTo(to Status) (Status, error) {
	if err := to.Validate(); err != nil {
		return StatusUnknown, err
	}
	if !s.CanTransitionTo(to) {
		return StatusUnknown, errs.NewInvalidTransitionError(s.String(), to.String())
	}
	return to, nil
}
