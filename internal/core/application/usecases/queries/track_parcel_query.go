// Package queries contains read-only operations over the parcel store.
// Implements the Query side of the CQRS architecture: handlers read rows
// directly and return flat response structs, bypassing aggregate
// reconstruction.
package queries

import (
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/pkg/guard"
)

var ErrTrackParcelQueryIsNotConstructed = errors.New(
	"TrackParcelQuery must be created via NewTrackParcelQuery constructor",
)

// TrackParcelQuery retrieves the public tracking snapshot for a tracking
// number. This is the anonymous tracking-page lookup: no authentication, and
// the response exposes no party contact details and no fee.
type TrackParcelQuery struct {
	trackingNumber string

	guard guard.ConstructorGuard
}

// NewTrackParcelQuery creates a tracking lookup for the given number.
// The number must be well-formed; lookups for malformed numbers never reach
// the database.
func NewTrackParcelQuery(trackingNumber string) (TrackParcelQuery, error) {
	if err := parcel.ValidateTrackingNumber(trackingNumber); err != nil {
		return TrackParcelQuery{}, err
	}

	return TrackParcelQuery{
		trackingNumber: trackingNumber,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// TrackingNumber returns the tracking number being looked up.
func (q TrackParcelQuery) TrackingNumber() string {
	return q.trackingNumber
}

// Validate ensures the query was created through the constructor.
func (q TrackParcelQuery) Validate() error {
	return q.guard.Validate(ErrTrackParcelQueryIsNotConstructed)
}

// TrackParcelQueryResponse is the public tracking snapshot. JSON tags double
// as the cache serialization format.
type TrackParcelQueryResponse struct {
	TrackingNumber      string                    `json:"trackingNumber"`
	Status              string                    `json:"status"`
	PickupAddress       string                    `json:"pickupAddress"`
	DeliveryAddress     string                    `json:"deliveryAddress"`
	EstimatedPickupAt   *time.Time                `json:"estimatedPickupAt,omitempty"`
	ActualPickupAt      *time.Time                `json:"actualPickupAt,omitempty"`
	EstimatedDeliveryAt *time.Time                `json:"estimatedDeliveryAt,omitempty"`
	ActualDeliveryAt    *time.Time                `json:"actualDeliveryAt,omitempty"`
	History             []TrackParcelHistoryEntry `json:"history"`
}

// TrackParcelHistoryEntry is one public history row: status changes with
// their reported location, without actor identities or internal notes.
type TrackParcelHistoryEntry struct {
	Status    string    `json:"status"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
