package queries

import (
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/guard"
)

var ErrGetParcelHistoryQueryIsNotConstructed = errors.New(
	"GetParcelHistoryQuery must be created via NewGetParcelHistoryQuery constructor",
)

// GetParcelHistoryQuery retrieves the full status ledger of one parcel,
// including actor ids and internal notes. Back-office view; the public
// tracking page uses TrackParcelQuery instead.
type GetParcelHistoryQuery struct {
	parcelID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetParcelHistoryQuery creates a ledger lookup for the given parcel.
func NewGetParcelHistoryQuery(parcelID kernel.UUID) (GetParcelHistoryQuery, error) {
	if err := parcelID.Validate(); err != nil {
		return GetParcelHistoryQuery{}, err
	}

	return GetParcelHistoryQuery{
		parcelID: parcelID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// ParcelID returns the parcel whose ledger is being read.
func (q GetParcelHistoryQuery) ParcelID() kernel.UUID {
	return q.parcelID
}

// Validate ensures the query was created through the constructor.
func (q GetParcelHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelHistoryQueryIsNotConstructed)
}

// GetParcelHistoryQueryResponse represents one ledger row.
type GetParcelHistoryQueryResponse struct {
	ID        kernel.UUID
	Status    string
	ActorID   kernel.UUID
	Location  string
	Latitude  *float64
	Longitude *float64
	Notes     string
	CreatedAt time.Time
}
