package queries

import (
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

var ErrListPendingParcelsQueryIsNotConstructed = errors.New(
	"ListPendingParcelsQuery must be created via NewListPendingParcelsQuery constructor",
)

// ListPendingParcelsQuery retrieves parcels awaiting a driver, oldest first.
// Feeds the back-office assignment screen and mirrors the candidate scan of
// the auto-assignment job.
type ListPendingParcelsQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewListPendingParcelsQuery creates a pending-parcel listing. A limit of 0
// means no limit; negative limits are rejected.
func NewListPendingParcelsQuery(limit int) (ListPendingParcelsQuery, error) {
	if limit < 0 {
		return ListPendingParcelsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 0, nil)
	}

	return ListPendingParcelsQuery{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Limit returns the row cap, 0 meaning unlimited.
func (q ListPendingParcelsQuery) Limit() int {
	return q.limit
}

// Validate ensures the query was created through the constructor.
func (q ListPendingParcelsQuery) Validate() error {
	return q.guard.Validate(ErrListPendingParcelsQueryIsNotConstructed)
}

// ListPendingParcelsQueryResponse represents one parcel awaiting assignment.
type ListPendingParcelsQueryResponse struct {
	ID              kernel.UUID
	TrackingNumber  string
	SenderName      string
	PickupAddress   string
	DeliveryAddress string
	WeightKg        float64
	Fee             float64
	CreatedAt       time.Time
}
