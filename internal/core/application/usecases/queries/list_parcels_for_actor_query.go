package queries

import (
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/guard"
)

var ErrListParcelsForActorQueryIsNotConstructed = errors.New(
	"ListParcelsForActorQuery must be created via NewListParcelsForActorQuery constructor",
)

// ListParcelsForActorQuery retrieves the parcels visible to an authenticated
// actor, scoped by role: drivers see the parcels bound to them, customers see
// the parcels they send or receive, and admins see every active parcel.
type ListParcelsForActorQuery struct {
	actor kernel.Actor

	guard guard.ConstructorGuard
}

// NewListParcelsForActorQuery creates a listing scoped to the given actor.
func NewListParcelsForActorQuery(actor kernel.Actor) (ListParcelsForActorQuery, error) {
	if err := actor.Validate(); err != nil {
		return ListParcelsForActorQuery{}, err
	}

	return ListParcelsForActorQuery{
		actor: actor,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Actor returns the actor whose parcels are being listed.
func (q ListParcelsForActorQuery) Actor() kernel.Actor {
	return q.actor
}

// Validate ensures the query was created through the constructor.
func (q ListParcelsForActorQuery) Validate() error {
	return q.guard.Validate(ErrListParcelsForActorQueryIsNotConstructed)
}

// ListParcelsForActorQueryResponse represents one parcel in an actor's listing.
type ListParcelsForActorQueryResponse struct {
	ID              kernel.UUID
	TrackingNumber  string
	Status          string
	SenderName      string
	RecipientName   string
	PickupAddress   string
	DeliveryAddress string
	DriverID        *kernel.UUID
	Fee             float64
	CreatedAt       time.Time
}
