// Package ports defines the persistence contracts between the domain layer
// and infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"
)

// ParcelRepository defines the persistence contract for parcel aggregates.
//
// Update is a guarded write: the implementation compares the aggregate's
// version token against the stored row atomically and fails with a Conflict
// when another writer got there first. This is the single mechanism behind
// every check-then-set in the lifecycle; handlers reload and surface the
// conflict rather than retrying blindly.
type ParcelRepository interface {
	// Add persists a new parcel aggregate to storage.
	// Fails with a Conflict when the tracking number is already taken.
	Add(ctx context.Context, aggregate *parcel.Parcel) error

	// Update persists changes to an existing parcel aggregate with an atomic
	// version check. Returns a Conflict when the stored version differs from
	// the version the aggregate was loaded at.
	Update(ctx context.Context, aggregate *parcel.Parcel) error

	// Get retrieves a parcel aggregate by its unique identifier.
	// Soft-deleted parcels are not returned.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	// GetByTrackingNumber retrieves a parcel by its public tracking number.
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*parcel.Parcel, error)

	// ExistsByTrackingNumber reports whether a tracking number is already
	// issued, including on soft-deleted parcels. Used for collision checks
	// at creation.
	ExistsByTrackingNumber(ctx context.Context, trackingNumber string) (bool, error)

	// GetAllPendingUnassigned retrieves parcels in pending status with no
	// driver bound, oldest first, up to limit. A limit of 0 means no limit.
	GetAllPendingUnassigned(ctx context.Context, limit int) ([]*parcel.Parcel, error)

	// GetAllForDriver retrieves the parcels currently bound to a driver,
	// newest first.
	GetAllForDriver(ctx context.Context, driverID kernel.UUID) ([]*parcel.Parcel, error)

	// GetAllForAccount retrieves the parcels where the account is the sender
	// or the recipient, newest first.
	GetAllForAccount(ctx context.Context, accountID kernel.UUID) ([]*parcel.Parcel, error)
}
