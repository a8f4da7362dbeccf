package ports

import (
	"context"

	"parcelflow/internal/core/domain/model/driver"
	"parcelflow/internal/core/domain/model/kernel"
)

// DriverRepository defines the persistence contract for driver aggregates.
type DriverRepository interface {
	// Add persists a new driver aggregate to storage.
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update persists changes to an existing driver aggregate with an atomic
	// version check, failing with a Conflict on a stale version.
	Update(ctx context.Context, aggregate *driver.Driver) error

	// Get retrieves a driver aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// GetForUpdate retrieves a driver aggregate and locks its row until the
	// surrounding transaction ends. Assignment reads the driver this way so
	// the active flag observed by the check holds through the commit.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// GetAllActive retrieves every driver whose availability flag is on.
	// Used by auto-assignment to pick candidates.
	GetAllActive(ctx context.Context) ([]*driver.Driver, error)
}
