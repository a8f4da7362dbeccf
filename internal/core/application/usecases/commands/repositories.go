// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management,
// persistence, and post-commit notification dispatch.
package commands

import (
	"context"

	"parcelflow/internal/core/ports"
	"parcelflow/internal/notifications"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// ParcelRepoFactory provides access to the parcel repository within a transaction.
	ParcelRepoFactory interface {
		ParcelRepository() ports.ParcelRepository
	}

	// DriverRepoFactory provides access to the driver repository within a transaction.
	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	// HistoryLedgerFactory provides access to the history ledger within a transaction.
	HistoryLedgerFactory interface {
		HistoryLedger() ports.HistoryLedger
	}

	// ParcelUoW manages transactions for operations touching a parcel and its
	// ledger. Every status change writes both, so the ledger factory is part
	// of the smallest unit.
	ParcelUoW interface {
		TxManager
		ParcelRepoFactory
		HistoryLedgerFactory
	}

	// ParcelUoWFactory creates new parcel unit of work instances.
	ParcelUoWFactory interface {
		Create() ParcelUoW
	}

	// UoW manages transactions across parcel, driver, and ledger writes.
	// Used by the assignment paths, which consult the driver's availability
	// in the same transaction that binds the parcel.
	UoW interface {
		TxManager
		ParcelRepoFactory
		DriverRepoFactory
		HistoryLedgerFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)

// Notifier receives lifecycle events after a transaction commits. Handlers
// call it exactly once per committed change; delivery is best-effort and
// fully owned by the implementation.
type Notifier interface {
	DispatchAsync(event notifications.ParcelEvent)
}
