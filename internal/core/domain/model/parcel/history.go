package parcel

import (
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/guard"
)

// ErrHistoryEntryIsNotConstructed is returned when using an improperly
// initialized HistoryEntry.
var ErrHistoryEntryIsNotConstructed = errors.New(
	"HistoryEntry must be created via NewHistoryEntry constructor")

// HistoryEntry is one immutable row of the parcel's status ledger: which
// status the parcel entered, who caused it, where, and when. Entries are
// created exactly once per accepted transition and are never updated or
// removed; together they form the append-only audit trail of a parcel.
type HistoryEntry struct {
	// id uniquely identifies the ledger row
	id kernel.UUID
	// parcelID is the parcel this entry belongs to
	parcelID kernel.UUID
	// status is the state the parcel entered
	status Status
	// actorID identifies who caused the change
	actorID kernel.UUID
	// location optionally records where the change was reported from
	location *kernel.Location
	// notes optionally carries free-text context for the change
	notes string
	// createdAt is the ordering key of the ledger
	createdAt time.Time
	// guard ensures the entry was properly constructed
	guard guard.ConstructorGuard
}

// NewHistoryEntry creates a ledger entry for a committed status change.
// location may be nil; notes may be empty. createdAt is the ordering key and
// should be the commit time of the transition.
func NewHistoryEntry(
	parcelID kernel.UUID,
	status Status,
	actorID kernel.UUID,
	location *kernel.Location,
	notes string,
	createdAt time.Time,
) (*HistoryEntry, error) {
	if err := parcelID.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if err := actorID.Validate(); err != nil {
		return nil, err
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return nil, err
		}
	}

	return &HistoryEntry{
		id:        kernel.NewUUID(),
		parcelID:  parcelID,
		status:    status,
		actorID:   actorID,
		location:  location,
		notes:     notes,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// RestoreHistoryEntry reconstructs a ledger row from persistent storage.
func RestoreHistoryEntry(
	id kernel.UUID,
	parcelID kernel.UUID,
	status Status,
	actorID kernel.UUID,
	location *kernel.Location,
	notes string,
	createdAt time.Time,
) (*HistoryEntry, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	entry, err := NewHistoryEntry(parcelID, status, actorID, location, notes, createdAt)
	if err != nil {
		return nil, err
	}

	entry.id = id
	return entry, nil
}

// ID returns the ledger row's unique identifier.
func (e *HistoryEntry) ID() kernel.UUID {
	return e.id
}

// ParcelID returns the parcel this entry belongs to.
func (e *HistoryEntry) ParcelID() kernel.UUID {
	return e.parcelID
}

// Status returns the state the parcel entered.
func (e *HistoryEntry) Status() Status {
	return e.status
}

// ActorID returns the identity that caused the change.
func (e *HistoryEntry) ActorID() kernel.UUID {
	return e.actorID
}

// Location returns where the change was reported from, or nil.
func (e *HistoryEntry) Location() *kernel.Location {
	return e.location
}

// Notes returns the free-text context for the change, possibly empty.
func (e *HistoryEntry) Notes() string {
	return e.notes
}

// CreatedAt returns the entry's timestamp, the ordering key of the ledger.
func (e *HistoryEntry) CreatedAt() time.Time {
	return e.createdAt
}

// Validate ensures the entry was created through a constructor.
func (e *HistoryEntry) Validate() error {
	if e == nil {
		return ErrHistoryEntryIsNotConstructed
	}
	return e.guard.Validate(ErrHistoryEntryIsNotConstructed)
}
