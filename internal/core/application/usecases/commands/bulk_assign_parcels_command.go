package commands

import (
	"errors"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/guard"
)

var (
	ErrBulkAssignParcelsCommandIsNotConstructed = errors.New(
		"BulkAssignParcelsCommand must be created via NewBulkAssignParcelsCommand constructor",
	)
	ErrBulkAssignItemsAreRequired = errors.New("at least one assignment item is required")
)

// BulkAssignItem is one parcel-to-driver pairing within a bulk assignment.
type BulkAssignItem struct {
	ParcelID kernel.UUID
	DriverID kernel.UUID
}

// BulkAssignParcelsCommand represents a request to assign many parcels in one
// call. Items are independent: one item failing never rolls back the others.
type BulkAssignParcelsCommand struct { //nolint:recvcheck //using for validation
	items []BulkAssignItem
	actor kernel.Actor
	notes string

	guard guard.ConstructorGuard
}

// NewBulkAssignParcelsCommand creates a bulk assignment command. Every item's
// identifiers are validated up front so a malformed item is rejected before
// any work starts.
func NewBulkAssignParcelsCommand(
	items []BulkAssignItem,
	actor kernel.Actor,
	notes string,
) (BulkAssignParcelsCommand, error) {
	if len(items) == 0 {
		return BulkAssignParcelsCommand{}, ErrBulkAssignItemsAreRequired
	}
	if err := actor.Validate(); err != nil {
		return BulkAssignParcelsCommand{}, err
	}
	for _, item := range items {
		if err := errors.Join(item.ParcelID.Validate(), item.DriverID.Validate()); err != nil {
			return BulkAssignParcelsCommand{}, err
		}
	}

	return BulkAssignParcelsCommand{
		items: items,
		actor: actor,
		notes: notes,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c BulkAssignParcelsCommand) Validate() error {
	return c.guard.Validate(ErrBulkAssignParcelsCommandIsNotConstructed)
}

// Items returns the parcel-to-driver pairings.
func (c BulkAssignParcelsCommand) Items() []BulkAssignItem {
	return c.items
}

// Actor returns the actor performing the assignments.
func (c BulkAssignParcelsCommand) Actor() kernel.Actor {
	return c.actor
}

// Notes returns the optional note recorded on every ledger entry.
func (c BulkAssignParcelsCommand) Notes() string {
	return c.notes
}
