package commands

import (
	"errors"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/guard"
)

var ErrReassignParcelCommandIsNotConstructed = errors.New(
	"ReassignParcelCommand must be created via NewReassignParcelCommand constructor",
)

// ReassignParcelCommand represents an administrator's request to move a
// parcel from its current driver to a new one, for example when the original
// driver becomes unavailable mid-route.
type ReassignParcelCommand struct { //nolint:recvcheck //using for validation
	parcelID    kernel.UUID
	newDriverID kernel.UUID
	actor       kernel.Actor
	notes       string

	guard guard.ConstructorGuard
}

// NewReassignParcelCommand creates a command to reassign a parcel.
func NewReassignParcelCommand(
	parcelID kernel.UUID,
	newDriverID kernel.UUID,
	actor kernel.Actor,
	notes string,
) (ReassignParcelCommand, error) {
	cmd := ReassignParcelCommand{
		notes: notes,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setNewDriverID(newDriverID),
		cmd.setActor(actor),
	); err != nil {
		return ReassignParcelCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReassignParcelCommand) Validate() error {
	return c.guard.Validate(ErrReassignParcelCommandIsNotConstructed)
}

// ParcelID returns the parcel to reassign.
func (c ReassignParcelCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// NewDriverID returns the replacement driver.
func (c ReassignParcelCommand) NewDriverID() kernel.UUID {
	return c.newDriverID
}

// Actor returns the administrator performing the reassignment.
func (c ReassignParcelCommand) Actor() kernel.Actor {
	return c.actor
}

// Notes returns the optional note recorded on the ledger entry.
func (c ReassignParcelCommand) Notes() string {
	return c.notes
}

func (c *ReassignParcelCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}
	c.parcelID = parcelID
	return nil
}

func (c *ReassignParcelCommand) setNewDriverID(newDriverID kernel.UUID) error {
	if err := newDriverID.Validate(); err != nil {
		return err
	}
	c.newDriverID = newDriverID
	return nil
}

func (c *ReassignParcelCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}
