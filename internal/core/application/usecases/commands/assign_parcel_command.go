package commands

import (
	"errors"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/guard"
)

var ErrAssignParcelCommandIsNotConstructed = errors.New(
	"AssignParcelCommand must be created via NewAssignParcelCommand constructor",
)

// AssignParcelCommand represents a request to bind a specific driver to a
// specific pending parcel. Used both by administrators and by the
// auto-assignment job acting as the system account.
type AssignParcelCommand struct { //nolint:recvcheck //using for validation
	parcelID kernel.UUID
	driverID kernel.UUID
	actor    kernel.Actor
	notes    string

	guard guard.ConstructorGuard
}

// NewAssignParcelCommand creates a command to assign a driver to a parcel.
func NewAssignParcelCommand(
	parcelID kernel.UUID,
	driverID kernel.UUID,
	actor kernel.Actor,
	notes string,
) (AssignParcelCommand, error) {
	cmd := AssignParcelCommand{
		notes: notes,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setDriverID(driverID),
		cmd.setActor(actor),
	); err != nil {
		return AssignParcelCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignParcelCommand) Validate() error {
	return c.guard.Validate(ErrAssignParcelCommandIsNotConstructed)
}

// ParcelID returns the parcel to assign.
func (c AssignParcelCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// DriverID returns the driver to bind.
func (c AssignParcelCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Actor returns the actor performing the assignment.
func (c AssignParcelCommand) Actor() kernel.Actor {
	return c.actor
}

// Notes returns the optional note recorded on the ledger entry.
func (c AssignParcelCommand) Notes() string {
	return c.notes
}

func (c *AssignParcelCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}
	c.parcelID = parcelID
	return nil
}

func (c *AssignParcelCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	c.driverID = driverID
	return nil
}

func (c *AssignParcelCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}
