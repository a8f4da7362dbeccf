package commands

import (
	"errors"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/pkg/guard"
)

var ErrUpdateStatusCommandIsNotConstructed = errors.New(
	"UpdateStatusCommand must be created via NewUpdateStatusCommand constructor",
)

// UpdateStatusCommand represents a request to move a parcel to a new status
// on behalf of an actor. The transition graph and the actor's rights are
// enforced by the transition engine, not here.
//
// Example:
//
//	actor, _ := kernel.NewActor(driverID, kernel.RoleDriver)
//	loc, _ := kernel.NewLocationWithCoordinates("Hub 3", 52.37, 4.89)
//	cmd, err := NewUpdateStatusCommand(parcelID, parcel.StatusInTransit, actor, &loc, "scanned at hub")
type UpdateStatusCommand struct { //nolint:recvcheck //using for validation
	parcelID  kernel.UUID
	newStatus parcel.Status
	actor     kernel.Actor
	location  *kernel.Location
	notes     string

	guard guard.ConstructorGuard
}

// NewUpdateStatusCommand creates a command to change a parcel's status.
// location may be nil; notes may be empty.
func NewUpdateStatusCommand(
	parcelID kernel.UUID,
	newStatus parcel.Status,
	actor kernel.Actor,
	location *kernel.Location,
	notes string,
) (UpdateStatusCommand, error) {
	cmd := UpdateStatusCommand{
		location: location,
		notes:    notes,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setNewStatus(newStatus),
		cmd.setActor(actor),
		cmd.validateLocation(location),
	); err != nil {
		return UpdateStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateStatusCommandIsNotConstructed)
}

// ParcelID returns the parcel to update.
func (c UpdateStatusCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// NewStatus returns the requested target status.
func (c UpdateStatusCommand) NewStatus() parcel.Status {
	return c.newStatus
}

// Actor returns the actor requesting the change.
func (c UpdateStatusCommand) Actor() kernel.Actor {
	return c.actor
}

// Location returns the optional location recorded on the ledger entry.
func (c UpdateStatusCommand) Location() *kernel.Location {
	return c.location
}

// Notes returns the optional note recorded on the ledger entry.
func (c UpdateStatusCommand) Notes() string {
	return c.notes
}

func (c *UpdateStatusCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}
	c.parcelID = parcelID
	return nil
}

func (c *UpdateStatusCommand) setNewStatus(newStatus parcel.Status) error {
	if err := newStatus.Validate(); err != nil {
		return err
	}
	c.newStatus = newStatus
	return nil
}

func (c *UpdateStatusCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *UpdateStatusCommand) validateLocation(location *kernel.Location) error {
	if location == nil {
		return nil
	}
	return location.Validate()
}
