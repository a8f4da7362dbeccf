package commands

import (
	"errors"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/guard"
)

var ErrMarkCompletedCommandIsNotConstructed = errors.New(
	"MarkCompletedCommand must be created via NewMarkCompletedCommand constructor",
)

// MarkCompletedCommand represents the request to close out a delivered
// parcel. Fired by the recipient or an administrator.
type MarkCompletedCommand struct { //nolint:recvcheck //using for validation
	parcelID kernel.UUID
	actor    kernel.Actor
	notes    string

	guard guard.ConstructorGuard
}

// NewMarkCompletedCommand creates a command to complete a delivered parcel.
func NewMarkCompletedCommand(parcelID kernel.UUID, actor kernel.Actor, notes string) (MarkCompletedCommand, error) {
	cmd := MarkCompletedCommand{
		notes: notes,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setActor(actor),
	); err != nil {
		return MarkCompletedCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkCompletedCommand) Validate() error {
	return c.guard.Validate(ErrMarkCompletedCommandIsNotConstructed)
}

// ParcelID returns the parcel to complete.
func (c MarkCompletedCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// Actor returns the actor closing out the parcel.
func (c MarkCompletedCommand) Actor() kernel.Actor {
	return c.actor
}

// Notes returns the optional note recorded on the ledger entry.
func (c MarkCompletedCommand) Notes() string {
	return c.notes
}

func (c *MarkCompletedCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}
	c.parcelID = parcelID
	return nil
}

func (c *MarkCompletedCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}
