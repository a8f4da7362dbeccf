package commands

import (
	"errors"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/guard"
)

var ErrCancelParcelCommandIsNotConstructed = errors.New(
	"CancelParcelCommand must be created via NewCancelParcelCommand constructor",
)

// CancelParcelCommand represents a request to abort a delivery. Senders may
// cancel while the parcel is still pending or assigned; administrators may
// cancel from any non-terminal state.
type CancelParcelCommand struct { //nolint:recvcheck //using for validation
	parcelID kernel.UUID
	actor    kernel.Actor
	reason   string

	guard guard.ConstructorGuard
}

// NewCancelParcelCommand creates a command to cancel a parcel. The reason is
// recorded on the ledger entry and may be empty.
func NewCancelParcelCommand(parcelID kernel.UUID, actor kernel.Actor, reason string) (CancelParcelCommand, error) {
	cmd := CancelParcelCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setActor(actor),
	); err != nil {
		return CancelParcelCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelParcelCommand) Validate() error {
	return c.guard.Validate(ErrCancelParcelCommandIsNotConstructed)
}

// ParcelID returns the parcel to cancel.
func (c CancelParcelCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// Actor returns the actor requesting the cancellation.
func (c CancelParcelCommand) Actor() kernel.Actor {
	return c.actor
}

// Reason returns the optional cancellation reason.
func (c CancelParcelCommand) Reason() string {
	return c.reason
}

func (c *CancelParcelCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}
	c.parcelID = parcelID
	return nil
}

func (c *CancelParcelCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}
