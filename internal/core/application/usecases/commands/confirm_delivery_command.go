package commands

import (
	"errors"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand represents the recipient's confirmation that the
// parcel was received, optionally carrying a signature. Only the parcel's
// recipient may confirm; the transition engine enforces the match.
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	parcelID    kernel.UUID
	actor       kernel.Actor
	signature   string
	confirmedBy string
	notes       string

	guard guard.ConstructorGuard
}

// NewConfirmDeliveryCommand creates a command to confirm receipt of a parcel.
// signature and confirmedBy may be empty when the recipient declines to sign.
func NewConfirmDeliveryCommand(
	parcelID kernel.UUID,
	actor kernel.Actor,
	signature string,
	confirmedBy string,
	notes string,
) (ConfirmDeliveryCommand, error) {
	cmd := ConfirmDeliveryCommand{
		signature:   signature,
		confirmedBy: confirmedBy,
		notes:       notes,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setActor(actor),
	); err != nil {
		return ConfirmDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

// ParcelID returns the parcel being confirmed.
func (c ConfirmDeliveryCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// Actor returns the confirming recipient.
func (c ConfirmDeliveryCommand) Actor() kernel.Actor {
	return c.actor
}

// Signature returns the optional signature.
func (c ConfirmDeliveryCommand) Signature() string {
	return c.signature
}

// ConfirmedBy returns the optional name of the person who signed.
func (c ConfirmDeliveryCommand) ConfirmedBy() string {
	return c.confirmedBy
}

// Notes returns the optional note recorded on the ledger entry.
func (c ConfirmDeliveryCommand) Notes() string {
	return c.notes
}

func (c *ConfirmDeliveryCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}
	c.parcelID = parcelID
	return nil
}

func (c *ConfirmDeliveryCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}
