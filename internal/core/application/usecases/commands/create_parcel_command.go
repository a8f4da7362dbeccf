package commands

import (
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/pkg/guard"
)

var (
	ErrCreateParcelCommandIsNotConstructed = errors.New(
		"CreateParcelCommand must be created via NewCreateParcelCommand constructor",
	)
)

// CreateParcelCommand represents a request to register a new parcel for
// delivery. The sender and recipient references must already be constructed;
// the fee and tracking number are produced by the handler, never supplied by
// the caller.
//
// Example:
//
//	sender, _ := parcel.NewRegisteredParty(accountID, "Alice", "alice@example.com", "")
//	recipient, _ := parcel.NewAnonymousParty("Bob", "bob@example.com", "")
//	cmd, err := NewCreateParcelCommand(kernel.NewUUID(), accountID, sender, recipient,
//	    "12 Oak Lane", "7 Elm Street", 5, nil, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid parcel data: %w", err)
//	}
type CreateParcelCommand struct { //nolint:recvcheck //using for validation
	parcelID            kernel.UUID
	createdBy           kernel.UUID
	sender              parcel.PartyRef
	recipient           parcel.PartyRef
	pickupAddress       string
	deliveryAddress     string
	weightKg            float64
	estimatedPickupAt   *time.Time
	estimatedDeliveryAt *time.Time

	guard guard.ConstructorGuard
}

// NewCreateParcelCommand creates a command to register a new parcel.
// Validates identifiers and party references; address and weight rules are
// enforced again by the aggregate constructor.
func NewCreateParcelCommand(
	parcelID kernel.UUID,
	createdBy kernel.UUID,
	sender parcel.PartyRef,
	recipient parcel.PartyRef,
	pickupAddress string,
	deliveryAddress string,
	weightKg float64,
	estimatedPickupAt *time.Time,
	estimatedDeliveryAt *time.Time,
) (CreateParcelCommand, error) {
	cmd := CreateParcelCommand{
		pickupAddress:       pickupAddress,
		deliveryAddress:     deliveryAddress,
		weightKg:            weightKg,
		estimatedPickupAt:   estimatedPickupAt,
		estimatedDeliveryAt: estimatedDeliveryAt,
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setParcelID(parcelID),
		cmd.setCreatedBy(createdBy),
		cmd.setSender(sender),
		cmd.setRecipient(recipient),
	); err != nil {
		return CreateParcelCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateParcelCommand) Validate() error {
	return c.guard.Validate(ErrCreateParcelCommandIsNotConstructed)
}

// ParcelID returns the unique identifier for the new parcel.
func (c CreateParcelCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// CreatedBy returns the account id of the actor registering the parcel.
func (c CreateParcelCommand) CreatedBy() kernel.UUID {
	return c.createdBy
}

// Sender returns the sending party reference.
func (c CreateParcelCommand) Sender() parcel.PartyRef {
	return c.sender
}

// Recipient returns the receiving party reference.
func (c CreateParcelCommand) Recipient() parcel.PartyRef {
	return c.recipient
}

// PickupAddress returns the collection address.
func (c CreateParcelCommand) PickupAddress() string {
	return c.pickupAddress
}

// DeliveryAddress returns the destination address.
func (c CreateParcelCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

// WeightKg returns the parcel weight in kilograms.
func (c CreateParcelCommand) WeightKg() float64 {
	return c.weightKg
}

// EstimatedPickupAt returns the optional pickup estimate.
func (c CreateParcelCommand) EstimatedPickupAt() *time.Time {
	return c.estimatedPickupAt
}

// EstimatedDeliveryAt returns the optional delivery estimate.
func (c CreateParcelCommand) EstimatedDeliveryAt() *time.Time {
	return c.estimatedDeliveryAt
}

func (c *CreateParcelCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}
	c.parcelID = parcelID
	return nil
}

func (c *CreateParcelCommand) setCreatedBy(createdBy kernel.UUID) error {
	if err := createdBy.Validate(); err != nil {
		return err
	}
	c.createdBy = createdBy
	return nil
}

func (c *CreateParcelCommand) setSender(sender parcel.PartyRef) error {
	if err := sender.Validate(); err != nil {
		return err
	}
	c.sender = sender
	return nil
}

func (c *CreateParcelCommand) setRecipient(recipient parcel.PartyRef) error {
	if err := recipient.Validate(); err != nil {
		return err
	}
	c.recipient = recipient
	return nil
}
