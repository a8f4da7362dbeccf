package parcel

import (
	"errors"
	"fmt"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

// Domain errors for parcel operations.
var (
	// ErrParcelIsNotConstructed is returned when a Parcel instance was not
	// created through NewParcel or RestoreParcel.
	ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel constructor")
	// ErrPickupAddressIsRequired is returned when creating a parcel without a pickup address.
	ErrPickupAddressIsRequired = errs.NewValueIsRequiredError("pickupAddress")
	// ErrDeliveryAddressIsRequired is returned when creating a parcel without a delivery address.
	ErrDeliveryAddressIsRequired = errs.NewValueIsRequiredError("deliveryAddress")
	// ErrWeightIsInvalid is returned when creating a parcel with non-positive weight.
	ErrWeightIsInvalid = errs.NewValueIsInvalidError("weightKg must be greater than 0")
	// ErrFeeIsInvalid is returned when creating a parcel with a negative fee.
	ErrFeeIsInvalid = errs.NewValueIsInvalidError("fee must not be negative")
	// ErrParcelIsDeleted is returned when mutating a soft-deleted parcel.
	ErrParcelIsDeleted = errors.New("parcel is deleted")
)

// Parcel is the aggregate root of the delivery lifecycle. It owns the parcel's
// identity, its weak references to the sender and recipient, the driver
// binding, and the status state machine from creation through completion.
//
// Parcel follows these invariants:
//   - Status transitions follow the fixed graph in Status
//   - At most one active driver; assignment requires pending + unassigned
//   - Fee is computed once at creation and never recomputed
//   - Soft-deleted parcels (tombstone timestamp) reject further mutation
//   - Version increments on every mutation, backing optimistic check-then-set
//     writes in the repository
//
// All mutation goes through the methods below; persistence reconstructs
// aggregates with RestoreParcel. Role-based rights for firing an edge are
// enforced by the transition engine, not here.
type Parcel struct {
	// id is the unique identifier for the parcel
	id kernel.UUID

	// trackingNumber is the unique public identifier, issued at creation
	trackingNumber string

	// status is the current state in the delivery lifecycle
	status Status

	// sender is a weak reference to the sending party
	sender PartyRef

	// recipient is a weak reference to the receiving party
	recipient PartyRef

	// driverID is the bound driver's account id (nil while unassigned)
	driverID *kernel.UUID

	// pickupAddress and deliveryAddress are the endpoints of the delivery
	pickupAddress   string
	deliveryAddress string

	// weightKg is the parcel weight in kilograms
	weightKg float64

	// fee is the delivery fee, fixed at creation
	fee float64

	// assignedAt records when the current driver binding was made
	assignedAt *time.Time

	// pickup/delivery estimates and actuals
	estimatedPickupAt   *time.Time
	actualPickupAt      *time.Time
	estimatedDeliveryAt *time.Time
	actualDeliveryAt    *time.Time

	// deliveredToRecipient flags that the handoff happened at least once
	deliveredToRecipient bool

	// delivery confirmation captured from the recipient
	signature   string
	confirmedBy string
	confirmedAt *time.Time

	// version is the optimistic concurrency token; incremented on mutation
	version int64

	// deletedAt is the soft-delete tombstone (nil while active)
	deletedAt *time.Time

	// guard ensures the parcel was properly constructed
	guard guard.ConstructorGuard
}

// NewParcel creates a parcel in pending status with no driver bound.
// The fee must already be computed (see services.FeeCalculator); it is fixed
// here and never recomputed. The tracking number must have been
// collision-checked by the caller.
func NewParcel(
	id kernel.UUID,
	trackingNumber string,
	sender PartyRef,
	recipient PartyRef,
	pickupAddress string,
	deliveryAddress string,
	weightKg float64,
	fee float64,
	estimatedPickupAt *time.Time,
	estimatedDeliveryAt *time.Time,
) (*Parcel, error) {
	p := &Parcel{
		status:              StatusPending,
		estimatedPickupAt:   estimatedPickupAt,
		estimatedDeliveryAt: estimatedDeliveryAt,
		version:             1,
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setTrackingNumber(trackingNumber),
		p.setSender(sender),
		p.setRecipient(recipient),
		p.setPickupAddress(pickupAddress),
		p.setDeliveryAddress(deliveryAddress),
		p.setWeight(weightKg),
		p.setFee(fee),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreParcel reconstructs a parcel aggregate from persistent storage,
// including its driver binding, timestamps, confirmation fields, version
// token, and soft-delete tombstone. The restored parcel behaves identically
// to one mutated through normal domain operations.
func RestoreParcel(
	id kernel.UUID,
	trackingNumber string,
	status Status,
	sender PartyRef,
	recipient PartyRef,
	driverID *kernel.UUID,
	pickupAddress string,
	deliveryAddress string,
	weightKg float64,
	fee float64,
	assignedAt *time.Time,
	estimatedPickupAt *time.Time,
	actualPickupAt *time.Time,
	estimatedDeliveryAt *time.Time,
	actualDeliveryAt *time.Time,
	deliveredToRecipient bool,
	signature string,
	confirmedBy string,
	confirmedAt *time.Time,
	version int64,
	deletedAt *time.Time,
) (*Parcel, error) {
	p, err := NewParcel(id, trackingNumber, sender, recipient,
		pickupAddress, deliveryAddress, weightKg, fee, estimatedPickupAt, estimatedDeliveryAt)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if driverID != nil {
		if err = driverID.Validate(); err != nil {
			return nil, err
		}
	}
	if version < 1 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("parcel",
			fmt.Errorf("%d is not a valid version", version))
	}

	p.status = status
	p.driverID = driverID
	p.assignedAt = assignedAt
	p.actualPickupAt = actualPickupAt
	p.actualDeliveryAt = actualDeliveryAt
	p.deliveredToRecipient = deliveredToRecipient
	p.signature = signature
	p.confirmedBy = confirmedBy
	p.confirmedAt = confirmedAt
	p.version = version
	p.deletedAt = deletedAt
	return p, nil
}

// Validate ensures the Parcel instance was properly constructed.
// Call when reconstructing parcels from persistence to ensure integrity.
func (p *Parcel) Validate() error {
	if p == nil {
		return ErrParcelIsNotConstructed
	}
	return p.guard.Validate(ErrParcelIsNotConstructed)
}

// IsEqual compares two parcels by their unique identifiers.
func (p *Parcel) IsEqual(other *Parcel) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the parcel's unique identifier.
func (p *Parcel) ID() kernel.UUID {
	return p.id
}

// TrackingNumber returns the parcel's public tracking number.
func (p *Parcel) TrackingNumber() string {
	return p.trackingNumber
}

// Status returns the current status of the parcel.
func (p *Parcel) Status() Status {
	return p.status
}

// Sender returns the weak reference to the sending party.
func (p *Parcel) Sender() PartyRef {
	return p.sender
}

// Recipient returns the weak reference to the receiving party.
func (p *Parcel) Recipient() PartyRef {
	return p.recipient
}

// Driver returns the bound driver's id, or nil while unassigned.
func (p *Parcel) Driver() *kernel.UUID {
	return p.driverID
}

// PickupAddress returns the pickup address.
func (p *Parcel) PickupAddress() string {
	return p.pickupAddress
}

// DeliveryAddress returns the delivery address.
func (p *Parcel) DeliveryAddress() string {
	return p.deliveryAddress
}

// WeightKg returns the parcel weight in kilograms.
func (p *Parcel) WeightKg() float64 {
	return p.weightKg
}

// Fee returns the delivery fee fixed at creation.
func (p *Parcel) Fee() float64 {
	return p.fee
}

// AssignedAt returns when the current driver binding was made, or nil.
func (p *Parcel) AssignedAt() *time.Time {
	return p.assignedAt
}

// EstimatedPickupAt returns the estimated pickup time, or nil.
func (p *Parcel) EstimatedPickupAt() *time.Time {
	return p.estimatedPickupAt
}

// ActualPickupAt returns when the parcel was first picked up, or nil.
func (p *Parcel) ActualPickupAt() *time.Time {
	return p.actualPickupAt
}

// EstimatedDeliveryAt returns the estimated delivery time, or nil.
func (p *Parcel) EstimatedDeliveryAt() *time.Time {
	return p.estimatedDeliveryAt
}

// ActualDeliveryAt returns when the parcel was first handed over, or nil.
func (p *Parcel) ActualDeliveryAt() *time.Time {
	return p.actualDeliveryAt
}

// DeliveredToRecipient reports whether the handoff to the recipient happened.
func (p *Parcel) DeliveredToRecipient() bool {
	return p.deliveredToRecipient
}

// Signature returns the captured delivery signature, possibly empty.
func (p *Parcel) Signature() string {
	return p.signature
}

// ConfirmedBy returns who confirmed the delivery, possibly empty.
func (p *Parcel) ConfirmedBy() string {
	return p.confirmedBy
}

// ConfirmedAt returns when the delivery was confirmed, or nil.
func (p *Parcel) ConfirmedAt() *time.Time {
	return p.confirmedAt
}

// Version returns the optimistic concurrency token.
func (p *Parcel) Version() int64 {
	return p.version
}

// DeletedAt returns the soft-delete tombstone, or nil while active.
func (p *Parcel) DeletedAt() *time.Time {
	return p.deletedAt
}

// IsDeleted reports whether the parcel carries a soft-delete tombstone.
func (p *Parcel) IsDeleted() bool {
	return p.deletedAt != nil
}

// Assign binds the parcel to a driver and moves it pending -> assigned.
//
// Business rules:
//   - The parcel must not be soft-deleted
//   - A parcel already bound to a driver fails with a Conflict; the existing
//     binding is retained
//   - The graph permits assignment only from pending
//
// Assignment never advances status past assigned; the driver must explicitly
// report the pickup.
func (p *Parcel) Assign(driverID kernel.UUID, now time.Time) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if err := driverID.Validate(); err != nil {
		return err
	}
	if p.driverID != nil {
		return errs.NewConflictErrorWithCause("parcel", p.id.String(),
			fmt.Errorf("already assigned to driver %s", p.driverID))
	}

	newStatus, err := p.status.TransitionTo(StatusAssigned)
	if err != nil {
		return err
	}

	p.status = newStatus
	p.driverID = &driverID
	p.assignedAt = &now
	p.version++
	return nil
}

// Reassign rebinds the parcel to a new driver and re-enters assigned.
// Administrator-only at the application layer; the aggregate enforces that a
// driver is currently bound and the parcel has not reached the handoff.
//
// Reassignment is the one path that re-enters assigned from a later state:
// it is allowed from assigned, picked_up, and in_transit.
func (p *Parcel) Reassign(newDriverID kernel.UUID, now time.Time) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if err := newDriverID.Validate(); err != nil {
		return err
	}
	if p.driverID == nil {
		return errs.NewInvalidTransitionErrorWithCause(p.status.String(), StatusAssigned.String(),
			errors.New("parcel has no driver to reassign"))
	}

	switch p.status {
	case StatusAssigned, StatusPickedUp, StatusInTransit:
		// reassignable
	default:
		return errs.NewInvalidTransitionError(p.status.String(), StatusAssigned.String())
	}

	p.status = StatusAssigned
	p.driverID = &newDriverID
	p.assignedAt = &now
	p.version++
	return nil
}

// ChangeStatus applies a requested status transition and maintains the
// derived timestamps:
//   - the first picked_up sets the actual pickup time
//   - the first delivered_to_recipient sets the actual delivery time and the
//     delivered-to-recipient flag
//
// The transition must be an edge of the graph; terminal states reject every
// change. Role rights are checked by the transition engine before calling in.
func (p *Parcel) ChangeStatus(to Status, now time.Time) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}

	newStatus, err := p.status.TransitionTo(to)
	if err != nil {
		return err
	}

	p.status = newStatus
	switch newStatus {
	case StatusPickedUp:
		if p.actualPickupAt == nil {
			p.actualPickupAt = &now
		}
	case StatusDeliveredToRecipient:
		if p.actualDeliveryAt == nil {
			p.actualDeliveryAt = &now
		}
		p.deliveredToRecipient = true
	default:
	}
	p.version++
	return nil
}

// ConfirmDelivery moves delivered_to_recipient -> delivered, capturing the
// recipient's confirmation. Signature and confirmedBy may be empty when the
// recipient declines to sign.
func (p *Parcel) ConfirmDelivery(signature, confirmedBy string, now time.Time) error {
	if err := p.ChangeStatus(StatusDelivered, now); err != nil {
		return err
	}

	p.signature = signature
	p.confirmedBy = confirmedBy
	p.confirmedAt = &now
	return nil
}

// MarkCompleted moves delivered -> completed, closing out the lifecycle.
func (p *Parcel) MarkCompleted(now time.Time) error {
	return p.ChangeStatus(StatusCompleted, now)
}

// Cancel aborts the delivery from any non-terminal state.
// Attempts from completed or cancelled always fail and leave state untouched.
func (p *Parcel) Cancel(now time.Time) error {
	return p.ChangeStatus(StatusCancelled, now)
}

// SoftDelete marks the parcel with a tombstone timestamp. Soft-deleted
// parcels are excluded from active queries and reject further mutation;
// the row itself is never removed.
func (p *Parcel) SoftDelete(now time.Time) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}

	p.deletedAt = &now
	p.version++
	return nil
}

func (p *Parcel) ensureMutable() error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.IsDeleted() {
		return ErrParcelIsDeleted
	}
	return nil
}

func (p *Parcel) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Parcel) setTrackingNumber(trackingNumber string) error {
	if err := ValidateTrackingNumber(trackingNumber); err != nil {
		return err
	}
	p.trackingNumber = trackingNumber
	return nil
}

func (p *Parcel) setSender(sender PartyRef) error {
	if err := sender.Validate(); err != nil {
		return err
	}
	p.sender = sender
	return nil
}

func (p *Parcel) setRecipient(recipient PartyRef) error {
	if err := recipient.Validate(); err != nil {
		return err
	}
	p.recipient = recipient
	return nil
}

func (p *Parcel) setPickupAddress(address string) error {
	if address == "" {
		return ErrPickupAddressIsRequired
	}
	p.pickupAddress = address
	return nil
}

func (p *Parcel) setDeliveryAddress(address string) error {
	if address == "" {
		return ErrDeliveryAddressIsRequired
	}
	p.deliveryAddress = address
	return nil
}

func (p *Parcel) setWeight(weightKg float64) error {
	if weightKg <= 0 {
		return ErrWeightIsInvalid
	}
	p.weightKg = weightKg
	return nil
}

func (p *Parcel) setFee(fee float64) error {
	if fee < 0 {
		return ErrFeeIsInvalid
	}
	p.fee = fee
	return nil
}
