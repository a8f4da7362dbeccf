package driver

import (
	"errors"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

// Domain errors for driver operations.
var (
	// ErrNameIsRequired is returned when attempting to create a driver without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrDriverIsNotConstructed is returned when using an improperly initialized Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")
	// ErrDriverIsInactive is returned when binding work to a driver whose
	// availability flag is off.
	ErrDriverIsInactive = errors.New("driver is not active")
)

// Driver represents a courier account eligible to carry parcels.
//
// The aggregate owns the availability flag that the assignment paths consult:
// a parcel may only be bound to a driver whose isActive flag is on, and the
// flag is mutated exclusively through MarkActive/MarkInactive so the
// repository can persist it with an atomic check-then-set. Drivers never
// mutate parcels directly; they fire transitions through the engine like any
// other actor.
type Driver struct {
	// id uniquely identifies the driver; it doubles as the actor id when the
	// driver fires transitions
	id kernel.UUID
	// name is the human-readable name of the driver
	name string
	// email is the driver's notification address, possibly empty
	email string
	// phone is the driver's contact number, possibly empty
	phone string
	// isActive is the availability flag consulted by assignment
	isActive bool
	// version is the optimistic concurrency token
	version int64
	// guard ensures the driver was properly constructed
	guard guard.ConstructorGuard
}

// NewDriver creates an active driver with the given identity and contact details.
func NewDriver(id kernel.UUID, name, email, phone string) (*Driver, error) {
	d := &Driver{
		isActive: true,
		version:  1,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
	); err != nil {
		return nil, err
	}

	d.email = email
	d.phone = phone
	return d, nil
}

// RestoreDriver reconstructs a driver aggregate from persistent storage.
func RestoreDriver(id kernel.UUID, name, email, phone string, isActive bool, version int64) (*Driver, error) {
	d, err := NewDriver(id, name, email, phone)
	if err != nil {
		return nil, err
	}

	d.isActive = isActive
	d.version = version
	return d, nil
}

// Validate ensures the driver was created through a constructor.
func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID {
	return d.id
}

// Name returns the driver's name.
func (d *Driver) Name() string {
	return d.name
}

// Email returns the driver's notification address, possibly empty.
func (d *Driver) Email() string {
	return d.email
}

// Phone returns the driver's contact number, possibly empty.
func (d *Driver) Phone() string {
	return d.phone
}

// IsActive reports the availability flag consulted by assignment.
func (d *Driver) IsActive() bool {
	return d.isActive
}

// Version returns the optimistic concurrency token.
func (d *Driver) Version() int64 {
	return d.version
}

// EnsureAssignable returns ErrDriverIsInactive when the driver cannot accept
// new parcels. The check only holds for the transaction when the aggregate
// was read with a row lock (GetForUpdate).
func (d *Driver) EnsureAssignable() error {
	if err := d.Validate(); err != nil {
		return err
	}
	if !d.isActive {
		return ErrDriverIsInactive
	}
	return nil
}

// MarkActive turns the availability flag on.
func (d *Driver) MarkActive() {
	if !d.isActive {
		d.isActive = true
		d.version++
	}
}

// MarkInactive turns the availability flag off. Parcels already bound to the
// driver are unaffected; only new assignments are blocked.
func (d *Driver) MarkInactive() {
	if d.isActive {
		d.isActive = false
		d.version++
	}
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	d.name = name
	return nil
}
