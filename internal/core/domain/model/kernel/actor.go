package kernel

import (
	"fmt"

	"parcelflow/internal/pkg/errs"
)

// Role is the closed set of actors that may request parcel state changes.
// Each role is permitted a different subset of transition-graph edges; the
// transition engine consults the role when validating a requested change.
//
// Role is a value object that validates itself and provides string
// representations for persistence and transport.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	// This value (0) helps catch uninitialized Role values.
	RoleUnknown Role = iota

	// RoleSender is the customer who created the parcel. Senders may only
	// request cancellation while the parcel is still pending or assigned.
	RoleSender

	// RoleRecipient is the party the parcel is addressed to. Recipients confirm
	// delivery and mark parcels completed.
	RoleRecipient

	// RoleDriver is the courier bound to the parcel. Drivers fire the pickup
	// and transit edges, but only on parcels assigned to them.
	RoleDriver

	// RoleAdmin is the back-office operator. Admins assign, reassign, and may
	// cancel from any non-terminal state.
	RoleAdmin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:   "unknown",
		RoleSender:    "sender",
		RoleRecipient: "recipient",
		RoleDriver:    "driver",
		RoleAdmin:     "admin",
	}
}

func getValidRoleStrings() map[Role]string {
	//nolint:exhaustive // RoleUnknown is intentionally excluded as it's invalid
	return map[Role]string{
		RoleSender:    "sender",
		RoleRecipient: "recipient",
		RoleDriver:    "driver",
		RoleAdmin:     "admin",
	}
}

// Validate checks if the Role value is one of the four valid roles.
// RoleUnknown (0) and any other values are invalid.
func (r Role) Validate() error {
	if _, ok := getValidRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role is invalid",
			fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the lowercase name of the role, or "unknown" for invalid values.
// Implements fmt.Stringer and is safe to call on any Role value.
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// RoleFromString parses a role from its lowercase string representation.
// This is the inverse of String for the four valid roles.
func RoleFromString(s string) (Role, error) {
	for role, str := range getValidRoleStrings() {
		if str == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role is invalid",
		fmt.Errorf("%q is not a valid role", s))
}

// ErrActorIsNotConstructed is returned when using an improperly initialized Actor.
var ErrActorIsNotConstructed = errs.NewValueIsRequiredError(
	"actor must be created via NewActor constructor")

// Actor is the already-authenticated identity on whose behalf an operation
// runs. The core trusts this context and performs no credential verification;
// it only enforces what the role may do to which parcel.
//
// Actor is an immutable value object.
type Actor struct {
	id   UUID
	role Role
}

// NewActor creates an Actor from an identity and a role.
// Both must be valid; role rights are checked later, per edge, by the
// transition engine.
func NewActor(id UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}

	return Actor{id: id, role: role}, nil
}

// ID returns the actor's account identifier.
func (a Actor) ID() UUID {
	return a.id
}

// Role returns the actor's role.
func (a Actor) Role() Role {
	return a.role
}

// IsAdmin reports whether the actor holds the administrator role.
func (a Actor) IsAdmin() bool {
	return a.role == RoleAdmin
}

// Validate checks that the actor was created through NewActor with a valid
// identity and role.
func (a Actor) Validate() error {
	if err := a.id.Validate(); err != nil {
		return ErrActorIsNotConstructed
	}
	return a.role.Validate()
}
