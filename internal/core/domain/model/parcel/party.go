package parcel

import (
	"errors"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

// ErrPartyRefIsNotConstructed is returned when using an improperly initialized PartyRef.
var ErrPartyRefIsNotConstructed = errors.New(
	"PartyRef must be created via NewRegisteredParty or NewAnonymousParty constructors")

// ErrPartyContactIsRequired is returned when a party reference carries neither
// an account identifier nor a name.
var ErrPartyContactIsRequired = errs.NewValueIsRequiredError(
	"party requires an account id or at least a name")

// PartyRef is a weak reference to a sender or recipient: an optional account
// identifier plus denormalized contact fields captured at parcel creation.
// The referenced party may not correspond to a registered account at all --
// a sender can address a parcel to anyone -- so the contact fields are kept
// even when an account id is present.
//
// Matching a PartyRef to an authenticated actor is ID-first: refs with an
// account id match only on that id. Name/email matching applies exclusively
// to anonymous refs (no account id), so two registered accounts that happen
// to share a name can never cross-match.
//
// PartyRef is an immutable value object.
type PartyRef struct { //nolint:recvcheck //using for validation
	accountID *kernel.UUID
	name      string
	email     string
	phone     string
	guard     guard.ConstructorGuard
}

// NewRegisteredParty creates a reference to a registered account, keeping the
// denormalized contact fields alongside the id.
func NewRegisteredParty(accountID kernel.UUID, name, email, phone string) (PartyRef, error) {
	if err := accountID.Validate(); err != nil {
		return PartyRef{}, err
	}

	return PartyRef{
		accountID: &accountID,
		name:      name,
		email:     email,
		phone:     phone,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// NewAnonymousParty creates a reference to a party without a registered
// account. The name is required; email and phone are optional contact points
// for notifications.
func NewAnonymousParty(name, email, phone string) (PartyRef, error) {
	if name == "" {
		return PartyRef{}, ErrPartyContactIsRequired
	}

	return PartyRef{
		name:  name,
		email: email,
		phone: phone,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// AccountID returns the referenced account identifier, or nil for anonymous parties.
func (p PartyRef) AccountID() *kernel.UUID {
	return p.accountID
}

// Name returns the denormalized display name captured at creation.
func (p PartyRef) Name() string {
	return p.name
}

// Email returns the denormalized email address, possibly empty.
func (p PartyRef) Email() string {
	return p.email
}

// Phone returns the denormalized phone number, possibly empty.
func (p PartyRef) Phone() string {
	return p.phone
}

// IsRegistered reports whether the reference points at a registered account.
func (p PartyRef) IsRegistered() bool {
	return p.accountID != nil
}

// Matches reports whether the given account identity resolves to this party.
// Registered refs match on account id only. Anonymous refs never match an
// authenticated identity by id; callers fall back to MatchesContact for
// pre-registration records.
func (p PartyRef) Matches(accountID kernel.UUID) bool {
	return p.accountID != nil && p.accountID.IsEqual(accountID)
}

// MatchesContact reports whether an anonymous reference matches the given
// contact details. Registered refs always return false here: their identity
// is their account id.
func (p PartyRef) MatchesContact(name, email string) bool {
	if p.accountID != nil {
		return false
	}
	if email != "" && p.email != "" {
		return p.email == email
	}
	return name != "" && p.name == name
}

// Validate checks that the reference was created through a constructor and
// carries enough identity to be resolvable.
func (p PartyRef) Validate() error {
	if err := p.guard.Validate(ErrPartyRefIsNotConstructed); err != nil {
		return err
	}
	if p.accountID == nil && p.name == "" {
		return ErrPartyContactIsRequired
	}
	return nil
}
