// Package parcel provides domain entities and business logic for the parcel
// delivery lifecycle. It implements the Parcel aggregate root with lifecycle
// management and state transitions.
//
// The package includes:
//   - Parcel: the aggregate root managing identity, party references, the
//     driver binding, fee, timestamps, and the delivery lifecycle
//   - Status: a state machine over the fixed eight-state transition graph
//   - PartyRef: a weak reference to a sender or recipient that may not be a
//     registered account
//   - HistoryEntry: one immutable row of the append-only status ledger
//   - Tracking number generation and validation
//
// Key business rules:
//   - Status transitions follow the fixed graph; completed and cancelled are
//     terminal
//   - A parcel has at most one active driver; assignment requires pending
//     status with no driver bound
//   - The fee is computed once at creation and never recomputed
//   - Every accepted transition produces exactly one ledger entry
//   - Parcels are soft-deleted via a tombstone timestamp, never hard-deleted
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are
// enforced. Role-based rights for firing a transition edge are layered on top
// by the transition engine in the services package.
package parcel
