// Package kernel provides shared value objects used across all domain
// aggregates in the parcel delivery system.
//
// The package includes:
//   - UUID: validated entity identifier wrapping github.com/google/uuid
//   - Role and Actor: the authenticated identity context for every operation
//   - Location: optional place information attached to status changes
//
// All types follow the value-object conventions of the domain layer: private
// fields, factory constructors that validate their inputs, a Validate method
// for use when reconstructing from persistence, and immutability after
// construction.
package kernel
