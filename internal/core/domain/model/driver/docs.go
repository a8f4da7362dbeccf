// Package driver provides the Driver aggregate: a courier account with the
// availability flag consulted by parcel assignment.
//
// The availability flag is intentionally narrow: it is owned by this
// aggregate, flipped only through MarkActive/MarkInactive, and re-checked
// atomically by the repository at assignment time so that two concurrent
// assignments cannot both observe a stale value.
package driver
