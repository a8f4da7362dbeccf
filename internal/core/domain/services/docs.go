// Package services contains stateless domain services: the fee calculator
// that prices a parcel at creation time, and the transition engine that
// validates and applies status changes under the per-role rules.
//
// Services in this package are pure. They take aggregates and value objects,
// mutate or compute, and return results; persistence and notification
// dispatch belong to the application layer.
package services
