// Package notifications implements the best-effort fan-out of parcel
// lifecycle events to the configured channels: email, in-app notifications,
// live broadcast, and the message broker.
//
// Channel failures are isolated from each other and from the caller: a
// committed lifecycle change is never rolled back or retried because a
// notification could not be delivered. Failures are logged and dropped.
package notifications
