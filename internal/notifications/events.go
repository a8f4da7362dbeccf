package notifications

import (
	"time"

	"parcelflow/internal/core/domain/model/kernel"
)

// Event kinds carried by ParcelEvent. The kind selects the message wording;
// the fan-out channels are the same for every kind.
const (
	EventCreated       = "parcel_created"
	EventAssigned      = "parcel_assigned"
	EventReassigned    = "parcel_reassigned"
	EventStatusChanged = "parcel_status_changed"
	EventDelivered     = "parcel_delivered"
	EventCompleted     = "parcel_completed"
	EventCancelled     = "parcel_cancelled"
)

// ParcelEvent is the notification payload emitted after a lifecycle change
// commits. It is a flat snapshot: the dispatcher and its sinks never reach
// back into storage, so a slow or failing channel cannot hold locks or see
// torn state.
type ParcelEvent struct {
	Kind           string
	ParcelID       kernel.UUID
	TrackingNumber string
	Status         string
	PreviousStatus string

	SenderAccountID    *kernel.UUID
	SenderName         string
	SenderEmail        string
	RecipientAccountID *kernel.UUID
	RecipientName      string
	RecipientEmail     string
	DriverID           *kernel.UUID

	Notes      string
	OccurredAt time.Time
}

// Accounts returns the registered account ids interested in this event:
// sender, recipient, and driver, deduplicated, in that order.
func (e ParcelEvent) Accounts() []kernel.UUID {
	seen := make(map[string]bool, 3)
	var accounts []kernel.UUID
	for _, id := range []*kernel.UUID{e.SenderAccountID, e.RecipientAccountID, e.DriverID} {
		if id == nil || seen[id.String()] {
			continue
		}
		seen[id.String()] = true
		accounts = append(accounts, *id)
	}
	return accounts
}

// MailRecipients returns the email addresses to notify, deduplicated.
func (e ParcelEvent) MailRecipients() []string {
	seen := make(map[string]bool, 2)
	var recipients []string
	for _, addr := range []string{e.SenderEmail, e.RecipientEmail} {
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		recipients = append(recipients, addr)
	}
	return recipients
}
