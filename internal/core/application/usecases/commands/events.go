package commands

import (
	"time"

	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/notifications"
)

// newParcelEvent snapshots an aggregate into a notification payload after its
// transaction committed. previousStatus is the status before the change, or
// the current status for creation events.
func newParcelEvent(
	kind string,
	p *parcel.Parcel,
	previousStatus parcel.Status,
	notes string,
	occurredAt time.Time,
) notifications.ParcelEvent {
	return notifications.ParcelEvent{
		Kind:               kind,
		ParcelID:           p.ID(),
		TrackingNumber:     p.TrackingNumber(),
		Status:             p.Status().String(),
		PreviousStatus:     previousStatus.String(),
		SenderAccountID:    p.Sender().AccountID(),
		SenderName:         p.Sender().Name(),
		SenderEmail:        p.Sender().Email(),
		RecipientAccountID: p.Recipient().AccountID(),
		RecipientName:      p.Recipient().Name(),
		RecipientEmail:     p.Recipient().Email(),
		DriverID:           p.Driver(),
		Notes:              notes,
		OccurredAt:         occurredAt,
	}
}
