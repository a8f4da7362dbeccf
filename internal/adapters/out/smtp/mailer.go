// Package smtp implements the email channel of the notification fan-out over
// a plain SMTP relay.
package smtp

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"parcelflow/internal/notifications"
)

// Mailer implements notifications.Mailer on net/smtp. One instance talks to
// one relay; authentication is optional for relays inside the network
// boundary.
type Mailer struct {
	addr string
	from string
	auth smtp.Auth
}

// NewMailer creates a mailer for the given relay. username may be empty to
// skip authentication.
func NewMailer(host, port, from, username, password string) *Mailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &Mailer{
		addr: net.JoinHostPort(host, port),
		from: from,
		auth: auth,
	}
}

// SendParcelUpdate sends one plain-text notification mail. The context is
// checked before dialing; net/smtp does not take a context.
func (m *Mailer) SendParcelUpdate(ctx context.Context, to string, event notifications.ParcelEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message := buildMessage(m.from, to, event)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send notification mail: %w", err)
	}

	return nil
}

func buildMessage(from, to string, event notifications.ParcelEvent) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subjectFor(event))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "%s\r\n", bodyFor(event))
	return []byte(b.String())
}

func subjectFor(event notifications.ParcelEvent) string {
	switch event.Kind {
	case notifications.EventCreated:
		return fmt.Sprintf("Parcel %s registered", event.TrackingNumber)
	case notifications.EventAssigned, notifications.EventReassigned:
		return fmt.Sprintf("Parcel %s is on its way to a driver", event.TrackingNumber)
	case notifications.EventDelivered:
		return fmt.Sprintf("Parcel %s delivered", event.TrackingNumber)
	case notifications.EventCompleted:
		return fmt.Sprintf("Parcel %s completed", event.TrackingNumber)
	case notifications.EventCancelled:
		return fmt.Sprintf("Parcel %s cancelled", event.TrackingNumber)
	default:
		return fmt.Sprintf("Parcel %s update: %s", event.TrackingNumber, event.Status)
	}
}

func bodyFor(event notifications.ParcelEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your parcel %s is now %q.", event.TrackingNumber, event.Status)
	if event.PreviousStatus != "" {
		fmt.Fprintf(&b, " (previously %q)", event.PreviousStatus)
	}
	if event.Notes != "" {
		fmt.Fprintf(&b, "\r\n\r\nNotes: %s", event.Notes)
	}
	fmt.Fprintf(&b, "\r\n\r\nReported at %s.", event.OccurredAt.Format("2006-01-02 15:04 MST"))
	return b.String()
}
