package notifications

import (
	"context"
	"log/slog"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
)

// dispatchTimeout bounds the fan-out of a single event across all channels.
const dispatchTimeout = 15 * time.Second

// Mailer sends a notification email about a parcel event.
type Mailer interface {
	SendParcelUpdate(ctx context.Context, to string, event ParcelEvent) error
}

// NotificationStore persists an in-app notification for an account.
type NotificationStore interface {
	Add(ctx context.Context, accountID kernel.UUID, event ParcelEvent) error
}

// Broadcaster pushes an event to live subscribers (websocket clients
// following a tracking number, dashboards).
type Broadcaster interface {
	Broadcast(ctx context.Context, event ParcelEvent) error
}

// EventPublisher publishes the event to the message broker for downstream
// consumers outside this service.
type EventPublisher interface {
	Publish(ctx context.Context, event ParcelEvent) error
}

// Dispatcher fans a parcel event out to every configured channel.
//
// Delivery is strictly best-effort: each channel is attempted independently,
// a failing channel is logged and skipped, and no combination of channel
// failures ever surfaces to the caller. The lifecycle change has already
// committed by the time an event reaches the dispatcher; nothing here may
// undo it.
//
// Any sink may be nil, in which case its channel is skipped silently. This is
// how deployments run with a subset of channels configured.
type Dispatcher struct {
	mailer    Mailer
	store     NotificationStore
	broadcast Broadcaster
	publisher EventPublisher
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher over the given channels. Nil sinks are
// allowed and disable their channel.
func NewDispatcher(
	mailer Mailer,
	store NotificationStore,
	broadcast Broadcaster,
	publisher EventPublisher,
	logger *slog.Logger,
) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		mailer:    mailer,
		store:     store,
		broadcast: broadcast,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "notifications")),
	}
}

// Dispatch fans the event out to all channels synchronously, logging and
// swallowing per-channel failures.
func (d *Dispatcher) Dispatch(ctx context.Context, event ParcelEvent) {
	logger := d.logger.With(
		slog.String("event", event.Kind),
		slog.String("parcel_id", event.ParcelID.String()),
		slog.String("tracking_number", event.TrackingNumber),
	)

	if d.mailer != nil {
		for _, to := range event.MailRecipients() {
			if err := d.mailer.SendParcelUpdate(ctx, to, event); err != nil {
				logger.Warn("mail channel failed",
					slog.String("to", to),
					slog.String("error", err.Error()))
			}
		}
	}

	if d.store != nil {
		for _, accountID := range event.Accounts() {
			if err := d.store.Add(ctx, accountID, event); err != nil {
				logger.Warn("in-app channel failed",
					slog.String("account_id", accountID.String()),
					slog.String("error", err.Error()))
			}
		}
	}

	if d.broadcast != nil {
		if err := d.broadcast.Broadcast(ctx, event); err != nil {
			logger.Warn("broadcast channel failed", slog.String("error", err.Error()))
		}
	}

	if d.publisher != nil {
		if err := d.publisher.Publish(ctx, event); err != nil {
			logger.Warn("broker channel failed", slog.String("error", err.Error()))
		}
	}
}

// DispatchAsync fans the event out on a new goroutine with its own deadline,
// detached from the request context so an HTTP response never waits on a
// notification channel.
func (d *Dispatcher) DispatchAsync(event ParcelEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		d.Dispatch(ctx, event)
	}()
}
