package commands

import (
	"context"
	"time"

	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/domain/services"
	"parcelflow/internal/notifications"
)

// UpdateStatusCommandHandler orchestrates a status change: load, apply
// through the transition engine, persist the parcel and its ledger entry in
// one transaction, then dispatch the notification.
type UpdateStatusCommandHandler struct {
	uowFactory ParcelUoWFactory
	engine     services.TransitionEngine
	notifier   Notifier
}

// NewUpdateStatusCommandHandler creates a handler for status changes.
func NewUpdateStatusCommandHandler(
	uowFactory ParcelUoWFactory,
	engine services.TransitionEngine,
	notifier Notifier,
) UpdateStatusCommandHandler {
	return UpdateStatusCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		notifier:   notifier,
	}
}

// Handle processes the status change command and returns the parcel as
// committed.
//
// Returns:
//   - NotFound when the parcel does not exist, or when a driver acts on a
//     parcel bound to someone else
//   - InvalidTransition when the edge is off-graph or the role lacks the right
//   - Conflict when the guarded write lost a race to a concurrent change
func (h UpdateStatusCommandHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (*parcel.Parcel, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.ParcelRepository().Get(ctx, cmd.ParcelID())
	if err != nil {
		return nil, err
	}

	previousStatus := aggregate.Status()
	entry, err := h.engine.Apply(aggregate, cmd.NewStatus(), cmd.Actor(), cmd.Location(), cmd.Notes(), time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err = uow.ParcelRepository().Update(ctx, aggregate); err != nil {
		return nil, err
	}
	if err = uow.HistoryLedger().Append(ctx, entry); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.DispatchAsync(newParcelEvent(
		eventKindForStatus(aggregate.Status()), aggregate, previousStatus, cmd.Notes(), entry.CreatedAt()))
	return aggregate, nil
}

// eventKindForStatus picks the notification kind for a committed transition.
func eventKindForStatus(status parcel.Status) string {
	switch status {
	case parcel.StatusDelivered:
		return notifications.EventDelivered
	case parcel.StatusCompleted:
		return notifications.EventCompleted
	case parcel.StatusCancelled:
		return notifications.EventCancelled
	default:
		return notifications.EventStatusChanged
	}
}
