package commands

import (
	"context"
	"time"

	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/domain/services"
	"parcelflow/internal/notifications"
)

// ConfirmDeliveryCommandHandler orchestrates the recipient's receipt
// confirmation, capturing the signature fields on the aggregate.
type ConfirmDeliveryCommandHandler struct {
	uowFactory ParcelUoWFactory
	engine     services.TransitionEngine
	notifier   Notifier
}

// NewConfirmDeliveryCommandHandler creates a handler for delivery confirmation.
func NewConfirmDeliveryCommandHandler(
	uowFactory ParcelUoWFactory,
	engine services.TransitionEngine,
	notifier Notifier,
) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		notifier:   notifier,
	}
}

// Handle processes the confirmation command and returns the parcel as
// committed.
//
// Returns:
//   - NotFound when the parcel does not exist
//   - InvalidTransition when the parcel has not been handed over yet or the
//     actor is not the parcel's recipient
//   - Conflict when the guarded write lost a race
func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) (*parcel.Parcel, error) {
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
	entry, err := h.engine.ApplyDeliveryConfirmation(
		aggregate, cmd.Actor(), cmd.Signature(), cmd.ConfirmedBy(), cmd.Notes(), time.Now().UTC())
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
		notifications.EventDelivered, aggregate, previousStatus, cmd.Notes(), entry.CreatedAt()))
	return aggregate, nil
}
