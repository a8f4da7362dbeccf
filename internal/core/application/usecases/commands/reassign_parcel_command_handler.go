package commands

import (
	"context"
	"time"

	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/domain/services"
	"parcelflow/internal/notifications"
)

// ReassignParcelCommandHandler orchestrates moving a parcel to a new driver.
// The replacement driver's availability is verified in the same transaction
// that rebinds the parcel; the previous driver needs no update because the
// binding lives on the parcel side only.
type ReassignParcelCommandHandler struct {
	uowFactory UoWFactory
	engine     services.TransitionEngine
	notifier   Notifier
}

// NewReassignParcelCommandHandler creates a handler for parcel reassignment.
func NewReassignParcelCommandHandler(
	uowFactory UoWFactory,
	engine services.TransitionEngine,
	notifier Notifier,
) ReassignParcelCommandHandler {
	return ReassignParcelCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		notifier:   notifier,
	}
}

// Handle processes the reassignment command and returns the parcel as
// committed. The replacement driver's row is read with a row lock
// (GetForUpdate), so the active flag holds until commit.
//
// Returns:
//   - NotFound when the parcel or replacement driver does not exist
//   - driver.ErrDriverIsInactive when the replacement cannot take parcels
//   - InvalidTransition when the actor is not an administrator, the parcel
//     has no driver, or it already reached the handover
//   - Conflict when the guarded write lost a race
func (h ReassignParcelCommandHandler) Handle(ctx context.Context, cmd ReassignParcelCommand) (*parcel.Parcel, error) {
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

	replacement, err := uow.DriverRepository().GetForUpdate(ctx, cmd.NewDriverID())
	if err != nil {
		return nil, err
	}
	if err = replacement.EnsureAssignable(); err != nil {
		return nil, err
	}

	previousStatus := aggregate.Status()
	entry, err := h.engine.ApplyReassignment(aggregate, replacement.ID(), cmd.Actor(), cmd.Notes(), time.Now().UTC())
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
		notifications.EventReassigned, aggregate, previousStatus, entry.Notes(), entry.CreatedAt()))
	return aggregate, nil
}
