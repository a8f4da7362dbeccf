package commands

import (
	"context"
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/domain/services"
	"parcelflow/internal/notifications"
)

// ErrAssignmentForbidden is returned when a non-administrator attempts a
// manual assignment.
var ErrAssignmentForbidden = errors.New("only an administrator may assign parcels")

// AssignParcelCommandHandler orchestrates binding a driver to a parcel.
//
// The handler loads both aggregates inside one transaction, verifies the
// driver is active, applies the assignment through the transition engine, and
// persists the parcel together with its ledger entry. The repository's
// guarded update turns a lost race (another assignment committed first) into
// a Conflict.
type AssignParcelCommandHandler struct {
	uowFactory UoWFactory
	engine     services.TransitionEngine
	notifier   Notifier
}

// NewAssignParcelCommandHandler creates a handler for parcel assignment.
func NewAssignParcelCommandHandler(
	uowFactory UoWFactory,
	engine services.TransitionEngine,
	notifier Notifier,
) AssignParcelCommandHandler {
	return AssignParcelCommandHandler{
		uowFactory: uowFactory,
		engine:     engine,
		notifier:   notifier,
	}
}

// Handle processes the assignment command and returns the parcel as
// committed.
//
// The driver row is read with a row lock (GetForUpdate), so its active flag
// cannot flip between the check and the commit; a concurrent deactivation
// waits for this transaction and then sees the binding.
//
// Returns:
//   - ErrAssignmentForbidden when the actor is not an administrator
//   - NotFound when the parcel or driver does not exist
//   - driver.ErrDriverIsInactive when the driver cannot take parcels
//   - Conflict when the parcel is already assigned or the write lost a race
//   - InvalidTransition when the parcel is not pending
func (h AssignParcelCommandHandler) Handle(ctx context.Context, cmd AssignParcelCommand) (*parcel.Parcel, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if !cmd.Actor().IsAdmin() {
		return nil, ErrAssignmentForbidden
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

	assignee, err := uow.DriverRepository().GetForUpdate(ctx, cmd.DriverID())
	if err != nil {
		return nil, err
	}
	if err = assignee.EnsureAssignable(); err != nil {
		return nil, err
	}

	previousStatus := aggregate.Status()
	entry, err := h.engine.ApplyAssignment(aggregate, assignee.ID(), cmd.Actor().ID(), cmd.Notes(), time.Now().UTC())
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
		notifications.EventAssigned, aggregate, previousStatus, cmd.Notes(), entry.CreatedAt()))
	return aggregate, nil
}
