package commands

import (
	"context"

	"parcelflow/internal/core/domain/model/parcel"
)

// CancelParcelCommandHandler aborts a delivery through the status change
// pipeline. The role window (sender before pickup, administrator anywhere
// non-terminal) is enforced by the transition engine.
type CancelParcelCommandHandler struct {
	updateHandler UpdateStatusCommandHandler
}

// NewCancelParcelCommandHandler creates a handler for parcel cancellation.
func NewCancelParcelCommandHandler(updateHandler UpdateStatusCommandHandler) CancelParcelCommandHandler {
	return CancelParcelCommandHandler{updateHandler: updateHandler}
}

// Handle processes the cancellation command and returns the parcel as
// committed. Fails with InvalidTransition when the parcel is already terminal
// or the actor's role may not cancel from the current state.
func (h CancelParcelCommandHandler) Handle(ctx context.Context, cmd CancelParcelCommand) (*parcel.Parcel, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	updateCmd, err := NewUpdateStatusCommand(cmd.ParcelID(), parcel.StatusCancelled, cmd.Actor(), nil, cmd.Reason())
	if err != nil {
		return nil, err
	}

	return h.updateHandler.Handle(ctx, updateCmd)
}
