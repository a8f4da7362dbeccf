package commands

import (
	"context"

	"parcelflow/internal/core/domain/model/parcel"
)

// MarkCompletedCommandHandler closes out a delivered parcel. Completion is a
// plain transition with no extra captured state, so the handler reuses the
// status change pipeline.
type MarkCompletedCommandHandler struct {
	updateHandler UpdateStatusCommandHandler
}

// NewMarkCompletedCommandHandler creates a handler for parcel completion.
func NewMarkCompletedCommandHandler(updateHandler UpdateStatusCommandHandler) MarkCompletedCommandHandler {
	return MarkCompletedCommandHandler{updateHandler: updateHandler}
}

// Handle processes the completion command and returns the parcel as
// committed. Fails with InvalidTransition when the parcel is not in delivered
// status or the actor is neither the recipient nor an administrator.
func (h MarkCompletedCommandHandler) Handle(ctx context.Context, cmd MarkCompletedCommand) (*parcel.Parcel, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	updateCmd, err := NewUpdateStatusCommand(cmd.ParcelID(), parcel.StatusCompleted, cmd.Actor(), nil, cmd.Notes())
	if err != nil {
		return nil, err
	}

	return h.updateHandler.Handle(ctx, updateCmd)
}
