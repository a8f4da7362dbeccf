package commands

import (
	"context"

	"parcelflow/internal/core/domain/model/kernel"
)

// BulkAssignFailure describes one item that could not be assigned.
type BulkAssignFailure struct {
	ParcelID kernel.UUID
	DriverID kernel.UUID
	Reason   string
}

// BulkAssignResult is the per-item outcome of a bulk assignment.
type BulkAssignResult struct {
	Assigned []kernel.UUID
	Failed   []BulkAssignFailure
}

// SucceededCount returns the number of parcels assigned.
func (r BulkAssignResult) SucceededCount() int {
	return len(r.Assigned)
}

// FailedCount returns the number of items that failed.
func (r BulkAssignResult) FailedCount() int {
	return len(r.Failed)
}

// BulkAssignParcelsCommandHandler processes a batch of assignments item by
// item. Each item runs in its own transaction through the single-assignment
// handler, so a conflicting or invalid item is reported in the result without
// affecting the rest of the batch. The call as a whole fails only on
// authorization.
type BulkAssignParcelsCommandHandler struct {
	assignHandler AssignParcelCommandHandler
}

// NewBulkAssignParcelsCommandHandler creates a handler for bulk assignment.
func NewBulkAssignParcelsCommandHandler(assignHandler AssignParcelCommandHandler) BulkAssignParcelsCommandHandler {
	return BulkAssignParcelsCommandHandler{assignHandler: assignHandler}
}

// Handle processes the bulk assignment command and returns the per-item
// outcome. The returned error is non-nil only for a malformed command or a
// non-administrator actor; item-level failures live in the result.
func (h BulkAssignParcelsCommandHandler) Handle(
	ctx context.Context,
	cmd BulkAssignParcelsCommand,
) (BulkAssignResult, error) {
	if err := cmd.Validate(); err != nil {
		return BulkAssignResult{}, err
	}
	if !cmd.Actor().IsAdmin() {
		return BulkAssignResult{}, ErrAssignmentForbidden
	}

	var result BulkAssignResult
	for _, item := range cmd.Items() {
		itemCmd, err := NewAssignParcelCommand(item.ParcelID, item.DriverID, cmd.Actor(), cmd.Notes())
		if err != nil {
			result.Failed = append(result.Failed, BulkAssignFailure{
				ParcelID: item.ParcelID,
				DriverID: item.DriverID,
				Reason:   err.Error(),
			})
			continue
		}

		if _, err := h.assignHandler.Handle(ctx, itemCmd); err != nil {
			result.Failed = append(result.Failed, BulkAssignFailure{
				ParcelID: item.ParcelID,
				DriverID: item.DriverID,
				Reason:   err.Error(),
			})
			continue
		}

		result.Assigned = append(result.Assigned, item.ParcelID)
	}

	return result, nil
}
