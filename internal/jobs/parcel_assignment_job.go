package jobs

import (
	"context"
	"log/slog"

	"parcelflow/internal/core/application/usecases/commands"
	"parcelflow/internal/core/domain/model/driver"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"

	"github.com/robfig/cron/v3"
)

// assignmentBatchSize caps how many pending parcels one tick picks up.
const assignmentBatchSize = 100

// ParcelAssignmentJob periodically distributes pending unassigned parcels
// across the active driver pool, oldest parcels first. Assignments run under
// the configured system actor, so every ledger entry names who bound the
// parcel.
type ParcelAssignmentJob struct {
	uowFactory commands.UoWFactory
	handler    commands.BulkAssignParcelsCommandHandler
	actor      kernel.Actor
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewParcelAssignmentJob creates the job. actor must be an admin; assignment
// is an admin-only operation.
func NewParcelAssignmentJob(
	uowFactory commands.UoWFactory,
	handler commands.BulkAssignParcelsCommandHandler,
	actor kernel.Actor,
	logger *slog.Logger,
) *ParcelAssignmentJob {
	return &ParcelAssignmentJob{
		uowFactory: uowFactory,
		handler:    handler,
		actor:      actor,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "parcel_assignment_job"),
	}
}

// Start schedules the job to run every fifteen seconds.
func (j *ParcelAssignmentJob) Start() error {
	_, err := j.cron.AddFunc("*/15 * * * * *", func() {
		ctx := context.Background()

		if err := j.runOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Parcel assignment job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Parcel assignment job started (running every 15 seconds)")
	return nil
}

// Stop stops the job.
func (j *ParcelAssignmentJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Parcel assignment job stopped")
}

func (j *ParcelAssignmentJob) runOnce(ctx context.Context) error {
	pending, drivers, err := j.loadWork(ctx)
	if err != nil {
		return err
	}
	// No pending parcels or no drivers on shift is the normal idle case.
	if len(pending) == 0 || len(drivers) == 0 {
		return nil
	}

	items := make([]commands.BulkAssignItem, 0, len(pending))
	for i, p := range pending {
		items = append(items, commands.BulkAssignItem{
			ParcelID: p.ID(),
			DriverID: drivers[i%len(drivers)].ID(),
		})
	}

	cmd, err := commands.NewBulkAssignParcelsCommand(items, j.actor, "assigned automatically")
	if err != nil {
		return err
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		return err
	}

	j.logger.InfoContext(ctx, "Parcel assignment tick finished",
		"assigned", len(result.Assigned), "failed", len(result.Failed))
	for _, failure := range result.Failed {
		j.logger.WarnContext(ctx, "Parcel assignment skipped",
			"parcelId", failure.ParcelID.String(),
			"driverId", failure.DriverID.String(),
			"reason", failure.Reason)
	}

	return nil
}

// loadWork reads the current backlog and driver pool in one read-only
// transaction.
func (j *ParcelAssignmentJob) loadWork(ctx context.Context) ([]*parcel.Parcel, []*driver.Driver, error) {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer func() {
		if err := uow.Rollback(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Rollback after backlog read failed", "error", err)
		}
	}()

	pending, err := uow.ParcelRepository().GetAllPendingUnassigned(ctx, assignmentBatchSize)
	if err != nil {
		return nil, nil, err
	}

	drivers, err := uow.DriverRepository().GetAllActive(ctx)
	if err != nil {
		return nil, nil, err
	}

	return pending, drivers, nil
}
