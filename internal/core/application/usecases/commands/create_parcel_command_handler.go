package commands

import (
	"context"
	"fmt"
	"time"

	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/domain/services"
	"parcelflow/internal/core/ports"
	"parcelflow/internal/notifications"
	"parcelflow/internal/pkg/errs"
)

// maxTrackingNumberAttempts bounds tracking number regeneration on collision.
const maxTrackingNumberAttempts = 5

// CreateParcelCommandHandler handles parcel registration: it issues a
// collision-checked tracking number, fixes the delivery fee, persists the
// aggregate in pending status with its first ledger entry, and dispatches the
// creation notification after commit.
type CreateParcelCommandHandler struct {
	uowFactory ParcelUoWFactory
	feeCalc    services.FeeCalculator
	notifier   Notifier
}

// NewCreateParcelCommandHandler creates a handler for parcel registration.
func NewCreateParcelCommandHandler(
	uowFactory ParcelUoWFactory,
	feeCalc services.FeeCalculator,
	notifier Notifier,
) CreateParcelCommandHandler {
	return CreateParcelCommandHandler{
		uowFactory: uowFactory,
		feeCalc:    feeCalc,
		notifier:   notifier,
	}
}

// Handle processes the parcel registration command and returns the parcel as
// committed.
//
// The tracking number is generated and collision-checked against storage,
// regenerating up to maxTrackingNumberAttempts times; exhausting the attempts
// fails with a Conflict. The fee is computed once here and fixed on the
// aggregate for its lifetime.
func (h CreateParcelCommandHandler) Handle(ctx context.Context, cmd CreateParcelCommand) (*parcel.Parcel, error) {
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

	parcelRepo := uow.ParcelRepository()

	trackingNumber, err := h.issueTrackingNumber(ctx, parcelRepo)
	if err != nil {
		return nil, err
	}

	fee := h.feeCalc.Calculate(cmd.WeightKg(), cmd.PickupAddress(), cmd.DeliveryAddress())

	aggregate, err := parcel.NewParcel(
		cmd.ParcelID(),
		trackingNumber,
		cmd.Sender(),
		cmd.Recipient(),
		cmd.PickupAddress(),
		cmd.DeliveryAddress(),
		cmd.WeightKg(),
		fee,
		cmd.EstimatedPickupAt(),
		cmd.EstimatedDeliveryAt(),
	)
	if err != nil {
		return nil, err
	}

	if err = parcelRepo.Add(ctx, aggregate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry, err := parcel.NewHistoryEntry(aggregate.ID(), aggregate.Status(), cmd.CreatedBy(), nil, "", now)
	if err != nil {
		return nil, err
	}
	if err = uow.HistoryLedger().Append(ctx, entry); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.DispatchAsync(newParcelEvent(
		notifications.EventCreated, aggregate, aggregate.Status(), "", now))
	return aggregate, nil
}

// issueTrackingNumber generates candidates until one is unused.
func (h CreateParcelCommandHandler) issueTrackingNumber(
	ctx context.Context,
	parcelRepo ports.ParcelRepository,
) (string, error) {
	for attempt := 0; attempt < maxTrackingNumberAttempts; attempt++ {
		trackingNumber, err := parcel.GenerateTrackingNumber()
		if err != nil {
			return "", err
		}

		exists, err := parcelRepo.ExistsByTrackingNumber(ctx, trackingNumber)
		if err != nil {
			return "", err
		}
		if !exists {
			return trackingNumber, nil
		}
	}

	return "", errs.NewConflictErrorWithCause("trackingNumber", "generation",
		fmt.Errorf("no unused tracking number after %d attempts", maxTrackingNumberAttempts))
}
