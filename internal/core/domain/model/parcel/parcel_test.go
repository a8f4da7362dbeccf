package parcel_test

import (
	"testing"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParty(t *testing.T) parcel.PartyRef {
	t.Helper()
	ref, err := parcel.NewRegisteredParty(kernel.NewUUID(), "Test Party", "party@example.com", "")
	require.NoError(t, err)
	return ref
}

func mustNewParcel(t *testing.T) *parcel.Parcel {
	t.Helper()

	trackingNumber, err := parcel.GenerateTrackingNumber()
	require.NoError(t, err)

	p, err := parcel.NewParcel(
		kernel.NewUUID(),
		trackingNumber,
		mustParty(t),
		mustParty(t),
		"12 Oak Lane",
		"7 Elm Street",
		5,
		153,
		nil,
		nil,
	)
	require.NoError(t, err)
	return p
}

func TestNewParcel(t *testing.T) {
	t.Run("should create a pending unassigned parcel at version 1", func(t *testing.T) {
		p := mustNewParcel(t)

		require.NoError(t, p.Validate())
		assert.Equal(t, parcel.StatusPending, p.Status())
		assert.Nil(t, p.Driver())
		assert.Nil(t, p.AssignedAt())
		assert.Equal(t, int64(1), p.Version())
		assert.False(t, p.IsDeleted())
		assert.InDelta(t, 153, p.Fee(), 0.001)
	})

	t.Run("should reject missing addresses", func(t *testing.T) {
		trackingNumber, err := parcel.GenerateTrackingNumber()
		require.NoError(t, err)

		_, err = parcel.NewParcel(kernel.NewUUID(), trackingNumber,
			mustParty(t), mustParty(t), "", "7 Elm Street", 5, 153, nil, nil)
		assert.ErrorIs(t, err, parcel.ErrPickupAddressIsRequired)

		_, err = parcel.NewParcel(kernel.NewUUID(), trackingNumber,
			mustParty(t), mustParty(t), "12 Oak Lane", "", 5, 153, nil, nil)
		assert.ErrorIs(t, err, parcel.ErrDeliveryAddressIsRequired)
	})

	t.Run("should reject non-positive weight and negative fee", func(t *testing.T) {
		trackingNumber, err := parcel.GenerateTrackingNumber()
		require.NoError(t, err)

		_, err = parcel.NewParcel(kernel.NewUUID(), trackingNumber,
			mustParty(t), mustParty(t), "12 Oak Lane", "7 Elm Street", 0, 153, nil, nil)
		assert.ErrorIs(t, err, parcel.ErrWeightIsInvalid)

		_, err = parcel.NewParcel(kernel.NewUUID(), trackingNumber,
			mustParty(t), mustParty(t), "12 Oak Lane", "7 Elm Street", 5, -1, nil, nil)
		assert.ErrorIs(t, err, parcel.ErrFeeIsInvalid)
	})

	t.Run("should reject a malformed tracking number", func(t *testing.T) {
		_, err := parcel.NewParcel(kernel.NewUUID(), "NOT-A-NUMBER",
			mustParty(t), mustParty(t), "12 Oak Lane", "7 Elm Street", 5, 153, nil, nil)

		assert.Error(t, err)
	})

	t.Run("should collect all constructor violations at once", func(t *testing.T) {
		_, err := parcel.NewParcel(kernel.UUID{}, "",
			parcel.PartyRef{}, parcel.PartyRef{}, "", "", 0, -1, nil, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, parcel.ErrPickupAddressIsRequired)
		assert.ErrorIs(t, err, parcel.ErrWeightIsInvalid)
		assert.ErrorIs(t, err, parcel.ErrFeeIsInvalid)
	})
}

func TestRestoreParcel(t *testing.T) {
	t.Run("should reconstruct a mid-lifecycle parcel", func(t *testing.T) {
		trackingNumber, err := parcel.GenerateTrackingNumber()
		require.NoError(t, err)
		driverID := kernel.NewUUID()
		assignedAt := time.Now().Add(-time.Hour)
		pickedUpAt := time.Now().Add(-30 * time.Minute)

		p, err := parcel.RestoreParcel(
			kernel.NewUUID(), trackingNumber, parcel.StatusPickedUp,
			mustParty(t), mustParty(t), &driverID,
			"12 Oak Lane", "7 Elm Street", 5, 153,
			&assignedAt, nil, &pickedUpAt, nil, nil,
			false, "", "", nil, 3, nil,
		)

		require.NoError(t, err)
		assert.Equal(t, parcel.StatusPickedUp, p.Status())
		require.NotNil(t, p.Driver())
		assert.True(t, p.Driver().IsEqual(driverID))
		assert.Equal(t, int64(3), p.Version())

		// Restored parcels keep transitioning normally.
		require.NoError(t, p.ChangeStatus(parcel.StatusInTransit, time.Now()))
		assert.Equal(t, int64(4), p.Version())
	})

	t.Run("should reject a version below 1", func(t *testing.T) {
		trackingNumber, err := parcel.GenerateTrackingNumber()
		require.NoError(t, err)

		_, err = parcel.RestoreParcel(
			kernel.NewUUID(), trackingNumber, parcel.StatusPending,
			mustParty(t), mustParty(t), nil,
			"12 Oak Lane", "7 Elm Street", 5, 153,
			nil, nil, nil, nil, nil,
			false, "", "", nil, 0, nil,
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	})
}

func TestParcel_Assign(t *testing.T) {
	now := time.Now()

	t.Run("should bind the driver and record the assignment time", func(t *testing.T) {
		p := mustNewParcel(t)
		driverID := kernel.NewUUID()

		err := p.Assign(driverID, now)

		require.NoError(t, err)
		assert.Equal(t, parcel.StatusAssigned, p.Status())
		require.NotNil(t, p.Driver())
		assert.True(t, p.Driver().IsEqual(driverID))
		require.NotNil(t, p.AssignedAt())
		assert.Equal(t, now, *p.AssignedAt())
		assert.Equal(t, int64(2), p.Version())
	})

	t.Run("should conflict when already assigned and keep the binding", func(t *testing.T) {
		p := mustNewParcel(t)
		firstDriverID := kernel.NewUUID()
		require.NoError(t, p.Assign(firstDriverID, now))

		err := p.Assign(kernel.NewUUID(), now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.True(t, p.Driver().IsEqual(firstDriverID))
		assert.Equal(t, parcel.StatusAssigned, p.Status())
	})

	t.Run("should reject assignment of a cancelled parcel", func(t *testing.T) {
		p := mustNewParcel(t)
		require.NoError(t, p.Cancel(now))

		err := p.Assign(kernel.NewUUID(), now)

		require.Error(t, err)
		assert.Nil(t, p.Driver())
	})
}

func TestParcel_Reassign(t *testing.T) {
	now := time.Now()

	t.Run("should rebind and re-enter assigned from picked_up", func(t *testing.T) {
		p := mustNewParcel(t)
		require.NoError(t, p.Assign(kernel.NewUUID(), now))
		require.NoError(t, p.ChangeStatus(parcel.StatusPickedUp, now))
		newDriverID := kernel.NewUUID()
		later := now.Add(time.Minute)

		err := p.Reassign(newDriverID, later)

		require.NoError(t, err)
		assert.Equal(t, parcel.StatusAssigned, p.Status())
		assert.True(t, p.Driver().IsEqual(newDriverID))
		assert.Equal(t, later, *p.AssignedAt())
	})

	t.Run("should reject reassignment without an existing driver", func(t *testing.T) {
		p := mustNewParcel(t)

		err := p.Reassign(kernel.NewUUID(), now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("should reject reassignment after the handover", func(t *testing.T) {
		p := mustNewParcel(t)
		require.NoError(t, p.Assign(kernel.NewUUID(), now))
		require.NoError(t, p.ChangeStatus(parcel.StatusPickedUp, now))
		require.NoError(t, p.ChangeStatus(parcel.StatusDeliveredToRecipient, now))

		err := p.Reassign(kernel.NewUUID(), now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, parcel.StatusDeliveredToRecipient, p.Status())
	})
}

func TestParcel_ChangeStatus(t *testing.T) {
	now := time.Now()

	t.Run("should set the actual pickup time on the first picked_up only", func(t *testing.T) {
		p := mustNewParcel(t)
		require.NoError(t, p.Assign(kernel.NewUUID(), now))

		require.NoError(t, p.ChangeStatus(parcel.StatusPickedUp, now))
		require.NotNil(t, p.ActualPickupAt())
		firstPickup := *p.ActualPickupAt()

		// Reassignment re-enters assigned; a second pickup keeps the original time.
		require.NoError(t, p.Reassign(kernel.NewUUID(), now.Add(time.Minute)))
		require.NoError(t, p.ChangeStatus(parcel.StatusPickedUp, now.Add(2*time.Minute)))

		assert.Equal(t, firstPickup, *p.ActualPickupAt())
	})

	t.Run("should flag the handover and set the actual delivery time", func(t *testing.T) {
		p := mustNewParcel(t)
		require.NoError(t, p.Assign(kernel.NewUUID(), now))
		require.NoError(t, p.ChangeStatus(parcel.StatusPickedUp, now))
		require.NoError(t, p.ChangeStatus(parcel.StatusInTransit, now))

		require.NoError(t, p.ChangeStatus(parcel.StatusDeliveredToRecipient, now))

		assert.True(t, p.DeliveredToRecipient())
		require.NotNil(t, p.ActualDeliveryAt())
	})

	t.Run("should allow picked_up to hand over directly without transit", func(t *testing.T) {
		p := mustNewParcel(t)
		require.NoError(t, p.Assign(kernel.NewUUID(), now))
		require.NoError(t, p.ChangeStatus(parcel.StatusPickedUp, now))

		err := p.ChangeStatus(parcel.StatusDeliveredToRecipient, now)

		require.NoError(t, err)
	})

	t.Run("should reject an off-graph transition and leave state untouched", func(t *testing.T) {
		p := mustNewParcel(t)

		err := p.ChangeStatus(parcel.StatusDelivered, now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, parcel.StatusPending, p.Status())
		assert.Equal(t, int64(1), p.Version())
	})
}

func TestParcel_ConfirmDelivery(t *testing.T) {
	now := time.Now()

	deliverToRecipient := func(t *testing.T) *parcel.Parcel {
		t.Helper()
		p := mustNewParcel(t)
		require.NoError(t, p.Assign(kernel.NewUUID(), now))
		require.NoError(t, p.ChangeStatus(parcel.StatusPickedUp, now))
		require.NoError(t, p.ChangeStatus(parcel.StatusInTransit, now))
		require.NoError(t, p.ChangeStatus(parcel.StatusDeliveredToRecipient, now))
		return p
	}

	t.Run("should capture the confirmation fields", func(t *testing.T) {
		p := deliverToRecipient(t)

		err := p.ConfirmDelivery("J. Doe", "Jane Doe", now)

		require.NoError(t, err)
		assert.Equal(t, parcel.StatusDelivered, p.Status())
		assert.Equal(t, "J. Doe", p.Signature())
		assert.Equal(t, "Jane Doe", p.ConfirmedBy())
		require.NotNil(t, p.ConfirmedAt())
	})

	t.Run("should accept a declined signature", func(t *testing.T) {
		p := deliverToRecipient(t)

		err := p.ConfirmDelivery("", "", now)

		require.NoError(t, err)
		assert.Equal(t, parcel.StatusDelivered, p.Status())
		assert.Empty(t, p.Signature())
		require.NotNil(t, p.ConfirmedAt())
	})

	t.Run("should reject confirmation before the handover", func(t *testing.T) {
		p := mustNewParcel(t)

		err := p.ConfirmDelivery("J. Doe", "Jane Doe", now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Nil(t, p.ConfirmedAt())
	})
}

func TestParcel_Lifecycle(t *testing.T) {
	now := time.Now()

	t.Run("should walk the full happy path to completed", func(t *testing.T) {
		p := mustNewParcel(t)

		require.NoError(t, p.Assign(kernel.NewUUID(), now))
		require.NoError(t, p.ChangeStatus(parcel.StatusPickedUp, now))
		require.NoError(t, p.ChangeStatus(parcel.StatusInTransit, now))
		require.NoError(t, p.ChangeStatus(parcel.StatusDeliveredToRecipient, now))
		require.NoError(t, p.ConfirmDelivery("sig", "recipient", now))
		require.NoError(t, p.MarkCompleted(now))

		assert.Equal(t, parcel.StatusCompleted, p.Status())
		assert.Equal(t, int64(7), p.Version())
	})

	t.Run("should reject every mutation after completion", func(t *testing.T) {
		p := mustNewParcel(t)
		require.NoError(t, p.Assign(kernel.NewUUID(), now))
		require.NoError(t, p.ChangeStatus(parcel.StatusPickedUp, now))
		require.NoError(t, p.ChangeStatus(parcel.StatusDeliveredToRecipient, now))
		require.NoError(t, p.ConfirmDelivery("", "", now))
		require.NoError(t, p.MarkCompleted(now))

		assert.Error(t, p.Cancel(now))
		assert.Error(t, p.ChangeStatus(parcel.StatusPending, now))
		assert.Error(t, p.Reassign(kernel.NewUUID(), now))
	})

	t.Run("should allow cancellation from any non-terminal state", func(t *testing.T) {
		p := mustNewParcel(t)
		require.NoError(t, p.Assign(kernel.NewUUID(), now))
		require.NoError(t, p.ChangeStatus(parcel.StatusPickedUp, now))
		require.NoError(t, p.ChangeStatus(parcel.StatusInTransit, now))

		require.NoError(t, p.Cancel(now))

		assert.Equal(t, parcel.StatusCancelled, p.Status())
		assert.Error(t, p.Cancel(now), "cancelling twice must fail")
	})
}

func TestParcel_SoftDelete(t *testing.T) {
	now := time.Now()

	t.Run("should tombstone the parcel and reject further mutation", func(t *testing.T) {
		p := mustNewParcel(t)

		require.NoError(t, p.SoftDelete(now))

		assert.True(t, p.IsDeleted())
		require.NotNil(t, p.DeletedAt())

		err := p.Assign(kernel.NewUUID(), now)
		require.Error(t, err)
		assert.ErrorIs(t, err, parcel.ErrParcelIsDeleted)
	})

	t.Run("should reject deleting twice", func(t *testing.T) {
		p := mustNewParcel(t)
		require.NoError(t, p.SoftDelete(now))

		err := p.SoftDelete(now)

		require.Error(t, err)
		assert.ErrorIs(t, err, parcel.ErrParcelIsDeleted)
	})
}

func TestParcel_Validate(t *testing.T) {
	t.Run("should reject nil and zero-value parcels", func(t *testing.T) {
		var nilParcel *parcel.Parcel
		assert.ErrorIs(t, nilParcel.Validate(), parcel.ErrParcelIsNotConstructed)

		var zero parcel.Parcel
		assert.ErrorIs(t, zero.Validate(), parcel.ErrParcelIsNotConstructed)
	})
}
