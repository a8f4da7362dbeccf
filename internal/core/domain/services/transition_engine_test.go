package services_test

import (
	"testing"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/domain/services"
	"parcelflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testParties struct {
	senderID    kernel.UUID
	recipientID kernel.UUID
}

func newTestParcel(t *testing.T) (*parcel.Parcel, testParties) {
	t.Helper()

	parties := testParties{
		senderID:    kernel.NewUUID(),
		recipientID: kernel.NewUUID(),
	}

	sender, err := parcel.NewRegisteredParty(parties.senderID, "Alice Sender", "alice@example.com", "+15550001")
	require.NoError(t, err)
	recipient, err := parcel.NewRegisteredParty(parties.recipientID, "Bob Recipient", "bob@example.com", "+15550002")
	require.NoError(t, err)

	trackingNumber, err := parcel.GenerateTrackingNumber()
	require.NoError(t, err)

	p, err := parcel.NewParcel(
		kernel.NewUUID(),
		trackingNumber,
		sender,
		recipient,
		"12 Oak Lane",
		"7 Elm Street",
		5,
		153,
		nil,
		nil,
	)
	require.NoError(t, err)

	return p, parties
}

func assignTestParcel(t *testing.T, p *parcel.Parcel, driverID kernel.UUID) {
	t.Helper()
	require.NoError(t, p.Assign(driverID, time.Now()))
}

func advanceTestParcel(t *testing.T, p *parcel.Parcel, statuses ...parcel.Status) {
	t.Helper()
	for _, s := range statuses {
		require.NoError(t, p.ChangeStatus(s, time.Now()))
	}
}

func mustActor(t *testing.T, id kernel.UUID, role kernel.Role) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(id, role)
	require.NoError(t, err)
	return actor
}

func TestTransitionEngine_Apply(t *testing.T) {
	engine := services.NewTransitionEngine()
	now := time.Now()

	t.Run("should let assigned driver pick up own parcel", func(t *testing.T) {
		p, _ := newTestParcel(t)
		driverID := kernel.NewUUID()
		assignTestParcel(t, p, driverID)
		driverActor := mustActor(t, driverID, kernel.RoleDriver)

		entry, err := engine.Apply(p, parcel.StatusPickedUp, driverActor, nil, "picked up at dock", now)

		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, parcel.StatusPickedUp, p.Status())
		assert.Equal(t, parcel.StatusPickedUp, entry.Status())
		assert.True(t, entry.ActorID().IsEqual(driverID))
		assert.Equal(t, "picked up at dock", entry.Notes())
		require.NotNil(t, p.ActualPickupAt())
	})

	t.Run("should hide the parcel from another driver", func(t *testing.T) {
		p, _ := newTestParcel(t)
		assignTestParcel(t, p, kernel.NewUUID())
		otherDriver := mustActor(t, kernel.NewUUID(), kernel.RoleDriver)

		entry, err := engine.Apply(p, parcel.StatusPickedUp, otherDriver, nil, "", now)

		require.Error(t, err)
		assert.Nil(t, entry)
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Equal(t, parcel.StatusAssigned, p.Status())
	})

	t.Run("should reject driver edges from non-driver roles", func(t *testing.T) {
		p, parties := newTestParcel(t)
		assignTestParcel(t, p, kernel.NewUUID())
		senderActor := mustActor(t, parties.senderID, kernel.RoleSender)

		_, err := engine.Apply(p, parcel.StatusPickedUp, senderActor, nil, "", now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("should record location on transit entries", func(t *testing.T) {
		p, _ := newTestParcel(t)
		driverID := kernel.NewUUID()
		assignTestParcel(t, p, driverID)
		advanceTestParcel(t, p, parcel.StatusPickedUp)
		driverActor := mustActor(t, driverID, kernel.RoleDriver)
		loc, err := kernel.NewLocationWithCoordinates("Hub 3", 52.37, 4.89)
		require.NoError(t, err)

		entry, err := engine.Apply(p, parcel.StatusInTransit, driverActor, &loc, "", now)

		require.NoError(t, err)
		require.NotNil(t, entry.Location())
		lat, lng, ok := entry.Location().Coordinates()
		assert.True(t, ok)
		assert.InDelta(t, 52.37, lat, 0.001)
		assert.InDelta(t, 4.89, lng, 0.001)
	})

	t.Run("should let recipient confirm receipt via generic apply", func(t *testing.T) {
		p, parties := newTestParcel(t)
		assignTestParcel(t, p, kernel.NewUUID())
		advanceTestParcel(t, p, parcel.StatusPickedUp, parcel.StatusInTransit, parcel.StatusDeliveredToRecipient)
		recipientActor := mustActor(t, parties.recipientID, kernel.RoleRecipient)

		entry, err := engine.Apply(p, parcel.StatusDelivered, recipientActor, nil, "", now)

		require.NoError(t, err)
		assert.Equal(t, parcel.StatusDelivered, p.Status())
		assert.Equal(t, parcel.StatusDelivered, entry.Status())
		require.NotNil(t, p.ConfirmedAt())
	})

	t.Run("should reject delivery confirmation from a stranger", func(t *testing.T) {
		p, _ := newTestParcel(t)
		assignTestParcel(t, p, kernel.NewUUID())
		advanceTestParcel(t, p, parcel.StatusPickedUp, parcel.StatusInTransit, parcel.StatusDeliveredToRecipient)
		stranger := mustActor(t, kernel.NewUUID(), kernel.RoleRecipient)

		_, err := engine.Apply(p, parcel.StatusDelivered, stranger, nil, "", now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("should let recipient complete a delivered parcel", func(t *testing.T) {
		p, parties := newTestParcel(t)
		assignTestParcel(t, p, kernel.NewUUID())
		advanceTestParcel(t, p,
			parcel.StatusPickedUp, parcel.StatusInTransit,
			parcel.StatusDeliveredToRecipient, parcel.StatusDelivered)
		recipientActor := mustActor(t, parties.recipientID, kernel.RoleRecipient)

		entry, err := engine.Apply(p, parcel.StatusCompleted, recipientActor, nil, "", now)

		require.NoError(t, err)
		assert.Equal(t, parcel.StatusCompleted, p.Status())
		assert.Equal(t, parcel.StatusCompleted, entry.Status())
	})

	t.Run("should let admin complete a delivered parcel", func(t *testing.T) {
		p, _ := newTestParcel(t)
		assignTestParcel(t, p, kernel.NewUUID())
		advanceTestParcel(t, p,
			parcel.StatusPickedUp, parcel.StatusInTransit,
			parcel.StatusDeliveredToRecipient, parcel.StatusDelivered)
		adminActor := mustActor(t, kernel.NewUUID(), kernel.RoleAdmin)

		_, err := engine.Apply(p, parcel.StatusCompleted, adminActor, nil, "closed by support", now)

		require.NoError(t, err)
		assert.Equal(t, parcel.StatusCompleted, p.Status())
	})

	t.Run("should let sender cancel while pending", func(t *testing.T) {
		p, parties := newTestParcel(t)
		senderActor := mustActor(t, parties.senderID, kernel.RoleSender)

		entry, err := engine.Apply(p, parcel.StatusCancelled, senderActor, nil, "changed my mind", now)

		require.NoError(t, err)
		assert.Equal(t, parcel.StatusCancelled, p.Status())
		assert.Equal(t, "changed my mind", entry.Notes())
	})

	t.Run("should let sender cancel while assigned", func(t *testing.T) {
		p, parties := newTestParcel(t)
		assignTestParcel(t, p, kernel.NewUUID())
		senderActor := mustActor(t, parties.senderID, kernel.RoleSender)

		_, err := engine.Apply(p, parcel.StatusCancelled, senderActor, nil, "", now)

		require.NoError(t, err)
		assert.Equal(t, parcel.StatusCancelled, p.Status())
	})

	t.Run("should forbid sender cancellation after pickup", func(t *testing.T) {
		p, parties := newTestParcel(t)
		assignTestParcel(t, p, kernel.NewUUID())
		advanceTestParcel(t, p, parcel.StatusPickedUp)
		senderActor := mustActor(t, parties.senderID, kernel.RoleSender)

		_, err := engine.Apply(p, parcel.StatusCancelled, senderActor, nil, "", now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, parcel.StatusPickedUp, p.Status())
	})

	t.Run("should let admin cancel from any non-terminal state", func(t *testing.T) {
		p, _ := newTestParcel(t)
		assignTestParcel(t, p, kernel.NewUUID())
		advanceTestParcel(t, p, parcel.StatusPickedUp, parcel.StatusInTransit)
		adminActor := mustActor(t, kernel.NewUUID(), kernel.RoleAdmin)

		_, err := engine.Apply(p, parcel.StatusCancelled, adminActor, nil, "lost in transit", now)

		require.NoError(t, err)
		assert.Equal(t, parcel.StatusCancelled, p.Status())
	})

	t.Run("should reject cancellation of a terminal parcel even for admin", func(t *testing.T) {
		p, _ := newTestParcel(t)
		assignTestParcel(t, p, kernel.NewUUID())
		advanceTestParcel(t, p,
			parcel.StatusPickedUp, parcel.StatusInTransit,
			parcel.StatusDeliveredToRecipient, parcel.StatusDelivered, parcel.StatusCompleted)
		adminActor := mustActor(t, kernel.NewUUID(), kernel.RoleAdmin)

		_, err := engine.Apply(p, parcel.StatusCancelled, adminActor, nil, "", now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("should never accept assigned as a generic target", func(t *testing.T) {
		p, _ := newTestParcel(t)
		adminActor := mustActor(t, kernel.NewUUID(), kernel.RoleAdmin)

		_, err := engine.Apply(p, parcel.StatusAssigned, adminActor, nil, "", now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestTransitionEngine_ApplyDeliveryConfirmation(t *testing.T) {
	engine := services.NewTransitionEngine()
	now := time.Now()

	t.Run("should capture signature and confirming party", func(t *testing.T) {
		p, parties := newTestParcel(t)
		assignTestParcel(t, p, kernel.NewUUID())
		advanceTestParcel(t, p, parcel.StatusPickedUp, parcel.StatusInTransit, parcel.StatusDeliveredToRecipient)
		recipientActor := mustActor(t, parties.recipientID, kernel.RoleRecipient)

		entry, err := engine.ApplyDeliveryConfirmation(p, recipientActor, "B. Recipient", "Bob Recipient", "left at desk", now)

		require.NoError(t, err)
		assert.Equal(t, parcel.StatusDelivered, p.Status())
		assert.Equal(t, "B. Recipient", p.Signature())
		assert.Equal(t, "Bob Recipient", p.ConfirmedBy())
		require.NotNil(t, p.ConfirmedAt())
		assert.Equal(t, "left at desk", entry.Notes())
	})

	t.Run("should reject confirmation before handover", func(t *testing.T) {
		p, parties := newTestParcel(t)
		assignTestParcel(t, p, kernel.NewUUID())
		advanceTestParcel(t, p, parcel.StatusPickedUp, parcel.StatusInTransit)
		recipientActor := mustActor(t, parties.recipientID, kernel.RoleRecipient)

		_, err := engine.ApplyDeliveryConfirmation(p, recipientActor, "", "", "", now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, parcel.StatusInTransit, p.Status())
	})

	t.Run("should reject confirmation from the driver", func(t *testing.T) {
		p, _ := newTestParcel(t)
		driverID := kernel.NewUUID()
		assignTestParcel(t, p, driverID)
		advanceTestParcel(t, p, parcel.StatusPickedUp, parcel.StatusInTransit, parcel.StatusDeliveredToRecipient)
		driverActor := mustActor(t, driverID, kernel.RoleDriver)

		_, err := engine.ApplyDeliveryConfirmation(p, driverActor, "", "", "", now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestTransitionEngine_ApplyAssignment(t *testing.T) {
	engine := services.NewTransitionEngine()
	now := time.Now()

	t.Run("should bind driver and enter assigned", func(t *testing.T) {
		p, _ := newTestParcel(t)
		driverID := kernel.NewUUID()
		adminID := kernel.NewUUID()

		entry, err := engine.ApplyAssignment(p, driverID, adminID, "", now)

		require.NoError(t, err)
		assert.Equal(t, parcel.StatusAssigned, p.Status())
		require.NotNil(t, p.Driver())
		assert.True(t, p.Driver().IsEqual(driverID))
		require.NotNil(t, p.AssignedAt())
		assert.Equal(t, parcel.StatusAssigned, entry.Status())
		assert.True(t, entry.ActorID().IsEqual(adminID))
	})

	t.Run("should conflict when a driver is already bound", func(t *testing.T) {
		p, _ := newTestParcel(t)
		assignTestParcel(t, p, kernel.NewUUID())

		_, err := engine.ApplyAssignment(p, kernel.NewUUID(), kernel.NewUUID(), "", now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestTransitionEngine_ApplyReassignment(t *testing.T) {
	engine := services.NewTransitionEngine()
	now := time.Now()

	t.Run("should rebind driver and mark the entry as a reassignment", func(t *testing.T) {
		p, _ := newTestParcel(t)
		assignTestParcel(t, p, kernel.NewUUID())
		advanceTestParcel(t, p, parcel.StatusPickedUp)
		adminActor := mustActor(t, kernel.NewUUID(), kernel.RoleAdmin)
		newDriverID := kernel.NewUUID()

		entry, err := engine.ApplyReassignment(p, newDriverID, adminActor, "driver unavailable", now)

		require.NoError(t, err)
		assert.Equal(t, parcel.StatusAssigned, p.Status())
		assert.True(t, p.Driver().IsEqual(newDriverID))
		assert.Equal(t, "reassigned: driver unavailable", entry.Notes())
	})

	t.Run("should reject reassignment from non-admin roles", func(t *testing.T) {
		p, parties := newTestParcel(t)
		previousDriverID := kernel.NewUUID()
		assignTestParcel(t, p, previousDriverID)
		senderActor := mustActor(t, parties.senderID, kernel.RoleSender)

		_, err := engine.ApplyReassignment(p, kernel.NewUUID(), senderActor, "", now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.True(t, p.Driver().IsEqual(previousDriverID))
	})

	t.Run("should reject reassignment of an unassigned parcel", func(t *testing.T) {
		p, _ := newTestParcel(t)
		adminActor := mustActor(t, kernel.NewUUID(), kernel.RoleAdmin)

		_, err := engine.ApplyReassignment(p, kernel.NewUUID(), adminActor, "", now)

		require.Error(t, err)
		assert.Nil(t, p.Driver())
	})
}
