package commands_test

import (
	"testing"
	"time"

	"parcelflow/internal/core/domain/model/driver"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

func notFoundErr(id kernel.UUID) error {
	return errs.NewObjectNotFoundError("parcel", id.String())
}

type parcelFixture struct {
	parcel      *parcel.Parcel
	senderID    kernel.UUID
	recipientID kernel.UUID
}

func newParcelFixture(t *testing.T) parcelFixture {
	t.Helper()

	senderID := kernel.NewUUID()
	recipientID := kernel.NewUUID()

	sender, err := parcel.NewRegisteredParty(senderID, "Alice Sender", "alice@example.com", "")
	require.NoError(t, err)
	recipient, err := parcel.NewRegisteredParty(recipientID, "Bob Recipient", "bob@example.com", "")
	require.NoError(t, err)

	trackingNumber, err := parcel.GenerateTrackingNumber()
	require.NoError(t, err)

	p, err := parcel.NewParcel(kernel.NewUUID(), trackingNumber, sender, recipient,
		"12 Oak Lane", "7 Elm Street", 5, 153, nil, nil)
	require.NoError(t, err)

	return parcelFixture{parcel: p, senderID: senderID, recipientID: recipientID}
}

func newActiveDriver(t *testing.T) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), "Dana Driver", "dana@example.com", "")
	require.NoError(t, err)
	return d
}

func newAdminActor(t *testing.T) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleAdmin)
	require.NoError(t, err)
	return actor
}

func newActor(t *testing.T, id kernel.UUID, role kernel.Role) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(id, role)
	require.NoError(t, err)
	return actor
}

func advanceParcel(t *testing.T, p *parcel.Parcel, statuses ...parcel.Status) {
	t.Helper()
	for _, s := range statuses {
		require.NoError(t, p.ChangeStatus(s, time.Now()))
	}
}
