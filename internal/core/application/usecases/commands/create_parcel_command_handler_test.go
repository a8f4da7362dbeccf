package commands_test

import (
	"errors"
	"testing"

	"parcelflow/internal/core/application/usecases/commands"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/domain/services"
	"parcelflow/internal/notifications"
	"parcelflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreateParcelCommand(t *testing.T) commands.CreateParcelCommand {
	t.Helper()

	creatorID := kernel.NewUUID()
	sender, err := parcel.NewRegisteredParty(creatorID, "Alice Sender", "alice@example.com", "")
	require.NoError(t, err)
	recipient, err := parcel.NewAnonymousParty("Bob Recipient", "bob@example.com", "")
	require.NoError(t, err)

	cmd, err := commands.NewCreateParcelCommand(kernel.NewUUID(), creatorID, sender, recipient,
		"12 Oak Lane", "7 Elm Street", 5, nil, nil)
	require.NoError(t, err)
	return cmd
}

func TestCreateParcelCommandHandler_Handle(t *testing.T) {
	t.Run("should persist parcel with ledger entry and notify", func(t *testing.T) {
		ctx := t.Context()
		cmd := newCreateParcelCommand(t)

		repo := new(MockParcelRepository)
		ledger := new(MockHistoryLedger)
		uow := new(MockUoW)
		var created *parcel.Parcel
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("ParcelRepository").Return(repo).Once(),
			repo.On("ExistsByTrackingNumber", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once(),
			repo.On("Add", mock.Anything, mock.AnythingOfType("*parcel.Parcel")).
				Run(func(args mock.Arguments) { created = args.Get(1).(*parcel.Parcel) }).
				Return(nil).Once(),
			uow.On("HistoryLedger").Return(ledger).Once(),
			ledger.On("Append", mock.Anything, mock.AnythingOfType("*parcel.HistoryEntry")).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)
		factory := new(MockParcelUoWFactory)
		factory.On("Create").Return(uow).Once()

		notifier := new(MockNotifier)
		notifier.On("DispatchAsync", mock.MatchedBy(func(e notifications.ParcelEvent) bool {
			return e.Kind == notifications.EventCreated && e.Status == "pending"
		})).Once()

		h := commands.NewCreateParcelCommandHandler(factory, services.NewFeeCalculator(), notifier)
		returned, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		uow.AssertExpectations(t)
		repo.AssertExpectations(t)
		ledger.AssertExpectations(t)
		notifier.AssertExpectations(t)

		require.NotNil(t, created)
		assert.Same(t, created, returned)
		assert.Equal(t, parcel.StatusPending, created.Status())
		assert.InDelta(t, 153, created.Fee(), 0.001, "fee must be fixed from weight and addresses")
		assert.NoError(t, parcel.ValidateTrackingNumber(created.TrackingNumber()))
	})

	t.Run("should regenerate the tracking number on collision", func(t *testing.T) {
		ctx := t.Context()
		cmd := newCreateParcelCommand(t)

		repo := new(MockParcelRepository)
		repo.On("ExistsByTrackingNumber", mock.Anything, mock.AnythingOfType("string")).Return(true, nil).Once()
		repo.On("ExistsByTrackingNumber", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()
		repo.On("Add", mock.Anything, mock.AnythingOfType("*parcel.Parcel")).Return(nil).Once()

		ledger := new(MockHistoryLedger)
		ledger.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("ParcelRepository").Return(repo)
		uow.On("HistoryLedger").Return(ledger).Once()
		uow.On("Commit", ctx).Return(nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		factory := new(MockParcelUoWFactory)
		factory.On("Create").Return(uow).Once()

		notifier := new(MockNotifier)
		notifier.On("DispatchAsync", mock.Anything).Once()

		h := commands.NewCreateParcelCommandHandler(factory, services.NewFeeCalculator(), notifier)
		_, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("should fail with conflict when collisions exhaust the attempts", func(t *testing.T) {
		ctx := t.Context()
		cmd := newCreateParcelCommand(t)

		repo := new(MockParcelRepository)
		repo.On("ExistsByTrackingNumber", mock.Anything, mock.AnythingOfType("string")).Return(true, nil).Times(5)

		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("ParcelRepository").Return(repo)
		uow.On("Rollback", ctx).Return(nil).Once()

		factory := new(MockParcelUoWFactory)
		factory.On("Create").Return(uow).Once()

		notifier := new(MockNotifier)

		h := commands.NewCreateParcelCommandHandler(factory, services.NewFeeCalculator(), notifier)
		_, err := h.Handle(ctx, cmd)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrConflict)
		notifier.AssertNotCalled(t, "DispatchAsync", mock.Anything)
	})

	t.Run("should not notify when the commit fails", func(t *testing.T) {
		ctx := t.Context()
		cmd := newCreateParcelCommand(t)

		repo := new(MockParcelRepository)
		repo.On("ExistsByTrackingNumber", mock.Anything, mock.Anything).Return(false, nil).Once()
		repo.On("Add", mock.Anything, mock.Anything).Return(nil).Once()

		ledger := new(MockHistoryLedger)
		ledger.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("ParcelRepository").Return(repo)
		uow.On("HistoryLedger").Return(ledger).Once()
		uow.On("Commit", ctx).Return(errors.New("connection reset")).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		factory := new(MockParcelUoWFactory)
		factory.On("Create").Return(uow).Once()

		notifier := new(MockNotifier)

		h := commands.NewCreateParcelCommandHandler(factory, services.NewFeeCalculator(), notifier)
		_, err := h.Handle(ctx, cmd)

		require.Error(t, err)
		notifier.AssertNotCalled(t, "DispatchAsync", mock.Anything)
	})

	t.Run("should reject an unconstructed command", func(t *testing.T) {
		h := commands.NewCreateParcelCommandHandler(new(MockParcelUoWFactory), services.NewFeeCalculator(), new(MockNotifier))

		_, err := h.Handle(t.Context(), commands.CreateParcelCommand{})

		assert.ErrorIs(t, err, commands.ErrCreateParcelCommandIsNotConstructed)
	})
}
