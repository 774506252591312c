package commands_test

import (
	"testing"

	"proofparcel/internal/core/application/usecases/commands"
	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/escrow"
	"proofparcel/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelDeliveryCommandHandler_Handle(t *testing.T) {
	t.Run("should cancel and refund", func(t *testing.T) {
		for name, d := range map[string]*delivery.Delivery{
			"pending":    newPendingDelivery(t),
			"in transit": newInTransitDelivery(t, "ABCDEF12"),
		} {
			t.Run(name, func(t *testing.T) {
				ctx := t.Context()
				entry := lockedEntryFor(t, d)
				cmd, err := commands.NewCancelDeliveryCommand(seller, d.ID())
				require.NoError(t, err)

				f := newUoWFixture()
				mock.InOrder(
					f.uow.On("Begin", ctx).Return(nil).Once(),
					f.deliveries.On("Get", mock.Anything, d.ID()).Return(d, nil).Once(),
					f.escrows.On("Get", mock.Anything, d.ID()).Return(entry, nil).Once(),
					f.deliveries.On("Update", mock.Anything, d).Return(nil).Once(),
					f.escrows.On("Update", mock.Anything, entry).Return(nil).Once(),
					f.notifications.On("Add", mock.Anything, mock.Anything).Return(nil).Once(),
					f.uow.On("Commit", ctx).Return(nil).Once(),
					f.uow.On("Rollback", ctx).Return(nil).Once(),
				)

				h := commands.NewCancelDeliveryCommandHandler(f.factory, fixedClock())
				require.NoError(t, h.Handle(ctx, cmd))
				assert.Equal(t, delivery.Cancelled, d.Status())
				assert.Nil(t, d.Otp())
				assert.Equal(t, escrow.Refunded, entry.State())
				f.assertExpectations(t)
			})
		}
	})

	t.Run("should reject a confirmed delivery", func(t *testing.T) {
		ctx := t.Context()
		d := newConfirmedDelivery(t)
		entry := lockedEntryFor(t, d)
		cmd, _ := commands.NewCancelDeliveryCommand(seller, d.ID())

		f := newUoWFixture()
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.deliveries.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()
		f.escrows.On("Get", mock.Anything, d.ID()).Return(entry, nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()

		h := commands.NewCancelDeliveryCommandHandler(f.factory, fixedClock())
		require.ErrorIs(t, h.Handle(ctx, cmd), errs.ErrInvalidState)
		assert.True(t, entry.IsLocked())
		f.assertExpectations(t)
	})

	t.Run("should reject the buyer", func(t *testing.T) {
		ctx := t.Context()
		d := newPendingDelivery(t)
		cmd, _ := commands.NewCancelDeliveryCommand(buyer, d.ID())

		f := newUoWFixture()
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.deliveries.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()

		h := commands.NewCancelDeliveryCommandHandler(f.factory, fixedClock())
		require.ErrorIs(t, h.Handle(ctx, cmd), errs.ErrUnauthorized)
		assert.Equal(t, delivery.Pending, d.Status())
	})
}
