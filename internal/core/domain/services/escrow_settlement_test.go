package services_test

import (
	"testing"

	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/escrow"
	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/services"
	"proofparcel/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscrowSettlement_Release(t *testing.T) {
	settlement := services.NewEscrowSettlement()

	t.Run("should release a confirmed delivery", func(t *testing.T) {
		d, entry := newDeliveryWithEntry(t)
		startWithOtp(t, d, "ABC123")
		_, err := services.NewConfirmationService().Confirm(d, "ABC123", kernel.NewUUID(), t0)
		require.NoError(t, err)

		require.NoError(t, settlement.Release(d, entry, t0))

		assert.Equal(t, delivery.EscrowReleased, d.Status())
		assert.Equal(t, escrow.Released, entry.State())
	})

	t.Run("should refuse release before confirmation", func(t *testing.T) {
		d, entry := newDeliveryWithEntry(t)

		require.ErrorIs(t, settlement.Release(d, entry, t0), errs.ErrInvalidState)
		assert.True(t, entry.IsLocked())
	})

	t.Run("should report an already debited entry", func(t *testing.T) {
		d, entry := newDeliveryWithEntry(t)
		startWithOtp(t, d, "ABC123")
		_, err := services.NewConfirmationService().Confirm(d, "ABC123", kernel.NewUUID(), t0)
		require.NoError(t, err)
		require.NoError(t, entry.Release(t0))

		require.ErrorIs(t, settlement.Release(d, entry, t0), errs.ErrAlreadyReleased)
	})

	t.Run("should reject an entry of another delivery", func(t *testing.T) {
		d, _ := newDeliveryWithEntry(t)
		_, foreign := newDeliveryWithEntry(t)

		require.ErrorIs(t, settlement.Release(d, foreign, t0), errs.ErrValueIsInvalid)
	})
}

func TestEscrowSettlement_Refund(t *testing.T) {
	settlement := services.NewEscrowSettlement()

	t.Run("should cancel and unlock a pending delivery", func(t *testing.T) {
		d, entry := newDeliveryWithEntry(t)

		require.NoError(t, settlement.Refund(d, entry, t0))

		assert.Equal(t, delivery.Cancelled, d.Status())
		assert.Equal(t, escrow.Refunded, entry.State())
	})

	t.Run("should cancel an in transit delivery", func(t *testing.T) {
		d, entry := newDeliveryWithEntry(t)
		startWithOtp(t, d, "ABC123")

		require.NoError(t, settlement.Refund(d, entry, t0))

		assert.Nil(t, d.Otp())
	})

	t.Run("should refuse to cancel a cancelled delivery", func(t *testing.T) {
		d, entry := newDeliveryWithEntry(t)
		require.NoError(t, settlement.Refund(d, entry, t0))

		require.ErrorIs(t, settlement.Refund(d, entry, t0), errs.ErrInvalidState)
	})
}
