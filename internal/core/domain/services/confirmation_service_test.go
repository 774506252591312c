package services_test

import (
	"testing"
	"time"

	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/services"
	"proofparcel/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmationService_Confirm(t *testing.T) {
	svc := services.NewConfirmationService()

	t.Run("should confirm and mint a receipt for the buyer", func(t *testing.T) {
		d, _ := newDeliveryWithEntry(t)
		startWithOtp(t, d, "ABC123")
		receiptID := kernel.NewUUID()
		at := t0.Add(time.Minute)

		minted, err := svc.Confirm(d, "ABC123", receiptID, at)

		require.NoError(t, err)
		assert.Equal(t, delivery.Confirmed, d.Status())
		assert.Nil(t, d.Otp())
		assert.True(t, receiptID.IsEqual(minted.ID()))
		assert.True(t, minted.Owner().IsEqual(buyer))
		assert.True(t, minted.DeliveryID().IsEqual(d.ID()))
		assert.Equal(t, at, minted.MintedAt())
	})

	t.Run("should not mint on a wrong code", func(t *testing.T) {
		d, _ := newDeliveryWithEntry(t)
		startWithOtp(t, d, "ABC123")

		minted, err := svc.Confirm(d, "XYZ789", kernel.NewUUID(), t0)

		require.ErrorIs(t, err, errs.ErrOtpMismatch)
		assert.Nil(t, minted)
		assert.Equal(t, delivery.InTransit, d.Status())
	})

	t.Run("should not mint after expiry", func(t *testing.T) {
		d, _ := newDeliveryWithEntry(t)
		startWithOtp(t, d, "ABC123")

		_, err := svc.Confirm(d, "ABC123", kernel.NewUUID(), t0.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrOtpExpired)
	})

	t.Run("should fail with an invalid receipt id", func(t *testing.T) {
		d, _ := newDeliveryWithEntry(t)
		startWithOtp(t, d, "ABC123")

		_, err := svc.Confirm(d, "ABC123", kernel.UUID{}, t0)

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}
