package delivery_test

import (
	"strings"
	"testing"
	"time"

	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/model/otp"
	"proofparcel/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0     = time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)
	seller = kernel.MustNewPrincipal("seller-a")
	buyer  = kernel.MustNewPrincipal("buyer-b")
)

func mustAmount(t *testing.T, v uint64) kernel.Amount {
	t.Helper()
	a, err := kernel.NewAmount(v)
	require.NoError(t, err)
	return a
}

func newPending(t *testing.T) *delivery.Delivery {
	t.Helper()
	d, err := delivery.NewDelivery(kernel.NewUUID(), seller, buyer, "widget", mustAmount(t, 100), t0)
	require.NoError(t, err)
	return d
}

func newInTransitWithOtp(t *testing.T, value string, expiresAt time.Time) *delivery.Delivery {
	t.Helper()
	d := newPending(t)
	require.NoError(t, d.Start(t0.Add(time.Minute)))
	code, err := otp.NewCode(value, expiresAt)
	require.NoError(t, err)
	require.NoError(t, d.IssueOtp(code))
	return d
}

func TestNewDelivery(t *testing.T) {
	t.Run("should create a pending delivery", func(t *testing.T) {
		id := kernel.NewUUID()

		d, err := delivery.NewDelivery(id, seller, buyer, "  widget  ", mustAmount(t, 100), t0)

		require.NoError(t, err)
		require.NoError(t, d.Validate())
		assert.True(t, id.IsEqual(d.ID()))
		assert.Equal(t, delivery.Pending, d.Status())
		assert.Equal(t, "widget", d.Description())
		assert.Equal(t, uint64(100), d.Amount().Value())
		assert.Equal(t, t0, d.CreatedAt())
		assert.Nil(t, d.Otp())
		assert.Nil(t, d.ConfirmedAt())
		assert.Nil(t, d.EscrowReleasedAt())
		assert.Equal(t, []delivery.StatusChange{{Status: delivery.Pending, At: t0}}, d.History())
		assert.True(t, d.IsSeller(seller))
		assert.True(t, d.IsBuyer(buyer))
		assert.False(t, d.IsSeller(buyer))
	})

	t.Run("should reject buyer equal to seller with InvalidParty", func(t *testing.T) {
		_, err := delivery.NewDelivery(kernel.NewUUID(), seller, seller, "widget", mustAmount(t, 100), t0)

		require.ErrorIs(t, err, errs.ErrInvalidParty)
	})

	t.Run("should require a description", func(t *testing.T) {
		_, err := delivery.NewDelivery(kernel.NewUUID(), seller, buyer, "   ", mustAmount(t, 100), t0)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should bound the description length", func(t *testing.T) {
		long := strings.Repeat("x", delivery.MaxDescriptionLength+1)

		_, err := delivery.NewDelivery(kernel.NewUUID(), seller, buyer, long, mustAmount(t, 100), t0)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should report every invalid field at once", func(t *testing.T) {
		_, err := delivery.NewDelivery(kernel.UUID{}, seller, buyer, "", kernel.Amount{}, t0)

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, kernel.ErrAmountIsNotConstructed)
	})
}

func TestDelivery_Start(t *testing.T) {
	t.Run("should move pending delivery in transit", func(t *testing.T) {
		d := newPending(t)
		at := t0.Add(time.Minute)

		require.NoError(t, d.Start(at))

		assert.Equal(t, delivery.InTransit, d.Status())
		require.NotNil(t, d.InTransitAt())
		assert.Equal(t, at, *d.InTransitAt())
		assert.Len(t, d.History(), 2)
	})

	t.Run("should fail when already started", func(t *testing.T) {
		d := newPending(t)
		require.NoError(t, d.Start(t0))

		require.ErrorIs(t, d.Start(t0), errs.ErrInvalidState)
	})
}

func TestDelivery_IssueOtp(t *testing.T) {
	t.Run("should replace a previously issued code", func(t *testing.T) {
		d := newInTransitWithOtp(t, "FIRST1", t0.Add(time.Hour))
		second, _ := otp.NewCode("SECOND", t0.Add(2*time.Hour))

		require.NoError(t, d.IssueOtp(second))

		require.NotNil(t, d.Otp())
		assert.Equal(t, "SECOND", d.Otp().Value())
		require.ErrorIs(t, d.Deliver("FIRST1", t0), errs.ErrOtpMismatch)
	})

	t.Run("should fail outside InTransit", func(t *testing.T) {
		d := newPending(t)
		code, _ := otp.NewCode("ABCDEF", t0.Add(time.Hour))

		require.ErrorIs(t, d.IssueOtp(code), errs.ErrInvalidState)
		assert.Nil(t, d.Otp())
	})

	t.Run("should reject an unconstructed code", func(t *testing.T) {
		d := newPending(t)
		require.NoError(t, d.Start(t0))

		require.ErrorIs(t, d.IssueOtp(otp.Code{}), otp.ErrCodeIsNotConstructed)
	})
}

func TestDelivery_Deliver(t *testing.T) {
	expiry := t0.Add(5 * time.Minute)

	t.Run("should consume the otp and stamp confirmation", func(t *testing.T) {
		d := newInTransitWithOtp(t, "ABC123", expiry)
		at := t0.Add(3 * time.Minute)

		require.NoError(t, d.Deliver("ABC123", at))

		assert.Equal(t, delivery.Delivered, d.Status())
		assert.Nil(t, d.Otp())
		require.NotNil(t, d.ConfirmedAt())
		assert.Equal(t, at, *d.ConfirmedAt())
		require.NotNil(t, d.DeliveredAt())
	})

	t.Run("should leave the delivery untouched on mismatch", func(t *testing.T) {
		d := newInTransitWithOtp(t, "ABC123", expiry)
		before := d.Snapshot()

		require.ErrorIs(t, d.Deliver("WRONG1", t0), errs.ErrOtpMismatch)

		assert.Equal(t, before, d.Snapshot())
	})

	t.Run("should report expiry strictly after the deadline", func(t *testing.T) {
		d := newInTransitWithOtp(t, "ABC123", expiry)

		require.ErrorIs(t, d.Deliver("ABC123", expiry.Add(time.Second)), errs.ErrOtpExpired)
		assert.Equal(t, delivery.InTransit, d.Status())
	})

	t.Run("should report missing otp", func(t *testing.T) {
		d := newPending(t)
		require.NoError(t, d.Start(t0))

		require.ErrorIs(t, d.Deliver("ABC123", t0), errs.ErrOtpNotFound)
	})

	t.Run("should not accept the same code twice", func(t *testing.T) {
		d := newInTransitWithOtp(t, "ABC123", expiry)
		require.NoError(t, d.Deliver("ABC123", t0))
		require.ErrorIs(t, d.Deliver("ABC123", t0), errs.ErrOtpNotFound)

		require.NoError(t, d.Confirm(t0))
		require.ErrorIs(t, d.Deliver("ABC123", t0), errs.ErrOtpNotFound)
	})

	t.Run("should check status before the otp", func(t *testing.T) {
		d := newPending(t)

		require.ErrorIs(t, d.Deliver("ABC123", t0), errs.ErrInvalidState)
	})
}

func TestDelivery_ConfirmAndRelease(t *testing.T) {
	t.Run("should walk the happy path to EscrowReleased", func(t *testing.T) {
		d := newInTransitWithOtp(t, "ABC123", t0.Add(time.Hour))
		require.NoError(t, d.Deliver("ABC123", t0.Add(2*time.Minute)))

		require.NoError(t, d.Confirm(t0.Add(2*time.Minute)))
		assert.Equal(t, delivery.Confirmed, d.Status())

		require.NoError(t, d.ReleaseEscrow(t0.Add(3*time.Minute)))
		assert.Equal(t, delivery.EscrowReleased, d.Status())
		require.NotNil(t, d.EscrowReleasedAt())
		assert.True(t, d.Status().IsTerminal())

		statuses := make([]delivery.Status, 0)
		for _, change := range d.History() {
			statuses = append(statuses, change.Status)
		}
		assert.Equal(t, []delivery.Status{
			delivery.Pending, delivery.InTransit, delivery.Delivered, delivery.Confirmed, delivery.EscrowReleased,
		}, statuses)
	})

	t.Run("should refuse release before confirmation", func(t *testing.T) {
		d := newInTransitWithOtp(t, "ABC123", t0.Add(time.Hour))

		require.ErrorIs(t, d.ReleaseEscrow(t0), errs.ErrInvalidState)
		assert.Nil(t, d.EscrowReleasedAt())
	})
}

func TestDelivery_Cancel(t *testing.T) {
	t.Run("should cancel a pending delivery", func(t *testing.T) {
		d := newPending(t)

		require.NoError(t, d.Cancel(t0))

		assert.Equal(t, delivery.Cancelled, d.Status())
		require.NotNil(t, d.CancelledAt())
		require.ErrorIs(t, d.Start(t0), errs.ErrInvalidState)
	})

	t.Run("should cancel in transit and discard the otp", func(t *testing.T) {
		d := newInTransitWithOtp(t, "ABC123", t0.Add(time.Hour))

		require.NoError(t, d.Cancel(t0))

		assert.Nil(t, d.Otp())
	})

	t.Run("should not cancel a confirmed delivery", func(t *testing.T) {
		d := newInTransitWithOtp(t, "ABC123", t0.Add(time.Hour))
		require.NoError(t, d.Deliver("ABC123", t0))
		require.NoError(t, d.Confirm(t0))

		require.ErrorIs(t, d.Cancel(t0), errs.ErrInvalidState)
	})
}

func TestRestoreDelivery(t *testing.T) {
	t.Run("should round trip through Snapshot", func(t *testing.T) {
		d := newInTransitWithOtp(t, "ABC123", t0.Add(time.Hour))

		restored, err := delivery.RestoreDelivery(d.Snapshot())

		require.NoError(t, err)
		assert.Equal(t, d.Snapshot(), restored.Snapshot())
	})

	t.Run("should reject an otp outside InTransit", func(t *testing.T) {
		snapshot := newPending(t).Snapshot()
		code, _ := otp.NewCode("ABC123", t0.Add(time.Hour))
		snapshot.Otp = &code

		_, err := delivery.RestoreDelivery(snapshot)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject timestamps inconsistent with status", func(t *testing.T) {
		snapshot := newPending(t).Snapshot()
		at := t0
		snapshot.ConfirmedAt = &at

		_, err := delivery.RestoreDelivery(snapshot)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should require confirmation time once confirmed", func(t *testing.T) {
		d := newInTransitWithOtp(t, "ABC123", t0.Add(time.Hour))
		require.NoError(t, d.Deliver("ABC123", t0))
		require.NoError(t, d.Confirm(t0))
		snapshot := d.Snapshot()
		snapshot.ConfirmedAt = nil

		_, err := delivery.RestoreDelivery(snapshot)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject same buyer and seller", func(t *testing.T) {
		snapshot := newPending(t).Snapshot()
		snapshot.Buyer = snapshot.Seller

		_, err := delivery.RestoreDelivery(snapshot)

		require.ErrorIs(t, err, errs.ErrInvalidParty)
	})

	t.Run("zero value delivery fails validation", func(t *testing.T) {
		var d *delivery.Delivery

		require.ErrorIs(t, d.Validate(), delivery.ErrDeliveryIsNotConstructed)
	})
}
