package services_test

import (
	"testing"
	"time"

	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/escrow"
	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/model/otp"

	"github.com/stretchr/testify/require"
)

var (
	t0     = time.Date(2026, 8, 3, 14, 0, 0, 0, time.UTC)
	seller = kernel.MustNewPrincipal("seller-a")
	buyer  = kernel.MustNewPrincipal("buyer-b")
	other  = kernel.MustNewPrincipal("mallory")
)

func newDeliveryWithEntry(t *testing.T) (*delivery.Delivery, *escrow.Entry) {
	t.Helper()
	amount, err := kernel.NewAmount(100)
	require.NoError(t, err)
	d, err := delivery.NewDelivery(kernel.NewUUID(), seller, buyer, "widget", amount, t0)
	require.NoError(t, err)
	entry, err := escrow.Lock(d.ID(), amount, t0)
	require.NoError(t, err)
	return d, entry
}

func startWithOtp(t *testing.T, d *delivery.Delivery, code string) {
	t.Helper()
	require.NoError(t, d.Start(t0))
	c, err := otp.NewCode(code, t0.Add(5*time.Minute))
	require.NoError(t, err)
	require.NoError(t, d.IssueOtp(c))
}
