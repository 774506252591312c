package services_test

import (
	"testing"

	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/services"
	"proofparcel/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityGuard_Authorize(t *testing.T) {
	d, _ := newDeliveryWithEntry(t)
	guard := services.NewIdentityGuard()

	cases := []struct {
		name    string
		caller  kernel.Principal
		role    services.Role
		allowed bool
	}{
		{"seller as seller", seller, services.RoleSeller, true},
		{"buyer as seller", buyer, services.RoleSeller, false},
		{"stranger as seller", other, services.RoleSeller, false},
		{"buyer as buyer", buyer, services.RoleBuyer, true},
		{"seller as buyer", seller, services.RoleBuyer, false},
		{"seller as party", seller, services.RoleParty, true},
		{"buyer as party", buyer, services.RoleParty, true},
		{"stranger as party", other, services.RoleParty, false},
		{"anonymous as seller", kernel.Principal{}, services.RoleSeller, false},
	}

	for _, tc := range cases {
		t.Run("should authorize "+tc.name+" correctly", func(t *testing.T) {
			err := guard.Authorize(tc.caller, tc.role, d, "do it")
			if tc.allowed {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, errs.ErrUnauthorized)
		})
	}

	t.Run("should name the required role in the message", func(t *testing.T) {
		err := guard.Authorize(buyer, services.RoleSeller, d, "start a delivery")

		assert.EqualError(t, err, "Unauthorized: only the seller can start a delivery")
	})

	t.Run("should reject unconstructed delivery", func(t *testing.T) {
		err := guard.Authorize(seller, services.RoleSeller, nil, "start a delivery")

		require.ErrorIs(t, err, delivery.ErrDeliveryIsNotConstructed)
	})
}

func TestParseReleasePolicy(t *testing.T) {
	t.Run("should map names to roles", func(t *testing.T) {
		expected := map[string]services.Role{
			"seller":  services.RoleSeller,
			" Buyer ": services.RoleBuyer,
			"EITHER":  services.RoleParty,
		}

		for name, role := range expected {
			policy, err := services.ParseReleasePolicy(name)

			require.NoError(t, err, name)
			assert.Equal(t, role, policy.Role(), name)
		}
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		_, err := services.ParseReleasePolicy("anyone")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
