package kernel_test

import (
	"math"
	"testing"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAmount(t *testing.T) {
	t.Run("should accept positive values", func(t *testing.T) {
		for _, v := range []uint64{1, 100, math.MaxUint64} {
			a, err := kernel.NewAmount(v)

			require.NoError(t, err)
			require.NoError(t, a.Validate())
			assert.Equal(t, v, a.Value())
		}
	})

	t.Run("should reject zero with InvalidAmount", func(t *testing.T) {
		_, err := kernel.NewAmount(0)

		require.ErrorIs(t, err, errs.ErrInvalidAmount)
		kind, ok := errs.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, errs.KindInvalidAmount, kind)
	})

	t.Run("should format as decimal", func(t *testing.T) {
		a, _ := kernel.NewAmount(1500)

		assert.Equal(t, "1500", a.String())
	})

	t.Run("zero value should fail validation", func(t *testing.T) {
		var a kernel.Amount

		require.ErrorIs(t, a.Validate(), kernel.ErrAmountIsNotConstructed)
	})
}
