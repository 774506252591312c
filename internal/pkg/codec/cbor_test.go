package codec_test

import (
	"bytes"
	"testing"
	"time"

	"proofparcel/internal/pkg/codec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID      string            `cbor:"id"`
	Amount  uint64            `cbor:"amount"`
	At      time.Time         `cbor:"at"`
	Labels  map[string]string `cbor:"labels"`
	Omitted *uint64           `cbor:"omitted,omitempty"`
}

func TestMarshal(t *testing.T) {
	t.Run("should produce identical bytes regardless of map insertion order", func(t *testing.T) {
		a := sample{ID: "d-1", Amount: 100, Labels: map[string]string{"b": "2", "a": "1", "c": "3"}}
		b := sample{ID: "d-1", Amount: 100, Labels: map[string]string{"c": "3", "a": "1", "b": "2"}}

		first, err := codec.Marshal(a)
		require.NoError(t, err)
		second, err := codec.Marshal(b)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("should preserve timestamps with nanosecond precision", func(t *testing.T) {
		at := time.Date(2026, 3, 4, 5, 6, 7, 890, time.UTC)
		data, err := codec.Marshal(sample{ID: "d-1", At: at})
		require.NoError(t, err)

		var decoded sample
		require.NoError(t, codec.Unmarshal(data, &decoded))

		assert.True(t, at.Equal(decoded.At))
	})
}

func TestStream(t *testing.T) {
	t.Run("should decode values written by the encoder", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, codec.NewEncoder(&buf).Encode(sample{ID: "d-2", Amount: 7}))

		var decoded sample
		require.NoError(t, codec.NewDecoder(&buf).Decode(&decoded))

		assert.Equal(t, "d-2", decoded.ID)
		assert.Equal(t, uint64(7), decoded.Amount)
		assert.Nil(t, decoded.Omitted)
	})
}
