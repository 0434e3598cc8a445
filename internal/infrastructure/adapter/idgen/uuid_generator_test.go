package idgen

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator(t *testing.T) {
	g := NewUUIDGenerator()

	t.Run("Random ids differ", func(t *testing.T) {
		a, b := g.NewID(), g.NewID()
		assert.NotEqual(t, a, b)
		_, err := uuid.Parse(a)
		require.NoError(t, err)
	})

	t.Run("Derived keys are stable", func(t *testing.T) {
		k1 := g.DeriveKey("join", "acc-1", "t-1")
		k2 := g.DeriveKey("join", "acc-1", "t-1")
		assert.Equal(t, k1, k2)
		assert.NotEqual(t, k1, g.DeriveKey("join", "acc-1", "t-2"))
		assert.NotEqual(t, g.DeriveKey("ab", "c"), g.DeriveKey("a", "bc"))

		parsed, err := uuid.Parse(k1)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(5), parsed.Version())
	})
}
