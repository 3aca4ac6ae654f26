package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsReproducible(t *testing.T) {
	a, b := New(99), New(99)
	for i := 0; i < 16; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestDerive(t *testing.T) {
	assert.Equal(t, int64(1234), Derive(1234, 0))

	seen := map[int64]bool{}
	for stream := 0; stream < 32; stream++ {
		s := Derive(1234, stream)
		assert.False(t, seen[s], "stream %d collided", stream)
		seen[s] = true
	}
	assert.Equal(t, Derive(1234, 5), Derive(1234, 5))
}
