package backoff

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConstant(t *testing.T) {
	s := Constant(100 * time.Millisecond)
	for i := uint(1); i < 10; i++ {
		assert.Equal(t, 100*time.Millisecond, s(i))
	}
}

func TestBinaryExponential(t *testing.T) {
	s := BinaryExponential(100 * time.Millisecond)

	assert.Equal(t, 100*time.Millisecond, s(0))
	assert.Equal(t, 100*time.Millisecond, s(1))
	assert.Equal(t, 200*time.Millisecond, s(2))
	assert.Equal(t, 400*time.Millisecond, s(3))
	assert.Equal(t, 800*time.Millisecond, s(4))

	assert.EqualValues(t, math.MaxInt64, s(200))
}
