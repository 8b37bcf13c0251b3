package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer_Push(t *testing.T) {
	b := NewBuffer(3)

	for i := 0; i < 3; i++ {
		_, evicted := b.Push(float64(i))
		assert.False(t, evicted)
	}

	v, evicted := b.Push(3)
	assert.True(t, evicted)
	assert.Equal(t, 0.0, v)
	assert.Equal(t, []float64{1, 2, 3}, b.Get())
	assert.Equal(t, 3, b.Len())
}

func TestBuffer_Last(t *testing.T) {
	b := NewBuffer(2)
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0.0, b.Last())

	b.Push(0.5)
	b.Push(0.4)
	b.Push(0.3)
	assert.Equal(t, 0.3, b.Last())
	assert.Equal(t, []float64{0.4, 0.3}, b.Get())
}

func TestStats_Push(t *testing.T) {
	s := NewStats()
	for _, v := range []float64{2, 4, 6} {
		s.Push(v)
	}

	assert.Equal(t, 3, s.Count())
	assert.InDelta(t, 4.0, s.Avg(), 1e-9)
	assert.InDelta(t, 12.0, s.Sum(), 1e-9)
	assert.InDelta(t, 4.0, s.Diff(), 1e-9)
	assert.InDelta(t, 8.0/3.0, s.Variance(), 1e-9)
}
