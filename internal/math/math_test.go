package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFit_Linear(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{1, 3, 5, 7, 9}

	c, err := Fit(x, y, 1)
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, c[0], 1e-9)
	assert.InDelta(t, 2.0, c[1], 1e-9)
}

func TestFit_Quadratic(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v*v - v + 3
	}

	c, err := Fit(x, y, 2)
	assert.NoError(t, err)
	assert.InDelta(t, 3.0, c[0], 1e-9)
	assert.InDelta(t, -1.0, c[1], 1e-9)
	assert.InDelta(t, 2.0, c[2], 1e-9)
}

func TestArgMax(t *testing.T) {
	assert.Equal(t, 0, ArgMax([]float64{1}))
	assert.Equal(t, 2, ArgMax([]float64{0.1, 0.3, 0.6}))
	assert.Equal(t, 0, ArgMax([]float64{0.5, 0.5}))
}

func TestOneHot(t *testing.T) {
	assert.Equal(t, []float64{0, 1, 0}, OneHot(1, 3))
	assert.Equal(t, []float64{0, 0, 0}, OneHot(5, 3))
	assert.Equal(t, []float64{0, 0, 0}, OneHot(-1, 3))
}
