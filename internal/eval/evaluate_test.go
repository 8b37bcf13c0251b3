package eval

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {

	type test struct {
		predictions []int
		truth       []int
		classes     int
		errorRate   float64
		macroError  float64
	}

	tests := map[string]test{
		"perfect": {
			predictions: []int{0, 1, 2, 0, 1, 2},
			truth:       []int{0, 1, 2, 0, 1, 2},
			classes:     3,
			errorRate:   0,
			macroError:  0,
		},
		"single-sample-single-class": {
			predictions: []int{0},
			truth:       []int{0},
			classes:     1,
			errorRate:   0,
			macroError:  0,
		},
		"uneven-support": {
			// class 0 : 3 of 4 correct, class 1 : 1 of 2 correct
			predictions: []int{0, 0, 0, 1, 1, 0},
			truth:       []int{0, 0, 0, 0, 1, 1},
			classes:     2,
			errorRate:   2.0 / 6.0,
			macroError:  (1.0/4.0 + 1.0/2.0) / 2.0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			report, err := Evaluate(tt.predictions, tt.truth, tt.classes)
			assert.NoError(t, err)
			assert.Equal(t, len(tt.predictions), report.Samples)
			assert.InDelta(t, tt.errorRate, report.Error, 1e-9)
			assert.InDelta(t, 1-tt.errorRate, report.Accuracy, 1e-9)
			assert.InDelta(t, tt.macroError, report.MacroError, 1e-9)
			assert.InDelta(t, 1-tt.macroError, report.MacroAccuracy, 1e-9)
		})
	}
}

func TestEvaluate_MacroIsMeanOfClassErrors(t *testing.T) {
	predictions := []int{0, 1, 1, 2, 2, 2, 0, 1, 2}
	truth := []int{0, 0, 1, 1, 2, 2, 2, 1, 0}

	report, err := Evaluate(predictions, truth, 3)
	assert.NoError(t, err)

	sum := 0.0
	for _, c := range report.Classes {
		assert.True(t, c.Support > 0)
		sum += c.Error
	}
	assert.InDelta(t, sum/3, report.MacroError, 1e-9)
}

func TestEvaluate_ZeroSupportClass(t *testing.T) {
	// class 2 has no true instances
	predictions := []int{0, 1, 2, 1}
	truth := []int{0, 1, 1, 1}

	report, err := Evaluate(predictions, truth, 3)
	assert.NoError(t, err)

	assert.True(t, math.IsNaN(report.Classes[2].Accuracy))
	assert.True(t, math.IsNaN(report.Classes[2].Error))
	assert.Equal(t, 0, report.Classes[2].Support)

	// the macro mean skips the unsupported class and stays finite
	assert.False(t, math.IsNaN(report.MacroError))
	assert.InDelta(t, (0.0+1.0/3.0)/2.0, report.MacroError, 1e-9)

	for _, pct := range report.Matrix.Percentages(2) {
		assert.True(t, math.IsNaN(pct))
	}
}

func TestEvaluate_SingleSampleMatrix(t *testing.T) {
	report, err := Evaluate([]int{0}, []int{0}, 1)
	assert.NoError(t, err)

	assert.Equal(t, 1, report.Matrix.Count(0, 0))
	assert.Equal(t, 0.0, report.Error)
	assert.Equal(t, 1.0, report.Accuracy)
}

func TestEvaluate_Idempotent(t *testing.T) {
	predictions := []int{0, 1, 0, 1}
	truth := []int{0, 1, 1, 1}

	first, err := Evaluate(predictions, truth, 2)
	assert.NoError(t, err)
	second, err := Evaluate(predictions, truth, 2)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEvaluate_InvalidInput(t *testing.T) {
	_, err := Evaluate([]int{0}, []int{0, 1}, 2)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = Evaluate([]int{}, []int{}, 2)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = Evaluate([]int{0}, []int{0}, 0)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestEvaluate_OutOfRangeClass(t *testing.T) {

	type test struct {
		predictions []int
		truth       []int
		classes     int
	}

	// a label file with non-digit bytes or a too-small class count
	// must surface as an error, never as a crash
	tests := map[string]test{
		"label-beyond-classes": {
			predictions: []int{0, 1},
			truth:       []int{0, 2},
			classes:     2,
		},
		"prediction-beyond-classes": {
			predictions: []int{0, 5},
			truth:       []int{0, 1},
			classes:     2,
		},
		"negative-label": {
			predictions: []int{0},
			truth:       []int{-1},
			classes:     2,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := Evaluate(tt.predictions, tt.truth, tt.classes)
				assert.True(t, errors.Is(err, ErrInvalidInput))
			})
		})
	}
}

func TestMatrix_Percentages(t *testing.T) {
	m := NewMatrix(2)
	m.Add(0, 0)
	m.Add(0, 0)
	m.Add(0, 1)
	m.Add(1, 1)

	assert.Equal(t, 3, m.Support(0))
	assert.InDeltaSlice(t, []float64{200.0 / 3.0, 100.0 / 3.0}, m.Percentages(0), 1e-9)
	assert.InDeltaSlice(t, []float64{0, 100}, m.Percentages(1), 1e-9)
}
