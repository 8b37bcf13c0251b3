package eval

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidInput marks prediction/truth collections that cannot be evaluated.
var ErrInvalidInput = errors.New("invalid evaluation input")

// Matrix is a square confusion matrix of true class vs predicted class counts.
type Matrix struct {
	classes int
	counts  [][]int
}

// NewMatrix creates a zeroed confusion matrix for the given number of classes.
func NewMatrix(classes int) *Matrix {
	counts := make([][]int, classes)
	for i := range counts {
		counts[i] = make([]int, classes)
	}
	return &Matrix{
		classes: classes,
		counts:  counts,
	}
}

// Classes returns the matrix dimension.
func (m *Matrix) Classes() int {
	return m.classes
}

// Add counts one observation of the given true and predicted class.
func (m *Matrix) Add(truth, predicted int) {
	m.counts[truth][predicted]++
}

// Count returns the number of observations for the given true and predicted class.
func (m *Matrix) Count(truth, predicted int) int {
	return m.counts[truth][predicted]
}

// Support returns the number of observations whose true class is l.
func (m *Matrix) Support(l int) int {
	total := 0
	for _, c := range m.counts[l] {
		total += c
	}
	return total
}

// Percentages returns the row of the given true class normalized to percentages.
// A class with no observations yields NaN cells.
func (m *Matrix) Percentages(l int) []float64 {
	total := float64(m.Support(l))
	row := make([]float64, m.classes)
	for p, c := range m.counts[l] {
		if total == 0 {
			row[p] = math.NaN()
		} else {
			row[p] = 100 * float64(c) / total
		}
	}
	return row
}

// ClassStats holds the per-class evaluation outcome.
// A class with no true instances in the test set carries NaN accuracy and error.
type ClassStats struct {
	Class    int
	Support  int
	Accuracy float64
	Error    float64
}

// Report is the full outcome of one evaluation pass.
type Report struct {
	Samples       int
	Matrix        *Matrix
	Error         float64
	Accuracy      float64
	Classes       []ClassStats
	MacroError    float64
	MacroAccuracy float64
}

// Evaluate builds a confusion matrix from the index-aligned predictions and truth
// and derives the overall, per-class and macro-averaged statistics.
// Every prediction and label must lie in [0, classes), labels come from
// external files and are not trusted.
// Classes with no true instances report NaN and are left out of the macro mean,
// which divides by the number of classes with support.
func Evaluate(predictions, truth []int, classes int) (*Report, error) {
	if len(predictions) != len(truth) {
		return nil, fmt.Errorf("got %d predictions for %d labels: %w",
			len(predictions), len(truth), ErrInvalidInput)
	}
	if len(predictions) == 0 {
		return nil, fmt.Errorf("nothing to evaluate: %w", ErrInvalidInput)
	}
	if classes <= 0 {
		return nil, fmt.Errorf("invalid class count %d: %w", classes, ErrInvalidInput)
	}

	matrix := NewMatrix(classes)
	n := len(predictions)
	tp := 0
	for i, predicted := range predictions {
		if predicted < 0 || predicted >= classes {
			return nil, fmt.Errorf("prediction %d at index %d is outside [0,%d): %w",
				predicted, i, classes, ErrInvalidInput)
		}
		if truth[i] < 0 || truth[i] >= classes {
			return nil, fmt.Errorf("label %d at index %d is outside [0,%d): %w",
				truth[i], i, classes, ErrInvalidInput)
		}
		if predicted == truth[i] {
			tp++
		}
		matrix.Add(truth[i], predicted)
	}

	errorRate := float64(n-tp) / float64(n)

	stats := make([]ClassStats, classes)
	classErrors := make([]float64, 0, classes)
	for l := 0; l < classes; l++ {
		support := matrix.Support(l)
		stats[l] = ClassStats{
			Class:    l,
			Support:  support,
			Accuracy: math.NaN(),
			Error:    math.NaN(),
		}
		if support == 0 {
			continue
		}
		classError := float64(support-matrix.Count(l, l)) / float64(support)
		stats[l].Error = classError
		stats[l].Accuracy = 1 - classError
		classErrors = append(classErrors, classError)
	}

	macroError := math.NaN()
	if len(classErrors) > 0 {
		macroError = floats.Sum(classErrors) / float64(len(classErrors))
	}

	return &Report{
		Samples:       n,
		Matrix:        matrix,
		Error:         errorRate,
		Accuracy:      1 - errorRate,
		Classes:       stats,
		MacroError:    macroError,
		MacroAccuracy: 1 - macroError,
	}, nil
}
