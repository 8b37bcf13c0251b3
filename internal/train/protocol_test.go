package train

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockStepper records the protocol calls it receives.
type mockStepper struct {
	started      int
	stopped      int
	startEpochs  []int
	trainEpochs  []int
	stopEpochs   []int
	seenPerEpoch []int
	stopAt       int // epoch index at which StopEpoch signals, -1 to never stop
	epochErr     error
	finalErr     float64
}

func newMockStepper(stopAt int) *mockStepper {
	return &mockStepper{stopAt: stopAt}
}

func (m *mockStepper) StartTraining(epochs int) {
	m.started++
}

func (m *mockStepper) StartEpoch(epoch int) {
	m.startEpochs = append(m.startEpochs, epoch)
}

func (m *mockStepper) TrainEpoch(gen *Generator, epoch int) (float64, float64, error) {
	m.trainEpochs = append(m.trainEpochs, epoch)
	seen := 0
	for batch, ok := gen.Next(); ok; batch, ok = gen.Next() {
		seen += len(batch.Samples)
	}
	m.seenPerEpoch = append(m.seenPerEpoch, seen)
	return 0.5, 0.1, m.epochErr
}

func (m *mockStepper) StopEpoch(epoch int, errRate float64, loss float64) bool {
	m.stopEpochs = append(m.stopEpochs, epoch)
	return epoch == m.stopAt
}

func (m *mockStepper) StopTraining() float64 {
	m.stopped++
	return m.finalErr
}

func samplesOf(n int) [][]float64 {
	ss := make([][]float64, n)
	for i := range ss {
		ss[i] = []float64{float64(i)}
	}
	return ss
}

func TestLoop(t *testing.T) {
	stepper := newMockStepper(-1)
	stepper.finalErr = 0.05

	gen := NewGenerator(samplesOf(10), make([]int, 10), 3)
	finalErr, err := Loop(stepper, gen, 3, nil)

	assert.NoError(t, err)
	assert.Equal(t, 0.05, finalErr)
	assert.Equal(t, 1, stepper.started)
	assert.Equal(t, 1, stepper.stopped)
	assert.Equal(t, []int{0, 1, 2}, stepper.startEpochs)
	assert.Equal(t, []int{0, 1, 2}, stepper.trainEpochs)
	assert.Equal(t, []int{0, 1, 2}, stepper.stopEpochs)
}

func TestLoop_EarlyStop(t *testing.T) {
	stepper := newMockStepper(1)

	gen := NewGenerator(samplesOf(4), make([]int, 4), 2)
	_, err := Loop(stepper, gen, 3, nil)

	assert.NoError(t, err)
	// the stop signal at epoch 1 skips epoch 2 entirely
	assert.Equal(t, []int{0, 1}, stepper.trainEpochs)
	assert.Equal(t, 1, stepper.stopped)
}

func TestLoop_GeneratorResetPerEpoch(t *testing.T) {
	stepper := newMockStepper(-1)

	gen := NewGenerator(samplesOf(7), make([]int, 7), 2)
	_, err := Loop(stepper, gen, 3, nil)

	assert.NoError(t, err)
	// every epoch observes the full dataset from the start
	assert.Equal(t, []int{7, 7, 7}, stepper.seenPerEpoch)
}

func TestLoop_StopCondition(t *testing.T) {
	stepper := newMockStepper(-1)

	stopped := make([]int, 0)
	stop := func(epoch int, errRate, loss float64) bool {
		stopped = append(stopped, epoch)
		return epoch == 0
	}

	gen := NewGenerator(samplesOf(2), make([]int, 2), 0)
	_, err := Loop(stepper, gen, 5, stop)

	assert.NoError(t, err)
	assert.Equal(t, []int{0}, stepper.trainEpochs)
	assert.Equal(t, []int{0}, stopped)
	assert.Equal(t, 1, stepper.stopped)
}

func TestLoop_NoData(t *testing.T) {
	stepper := newMockStepper(-1)

	_, err := Loop(stepper, NewGenerator(nil, nil, 10), 3, nil)
	assert.True(t, errors.Is(err, ErrNoData))
	assert.Equal(t, 0, stepper.started)

	_, err = Loop(stepper, nil, 3, nil)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestLoop_EpochError(t *testing.T) {
	stepper := newMockStepper(-1)
	stepper.epochErr = errors.New("diverged")

	gen := NewGenerator(samplesOf(2), make([]int, 2), 0)
	_, err := Loop(stepper, gen, 3, nil)

	assert.Error(t, err)
	assert.Equal(t, []int{0}, stepper.trainEpochs)
	// the run is still closed on failure
	assert.Equal(t, 1, stepper.stopped)
}

func TestTrendStop(t *testing.T) {

	type test struct {
		errors []float64
		stop   bool
	}

	tests := map[string]test{
		"improving": {
			errors: []float64{0.5, 0.4, 0.3, 0.2, 0.1},
			stop:   false,
		},
		"degrading": {
			errors: []float64{0.1, 0.2, 0.3, 0.4, 0.5},
			stop:   true,
		},
		"flat": {
			errors: []float64{0.3, 0.3, 0.3, 0.3, 0.3},
			stop:   true,
		},
		"not-enough-history": {
			errors: []float64{0.5, 0.4},
			stop:   false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			stop := TrendStop(3)
			halted := false
			for epoch, e := range tt.errors {
				if stop(epoch, e, e) {
					halted = true
					break
				}
			}
			assert.Equal(t, tt.stop, halted)
		})
	}
}

func TestGenerator(t *testing.T) {
	gen := NewGenerator(samplesOf(5), []int{0, 1, 2, 3, 4}, 2)
	assert.Equal(t, 5, gen.Len())

	sizes := make([]int, 0)
	for batch, ok := gen.Next(); ok; batch, ok = gen.Next() {
		assert.Equal(t, len(batch.Samples), len(batch.Labels))
		sizes = append(sizes, len(batch.Samples))
	}
	assert.Equal(t, []int{2, 2, 1}, sizes)

	// exhausted until reset
	_, ok := gen.Next()
	assert.False(t, ok)

	gen.Reset()
	batch, ok := gen.Next()
	assert.True(t, ok)
	assert.Equal(t, []float64{0}, batch.Samples[0])
	assert.Equal(t, 0, batch.Labels[0])
}

func TestGenerator_SingleBatch(t *testing.T) {
	gen := NewGenerator(samplesOf(4), make([]int, 4), 0)

	batch, ok := gen.Next()
	assert.True(t, ok)
	assert.Equal(t, 4, len(batch.Samples))

	_, ok = gen.Next()
	assert.False(t, ok)
}
