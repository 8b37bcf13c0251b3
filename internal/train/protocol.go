package train

import (
	"errors"
	"fmt"

	"github.com/drakos74/deep-task/internal/buffer"
	taskmath "github.com/drakos74/deep-task/internal/math"
	"github.com/rs/zerolog/log"
)

// ErrNoData marks a training run attempted over an empty generator.
var ErrNoData = errors.New("no training data")

// Stepper is the fine-grained training surface of a model :
// an explicit state machine stepped one epoch at a time.
type Stepper interface {
	// StartTraining transitions the model into its training state
	// and allocates any per-run state for the planned number of epochs.
	StartTraining(epochs int)
	// StartEpoch marks the beginning of the given zero-based epoch.
	StartEpoch(epoch int)
	// TrainEpoch consumes one full pass over the generator, applies the
	// parameter updates and returns the epoch's aggregate loss and error rate.
	TrainEpoch(gen *Generator, epoch int) (loss float64, errRate float64, err error)
	// StopEpoch closes the given epoch. Returning true stops the run early,
	// skipping the remaining planned epochs.
	StopEpoch(epoch int, errRate float64, loss float64) bool
	// StopTraining finalizes the run and returns the final measured error.
	StopTraining() float64
}

// StopCondition is a caller-side early stop hook,
// consulted after the model's own StopEpoch for every closed epoch.
type StopCondition func(epoch int, errRate, loss float64) bool

// Loop drives a stepper through the planned number of epochs.
// The generator is rewound exactly once before each epoch, so every epoch
// observes the full dataset from the start. The loop breaks immediately when
// the model or the stop condition signals, and always closes the run.
func Loop(s Stepper, gen *Generator, epochs int, stop StopCondition) (float64, error) {
	if gen == nil || gen.Len() == 0 {
		return 0, ErrNoData
	}

	s.StartTraining(epochs)

	for epoch := 0; epoch < epochs; epoch++ {
		s.StartEpoch(epoch)
		gen.Reset()

		loss, errRate, err := s.TrainEpoch(gen, epoch)
		if err != nil {
			s.StopTraining()
			return 0, fmt.Errorf("could not train epoch %d: %w", epoch, err)
		}

		halt := s.StopEpoch(epoch, errRate, loss)
		if !halt && stop != nil {
			halt = stop(epoch, errRate, loss)
		}

		log.Debug().
			Int("epoch", epoch).
			Float64("loss", loss).
			Float64("error", errRate).
			Bool("halt", halt).
			Msg("epoch done")

		if halt {
			log.Info().Int("epoch", epoch).Float64("error", errRate).Msg("early stop")
			break
		}
	}

	return s.StopTraining(), nil
}

// TrendStop returns a stop condition that tracks the recent epoch errors
// and signals once their fitted slope stops improving.
// It needs at least window epochs of history before it can trigger.
func TrendStop(window int) StopCondition {
	history := buffer.NewBuffer(window)
	return func(epoch int, errRate, loss float64) bool {
		history.Push(errRate)
		if history.Len() < window {
			return false
		}

		// epochs are consecutive, so fitting against window positions
		// preserves the slope sign
		yy := history.Get()
		xx := make([]float64, len(yy))
		for i := range xx {
			xx[i] = float64(i)
		}

		a, err := taskmath.Fit(xx, yy, 1)
		if err != nil {
			log.Warn().
				Err(err).
				Floats64("xx", xx).
				Floats64("yy", yy).
				Msg("could not fit error trend")
			return false
		}
		return a[1] >= 0
	}
}
