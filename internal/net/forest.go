package net

import (
	"fmt"

	taskmath "github.com/drakos74/deep-task/internal/math"
	"github.com/drakos74/deep-task/internal/storage"
	"github.com/drakos74/deep-task/internal/train"
	randomforest "github.com/malaschitz/randomForest"
	"github.com/rs/zerolog/log"
)

// ForestKey is the registry kind of the random forest classifier.
const ForestKey = "forest"

const defaultTrees = 1000

func init() {
	Register(ForestKey, func(cfg Config) (Network, error) {
		return NewForest(cfg)
	})
}

// Forest wraps a random forest behind the network contract.
// A forest trains in a single full pass, so its epoch loop stops itself
// after the first epoch.
type Forest struct {
	outputs int
	trees   int
	forest  *randomforest.Forest
	x       [][]float64
	y       []int
	lastErr float64
}

// NewForest creates a forest classifier for the given number of output classes.
func NewForest(cfg Config) (*Forest, error) {
	if cfg.Outputs <= 0 {
		return nil, fmt.Errorf("invalid class count %d", cfg.Outputs)
	}
	return &Forest{
		outputs: cfg.Outputs,
		trees:   defaultTrees,
	}, nil
}

// Display describes the forest setup.
func (r *Forest) Display() string {
	return fmt.Sprintf("random forest [%d trees -> %d classes]", r.trees, r.outputs)
}

// OutputClasses returns the number of output classes.
func (r *Forest) OutputClasses() int {
	return r.outputs
}

func (r *Forest) fit() {
	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: r.x, Class: r.y}
	forest.Train(r.trees)
	r.forest = forest
}

// Predict returns the class with the most votes for the given sample.
func (r *Forest) Predict(sample []float64) int {
	if r.forest == nil {
		log.Warn().Msg("predict on untrained forest")
		return 0
	}
	return taskmath.ArgMax(r.forest.Vote(sample))
}

// Pretrain is a no-op, the forest has no unsupervised phase.
func (r *Forest) Pretrain(samples [][]float64, epochs int) error {
	log.Debug().Int("samples", len(samples)).Msg("forest has no pretraining phase")
	return nil
}

// FineTune runs the supervised phase through the epoch loop.
func (r *Forest) FineTune(samples [][]float64, labels []int, epochs int) error {
	gen := train.NewGenerator(samples, labels, 0)
	_, err := train.Loop(r, gen, epochs, nil)
	return err
}

// StartTraining clears the accumulated training set for the run.
func (r *Forest) StartTraining(epochs int) {
	r.x = nil
	r.y = nil
}

// StartEpoch marks the beginning of the given epoch.
func (r *Forest) StartEpoch(epoch int) {}

// TrainEpoch accumulates the full pass, fits the forest over it
// and measures the training error by voting over the same pass.
func (r *Forest) TrainEpoch(gen *train.Generator, epoch int) (float64, float64, error) {
	x := make([][]float64, 0, gen.Len())
	y := make([]int, 0, gen.Len())
	for batch, ok := gen.Next(); ok; batch, ok = gen.Next() {
		x = append(x, batch.Samples...)
		y = append(y, batch.Labels...)
	}
	if len(x) == 0 {
		return 0, 0, train.ErrNoData
	}

	r.x = x
	r.y = y
	r.fit()

	mistakes := 0
	for i, sample := range x {
		if r.Predict(sample) != y[i] {
			mistakes++
		}
	}
	errRate := float64(mistakes) / float64(len(x))
	r.lastErr = errRate
	return errRate, errRate, nil
}

// StopEpoch always signals an early stop : one full pass fits the forest completely.
func (r *Forest) StopEpoch(epoch int, errRate float64, loss float64) bool {
	r.lastErr = errRate
	return true
}

// StopTraining returns the final measured training error.
func (r *Forest) StopTraining() float64 {
	return r.lastErr
}

type forestState struct {
	Outputs int         `json:"outputs"`
	X       [][]float64 `json:"x"`
	Y       []int       `json:"y"`
}

// Store persists the forest's training set, the trees are rebuilt on load.
func (r *Forest) Store(path string) error {
	return storage.Save(path, forestState{
		Outputs: r.outputs,
		X:       r.x,
		Y:       r.y,
	})
}

// Load reads a stored training set and refits the forest over it.
func (r *Forest) Load(path string) error {
	var state forestState
	if err := storage.Load(path, &state); err != nil {
		return err
	}
	if state.Outputs != r.outputs {
		return fmt.Errorf("stored class count %d does not match %d", state.Outputs, r.outputs)
	}
	r.x = state.X
	r.y = state.Y
	if len(r.x) > 0 {
		r.fit()
	}
	return nil
}
