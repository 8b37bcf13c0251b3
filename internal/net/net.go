package net

import (
	"errors"
	"fmt"

	"github.com/drakos74/deep-task/internal/train"
	"github.com/rs/zerolog/log"
)

// ErrUnknownNetwork marks a model kind nothing is registered for.
var ErrUnknownNetwork = errors.New("unknown network")

// Network is the model contract the execution engine drives.
// The engine borrows the model for the duration of one run and never owns it.
type Network interface {
	train.Stepper
	// Display describes the model topology for the run report.
	Display() string
	// OutputClasses returns the number of output classes.
	OutputClasses() int
	// Pretrain runs the full unsupervised phase to completion.
	Pretrain(samples [][]float64, epochs int) error
	// FineTune runs the full supervised phase to completion.
	FineTune(samples [][]float64, labels []int, epochs int) error
	// Predict returns the class index for the given sample.
	Predict(sample []float64) int
	// Store writes the model parameters to the given path.
	Store(path string) error
	// Load reads the model parameters from the given path.
	Load(path string) error
}

// Config carries the topology and the task-level hyperparameter overrides
// into a model constructor. Nil overrides keep the model defaults.
type Config struct {
	Inputs       int
	Hidden       int
	Outputs      int
	LearningRate *float64
	Momentum     *float64
	BatchSize    *int
}

// Rate returns the configured learning rate, or the given default.
func (c Config) Rate(def float64) float64 {
	if c.LearningRate != nil {
		return *c.LearningRate
	}
	return def
}

// Inertia returns the configured momentum, or the given default.
func (c Config) Inertia(def float64) float64 {
	if c.Momentum != nil {
		return *c.Momentum
	}
	return def
}

// Batch returns the configured batch size, or the given default.
func (c Config) Batch(def int) int {
	if c.BatchSize != nil {
		return *c.BatchSize
	}
	return def
}

// Construct defines a network constructor func.
type Construct func(cfg Config) (Network, error)

var constructors = make(map[string]Construct)

// Register makes a network kind available to New.
func Register(kind string, construct Construct) {
	if _, ok := constructors[kind]; ok {
		log.Warn().Str("kind", kind).Msg("overwriting network constructor")
	}
	constructors[kind] = construct
}

// New resolves the given kind through the registry and builds the network.
func New(kind string, cfg Config) (Network, error) {
	construct, ok := constructors[kind]
	if !ok {
		return nil, fmt.Errorf("no constructor for kind '%s': %w", kind, ErrUnknownNetwork)
	}
	return construct(cfg)
}
