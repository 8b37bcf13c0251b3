package net

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/drakos74/deep-task/internal/buffer"
	taskmath "github.com/drakos74/deep-task/internal/math"
	"github.com/drakos74/deep-task/internal/storage"
	"github.com/drakos74/deep-task/internal/train"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

// DenseKey is the registry kind of the feed-forward classifier.
const DenseKey = "dense"

const (
	defaultRate     = 0.1
	defaultMomentum = 0.0
	defaultBatch    = 10
	defaultHidden   = 32

	denseSeed = 42
)

func init() {
	Register(DenseKey, func(cfg Config) (Network, error) {
		return NewDense(cfg)
	})
}

// Dense is a feed-forward classifier with one sigmoid hidden layer,
// trained with stochastic gradient descent and optional momentum.
type Dense struct {
	inputs  int
	hidden  int
	outputs int

	rate     float64
	momentum float64
	batch    int

	w1, w2   *mat.Dense
	b1, b2   []float64
	recon    []float64
	vw1, vw2 *mat.Dense
	vb1, vb2 []float64

	training bool
	lastErr  float64
}

// NewDense creates a dense network for the given topology.
// Zero hidden size falls back to the default, overrides fall back to the model defaults.
func NewDense(cfg Config) (*Dense, error) {
	if cfg.Inputs <= 0 || cfg.Outputs <= 0 {
		return nil, fmt.Errorf("invalid topology [%d -> %d]", cfg.Inputs, cfg.Outputs)
	}
	hidden := cfg.Hidden
	if hidden <= 0 {
		hidden = defaultHidden
	}

	rng := rand.New(rand.NewSource(denseSeed))
	d := &Dense{
		inputs:   cfg.Inputs,
		hidden:   hidden,
		outputs:  cfg.Outputs,
		rate:     cfg.Rate(defaultRate),
		momentum: cfg.Inertia(defaultMomentum),
		batch:    cfg.Batch(defaultBatch),
	}

	d.w1 = randMatrix(hidden, cfg.Inputs, rng)
	d.w2 = randMatrix(cfg.Outputs, hidden, rng)
	d.b1 = make([]float64, hidden)
	d.b2 = make([]float64, cfg.Outputs)
	d.recon = make([]float64, cfg.Inputs)
	d.resetVelocity()

	return d, nil
}

func randMatrix(rows, cols int, rng *rand.Rand) *mat.Dense {
	values := make([]float64, rows*cols)
	scale := 1 / math.Sqrt(float64(cols))
	for i := range values {
		values[i] = (rng.Float64()*2 - 1) * scale
	}
	return mat.NewDense(rows, cols, values)
}

func (d *Dense) resetVelocity() {
	d.vw1 = mat.NewDense(d.hidden, d.inputs, nil)
	d.vw2 = mat.NewDense(d.outputs, d.hidden, nil)
	d.vb1 = make([]float64, d.hidden)
	d.vb2 = make([]float64, d.outputs)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Display describes the network topology and hyperparameters.
func (d *Dense) Display() string {
	return fmt.Sprintf("dense network [%d -> %d -> %d] rate=%.3f momentum=%.2f batch=%d",
		d.inputs, d.hidden, d.outputs, d.rate, d.momentum, d.batch)
}

// OutputClasses returns the number of output classes.
func (d *Dense) OutputClasses() int {
	return d.outputs
}

func (d *Dense) forward(sample []float64) (hidden, output []float64) {
	hidden = make([]float64, d.hidden)
	for i := 0; i < d.hidden; i++ {
		sum := d.b1[i]
		for j, x := range sample {
			sum += d.w1.At(i, j) * x
		}
		hidden[i] = sigmoid(sum)
	}
	output = make([]float64, d.outputs)
	for i := 0; i < d.outputs; i++ {
		sum := d.b2[i]
		for j, h := range hidden {
			sum += d.w2.At(i, j) * h
		}
		output[i] = sigmoid(sum)
	}
	return hidden, output
}

// Predict returns the class index for the given sample.
func (d *Dense) Predict(sample []float64) int {
	_, output := d.forward(sample)
	return taskmath.ArgMax(output)
}

// trainSample applies one stochastic gradient step.
// It returns the sample's squared-error loss and whether it was classified correctly.
func (d *Dense) trainSample(sample []float64, label int) (float64, bool) {
	hidden, output := d.forward(sample)
	target := taskmath.OneHot(label, d.outputs)

	loss := 0.0
	deltaOut := make([]float64, d.outputs)
	for i, o := range output {
		diff := o - target[i]
		loss += diff * diff
		deltaOut[i] = diff * o * (1 - o)
	}

	deltaHidden := make([]float64, d.hidden)
	for j, h := range hidden {
		sum := 0.0
		for i := 0; i < d.outputs; i++ {
			sum += deltaOut[i] * d.w2.At(i, j)
		}
		deltaHidden[j] = sum * h * (1 - h)
	}

	for i := 0; i < d.outputs; i++ {
		for j, h := range hidden {
			v := d.momentum*d.vw2.At(i, j) - d.rate*deltaOut[i]*h
			d.vw2.Set(i, j, v)
			d.w2.Set(i, j, d.w2.At(i, j)+v)
		}
		d.vb2[i] = d.momentum*d.vb2[i] - d.rate*deltaOut[i]
		d.b2[i] += d.vb2[i]
	}
	for i := 0; i < d.hidden; i++ {
		for j, x := range sample {
			v := d.momentum*d.vw1.At(i, j) - d.rate*deltaHidden[i]*x
			d.vw1.Set(i, j, v)
			d.w1.Set(i, j, d.w1.At(i, j)+v)
		}
		d.vb1[i] = d.momentum*d.vb1[i] - d.rate*deltaHidden[i]
		d.b1[i] += d.vb1[i]
	}

	return loss, taskmath.ArgMax(output) == label
}

// StartTraining transitions the network into its training state,
// resetting the momentum velocities for the run.
func (d *Dense) StartTraining(epochs int) {
	d.resetVelocity()
	d.training = true
	log.Debug().Int("epochs", epochs).Msg("start training")
}

// StartEpoch marks the beginning of the given epoch.
func (d *Dense) StartEpoch(epoch int) {
	log.Debug().Int("epoch", epoch).Msg("start epoch")
}

// TrainEpoch consumes one full pass over the generator and applies the parameter updates.
// The network must be in its training state, entered through StartTraining.
func (d *Dense) TrainEpoch(gen *train.Generator, epoch int) (float64, float64, error) {
	if !d.training {
		return 0, 0, fmt.Errorf("network is not in training state")
	}

	lossStats := buffer.NewStats()
	mistakes := 0
	count := 0

	for batch, ok := gen.Next(); ok; batch, ok = gen.Next() {
		for i, sample := range batch.Samples {
			loss, correct := d.trainSample(sample, batch.Labels[i])
			lossStats.Push(loss)
			if !correct {
				mistakes++
			}
			count++
		}
	}

	if count == 0 {
		return 0, 0, train.ErrNoData
	}

	errRate := float64(mistakes) / float64(count)
	d.lastErr = errRate
	return lossStats.Avg(), errRate, nil
}

// StopEpoch closes the given epoch. The dense network never stops itself early.
func (d *Dense) StopEpoch(epoch int, errRate float64, loss float64) bool {
	d.lastErr = errRate
	return false
}

// StopTraining finalizes the run and returns the final measured error.
func (d *Dense) StopTraining() float64 {
	d.training = false
	return d.lastErr
}

// Pretrain runs unsupervised reconstruction epochs over the hidden layer,
// nudging the input weights towards the sample distribution with tied weights.
func (d *Dense) Pretrain(samples [][]float64, epochs int) error {
	if len(samples) == 0 {
		return train.ErrNoData
	}

	for epoch := 0; epoch < epochs; epoch++ {
		lossStats := buffer.NewStats()
		for _, sample := range samples {
			lossStats.Push(d.reconstruct(sample))
		}
		log.Debug().
			Int("epoch", epoch).
			Float64("loss", lossStats.Avg()).
			Msg("pretrain epoch done")
	}

	log.Info().Int("epochs", epochs).Int("samples", len(samples)).Msg("pretraining done")
	return nil
}

// reconstruct applies one tied-weight autoencoder step on the hidden layer
// and returns the sample's reconstruction loss.
func (d *Dense) reconstruct(sample []float64) float64 {
	hidden := make([]float64, d.hidden)
	for i := 0; i < d.hidden; i++ {
		sum := d.b1[i]
		for j, x := range sample {
			sum += d.w1.At(i, j) * x
		}
		hidden[i] = sigmoid(sum)
	}

	loss := 0.0
	deltaRecon := make([]float64, d.inputs)
	for j, x := range sample {
		sum := d.recon[j]
		for i, h := range hidden {
			sum += d.w1.At(i, j) * h
		}
		r := sigmoid(sum)
		diff := r - x
		loss += diff * diff
		deltaRecon[j] = diff * r * (1 - r)
	}

	deltaHidden := make([]float64, d.hidden)
	for i, h := range hidden {
		sum := 0.0
		for j := 0; j < d.inputs; j++ {
			sum += deltaRecon[j] * d.w1.At(i, j)
		}
		deltaHidden[i] = sum * h * (1 - h)
	}

	for i := 0; i < d.hidden; i++ {
		for j, x := range sample {
			grad := deltaRecon[j]*hidden[i] + deltaHidden[i]*x
			d.w1.Set(i, j, d.w1.At(i, j)-d.rate*grad)
		}
		d.b1[i] -= d.rate * deltaHidden[i]
	}
	for j := range sample {
		d.recon[j] -= d.rate * deltaRecon[j]
	}

	return loss
}

// FineTune runs the full supervised phase through the epoch loop.
func (d *Dense) FineTune(samples [][]float64, labels []int, epochs int) error {
	gen := train.NewGenerator(samples, labels, d.batch)
	finalErr, err := train.Loop(d, gen, epochs, nil)
	if err != nil {
		return err
	}
	log.Info().
		Int("epochs", epochs).
		Int("samples", len(samples)).
		Float64("error", finalErr).
		Msg("fine-tuning done")
	return nil
}

type denseState struct {
	Inputs  int         `json:"inputs"`
	Hidden  int         `json:"hidden"`
	Outputs int         `json:"outputs"`
	W1      [][]float64 `json:"w1"`
	W2      [][]float64 `json:"w2"`
	B1      []float64   `json:"b1"`
	B2      []float64   `json:"b2"`
	Recon   []float64   `json:"recon"`
}

func matRows(m *mat.Dense) [][]float64 {
	rows, cols := m.Dims()
	vv := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		vv[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			vv[i][j] = m.At(i, j)
		}
	}
	return vv
}

func rowsMat(vv [][]float64, rows, cols int) (*mat.Dense, error) {
	if len(vv) != rows {
		return nil, fmt.Errorf("expected %d rows, got %d", rows, len(vv))
	}
	m := mat.NewDense(rows, cols, nil)
	for i, row := range vv {
		if len(row) != cols {
			return nil, fmt.Errorf("expected %d cols in row %d, got %d", cols, i, len(row))
		}
		for j, v := range row {
			m.Set(i, j, v)
		}
	}
	return m, nil
}

// Store writes the network parameters to the given path.
func (d *Dense) Store(path string) error {
	state := denseState{
		Inputs:  d.inputs,
		Hidden:  d.hidden,
		Outputs: d.outputs,
		W1:      matRows(d.w1),
		W2:      matRows(d.w2),
		B1:      d.b1,
		B2:      d.b2,
		Recon:   d.recon,
	}
	return storage.Save(path, state)
}

// Load reads the network parameters from the given path.
// The stored topology must match the network's own.
func (d *Dense) Load(path string) error {
	var state denseState
	if err := storage.Load(path, &state); err != nil {
		return err
	}
	if state.Inputs != d.inputs || state.Hidden != d.hidden || state.Outputs != d.outputs {
		return fmt.Errorf("stored topology [%d -> %d -> %d] does not match [%d -> %d -> %d]",
			state.Inputs, state.Hidden, state.Outputs, d.inputs, d.hidden, d.outputs)
	}
	if len(state.B1) != d.hidden || len(state.B2) != d.outputs || len(state.Recon) != d.inputs {
		return fmt.Errorf("stored bias sizes [%d %d %d] do not match topology [%d -> %d -> %d]",
			len(state.B1), len(state.B2), len(state.Recon), d.inputs, d.hidden, d.outputs)
	}

	w1, err := rowsMat(state.W1, d.hidden, d.inputs)
	if err != nil {
		return fmt.Errorf("could not load hidden weights: %w", err)
	}
	w2, err := rowsMat(state.W2, d.outputs, d.hidden)
	if err != nil {
		return fmt.Errorf("could not load output weights: %w", err)
	}

	d.w1 = w1
	d.w2 = w2
	d.b1 = state.B1
	d.b2 = state.B2
	d.recon = state.Recon
	d.resetVelocity()
	return nil
}
