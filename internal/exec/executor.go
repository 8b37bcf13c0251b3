// Package exec interprets the ordered action list of a task against a model :
// it resolves the data each action needs, drives the training and evaluation
// and produces the structured run report.
package exec

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/drakos74/deep-task/internal/data"
	"github.com/drakos74/deep-task/internal/eval"
	"github.com/drakos74/deep-task/internal/metrics"
	"github.com/drakos74/deep-task/internal/net"
	"github.com/drakos74/deep-task/internal/report"
	"github.com/drakos74/deep-task/internal/task"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrMissingPhaseInput marks an action whose required data sources are absent.
var ErrMissingPhaseInput = errors.New("missing phase input")

// The actions an execution understands.
const (
	Pretrain = "pretrain"
	Train    = "train"
	Test     = "test"
	Save     = "save"
	Load     = "load"
)

// Execute interprets the given actions strictly in order against the model.
// A data or model failure aborts the whole remaining sequence, an unknown
// action is reported and skipped. The model is borrowed for the duration of
// the call, the returned report carries one section block per completed
// action, nothing is added for the action that failed.
func Execute(network net.Network, t task.Task, actions []string) (*report.Report, error) {
	runID := uuid.New().String()
	logger := log.With().Str("run", runID).Logger()

	rep := report.New()
	rep.Add(report.Section{
		Title: "Network",
		Rows:  []report.Row{{Key: "model", Value: network.Display()}},
	})
	logger.Info().
		Str("model", network.Display()).
		Strs("actions", actions).
		Msg("starting run")

	for _, action := range actions {
		var err error
		switch action {
		case Pretrain:
			err = pretrain(network, t, rep, logger)
		case Train:
			err = train(network, t, rep, logger)
		case Test:
			err = test(network, t, rep, logger)
		case Save:
			err = save(network, t, rep, logger)
		case Load:
			err = load(network, t, rep, logger)
		default:
			// unknown actions do not stop the run
			logger.Error().Str("action", action).Msg("unknown action")
			rep.Add(report.Section{
				Title: "Error",
				Rows: []report.Row{
					{Key: "action", Value: action},
					{Key: "error", Value: "unknown action"},
				},
			})
			metrics.Observer.IncrementAction(action, "unknown")
			continue
		}
		if err != nil {
			metrics.Observer.IncrementAction(action, "error")
			logger.Error().Err(err).Str("action", action).Msg("aborting run")
			return rep, fmt.Errorf("action '%s' failed: %w", action, err)
		}
		metrics.Observer.IncrementAction(action, "ok")
	}

	logger.Info().Msg("run done")
	return rep, nil
}

func pretrain(network net.Network, t task.Task, rep *report.Report, logger zerolog.Logger) error {
	if !t.Pretraining.Samples.IsPresent() {
		return fmt.Errorf("pretraining samples are not set: %w", ErrMissingPhaseInput)
	}

	samples, err := data.Samples(t.Pretraining.Samples, nil)
	if err != nil {
		return err
	}

	if err := network.Pretrain(samples, t.Pretrain.Epochs); err != nil {
		return err
	}

	rep.Add(report.Section{
		Title: "Pretraining",
		Rows: []report.Row{
			{Key: "samples", Value: strconv.Itoa(len(samples))},
			{Key: "epochs", Value: strconv.Itoa(t.Pretrain.Epochs)},
		},
	})
	metrics.Observer.AddEpochs("pretrain", t.Pretrain.Epochs)
	logger.Info().Int("samples", len(samples)).Int("epochs", t.Pretrain.Epochs).Msg("pretraining done")
	return nil
}

func train(network net.Network, t task.Task, rep *report.Report, logger zerolog.Logger) error {
	if !t.Training.Supervised() {
		return fmt.Errorf("training needs both samples and labels: %w", ErrMissingPhaseInput)
	}

	samples, labels, err := loadPair(t.Training)
	if err != nil {
		return err
	}

	if err := network.FineTune(samples, labels, t.Train.Epochs); err != nil {
		return err
	}

	rep.Add(report.Section{
		Title: "Training",
		Rows: []report.Row{
			{Key: "samples", Value: strconv.Itoa(len(samples))},
			{Key: "epochs", Value: strconv.Itoa(t.Train.Epochs)},
		},
	})
	metrics.Observer.AddEpochs("train", t.Train.Epochs)
	logger.Info().Int("samples", len(samples)).Int("epochs", t.Train.Epochs).Msg("training done")
	return nil
}

func test(network net.Network, t task.Task, rep *report.Report, logger zerolog.Logger) error {
	if !t.Testing.Supervised() {
		return fmt.Errorf("testing needs both samples and labels: %w", ErrMissingPhaseInput)
	}

	samples, labels, err := loadPair(t.Testing)
	if err != nil {
		return err
	}

	predictions := make([]int, len(samples))
	for i, sample := range samples {
		predictions[i] = network.Predict(sample)
	}

	evaluation, err := eval.Evaluate(predictions, labels, network.OutputClasses())
	if err != nil {
		return err
	}

	for _, section := range formatEvaluation(evaluation) {
		rep.Add(section)
	}

	logger.Info().
		Int("samples", evaluation.Samples).
		Float64("error", evaluation.Error).
		Float64("macro-error", evaluation.MacroError).
		Msg("testing done")
	return nil
}

// loadPair resolves both sources of a supervised phase and checks their alignment.
func loadPair(pair task.DataSourcePair) ([][]float64, []int, error) {
	samples, err := data.Samples(pair.Samples, nil)
	if err != nil {
		return nil, nil, err
	}
	labels, err := data.Labels(pair.Labels)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) != len(labels) {
		return nil, nil, fmt.Errorf("got %d samples for %d labels from '%s'",
			len(samples), len(labels), pair.Samples.Path)
	}
	return samples, labels, nil
}

func save(network net.Network, t task.Task, rep *report.Report, logger zerolog.Logger) error {
	if err := network.Store(t.Weights.File); err != nil {
		return fmt.Errorf("could not store weights to '%s': %w", t.Weights.File, err)
	}
	rep.Add(report.Section{
		Title: "Save Weights",
		Rows:  []report.Row{{Key: "file", Value: t.Weights.File}},
	})
	logger.Info().Str("file", t.Weights.File).Msg("weights saved")
	return nil
}

func load(network net.Network, t task.Task, rep *report.Report, logger zerolog.Logger) error {
	if err := network.Load(t.Weights.File); err != nil {
		return fmt.Errorf("could not load weights from '%s': %w", t.Weights.File, err)
	}
	rep.Add(report.Section{
		Title: "Load Weights",
		Rows:  []report.Row{{Key: "file", Value: t.Weights.File}},
	})
	logger.Info().Str("file", t.Weights.File).Msg("weights loaded")
	return nil
}
