package main

import (
	"flag"
	"fmt"
	"os"

	_ "github.com/drakos74/deep-task/internal/data/mnist"
	"github.com/drakos74/deep-task/internal/exec"
	"github.com/drakos74/deep-task/internal/net"
	"github.com/drakos74/deep-task/internal/report"
	"github.com/drakos74/deep-task/internal/task"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	taskFile := flag.String("task", "", "task description file")
	kind := flag.String("model", net.DenseKey, "model kind to construct")
	inputs := flag.Int("inputs", 784, "model input size")
	hidden := flag.Int("hidden", 0, "hidden layer size, 0 for the model default")
	outputs := flag.Int("outputs", 10, "number of output classes")
	weights := flag.String("weights", "", "weights file override")
	flag.Parse()

	actions := flag.Args()
	if *taskFile == "" || len(actions) == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s -task <file> [flags] <action> ...\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	t, err := task.Load(*taskFile)
	if err != nil {
		log.Error().Err(err).Str("file", *taskFile).Msg("could not load task")
		os.Exit(1)
	}
	if *weights != "" {
		t.Weights.File = *weights
	}

	network, err := net.New(*kind, net.Config{
		Inputs:       *inputs,
		Hidden:       *hidden,
		Outputs:      *outputs,
		LearningRate: t.Train.LearningRate,
		Momentum:     t.Train.Momentum,
		BatchSize:    t.Train.BatchSize,
	})
	if err != nil {
		log.Error().Err(err).Str("kind", *kind).Msg("could not build model")
		os.Exit(1)
	}

	rep, err := exec.Execute(network, t, actions)
	if rep != nil {
		report.Render(os.Stdout, rep)
	}
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}
