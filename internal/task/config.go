package task

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// Load reads a task description from the given json file.
// Missing phase settings fall back to the defaults.
func Load(path string) (Task, error) {
	t := New()

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("could not read task file '%s': %w", path, err)
	}

	if err := json.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("could not parse task file '%s': %w", path, err)
	}

	if t.Pretrain.Epochs <= 0 {
		t.Pretrain.Epochs = DefaultEpochs
	}
	if t.Train.Epochs <= 0 {
		t.Train.Epochs = DefaultEpochs
	}
	if t.Weights.File == "" {
		t.Weights.File = DefaultWeightsFile
	}

	log.Info().
		Str("file", path).
		Int("pretrain-epochs", t.Pretrain.Epochs).
		Int("train-epochs", t.Train.Epochs).
		Str("weights", t.Weights.File).
		Msg("loaded task")

	return t, nil
}
