package task

const (
	// DefaultEpochs is the number of epochs used when a phase does not specify its own.
	DefaultEpochs = 25
	// DefaultWeightsFile is the file the model parameters are stored to and loaded from.
	DefaultWeightsFile = "weights.dat"
)

// DataSource describes one external data input : where it lives,
// which reader understands it and what preprocessing to apply on read.
type DataSource struct {
	Path      string `json:"path"`
	Reader    string `json:"reader"`
	Binarize  bool   `json:"binarize"`
	Normalize bool   `json:"normalize"`
	Limit     int    `json:"limit"`
}

// NewDataSource creates a new data source for the given path and reader kind.
func NewDataSource(path, reader string) DataSource {
	return DataSource{
		Path:   path,
		Reader: reader,
	}
}

// IsPresent returns true if the source points somewhere.
// An empty path marks the source as absent.
func (s DataSource) IsPresent() bool {
	return s.Path != ""
}

// EffectiveLimit returns the record cap to pass to a reader, 0 meaning read everything.
func (s DataSource) EffectiveLimit() int {
	if s.Limit > 0 {
		return s.Limit
	}
	return 0
}

// DataSourcePair groups the samples and labels sources of one phase.
type DataSourcePair struct {
	Samples DataSource `json:"samples"`
	Labels  DataSource `json:"labels"`
}

// Supervised returns true if both samples and labels are present,
// e.g. the pair can back a supervised phase.
func (p DataSourcePair) Supervised() bool {
	return p.Samples.IsPresent() && p.Labels.IsPresent()
}

// PretrainConfig holds the hyperparameters of the pretraining phase.
type PretrainConfig struct {
	Epochs int `json:"epochs"`
}

// TrainConfig holds the hyperparameters of the fine-tuning phase.
// The pointer fields are overrides : when nil the model keeps its own default.
type TrainConfig struct {
	Epochs       int      `json:"epochs"`
	LearningRate *float64 `json:"learning_rate,omitempty"`
	Momentum     *float64 `json:"momentum,omitempty"`
	BatchSize    *int     `json:"batch_size,omitempty"`
}

// WeightsConfig points to the file the model parameters live in.
type WeightsConfig struct {
	File string `json:"file"`
}

// Task is the declarative description of one experiment : the data for each phase,
// the phase hyperparameters and the weights file.
// A task is built once from configuration and not mutated during execution.
type Task struct {
	Pretraining DataSourcePair `json:"pretraining"`
	Training    DataSourcePair `json:"training"`
	Testing     DataSourcePair `json:"testing"`
	Pretrain    PretrainConfig `json:"pretrain"`
	Train       TrainConfig    `json:"train"`
	Weights     WeightsConfig  `json:"weights"`
}

// New creates a task with the default phase configuration.
func New() Task {
	return Task{
		Pretrain: PretrainConfig{Epochs: DefaultEpochs},
		Train:    TrainConfig{Epochs: DefaultEpochs},
		Weights:  WeightsConfig{File: DefaultWeightsFile},
	}
}
