package data

import (
	"errors"
	"fmt"

	"github.com/drakos74/deep-task/internal/task"
	"github.com/rs/zerolog/log"
)

var (
	// ErrUnknownReader marks a data source with a reader kind nothing is registered for.
	ErrUnknownReader = errors.New("unknown reader")
	// ErrEmptyDataset marks a source that produced no records, even if the read itself succeeded.
	ErrEmptyDataset = errors.New("empty dataset")
)

// Reader decodes samples and labels from an external source.
// limit caps the number of records, 0 meaning read everything.
type Reader interface {
	Samples(path string, limit int, newSample func() []float64) ([][]float64, error)
	Labels(path string, limit int) ([]int, error)
}

var readers = make(map[string]Reader)

// Register makes a reader available under the given kind.
// Registration happens at package init time, before any loading starts.
func Register(kind string, r Reader) {
	if _, ok := readers[kind]; ok {
		log.Warn().Str("kind", kind).Msg("overwriting reader")
	}
	readers[kind] = r
}

func lookup(kind string) (Reader, error) {
	r, ok := readers[kind]
	if !ok {
		return nil, fmt.Errorf("no reader registered for kind '%s': %w", kind, ErrUnknownReader)
	}
	return r, nil
}

// Samples resolves the given source into an in-memory sample collection,
// applying binarization and normalization in that order.
// newSample may be nil, in which case the reader sizes the samples itself.
func Samples(src task.DataSource, newSample func() []float64) ([][]float64, error) {
	r, err := lookup(src.Reader)
	if err != nil {
		return nil, err
	}

	samples, err := r.Samples(src.Path, src.EffectiveLimit(), newSample)
	if err != nil {
		return nil, fmt.Errorf("could not read samples from '%s': %w", src.Path, err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples in '%s': %w", src.Path, ErrEmptyDataset)
	}

	if src.Binarize {
		Binarize(samples)
	}
	if src.Normalize {
		Normalize(samples)
	}

	log.Info().
		Str("path", src.Path).
		Str("reader", src.Reader).
		Int("samples", len(samples)).
		Bool("binarize", src.Binarize).
		Bool("normalize", src.Normalize).
		Msg("loaded samples")

	return samples, nil
}

// Labels resolves the given source into an in-memory label collection.
func Labels(src task.DataSource) ([]int, error) {
	r, err := lookup(src.Reader)
	if err != nil {
		return nil, err
	}

	labels, err := r.Labels(src.Path, src.EffectiveLimit())
	if err != nil {
		return nil, fmt.Errorf("could not read labels from '%s': %w", src.Path, err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("no labels in '%s': %w", src.Path, ErrEmptyDataset)
	}

	log.Info().
		Str("path", src.Path).
		Str("reader", src.Reader).
		Int("labels", len(labels)).
		Msg("loaded labels")

	return labels, nil
}
