// Package mnist reads the idx binary files of the mnist handwritten digit archive.
package mnist

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/drakos74/deep-task/internal/data"
	"github.com/pkg/errors"
)

const (
	// Kind is the reader kind the package registers itself under.
	Kind = "mnist"

	imageMagic = 2051
	labelMagic = 2049
)

func init() {
	data.Register(Kind, Reader{})
}

// Reader decodes idx image and label files.
type Reader struct{}

// Samples reads an idx image file into flat per-image float slices.
// When newSample is nil the slices are sized from the file header.
func (Reader) Samples(path string, limit int, newSample func() []float64) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open image file '%s'", path)
	}
	defer f.Close()

	var header [16]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		return nil, errors.Wrapf(err, "could not read image header of '%s'", path)
	}

	magic := int(binary.BigEndian.Uint32(header[0:4]))
	if magic != imageMagic {
		return nil, errors.Errorf("unexpected image magic %d in '%s'", magic, path)
	}

	count := int(binary.BigEndian.Uint32(header[4:8]))
	rows := int(binary.BigEndian.Uint32(header[8:12]))
	cols := int(binary.BigEndian.Uint32(header[12:16]))
	size := rows * cols

	if limit <= 0 || limit > count {
		limit = count
	}

	samples := make([][]float64, 0, limit)
	buf := make([]byte, size)
	for i := 0; i < limit; i++ {
		if _, err := io.ReadFull(f, buf); err != nil {
			return nil, errors.Wrapf(err, "could not read image %d of '%s'", i, path)
		}
		var sample []float64
		if newSample != nil {
			sample = newSample()
		} else {
			sample = make([]float64, size)
		}
		if len(sample) != size {
			return nil, errors.Errorf("sample size %d does not match %dx%d images of '%s'",
				len(sample), rows, cols, path)
		}
		for j, b := range buf {
			sample[j] = float64(b)
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

// Labels reads an idx label file.
func (Reader) Labels(path string, limit int) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open label file '%s'", path)
	}
	defer f.Close()

	var header [8]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		return nil, errors.Wrapf(err, "could not read label header of '%s'", path)
	}

	magic := int(binary.BigEndian.Uint32(header[0:4]))
	if magic != labelMagic {
		return nil, errors.Errorf("unexpected label magic %d in '%s'", magic, path)
	}

	count := int(binary.BigEndian.Uint32(header[4:8]))
	if limit <= 0 || limit > count {
		limit = count
	}

	buf := make([]byte, limit)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, errors.Wrapf(err, "could not read labels of '%s'", path)
	}

	labels := make([]int, limit)
	for i, b := range buf {
		labels[i] = int(b)
	}

	return labels, nil
}
