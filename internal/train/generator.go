package train

// Batch is one consecutive slice of the training set.
// Samples and labels stay index-aligned.
type Batch struct {
	Samples [][]float64
	Labels  []int
}

// Generator produces consecutive batches over an index-aligned sample/label set.
// It is finite per pass and rewinds to the first batch on Reset.
type Generator struct {
	samples [][]float64
	labels  []int
	size    int
	cursor  int
}

// NewGenerator creates a generator over the given collections.
// A non-positive batch size yields the whole set as a single batch.
func NewGenerator(samples [][]float64, labels []int, batchSize int) *Generator {
	if batchSize <= 0 {
		batchSize = len(samples)
	}
	return &Generator{
		samples: samples,
		labels:  labels,
		size:    batchSize,
	}
}

// Reset rewinds the generator to its first batch.
func (g *Generator) Reset() {
	g.cursor = 0
}

// Next returns the next batch, or false when the pass is exhausted.
func (g *Generator) Next() (Batch, bool) {
	if g.cursor >= len(g.samples) {
		return Batch{}, false
	}
	end := g.cursor + g.size
	if end > len(g.samples) {
		end = len(g.samples)
	}
	batch := Batch{
		Samples: g.samples[g.cursor:end],
	}
	if g.labels != nil {
		batch.Labels = g.labels[g.cursor:end]
	}
	g.cursor = end
	return batch, true
}

// Len returns the number of samples per pass.
func (g *Generator) Len() int {
	return len(g.samples)
}
