package buffer

// Buffer is a constant size float queue, dropping the oldest element on overflow.
type Buffer struct {
	size   int
	values []float64
}

// NewBuffer creates a new buffer of the given size.
func NewBuffer(size int) *Buffer {
	return &Buffer{
		size:   size,
		values: make([]float64, 0),
	}
}

// Push adds an element to the buffer.
// It returns the evicted element, if the buffer was full.
func (b *Buffer) Push(x float64) (float64, bool) {
	b.values = append(b.values, x)
	if len(b.values) > b.size {
		value := b.values[0]
		b.values = b.values[1:]
		return value, true
	}
	return 0, false
}

// Get returns the buffer elements in the order they were added.
func (b *Buffer) Get() []float64 {
	vv := make([]float64, len(b.values))
	copy(vv, b.values)
	return vv
}

// Len returns the current number of elements.
func (b *Buffer) Len() int {
	return len(b.values)
}

// Last returns the most recent element in the buffer.
func (b *Buffer) Last() float64 {
	if len(b.values) > 0 {
		return b.values[len(b.values)-1]
	}
	return 0
}
