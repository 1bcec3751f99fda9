package bloc

import "github.com/svanichkin/bloc/guard"

// Sample is the set of element types a pixel buffer or block may hold:
// fixed-size values with no embedded references, copyable byte-for-byte.
type Sample interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~float32 | ~float64
}

// Buffer2D is a row-major, contiguous 2-D buffer of samples. It is owned
// by the caller; Block loads only read from it.
type Buffer2D[T Sample] struct {
	width  int
	height int
	data   []T
}

// NewBuffer2D allocates a zeroed width x height buffer.
func NewBuffer2D[T Sample](width, height int) *Buffer2D[T] {
	return &Buffer2D[T]{
		width:  width,
		height: height,
		data:   make([]T, width*height),
	}
}

// WrapBuffer2D adopts caller-owned storage without copying. The slice must
// hold at least width*height elements.
func WrapBuffer2D[T Sample](data []T, width, height int) (*Buffer2D[T], error) {
	if err := guard.MustBeGreaterThanOrEqualTo(width, 0, "width"); err != nil {
		return nil, err
	}
	if err := guard.MustBeGreaterThanOrEqualTo(height, 0, "height"); err != nil {
		return nil, err
	}
	if err := guard.DestinationShouldNotBeTooShort(data, width*height, "data"); err != nil {
		return nil, err
	}
	return &Buffer2D[T]{width: width, height: height, data: data[:width*height]}, nil
}

// Width returns the buffer width in samples.
func (b *Buffer2D[T]) Width() int {
	return b.width
}

// Height returns the buffer height in rows.
func (b *Buffer2D[T]) Height() int {
	return b.height
}

// At returns the sample at (x, y).
func (b *Buffer2D[T]) At(x, y int) T {
	return b.data[y*b.width+x]
}

// Set stores v at (x, y).
func (b *Buffer2D[T]) Set(x, y int, v T) {
	b.data[y*b.width+x] = v
}

// Row returns row y as a contiguous slice of exactly width samples.
func (b *Buffer2D[T]) Row(y int) []T {
	off := y * b.width
	return b.data[off : off+b.width]
}

// RowView returns the contiguous tail of row y starting at column x.
func (b *Buffer2D[T]) RowView(y, x int) []T {
	off := y * b.width
	return b.data[off+x : off+b.width]
}

// Data returns the raw backing slice in row-major order.
func (b *Buffer2D[T]) Data() []T {
	return b.data
}

// SampleBuffer implements Source.
func (b *Buffer2D[T]) SampleBuffer() any {
	return b
}
