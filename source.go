package bloc

import (
	"errors"
	"fmt"
)

// ErrElementTypeMismatch is returned by LoadFromSource when the source's
// underlying buffer holds a different element type than the destination
// block.
var ErrElementTypeMismatch = errors.New("bloc: element type mismatch")

// Source is a polymorphic pixel source: anything that can expose its
// underlying sample buffer. *Buffer2D[T] implements it for every T.
type Source interface {
	// SampleBuffer returns the underlying *Buffer2D of whatever element
	// type the source actually stores.
	SampleBuffer() any
}

// LoadFromSource fills b from src at (sourceX, sourceY) after checking
// that src's buffer element type is exactly T. On a mismatch the block is
// not modified and the returned error wraps ErrElementTypeMismatch.
func LoadFromSource[T Sample](b *Block[T], src Source, sourceX, sourceY int) error {
	raw := src.SampleBuffer()
	buf, ok := raw.(*Buffer2D[T])
	if !ok {
		var want Buffer2D[T]
		return fmt.Errorf("%w: source holds %T, block needs %T", ErrElementTypeMismatch, raw, &want)
	}
	b.LoadAndStretchEdges(buf, sourceX, sourceY)
	return nil
}
