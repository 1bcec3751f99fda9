package bloc

// Side of the working block; the transform stage operates on
// blockSize x blockSize tiles.
const blockSize = 8

// Elements per block.
const blockArea = blockSize * blockSize

// Block is the fixed 8x8 working buffer filled from a Buffer2D and handed
// to the transform stage. It is addressable both linearly (0..63) and by
// (x, y) with index = y*8 + x. The zero value is ready to use.
type Block[T Sample] struct {
	data [blockArea]T
}

// At returns the element at linear index i (0..63).
func (b *Block[T]) At(i int) T {
	return b.data[i]
}

// Set stores v at linear index i (0..63).
func (b *Block[T]) Set(i int, v T) {
	b.data[i] = v
}

// AtXY returns the element at (x, y), each in 0..7.
func (b *Block[T]) AtXY(x, y int) T {
	return b.data[y*blockSize+x]
}

// SetXY stores v at (x, y), each in 0..7.
func (b *Block[T]) SetXY(x, y int, v T) {
	b.data[y*blockSize+x] = v
}

// Data returns the 64 elements as a contiguous row-major slice. The view
// borrows the block's storage: it is valid only while the block is alive
// and must not be retained past its scope.
func (b *Block[T]) Data() []T {
	return b.data[:]
}

// LoadAndStretchEdges fills the block from the 8x8 region of src whose
// top-left corner is (sourceX, sourceY). When the region straddles the
// right or bottom edge of src, the last valid column is replicated
// rightward and then the last valid row (including its stretched columns)
// downward, so the transform stage always sees a full block.
//
// If the region lies entirely outside src, the block is left untouched.
// sourceX and sourceY must be non-negative for any copying to occur.
func (b *Block[T]) LoadAndStretchEdges(src *Buffer2D[T], sourceX, sourceY int) {
	width := min(blockSize, src.width-sourceX)
	height := min(blockSize, src.height-sourceY)
	if width <= 0 || height <= 0 {
		return
	}

	for y := 0; y < height; y++ {
		row := b.data[y*blockSize : y*blockSize+blockSize]
		copy(row[:width], src.RowView(sourceY+y, sourceX)[:width])
		// stretch the last valid column to the right edge
		for x := width; x < blockSize; x++ {
			row[x] = row[width-1]
		}
	}

	// stretch the last valid row (already column-stretched) downward
	last := b.data[(height-1)*blockSize : height*blockSize]
	for y := height; y < blockSize; y++ {
		copy(b.data[y*blockSize:y*blockSize+blockSize], last)
	}
}
