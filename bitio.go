package bloc

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"math/bits"
)

// bitWriter writes bits to a bytes.Buffer (msb-first in each byte).
// It avoids interface-based io.ByteWriter to keep allocations low.
type bitWriter struct {
	buf  *bytes.Buffer
	byte byte
	n    uint8 // number of bits written (0..8)
}

func newBitWriter(buf *bytes.Buffer) bitWriter {
	return bitWriter{buf: buf}
}

// writeBit writes a single bit (msb-first in byte).
func (bw *bitWriter) writeBit(bit bool) {
	bw.byte <<= 1
	if bit {
		bw.byte |= 1
	}
	bw.n++
	if bw.n == 8 {
		_ = bw.buf.WriteByte(bw.byte)
		bw.byte = 0
		bw.n = 0
	}
}

// writeBits writes n bits from v (msb-first within the provided n bits).
// For example, if n=4 and v=0b1011, this writes: 1,0,1,1.
func (bw *bitWriter) writeBits(v uint64, n uint8) {
	for n > 0 {
		n--
		bw.writeBit(v&(1<<n) != 0)
	}
}

// writeExpGolomb writes v as an order-0 Exp-Golomb code. The largest
// representable value is MaxUint32-1; MaxUint32 is clamped to it so the
// emitted code is always well formed.
func (bw *bitWriter) writeExpGolomb(v uint32) {
	if v == math.MaxUint32 {
		v = math.MaxUint32 - 1
	}
	n := v + 1
	k := uint8(bits.Len32(n)) - 1
	for i := uint8(0); i < k; i++ {
		bw.writeBit(false)
	}
	bw.writeBits(uint64(n), k+1)
}

// writeSignedExpGolomb maps v onto 0,-1,1,-2,2,... and writes it as
// Exp-Golomb.
func (bw *bitWriter) writeSignedExpGolomb(v int32) {
	bw.writeExpGolomb(uint32((v << 1) ^ (v >> 31)))
}

// flush pads the current byte with zero bits and writes it out.
func (bw *bitWriter) flush() {
	if bw.n > 0 {
		bw.byte <<= 8 - bw.n
		_ = bw.buf.WriteByte(bw.byte)
		bw.byte = 0
		bw.n = 0
	}
}

// bitReader reads bits from a byte slice (msb-first in each byte).
type bitReader struct {
	data []byte
	idx  int
	bit  uint8 // bit position in current byte (0..7), msb-first
}

func newBitReader(data []byte) bitReader {
	return bitReader{data: data}
}

// readBit returns the next bit, or error if out of data.
func (br *bitReader) readBit() (bool, error) {
	if br.idx >= len(br.data) {
		return false, io.EOF
	}
	b := br.data[br.idx]
	isSet := b&(1<<(7-br.bit)) != 0
	br.bit++
	if br.bit == 8 {
		br.bit = 0
		br.idx++
	}
	return isSet, nil
}

// readBits reads n bits (1..8) and returns them in the low n bits of the
// result, msb-first within the n bits.
func (br *bitReader) readBits(n uint8) (uint8, error) {
	if n == 0 || n > 8 {
		return 0, fmt.Errorf("readBits: invalid bit count %d", n)
	}
	if br.idx >= len(br.data) {
		return 0, io.EOF
	}

	rem := uint8(8 - br.bit)
	if n <= rem {
		b := br.data[br.idx]
		shift := rem - n
		out := (b >> shift) & byte((1<<n)-1)
		br.bit += n
		if br.bit == 8 {
			br.bit = 0
			br.idx++
		}
		return out, nil
	}

	// Need bits from the next byte as well.
	if br.idx+1 >= len(br.data) {
		return 0, io.EOF
	}

	b0 := br.data[br.idx]
	b1 := br.data[br.idx+1]

	first := b0 & byte((1<<rem)-1) // lower "rem" bits
	n2 := n - rem
	second := b1 >> (8 - n2)

	out := (first << n2) | second
	br.idx++
	br.bit = n2
	return out, nil
}

// readExpGolomb reads one order-0 Exp-Golomb code.
func (br *bitReader) readExpGolomb() (uint32, error) {
	k := 0
	for {
		bit, err := br.readBit()
		if err != nil {
			return 0, err
		}
		if bit {
			break
		}
		k++
		if k > 31 {
			return 0, fmt.Errorf("readExpGolomb: prefix too long")
		}
	}
	n := uint32(1)
	for i := 0; i < k; i++ {
		bit, err := br.readBit()
		if err != nil {
			return 0, err
		}
		n <<= 1
		if bit {
			n |= 1
		}
	}
	return n - 1, nil
}

// readSignedExpGolomb undoes writeSignedExpGolomb.
func (br *bitReader) readSignedExpGolomb() (int32, error) {
	u, err := br.readExpGolomb()
	if err != nil {
		return 0, err
	}
	return int32(u>>1) ^ -int32(u&1), nil
}
