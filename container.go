package bloc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Container magic and version.
const (
	magic         = "BLOC"
	formatVersion = 1
)

// maxDimension bounds image width and height in both directions of the
// pipeline. Headers claiming more are rejected before any plane is
// allocated, so a hostile container cannot force an oversized or
// overflowing allocation.
const maxDimension = 1 << 16

// channel presence flags for the header; at least Y must be set.
const (
	channelFlagY  = 1 << 0
	channelFlagCb = 1 << 1
	channelFlagCr = 1 << 2
)

var (
	ErrInvalidMagic       = errors.New("bloc: invalid magic")
	ErrUnsupportedVersion = errors.New("bloc: unsupported format version")
	ErrTruncated          = errors.New("bloc: truncated stream")
)

// writeHeader emits: magic(4) + version(1) + channels(1) + quality(1) +
// width(uint32) + height(uint32), big-endian.
func writeHeader(b *bytes.Buffer, channels byte, quality, w, h int) error {
	if _, err := b.WriteString(magic); err != nil {
		return err
	}
	if err := b.WriteByte(formatVersion); err != nil {
		return err
	}
	if err := b.WriteByte(channels); err != nil {
		return err
	}
	if err := b.WriteByte(byte(quality)); err != nil {
		return err
	}
	if err := binary.Write(b, binary.BigEndian, uint32(w)); err != nil {
		return err
	}
	return binary.Write(b, binary.BigEndian, uint32(h))
}

func readHeader(r *bytes.Reader) (channels byte, quality, w, h int, err error) {
	var m [len(magic)]byte
	if _, err = io.ReadFull(r, m[:]); err != nil {
		return 0, 0, 0, 0, ErrTruncated
	}
	if string(m[:]) != magic {
		return 0, 0, 0, 0, ErrInvalidMagic
	}

	ver, err := r.ReadByte()
	if err != nil {
		return 0, 0, 0, 0, ErrTruncated
	}
	if ver != formatVersion {
		return 0, 0, 0, 0, ErrUnsupportedVersion
	}

	channels, err = r.ReadByte()
	if err != nil {
		return 0, 0, 0, 0, ErrTruncated
	}
	q, err := r.ReadByte()
	if err != nil {
		return 0, 0, 0, 0, ErrTruncated
	}

	var w32, h32 uint32
	if err = binary.Read(r, binary.BigEndian, &w32); err != nil {
		return 0, 0, 0, 0, ErrTruncated
	}
	if err = binary.Read(r, binary.BigEndian, &h32); err != nil {
		return 0, 0, 0, 0, ErrTruncated
	}
	return channels, int(q), int(w32), int(h32), nil
}

// readSegment reads a u32 length prefix followed by that many bytes.
func readSegment(r *bytes.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, ErrTruncated
	}
	if int(n) > r.Len() {
		return nil, ErrTruncated
	}
	seg := make([]byte, n)
	if _, err := io.ReadFull(r, seg); err != nil {
		return nil, ErrTruncated
	}
	return seg, nil
}

func writeSegment(b *bytes.Buffer, seg []byte) error {
	if err := binary.Write(b, binary.BigEndian, uint32(len(seg))); err != nil {
		return err
	}
	_, err := b.Write(seg)
	return err
}

// --- ZSTD helpers ---

func mustNewZstdEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func mustNewZstdDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
	)
	if err != nil {
		panic(err)
	}
	return dec
}
