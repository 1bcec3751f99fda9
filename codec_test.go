package bloc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/svanichkin/bloc/guard"
)

func makeTestImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((x * 17) ^ (y * 31)),
				G: uint8((x * 43) + (y * 13)),
				B: uint8((x * 7) ^ (y * 11)),
				A: 255,
			})
		}
	}
	return img
}

func makeUniformImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name      string
		w, h      int
		quality   int
		grayscale bool
	}{
		{name: "aligned_color", w: 64, h: 48, quality: 75},
		{name: "aligned_color_q90", w: 64, h: 48, quality: 90},
		{name: "unaligned_color", w: 61, h: 45, quality: 75},
		{name: "odd_dimensions", w: 33, h: 17, quality: 75},
		{name: "single_tile", w: 8, h: 8, quality: 75},
		{name: "smaller_than_tile", w: 5, h: 3, quality: 75},
		{name: "grayscale", w: 64, h: 48, quality: 75, grayscale: true},
		{name: "low_quality", w: 40, h: 40, quality: 5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			src := makeTestImage(tc.w, tc.h)

			comp, err := Encode(src, tc.quality, tc.grayscale)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if len(comp) == 0 {
				t.Fatalf("Encode returned empty payload")
			}

			dec, err := Decode(comp)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if dec == nil {
				t.Fatalf("Decode returned nil image")
			}
			if got, want := dec.Bounds(), src.Bounds(); got != want {
				t.Fatalf("bounds mismatch: got %v want %v", got, want)
			}

			if tc.grayscale {
				for y := 0; y < tc.h; y += 5 {
					for x := 0; x < tc.w; x += 5 {
						px := dec.RGBAAt(x, y)
						if px.R != px.G || px.G != px.B {
							t.Fatalf("grayscale pixel (%d,%d) = %v not gray", x, y, px)
						}
					}
				}
			}
		})
	}
}

func TestEncodeDecode_UniformImageIsNearExact(t *testing.T) {
	// A uniform image is DC-only in every tile, so the whole pipeline
	// (color conversion, subsampling, transform, quantization) should
	// reproduce it within a few code values at any quality.
	const tolerance = 8

	src := makeUniformImage(50, 30, color.RGBA{R: 180, G: 90, B: 40, A: 255})
	comp, err := Encode(src, 50, false)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec, err := Decode(comp)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	for y := 0; y < 30; y++ {
		for x := 0; x < 50; x++ {
			got := dec.RGBAAt(x, y)
			for i, pair := range [][2]uint8{{got.R, 180}, {got.G, 90}, {got.B, 40}} {
				diff := int(pair[0]) - int(pair[1])
				if diff < 0 {
					diff = -diff
				}
				if diff > tolerance {
					t.Fatalf("pixel (%d,%d) channel %d = %d, want ~%d", x, y, i, pair[0], pair[1])
				}
			}
		}
	}
}

func TestEncode_ParallelMatchesSerial(t *testing.T) {
	src := makeTestImage(61, 45)

	par := NewEncoder()
	par.Parallel = true
	ser := NewEncoder()
	ser.Parallel = false

	a, err := par.Encode(src, 75, false)
	if err != nil {
		t.Fatalf("parallel Encode: %v", err)
	}
	b, err := ser.Encode(src, 75, false)
	if err != nil {
		t.Fatalf("serial Encode: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("parallel and serial encodes differ")
	}
}

func TestEncoder_Reuse(t *testing.T) {
	e := NewEncoder()
	d := NewDecoder()

	for _, size := range [][2]int{{64, 48}, {16, 16}, {33, 21}} {
		src := makeTestImage(size[0], size[1])
		comp, err := e.Encode(src, 75, false)
		if err != nil {
			t.Fatalf("Encode %dx%d: %v", size[0], size[1], err)
		}
		dec, err := d.Decode(comp)
		if err != nil {
			t.Fatalf("Decode %dx%d: %v", size[0], size[1], err)
		}
		if got, want := dec.Bounds(), src.Bounds(); got != want {
			t.Fatalf("bounds mismatch after reuse: got %v want %v", got, want)
		}
	}
}

func TestEncode_ArgumentErrors(t *testing.T) {
	src := makeTestImage(16, 16)

	if _, err := Encode(nil, 75, false); !errors.Is(err, guard.ErrArgumentNull) {
		t.Fatalf("nil image: err = %v, want ErrArgumentNull", err)
	}
	if _, err := Encode(src, 0, false); !errors.Is(err, guard.ErrArgumentOutOfRange) {
		t.Fatalf("quality 0: err = %v, want ErrArgumentOutOfRange", err)
	}
	if _, err := Encode(src, 101, false); !errors.Is(err, guard.ErrArgumentOutOfRange) {
		t.Fatalf("quality 101: err = %v, want ErrArgumentOutOfRange", err)
	}
	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if _, err := Encode(empty, 75, false); !errors.Is(err, guard.ErrConditionFalse) {
		t.Fatalf("empty image: err = %v, want ErrConditionFalse", err)
	}
	wide := image.NewRGBA(image.Rect(0, 0, maxDimension+1, 1))
	if _, err := Encode(wide, 75, false); !errors.Is(err, guard.ErrArgumentOutOfRange) {
		t.Fatalf("oversize image: err = %v, want ErrArgumentOutOfRange", err)
	}
}

func TestDecode_CorruptStreams(t *testing.T) {
	if _, err := Decode([]byte("NOPE1234567890")); !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("bad magic: err = %v, want ErrInvalidMagic", err)
	}
	if _, err := Decode([]byte("BL")); !errors.Is(err, ErrTruncated) {
		t.Fatalf("short stream: err = %v, want ErrTruncated", err)
	}
	if _, err := Decode(nil); !errors.Is(err, guard.ErrArgumentNull) {
		t.Fatalf("nil data: err = %v, want ErrArgumentNull", err)
	}

	comp, err := Encode(makeTestImage(16, 16), 75, false)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := Decode(comp[:len(comp)/2]); err == nil {
		t.Fatalf("expected error for truncated payload")
	}

	bad := bytes.Clone(comp)
	bad[4] = 99 // version byte
	if _, err := Decode(bad); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("bad version: err = %v, want ErrUnsupportedVersion", err)
	}
}

func TestDecode_HostileDimensions(t *testing.T) {
	// A header may claim any uint32 dimensions; the decoder must reject
	// them with an error before allocating planes, never panic.
	comp, err := Encode(makeTestImage(8, 8), 75, false)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	for _, tc := range []struct {
		name string
		w, h uint32
	}{
		{name: "both_max", w: 0xFFFFFFFF, h: 0xFFFFFFFF},
		{name: "overflowing_product", w: 0x80000000, h: 0x80000000},
		{name: "huge_width", w: 1 << 20, h: 8},
		{name: "huge_height", w: 8, h: 1 << 20},
		{name: "zero_width", w: 0, h: 8},
		{name: "max_dims_tiny_payload", w: 1 << 16, h: 1 << 16},
	} {
		t.Run(tc.name, func(t *testing.T) {
			bad := bytes.Clone(comp)
			binary.BigEndian.PutUint32(bad[7:], tc.w)
			binary.BigEndian.PutUint32(bad[11:], tc.h)

			if _, err := Decode(bad); err == nil {
				t.Fatalf("expected error for claimed dimensions %dx%d", tc.w, tc.h)
			}
		})
	}
}

func TestEncodeToDecodeFrom(t *testing.T) {
	src := makeTestImage(24, 18)

	var buf bytes.Buffer
	if err := NewEncoder().EncodeTo(&buf, src, 75, false); err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}
	dec, err := NewDecoder().DecodeFrom(&buf)
	if err != nil {
		t.Fatalf("DecodeFrom: %v", err)
	}
	if got, want := dec.Bounds(), src.Bounds(); got != want {
		t.Fatalf("bounds mismatch: got %v want %v", got, want)
	}
}
