// Package bloc implements an 8x8 block-transform image codec and the
// generic block extraction core it is built on. Images are split into 8x8
// tiles in YCbCr space; tiles at the right and bottom edges are filled by
// stretching the last valid column and row, so the transform stage never
// sees a partial block. Coefficients are quantized, entropy coded and
// wrapped in a zstd-compressed container.
package bloc

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/svanichkin/bloc/guard"
)

// encodePlane compresses one planar channel: per 8x8 tile, load with edge
// stretching, forward DCT, quantize, then DC-delta + Exp-Golomb code the
// zigzag levels.
func encodePlane(plane []uint8, w, h int, table *[64]int32) ([]byte, error) {
	buf, err := WrapBuffer2D(plane, w, h)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	bw := newBitWriter(&out)

	var blk Block[uint8]
	var coef, levels [64]int32
	prevDC := int32(0)

	for y := 0; y < h; y += blockSize {
		for x := 0; x < w; x += blockSize {
			blk.LoadAndStretchEdges(buf, x, y)
			fdct(blk.Data(), blockSize, &coef)
			quantize(&coef, table, &levels)

			bw.writeSignedExpGolomb(levels[0] - prevDC)
			prevDC = levels[0]

			// last non-zero AC index; levels[1..last] are stored
			last := 0
			for i := 63; i >= 1; i-- {
				if levels[i] != 0 {
					last = i
					break
				}
			}
			bw.writeBits(uint64(last), 6)
			for i := 1; i <= last; i++ {
				bw.writeSignedExpGolomb(levels[i])
			}
		}
	}

	bw.flush()
	return out.Bytes(), nil
}

// decodePlane reverses encodePlane. Only the in-bounds part of each tile
// is written back; the stretched cells exist solely for the transform.
func decodePlane(data []byte, w, h int, table *[64]int32) ([]uint8, error) {
	// every tile carries at least a 1-bit DC code and a 6-bit AC count,
	// so a stream too short for the claimed dimensions is rejected before
	// the plane is allocated
	tiles := ((w + blockSize - 1) / blockSize) * ((h + blockSize - 1) / blockSize)
	if len(data) < tiles*7/8 {
		return nil, fmt.Errorf("bloc: coefficient stream too short for %dx%d plane", w, h)
	}

	plane := make([]uint8, w*h)
	br := newBitReader(data)

	var levels, coef [64]int32
	var tile [blockArea]uint8
	prevDC := int32(0)

	for y := 0; y < h; y += blockSize {
		for x := 0; x < w; x += blockSize {
			for i := range levels {
				levels[i] = 0
			}

			d, err := br.readSignedExpGolomb()
			if err != nil {
				return nil, fmt.Errorf("bloc: coefficient stream: %w", err)
			}
			prevDC += d
			levels[0] = prevDC

			last, err := br.readBits(6)
			if err != nil {
				return nil, fmt.Errorf("bloc: coefficient stream: %w", err)
			}
			for i := 1; i <= int(last); i++ {
				v, err := br.readSignedExpGolomb()
				if err != nil {
					return nil, fmt.Errorf("bloc: coefficient stream: %w", err)
				}
				levels[i] = v
			}

			dequantize(&levels, table, &coef)
			idct(&coef, tile[:], 0, blockSize)

			bw := min(blockSize, w-x)
			bh := min(blockSize, h-y)
			for yy := 0; yy < bh; yy++ {
				dst := (y+yy)*w + x
				copy(plane[dst:dst+bw], tile[yy*blockSize:yy*blockSize+bw])
			}
		}
	}

	return plane, nil
}

type planeResult struct {
	data []byte
	err  error
}

func encodePlaneWorker(dst *planeResult, plane []uint8, w, h int, table *[64]int32, wg *sync.WaitGroup) {
	defer wg.Done()
	dst.data, dst.err = encodePlane(plane, w, h, table)
}

// Encoder compresses images into the BLOC container format. It keeps
// reusable scratch planes, so a single Encoder amortises allocations
// across calls. An Encoder must not be used concurrently.
type Encoder struct {
	// Parallel encodes the three channels in separate goroutines.
	Parallel bool

	yPlane  []uint8
	cbPlane []uint8
	crPlane []uint8

	zenc *zstd.Encoder
}

func NewEncoder() *Encoder {
	return &Encoder{
		Parallel: true,
		zenc:     mustNewZstdEncoder(),
	}
}

func (e *Encoder) ensurePlanes(w, h int) {
	n := w * h
	if cap(e.yPlane) < n {
		e.yPlane = make([]uint8, n)
		e.cbPlane = make([]uint8, n)
		e.crPlane = make([]uint8, n)
		return
	}
	e.yPlane = e.yPlane[:n]
	e.cbPlane = e.cbPlane[:n]
	e.crPlane = e.crPlane[:n]
}

// Encode compresses img at the given quality (1..100). In grayscale mode
// only the Y channel is stored.
func (e *Encoder) Encode(img image.Image, quality int, grayscale bool) ([]byte, error) {
	if err := guard.NotNull(img, "img"); err != nil {
		return nil, err
	}
	if err := guard.MustBeBetweenOrEqualTo(quality, 1, 100, "quality"); err != nil {
		return nil, err
	}
	if e.zenc == nil {
		e.zenc = mustNewZstdEncoder()
	}

	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	if err := guard.IsTrue(w > 0 && h > 0, "img", "image must not be empty"); err != nil {
		return nil, err
	}
	if err := guard.MustBeLessThanOrEqualTo(w, maxDimension, "width"); err != nil {
		return nil, err
	}
	if err := guard.MustBeLessThanOrEqualTo(h, maxDimension, "height"); err != nil {
		return nil, err
	}

	e.ensurePlanes(w, h)
	extractYCbCrPlanesInto(img, e.yPlane, e.cbPlane, e.crPlane)

	// Y is always present; Cb/Cr are omitted in grayscale mode.
	channels := byte(channelFlagY)
	if !grayscale {
		channels |= channelFlagCb | channelFlagCr
	}

	lumaTable := scaledQuantTable(&baseLumaQuant, quality)
	chromaTable := scaledQuantTable(&baseChromaQuant, quality)

	// Chroma is carried at half resolution in both dimensions.
	cw := (w + 1) / 2
	ch := (h + 1) / 2

	var results [3]planeResult
	if e.Parallel && !grayscale {
		var wg sync.WaitGroup
		wg.Add(3)
		go encodePlaneWorker(&results[chY], e.yPlane, w, h, &lumaTable, &wg)
		go func() {
			defer wg.Done()
			cb := resamplePlane(e.cbPlane, w, h, cw, ch)
			results[chCb].data, results[chCb].err = encodePlane(cb, cw, ch, &chromaTable)
		}()
		go func() {
			defer wg.Done()
			cr := resamplePlane(e.crPlane, w, h, cw, ch)
			results[chCr].data, results[chCr].err = encodePlane(cr, cw, ch, &chromaTable)
		}()
		wg.Wait()
	} else {
		results[chY].data, results[chY].err = encodePlane(e.yPlane, w, h, &lumaTable)
		if !grayscale {
			cb := resamplePlane(e.cbPlane, w, h, cw, ch)
			results[chCb].data, results[chCb].err = encodePlane(cb, cw, ch, &chromaTable)
			cr := resamplePlane(e.crPlane, w, h, cw, ch)
			results[chCr].data, results[chCr].err = encodePlane(cr, cw, ch, &chromaTable)
		}
	}
	for i := range results {
		if results[i].err != nil {
			return nil, results[i].err
		}
	}

	var out bytes.Buffer
	if err := writeHeader(&out, channels, quality, w, h); err != nil {
		return nil, err
	}
	if err := writeSegment(&out, e.zenc.EncodeAll(results[chY].data, nil)); err != nil {
		return nil, err
	}
	if !grayscale {
		if err := writeSegment(&out, e.zenc.EncodeAll(results[chCb].data, nil)); err != nil {
			return nil, err
		}
		if err := writeSegment(&out, e.zenc.EncodeAll(results[chCr].data, nil)); err != nil {
			return nil, err
		}
	}
	return out.Bytes(), nil
}

// EncodeTo writes the compressed image to w.
func (e *Encoder) EncodeTo(dst io.Writer, img image.Image, quality int, grayscale bool) error {
	data, err := e.Encode(img, quality, grayscale)
	if err != nil {
		return err
	}
	_, err = dst.Write(data)
	return err
}

// Decoder decompresses BLOC containers. A Decoder must not be used
// concurrently.
type Decoder struct {
	// Parallel decodes the three channels in separate goroutines.
	Parallel bool

	zdec *zstd.Decoder
}

func NewDecoder() *Decoder {
	return &Decoder{
		Parallel: true,
		zdec:     mustNewZstdDecoder(),
	}
}

// Decode reconstructs the image stored in data.
func (d *Decoder) Decode(data []byte) (*image.RGBA, error) {
	if err := guard.NotNull(data, "data"); err != nil {
		return nil, err
	}
	if d.zdec == nil {
		d.zdec = mustNewZstdDecoder()
	}

	r := bytes.NewReader(data)
	channels, quality, w, h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if channels&channelFlagY == 0 {
		return nil, fmt.Errorf("bloc: stream has no luma channel")
	}
	if w <= 0 || h <= 0 || w > maxDimension || h > maxDimension {
		return nil, fmt.Errorf("bloc: invalid dimensions %dx%d", w, h)
	}

	hasChroma := channels&channelFlagCb != 0 && channels&channelFlagCr != 0
	chCount := 1
	if hasChroma {
		chCount = 3
	}

	var segments [3][]byte
	for i := 0; i < chCount; i++ {
		comp, err := readSegment(r)
		if err != nil {
			return nil, err
		}
		segments[i], err = d.zdec.DecodeAll(comp, nil)
		if err != nil {
			return nil, fmt.Errorf("bloc: decompress channel %d: %w", i, err)
		}
	}

	lumaTable := scaledQuantTable(&baseLumaQuant, quality)
	chromaTable := scaledQuantTable(&baseChromaQuant, quality)
	cw := (w + 1) / 2
	ch := (h + 1) / 2

	var planes [3][]uint8
	var errs [3]error
	if d.Parallel && hasChroma {
		var wg sync.WaitGroup
		wg.Add(3)
		go func() {
			defer wg.Done()
			planes[chY], errs[chY] = decodePlane(segments[chY], w, h, &lumaTable)
		}()
		go func() {
			defer wg.Done()
			planes[chCb], errs[chCb] = decodePlane(segments[chCb], cw, ch, &chromaTable)
		}()
		go func() {
			defer wg.Done()
			planes[chCr], errs[chCr] = decodePlane(segments[chCr], cw, ch, &chromaTable)
		}()
		wg.Wait()
	} else {
		planes[chY], errs[chY] = decodePlane(segments[chY], w, h, &lumaTable)
		if hasChroma {
			planes[chCb], errs[chCb] = decodePlane(segments[chCb], cw, ch, &chromaTable)
			planes[chCr], errs[chCr] = decodePlane(segments[chCr], cw, ch, &chromaTable)
		}
	}
	for i := 0; i < chCount; i++ {
		if errs[i] != nil {
			return nil, errs[i]
		}
	}

	if hasChroma {
		planes[chCb] = resamplePlane(planes[chCb], cw, ch, w, h)
		planes[chCr] = resamplePlane(planes[chCr], cw, ch, w, h)
	}
	return planesToRGBA(planes[chY], planes[chCb], planes[chCr], w, h, hasChroma), nil
}

// DecodeFrom reads a full compressed stream from r and decodes it.
func (d *Decoder) DecodeFrom(r io.Reader) (*image.RGBA, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return d.Decode(data)
}

var encoderPool = sync.Pool{
	New: func() any {
		return NewEncoder()
	},
}

var decoderPool = sync.Pool{
	New: func() any {
		return NewDecoder()
	},
}

// Encode compresses img with a pooled Encoder.
func Encode(img image.Image, quality int, grayscale bool) ([]byte, error) {
	e := encoderPool.Get().(*Encoder)
	defer encoderPool.Put(e)
	return e.Encode(img, quality, grayscale)
}

// Decode reconstructs an image with a pooled Decoder.
func Decode(data []byte) (*image.RGBA, error) {
	d := decoderPool.Get().(*Decoder)
	defer decoderPool.Put(d)
	return d.Decode(data)
}
