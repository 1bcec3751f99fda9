package bloc

import (
	"image"
	"runtime"
	"sync"

	xdraw "golang.org/x/image/draw"
)

// channel IDs for Y, Cb, Cr.
const (
	chY  = 0
	chCb = 1
	chCr = 2
)

type yuv struct {
	Y  int16
	Cb int16
	Cr int16
}

func rgbToYCbCr(r, g, b uint8) yuv {
	rr, gg, bb := int32(r), int32(g), int32(b)
	Y := (77*rr + 150*gg + 29*bb) >> 8 // ≈ 0.299 0.587 0.114
	Cb := ((-43*rr - 85*gg + 128*bb) >> 8) + 128
	Cr := ((128*rr - 107*gg - 21*bb) >> 8) + 128
	return yuv{int16(Y), int16(Cb), int16(Cr)}
}

// parallelRows splits h rows into NumCPU stripes and runs fn on each.
func parallelRows(h int, fn func(yStart, yEnd int)) {
	workers := min(runtime.NumCPU(), h)
	if workers < 1 {
		workers = 1
	}
	rowsPerWorker := (h + workers - 1) / workers

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		y0 := i * rowsPerWorker
		if y0 >= h {
			break
		}
		y1 := min(y0+rowsPerWorker, h)
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}

// extractYCbCrPlanesInto converts img into three planar w*h slices indexed
// as plane[y*w + x].
//
// For common concrete types we bypass img.At/RGBA() and read pixels
// directly from the backing Pix slice to reduce allocations and overhead.
func extractYCbCrPlanesInto(img image.Image, yPlane, cbPlane, crPlane []uint8) {
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()

	switch src := img.(type) {
	case *image.RGBA:
		parallelRows(h, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				row := src.Pix[y*src.Stride:]
				base := y * w
				for x := 0; x < w; x++ {
					o := x * 4
					ycc := rgbToYCbCr(row[o], row[o+1], row[o+2])
					yPlane[base+x] = uint8(ycc.Y)
					cbPlane[base+x] = uint8(ycc.Cb)
					crPlane[base+x] = uint8(ycc.Cr)
				}
			}
		})
	case *image.NRGBA:
		parallelRows(h, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				row := src.Pix[y*src.Stride:]
				base := y * w
				for x := 0; x < w; x++ {
					o := x * 4
					ycc := rgbToYCbCr(row[o], row[o+1], row[o+2])
					yPlane[base+x] = uint8(ycc.Y)
					cbPlane[base+x] = uint8(ycc.Cb)
					crPlane[base+x] = uint8(ycc.Cr)
				}
			}
		})
	case *image.Gray:
		parallelRows(h, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				base := y * w
				copy(yPlane[base:base+w], src.Pix[y*src.Stride:y*src.Stride+w])
				for x := 0; x < w; x++ {
					cbPlane[base+x] = 128
					crPlane[base+x] = 128
				}
			}
		})
	case *image.YCbCr:
		parallelRows(h, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				base := y * w
				for x := 0; x < w; x++ {
					yPlane[base+x] = src.Y[src.YOffset(b.Min.X+x, b.Min.Y+y)]
					co := src.COffset(b.Min.X+x, b.Min.Y+y)
					cbPlane[base+x] = src.Cb[co]
					crPlane[base+x] = src.Cr[co]
				}
			}
		})
	default:
		// Fallback: generic path using img.At. Still parallelised by rows.
		parallelRows(h, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				base := y * w
				for x := 0; x < w; x++ {
					r16, g16, b16, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
					ycc := rgbToYCbCr(uint8(r16>>8), uint8(g16>>8), uint8(b16>>8))
					yPlane[base+x] = uint8(ycc.Y)
					cbPlane[base+x] = uint8(ycc.Cb)
					crPlane[base+x] = uint8(ycc.Cr)
				}
			}
		})
	}
}

// planesToRGBA reassembles an RGBA image from Y/Cb/Cr planes. When
// hasChroma is false only the Y plane is read and the output is gray.
func planesToRGBA(yPlane, cbPlane, crPlane []uint8, w, h int, hasChroma bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	parallelRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := img.Pix[y*img.Stride:]
			base := y * w
			for x := 0; x < w; x++ {
				o := x * 4
				Y := int32(yPlane[base+x])
				if hasChroma {
					Cb := int32(cbPlane[base+x]) - 128
					Cr := int32(crPlane[base+x]) - 128

					R := Y + ((91881 * Cr) >> 16)
					G := Y - ((22554*Cb + 46802*Cr) >> 16)
					B := Y + ((116130 * Cb) >> 16)

					row[o+0] = clamp8(R)
					row[o+1] = clamp8(G)
					row[o+2] = clamp8(B)
				} else {
					row[o+0] = uint8(Y)
					row[o+1] = uint8(Y)
					row[o+2] = uint8(Y)
				}
				row[o+3] = 255
			}
		}
	})
	return img
}

// resamplePlane scales a w×h plane to dw×dh with bilinear filtering. Used
// to subsample chroma planes on encode and restore them on decode.
func resamplePlane(src []uint8, w, h, dw, dh int) []uint8 {
	if w == dw && h == dh {
		out := make([]uint8, len(src))
		copy(out, src)
		return out
	}
	srcImg := &image.Gray{Pix: src, Stride: w, Rect: image.Rect(0, 0, w, h)}
	dstImg := image.NewGray(image.Rect(0, 0, dw, dh))
	xdraw.BiLinear.Scale(dstImg, dstImg.Rect, srcImg, srcImg.Rect, xdraw.Src, nil)
	return dstImg.Pix
}
