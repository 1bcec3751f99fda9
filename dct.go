package bloc

// Fixed-point DCT constants, scaled by 2048.
const (
	w1 = 2841 // 2048*sqrt(2)*cos(1*pi/16)
	w2 = 2676 // 2048*sqrt(2)*cos(2*pi/16)
	w3 = 2408 // 2048*sqrt(2)*cos(3*pi/16)
	w5 = 1609 // 2048*sqrt(2)*cos(5*pi/16)
	w6 = 1108 // 2048*sqrt(2)*cos(6*pi/16)
	w7 = 565  // 2048*sqrt(2)*cos(7*pi/16)

	r2 = 181 // 256/sqrt(2)
)

// fdct computes the forward DCT of an 8x8 tile of samples. Input values
// are level-shifted by -128; output follows the standard JPEG coefficient
// convention (DC = sum/8).
func fdct(input []uint8, stride int, coef *[64]int32) {
	var tmp [64]int32

	// rows
	for y := 0; y < 8; y++ {
		row := y * 8

		x0 := int32(input[y*stride+0]) - 128
		x1 := int32(input[y*stride+1]) - 128
		x2 := int32(input[y*stride+2]) - 128
		x3 := int32(input[y*stride+3]) - 128
		x4 := int32(input[y*stride+4]) - 128
		x5 := int32(input[y*stride+5]) - 128
		x6 := int32(input[y*stride+6]) - 128
		x7 := int32(input[y*stride+7]) - 128

		x8 := x0 + x7
		x0 -= x7
		x7 = x1 + x6
		x1 -= x6
		x6 = x2 + x5
		x2 -= x5
		x5 = x3 + x4
		x3 -= x4

		x4 = x8 + x5
		x8 -= x5
		x5 = x7 + x6
		x7 -= x6
		x6 = ((x0 + x3) * r2) >> 8
		x0 = ((x0 - x3) * r2) >> 8
		x3 = x1 + x2
		x1 -= x2

		x2 = x4 + x5
		x4 -= x5
		x5 = ((x7 + x8) * r2) >> 8
		x7 = ((x7 - x8) * r2) >> 8

		x8 = x1 + x6
		x1 -= x6
		x6 = x0 + x3
		x0 -= x3

		tmp[row+0] = x2
		tmp[row+1] = (w1*x8 - w7*x6) >> 11
		tmp[row+2] = x5
		tmp[row+3] = (w3*x1 - w5*x0) >> 11
		tmp[row+4] = x4
		tmp[row+5] = (w5*x1 + w3*x0) >> 11
		tmp[row+6] = x7
		tmp[row+7] = (w7*x8 + w1*x6) >> 11
	}

	// columns
	for x := 0; x < 8; x++ {
		x0 := tmp[0+x]
		x1 := tmp[8+x]
		x2 := tmp[16+x]
		x3 := tmp[24+x]
		x4 := tmp[32+x]
		x5 := tmp[40+x]
		x6 := tmp[48+x]
		x7 := tmp[56+x]

		x8 := x0 + x7
		x0 -= x7
		x7 = x1 + x6
		x1 -= x6
		x6 = x2 + x5
		x2 -= x5
		x5 = x3 + x4
		x3 -= x4

		x4 = x8 + x5
		x8 -= x5
		x5 = x7 + x6
		x7 -= x6
		x6 = ((x0 + x3) * r2) >> 8
		x0 = ((x0 - x3) * r2) >> 8
		x3 = x1 + x2
		x1 -= x2

		x2 = x4 + x5
		x4 -= x5
		x5 = ((x7 + x8) * r2) >> 8
		x7 = ((x7 - x8) * r2) >> 8

		x8 = x1 + x6
		x1 -= x6
		x6 = x0 + x3
		x0 -= x3

		coef[0+x] = (x2 + 4) >> 3
		coef[8+x] = (w1*x8 - w7*x6) >> 14
		coef[16+x] = (x5 + 2) >> 2
		coef[24+x] = (w3*x1 - w5*x0) >> 14
		coef[32+x] = (x4 + 2) >> 2
		coef[40+x] = (w5*x1 + w3*x0) >> 14
		coef[48+x] = (x7 + 2) >> 2
		coef[56+x] = (w7*x8 + w1*x6) >> 14
	}
}

func clamp8(x int32) uint8 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return uint8(x)
}

// idct computes the inverse DCT of blk in place row-wise, then writes the
// level-shifted, clamped result into out at outOffset with the given row
// stride.
func idct(blk *[64]int32, out []uint8, outOffset, stride int) {
	for i := 0; i < 64; i += 8 {
		rowIdct(blk, i)
	}
	for i := 0; i < 8; i++ {
		colIdct(blk, i, out, outOffset+i, stride)
	}
}

func rowIdct(blk *[64]int32, off int) {
	x1 := blk[off+4] << 11
	x2 := blk[off+6]
	x3 := blk[off+2]
	x4 := blk[off+1]
	x5 := blk[off+7]
	x6 := blk[off+5]
	x7 := blk[off+3]

	// DC-only shortcut
	if x1|x2|x3|x4|x5|x6|x7 == 0 {
		dc := blk[off+0] << 3
		for i := 0; i < 8; i++ {
			blk[off+i] = dc
		}
		return
	}

	x0 := (blk[off+0] << 11) + 128
	x8 := w7 * (x4 + x5)
	x4 = x8 + (w1-w7)*x4
	x5 = x8 - (w1+w7)*x5
	x8 = w3 * (x6 + x7)
	x6 = x8 - (w3-w5)*x6
	x7 = x8 - (w3+w5)*x7

	x8 = x0 + x1
	x0 -= x1
	x1 = w6 * (x3 + x2)
	x2 = x1 - (w2+w6)*x2
	x3 = x1 + (w2-w6)*x3
	x1 = x4 + x6
	x4 -= x6
	x6 = x5 + x7
	x5 -= x7

	x7 = x8 + x3
	x8 -= x3
	x3 = x0 + x2
	x0 -= x2
	x2 = (r2*(x4+x5) + 128) >> 8
	x4 = (r2*(x4-x5) + 128) >> 8

	blk[off+0] = (x7 + x1) >> 8
	blk[off+1] = (x3 + x2) >> 8
	blk[off+2] = (x0 + x4) >> 8
	blk[off+3] = (x8 + x6) >> 8
	blk[off+4] = (x8 - x6) >> 8
	blk[off+5] = (x0 - x4) >> 8
	blk[off+6] = (x3 - x2) >> 8
	blk[off+7] = (x7 - x1) >> 8
}

func colIdct(blk *[64]int32, off int, out []uint8, outOffset, stride int) {
	x1 := blk[off+8*4] << 8
	x2 := blk[off+8*6]
	x3 := blk[off+8*2]
	x4 := blk[off+8*1]
	x5 := blk[off+8*7]
	x6 := blk[off+8*5]
	x7 := blk[off+8*3]

	if x1|x2|x3|x4|x5|x6|x7 == 0 {
		dc := clamp8(((blk[off+0] + 32) >> 6) + 128)
		for i := 0; i < 8; i++ {
			out[outOffset+i*stride] = dc
		}
		return
	}

	x0 := (blk[off+0] << 8) + 8192
	x8 := w7*(x4+x5) + 4
	x4 = (x8 + (w1-w7)*x4) >> 3
	x5 = (x8 - (w1+w7)*x5) >> 3
	x8 = w3*(x6+x7) + 4
	x6 = (x8 - (w3-w5)*x6) >> 3
	x7 = (x8 - (w3+w5)*x7) >> 3

	x8 = x0 + x1
	x0 -= x1
	x1 = w6*(x3+x2) + 4
	x2 = (x1 - (w2+w6)*x2) >> 3
	x3 = (x1 + (w2-w6)*x3) >> 3
	x1 = x4 + x6
	x4 -= x6
	x6 = x5 + x7
	x5 -= x7

	x7 = x8 + x3
	x8 -= x3
	x3 = x0 + x2
	x0 -= x2
	x2 = (r2*(x4+x5) + 128) >> 8
	x4 = (r2*(x4-x5) + 128) >> 8

	out[outOffset+0*stride] = clamp8(((x7 + x1) >> 14) + 128)
	out[outOffset+1*stride] = clamp8(((x3 + x2) >> 14) + 128)
	out[outOffset+2*stride] = clamp8(((x0 + x4) >> 14) + 128)
	out[outOffset+3*stride] = clamp8(((x8 + x6) >> 14) + 128)
	out[outOffset+4*stride] = clamp8(((x8 - x6) >> 14) + 128)
	out[outOffset+5*stride] = clamp8(((x0 - x4) >> 14) + 128)
	out[outOffset+6*stride] = clamp8(((x3 - x2) >> 14) + 128)
	out[outOffset+7*stride] = clamp8(((x7 - x1) >> 14) + 128)
}
