package bloc

// zigzag maps zigzag position to natural (row-major) block index.
var zigzag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// Base quantization tables in natural order (ITU-T T.81 Annex K).
var baseLumaQuant = [64]int32{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

var baseChromaQuant = [64]int32{
	17, 18, 24, 47, 99, 99, 99, 99,
	18, 21, 26, 66, 99, 99, 99, 99,
	24, 26, 56, 99, 99, 99, 99, 99,
	47, 66, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
}

// scaledQuantTable builds a quality-scaled table from base. Quality is
// 1..100 with the usual JPEG mapping; every entry stays in 1..255.
func scaledQuantTable(base *[64]int32, quality int) [64]int32 {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	var scale int32
	if quality < 50 {
		scale = 5000 / int32(quality)
	} else {
		scale = 200 - 2*int32(quality)
	}

	var out [64]int32
	for i, q := range base {
		v := (q*scale + 50) / 100
		if v < 1 {
			v = 1
		}
		if v > 255 {
			v = 255
		}
		out[i] = v
	}
	return out
}

// quantize divides natural-order coefficients by the table and emits them
// in zigzag order, rounding to nearest.
func quantize(coef *[64]int32, table *[64]int32, out *[64]int32) {
	for i := 0; i < 64; i++ {
		v := coef[zigzag[i]]
		q := table[zigzag[i]]
		if v >= 0 {
			out[i] = (v + q/2) / q
		} else {
			out[i] = -((-v + q/2) / q)
		}
	}
}

// dequantize undoes quantize: zigzag-order levels back to natural-order
// coefficients.
func dequantize(levels *[64]int32, table *[64]int32, coef *[64]int32) {
	for i := 0; i < 64; i++ {
		coef[zigzag[i]] = levels[i] * table[zigzag[i]]
	}
}
