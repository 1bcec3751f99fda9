package bloc

import "testing"

func TestFdct_FlatTile(t *testing.T) {
	var tile [64]uint8
	for i := range tile {
		tile[i] = 200
	}

	var coef [64]int32
	fdct(tile[:], 8, &coef)

	// DC = sum/8 = 64*(200-128)/8
	if coef[0] != 576 {
		t.Fatalf("DC = %d, want 576", coef[0])
	}
	for i := 1; i < 64; i++ {
		if coef[i] != 0 {
			t.Fatalf("AC[%d] = %d, want 0 for a flat tile", i, coef[i])
		}
	}
}

func TestIdct_ZeroCoefficients(t *testing.T) {
	var coef [64]int32
	var out [64]uint8
	idct(&coef, out[:], 0, 8)

	for i, v := range out {
		if v != 128 {
			t.Fatalf("out[%d] = %d, want 128 (level shift of zero)", i, v)
		}
	}
}

func TestFdctIdct_FlatRoundTrip(t *testing.T) {
	for _, v := range []uint8{0, 7, 128, 200, 255} {
		var tile [64]uint8
		for i := range tile {
			tile[i] = v
		}

		var coef [64]int32
		fdct(tile[:], 8, &coef)

		var out [64]uint8
		idct(&coef, out[:], 0, 8)

		for i := range out {
			if out[i] != v {
				t.Fatalf("flat %d: out[%d] = %d", v, i, out[i])
			}
		}
	}
}

func TestFdctIdct_RoundTrip(t *testing.T) {
	const tolerance = 6

	for _, tc := range []struct {
		name string
		fill func(x, y int) uint8
	}{
		{name: "gradient", fill: func(x, y int) uint8 { return uint8(16*x + 8*y) }},
		{name: "checker", fill: func(x, y int) uint8 {
			if (x+y)%2 == 0 {
				return 80
			}
			return 180
		}},
		{name: "noise", fill: func(x, y int) uint8 { return uint8((x*31 + y*17 + x*y*13) % 256) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var tile [64]uint8
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					tile[y*8+x] = tc.fill(x, y)
				}
			}

			var coef [64]int32
			fdct(tile[:], 8, &coef)

			var out [64]uint8
			idct(&coef, out[:], 0, 8)

			for i := range out {
				diff := int(out[i]) - int(tile[i])
				if diff < 0 {
					diff = -diff
				}
				if diff > tolerance {
					t.Fatalf("out[%d] = %d, src %d, off by %d", i, out[i], tile[i], diff)
				}
			}
		})
	}
}

func TestIdct_Strided(t *testing.T) {
	var coef [64]int32
	coef[0] = 576 // flat 200

	out := make([]uint8, 16*8)
	idct(&coef, out, 4, 16)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := out[y*16+4+x]; got != 200 {
				t.Fatalf("strided out[%d,%d] = %d, want 200", x, y, got)
			}
		}
	}
	// cells outside the tile stay zero
	if out[0] != 0 || out[15] != 0 {
		t.Fatalf("strided idct wrote outside the tile")
	}
}

func TestZigzag_IsPermutation(t *testing.T) {
	var seen [64]bool
	for _, idx := range zigzag {
		if idx < 0 || idx > 63 {
			t.Fatalf("zigzag entry %d out of range", idx)
		}
		if seen[idx] {
			t.Fatalf("zigzag entry %d repeated", idx)
		}
		seen[idx] = true
	}
	if zigzag[0] != 0 || zigzag[1] != 1 || zigzag[2] != 8 || zigzag[63] != 63 {
		t.Fatalf("zigzag order does not start/end canonically")
	}
}

func TestQuantize_RoundTripError(t *testing.T) {
	table := scaledQuantTable(&baseLumaQuant, 50)

	var coef [64]int32
	for i := range coef {
		coef[i] = int32((i*37)%512) - 256
	}

	var levels, back [64]int32
	quantize(&coef, &table, &levels)
	dequantize(&levels, &table, &back)

	for i := 0; i < 64; i++ {
		q := table[i]
		diff := back[i] - coef[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > q/2+1 {
			t.Fatalf("coef[%d]: %d -> %d, error %d exceeds half step %d", i, coef[i], back[i], diff, q/2)
		}
	}
}

func TestScaledQuantTable(t *testing.T) {
	// quality 50 reproduces the base table exactly
	mid := scaledQuantTable(&baseLumaQuant, 50)
	if mid != baseLumaQuant {
		t.Fatalf("quality 50 should reproduce the base table")
	}

	// quality 100 degenerates to all-ones (lossless quantization)
	best := scaledQuantTable(&baseLumaQuant, 100)
	for i, v := range best {
		if v != 1 {
			t.Fatalf("quality 100 entry %d = %d, want 1", i, v)
		}
	}

	// every entry stays in 1..255 at the extremes
	worst := scaledQuantTable(&baseLumaQuant, 1)
	for i, v := range worst {
		if v < 1 || v > 255 {
			t.Fatalf("quality 1 entry %d = %d out of range", i, v)
		}
		if v < mid[i] {
			t.Fatalf("quality 1 entry %d = %d finer than quality 50 (%d)", i, v, mid[i])
		}
	}
}
