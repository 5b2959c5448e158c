package common

import "math"

// Inverse performs the inverse DCT on an 8x8 block
// Input: 64 coefficients in natural order with CoefFracBits fractional bits
// Output: 64 samples, level shifted by +128 and clamped to [0, 255]
func (t *Transform) Inverse(in *CoefBlock) SampleBlock {
	if t.precision.IsReference() {
		return t.inverseFloat(in)
	}
	return t.inverseFixed(in)
}

func (t *Transform) inverseFloat(in *CoefBlock) SampleBlock {
	var tmp [BlockLen]float64

	// 1D IDCT on columns: tmp[y][u] = sum_v C[v][y] * in[v][u]
	for y := 0; y < BlockSize; y++ {
		for u := 0; u < BlockSize; u++ {
			var acc float64
			for v := 0; v < BlockSize; v++ {
				acc += float64(basis[v][y] * float64(in[v*BlockSize+u]))
			}
			tmp[y*BlockSize+u] = acc
		}
	}

	// 1D IDCT on rows: out[y][x] = sum_u C[u][x] * tmp[y][u] + 128
	var out SampleBlock
	var clamped int64
	for y := 0; y < BlockSize; y++ {
		row := y * BlockSize
		for x := 0; x < BlockSize; x++ {
			var acc float64
			for u := 0; u < BlockSize; u++ {
				acc += float64(basis[u][x] * tmp[row+u])
			}
			s, sat := saturate8(int64(math.Round(acc/coefScale + 128)))
			if sat {
				clamped++
			}
			out[row+x] = s
		}
	}
	t.sat.addSamples(clamped)

	return out
}

func (t *Transform) inverseFixed(in *CoefBlock) SampleBlock {
	var tmp [BlockLen]int64
	shift := uint(2*t.precision.FracBits + CoefFracBits)

	// Columns: FracBits+CoefFracBits fractional bits
	for y := 0; y < BlockSize; y++ {
		for u := 0; u < BlockSize; u++ {
			var acc int64
			for v := 0; v < BlockSize; v++ {
				acc += t.fixed[v][y] * int64(in[v*BlockSize+u])
			}
			tmp[y*BlockSize+u] = acc
		}
	}

	// Rows, then range limiting and level shift
	var out SampleBlock
	var clamped int64
	for y := 0; y < BlockSize; y++ {
		row := y * BlockSize
		for x := 0; x < BlockSize; x++ {
			var acc int64
			for u := 0; u < BlockSize; u++ {
				acc += t.fixed[u][x] * tmp[row+u]
			}
			s, sat := saturate8(roundShift(acc, shift) + 128)
			if sat {
				clamped++
			}
			out[row+x] = s
		}
	}
	t.sat.addSamples(clamped)

	return out
}
