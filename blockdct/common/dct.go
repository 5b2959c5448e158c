package common

import "math"

// coefScale converts orthonormal DCT output to coefficient units
const coefScale = float64(1 << CoefFracBits)

// Transform is a separable 8x8 DCT at a fixed precision.
// It is immutable after construction and safe for concurrent use.
type Transform struct {
	precision Precision
	fixed     [BlockSize][BlockSize]int64 // basis scaled by 2^FracBits
	sat       *Saturation
}

// NewTransform creates a transform. sat may be nil.
func NewTransform(p Precision, sat *Saturation) (*Transform, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	t := &Transform{precision: p, sat: sat}
	if !p.IsReference() {
		one := float64(int64(1) << p.FracBits)
		for u := 0; u < BlockSize; u++ {
			for x := 0; x < BlockSize; x++ {
				t.fixed[u][x] = int64(math.Round(basis[u][x] * one))
			}
		}
	}
	return t, nil
}

// Precision returns the arithmetic this transform uses
func (t *Transform) Precision() Precision {
	return t.precision
}

// Forward performs the forward DCT on an 8x8 block
// Input: 64 samples (0-255), level shifted by -128
// Output: 64 coefficients with CoefFracBits fractional bits
func (t *Transform) Forward(in *SampleBlock) CoefBlock {
	if t.precision.IsReference() {
		return t.forwardFloat(in)
	}
	return t.forwardFixed(in)
}

func (t *Transform) forwardFloat(in *SampleBlock) CoefBlock {
	var tmp [BlockLen]float64

	// 1D DCT on rows: tmp[y][u] = sum_x C[u][x] * (s[y][x] - 128)
	for y := 0; y < BlockSize; y++ {
		row := y * BlockSize
		for u := 0; u < BlockSize; u++ {
			var acc float64
			for x := 0; x < BlockSize; x++ {
				acc += float64(basis[u][x] * float64(int(in[row+x])-128))
			}
			tmp[row+u] = acc
		}
	}

	// 1D DCT on columns: out[v][u] = sum_y C[v][y] * tmp[y][u]
	var out CoefBlock
	var clamped int64
	for v := 0; v < BlockSize; v++ {
		for u := 0; u < BlockSize; u++ {
			var acc float64
			for y := 0; y < BlockSize; y++ {
				acc += float64(basis[v][y] * tmp[y*BlockSize+u])
			}
			c, sat := saturate16(int64(math.Round(acc * coefScale)))
			if sat {
				clamped++
			}
			out[v*BlockSize+u] = c
		}
	}
	t.sat.addCoefficients(clamped)

	return out
}

func (t *Transform) forwardFixed(in *SampleBlock) CoefBlock {
	var tmp [BlockLen]int64
	shift := uint(2*t.precision.FracBits - CoefFracBits)

	// Rows: FracBits fractional bits
	for y := 0; y < BlockSize; y++ {
		row := y * BlockSize
		for u := 0; u < BlockSize; u++ {
			var acc int64
			for x := 0; x < BlockSize; x++ {
				acc += t.fixed[u][x] * int64(int(in[row+x])-128)
			}
			tmp[row+u] = acc
		}
	}

	// Columns: 2*FracBits fractional bits, rounded down to CoefFracBits
	var out CoefBlock
	var clamped int64
	for v := 0; v < BlockSize; v++ {
		for u := 0; u < BlockSize; u++ {
			var acc int64
			for y := 0; y < BlockSize; y++ {
				acc += t.fixed[v][y] * tmp[y*BlockSize+u]
			}
			c, sat := saturate16(roundShift(acc, shift))
			if sat {
				clamped++
			}
			out[v*BlockSize+u] = c
		}
	}
	t.sat.addCoefficients(clamped)

	return out
}

// roundShift divides v by 2^n rounding half away from zero
func roundShift(v int64, n uint) int64 {
	if n == 0 {
		return v
	}
	half := int64(1) << (n - 1)
	if v >= 0 {
		return (v + half) >> n
	}
	return -((-v + half) >> n)
}
