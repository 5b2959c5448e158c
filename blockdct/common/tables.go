package common

import "fmt"

// QuantTable holds one positive divisor per coefficient position, natural order
type QuantTable [BlockLen]int32

// Standard quantization tables (ITU-T T.81 Annex K), in orthonormal DCT units.
// Use CoefficientTable before handing them to a Quantizer.

// DefaultLuminanceQuantTable is the standard luminance quantization table
var DefaultLuminanceQuantTable = QuantTable{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

// DefaultChrominanceQuantTable is the standard chrominance quantization table
var DefaultChrominanceQuantTable = QuantTable{
	17, 18, 24, 47, 99, 99, 99, 99,
	18, 21, 26, 66, 99, 99, 99, 99,
	24, 26, 56, 99, 99, 99, 99, 99,
	47, 66, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
}

// ZigZag maps scan position to natural (row-major) block index.
// Scan position 0 is the DC term; later positions walk the anti-diagonals
// in increasing total frequency, alternating direction.
var ZigZag = [BlockLen]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// Validate checks that every divisor is positive and fits a coefficient
func (t *QuantTable) Validate() error {
	for i, q := range t {
		if q < 1 || q > 32767 {
			return fmt.Errorf("%w: entry %d is %d", ErrInvalidQuantTable, i, q)
		}
	}
	return nil
}

// UniformQuantTable returns a table with every entry set to q
func UniformQuantTable(q int32) QuantTable {
	var t QuantTable
	for i := range t {
		t[i] = q
	}
	return t
}

// ScaleQuantTable scales a quantization table by quality factor (1-100)
func ScaleQuantTable(base QuantTable, quality int) (QuantTable, error) {
	var result QuantTable
	if quality < 1 || quality > 100 {
		return result, fmt.Errorf("%w: %d", ErrInvalidQuality, quality)
	}

	// Quality 50 = no scaling
	// Quality < 50: increase quantization (lower quality, higher compression)
	// Quality > 50: decrease quantization (higher quality, lower compression)
	var scale int32
	if quality < 50 {
		scale = int32(5000 / quality)
	} else {
		scale = int32(200 - quality*2)
	}

	for i := 0; i < BlockLen; i++ {
		val := (base[i]*scale + 50) / 100
		if val < 1 {
			val = 1
		}
		if val > 255 {
			val = 255
		}
		result[i] = val
	}

	return result, nil
}

// CoefficientTable converts a table in orthonormal DCT units to the
// transform's coefficient units (scaled by 2^CoefFracBits)
func CoefficientTable(t QuantTable) QuantTable {
	var out QuantTable
	for i, q := range t {
		out[i] = q << CoefFracBits
	}
	return out
}
