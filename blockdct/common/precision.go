package common

import (
	"fmt"
	"strings"
)

// CoefFracBits is the number of fractional bits carried by forward-transform
// coefficients. Coefficients are the orthonormal DCT output scaled by 8, which
// keeps an unquantized round trip exact for 8-bit input.
const CoefFracBits = 3

// Fixed-point limits. Below MinFracBits the basis rounding error breaks the
// round-trip bound; above MaxFracBits the int64 accumulators can overflow on
// saturated dequantized input.
const (
	MinFracBits = 10
	MaxFracBits = 20
)

// Precision selects the arithmetic used for the transform's basis constants
// and intermediate sums.
//
// FracBits == 0 selects float64 arithmetic, the reference path. Any value in
// [MinFracBits, MaxFracBits] selects integer fixed point with that many
// fractional bits, modelling the hardware kernels' ap_fixed intermediates.
type Precision struct {
	FracBits int
}

// Presets named after the intermediate formats of the hardware kernels
var (
	PrecisionReference  = Precision{FracBits: 0}
	PrecisionFixed18x4  = Precision{FracBits: 14}
	PrecisionFixed24x6  = Precision{FracBits: 18}
	PrecisionFixed24x12 = Precision{FracBits: 12}
)

var precisionNames = map[string]Precision{
	"reference":  PrecisionReference,
	"fixed18x4":  PrecisionFixed18x4,
	"fixed24x6":  PrecisionFixed24x6,
	"fixed24x12": PrecisionFixed24x12,
}

// IsReference reports whether p uses float64 arithmetic
func (p Precision) IsReference() bool {
	return p.FracBits == 0
}

// Validate checks that p is a supported setting
func (p Precision) Validate() error {
	if p.IsReference() {
		return nil
	}
	if p.FracBits < MinFracBits || p.FracBits > MaxFracBits {
		return fmt.Errorf("%w: %d fractional bits (want 0 or %d-%d)",
			ErrInvalidPrecision, p.FracBits, MinFracBits, MaxFracBits)
	}
	return nil
}

// RoundTripBound is the largest per-sample error an unquantized
// forward+inverse round trip may introduce at this precision.
func (p Precision) RoundTripBound() int {
	return 1
}

// String returns the preset name, or fixed<N> for other fixed-point settings
func (p Precision) String() string {
	for name, preset := range precisionNames {
		if preset == p {
			return name
		}
	}
	return fmt.Sprintf("fixed<%d>", p.FracBits)
}

// ParsePrecision resolves a preset name
func ParsePrecision(name string) (Precision, error) {
	p, ok := precisionNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Precision{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidPrecision, name)
	}
	return p, nil
}

// Presets returns all named precisions, reference first
func Presets() []Precision {
	return []Precision{PrecisionReference, PrecisionFixed18x4, PrecisionFixed24x6, PrecisionFixed24x12}
}
