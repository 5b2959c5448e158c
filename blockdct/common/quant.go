package common

// Quantize divides each coefficient by its table entry, rounding half away
// from zero and saturating to the int16 range. sat may be nil.
func Quantize(in *CoefBlock, table *QuantTable, sat *Saturation) CoefBlock {
	var out CoefBlock
	var clamped int64
	for i := 0; i < BlockLen; i++ {
		c, s := saturate16(divRound(int64(in[i]), int64(table[i])))
		if s {
			clamped++
		}
		out[i] = c
	}
	sat.addCoefficients(clamped)
	return out
}

// Dequantize multiplies each coefficient by its table entry, saturating to
// the int16 range. sat may be nil.
func Dequantize(in *CoefBlock, table *QuantTable, sat *Saturation) CoefBlock {
	var out CoefBlock
	var clamped int64
	for i := 0; i < BlockLen; i++ {
		c, s := saturate16(int64(in[i]) * int64(table[i]))
		if s {
			clamped++
		}
		out[i] = c
	}
	sat.addCoefficients(clamped)
	return out
}

// divRound returns n/d rounded half away from zero, d > 0
func divRound(n, d int64) int64 {
	if n >= 0 {
		return (2*n + d) / (2 * d)
	}
	return -((-2*n + d) / (2 * d))
}
