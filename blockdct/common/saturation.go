package common

import "sync/atomic"

// Saturation counts values that were clamped instead of overflowing.
// A nil *Saturation discards counts. Safe for concurrent use.
type Saturation struct {
	coefficients atomic.Int64
	samples      atomic.Int64
}

// Coefficients returns how many coefficients were clamped to the int16 range
func (s *Saturation) Coefficients() int64 {
	if s == nil {
		return 0
	}
	return s.coefficients.Load()
}

// Samples returns how many reconstructed samples were clamped to [0, 255]
func (s *Saturation) Samples() int64 {
	if s == nil {
		return 0
	}
	return s.samples.Load()
}

// Total returns the number of saturation events of both kinds
func (s *Saturation) Total() int64 {
	return s.Coefficients() + s.Samples()
}

// Reset zeroes both counters
func (s *Saturation) Reset() {
	if s == nil {
		return
	}
	s.coefficients.Store(0)
	s.samples.Store(0)
}

func (s *Saturation) addCoefficients(n int64) {
	if s != nil && n != 0 {
		s.coefficients.Add(n)
	}
}

func (s *Saturation) addSamples(n int64) {
	if s != nil && n != 0 {
		s.samples.Add(n)
	}
}

// saturate16 clamps v to the int16 range and reports whether it had to
func saturate16(v int64) (int16, bool) {
	if v < -32768 {
		return -32768, true
	}
	if v > 32767 {
		return 32767, true
	}
	return int16(v), false
}

// saturate8 clamps v to [0, 255] and reports whether it had to
func saturate8(v int64) (uint8, bool) {
	if v < 0 {
		return 0, true
	}
	if v > 255 {
		return 255, true
	}
	return uint8(v), false
}
