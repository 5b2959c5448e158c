package common

import (
	"errors"
	"testing"
)

func newTestTransform(t *testing.T, p Precision) *Transform {
	t.Helper()
	tr, err := NewTransform(p, nil)
	if err != nil {
		t.Fatalf("NewTransform(%v) failed: %v", p, err)
	}
	return tr
}

func TestTransformRoundTripSinglePixel(t *testing.T) {
	for _, p := range Presets() {
		t.Run(p.String(), func(t *testing.T) {
			tr := newTestTransform(t, p)
			bound := p.RoundTripBound()
			worst := 0

			// Every value at every position of an otherwise-zero block
			for pos := 0; pos < BlockLen; pos++ {
				for val := 0; val < 256; val++ {
					var in SampleBlock
					in[pos] = uint8(val)

					coef := tr.Forward(&in)
					out := tr.Inverse(&coef)

					for i := range in {
						diff := int(in[i]) - int(out[i])
						if diff < 0 {
							diff = -diff
						}
						if diff > worst {
							worst = diff
						}
						if diff > bound {
							t.Fatalf("pos %d val %d: sample %d got %d, want %d (+/-%d)",
								pos, val, i, out[i], in[i], bound)
						}
					}
				}
			}
			t.Logf("%s: worst round-trip error %d", p, worst)
		})
	}
}

func TestTransformConstantBlock(t *testing.T) {
	for _, p := range Presets() {
		t.Run(p.String(), func(t *testing.T) {
			tr := newTestTransform(t, p)

			var in SampleBlock
			for i := range in {
				in[i] = 128
			}

			coef := tr.Forward(&in)
			for i := 1; i < BlockLen; i++ {
				if coef[i] != 0 {
					t.Errorf("AC coefficient %d = %d, want 0", i, coef[i])
				}
			}
			if coef[0] != 0 {
				t.Errorf("DC of a mid-grey block = %d, want 0", coef[0])
			}

			out := tr.Inverse(&coef)
			if out != in {
				t.Errorf("inverse of mid-grey block: got %v", out)
			}
		})
	}
}

func TestTransformDCOnly(t *testing.T) {
	tr := newTestTransform(t, PrecisionReference)

	var in SampleBlock
	for i := range in {
		in[i] = 200
	}

	coef := tr.Forward(&in)

	// Orthonormal DC = 8 * (200 - 128), scaled by 2^CoefFracBits
	wantDC := int16(8 * 72 << CoefFracBits)
	if coef[0] != wantDC {
		t.Errorf("DC = %d, want %d", coef[0], wantDC)
	}
	for i := 1; i < BlockLen; i++ {
		if coef[i] != 0 {
			t.Errorf("AC coefficient %d = %d, want 0", i, coef[i])
		}
	}

	out := tr.Inverse(&coef)
	if out != in {
		t.Errorf("inverse of DC-only block: got %v", out)
	}
}

func TestTransformGradientPresetsAgree(t *testing.T) {
	var in SampleBlock
	for y := 0; y < BlockSize; y++ {
		for x := 0; x < BlockSize; x++ {
			in[y*BlockSize+x] = uint8(x*17 + y*29 + x*y*3)
		}
	}

	ref := newTestTransform(t, PrecisionReference).Forward(&in)
	for _, p := range Presets()[1:] {
		got := newTestTransform(t, p).Forward(&in)
		maxDiff := 0
		for i := range ref {
			d := int(ref[i]) - int(got[i])
			if d < 0 {
				d = -d
			}
			if d > maxDiff {
				maxDiff = d
			}
		}
		t.Logf("%s vs reference: max coefficient difference %d", p, maxDiff)
		if maxDiff > 4 {
			t.Errorf("%s drifts from reference by %d coefficient units", p, maxDiff)
		}
	}
}

func TestTransformSaturationCounted(t *testing.T) {
	sat := &Saturation{}
	tr, err := NewTransform(PrecisionReference, sat)
	if err != nil {
		t.Fatalf("NewTransform failed: %v", err)
	}

	// A huge DC drives every sample past 255
	var coef CoefBlock
	coef[0] = 32767
	out := tr.Inverse(&coef)
	for i, s := range out {
		if s != 255 {
			t.Fatalf("sample %d = %d, want 255", i, s)
		}
	}
	if sat.Samples() != BlockLen {
		t.Errorf("sample saturations = %d, want %d", sat.Samples(), BlockLen)
	}

	sat.Reset()
	if sat.Total() != 0 {
		t.Errorf("Total after Reset = %d, want 0", sat.Total())
	}
}

func TestPrecisionValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       Precision
		wantErr bool
	}{
		{"reference", PrecisionReference, false},
		{"fixed18x4", PrecisionFixed18x4, false},
		{"fixed24x6", PrecisionFixed24x6, false},
		{"fixed24x12", PrecisionFixed24x12, false},
		{"min", Precision{FracBits: MinFracBits}, false},
		{"max", Precision{FracBits: MaxFracBits}, false},
		{"too narrow", Precision{FracBits: MinFracBits - 1}, true},
		{"too wide", Precision{FracBits: MaxFracBits + 1}, true},
		{"negative", Precision{FracBits: -3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPrecision) {
				t.Errorf("error %v is not ErrInvalidPrecision", err)
			}
			if _, err := NewTransform(tt.p, nil); (err != nil) != tt.wantErr {
				t.Errorf("NewTransform error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParsePrecision(t *testing.T) {
	for _, p := range Presets() {
		got, err := ParsePrecision(p.String())
		if err != nil {
			t.Fatalf("ParsePrecision(%q) failed: %v", p.String(), err)
		}
		if got != p {
			t.Errorf("ParsePrecision(%q) = %v, want %v", p.String(), got, p)
		}
	}

	if _, err := ParsePrecision("fixed8x1"); !errors.Is(err, ErrInvalidPrecision) {
		t.Errorf("ParsePrecision(unknown) error = %v, want ErrInvalidPrecision", err)
	}

	if s := (Precision{FracBits: 16}).String(); s != "fixed<16>" {
		t.Errorf("String() = %q, want fixed<16>", s)
	}
}

func TestBasisOrthonormal(t *testing.T) {
	b := Basis()
	for i := 0; i < BlockSize; i++ {
		for j := 0; j < BlockSize; j++ {
			var dot float64
			for k := 0; k < BlockSize; k++ {
				dot += b[i][k] * b[j][k]
			}
			want := 0.0
			if i == j {
				want = 1.0
			}
			if d := dot - want; d > 1e-12 || d < -1e-12 {
				t.Errorf("row %d . row %d = %g, want %g", i, j, dot, want)
			}
		}
	}
}
