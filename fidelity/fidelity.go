// Package fidelity compares coefficient and sample streams produced by
// different computation paths, and measures reconstruction distortion.
package fidelity

import (
	"fmt"
	"math"
	"slices"

	"github.com/cocosip/go-blockdct-codec/blockdct/common"
)

// PSNRSentinel is returned by PSNR for identical planes instead of +Inf
const PSNRSentinel = 99.0

// ExactMatch returns the number of positions where a and b differ.
// Both slices must have the same length.
func ExactMatch[T comparable](a, b []T) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: lengths %d and %d", common.ErrDimensionMismatch, len(a), len(b))
	}
	diff := 0
	for i := range a {
		if a[i] != b[i] {
			diff++
		}
	}
	return diff, nil
}

// MatchTokens returns the number of blocks whose token lists differ
func MatchTokens(a, b [][]common.Token) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d and %d blocks", common.ErrDimensionMismatch, len(a), len(b))
	}
	diff := 0
	for i := range a {
		if !slices.Equal(a[i], b[i]) {
			diff++
		}
	}
	return diff, nil
}

// MSE returns the mean squared error between two planes of equal size
func MSE(orig, recon *common.Plane) (float64, error) {
	if err := checkPlanes(orig, recon); err != nil {
		return 0, err
	}
	n := orig.Width * orig.Height
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(orig.Pix[i]) - float64(recon.Pix[i])
		sum += d * d
	}
	return sum / float64(n), nil
}

// PSNR returns 10*log10(255^2/MSE) in decibels, or PSNRSentinel when the
// planes are identical.
func PSNR(orig, recon *common.Plane) (float64, error) {
	mse, err := MSE(orig, recon)
	if err != nil {
		return 0, err
	}
	if mse == 0 {
		return PSNRSentinel, nil
	}
	return 10 * math.Log10(255*255/mse), nil
}

// MaxAbsError returns the largest per-sample difference between two planes
func MaxAbsError(orig, recon *common.Plane) (int, error) {
	if err := checkPlanes(orig, recon); err != nil {
		return 0, err
	}
	worst := 0
	for i := 0; i < orig.Width*orig.Height; i++ {
		d := int(orig.Pix[i]) - int(recon.Pix[i])
		if d < 0 {
			d = -d
		}
		if d > worst {
			worst = d
		}
	}
	return worst, nil
}

// Report summarises how closely a reconstruction matches its original
type Report struct {
	Mismatches  int
	MSE         float64
	PSNR        float64
	MaxAbsError int
}

// Exact reports whether the reconstruction is bit-identical
func (r Report) Exact() bool {
	return r.Mismatches == 0
}

// Compare computes every metric for one channel
func Compare(orig, recon *common.Plane) (Report, error) {
	if err := checkPlanes(orig, recon); err != nil {
		return Report{}, err
	}
	n := orig.Width * orig.Height

	var r Report
	var err error
	if r.Mismatches, err = ExactMatch(orig.Pix[:n], recon.Pix[:n]); err != nil {
		return Report{}, err
	}
	if r.MSE, err = MSE(orig, recon); err != nil {
		return Report{}, err
	}
	if r.PSNR, err = PSNR(orig, recon); err != nil {
		return Report{}, err
	}
	if r.MaxAbsError, err = MaxAbsError(orig, recon); err != nil {
		return Report{}, err
	}
	return r, nil
}

// CompareChannels compares planes channel by channel
func CompareChannels(orig, recon []*common.Plane) ([]Report, error) {
	if len(orig) != len(recon) {
		return nil, fmt.Errorf("%w: %d and %d channels", common.ErrDimensionMismatch, len(orig), len(recon))
	}
	reports := make([]Report, len(orig))
	for i := range orig {
		r, err := Compare(orig[i], recon[i])
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}
		reports[i] = r
	}
	return reports, nil
}

func checkPlanes(orig, recon *common.Plane) error {
	if err := orig.Validate(); err != nil {
		return err
	}
	if err := recon.Validate(); err != nil {
		return err
	}
	if !orig.SameSize(recon) {
		return fmt.Errorf("%w: %dx%d vs %dx%d", common.ErrDimensionMismatch,
			orig.Width, orig.Height, recon.Width, recon.Height)
	}
	return nil
}
