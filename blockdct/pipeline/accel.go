package pipeline

import (
	"context"
	"fmt"

	"github.com/cocosip/go-blockdct-codec/blockdct/common"
	"github.com/cocosip/go-blockdct-codec/fidelity"
)

// Coefficient planes hold forward-transform output laid out like the image:
// coefficient (v,u) of block (row,col) sits at sample (row*8+v, col*8+u).
// Positions outside the image are dropped, so edge blocks of images whose
// sides are not multiples of 8 lose their padded coefficients.

func gatherCoefficients(coef []int16, width, height, row, col int) common.CoefBlock {
	var b common.CoefBlock
	y0, x0 := row*common.BlockSize, col*common.BlockSize
	for v := 0; v < common.BlockSize; v++ {
		y := y0 + v
		if y >= height {
			break
		}
		for u := 0; u < common.BlockSize; u++ {
			x := x0 + u
			if x >= width {
				break
			}
			b[v*common.BlockSize+u] = coef[y*width+x]
		}
	}
	return b
}

func scatterCoefficients(coef []int16, width, height, row, col int, b *common.CoefBlock) {
	y0, x0 := row*common.BlockSize, col*common.BlockSize
	for v := 0; v < common.BlockSize; v++ {
		y := y0 + v
		if y >= height {
			break
		}
		for u := 0; u < common.BlockSize; u++ {
			x := x0 + u
			if x >= width {
				break
			}
			coef[y*width+x] = b[v*common.BlockSize+u]
		}
	}
}

// CoefficientPlane runs the forward transform over plane and returns the
// coefficients in image layout, as an accelerator would deliver them.
func (p *Pipeline) CoefficientPlane(ctx context.Context, plane *common.Plane) ([]int16, error) {
	if err := plane.Validate(); err != nil {
		return nil, err
	}
	w, h := plane.Width, plane.Height
	cols, _ := common.BlockGrid(w, h)
	out := make([]int16, w*h)

	err := runBlocks(ctx, p.params, common.BlockCount(w, h), stages[common.SampleBlock, common.CoefBlock]{
		load: func(i int) common.SampleBlock {
			return plane.Tile(i/cols, i%cols)
		},
		compute: func(_ int, b common.SampleBlock) (common.CoefBlock, error) {
			return p.transform.Forward(&b), nil
		},
		store: func(i int, c common.CoefBlock) {
			scatterCoefficients(out, w, h, i/cols, i%cols, &c)
		},
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func checkCoefficientPlane(coef []int16, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", common.ErrInvalidDimensions, width, height)
	}
	if len(coef) < width*height {
		return fmt.Errorf("%w: %d coefficients for %dx%d", common.ErrBufferTooSmall, len(coef), width, height)
	}
	return nil
}

// EncodeCoefficients quantizes, scans and run-length codes an externally
// computed coefficient plane.
func (p *Pipeline) EncodeCoefficients(ctx context.Context, coef []int16, width, height int) (*EncodedChannel, error) {
	if err := checkCoefficientPlane(coef, width, height); err != nil {
		return nil, err
	}
	cols, _ := common.BlockGrid(width, height)
	n := common.BlockCount(width, height)

	enc := &EncodedChannel{Width: width, Height: height, Blocks: make([][]common.Token, n)}
	err := runBlocks(ctx, p.params, n, stages[common.CoefBlock, []common.Token]{
		load: func(i int) common.CoefBlock {
			return gatherCoefficients(coef, width, height, i/cols, i%cols)
		},
		compute: func(_ int, c common.CoefBlock) ([]common.Token, error) {
			return p.encodeCoefficients(&c), nil
		},
		store: func(i int, tokens []common.Token) {
			enc.Blocks[i] = tokens
		},
	})
	if err != nil {
		return nil, err
	}
	return enc, nil
}

// ReconstructFromCoefficients finishes the codec on an externally computed
// coefficient plane and decodes the result back to samples.
func (p *Pipeline) ReconstructFromCoefficients(ctx context.Context, coef []int16, width, height int) (*common.Plane, error) {
	enc, err := p.EncodeCoefficients(ctx, coef, width, height)
	if err != nil {
		return nil, err
	}
	return p.DecodeChannel(ctx, enc)
}

// Verification compares an accelerator's coefficient plane against the
// pipeline's own transform of the same input.
type Verification struct {
	// CoefficientMismatches counts coefficient positions that differ
	CoefficientMismatches int
	// BlockMismatches counts blocks whose run-length tokens differ
	BlockMismatches int
	// Reconstruction is the plane decoded from the accelerator coefficients
	Reconstruction *common.Plane
	// Fidelity compares Reconstruction with the input plane
	Fidelity fidelity.Report
}

// VerifyCoefficients checks accel, a coefficient plane computed elsewhere for
// plane, against this pipeline's transform.
func (p *Pipeline) VerifyCoefficients(ctx context.Context, plane *common.Plane, accel []int16) (*Verification, error) {
	ref, err := p.CoefficientPlane(ctx, plane)
	if err != nil {
		return nil, err
	}

	var v Verification
	if v.CoefficientMismatches, err = fidelity.ExactMatch(ref, accel); err != nil {
		return nil, err
	}

	refEnc, err := p.EncodeCoefficients(ctx, ref, plane.Width, plane.Height)
	if err != nil {
		return nil, err
	}
	accelEnc, err := p.EncodeCoefficients(ctx, accel, plane.Width, plane.Height)
	if err != nil {
		return nil, err
	}
	if v.BlockMismatches, err = fidelity.MatchTokens(refEnc.Blocks, accelEnc.Blocks); err != nil {
		return nil, err
	}

	if v.Reconstruction, err = p.DecodeChannel(ctx, accelEnc); err != nil {
		return nil, err
	}
	if v.Fidelity, err = fidelity.Compare(plane, v.Reconstruction); err != nil {
		return nil, err
	}
	return &v, nil
}
