// Package pipeline composes the block primitives into per-channel encode and
// decode passes, dispatched by one of three interchangeable schedulers.
package pipeline

import (
	"context"
	"fmt"

	"github.com/cocosip/go-blockdct-codec/blockdct/common"
)

// EncodedChannel is one channel's token stream, one token list per block in
// row-major block order.
type EncodedChannel struct {
	Width  int
	Height int
	Blocks [][]common.Token
}

// EncodedImage is an ordered set of independently encoded channels
type EncodedImage struct {
	Channels []*EncodedChannel
}

// Pipeline encodes and decodes planes. A Pipeline is safe for concurrent use;
// its transform, quantization table and zigzag order are read-only.
type Pipeline struct {
	params    *Parameters
	transform *common.Transform
	table     common.QuantTable
	sat       *common.Saturation
}

// New creates a pipeline. The parameters are validated and copied.
func New(params *Parameters) (*Pipeline, error) {
	if params == nil {
		params = NewParameters()
	}
	params = params.Clone()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	sat := &common.Saturation{}
	tr, err := common.NewTransform(params.Precision, sat)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		params:    params,
		transform: tr,
		table:     params.QuantTable,
		sat:       sat,
	}, nil
}

// Parameters returns a copy of the pipeline configuration
func (p *Pipeline) Parameters() *Parameters {
	return p.params.Clone()
}

// Saturations returns the counters of saturated coefficients and clamped samples
func (p *Pipeline) Saturations() *common.Saturation {
	return p.sat
}

// EncodeBlock runs transform, quantization, zigzag scan and run-length coding
// on one block.
func (p *Pipeline) EncodeBlock(b *common.SampleBlock) []common.Token {
	coef := p.transform.Forward(b)
	return p.encodeCoefficients(&coef)
}

func (p *Pipeline) encodeCoefficients(coef *common.CoefBlock) []common.Token {
	q := common.Quantize(coef, &p.table, p.sat)
	seq := common.Scan(&q)
	return common.EncodeRLE(&seq)
}

// DecodeBlock reverses EncodeBlock
func (p *Pipeline) DecodeBlock(tokens []common.Token) (common.SampleBlock, error) {
	seq, err := common.DecodeRLE(tokens)
	if err != nil {
		return common.SampleBlock{}, err
	}
	q := common.Unscan(&seq)
	coef := common.Dequantize(&q, &p.table, p.sat)
	return p.transform.Inverse(&coef), nil
}

// EncodeChannel encodes every block of a plane
func (p *Pipeline) EncodeChannel(ctx context.Context, plane *common.Plane) (*EncodedChannel, error) {
	if err := plane.Validate(); err != nil {
		return nil, err
	}
	cols, _ := common.BlockGrid(plane.Width, plane.Height)
	n := common.BlockCount(plane.Width, plane.Height)

	enc := &EncodedChannel{
		Width:  plane.Width,
		Height: plane.Height,
		Blocks: make([][]common.Token, n),
	}
	err := runBlocks(ctx, p.params, n, stages[common.SampleBlock, []common.Token]{
		load: func(i int) common.SampleBlock {
			return plane.Tile(i/cols, i%cols)
		},
		compute: func(_ int, b common.SampleBlock) ([]common.Token, error) {
			return p.EncodeBlock(&b), nil
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

// DecodeChannel reconstructs a plane from its token stream
func (p *Pipeline) DecodeChannel(ctx context.Context, enc *EncodedChannel) (*common.Plane, error) {
	if enc == nil || enc.Width <= 0 || enc.Height <= 0 {
		return nil, common.ErrInvalidDimensions
	}
	cols, _ := common.BlockGrid(enc.Width, enc.Height)
	n := common.BlockCount(enc.Width, enc.Height)
	if len(enc.Blocks) != n {
		return nil, fmt.Errorf("%w: %d blocks for %dx%d, want %d",
			common.ErrDimensionMismatch, len(enc.Blocks), enc.Width, enc.Height, n)
	}

	out := common.NewPlane(enc.Width, enc.Height)
	err := runBlocks(ctx, p.params, n, stages[[]common.Token, common.SampleBlock]{
		load: func(i int) []common.Token {
			return enc.Blocks[i]
		},
		compute: func(i int, tokens []common.Token) (common.SampleBlock, error) {
			b, err := p.DecodeBlock(tokens)
			if err != nil {
				return b, fmt.Errorf("block (%d,%d): %w", i/cols, i%cols, err)
			}
			return b, nil
		},
		store: func(i int, b common.SampleBlock) {
			out.Untile(&b, i/cols, i%cols)
		},
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeImage encodes each plane as an independent channel
func (p *Pipeline) EncodeImage(ctx context.Context, planes ...*common.Plane) (*EncodedImage, error) {
	img := &EncodedImage{Channels: make([]*EncodedChannel, len(planes))}
	for c, plane := range planes {
		enc, err := p.EncodeChannel(ctx, plane)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", c, err)
		}
		img.Channels[c] = enc
	}
	return img, nil
}

// DecodeImage decodes every channel of img
func (p *Pipeline) DecodeImage(ctx context.Context, img *EncodedImage) ([]*common.Plane, error) {
	if img == nil {
		return nil, common.ErrInvalidDimensions
	}
	planes := make([]*common.Plane, len(img.Channels))
	for c, enc := range img.Channels {
		plane, err := p.DecodeChannel(ctx, enc)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", c, err)
		}
		planes[c] = plane
	}
	return planes, nil
}
