// Package blockdct registers the block DCT codecs, one per transform
// precision preset, with the codec registry.
package blockdct

import (
	"context"
	"fmt"

	"github.com/cocosip/go-blockdct-codec/blockdct/common"
	"github.com/cocosip/go-blockdct-codec/blockdct/pipeline"
	"github.com/cocosip/go-blockdct-codec/codec"
	"github.com/cocosip/go-blockdct-codec/container"
	dicomcodec "github.com/cocosip/go-dicom/pkg/imaging/codec"
	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"
)

var _ codec.Codec = (*Codec)(nil)

const namePrefix = "blockdct-"

// Options are the block DCT encoding options
type Options struct {
	codec.BaseOptions

	// Schedule selects how blocks are dispatched. Default: sequential.
	Schedule pipeline.Schedule

	// Workers is the goroutine count for the parallel schedule. 0 means GOMAXPROCS.
	Workers int
}

// Validate checks the options
func (o *Options) Validate() error {
	if err := o.BaseOptions.Validate(); err != nil {
		return err
	}
	if err := o.Schedule.Validate(); err != nil {
		return err
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers %d", codec.ErrInvalidParameter, o.Workers)
	}
	return nil
}

// Codec encodes 8-bit images with a fixed transform precision
type Codec struct {
	precision common.Precision
	name      string
	uid       string
}

// NewCodec creates a codec for the given precision
func NewCodec(prec common.Precision) *Codec {
	name := namePrefix + prec.String()
	return &Codec{
		precision: prec,
		name:      name,
		uid:       codec.DeriveUID(name),
	}
}

// Name returns the codec name
func (c *Codec) Name() string {
	return c.name
}

// UID returns the codec's 2.25 OID
func (c *Codec) UID() string {
	return c.uid
}

// Precision returns the transform precision used for encoding
func (c *Codec) Precision() common.Precision {
	return c.precision
}

// GetDefaultParameters returns the default pipeline parameters for this codec
func (c *Codec) GetDefaultParameters() dicomcodec.Parameters {
	return pipeline.NewParameters().WithPrecision(c.precision)
}

func (c *Codec) parametersFromOptions(opts codec.Options) (*pipeline.Parameters, error) {
	params := pipeline.NewParameters().WithPrecision(c.precision)
	if opts == nil {
		return params, nil
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var quality int
	switch o := opts.(type) {
	case *Options:
		quality = o.Quality
		params.WithSchedule(o.Schedule).WithWorkers(o.Workers)
	case *codec.BaseOptions:
		quality = o.Quality
	}
	if quality > 0 {
		params.WithQuality(quality)
	}
	return params, nil
}

// parametersFrom resolves generic codec parameters, falling back to string
// keys when they are not pipeline parameters.
func (c *Codec) parametersFrom(parameters dicomcodec.Parameters) *pipeline.Parameters {
	if pp, ok := parameters.(*pipeline.Parameters); ok {
		return pp.Clone().WithPrecision(c.precision)
	}
	params := pipeline.NewParameters().WithPrecision(c.precision)
	if parameters == nil {
		return params
	}
	for _, key := range []string{"quality", "schedule", "workers", "queueDepth", "isVerbose"} {
		if v := parameters.GetParameter(key); v != nil {
			params.SetParameter(key, v)
		}
	}
	return params
}

func (c *Codec) encodePlanes(params *pipeline.Parameters, planes []*common.Plane) ([]byte, error) {
	p, err := pipeline.New(params)
	if err != nil {
		return nil, err
	}
	img, err := p.EncodeImage(context.Background(), planes...)
	if err != nil {
		return nil, err
	}
	return container.Marshal(container.HeaderFor(p), img)
}

func decodePlanes(data []byte) ([]*common.Plane, error) {
	h, img, err := container.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.New(h.Parameters())
	if err != nil {
		return nil, err
	}
	return p.DecodeImage(context.Background(), img)
}

// Encode compresses 8-bit pixel data
func (c *Codec) Encode(params codec.EncodeParams) ([]byte, error) {
	if params.BitDepth != 8 {
		return nil, fmt.Errorf("%w: bit depth %d", codec.ErrUnsupportedFormat, params.BitDepth)
	}
	pp, err := c.parametersFromOptions(params.Options)
	if err != nil {
		return nil, err
	}
	planes, err := pipeline.SplitSamples(params.PixelData, params.Width, params.Height, params.Components, params.Planar)
	if err != nil {
		return nil, err
	}
	return c.encodePlanes(pp, planes)
}

// Decode expands data produced by Encode into interleaved 8-bit samples
func (c *Codec) Decode(data []byte) (*codec.DecodeResult, error) {
	planes, err := decodePlanes(data)
	if err != nil {
		return nil, err
	}
	if len(planes) == 0 {
		return nil, fmt.Errorf("%w: no channels", codec.ErrUnsupportedFormat)
	}
	pix, err := pipeline.MergeSamples(planes, false)
	if err != nil {
		return nil, err
	}
	return &codec.DecodeResult{
		PixelData:  pix,
		Width:      planes[0].Width,
		Height:     planes[0].Height,
		Components: len(planes),
		BitDepth:   8,
	}, nil
}

// EncodePixelData encodes every frame of src into dst
func (c *Codec) EncodePixelData(src, dst imagetypes.PixelData, parameters dicomcodec.Parameters) error {
	if src == nil || dst == nil {
		return fmt.Errorf("source and destination PixelData cannot be nil")
	}
	params := c.parametersFrom(parameters)

	for frameIndex := 0; frameIndex < src.FrameCount(); frameIndex++ {
		planes, err := pipeline.PlanesFromFrame(src, frameIndex)
		if err != nil {
			return fmt.Errorf("frame %d: %w", frameIndex, err)
		}
		encoded, err := c.encodePlanes(params, planes)
		if err != nil {
			return fmt.Errorf("failed to encode frame %d: %w", frameIndex, err)
		}
		if err := dst.AddFrame(encoded); err != nil {
			return fmt.Errorf("failed to add encoded frame %d: %w", frameIndex, err)
		}
	}
	return nil
}

// DecodePixelData decodes every frame of src into dst, laid out according to
// dst's planar configuration.
func (c *Codec) DecodePixelData(src, dst imagetypes.PixelData) error {
	if src == nil || dst == nil {
		return fmt.Errorf("source and destination PixelData cannot be nil")
	}
	planar := false
	if info := dst.GetFrameInfo(); info != nil {
		planar = info.PlanarConfiguration != 0
	}

	for frameIndex := 0; frameIndex < src.FrameCount(); frameIndex++ {
		data, err := src.GetFrame(frameIndex)
		if err != nil {
			return fmt.Errorf("failed to get frame %d: %w", frameIndex, err)
		}
		planes, err := decodePlanes(data)
		if err != nil {
			return fmt.Errorf("failed to decode frame %d: %w", frameIndex, err)
		}
		if err := pipeline.AppendFrame(dst, planes, planar); err != nil {
			return fmt.Errorf("frame %d: %w", frameIndex, err)
		}
	}
	return nil
}

// RegisterCodecs registers one codec per precision preset
func RegisterCodecs(r *codec.Registry) {
	for _, prec := range common.Presets() {
		r.Register(NewCodec(prec))
	}
}

func init() {
	RegisterCodecs(codec.Default())
}
