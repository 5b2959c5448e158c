// Package container packs encoded images into a self-describing byte stream:
// a short uncompressed header followed by a zstd-compressed varint payload.
package container

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/cocosip/go-blockdct-codec/blockdct/common"
	"github.com/cocosip/go-blockdct-codec/blockdct/pipeline"
	"github.com/klauspost/compress/zstd"
)

var (
	// ErrBadMagic is returned when data does not start with the container magic
	ErrBadMagic = errors.New("not a blockdct container")

	// ErrUnsupportedVersion is returned for an unknown container version
	ErrUnsupportedVersion = errors.New("unsupported container version")

	// ErrCorrupt is returned when the payload cannot be parsed
	ErrCorrupt = errors.New("corrupt container payload")
)

var magic = []byte("BDCT")

const (
	version = 1

	// maxSide bounds plane dimensions read from untrusted data
	maxSide = 1 << 16
)

// Header records what a decoder needs besides the tokens
type Header struct {
	Precision  common.Precision
	QuantTable common.QuantTable
}

// HeaderFor returns the header describing p's configuration
func HeaderFor(p *pipeline.Pipeline) Header {
	params := p.Parameters()
	return Header{Precision: params.Precision, QuantTable: params.QuantTable}
}

// Parameters returns pipeline parameters that decode streams written with h
func (h Header) Parameters() *pipeline.Parameters {
	return pipeline.NewParameters().WithPrecision(h.Precision).WithQuantTable(h.QuantTable)
}

func newEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func newDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
	)
	if err != nil {
		panic(err)
	}
	return dec
}

var encPool = sync.Pool{New: func() any { return newEncoder() }}

var decPool = sync.Pool{New: func() any { return newDecoder() }}

// Marshal serializes img together with the header needed to decode it
func Marshal(h Header, img *pipeline.EncodedImage) ([]byte, error) {
	if err := h.Precision.Validate(); err != nil {
		return nil, err
	}
	if err := h.QuantTable.Validate(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", common.ErrInvalidDimensions)
	}

	payload := make([]byte, 0, 1024)
	for _, q := range h.QuantTable {
		payload = binary.AppendUvarint(payload, uint64(q))
	}
	payload = binary.AppendUvarint(payload, uint64(len(img.Channels)))
	for c, ch := range img.Channels {
		if ch == nil || ch.Width <= 0 || ch.Height <= 0 || ch.Width > maxSide || ch.Height > maxSide {
			return nil, fmt.Errorf("channel %d: %w", c, common.ErrInvalidDimensions)
		}
		if want := common.BlockCount(ch.Width, ch.Height); len(ch.Blocks) != want {
			return nil, fmt.Errorf("channel %d: %w: %d blocks, want %d",
				c, common.ErrDimensionMismatch, len(ch.Blocks), want)
		}
		payload = binary.AppendUvarint(payload, uint64(ch.Width))
		payload = binary.AppendUvarint(payload, uint64(ch.Height))
		for _, tokens := range ch.Blocks {
			payload = binary.AppendUvarint(payload, uint64(len(tokens)))
			for _, t := range tokens {
				payload = binary.AppendVarint(payload, int64(t.Value))
				payload = append(payload, t.Run)
			}
		}
	}

	enc := encPool.Get().(*zstd.Encoder)
	out := make([]byte, 0, len(magic)+2+len(payload)/2)
	out = append(out, magic...)
	out = append(out, version, byte(h.Precision.FracBits))
	out = enc.EncodeAll(payload, out)
	encPool.Put(enc)
	return out, nil
}

// Unmarshal parses data written by Marshal
func Unmarshal(data []byte) (Header, *pipeline.EncodedImage, error) {
	var h Header
	if len(data) < len(magic)+2 || !bytes.Equal(data[:len(magic)], magic) {
		return h, nil, ErrBadMagic
	}
	if v := data[len(magic)]; v != version {
		return h, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	h.Precision = common.Precision{FracBits: int(data[len(magic)+1])}
	if err := h.Precision.Validate(); err != nil {
		return h, nil, err
	}

	dec := decPool.Get().(*zstd.Decoder)
	payload, err := dec.DecodeAll(data[len(magic)+2:], nil)
	decPool.Put(dec)
	if err != nil {
		return h, nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	r := reader{buf: payload}
	for i := range h.QuantTable {
		h.QuantTable[i] = int32(r.uvarint(1 << 15))
	}
	channels := int(r.uvarint(uint64(len(payload))))
	if r.err != nil {
		return h, nil, r.err
	}
	if err := h.QuantTable.Validate(); err != nil {
		return h, nil, err
	}

	img := &pipeline.EncodedImage{Channels: make([]*pipeline.EncodedChannel, 0, channels)}
	for c := 0; c < channels; c++ {
		w := int(r.uvarint(maxSide))
		ht := int(r.uvarint(maxSide))
		if r.err != nil {
			return h, nil, fmt.Errorf("channel %d: %w", c, r.err)
		}
		if w == 0 || ht == 0 {
			return h, nil, fmt.Errorf("channel %d: %w", c, common.ErrInvalidDimensions)
		}
		blocks := common.BlockCount(w, ht)
		if blocks > len(r.buf)-r.off {
			return h, nil, fmt.Errorf("channel %d: %w: %d blocks in %d bytes", c, ErrCorrupt, blocks, len(r.buf)-r.off)
		}
		ch := &pipeline.EncodedChannel{Width: w, Height: ht, Blocks: make([][]common.Token, blocks)}
		for b := range ch.Blocks {
			n := int(r.uvarint(common.BlockLen))
			tokens := make([]common.Token, 0, n)
			for i := 0; i < n; i++ {
				v := r.varint()
				run := r.readByte()
				tokens = append(tokens, common.Token{Value: int16(v), Run: run})
			}
			if r.err != nil {
				return h, nil, fmt.Errorf("channel %d block %d: %w", c, b, r.err)
			}
			ch.Blocks[b] = tokens
		}
		img.Channels = append(img.Channels, ch)
	}
	if len(r.buf) != r.off {
		return h, nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(r.buf)-r.off)
	}
	return h, img, nil
}

// reader decodes varints and records the first failure
type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) uvarint(limit uint64) uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.buf[r.off:])
	if n <= 0 {
		r.err = fmt.Errorf("%w: truncated varint at %d", ErrCorrupt, r.off)
		return 0
	}
	if v > limit {
		r.err = fmt.Errorf("%w: value %d exceeds %d at %d", ErrCorrupt, v, limit, r.off)
		return 0
	}
	r.off += n
	return v
}

func (r *reader) varint() int64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Varint(r.buf[r.off:])
	if n <= 0 || v < -1<<15 || v >= 1<<15 {
		r.err = fmt.Errorf("%w: bad coefficient at %d", ErrCorrupt, r.off)
		return 0
	}
	r.off += n
	return v
}

func (r *reader) readByte() byte {
	if r.err != nil {
		return 0
	}
	if r.off >= len(r.buf) {
		r.err = fmt.Errorf("%w: truncated run at %d", ErrCorrupt, r.off)
		return 0
	}
	b := r.buf[r.off]
	r.off++
	return b
}
