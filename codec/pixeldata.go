package codec

import (
	"fmt"
	"sync"

	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"
)

var _ imagetypes.PixelData = (*PixelData)(nil)

// PixelData is an in-memory imagetypes.PixelData holding whole frames
type PixelData struct {
	mu           sync.RWMutex
	frames       [][]byte
	frameInfo    *imagetypes.FrameInfo
	encapsulated bool
}

// NewPixelData creates empty native (uncompressed) pixel data
func NewPixelData(frameInfo *imagetypes.FrameInfo) *PixelData {
	return &PixelData{frameInfo: frameInfo}
}

// NewEncapsulatedPixelData creates empty pixel data whose frames hold
// compressed bitstreams
func NewEncapsulatedPixelData(frameInfo *imagetypes.FrameInfo) *PixelData {
	return &PixelData{frameInfo: frameInfo, encapsulated: true}
}

// GetFrame returns the pixel data for the specified frame (0-indexed)
func (p *PixelData) GetFrame(frameIndex int) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if frameIndex < 0 || frameIndex >= len(p.frames) {
		return nil, fmt.Errorf("%w: %d of %d", ErrFrameOutOfRange, frameIndex, len(p.frames))
	}
	return p.frames[frameIndex], nil
}

// AddFrame appends a new frame to the pixel data
func (p *PixelData) AddFrame(frameData []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frames = append(p.frames, frameData)
	return nil
}

// FrameCount returns the number of frames in the pixel data
func (p *PixelData) FrameCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.frames)
}

// GetFrameInfo returns frame metadata for codec operations
func (p *PixelData) GetFrameInfo() *imagetypes.FrameInfo {
	return p.frameInfo
}

// IsEncapsulated reports whether frames hold compressed data
func (p *PixelData) IsEncapsulated() bool {
	return p.encapsulated
}
