package pipeline

import (
	"fmt"

	"github.com/cocosip/go-blockdct-codec/blockdct/common"
	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"
)

// SplitSamples separates 8-bit pixel data into one plane per component.
// Interleaved data stores components per pixel; planar data stores each
// component as a contiguous plane.
func SplitSamples(data []byte, width, height, components int, planar bool) ([]*common.Plane, error) {
	if width <= 0 || height <= 0 || components <= 0 {
		return nil, fmt.Errorf("%w: %dx%d with %d components", common.ErrInvalidDimensions, width, height, components)
	}
	n := width * height
	if len(data) < n*components {
		return nil, fmt.Errorf("%w: %d bytes, want %d", common.ErrBufferTooSmall, len(data), n*components)
	}

	planes := make([]*common.Plane, components)
	for c := range planes {
		planes[c] = common.NewPlane(width, height)
	}
	if planar || components == 1 {
		for c, plane := range planes {
			copy(plane.Pix, data[c*n:(c+1)*n])
		}
		return planes, nil
	}
	for i := 0; i < n; i++ {
		for c, plane := range planes {
			plane.Pix[i] = data[i*components+c]
		}
	}
	return planes, nil
}

// MergeSamples is the inverse of SplitSamples
func MergeSamples(planes []*common.Plane, planar bool) ([]byte, error) {
	if len(planes) == 0 {
		return nil, fmt.Errorf("%w: no planes", common.ErrInvalidDimensions)
	}
	for c, plane := range planes {
		if err := plane.Validate(); err != nil {
			return nil, fmt.Errorf("plane %d: %w", c, err)
		}
		if !plane.SameSize(planes[0]) {
			return nil, fmt.Errorf("plane %d: %w", c, common.ErrDimensionMismatch)
		}
	}

	components := len(planes)
	n := planes[0].Width * planes[0].Height
	out := make([]byte, n*components)
	if planar || components == 1 {
		for c, plane := range planes {
			copy(out[c*n:], plane.Pix[:n])
		}
		return out, nil
	}
	for i := 0; i < n; i++ {
		for c, plane := range planes {
			out[i*components+c] = plane.Pix[i]
		}
	}
	return out, nil
}

func checkFrameInfo(info *imagetypes.FrameInfo) error {
	if info == nil {
		return fmt.Errorf("pixel data has no frame info")
	}
	if info.BitsAllocated != 8 {
		return fmt.Errorf("%w: %d bits allocated, only 8 supported", common.ErrInvalidDimensions, info.BitsAllocated)
	}
	return nil
}

// PlanesFromFrame loads one frame of 8-bit DICOM pixel data as planes
func PlanesFromFrame(px imagetypes.PixelData, frame int) ([]*common.Plane, error) {
	if px == nil {
		return nil, fmt.Errorf("pixel data cannot be nil")
	}
	info := px.GetFrameInfo()
	if err := checkFrameInfo(info); err != nil {
		return nil, err
	}
	if frame < 0 || frame >= px.FrameCount() {
		return nil, fmt.Errorf("frame %d out of range [0,%d)", frame, px.FrameCount())
	}
	data, err := px.GetFrame(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to get frame %d: %w", frame, err)
	}
	return SplitSamples(data, int(info.Width), int(info.Height),
		int(info.SamplesPerPixel), info.PlanarConfiguration != 0)
}

// AppendFrame writes planes to dst as a new frame
func AppendFrame(dst imagetypes.PixelData, planes []*common.Plane, planar bool) error {
	if dst == nil {
		return fmt.Errorf("pixel data cannot be nil")
	}
	data, err := MergeSamples(planes, planar)
	if err != nil {
		return err
	}
	if err := dst.AddFrame(data); err != nil {
		return fmt.Errorf("failed to add frame: %w", err)
	}
	return nil
}
