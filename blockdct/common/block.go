package common

import "fmt"

const (
	// BlockSize is the edge length of a transform block
	BlockSize = 8
	// BlockLen is the number of samples or coefficients in a block
	BlockLen = BlockSize * BlockSize
)

// SampleBlock is an 8x8 block of unsigned samples in row-major order
type SampleBlock [BlockLen]uint8

// CoefBlock is an 8x8 block of signed coefficients in row-major order.
// Index v*8+u holds vertical frequency v and horizontal frequency u.
type CoefBlock [BlockLen]int16

// Sequence is a block's coefficients in zigzag order
type Sequence [BlockLen]int16

// Plane is a single 8-bit channel stored row-major
type Plane struct {
	Width  int
	Height int
	Pix    []byte
}

// NewPlane allocates a zeroed plane
func NewPlane(width, height int) *Plane {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Plane{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height),
	}
}

// Validate checks the plane dimensions against its buffer
func (p *Plane) Validate() error {
	if p == nil || p.Width <= 0 || p.Height <= 0 {
		return ErrInvalidDimensions
	}
	if len(p.Pix) < p.Width*p.Height {
		return fmt.Errorf("%w: have %d samples, need %d", ErrBufferTooSmall, len(p.Pix), p.Width*p.Height)
	}
	return nil
}

// SameSize reports whether two planes have identical dimensions
func (p *Plane) SameSize(o *Plane) bool {
	return p.Width == o.Width && p.Height == o.Height
}

// Clone returns a deep copy of the plane
func (p *Plane) Clone() *Plane {
	c := &Plane{Width: p.Width, Height: p.Height, Pix: make([]byte, len(p.Pix))}
	copy(c.Pix, p.Pix)
	return c
}

// Clamp limits v to [minVal, maxVal]
func Clamp(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// DivCeil returns ceil(a/b) for positive b
func DivCeil(a, b int) int {
	return (a + b - 1) / b
}
