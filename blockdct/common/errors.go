package common

import "errors"

// Common errors
var (
	ErrInvalidDimensions  = errors.New("invalid plane dimensions")
	ErrBufferTooSmall     = errors.New("buffer too small")
	ErrDimensionMismatch  = errors.New("dimension mismatch")
	ErrMalformedRunLength = errors.New("malformed run-length stream")
	ErrInvalidPrecision   = errors.New("invalid transform precision")
	ErrInvalidQuantTable  = errors.New("invalid quantization table")
	ErrInvalidQuality     = errors.New("invalid quality factor")
)
