package codec

// Codec is implemented by every registered image codec
type Codec interface {
	// Encode compresses raw pixel data
	Encode(params EncodeParams) ([]byte, error)

	// Decode expands data produced by Encode
	Decode(data []byte) (*DecodeResult, error)

	// UID returns the codec's unique identifier (an OID)
	UID() string

	// Name returns a human-readable name
	Name() string
}

// EncodeParams contains parameters for encoding
type EncodeParams struct {
	PixelData  []byte  // Raw pixel data
	Width      int     // Image width
	Height     int     // Image height
	Components int     // Number of color components (1=grayscale, 3=color)
	BitDepth   int     // Bits per sample
	Planar     bool    // Components stored as separate planes rather than interleaved
	Options    Options // Codec-specific options
}

// Options is an interface for codec-specific encoding options
type Options interface {
	// Validate checks if the options are valid
	Validate() error
}

// DecodeResult contains the result of decoding. Pixel data is always
// component-interleaved.
type DecodeResult struct {
	PixelData  []byte // Decoded pixel data
	Width      int    // Image width
	Height     int    // Image height
	Components int    // Number of color components
	BitDepth   int    // Bits per sample
}

// BaseOptions provides options shared by lossy codecs
type BaseOptions struct {
	// Quality factor (1-100, higher is better). 0 selects the codec default.
	Quality int
}

// Validate validates base options
func (o *BaseOptions) Validate() error {
	if o.Quality < 0 || o.Quality > 100 {
		return ErrInvalidQuality
	}
	return nil
}
