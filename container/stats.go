package container

import "github.com/cocosip/go-blockdct-codec/blockdct/pipeline"

// Stats describes how well an image compressed
type Stats struct {
	RawBytes    int
	PackedBytes int
	Channels    int
	Blocks      int
	Tokens      int
}

// Ratio returns RawBytes/PackedBytes, or 0 when nothing was packed
func (s Stats) Ratio() float64 {
	if s.PackedBytes == 0 {
		return 0
	}
	return float64(s.RawBytes) / float64(s.PackedBytes)
}

// BitsPerSample returns the packed size in bits per raw 8-bit sample
func (s Stats) BitsPerSample() float64 {
	if s.RawBytes == 0 {
		return 0
	}
	return float64(s.PackedBytes*8) / float64(s.RawBytes)
}

// TokensPerBlock returns the mean run-length token count per block
func (s Stats) TokensPerBlock() float64 {
	if s.Blocks == 0 {
		return 0
	}
	return float64(s.Tokens) / float64(s.Blocks)
}

// Measure summarises img given its raw sample count and packed size
func Measure(img *pipeline.EncodedImage, rawBytes, packedBytes int) Stats {
	s := Stats{RawBytes: rawBytes, PackedBytes: packedBytes}
	if img == nil {
		return s
	}
	s.Channels = len(img.Channels)
	for _, ch := range img.Channels {
		if ch == nil {
			continue
		}
		s.Blocks += len(ch.Blocks)
		for _, tokens := range ch.Blocks {
			s.Tokens += len(tokens)
		}
	}
	return s
}
