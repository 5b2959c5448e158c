package pipeline

import (
	"bytes"
	"errors"
	"testing"

	"github.com/cocosip/go-blockdct-codec/blockdct/common"
	codecHelpers "github.com/cocosip/go-blockdct-codec/codec"
	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"
)

func TestSplitMergeSamples(t *testing.T) {
	// 2x2 RGB, interleaved
	interleaved := []byte{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	}
	planes, err := SplitSamples(interleaved, 2, 2, 3, false)
	if err != nil {
		t.Fatalf("SplitSamples failed: %v", err)
	}
	wantR := []byte{1, 4, 7, 10}
	if !bytes.Equal(planes[0].Pix, wantR) {
		t.Errorf("red plane = %v, want %v", planes[0].Pix, wantR)
	}

	back, err := MergeSamples(planes, false)
	if err != nil {
		t.Fatalf("MergeSamples failed: %v", err)
	}
	if !bytes.Equal(back, interleaved) {
		t.Errorf("interleaved round trip = %v, want %v", back, interleaved)
	}

	planar, err := MergeSamples(planes, true)
	if err != nil {
		t.Fatalf("MergeSamples(planar) failed: %v", err)
	}
	wantPlanar := []byte{1, 4, 7, 10, 2, 5, 8, 11, 3, 6, 9, 12}
	if !bytes.Equal(planar, wantPlanar) {
		t.Errorf("planar = %v, want %v", planar, wantPlanar)
	}

	if _, err := SplitSamples(interleaved[:5], 2, 2, 3, false); !errors.Is(err, common.ErrBufferTooSmall) {
		t.Errorf("short data: err = %v, want ErrBufferTooSmall", err)
	}
	if _, err := MergeSamples([]*common.Plane{common.NewPlane(2, 2), common.NewPlane(2, 3)}, false); !errors.Is(err, common.ErrDimensionMismatch) {
		t.Errorf("mixed sizes: err = %v, want ErrDimensionMismatch", err)
	}
}

func TestFrameAdapters(t *testing.T) {
	newInfo := func(samples, planar int) *imagetypes.FrameInfo {
		info := &imagetypes.FrameInfo{
			Width:                     12,
			Height:                    9,
			BitsAllocated:             8,
			BitsStored:                8,
			HighBit:                   7,
			SamplesPerPixel:           1,
			PhotometricInterpretation: "MONOCHROME2",
		}
		if samples == 3 {
			info.SamplesPerPixel = 3
			info.PhotometricInterpretation = "RGB"
		}
		if planar != 0 {
			info.PlanarConfiguration = 1
		}
		return info
	}

	tests := []struct {
		name    string
		samples int
		planar  int
	}{
		{"monochrome", 1, 0},
		{"rgb interleaved", 3, 0},
		{"rgb planar", 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frameInfo := newInfo(tt.samples, tt.planar)
			frame := make([]byte, 12*9*tt.samples)
			for i := range frame {
				frame[i] = byte(i * 7)
			}
			src := codecHelpers.NewPixelData(frameInfo)
			if err := src.AddFrame(frame); err != nil {
				t.Fatalf("AddFrame failed: %v", err)
			}

			planes, err := PlanesFromFrame(src, 0)
			if err != nil {
				t.Fatalf("PlanesFromFrame failed: %v", err)
			}
			if len(planes) != tt.samples {
				t.Fatalf("got %d planes, want %d", len(planes), tt.samples)
			}

			dst := codecHelpers.NewPixelData(frameInfo)
			if err := AppendFrame(dst, planes, tt.planar != 0); err != nil {
				t.Fatalf("AppendFrame failed: %v", err)
			}
			got, err := dst.GetFrame(0)
			if err != nil {
				t.Fatalf("GetFrame failed: %v", err)
			}
			if !bytes.Equal(got, frame) {
				t.Error("frame changed across PlanesFromFrame/AppendFrame")
			}

			if _, err := PlanesFromFrame(src, 1); err == nil {
				t.Error("PlanesFromFrame(1) succeeded on a single-frame source")
			}
		})
	}
}

func TestPlanesFromFrameRejects16Bit(t *testing.T) {
	src := codecHelpers.NewPixelData(&imagetypes.FrameInfo{
		Width: 4, Height: 4, BitsAllocated: 16, BitsStored: 12, HighBit: 11, SamplesPerPixel: 1,
	})
	if err := src.AddFrame(make([]byte, 32)); err != nil {
		t.Fatalf("AddFrame failed: %v", err)
	}
	if _, err := PlanesFromFrame(src, 0); err == nil {
		t.Error("PlanesFromFrame accepted 16-bit data")
	}
}
