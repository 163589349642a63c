package watermark

import (
	"errors"
	"testing"
)

func TestDeriveGeometryShape(t *testing.T) {
	cases := []struct {
		sampleRate, frameMs  int
		wantFrameLen, wantFFT int
	}{
		{16000, 32, 512, 512},
		{8000, 64, 512, 512},
		{8000, 20, 160, 256},
		{32000, 64, 2048, 2048},
	}

	for _, c := range cases {
		g, err := DeriveGeometry(c.sampleRate, c.frameMs, 0)
		if err != nil {
			t.Fatalf("DeriveGeometry(%d, %d, 0): %v", c.sampleRate, c.frameMs, err)
		}
		if g.FrameLen != c.wantFrameLen {
			t.Errorf("FrameLen = %d, want %d", g.FrameLen, c.wantFrameLen)
		}
		if g.FFTLen != c.wantFFT {
			t.Errorf("FFTLen = %d, want %d", g.FFTLen, c.wantFFT)
		}
		if g.SpectrumLen != g.FFTLen/2+1 {
			t.Errorf("SpectrumLen = %d, want %d", g.SpectrumLen, g.FFTLen/2+1)
		}
	}
}

func TestDeriveGeometryRejectsBadInputs(t *testing.T) {
	if _, err := DeriveGeometry(44100, 32, 0); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("sample_rate=44100: got %v, want ErrInvalidSampleRate", err)
	}
	if _, err := DeriveGeometry(16000, 10, 0); !errors.Is(err, ErrInvalidFrameMs) {
		t.Errorf("frame_ms=10: got %v, want ErrInvalidFrameMs", err)
	}
}

func TestDeriveGeometryInsufficientCapacity(t *testing.T) {
	// sample_rate=8000, frame_ms=20 -> frame_len=160, fft_len=256,
	// spectrum_len=129, usable_bins=81 -- too small for a 9-byte
	// message (total_bits = 8+16+72 = 96).
	_, err := DeriveGeometry(8000, 20, 9)
	if !errors.Is(err, ErrInsufficientCapacity) {
		t.Fatalf("got %v, want ErrInsufficientCapacity", err)
	}
	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("error is not a *CapacityError: %v", err)
	}
	if capErr.UsableBins != 81 || capErr.TotalBits != 96 {
		t.Errorf("got usable_bins=%d total_bits=%d, want 81, 96", capErr.UsableBins, capErr.TotalBits)
	}
}

func TestDeriveGeometryEightKHz64ms(t *testing.T) {
	// sample_rate=8000, frame_ms=64 -> frame_len=512, fft_len=512,
	// spectrum_len=257, usable_bins=209, which covers "helloword"
	// (total_bits = 8+16+72 = 96).
	g, err := DeriveGeometry(8000, 64, len("helloword"))
	if err != nil {
		t.Fatalf("DeriveGeometry: %v", err)
	}
	if g.FrameLen != 512 || g.FFTLen != 512 || g.SpectrumLen != 257 || g.UsableBins != 209 {
		t.Fatalf("got frame_len=%d fft_len=%d spectrum_len=%d usable_bins=%d, want 512 512 257 209",
			g.FrameLen, g.FFTLen, g.SpectrumLen, g.UsableBins)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 160: 256, 512: 512, 513: 1024}
	for n, want := range cases {
		if got := nextPowerOfTwo(n); got != want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", n, got, want)
		}
	}
}
