// Package spectral wraps a real-FFT backend behind a narrow interface
// so the watermark codec's forward/inverse spectral transform can be
// swapped out without leaking complex128 types into the public API.
package spectral

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Codec performs the forward and inverse real FFT for one fixed frame
// geometry. A Codec is stateless beyond its sizes and safe for
// concurrent use.
type Codec struct {
	// FrameLen is the number of real samples per frame.
	FrameLen int
	// FFTLen is the FFT size frames are zero-padded to; a power of
	// two.
	FFTLen int
	// SpectrumLen is FFTLen/2 + 1, the width of the non-redundant
	// half-spectrum Forward returns.
	SpectrumLen int
}

// New builds a Codec for the given frame and FFT lengths. Callers
// derive these from Geometry rather than computing them independently.
func New(frameLen, fftLen int) *Codec {
	return &Codec{
		FrameLen:    frameLen,
		FFTLen:      fftLen,
		SpectrumLen: fftLen/2 + 1,
	}
}

// Forward zero-pads frame to FFTLen (if shorter) and returns the
// non-redundant half of its complex spectrum, length SpectrumLen. Bin
// 0 and bin FFTLen/2 carry only a real part.
func (c *Codec) Forward(frame []float32) []complex128 {
	buf := make([]float64, c.FFTLen)
	n := len(frame)
	if n > c.FFTLen {
		n = c.FFTLen
	}
	for i := 0; i < n; i++ {
		buf[i] = float64(frame[i])
	}

	full := fft.FFTReal(buf)
	return full[:c.SpectrumLen]
}

// Inverse reconstructs the full FFTLen spectrum from its non-redundant
// half via Hermitian symmetry, inverse-transforms it, and returns the
// real result truncated to FrameLen samples.
//
// inverse(forward(x)) recovers x within FFT numerical tolerance,
// relying on go-dsp's IFFT normalizing by FFTLen internally.
func (c *Codec) Inverse(spectrum []complex128) []float32 {
	full := make([]complex128, c.FFTLen)
	copy(full, spectrum[:c.SpectrumLen])
	for k := 1; k < c.FFTLen/2; k++ {
		full[c.FFTLen-k] = cmplx.Conj(spectrum[k])
	}

	timeDomain := fft.IFFT(full)

	out := make([]float32, c.FrameLen)
	for i := 0; i < c.FrameLen && i < len(timeDomain); i++ {
		out[i] = float32(real(timeDomain[i]))
	}
	return out
}
