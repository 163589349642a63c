package watermark

import (
	"fmt"
	"math"
)

// Geometry is the immutable set of dimensions derived from a
// (sample_rate, frame_ms[, msg_len]) configuration. All frame
// partitioning, FFT sizing, and bit-capacity decisions flow from one
// of these.
type Geometry struct {
	SampleRate int
	FrameMs    int

	// FrameLen is the number of PCM samples per frame.
	FrameLen int
	// FFTLen is the smallest power of two >= FrameLen; deriveShape
	// rejects a configuration whose FFTLen would exceed maxFFTLen.
	FFTLen int
	// SpectrumLen is FFTLen/2 + 1, the number of bins in the
	// non-redundant half of a real-to-complex FFT.
	SpectrumLen int
	// UsableBins is the number of spectrum bins at or after StartBin.
	UsableBins int

	// MsgLen and TotalBits are only populated once a message length
	// is known; see DeriveGeometry.
	MsgLen    int
	TotalBits int
}

// frameLenSamples computes round(sample_rate * frame_ms / 1000).
func frameLenSamples(sampleRate, frameMs int) int {
	return int(math.Round(float64(sampleRate) * float64(frameMs) / 1000.0))
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// deriveShape computes the sample-rate/frame-duration-dependent part
// of a Geometry, independent of any message length. It is what the
// decoder uses before it knows how long the payload is.
func deriveShape(sampleRate, frameMs int) (Geometry, error) {
	if !allowedSampleRates[sampleRate] {
		return Geometry{}, ErrInvalidSampleRate
	}
	if !allowedFrameMs[frameMs] {
		return Geometry{}, ErrInvalidFrameMs
	}

	frameLen := frameLenSamples(sampleRate, frameMs)
	fftLen := nextPowerOfTwo(frameLen)
	if fftLen > maxFFTLen {
		return Geometry{}, fmt.Errorf("watermark: frame length %d (fft_len %d) exceeds the %d-sample FFT cap", frameLen, fftLen, maxFFTLen)
	}

	spectrumLen := fftLen/2 + 1
	usableBins := spectrumLen - StartBin
	if usableBins < 0 {
		usableBins = 0
	}

	return Geometry{
		SampleRate:  sampleRate,
		FrameMs:     frameMs,
		FrameLen:    frameLen,
		FFTLen:      fftLen,
		SpectrumLen: spectrumLen,
		UsableBins:  usableBins,
	}, nil
}

// DeriveGeometry derives a complete Geometry for a message of msgLen
// bytes, validating that the spectrum has enough usable bins to carry
// it. This is spec operation C1.derive.
func DeriveGeometry(sampleRate, frameMs, msgLen int) (Geometry, error) {
	g, err := deriveShape(sampleRate, frameMs)
	if err != nil {
		return Geometry{}, err
	}

	g.MsgLen = msgLen
	g.TotalBits = pilotBits + LengthHeaderBits + 8*msgLen

	if g.SpectrumLen < StartBin+1 || g.UsableBins < g.TotalBits {
		return g, newCapacityError(ErrInsufficientCapacity, g.UsableBins, g.TotalBits)
	}

	return g, nil
}
