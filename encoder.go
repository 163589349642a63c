package watermark

import "github.com/pixeldrift/watermark-go/internal/spectral"

// EncodeDiagnostics mirrors Decode's Diagnostics on the encode side:
// the bit sequence that was embedded, and the first frame's samples
// before and after modulation, for a caller's visualization.
type EncodeDiagnostics struct {
	Bits             []byte
	FirstFrameBefore []float32
	FirstFrameAfter  []float32
}

// Encode embeds message into samples by scaling the magnitude of
// spectrum bins [StartBin, StartBin+TotalBits) of every full frame,
// leaving phase untouched. samples is mono float32 PCM in [-1, 1];
// the result has the same length, sample rate, and encoding. A
// trailing partial frame (len(samples) % frame_len != 0) is copied
// through unchanged.
//
// strengthPercent is clamped to a floor of 15 and a ceiling mapped to
// 0.6 (see encodeStrength) so the watermark stays both decodable and
// perceptually subtle.
//
// This is spec component C4. Once DeriveGeometry accepts the
// configuration, Encode cannot fail.
func Encode(samples []float32, sampleRate int, message []byte, frameMs int, strengthPercent float64) ([]float32, error) {
	out, _, err := encode(samples, sampleRate, message, frameMs, strengthPercent, false)
	return out, err
}

// EncodeWithDiagnostics behaves like Encode but also returns the bit
// sequence and the first frame's before/after samples. The diagnostics
// collection is a handful of extra slice copies on top of the same
// per-frame loop Encode runs, so the hot path taken by Encode itself
// does not pay for it.
func EncodeWithDiagnostics(samples []float32, sampleRate int, message []byte, frameMs int, strengthPercent float64) ([]float32, EncodeDiagnostics, error) {
	return encode(samples, sampleRate, message, frameMs, strengthPercent, true)
}

func encode(samples []float32, sampleRate int, message []byte, frameMs int, strengthPercent float64, wantDiag bool) ([]float32, EncodeDiagnostics, error) {
	if strengthPercent < 0 || strengthPercent > 100 {
		return nil, EncodeDiagnostics{}, ErrInvalidStrength
	}

	g, err := DeriveGeometry(sampleRate, frameMs, len(message))
	if err != nil {
		return nil, EncodeDiagnostics{}, err
	}

	bits, err := EncodeBits(message, g.UsableBins)
	if err != nil {
		return nil, EncodeDiagnostics{}, err
	}

	strength := encodeStrength(strengthPercent)
	codec := spectral.New(g.FrameLen, g.FFTLen)

	out := make([]float32, len(samples))
	numFullFrames := len(samples) / g.FrameLen

	var diag EncodeDiagnostics
	if wantDiag {
		diag.Bits = bits
	}

	for f := 0; f < numFullFrames; f++ {
		start := f * g.FrameLen
		frame := samples[start : start+g.FrameLen]
		if wantDiag && f == 0 {
			diag.FirstFrameBefore = append([]float32(nil), frame...)
		}

		spec := codec.Forward(frame)
		for k, bit := range bits {
			i := StartBin + k
			if i >= len(spec) {
				break
			}
			scale := scaleFor(bit, strength)
			spec[i] = complex(real(spec[i])*scale, imag(spec[i])*scale)
		}

		outFrame := codec.Inverse(spec)
		if wantDiag && f == 0 {
			diag.FirstFrameAfter = append([]float32(nil), outFrame...)
		}
		copy(out[start:start+g.FrameLen], outFrame)
	}

	copy(out[numFullFrames*g.FrameLen:], samples[numFullFrames*g.FrameLen:])
	return out, diag, nil
}

// encodeStrength maps a user-facing strength percentage to the
// multiplicative scale fraction used during embedding. Inputs below
// 15 are promoted to 15 so the watermark never drops below the floor
// that keeps it decodable; the result is then capped at 0.6 so the
// loudest setting still stays perceptually close to the source.
func encodeStrength(strengthPercent float64) float64 {
	s := strengthPercent
	if s < 15 {
		s = 15
	}
	strength := s / 20
	if strength > 0.6 {
		strength = 0.6
	}
	return strength
}

// scaleFor returns the magnitude multiplier for a single watermark
// bit: boost above 1 for "1", attenuate below 1 (never negative) for
// "0".
func scaleFor(bit byte, strength float64) float64 {
	if bit == 1 {
		return 1 + strength
	}
	s := 1 - strength
	if s < 0 {
		s = 0
	}
	return s
}
