package watermark

import (
	"math"

	"github.com/pixeldrift/watermark-go/internal/spectral"
)

// Diagnostics carries everything a caller might want to inspect about
// a decode attempt beyond the recovered message: the decided bits,
// their aggregated scores and vote ratios, the global pilot
// statistics, and the first frame's raw samples for visualization.
//
// A Diagnostics value is populated as far as decoding got, even when
// Decode returns an error; callers should not assume its slices are
// fully sized until err is nil.
type Diagnostics struct {
	Bits       []byte
	Scores     []float64
	Votes      []float64
	Threshold  float64
	AvgHigh    float64
	AvgLow     float64
	Inverted   bool
	FirstFrame []float32
}

// candidateFrameMs lists the frame durations Decode tries, in order,
// since the decode entry point is not given frame_ms: the caller
// knows how it encoded, but the wire itself carries no frame-duration
// marker. Shortest first keeps the common case cheap.
var candidateFrameMs = []int{20, 32, 64}

// Decode recovers a message embedded by Encode from samples, a mono
// float32 PCM stream at sampleRate. It does not need frame_ms: it
// tries every allowed frame duration and returns the first one whose
// pilot locks and whose length header is self-consistent.
//
// This is spec component C5.
func Decode(samples []float32, sampleRate int) ([]byte, Diagnostics, error) {
	if !allowedSampleRates[sampleRate] {
		return nil, Diagnostics{}, ErrInvalidSampleRate
	}

	var lastDiag Diagnostics
	var lastErr error
	for _, frameMs := range candidateFrameMs {
		msg, diag, err := decodeWithFrameMs(samples, sampleRate, frameMs)
		if err == nil {
			return msg, diag, nil
		}
		lastDiag, lastErr = diag, err
	}
	return nil, lastDiag, lastErr
}

func decodeWithFrameMs(samples []float32, sampleRate, frameMs int) ([]byte, Diagnostics, error) {
	shape, err := deriveShape(sampleRate, frameMs)
	if err != nil {
		return nil, Diagnostics{}, err
	}
	if shape.SpectrumLen < StartBin+1 || shape.UsableBins <= 0 {
		return nil, Diagnostics{}, ErrInsufficientBins
	}

	numFrames := len(samples) / shape.FrameLen
	if numFrames == 0 {
		return nil, Diagnostics{}, ErrTruncated
	}

	codec := spectral.New(shape.FrameLen, shape.FFTLen)
	acc := newAccumulator(shape.UsableBins)

	var firstFrame []float32
	for f := 0; f < numFrames; f++ {
		start := f * shape.FrameLen
		frame := samples[start : start+shape.FrameLen]
		if f == 0 {
			firstFrame = append([]float32(nil), frame...)
		}

		spec := codec.Forward(frame)
		scores := scoreFrame(spec, shape.UsableBins)

		pilot, ok := analyzePilot(scores)
		if !ok {
			continue
		}
		acc.addFrame(scores, pilot)
	}

	agg := acc.finalize()
	diag := Diagnostics{
		Scores:     agg.avgScore,
		Votes:      effectiveRatios(agg),
		Threshold:  agg.threshold,
		AvgHigh:    agg.avgHigh,
		AvgLow:     agg.avgLow,
		Inverted:   agg.inverted,
		FirstFrame: firstFrame,
	}
	if agg.acceptedFrames == 0 {
		return nil, diag, ErrNoPilot
	}

	allBits := make([]byte, shape.UsableBins)
	for k := 0; k < shape.UsableBins; k++ {
		allBits[k] = decideBit(k, agg)
	}
	diag.Bits = allBits

	for i := 0; i < pilotBits; i++ {
		if allBits[i] != Pilot[i] {
			return nil, diag, ErrNoPilot
		}
	}

	var length uint16
	for i := 0; i < LengthHeaderBits; i++ {
		length = (length << 1) | uint16(allBits[pilotBits+i])
	}
	l := int(length)

	maxLen := (shape.UsableBins - pilotBits - LengthHeaderBits) / 8
	if l > maxLen {
		return nil, diag, ErrInvalidLength
	}

	neededBits := pilotBits + LengthHeaderBits + 8*l
	diag.Bits = allBits[:neededBits]

	msg, err := DecodeBits(allBits[:neededBits], false)
	if err != nil {
		return nil, diag, err
	}
	return msg, diag, nil
}

// scoreFrame computes the spectral score for every candidate bit
// position k in [0, usableBins), per spec component C5 step 3: the
// energy of bin start_bin+k plus a falling-off contribution from its
// WindowRadius neighbors on each side.
func scoreFrame(spec []complex128, usableBins int) []float64 {
	scores := make([]float64, usableBins)
	for k := 0; k < usableBins; k++ {
		i := StartBin + k
		score := magnitudeSquared(spec[i])
		for d := 1; d <= WindowRadius; d++ {
			w := neighborWeight(d)
			if i-d >= 0 {
				score += w * magnitudeSquared(spec[i-d])
			}
			if i+d < len(spec) {
				score += w * magnitudeSquared(spec[i+d])
			}
		}
		scores[k] = score
	}
	return scores
}

// neighborWeight is the monotonically-decreasing positive weighting
// spec section 9 leaves implementation-free: each neighbor at
// distance d contributes less than the one before it. The falloff is
// steep so a neighbor bin's own (independent) watermark bit barely
// perturbs this bin's score.
func neighborWeight(d int) float64 {
	return math.Pow(0.1, float64(d))
}

func magnitudeSquared(c complex128) float64 {
	re, im := real(c), imag(c)
	return re*re + im*im
}

// effectiveRatio is the vote ratio for bit position k read under the
// aggregate's majority polarity: the raw ratio when not inverted, or
// its complement when it is, per spec component C5 step 6.
func effectiveRatio(k int, agg aggregate) float64 {
	if agg.inverted {
		return 1 - agg.voteRatio[k]
	}
	return agg.voteRatio[k]
}

// effectiveRatios computes effectiveRatio for every bit position; this
// is what Diagnostics.Votes reports, per spec.md §6 ("votes (per-bit
// effective_ratio)").
func effectiveRatios(agg aggregate) []float64 {
	ratios := make([]float64, len(agg.voteRatio))
	for k := range ratios {
		ratios[k] = effectiveRatio(k, agg)
	}
	return ratios
}

// decideBit applies the per-position decision rule of spec component
// C5 step 6 to bit position k, using the finalized cross-frame
// aggregate. Positions in the length-header region are biased toward
// 0 under uncertainty, since a corrupt header invalidates the whole
// message.
func decideBit(k int, agg aggregate) byte {
	threshold := agg.threshold
	band := 0.1 * math.Abs(agg.avgHigh-agg.avgLow)
	inv := agg.inverted

	avgScore := agg.avgScore[k]
	ratio := effectiveRatio(k, agg)

	bitIsOne := avgScore >= threshold
	bitIsZero := avgScore <= threshold-confidentZeroBandFactor*band
	softOne := avgScore >= threshold-softBandFactor*band
	if inv {
		bitIsOne = avgScore <= threshold
		bitIsZero = avgScore >= threshold+confidentZeroBandFactor*band
		softOne = avgScore <= threshold+softBandFactor*band
	}

	if k >= pilotBits && k < pilotBits+LengthHeaderBits {
		if ratio >= lengthHeaderVoteThreshold && bitIsOne {
			return 1
		}
		return 0
	}

	if bitIsOne {
		return 1
	}
	if bitIsZero {
		return 0
	}
	if ratio >= payloadVoteThreshold || softOne {
		return 1
	}
	return 0
}
