package watermark

// Fixed constants exposed at the package boundary. Changing any of
// these changes the wire layout of the watermark and breaks
// compatibility with anything already encoded.
const (
	// StartBin is the first FFT bin used to carry watermark bits.
	// Low bins are skipped to keep the watermark out of the most
	// perceptually sensitive, highest-energy part of the spectrum.
	StartBin = 48

	// LengthHeaderBits is the width of the big-endian payload-length
	// field that immediately follows the pilot.
	LengthHeaderBits = 16

	// WindowRadius is how many neighboring bins on each side
	// contribute to a bin's spectral score during decode.
	WindowRadius = 3

	// MaxMsgLen is the largest payload the 16-bit length header can
	// represent.
	MaxMsgLen = 65535

	// pilotBits is the width of the pilot prefix.
	pilotBits = 8
)

// Pilot is the fixed calibration pattern embedded before the length
// header. Its alternating bits give the decoder two well-separated
// amplitude populations to estimate a per-frame threshold from.
var Pilot = [pilotBits]byte{0, 1, 0, 1, 0, 1, 0, 1}

// Decision-rule tuning constants from spec.md §4.5/§9. These were
// arrived at empirically against the reference model's test scenarios
// and are named here, rather than inlined, so they can be recalibrated
// without hunting through the decision logic.
const (
	// lengthHeaderVoteThreshold is the minimum effective vote ratio
	// required (in addition to bitIsOne) to decide a "1" inside the
	// length header. Biased high because a corrupt length header
	// collapses the whole decode.
	lengthHeaderVoteThreshold = 0.54

	// payloadVoteThreshold is the fallback vote-ratio threshold used
	// outside the length header when the score alone is ambiguous.
	payloadVoteThreshold = 0.45

	// softBandFactor scales the pilot band for the soft "leans one"
	// fallback comparison.
	softBandFactor = 0.75

	// confidentZeroBandFactor scales the pilot band for the
	// confident-zero comparison.
	confidentZeroBandFactor = 3.0

	// pilotMatchFloor is the minimum number of the 8 pilot bits (out
	// of 8) that must agree with either polarity for a frame's pilot
	// to be considered usable.
	pilotMatchFloor = 5
)

var allowedSampleRates = map[int]bool{
	8000:  true,
	16000: true,
	32000: true,
}

var allowedFrameMs = map[int]bool{
	20: true,
	32: true,
	64: true,
}

// maxFFTLen is the hard cap on fft_len; sample_rate=32000, frame_ms=64
// yields frame_len=2048, still under this cap, so no currently
// allowed configuration can exceed it. Kept as a named constant so
// deriveShape has somewhere to fail cleanly if that ever changes.
const maxFFTLen = 4096
