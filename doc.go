// Package watermark embeds and recovers a short byte message in a
// monaural PCM audio stream by modulating the magnitude of a band of
// FFT bins on every frame.
//
// # Basic usage
//
// To embed a message:
//
//	encoded, err := watermark.Encode(samples, 16000, []byte("hello"), 32, 50)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// To recover it from a (possibly noisy) copy:
//
//	msg, diag, err := watermark.Decode(encoded, 16000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(string(msg))
//
// # Scheme
//
// The message is framed as an 8-bit pilot, a 16-bit big-endian length
// header, and the payload bytes MSB-first (see Geometry and
// EncodeBits). Each bit scales the magnitude of one FFT bin in
// [StartBin, StartBin+TotalBits) by a factor above or below 1,
// preserving phase. The decoder has no prior knowledge of the message
// length: it recovers the pilot to find a per-frame amplitude
// threshold and polarity, aggregates scores and votes across frames,
// and only then reads the length header to know how many payload bits
// to decode.
//
// # Scope
//
// This package operates purely on in-memory float32 sample slices. WAV
// encoding/decoding, resampling, and any UI concerns are deliberately
// left to callers; see the wavio subpackage for one such adapter.
//
// # Thread safety
//
// Encode and Decode are pure functions of their arguments: they hold
// no package-level state and are safe to call concurrently.
package watermark
