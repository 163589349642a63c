// Package wavio adapts between WAV files and the mono float32 PCM
// buffers the watermark codec operates on. It leans on go-audio's WAV
// decoder/encoder for container handling rather than hand-parsing
// RIFF chunks, since that container format sits entirely outside the
// codec's concern.
package wavio

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const bitDepth = 16

// Read decodes a PCM WAV stream into float32 samples in [-1, 1] and
// reports its sample rate. Multi-channel input is down-mixed to mono
// by averaging channels, since the codec only operates on mono audio.
func Read(r io.ReadSeeker) ([]float32, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("wavio: not a valid WAV file")
	}

	dec.ReadInfo()
	format := dec.Format()
	if format == nil {
		return nil, 0, fmt.Errorf("wavio: missing fmt chunk")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("wavio: read PCM: %w", err)
	}

	channels := format.NumChannels
	if channels < 1 {
		channels = 1
	}

	frames := len(buf.Data) / channels
	samples := make([]float32, frames)
	scale := float32(int(1) << (dec.BitDepth - 1))

	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += float32(buf.Data[i*channels+c])
		}
		samples[i] = sum / float32(channels) / scale
	}

	return samples, int(dec.SampleRate), nil
}

// Write encodes mono float32 samples in [-1, 1] to a 16-bit PCM WAV
// stream at sampleRate. Values outside [-1, 1] are clamped rather than
// wrapped.
func Write(w io.WriteSeeker, samples []float32, sampleRate int) error {
	encoder := wav.NewEncoder(w, sampleRate, bitDepth, 1, 1)

	const max16 = 1<<15 - 1
	data := make([]int, len(samples))
	for i, s := range samples {
		v := int(s * float32(max16))
		if v > max16 {
			v = max16
		}
		if v < -max16-1 {
			v = -max16 - 1
		}
		data[i] = v
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:   data,
	}

	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("wavio: write PCM: %w", err)
	}
	return encoder.Close()
}
