package audio

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// SampleRate is the sample rate every acquired waveform is normalized to.
const SampleRate = 16000

// errUnsupportedWAV marks a structurally valid WAV whose format is not
// directly usable (wrong rate, channel count, or codec). Acquire falls
// back to ffmpeg for these.
var errUnsupportedWAV = errors.New("unsupported wav format")

// readWAV decodes a PCM mono 16kHz WAV file into float32 samples
// normalized to [-1, 1].
func readWAV(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening wav %q: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("reading wav header: %w", err)
	}

	if dec.NumChans != 1 || dec.SampleRate != SampleRate || dec.WavAudioFormat != 1 {
		return nil, fmt.Errorf("%w: %d channels, %d Hz, format %d",
			errUnsupportedWAV, dec.NumChans, dec.SampleRate, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decoding wav %q: %w", path, err)
	}

	bitDepth := dec.BitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float32(int(1) << (bitDepth - 1))

	samples := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = float32(s) / scale
	}
	return samples, nil
}
