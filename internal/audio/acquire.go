// Package audio produces mono 16kHz float32 waveforms for transcription,
// either from local media files or from the default microphone.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Acquirer loads media files and normalizes them to mono 16kHz samples.
// WAV files already in that format are decoded in-process; everything
// else goes through ffmpeg.
type Acquirer struct {
	// FFmpegPath overrides the ffmpeg binary. Empty means look up
	// "ffmpeg" on PATH.
	FFmpegPath string
}

// Acquire reads the media file at path and returns its samples. A
// temporary conversion file, if one is needed, is removed before Acquire
// returns.
func (a *Acquirer) Acquire(ctx context.Context, path string) ([]float32, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading input %q: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".wav") {
		samples, err := readWAV(path)
		if err == nil {
			return samples, nil
		}
		if !errors.Is(err, errUnsupportedWAV) {
			return nil, err
		}
		// Wrong rate, channel count, or codec: let ffmpeg resample it.
	}

	tmpDir, err := os.MkdirTemp("", "transcribe-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	wavPath := filepath.Join(tmpDir, "audio.wav")
	if err := a.convert(ctx, path, wavPath); err != nil {
		return nil, err
	}

	return readWAV(wavPath)
}
