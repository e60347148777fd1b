package transcribe

import (
	"fmt"
	"io"
	"strings"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// Inference configuration passed through to whisper.cpp on every chunk.
// The task is always translate-to-English; the temperature fallback ladder
// and entropy guard are whisper's own low-confidence recovery knobs.
const (
	beamSize            = 3
	temperature         = 0.0
	temperatureFallback = 0.2
	entropyThreshold    = 2.4
)

// whisperInferencer wraps a loaded whisper.cpp model.
type whisperInferencer struct {
	model   whisper.Model
	threads uint
}

// loadWhisper loads the ggml model at modelPath.
func loadWhisper(modelPath string, threads uint) (*whisperInferencer, error) {
	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe: load whisper model: %w", err)
	}
	return &whisperInferencer{model: model, threads: threads}, nil
}

func (w *whisperInferencer) close() error {
	if w.model != nil {
		return w.model.Close()
	}
	return nil
}

// infer runs one whisper pass over a chunk of mono 16kHz samples and
// returns the raw (un-offset) segments.
func (w *whisperInferencer) infer(samples []float32) ([]Segment, error) {
	ctx, err := w.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("transcribe: create context: %w", err)
	}

	// English-only models reject language selection; translate is a no-op
	// there since the output is already English.
	if w.model.IsMultilingual() {
		if err := ctx.SetLanguage("auto"); err != nil {
			return nil, fmt.Errorf("transcribe: set language: %w", err)
		}
		ctx.SetTranslate(true)
	}
	ctx.SetTokenTimestamps(true)
	ctx.SetBeamSize(beamSize)
	ctx.SetTemperature(temperature)
	ctx.SetTemperatureFallback(temperatureFallback)
	ctx.SetEntropyThold(entropyThreshold)
	if w.threads > 0 {
		ctx.SetThreads(w.threads)
	}

	if err := ctx.Process(samples, nil, nil, nil); err != nil {
		return nil, fmt.Errorf("transcribe: process: %w", err)
	}

	var segments []Segment
	for {
		seg, err := ctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("transcribe: next segment: %w", err)
		}
		segments = append(segments, Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}

	return segments, nil
}
