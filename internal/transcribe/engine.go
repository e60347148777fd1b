// Package transcribe turns mono 16kHz audio into timestamped English text
// using whisper.cpp. Long recordings are split into bounded chunks, each
// chunk is inferred independently, and the per-chunk segments are merged
// back into one time-ordered result.
package transcribe

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// SampleRate is the sample rate whisper.cpp expects.
	SampleRate = 16000

	// ChunkDuration bounds how much audio a single inference pass sees.
	// Chunks are contiguous, non-overlapping, and not aligned to silence,
	// so accuracy right at a chunk seam is not guaranteed.
	ChunkDuration = 24 * time.Minute
)

// Segment is one unit of transcribed text with its time offsets
// relative to the start of the input.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Result is the merged transcription of one input.
type Result struct {
	Text     string
	Segments []Segment
}

// InferenceError reports a model failure during transcription.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// inferencer runs one inference pass over a bounded chunk of samples.
type inferencer interface {
	infer(samples []float32) ([]Segment, error)
	close() error
}

// newInferencer is swapped out in tests.
var newInferencer = func(modelPath string, threads uint) (inferencer, error) {
	return loadWhisper(modelPath, threads)
}

// Engine owns a lazily-loaded whisper model. The model is loaded on the
// first Transcribe call and retained for the lifetime of the engine, so
// repeated runs pay the multi-second load cost only once.
type Engine struct {
	modelPath string
	threads   uint

	mu           sync.Mutex
	inf          inferencer
	chunkSamples int
}

// NewEngine creates an engine for the given model file. The model is not
// loaded until the first Transcribe call. threads == 0 leaves the thread
// count to whisper.cpp.
func NewEngine(modelPath string, threads uint) *Engine {
	return &Engine{
		modelPath:    modelPath,
		threads:      threads,
		chunkSamples: int(ChunkDuration/time.Second) * SampleRate,
	}
}

// Close releases the loaded model, if any.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inf == nil {
		return nil
	}
	err := e.inf.close()
	e.inf = nil
	return err
}

// Transcribe converts mono 16kHz samples into a merged, time-ordered
// Result. Inputs longer than ChunkDuration are processed as independent
// fixed-size chunks in sequence; segment timestamps from chunk i are
// shifted by i times ChunkDuration before merging. Any chunk failure
// aborts the whole run.
func (e *Engine) Transcribe(ctx context.Context, samples []float32) (*Result, error) {
	inf, err := e.inferencer()
	if err != nil {
		return nil, err
	}

	chunks := splitChunks(samples, e.chunkSamples)

	res := &Result{}
	var parts []string
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		segs, err := inf.infer(chunk)
		if err != nil {
			return nil, &InferenceError{Err: fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)}
		}

		offset := time.Duration(i) * ChunkDuration
		for _, s := range segs {
			s.Start += offset
			s.End += offset
			res.Segments = append(res.Segments, s)
		}
		if text := joinSegments(segs); text != "" {
			parts = append(parts, text)
		}
	}

	res.Text = strings.Join(parts, " ")
	return res, nil
}

// inferencer returns the loaded model, loading it on first use.
func (e *Engine) inferencer() (inferencer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inf != nil {
		return e.inf, nil
	}

	inf, err := newInferencer(e.modelPath, e.threads)
	if err != nil {
		return nil, fmt.Errorf("loading model %q: %w", e.modelPath, err)
	}
	e.inf = inf
	return e.inf, nil
}

// splitChunks slices samples into contiguous chunks of at most size
// samples. The final chunk may be shorter. An empty input yields a single
// empty chunk so the model still sees one inference call.
func splitChunks(samples []float32, size int) [][]float32 {
	if len(samples) <= size {
		return [][]float32{samples}
	}

	var chunks [][]float32
	for start := 0; start < len(samples); start += size {
		end := min(start+size, len(samples))
		chunks = append(chunks, samples[start:end])
	}
	return chunks
}

// joinSegments concatenates segment texts with single spaces.
func joinSegments(segs []Segment) string {
	var parts []string
	for _, s := range segs {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
