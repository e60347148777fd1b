// Package run sequences acquisition, transcription, formatting, and the
// final file write, and reports progress to the interface layer.
package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/transcribe-app/transcribe/internal/transcribe"
)

// Sentinel errors for failures detected before any work starts.
var (
	ErrInputNotFound     = errors.New("input file not found")
	ErrOutputNotWritable = errors.New("output path not writable")
	ErrRunActive         = errors.New("a transcription run is already active")
)

// State describes where a run currently is.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Status is one progress update from a run. OutputPath is set on
// StateComplete, Err on StateFailed.
type Status struct {
	State      State
	Message    string
	OutputPath string
	Err        error
}

// Acquirer produces a mono 16kHz waveform from a media file.
type Acquirer interface {
	Acquire(ctx context.Context, path string) ([]float32, error)
}

// Transcriber converts a waveform into a merged transcription result.
type Transcriber interface {
	Transcribe(ctx context.Context, samples []float32) (*transcribe.Result, error)
}

// Coordinator drives the transcription pipeline. At most one asynchronous
// run is active at a time; a Start while one is running is rejected, not
// queued.
type Coordinator struct {
	acquirer Acquirer
	engine   Transcriber

	events chan Status

	mu     sync.Mutex
	active bool
}

// NewCoordinator wires an acquirer and an engine into a coordinator.
func NewCoordinator(a Acquirer, t Transcriber) *Coordinator {
	return &Coordinator{
		acquirer: a,
		engine:   t,
		events:   make(chan Status, 16),
	}
}

// Events returns the status channel. Updates arrive in the order they
// were produced; only one worker runs at a time, so no interleaving is
// possible.
func (c *Coordinator) Events() <-chan Status {
	return c.events
}

// Active reports whether a run is currently in progress.
func (c *Coordinator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// ValidateInput checks that the input file exists and is readable.
func ValidateInput(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	return nil
}

// ValidateOutput checks that the output file can be created or
// overwritten, creating parent directories as needed. A probe file
// created during the check is removed again; an existing output file is
// left untouched.
func ValidateOutput(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputNotWritable, err)
	}

	if _, err := os.Stat(path); err == nil {
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrOutputNotWritable, err)
		}
		return f.Close()
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutputNotWritable, err)
	}
	f.Close()
	os.Remove(path)
	return nil
}

// Run drives the full pipeline synchronously. This is the CLI path.
func (c *Coordinator) Run(ctx context.Context, input, output string) error {
	if err := ValidateInput(input); err != nil {
		return err
	}
	if err := ValidateOutput(output); err != nil {
		return err
	}
	return c.execute(ctx, input, output, func(string) {})
}

// Start validates both paths synchronously, then launches the pipeline
// on a single background worker. Progress is reported on Events.
// Returns ErrRunActive when a run is already in progress.
func (c *Coordinator) Start(input, output string) error {
	if err := ValidateInput(input); err != nil {
		return err
	}
	if err := ValidateOutput(output); err != nil {
		return err
	}

	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return ErrRunActive
	}
	c.active = true
	c.mu.Unlock()

	go func() {
		err := c.execute(context.Background(), input, output, func(msg string) {
			c.emit(Status{State: StateRunning, Message: msg})
		})

		c.mu.Lock()
		c.active = false
		c.mu.Unlock()

		if err != nil {
			c.emit(Status{State: StateFailed, Message: "Transcription failed", Err: err})
			return
		}
		c.emit(Status{State: StateComplete, Message: "Saved to " + output, OutputPath: output})
	}()

	return nil
}

// execute runs acquire -> transcribe -> render -> write. Nothing is
// written unless the whole pipeline succeeded.
func (c *Coordinator) execute(ctx context.Context, input, output string, progress func(string)) error {
	progress("Extracting audio...")
	slog.Info("acquiring audio", "input", input)

	samples, err := c.acquirer.Acquire(ctx, input)
	if err != nil {
		return fmt.Errorf("acquiring audio: %w", err)
	}

	seconds := float64(len(samples)) / transcribe.SampleRate
	slog.Info("audio ready", "seconds", fmt.Sprintf("%.1f", seconds))
	progress("Transcribing... this may take a while")

	res, err := c.engine.Transcribe(ctx, samples)
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, []byte(transcribe.Render(res)), 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputNotWritable, err)
	}

	slog.Info("transcript written", "output", output, "segments", len(res.Segments))
	return nil
}

func (c *Coordinator) emit(st Status) {
	c.events <- st
}
