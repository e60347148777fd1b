// Command transcribe-gui is the desktop front end for the transcription
// pipeline.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/lmittmann/tint"

	"github.com/transcribe-app/transcribe/internal/audio"
	"github.com/transcribe-app/transcribe/internal/config"
	"github.com/transcribe-app/transcribe/internal/gui"
	"github.com/transcribe-app/transcribe/internal/run"
	"github.com/transcribe-app/transcribe/internal/transcribe"
)

func main() {
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: config.ParseLogLevel(cfg.LogLevel),
	})))

	if cfg.Threads > 0 {
		os.Setenv("OMP_NUM_THREADS", strconv.Itoa(int(cfg.Threads)))
	}

	modelPath := cfg.ModelPath(cfg.Model)
	if _, err := os.Stat(modelPath); err != nil {
		// The engine loads lazily; a missing model surfaces as a run
		// failure dialog, so the window still opens.
		slog.Warn("model not found, transcription will fail until it is downloaded",
			"path", modelPath, "hint", "transcribe models download -m "+cfg.Model)
	}

	engine := transcribe.NewEngine(modelPath, cfg.Threads)
	defer engine.Close()

	coord := run.NewCoordinator(&audio.Acquirer{FFmpegPath: cfg.FFmpegPath}, engine)
	gui.New(coord).Run()
}
