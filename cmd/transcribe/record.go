package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/transcribe-app/transcribe/internal/audio"
	"github.com/transcribe-app/transcribe/internal/run"
	"github.com/transcribe-app/transcribe/internal/transcribe"
)

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record from the default microphone and transcribe the capture",
		Args:  cobra.NoArgs,
		RunE:  runRecord,
	}
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "",
		"output text file (default: recording-<timestamp>.txt)")
	return cmd
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	if cfg.Audio.SampleRate != transcribe.SampleRate {
		return fmt.Errorf("audio.sample_rate must be %d for transcription, got %d",
			transcribe.SampleRate, cfg.Audio.SampleRate)
	}

	modelPath, err := resolveModel(cfg)
	if err != nil {
		return err
	}

	output := flagOutput
	if output == "" {
		output = "recording-" + time.Now().Format("20060102-150405") + ".txt"
	}
	if err := run.ValidateOutput(output); err != nil {
		return err
	}

	rec, err := audio.NewRecorder(cfg.Audio.SampleRate, cfg.Audio.Channels)
	if err != nil {
		return fmt.Errorf("initializing recorder: %w", err)
	}
	defer rec.Close()

	if err := rec.Start(); err != nil {
		return fmt.Errorf("starting capture: %w", err)
	}

	fmt.Println("Recording... press Ctrl+C to stop.")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	samples := rec.Stop()
	if len(samples) == 0 {
		return fmt.Errorf("no audio captured")
	}
	slog.Info("captured audio", "seconds", fmt.Sprintf("%.1f", float64(len(samples))/transcribe.SampleRate))

	engine := transcribe.NewEngine(modelPath, cfg.Threads)
	defer engine.Close()

	res, err := engine.Transcribe(cmd.Context(), samples)
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, []byte(transcribe.Render(res)), 0644); err != nil {
		return fmt.Errorf("writing transcript: %w", err)
	}

	slog.Info("transcript saved", "output", output)
	return nil
}
