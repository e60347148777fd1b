// Command transcribe converts audio/video files into timestamped English
// transcripts from the command line.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/transcribe-app/transcribe/internal/audio"
	"github.com/transcribe-app/transcribe/internal/config"
	"github.com/transcribe-app/transcribe/internal/models"
	"github.com/transcribe-app/transcribe/internal/run"
	"github.com/transcribe-app/transcribe/internal/transcribe"
)

var (
	flagConfig string
	flagModel  string
	flagOutput string
	flagQuiet  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "transcribe <input-file>",
		Short: "Transcribe audio/video files into timestamped English text",
		Long: `Transcribe converts a local audio or video file into a plain-text
transcript with one [HH:MM:SS] timestamped line per segment. All speech
is translated to English.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runTranscribe,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "",
		"path to config file (default: ~/.config/transcribe/config.yaml)")
	root.PersistentFlags().StringVarP(&flagModel, "model", "m", "",
		"whisper model size (tiny|base|small|medium|large)")
	root.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false,
		"only log errors")
	root.Flags().StringVarP(&flagOutput, "output", "o", "",
		"output text file (default: input name with .txt)")

	root.AddCommand(newModelsCmd(), newRecordCmd())
	return root
}

// setup loads config, applies flag overrides, and configures logging.
func setup() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flagConfig != "" {
		cfg, err = config.Load(flagConfig)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	if flagModel != "" {
		cfg.Model = flagModel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := config.ParseLogLevel(cfg.LogLevel)
	if flagQuiet {
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level})))

	// Keep whisper's math libraries on the same thread budget as the
	// inference itself.
	if cfg.Threads > 0 {
		os.Setenv("OMP_NUM_THREADS", strconv.Itoa(int(cfg.Threads)))
	}

	return cfg, nil
}

// resolveModel returns the on-disk model path, with a download hint when
// the file is missing.
func resolveModel(cfg *config.Config) (string, error) {
	path := cfg.ModelPath(cfg.Model)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("model %q not found at %s (run 'transcribe models download -m %s' first)",
			cfg.Model, path, cfg.Model)
	}
	return path, nil
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	input := args[0]
	output := flagOutput
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".txt"
	}

	modelPath, err := resolveModel(cfg)
	if err != nil {
		return err
	}

	slog.Info("starting transcription", "input", input, "model", cfg.Model, "output", output)

	engine := transcribe.NewEngine(modelPath, cfg.Threads)
	defer engine.Close()

	coord := run.NewCoordinator(&audio.Acquirer{FFmpegPath: cfg.FFmpegPath}, engine)
	if err := coord.Run(cmd.Context(), input, output); err != nil {
		return err
	}

	slog.Info("transcript saved", "output", output)
	return nil
}

func newModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage whisper model files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "download",
		Short: "Download a whisper model from HuggingFace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			path, err := models.Download(cfg.Model, cfg.ModelsDir)
			if err != nil {
				return err
			}
			slog.Info("model ready", "path", path)
			return nil
		},
	})

	return cmd
}
