package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ConvertError reports a failed media conversion, carrying the tool's
// diagnostic output so the user can see why the decode failed.
type ConvertError struct {
	Tool   string
	Stderr string
	Err    error
}

func (e *ConvertError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %v\n%s", e.Tool, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ConvertError) Unwrap() error { return e.Err }

// convert shells out to ffmpeg to decode src into a mono 16kHz WAV at dst.
func (a *Acquirer) convert(ctx context.Context, src, dst string) error {
	bin := a.FFmpegPath
	if bin == "" {
		path, err := exec.LookPath("ffmpeg")
		if err != nil {
			return &ConvertError{Tool: "ffmpeg", Err: fmt.Errorf("not found on PATH: %w", err)}
		}
		bin = path
	}

	cmd := exec.CommandContext(ctx, bin,
		"-y",
		"-i", src,
		"-ac", "1",
		"-ar", strconv.Itoa(SampleRate),
		"-f", "wav",
		dst,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &ConvertError{
			Tool:   "ffmpeg",
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return nil
}
