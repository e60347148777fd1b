package audio

import (
	"testing"
)

// newTestRecorder skips the test when no audio backend is available
// (headless CI machines).
func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	r, err := NewRecorder(SampleRate, 1)
	if err != nil {
		t.Skipf("no audio backend available: %v", err)
	}
	t.Cleanup(func() {
		if err := r.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return r
}

func TestRecorderNotRecordingByDefault(t *testing.T) {
	r := newTestRecorder(t)
	if r.IsRecording() {
		t.Error("IsRecording() should be false after creation")
	}
}

func TestRecorderStopWithoutStart(t *testing.T) {
	r := newTestRecorder(t)
	if samples := r.Stop(); samples != nil {
		t.Errorf("Stop() without Start() should return nil, got %d samples", len(samples))
	}
}

func TestDecodeF32LE(t *testing.T) {
	// 1.0 = 0x3F800000, -1.0 = 0xBF800000, little endian.
	data := []byte{
		0x00, 0x00, 0x80, 0x3F,
		0x00, 0x00, 0x80, 0xBF,
	}
	samples := decodeF32LE(data, 2)

	if len(samples) != 2 {
		t.Fatalf("decodeF32LE() returned %d samples, want 2", len(samples))
	}
	if samples[0] != 1.0 {
		t.Errorf("samples[0] = %f, want 1.0", samples[0])
	}
	if samples[1] != -1.0 {
		t.Errorf("samples[1] = %f, want -1.0", samples[1])
	}
}

func TestDecodeF32LETruncatedInput(t *testing.T) {
	// Only 6 bytes for a requested 2 samples: the partial tail is dropped.
	data := []byte{0x00, 0x00, 0x80, 0x3F, 0x00, 0x00}
	samples := decodeF32LE(data, 2)
	if len(samples) != 1 {
		t.Errorf("decodeF32LE() returned %d samples, want 1", len(samples))
	}
}
