package logger

import (
	"bytes"
	"os"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestLevels_WhenVerbose(t *testing.T) {
	defer reset()

	tests := []struct {
		name string
		log  func()
		want string
	}{
		{"debug", func() { Debug("extract %s", "a.pdf") }, "[DEBUG] extract a.pdf\n"},
		{"info", func() { Info("%d records", 3) }, "[INFO] 3 records\n"},
		{"warn", func() { Warn("patch skipped") }, "[WARN] patch skipped\n"},
		{"error", func() { Error("boom") }, "[ERROR] boom\n"},
		{"section", func() { Section("Analysis") }, "\n=== Analysis ===\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetOutput(&buf)
			SetVerbose(true)

			tt.log()

			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLevels_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("d")
	Info("i")
	Warn("w")
	Section("s")

	if buf.Len() != 0 {
		t.Errorf("expected no output when not verbose, got %q", buf.String())
	}
}

func TestError_AlwaysPrints(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Error("extract %q failed", "a.pdf")

	if got := buf.String(); got != "[ERROR] extract \"a.pdf\" failed\n" {
		t.Errorf("unexpected output: %q", got)
	}
}
