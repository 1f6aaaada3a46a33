package log

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer func() {
		SetSink(os.Stderr)
		SetLevel(Notice)
	}()

	logger := New("test")

	if err := SetLevel(Warning); err != nil {
		t.Fatalf("SetLevel() error: %v", err)
	}
	logger.Infof("hidden %d", 1)
	logger.Warningf("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden 1") {
		t.Errorf("Info message should be filtered at warning level, got %q", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Errorf("Warning message missing from output %q", out)
	}
	if !strings.Contains(out, "[test]") {
		t.Errorf("Expected module name in output %q", out)
	}

	buf.Reset()
	SetLevel(Debug)
	logger.Debug("verbose")
	if !strings.Contains(buf.String(), "verbose") {
		t.Errorf("Debug message missing at debug level, got %q", buf.String())
	}
}

func TestSetLevel_UnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer func() {
		SetSink(os.Stderr)
		SetLevel(Notice)
	}()

	SetLevel(Error)
	for _, level := range []Level{Level(-1), Level(42)} {
		if err := SetLevel(level); !errors.Is(err, ErrUnknownLevel) {
			t.Errorf("Expected %v for level %d, got %v", ErrUnknownLevel, int(level), err)
		}
	}
	if CurrentLevel() != Error {
		t.Errorf("Expected level to stay %v, got %v", Error, CurrentLevel())
	}

	New("test").Debug("must not appear")
	if buf.Len() != 0 {
		t.Errorf("Expected debug output to stay filtered, got %q", buf.String())
	}
}

func TestSetSink_KeepsLevel(t *testing.T) {
	defer func() {
		SetSink(os.Stderr)
		SetLevel(Notice)
	}()

	SetLevel(Error)
	var buf bytes.Buffer
	SetSink(&buf)
	New("test").Warning("filtered")
	if buf.Len() != 0 {
		t.Errorf("Expected warning filtered after changing sink, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected Level
		err      error
	}{
		{"debug", Debug, nil},
		{"INFO", Info, nil},
		{"Warning", Warning, nil},
		{"error", Error, nil},
		{"verbose", 0, ErrUnknownLevel},
		{"", 0, ErrUnknownLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := ParseLevel(tt.name)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Expected %v, got %v", tt.err, err)
			}
			if err == nil && level != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, level)
			}
		})
	}
}
