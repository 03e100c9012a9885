package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" INFO ", zerolog.InfoLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.WarnLevel},
		{"nonsense", zerolog.WarnLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.expected {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tt.in, tt.expected, got)
		}
	}
}

func TestBuildFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Build(Config{Level: "info", Component: "test"}, &buf)

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug entry to be filtered, got %q", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected info entry, got %q", out)
	}
	if !strings.Contains(out, `"component":"test"`) {
		t.Errorf("expected component field, got %q", out)
	}
}

func TestBuildConsole(t *testing.T) {
	var buf bytes.Buffer
	log := Build(Config{Level: "debug", Console: true}, &buf)
	log.Debug().Str("value", "0x00").Msg("decode failed")

	out := buf.String()
	if strings.Contains(out, "{") {
		t.Errorf("expected console output, got JSON %q", out)
	}
	if !strings.Contains(out, "decode failed") {
		t.Errorf("expected message in console output, got %q", out)
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	log := Component(zerolog.New(&buf), "postgres")
	log.Warn().Msg("slow")

	if !strings.Contains(buf.String(), `"component":"postgres"`) {
		t.Errorf("expected component field, got %q", buf.String())
	}
}
