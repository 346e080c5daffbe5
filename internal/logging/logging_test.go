package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "debug", Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	engineLog := Component(log, "engine")
	engineLog.Info().Str("username", "alice").Msg("quiz started")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["component"] != "engine" || line["username"] != "alice" || line["service"] != "capitals-quiz" {
		t.Fatalf("unexpected fields: %v", line)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "warn", Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{in: "", want: zerolog.InfoLevel},
		{in: "DEBUG", want: zerolog.DebugLevel},
		{in: "warning", want: zerolog.WarnLevel},
		{in: "error", want: zerolog.ErrorLevel},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) err = %v", tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
