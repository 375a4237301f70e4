package shared

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestParseLogLevel(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  log.Level
	}{
		{name: "debug", input: "debug", want: log.DebugLevel},
		{name: "mixed case with spaces", input: "  WARN ", want: log.WarnLevel},
		{name: "error", input: "error", want: log.ErrorLevel},
		{name: "unknown falls back to info", input: "chatty", want: log.InfoLevel},
		{name: "empty falls back to info", input: "", want: log.InfoLevel},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDates(t *testing.T) {
	t.Run("FormatDate", func(t *testing.T) {
		d := time.Date(2024, time.March, 7, 15, 4, 5, 0, time.UTC)
		if got := FormatDate(d); got != "2024-03-07" {
			t.Errorf("expected 2024-03-07, got %s", got)
		}
	})

	t.Run("ParseDate", func(t *testing.T) {
		d, err := ParseDate(" 2024-12-31 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.Year() != 2024 || d.Month() != time.December || d.Day() != 31 {
			t.Errorf("unexpected date %v", d)
		}
	})

	t.Run("ParseDate Invalid", func(t *testing.T) {
		_, err := ParseDate("31/12/2024")
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestLoggers(t *testing.T) {
	t.Run("NewLogger Writes To Writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		WithLogger(logger, "component", "test").Info("hello")

		out := buf.String()
		if !strings.Contains(out, "hello") || !strings.Contains(out, "component=test") {
			t.Errorf("unexpected log output: %s", out)
		}
	})

	t.Run("NewFileLogger Creates Directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "hoppers.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		logger.Info("written")

		if !strings.Contains(mustRead(t, path), "written") {
			t.Error("expected log line in file")
		}
	})

	t.Run("GenerateID Is Unique", func(t *testing.T) {
		if GenerateID() == GenerateID() {
			t.Error("expected distinct IDs")
		}
	})
}

func TestMarshalJSON(t *testing.T) {
	compact, err := MarshalJSON(map[string]int{"a": 1}, false)
	if err != nil || string(compact) != `{"a":1}` {
		t.Errorf("unexpected compact output %q, %v", compact, err)
	}

	pretty, err := MarshalJSON(map[string]int{"a": 1}, true)
	if err != nil || string(pretty) != "{\n  \"a\": 1\n}" {
		t.Errorf("unexpected pretty output %q, %v", pretty, err)
	}
}
