// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JVMCTL_DEBUG", "")
		t.Setenv("JVMCTL_LOG_LEVEL", "")
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("LOG_FORMAT", "")
		t.Setenv("LOG_SOURCE", "")

		cfg := FromEnv()
		if cfg.Level != "info" {
			t.Errorf("Level = %q, want info", cfg.Level)
		}
		if cfg.Format != FormatText {
			t.Errorf("Format = %q, want text", cfg.Format)
		}
		if cfg.AddSource {
			t.Error("AddSource = true, want false")
		}
	})

	t.Run("JVMCTL_DEBUG enables debug and source", func(t *testing.T) {
		t.Setenv("JVMCTL_DEBUG", "1")

		cfg := FromEnv()
		if cfg.Level != "debug" {
			t.Errorf("Level = %q, want debug", cfg.Level)
		}
		if !cfg.AddSource {
			t.Error("AddSource = false, want true")
		}
	})

	t.Run("JVMCTL_LOG_LEVEL wins over LOG_LEVEL", func(t *testing.T) {
		t.Setenv("JVMCTL_DEBUG", "")
		t.Setenv("JVMCTL_LOG_LEVEL", "warn")
		t.Setenv("LOG_LEVEL", "error")

		cfg := FromEnv()
		if cfg.Level != "warn" {
			t.Errorf("Level = %q, want warn", cfg.Level)
		}
	})

	t.Run("LOG_FORMAT selects json", func(t *testing.T) {
		t.Setenv("LOG_FORMAT", "JSON")

		cfg := FromEnv()
		if cfg.Format != FormatJSON {
			t.Errorf("Format = %q, want json", cfg.Format)
		}
	})
}

func TestNew(t *testing.T) {
	t.Run("json handler emits json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})

		logger.Info("hello", PIDKey, 42)

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if entry["msg"] != "hello" {
			t.Errorf("msg = %v, want hello", entry["msg"])
		}
		if entry[PIDKey] != float64(42) {
			t.Errorf("pid = %v, want 42", entry[PIDKey])
		}
	})

	t.Run("level filters output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&Config{Level: "error", Format: FormatText, Output: &buf})

		logger.Info("dropped")
		if buf.Len() != 0 {
			t.Errorf("info logged despite error level: %q", buf.String())
		}

		logger.Error("kept")
		if !strings.Contains(buf.String(), "kept") {
			t.Error("error log missing")
		}
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		logger := New(nil)
		if logger == nil {
			t.Fatal("New(nil) returned nil")
		}
	})
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})

	WithComponent(logger, "launch").Info("hi")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["component"] != "launch" {
		t.Errorf("component = %v, want launch", entry["component"])
	}
}
