package cmd

import (
	"log/slog"
	"testing"

	"github.com/spf13/viper"
)

func TestInitLogging_LevelMapping(t *testing.T) {
	tests := []struct {
		levelStr string
		want     slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"err", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}

	for _, tc := range tests {
		t.Run(tc.levelStr, func(t *testing.T) {
			viper.Set("log-level", tc.levelStr)
			initLogging()
			if logger == nil {
				t.Fatal("expected initLogging to set the package logger")
			}
			if !logger.Enabled(nil, tc.want) {
				t.Errorf("expected logger enabled at level %v for input %q", tc.want, tc.levelStr)
			}
		})
	}
}
