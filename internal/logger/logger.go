package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LevelEnv overrides the log level when no flag is given.
const LevelEnv = "QB_PROMPT_LOG_LEVEL"

func levelFromString(s string) (l slog.Level, ok bool) {
	switch strings.ToLower(s) {
	case "debug", "dbg":
		return slog.LevelDebug, true
	case "info", "inf":
		return slog.LevelInfo, true
	case "warn", "wrn":
		return slog.LevelWarn, true
	case "error", "err":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// ResolveLevel picks the flag value, then the environment, then "info".
func ResolveLevel(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(LevelEnv); env != "" {
		return env
	}
	return "info"
}

// InitLogger makes slog write to the file at path. Level "off" discards
// every record.
func InitLogger(path, level string) error {
	if strings.EqualFold(level, "off") {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nil
	}

	loglevel, ok := levelFromString(level)
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	// slog writes time, level and msg first, then the attributes
	handler := slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: loglevel})
	slog.SetDefault(slog.New(handler))
	return nil
}
