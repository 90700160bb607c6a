package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/artcc-atlas/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// StderrLogFile selects stderr instead of a rotating log file.
const StderrLogFile = "-"

// NewLogger builds the process-wide structured logger from config. The
// terminal viewer owns stdout, so logs go to a rotating file unless LOG_FILE
// is "-".
func NewLogger(cfg *config.Config) *slog.Logger {
	return slog.New(newHandler(logWriter(cfg.LogFile), cfg.LogLevel, cfg.LogFormat))
}

func logWriter(file string) io.Writer {
	if file == "" || file == StderrLogFile {
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   file,
		MaxSize:    32, // MB
		MaxBackups: 1,
		MaxAge:     14,
	}
}

func newHandler(w io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
