package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/couchcryptid/recruit-map-etl/internal/config"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// NewLogger builds the service logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default.
func NewLogger(cfg *config.Config) *slog.Logger {
	return sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
}

// NewCLILogger writes text logs to stderr so command output on stdout stays
// machine-readable. LOG_LEVEL is interpreted exactly as NewLogger does.
func NewCLILogger(cfg *config.Config) *slog.Logger {
	level := minLevel(sharedobs.NewLogger(cfg.LogLevel, "text").Handler())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// minLevel reports the lowest level h accepts.
func minLevel(h slog.Handler) slog.Level {
	ctx := context.Background()
	for _, l := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if h.Enabled(ctx, l) {
			return l
		}
	}
	return slog.LevelError
}
