package app

import (
	"fmt"
	"io"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
)

// NewLogger builds the application logger described by cfg.
func NewLogger(w io.Writer, cfg LogConfig) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	opts := []log.Option{log.LevelOption(level)}
	switch cfg.Format {
	case "json":
		opts = append(opts, log.OutputJSONOption())
	case "plain", "":
		opts = append(opts, log.ColorOption(false))
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}
	return log.NewLogger(w, opts...), nil
}
