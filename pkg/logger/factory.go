package logger

import (
	"log/slog"
	"os"

	"github.com/alex-netkachov/nbjs-eventful/pkg/contracts"
)

func NewLogger(opts ...Option) (contracts.Logger, error) {
	cfg := &config{
		level:  slog.LevelInfo,
		writer: os.Stdout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.replaceAttr == nil {
		WithDefaultReplaceAttr()(cfg)
	}

	var handler slog.Handler
	if cfg.json {
		handler = slog.NewJSONHandler(cfg.writer, &slog.HandlerOptions{
			Level:       cfg.level,
			AddSource:   cfg.addSource,
			ReplaceAttr: cfg.replaceAttr,
		})
	} else {
		isColored := cfg.wantColor && isTerminal(cfg.writer)
		handler = newTextHandler(cfg.writer, isColored, cfg.replaceAttr, cfg.level)
	}

	return &sLogger{Logger: slog.New(handler)}, nil
}

func NewModule(opts ...Option) contracts.AppModule {
	return &module{opts: opts}
}
