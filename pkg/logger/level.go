package logger

import (
	"log/slog"
	"strings"
)

const (
	levelTrace    = slog.LevelDebug - 4
	levelCritical = slog.LevelError + 4
)

func getLevelName(level slog.Leveler) string {
	switch level.Level() {
	case levelTrace:
		return "TRACE"
	case levelCritical:
		return "CRITICAL"
	}
	return level.Level().String()
}

func parseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return levelTrace, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	case "critical":
		return levelCritical, true
	}
	return slog.LevelInfo, false
}
