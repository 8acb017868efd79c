package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/term"
)

// textHandler renders one record into a single Write so lines from
// concurrent goroutines never interleave.
type textHandler struct {
	mu          *sync.Mutex
	writer      io.Writer
	attrs       []slog.Attr
	groups      []string
	isColored   bool
	replaceAttr func(groups []string, a slog.Attr) slog.Attr
	level       slog.Level
}

func newTextHandler(
	writer io.Writer,
	isColored bool,
	replaceAttr func(groups []string, a slog.Attr) slog.Attr,
	level slog.Level,
) slog.Handler {
	return &textHandler{
		mu:          &sync.Mutex{},
		writer:      writer,
		isColored:   isColored,
		replaceAttr: replaceAttr,
		level:       level,
	}
}

func (h *textHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *textHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	levelStr := getLevelName(r.Level)
	if h.replaceAttr != nil {
		a := h.replaceAttr(h.groups, slog.String(slog.LevelKey, levelStr))
		levelStr = a.Value.String()
	}
	if h.isColored {
		levelStr = colorize(levelStr, r.Level)
	}

	_, _ = fmt.Fprintf(&buf, "%s %s", levelStr, r.Message)

	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, a)
		return true
	})
	for _, a := range h.attrs {
		h.appendAttr(&buf, a)
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *textHandler) appendAttr(buf *bytes.Buffer, a slog.Attr) {
	if h.replaceAttr != nil {
		a = h.replaceAttr(h.groups, a)
	}
	if a.Key == "" || a.Equal(slog.Attr{}) {
		return
	}
	_, _ = fmt.Fprintf(buf, " %s=%q", a.Key, a.Value)
}

func (h *textHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)

	clone := *h
	clone.attrs = merged
	return &clone
}

func (h *textHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)

	clone := *h
	clone.groups = groups
	return &clone
}

func colorize(levelStr string, level slog.Level) string {
	const (
		reset  = "\033[0m"
		blue   = "\033[34m"
		cyan   = "\033[36m"
		green  = "\033[32m"
		yellow = "\033[33m"
		red    = "\033[31m"
		white  = "\033[37m"
		redBg  = "\033[41m"
	)

	switch {
	case level <= levelTrace:
		return cyan + levelStr + reset
	case level < slog.LevelInfo:
		return blue + levelStr + reset
	case level < slog.LevelWarn:
		return green + levelStr + reset
	case level < slog.LevelError:
		return yellow + levelStr + reset
	case level < levelCritical:
		return red + levelStr + reset
	default:
		return redBg + white + levelStr + reset
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
