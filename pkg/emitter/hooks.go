package emitter

import (
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/alex-netkachov/nbjs-eventful/pkg/contracts"
)

// Trace hook action tags. Once registrations trace as ActionOn because
// Once composes On.
const (
	ActionOn        = "on"
	ActionOff       = "off"
	ActionEmit      = "emit"
	ActionEmitAsync = "emitAsync"
)

// TracePayload carries the operation being traced. Event is always set;
// Listener accompanies subscribe/unsubscribe actions, Listeners and Args
// accompany emissions.
type TracePayload struct {
	Event     string
	Listener  Listener
	Listeners []Listener
	Args      []any
}

// ErrorContext identifies the failing listener for the error hook.
type ErrorContext struct {
	Host     any
	Event    string
	Listener Listener
}

type TraceHook func(host any, action string, payload TracePayload)

type ErrorHook func(err error, ctx ErrorContext)

// Process-wide default hooks. Instances that were not given their own
// hook read these at call time, so replacing a default is observed by
// existing emitters immediately. A nil pointer means the built-in
// default is in effect.
var (
	defaultTraceHook atomic.Pointer[TraceHook]
	defaultErrorHook atomic.Pointer[ErrorHook]
)

// SetDefaultTraceHook replaces the process-wide trace hook. Passing nil
// restores the built-in no-op.
func SetDefaultTraceHook(h TraceHook) {
	if h == nil {
		defaultTraceHook.Store(nil)
		return
	}
	defaultTraceHook.Store(&h)
}

// SetDefaultErrorHook replaces the process-wide error hook. Passing nil
// restores the built-in stderr reporter.
func SetDefaultErrorHook(h ErrorHook) {
	if h == nil {
		defaultErrorHook.Store(nil)
		return
	}
	defaultErrorHook.Store(&h)
}

func currentTraceHook() TraceHook {
	if h := defaultTraceHook.Load(); h != nil {
		return *h
	}
	return noopTraceHook
}

func currentErrorHook() ErrorHook {
	if h := defaultErrorHook.Load(); h != nil {
		return *h
	}
	return stderrErrorHook
}

func noopTraceHook(any, string, TracePayload) {}

var stderrLog = slog.New(slog.NewTextHandler(os.Stderr, nil))

func stderrErrorHook(err error, ctx ErrorContext) {
	stderrLog.Error("listener failed", "event", ctx.Event, "error", err)
}

func loggerErrorHook(logger contracts.Logger) ErrorHook {
	return func(err error, ctx ErrorContext) {
		logger.Error("listener failed", "event", ctx.Event, "error", err)
	}
}
