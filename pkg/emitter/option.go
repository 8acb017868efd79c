package emitter

import (
	"github.com/alex-netkachov/nbjs-eventful/pkg/contracts"
)

type Option func(*emitterConfig)

type emitterConfig struct {
	strict    bool
	traceHook TraceHook
	errorHook ErrorHook
	logger    contracts.Logger
	counter   Counter
	host      any
}

// WithStrict makes Emit stop at the first listener failure and return
// it, and EmitAsync return the first failure as soon as it is observed.
// The default is lenient: failures go to the error hook only.
func WithStrict(strict bool) Option {
	return func(c *emitterConfig) {
		c.strict = strict
	}
}

// WithTraceHook pins the instance's trace hook. Instances without one
// follow the process-wide default at call time.
func WithTraceHook(h TraceHook) Option {
	return func(c *emitterConfig) {
		c.traceHook = h
	}
}

// WithErrorHook pins the instance's error hook. Instances without one
// follow the process-wide default at call time.
func WithErrorHook(h ErrorHook) Option {
	return func(c *emitterConfig) {
		c.errorHook = h
	}
}

// WithLogger reports listener failures through the given logger. An
// explicit WithErrorHook wins over it.
func WithLogger(logger contracts.Logger) Option {
	return func(c *emitterConfig) {
		c.logger = logger
	}
}

func WithCounter(counter Counter) Option {
	return func(c *emitterConfig) {
		c.counter = counter
	}
}

// WithHost sets the value reported to hooks as the host. Defaults to
// the emitter itself.
func WithHost(host any) Option {
	return func(c *emitterConfig) {
		c.host = host
	}
}
