package emitter

import (
	"github.com/alex-netkachov/nbjs-eventful/pkg/contracts"
)

// New builds an emitter. Without options it is lenient, follows the
// process-wide default hooks at call time and counts nothing.
func New(opts ...Option) contracts.Emitter {
	cfg := &emitterConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	e := &emitter{
		listeners: make(map[string][]*subscription),
		strict:    cfg.strict,
		traceHook: cfg.traceHook,
		errorHook: cfg.errorHook,
		counter:   cfg.counter,
		host:      cfg.host,
	}
	if e.errorHook == nil && cfg.logger != nil {
		e.errorHook = loggerErrorHook(cfg.logger)
	}
	if e.counter == nil {
		e.counter = NewNoopCounter()
	}
	if e.host == nil {
		e.host = e
	}
	return e
}

// NewModule builds the app module that registers a shared emitter in
// the container, configured from the emitter config section and the
// logger module when present. opts come last, so they win over the
// derived ones.
func NewModule(opts ...Option) contracts.AppModule {
	return &module{opts: opts}
}
