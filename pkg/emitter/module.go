package emitter

import (
	"reflect"

	"github.com/alex-netkachov/nbjs-eventful/pkg/contracts"
)

type module struct {
	opts []Option
}

func (m *module) Name() string {
	return contracts.EmitterModuleName
}

// Register wires a lazily built shared emitter into the container. The
// config and logger modules are consulted at first resolve, so
// registration order between the modules does not matter.
func (m *module) Register(container contracts.DIContainer) error {
	return container.Factory(
		reflect.TypeOf((*contracts.Emitter)(nil)).Elem(),
		func(c contracts.DIContainer) (any, error) {
			return New(m.options(c)...), nil
		},
	)
}

func (m *module) Start(ctx contracts.AppContext) error {
	return nil
}

func (m *module) Stop(ctx contracts.AppContext) error {
	return nil
}

// options derives emitter options from the optional config and logger
// modules, then appends the ones given to NewModule.
func (m *module) options(c contracts.DIContainer) []Option {
	var opts []Option

	if raw, err := c.Resolve(reflect.TypeOf((*contracts.Config)(nil)).Elem()); err == nil {
		if cfg, ok := raw.(contracts.Config); ok {
			if section, ok := cfg.GetSub(contracts.EmitterModuleName); ok {
				opts = append(opts, WithStrict(section.GetBool("strict")))
			}
		}
	}

	if raw, err := c.Resolve(reflect.TypeOf((*contracts.Logger)(nil)).Elem()); err == nil {
		if log, ok := raw.(contracts.Logger); ok {
			opts = append(opts, WithLogger(log))
		}
	}

	return append(opts, m.opts...)
}
