package config

import (
	"reflect"

	"github.com/alex-netkachov/nbjs-eventful/pkg/contracts"
)

type module struct {
	loader Loader
}

func (m *module) Name() string {
	return contracts.ConfigModuleName
}

func (m *module) Register(container contracts.DIContainer) error {
	return container.Factory(
		reflect.TypeOf((*contracts.Config)(nil)).Elem(),
		func(c contracts.DIContainer) (any, error) {
			values, err := m.loader.Load()
			if err != nil {
				return nil, err
			}
			return NewMapConfig(values), nil
		},
	)
}

func (m *module) Start(_ contracts.AppContext) error {
	return nil
}

func (m *module) Stop(_ contracts.AppContext) error {
	return nil
}
