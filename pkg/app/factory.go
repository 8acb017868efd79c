package app

import (
	"reflect"
	"time"

	"github.com/alex-netkachov/nbjs-eventful/pkg/contracts"
)

func NewContainer() contracts.DIContainer {
	return &container{
		factories: make(map[reflect.Type]func(c contracts.DIContainer) (any, error)),
		instances: make(map[reflect.Type]any),
	}
}

func NewRegistry() contracts.AppRegistry {
	return &registry{
		modules: make([]contracts.AppModule, 0),
	}
}

func New(info AppInfo, container contracts.DIContainer, registry contracts.AppRegistry, opts ...func(*app)) contracts.App {
	if container == nil {
		container = NewContainer()
	}
	if registry == nil {
		registry = NewRegistry()
	}

	a := &app{
		container:       container,
		registry:        registry,
		info:            info,
		shutdownTimeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}
