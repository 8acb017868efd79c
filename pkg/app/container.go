package app

import (
	"reflect"
	"sync"

	"github.com/alex-netkachov/nbjs-eventful/pkg/contracts"
)

type container struct {
	mu        sync.RWMutex
	factories map[reflect.Type]func(c contracts.DIContainer) (any, error)
	instances map[reflect.Type]any
}

func (c *container) Has(abstract reflect.Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, hasFactory := c.factories[abstract]
	_, hasInstance := c.instances[abstract]
	return hasFactory || hasInstance
}

func (c *container) Instance(abstract reflect.Type, concrete any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.instances[abstract]; exists {
		return ErrDuplicateInstance.WithDetail("type", abstract.String())
	}
	c.instances[abstract] = concrete
	return nil
}

func (c *container) Factory(abstract reflect.Type, factory func(c contracts.DIContainer) (any, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.factories[abstract]; exists {
		return ErrDuplicateFactory.WithDetail("type", abstract.String())
	}
	c.factories[abstract] = factory
	return nil
}

func (c *container) Resolve(abstract reflect.Type) (any, error) {
	return c.resolveWithStack(abstract, make(map[reflect.Type]bool))
}

func (c *container) resolveWithStack(abstract reflect.Type, resolving map[reflect.Type]bool) (any, error) {
	c.mu.RLock()
	instance, cached := c.instances[abstract]
	factory, registered := c.factories[abstract]
	c.mu.RUnlock()

	if cached {
		return instance, nil
	}
	if resolving[abstract] {
		return nil, ErrCircularDep.WithDetail("type", abstract.String())
	}
	if !registered {
		return nil, ErrValueNotFound.WithDetail("type", abstract.String())
	}

	resolving[abstract] = true
	defer delete(resolving, abstract)

	// The proxy threads the resolving set through nested Resolve calls
	// so factories that depend on each other are caught as a cycle.
	proxy := &containerProxy{container: c, resolving: resolving}

	built, err := factory(proxy)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have finished the same factory first; the
	// stored instance wins so every caller sees one shared value.
	if existing, exists := c.instances[abstract]; exists {
		return existing, nil
	}

	c.instances[abstract] = built
	return built, nil
}

type containerProxy struct {
	container *container
	resolving map[reflect.Type]bool
}

func (cp *containerProxy) Has(abstract reflect.Type) bool {
	return cp.container.Has(abstract)
}

func (cp *containerProxy) Instance(abstract reflect.Type, concrete any) error {
	return cp.container.Instance(abstract, concrete)
}

func (cp *containerProxy) Factory(abstract reflect.Type, factory func(c contracts.DIContainer) (any, error)) error {
	return cp.container.Factory(abstract, factory)
}

func (cp *containerProxy) Resolve(abstract reflect.Type) (any, error) {
	return cp.container.resolveWithStack(abstract, cp.resolving)
}
