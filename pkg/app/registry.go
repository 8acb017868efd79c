package app

import (
	"errors"
	"sync"

	"github.com/alex-netkachov/nbjs-eventful/pkg/contracts"
)

type registry struct {
	mu      sync.RWMutex
	modules []contracts.AppModule
}

func (r *registry) Register(module contracts.AppModule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = append(r.modules, module)
	return nil
}

func (r *registry) All() []contracts.AppModule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]contracts.AppModule, len(r.modules))
	copy(result, r.modules)
	return result
}

// Shutdown stops modules in reverse registration order and keeps going
// past failures, joining every stop error into the result.
func (r *registry) Shutdown(ctx contracts.AppContext) error {
	var errs []error
	modules := r.All()
	for i := len(modules) - 1; i >= 0; i-- {
		if err := modules[i].Stop(ctx); err != nil {
			errs = append(errs, ErrModuleStop.
				WithDetail("module", modules[i].Name()).
				WithCause(err))
		}
	}
	return errors.Join(errs...)
}
