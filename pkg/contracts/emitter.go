package contracts

import (
	"context"
)

type Listener func(args ...any) error

type Subscription interface {
	ID() string
	Event() string
	Unsubscribe() bool
}

type Emitter interface {
	On(event string, listener Listener) (Subscription, error)
	Once(event string, listener Listener) (Subscription, error)
	Off(event string, listener Listener) (bool, error)
	Emit(event string, args ...any) error
	EmitAsync(ctx context.Context, event string, args ...any) error
	Has(event string) bool
}
