package emitter

import (
	"context"
	"fmt"
	"reflect"

	"github.com/alex-netkachov/nbjs-eventful/pkg/contracts"
)

// Typed binds an event name derived from the payload type to
// compile-time checked subscribe and emit call sites. It shares the
// registry of the wrapped emitter, so string-surface callers on the
// same event name see the same listeners.
type Typed[T any] struct {
	emitter contracts.Emitter
	event   string
}

// NewTyped wraps em with a typed surface for payloads of type T. The
// event name is T's type name.
func NewTyped[T any](em contracts.Emitter) *Typed[T] {
	return &Typed[T]{
		emitter: em,
		event:   reflect.TypeOf((*T)(nil)).Elem().String(),
	}
}

// Event returns the derived event name.
func (t *Typed[T]) Event() string { return t.event }

// On subscribes fn to the typed event. Identity is fn itself, so the
// same function twice is one subscription, like the string surface.
func (t *Typed[T]) On(fn func(T) error) (contracts.Subscription, error) {
	if fn == nil {
		return nil, ErrNilListener
	}
	adapter := t.adapt(fn)
	// Adapters share one closure literal, so identity must come from
	// the typed function, not the adapter's code pointer.
	if em, ok := t.emitter.(*emitter); ok {
		return em.on(t.event, adapter, adapter, reflect.ValueOf(fn).Pointer()), nil
	}
	return t.emitter.On(t.event, adapter)
}

// Once subscribes fn to fire at most once.
func (t *Typed[T]) Once(fn func(T) error) (contracts.Subscription, error) {
	if fn == nil {
		return nil, ErrNilListener
	}
	return t.emitter.Once(t.event, t.adapt(fn))
}

// Emit delivers payload to the typed event's listeners.
func (t *Typed[T]) Emit(payload T) error {
	return t.emitter.Emit(t.event, payload)
}

// EmitAsync delivers payload concurrently, following the wrapped
// emitter's strictness.
func (t *Typed[T]) EmitAsync(ctx context.Context, payload T) error {
	return t.emitter.EmitAsync(ctx, t.event, payload)
}

// Has reports whether the typed event has listeners.
func (t *Typed[T]) Has() bool {
	return t.emitter.Has(t.event)
}

// adapt narrows the variadic surface to the payload type. A mismatched
// payload arriving through the string surface is a listener failure
// reported through the error hook, not a crash.
func (t *Typed[T]) adapt(fn func(T) error) Listener {
	return func(args ...any) error {
		if len(args) != 1 {
			return ErrInvalidPayload.
				WithDetail("event", t.event).
				WithDetail("expected", t.event).
				WithDetail("got", fmt.Sprintf("%d arguments", len(args)))
		}
		payload, ok := args[0].(T)
		if !ok {
			return ErrInvalidPayload.
				WithDetail("event", t.event).
				WithDetail("expected", t.event).
				WithDetail("got", fmt.Sprintf("%T", args[0]))
		}
		return fn(payload)
	}
}
