package emitter

import (
	"context"
	"fmt"
	"reflect"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"

	"github.com/alex-netkachov/nbjs-eventful/pkg/contracts"
)

// Listener is the callable registered for an event.
type Listener = contracts.Listener

// emitter is the listener-registry engine behind contracts.Emitter.
// The mutex guards the registry only; no lock is held while listeners
// run, and every emission iterates a snapshot taken at lookup time, so
// subscribing or unsubscribing during an emission affects later
// emissions only.
type emitter struct {
	mu        sync.RWMutex
	listeners map[string][]*subscription
	strict    bool
	traceHook TraceHook
	errorHook ErrorHook
	counter   Counter
	host      any
}

// On registers listener for event. Listener identity is the function
// pointer: registering the same function twice under one event returns
// the existing entry's handle. Closures created from the same literal
// share a pointer; register distinct wrappers when separate
// subscriptions are needed.
func (e *emitter) On(event string, listener Listener) (contracts.Subscription, error) {
	if listener == nil {
		return nil, ErrNilListener
	}
	return e.on(event, listener, listener, reflect.ValueOf(listener).Pointer()), nil
}

// Once registers listener to fire at most once. The adapter claims the
// handle's one-shot gate before delegating, so the listener cannot run
// twice even when emissions race each other or the handle. Every Once
// call registers independently; only its handle removes it.
func (e *emitter) Once(event string, listener Listener) (contracts.Subscription, error) {
	if listener == nil {
		return nil, ErrNilListener
	}

	sub := &subscription{
		id:     uuid.New().String(),
		event:  event,
		source: listener,
		owner:  e,
	}
	sub.invoke = func(args ...any) error {
		if !sub.release() {
			return nil
		}
		return listener(args...)
	}
	sub.active.Store(true)

	e.mu.Lock()
	e.listeners[event] = append(e.listeners[event], sub)
	e.mu.Unlock()

	e.trace(ActionOn, TracePayload{Event: event, Listener: listener})
	return sub, nil
}

// Off removes the entry registered for listener under event, if any.
// It reports whether something was removed and never fails for unknown
// listeners. Once adapters have no caller-visible identity; their
// handles remove them.
func (e *emitter) Off(event string, listener Listener) (bool, error) {
	if listener == nil {
		return false, ErrNilListener
	}

	key := reflect.ValueOf(listener).Pointer()

	e.mu.RLock()
	sub := e.find(event, key)
	e.mu.RUnlock()

	removed := false
	if sub != nil {
		removed = sub.release()
	}

	e.trace(ActionOff, TracePayload{Event: event, Listener: listener})
	return removed, nil
}

// Has reports whether event has at least one listener. Pure read, no
// trace.
func (e *emitter) Has(event string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[event]) > 0
}

// Emit invokes every listener of event in insertion order with args.
// The trace hook observes every call, including zero-listener ones. A
// failing listener (returned error or recovered panic) is reported to
// the error hook; lenient mode continues with the rest and returns
// nil, strict mode stops and returns the failure.
func (e *emitter) Emit(event string, args ...any) error {
	subs := e.snapshot(event)
	e.trace(ActionEmit, TracePayload{Event: event, Listeners: sources(subs), Args: args})
	e.counter.Emitted(event, len(subs))

	for _, sub := range subs {
		err := e.run(sub, args)
		if err == nil {
			continue
		}
		e.counter.Failed(sub.event)
		e.reportError(err, sub)
		if e.strict {
			return err
		}
	}
	return nil
}

// EmitAsync starts every listener of event concurrently. Each failure
// goes through the error hook exactly once. Lenient mode waits for all
// listeners to settle and returns nil; strict mode returns the first
// observed failure while the rest settle in the background. ctx bounds
// only the wait: on expiry EmitAsync returns ctx.Err() and dispatched
// listeners keep running with full hook bookkeeping.
func (e *emitter) EmitAsync(ctx context.Context, event string, args ...any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	subs := e.snapshot(event)
	e.trace(ActionEmitAsync, TracePayload{Event: event, Listeners: sources(subs), Args: args})
	e.counter.Emitted(event, len(subs))

	if len(subs) == 0 {
		return nil
	}
	if e.strict {
		return e.emitAsyncStrict(ctx, subs, args)
	}
	return e.emitAsyncLenient(ctx, subs, args)
}

func (e *emitter) emitAsyncLenient(ctx context.Context, subs []*subscription, args []any) error {
	var wg sync.WaitGroup
	wg.Add(len(subs))
	for _, sub := range subs {
		sub := sub
		go func() {
			defer wg.Done()
			if err := e.run(sub, args); err != nil {
				e.counter.Failed(sub.event)
				e.reportError(err, sub)
			}
		}()
	}

	settled := make(chan struct{})
	go func() {
		wg.Wait()
		close(settled)
	}()

	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *emitter) emitAsyncStrict(ctx context.Context, subs []*subscription, args []any) error {
	failed := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(len(subs))
	for _, sub := range subs {
		sub := sub
		go func() {
			defer wg.Done()
			err := e.run(sub, args)
			if err == nil {
				return
			}
			e.counter.Failed(sub.event)
			e.reportError(err, sub)
			select {
			case failed <- err:
			default:
			}
		}()
	}

	settled := make(chan struct{})
	go func() {
		wg.Wait()
		close(settled)
	}()

	select {
	case err := <-failed:
		return err
	case <-settled:
		// A failure may have landed in the same instant the last
		// listener settled.
		select {
		case err := <-failed:
			return err
		default:
			return nil
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// on inserts an entry unless key is already registered, then traces
// the attempt. A zero key skips duplicate detection and can never be
// matched by Off.
func (e *emitter) on(event string, invoke, source Listener, key uintptr) *subscription {
	e.mu.Lock()
	sub := e.find(event, key)
	if sub == nil {
		sub = &subscription{
			id:     uuid.New().String(),
			event:  event,
			invoke: invoke,
			source: source,
			key:    key,
			owner:  e,
		}
		sub.active.Store(true)
		e.listeners[event] = append(e.listeners[event], sub)
	}
	e.mu.Unlock()

	e.trace(ActionOn, TracePayload{Event: event, Listener: source})
	return sub
}

// find returns the entry registered under key, or nil. Callers hold
// the mutex. A zero key matches nothing.
func (e *emitter) find(event string, key uintptr) *subscription {
	if key == 0 {
		return nil
	}
	for _, s := range e.listeners[event] {
		if s.key == key {
			return s
		}
	}
	return nil
}

// discard removes the entry from the registry and drops the event key
// when its last entry goes. Only the winner of the entry's gate calls
// this.
func (e *emitter) discard(sub *subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries := e.listeners[sub.event]
	for i, s := range entries {
		if s != sub {
			continue
		}
		entries = append(entries[:i], entries[i+1:]...)
		break
	}
	if len(entries) == 0 {
		delete(e.listeners, sub.event)
		return
	}
	e.listeners[sub.event] = entries
}

func (e *emitter) snapshot(event string) []*subscription {
	e.mu.RLock()
	defer e.mu.RUnlock()

	entries := e.listeners[event]
	if len(entries) == 0 {
		return nil
	}
	out := make([]*subscription, len(entries))
	copy(out, entries)
	return out
}

// run invokes one listener, converting a panic into an
// ErrListenerPanic failure.
func (e *emitter) run(sub *subscription, args []any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrListenerPanic.
				WithDetail("event", sub.event).
				WithDetail("value", fmt.Sprint(r)).
				WithDetail("stack", string(debug.Stack()))
		}
	}()
	return sub.invoke(args...)
}

func (e *emitter) trace(action string, payload TracePayload) {
	hook := e.traceHook
	if hook == nil {
		hook = currentTraceHook()
	}
	hook(e.host, action, payload)
}

func (e *emitter) reportError(err error, sub *subscription) {
	hook := e.errorHook
	if hook == nil {
		hook = currentErrorHook()
	}
	hook(err, ErrorContext{Host: e.host, Event: sub.event, Listener: sub.source})
}

func sources(subs []*subscription) []Listener {
	if len(subs) == 0 {
		return nil
	}
	out := make([]Listener, len(subs))
	for i, s := range subs {
		out[i] = s.source
	}
	return out
}
