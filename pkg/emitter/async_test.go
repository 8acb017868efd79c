package emitter

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/alex-netkachov/nbjs-eventful/pkg/errors"
)

func waitUntil(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestEmitter_EmitAsyncLenientWaitsForAll(t *testing.T) {
	defer goleak.VerifyNone(t)

	errs := &errorRecorder{}
	em := New(WithErrorHook(errs.hook()))

	var ran atomic.Int32
	boom := fmt.Errorf("boom")
	ok := func(args ...any) error {
		ran.Add(1)
		return nil
	}
	failing := func(args ...any) error {
		ran.Add(1)
		return boom
	}
	slow := func(args ...any) error {
		time.Sleep(50 * time.Millisecond)
		ran.Add(1)
		return nil
	}
	for _, listener := range []Listener{ok, failing, slow} {
		if _, err := em.On("job.run", listener); err != nil {
			t.Fatalf("subscribe failed: %v", err)
		}
	}

	if err := em.EmitAsync(context.Background(), "job.run"); err != nil {
		t.Fatalf("expected lenient async emit to swallow the failure, got %v", err)
	}
	if got := ran.Load(); got != 3 {
		t.Errorf("expected all listeners settled before return, got %d", got)
	}

	calls := errs.snapshot()
	if len(calls) != 1 {
		t.Fatalf("expected 1 error hook call, got %d", len(calls))
	}
	if !errors.Is(calls[0].err, boom) {
		t.Errorf("expected the listener error, got %v", calls[0].err)
	}
	if calls[0].ctx.Event != "job.run" {
		t.Errorf("expected event job.run, got %q", calls[0].ctx.Event)
	}
}

func TestEmitter_EmitAsyncStrictReturnsFirstFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	errs := &errorRecorder{}
	em := New(WithStrict(true), WithErrorHook(errs.hook()))

	boom := fmt.Errorf("boom")
	release := make(chan struct{})
	var slowRan atomic.Bool
	slow := func(args ...any) error {
		<-release
		slowRan.Store(true)
		return nil
	}
	failing := func(args ...any) error { return boom }
	if _, err := em.On("job.run", slow); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if _, err := em.On("job.run", failing); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	err := em.EmitAsync(context.Background(), "job.run")
	if !errors.Is(err, boom) {
		t.Fatalf("expected the first failure, got %v", err)
	}
	if slowRan.Load() {
		t.Error("expected the strict return not to wait for the slow listener")
	}

	close(release)
	waitUntil(t, slowRan.Load, "slow listener never settled")
	waitUntil(t, func() bool { return len(errs.snapshot()) == 1 }, "failure never reached the error hook")
}

func TestEmitter_EmitAsyncStrictSingleFailureAtSettle(t *testing.T) {
	defer goleak.VerifyNone(t)

	em := New(WithStrict(true))

	boom := fmt.Errorf("boom")
	if _, err := em.On("job.run", func(args ...any) error { return boom }); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	// The only listener fails in the same instant everything settles;
	// the failure must still win.
	if err := em.EmitAsync(context.Background(), "job.run"); !errors.Is(err, boom) {
		t.Fatalf("expected the failure, got %v", err)
	}
}

func TestEmitter_EmitAsyncStrictAllSucceed(t *testing.T) {
	defer goleak.VerifyNone(t)

	em := New(WithStrict(true))

	var ran atomic.Int32
	first := func(args ...any) error { ran.Add(1); return nil }
	second := func(args ...any) error { ran.Add(1); return nil }
	if _, err := em.On("job.run", first); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if _, err := em.On("job.run", second); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := em.EmitAsync(context.Background(), "job.run"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got := ran.Load(); got != 2 {
		t.Errorf("expected both listeners settled, got %d", got)
	}
}

func TestEmitter_EmitAsyncContextExpiry(t *testing.T) {
	defer goleak.VerifyNone(t)

	errs := &errorRecorder{}
	em := New(WithErrorHook(errs.hook()))

	boom := fmt.Errorf("boom")
	release := make(chan struct{})
	var settled atomic.Bool
	blocked := func(args ...any) error {
		<-release
		settled.Store(true)
		return boom
	}
	if _, err := em.On("job.run", blocked); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := em.EmitAsync(ctx, "job.run")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}

	// The dispatched listener keeps running past the expired wait and
	// its failure still reaches the hook.
	close(release)
	waitUntil(t, settled.Load, "listener never settled")
	waitUntil(t, func() bool { return len(errs.snapshot()) == 1 }, "failure never reached the error hook")
}

func TestEmitter_EmitAsyncNilContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	em := New()

	var ran atomic.Bool
	if _, err := em.On("job.run", func(args ...any) error {
		ran.Store(true)
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := em.EmitAsync(nil, "job.run"); err != nil { //nolint:staticcheck
		t.Fatalf("expected nil context to be tolerated, got %v", err)
	}
	if !ran.Load() {
		t.Error("expected the listener to run")
	}
}

func TestEmitter_EmitAsyncZeroListeners(t *testing.T) {
	defer goleak.VerifyNone(t)

	trace := &traceRecorder{}
	counter := &mockCounter{}
	em := New(WithTraceHook(trace.hook()), WithCounter(counter))

	if err := em.EmitAsync(context.Background(), "job.run", "payload"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	calls := trace.snapshot()
	if len(calls) != 1 || calls[0].action != ActionEmitAsync {
		t.Fatalf("expected one emitAsync trace call, got %v", calls)
	}
	emitted, _ := counter.snapshot()
	if len(emitted) != 1 || emitted[0].listeners != 0 {
		t.Errorf("expected a zero-listener emission counted, got %v", emitted)
	}
}

func TestEmitter_EmitAsyncPanicIsIsolated(t *testing.T) {
	defer goleak.VerifyNone(t)

	errs := &errorRecorder{}
	em := New(WithErrorHook(errs.hook()))

	var ran atomic.Bool
	panicking := func(args ...any) error { panic("kaboom") }
	ok := func(args ...any) error {
		ran.Store(true)
		return nil
	}
	if _, err := em.On("job.run", panicking); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if _, err := em.On("job.run", ok); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := em.EmitAsync(context.Background(), "job.run"); err != nil {
		t.Fatalf("expected lenient async emit to swallow the panic, got %v", err)
	}
	if !ran.Load() {
		t.Error("expected the other listener to run")
	}

	calls := errs.snapshot()
	if len(calls) != 1 {
		t.Fatalf("expected 1 error hook call, got %d", len(calls))
	}
	if !errors.Is(calls[0].err, ErrListenerPanic) {
		t.Errorf("expected ErrListenerPanic, got %v", calls[0].err)
	}
}
