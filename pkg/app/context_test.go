package app

import (
	"testing"
)

func TestAppContext_Stop(t *testing.T) {
	ctx := newAppContext(AppInfo{AppName: "test"}, NewContainer())

	if !ctx.IsRunning() {
		t.Error("Context should be running after creation")
	}

	ctx.Stop()

	if ctx.IsRunning() {
		t.Error("Context should not be running after Stop()")
	}

	select {
	case <-ctx.ParentContext().Done():
	default:
		t.Error("Context should be cancelled after Stop()")
	}

	if ctx.StopTime().IsZero() {
		t.Error("StopTime should be set after Stop()")
	}
}

func TestAppContext_StopIdempotent(t *testing.T) {
	ctx := newAppContext(AppInfo{AppName: "test"}, NewContainer())

	ctx.Stop()
	firstStop := ctx.StopTime()

	ctx.Stop()

	if !ctx.StopTime().Equal(firstStop) {
		t.Error("Second Stop() should not move the stop time")
	}
}

func TestAppContext_Info(t *testing.T) {
	container := NewContainer()
	ctx := newAppContext(AppInfo{
		AppName:     "eventful",
		Version:     "1.0.0",
		Environment: "test",
	}, container)

	if ctx.AppName() != "eventful" {
		t.Errorf("Expected AppName 'eventful', got %q", ctx.AppName())
	}
	if ctx.Version() != "1.0.0" {
		t.Errorf("Expected Version '1.0.0', got %q", ctx.Version())
	}
	if ctx.Environment() != "test" {
		t.Errorf("Expected Environment 'test', got %q", ctx.Environment())
	}
	if ctx.Container() != container {
		t.Error("Expected Container() to return the injected container")
	}
	if ctx.StartTime().IsZero() {
		t.Error("StartTime should be set at creation")
	}
	if !ctx.StopTime().IsZero() {
		t.Error("StopTime should be zero before Stop()")
	}
}
