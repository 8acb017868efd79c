package app

import (
	"context"
	"sync"
	"time"

	"github.com/alex-netkachov/nbjs-eventful/pkg/contracts"
)

type AppInfo struct {
	AppName     string
	Version     string
	Environment string
}

type appContext struct {
	ctx       context.Context
	cancel    context.CancelFunc
	container contracts.DIContainer
	info      AppInfo
	startTime time.Time

	mu        sync.RWMutex
	stopTime  time.Time
	isRunning bool
}

func newAppContext(info AppInfo, container contracts.DIContainer) *appContext {
	ctx, cancel := context.WithCancel(context.Background())
	return &appContext{
		ctx:       ctx,
		cancel:    cancel,
		container: container,
		info:      info,
		startTime: time.Now(),
		isRunning: true,
	}
}

func (c *appContext) ParentContext() context.Context {
	return c.ctx
}

func (c *appContext) Container() contracts.DIContainer {
	return c.container
}

func (c *appContext) AppName() string {
	return c.info.AppName
}

func (c *appContext) Version() string {
	return c.info.Version
}

func (c *appContext) Environment() string {
	return c.info.Environment
}

func (c *appContext) StartTime() time.Time {
	return c.startTime
}

func (c *appContext) StopTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stopTime
}

func (c *appContext) IsRunning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isRunning
}

// Stop is idempotent; the first call cancels the context and records
// the stop time, later calls are no-ops.
func (c *appContext) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isRunning {
		return
	}
	c.cancel()
	c.stopTime = time.Now()
	c.isRunning = false
}
