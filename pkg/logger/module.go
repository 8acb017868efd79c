package logger

import (
	"os"
	"reflect"
	"time"

	"github.com/alex-netkachov/nbjs-eventful/pkg/contracts"
)

type module struct {
	opts []Option
}

func (m *module) Name() string {
	return contracts.LoggerModuleName
}

func (m *module) Register(container contracts.DIContainer) error {
	return container.Factory(
		reflect.TypeOf((*contracts.Logger)(nil)).Elem(),
		func(c contracts.DIContainer) (any, error) {
			return NewLogger(m.loggerOptions(c)...)
		},
	)
}

func (m *module) Start(ctx contracts.AppContext) error {
	l, ok := m.resolveLogger(ctx.Container())
	if !ok {
		return nil
	}
	l.Info("Logging started",
		"app", ctx.AppName(),
		"version", ctx.Version(),
		"environment", ctx.Environment(),
	)
	return nil
}

func (m *module) Stop(ctx contracts.AppContext) error {
	l, ok := m.resolveLogger(ctx.Container())
	if !ok {
		return nil
	}
	l.Info("Logging stopped", "uptime", time.Since(ctx.StartTime()).String())
	return nil
}

// loggerOptions merges the logger config section with the options the
// module was built with; explicit options win.
func (m *module) loggerOptions(c contracts.DIContainer) []Option {
	var opts []Option

	if section, ok := m.configSection(c); ok {
		if level, ok := parseLevel(section.GetString("level")); ok {
			opts = append(opts, WithLevel(level))
		}
		if section.GetString("format", "text") == "json" {
			opts = append(opts, WithJSON())
		}
		if section.GetBool("include_caller") {
			opts = append(opts, WithSource())
		}
		if section.GetBool("enable_colors") {
			opts = append(opts, WithColor())
		}
		if section.GetString("output", "stdout") == "stderr" {
			opts = append(opts, WithWriter(os.Stderr))
		}
	}

	return append(opts, m.opts...)
}

func (m *module) configSection(c contracts.DIContainer) (contracts.Config, bool) {
	configType := reflect.TypeOf((*contracts.Config)(nil)).Elem()
	if !c.Has(configType) {
		return nil, false
	}

	instance, err := c.Resolve(configType)
	if err != nil {
		return nil, false
	}

	cfg, ok := instance.(contracts.Config)
	if !ok {
		return nil, false
	}

	return cfg.GetSub(contracts.LoggerModuleName)
}

func (m *module) resolveLogger(c contracts.DIContainer) (contracts.Logger, bool) {
	loggerType := reflect.TypeOf((*contracts.Logger)(nil)).Elem()
	if !c.Has(loggerType) {
		return nil, false
	}

	instance, err := c.Resolve(loggerType)
	if err != nil {
		return nil, false
	}

	l, ok := instance.(contracts.Logger)
	return l, ok
}
