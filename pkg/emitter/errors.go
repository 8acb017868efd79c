package emitter

import "github.com/alex-netkachov/nbjs-eventful/pkg/errors"

var newEmitterCode = errors.WithPrefix("EMITTER")

var (
	ErrNilListener         = newEmitterCode().New("listener must not be nil")
	ErrInvalidHost         = newEmitterCode().New("host must be nil, a map[string]any or a pointer to a struct with a contracts.Emitter field, got {{.type}}")
	ErrCapabilityCollision = newEmitterCode().New("host already defines {{.capability}}")
	ErrAlreadyAttached     = newEmitterCode().New("emitter field {{.field}} is already populated")
	ErrListenerPanic       = newEmitterCode().New("listener panicked during {{.event}}: {{.value}}")
	ErrInvalidPayload      = newEmitterCode().New("typed listener for {{.event}} expected {{.expected}}, got {{.got}}")
)
