package emitter

import (
	"fmt"
	"reflect"

	"github.com/alex-netkachov/nbjs-eventful/pkg/contracts"
)

// capabilityKeys are the names Attach claims on a map host.
var capabilityKeys = [...]string{"on", "once", "off", "emit", "emitAsync", "has"}

var emitterType = reflect.TypeOf((*contracts.Emitter)(nil)).Elem()

// Attach equips host with a fresh emitter and returns the host. A nil
// host yields a new map host. A map[string]any host gets the emitter's
// methods stored under the capability keys; attachment is
// all-or-nothing, so a single taken key fails the whole call and
// leaves the map untouched. A pointer to a struct gets the emitter
// injected into its first exported contracts.Emitter field, which must
// still be nil. The host becomes the emitter's hook host unless opts
// override it.
func Attach(host any, opts ...Option) (any, error) {
	if host == nil {
		host = map[string]any{}
	}

	if m, ok := host.(map[string]any); ok {
		if m == nil {
			m = map[string]any{}
		}
		for _, key := range capabilityKeys {
			if _, taken := m[key]; taken {
				return nil, ErrCapabilityCollision.WithDetail("capability", key)
			}
		}
		em := newHosted(m, opts)
		m["on"] = em.On
		m["once"] = em.Once
		m["off"] = em.Off
		m["emit"] = em.Emit
		m["emitAsync"] = em.EmitAsync
		m["has"] = em.Has
		return m, nil
	}

	return attachToStruct(host, opts)
}

func attachToStruct(host any, opts []Option) (any, error) {
	rv := reflect.ValueOf(host)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, ErrInvalidHost.WithDetail("type", fmt.Sprintf("%T", host))
	}

	elem := rv.Elem()
	elemType := elem.Type()
	for i := 0; i < elemType.NumField(); i++ {
		field := elemType.Field(i)
		if !field.IsExported() || field.Type != emitterType {
			continue
		}
		target := elem.Field(i)
		if !target.IsNil() {
			return nil, ErrAlreadyAttached.WithDetail("field", field.Name)
		}
		target.Set(reflect.ValueOf(newHosted(host, opts)))
		return host, nil
	}

	return nil, ErrInvalidHost.WithDetail("type", fmt.Sprintf("%T", host))
}

// newHosted builds the attached emitter with host as its hook host.
// Caller options come last so an explicit WithHost wins.
func newHosted(host any, opts []Option) contracts.Emitter {
	return New(append([]Option{WithHost(host)}, opts...)...)
}
