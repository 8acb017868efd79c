package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alex-netkachov/nbjs-eventful/pkg/contracts"
)

type MapConfig struct {
	values map[string]any
}

var _ contracts.Config = (*MapConfig)(nil)

func (c *MapConfig) Has(key string) bool {
	_, ok := c.find(key)
	return ok
}

func (c *MapConfig) Get(key string) any {
	value, _ := c.find(key)
	return value
}

func (c *MapConfig) GetString(key string, defaultVal ...string) string {
	v, ok := c.find(key)
	if !ok {
		return getFirst(defaultVal)
	}
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func (c *MapConfig) GetInt(key string, defaultVal ...int) int {
	v, ok := c.find(key)
	if !ok {
		return getFirst(defaultVal)
	}

	switch val := v.(type) {
	case int:
		return val
	case int64:
		if val < int64(math.MinInt) || val > int64(math.MaxInt) {
			return getFirst(defaultVal)
		}
		return int(val)
	case uint64:
		if val > uint64(math.MaxInt) {
			return getFirst(defaultVal)
		}
		return int(val)
	case float64:
		if val < float64(math.MinInt) || val > float64(math.MaxInt) {
			return getFirst(defaultVal)
		}
		return int(val)
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return getFirst(defaultVal)
}

func (c *MapConfig) GetBool(key string, defaultVal ...bool) bool {
	v, ok := c.find(key)
	if !ok {
		return getFirst(defaultVal)
	}

	switch val := v.(type) {
	case bool:
		return val
	case string:
		switch strings.ToLower(val) {
		case "true", "1", "on", "yes", "y":
			return true
		case "false", "0", "off", "no", "n":
			return false
		}
	case float64:
		return val != 0
	case int:
		return val != 0
	}
	return getFirst(defaultVal)
}

func (c *MapConfig) GetStringSlice(key string, separator ...string) []string {
	v, ok := c.find(key)
	if !ok || v == nil {
		return nil
	}

	sep := ","
	if len(separator) > 0 {
		sep = separator[0]
	}

	switch val := v.(type) {
	case []string:
		return val
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			result[i] = fmt.Sprintf("%v", item)
		}
		return result
	case string:
		parts := strings.Split(val, sep)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	default:
		return []string{fmt.Sprintf("%v", v)}
	}
}

func (c *MapConfig) GetSub(key string) (contracts.Config, bool) {
	sub, ok := c.find(key)
	if !ok {
		return nil, false
	}

	switch m := sub.(type) {
	case map[string]any:
		return NewMapConfig(m), true
	case map[any]any:
		return NewMapConfig(normalizeMap(m)), true
	}
	return nil, false
}

// All returns a deep copy; callers can mutate the result without
// touching the shared config.
func (c *MapConfig) All() map[string]any {
	return deepCopyMap(c.values)
}

func (c *MapConfig) find(path string) (any, bool) {
	keys := strings.Split(path, ".")
	var current any = c.values

	for _, k := range keys {
		if current == nil {
			return nil, false
		}

		switch cur := current.(type) {
		case map[string]any:
			next, exists := cur[k]
			if !exists {
				return nil, false
			}
			current = next
		case map[any]any:
			next, exists := cur[k]
			if !exists {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}

	return current, true
}

func getFirst[T any](values []T) T {
	var zero T
	if len(values) > 0 {
		return values[0]
	}
	return zero
}

func normalizeMap(m map[any]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[fmt.Sprintf("%v", k)] = v
	}
	return out
}

func deepCopyMap(m map[string]any) map[string]any {
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = deepCopyValue(v)
	}
	return cp
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
