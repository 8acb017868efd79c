package config

import (
	"bytes"
	"os"
	"strings"
	"text/template"
)

type templatedLoader struct {
	loader Loader
}

func newTemplatedLoader(loader Loader) Loader {
	return &templatedLoader{loader: loader}
}

func (t *templatedLoader) Load() (map[string]any, error) {
	raw, err := t.loader.Load()
	if err != nil {
		return nil, err
	}

	processed := make(map[string]any, len(raw))
	for k, v := range raw {
		processed[k] = t.processValue(v)
	}
	return processed, nil
}

func (t *templatedLoader) processValue(v any) any {
	switch val := v.(type) {
	case string:
		if !strings.Contains(val, "{{") || !strings.Contains(val, "}}") {
			return val
		}
		// A broken template keeps the raw string instead of erasing
		// the value.
		rendered, err := t.render(val)
		if err != nil {
			return val
		}
		return rendered
	case map[string]any:
		mapped := make(map[string]any, len(val))
		for k, item := range val {
			mapped[k] = t.processValue(item)
		}
		return mapped
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = t.processValue(item)
		}
		return result
	default:
		return val
	}
}

func (t *templatedLoader) newFuncMap() template.FuncMap {
	return template.FuncMap{
		"default": func(def, val any) string {
			s, ok := val.(string)
			if !ok || s == "" {
				if d, ok := def.(string); ok {
					return d
				}
				return ""
			}
			return s
		},
		"env":   os.Getenv,
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
	}
}

func (t *templatedLoader) render(input string) (string, error) {
	tmpl, err := template.New("config").Funcs(t.newFuncMap()).Parse(input)
	if err != nil {
		return "", err
	}

	data := make(map[string]string)
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) == 2 {
			data[parts[0]] = parts[1]
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
