package config

import (
	"os"

	"github.com/goccy/go-yaml"
)

type yamlLoader struct {
	paths []string
}

func (l *yamlLoader) Load() (map[string]any, error) {
	for _, path := range securePaths(l.paths) {
		if !fileExists(path) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var values map[string]any
		if err = yaml.UnmarshalWithOptions(data, &values, yaml.UseJSONUnmarshaler()); err != nil {
			return nil, ErrParseYAML.
				WithDetail("path", path).
				WithDetail("reason", err.Error()).
				WithCause(err)
		}

		return values, nil
	}

	return nil, ErrNoConfigSource.WithDetail("loader", "yaml")
}
