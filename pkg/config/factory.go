package config

import "github.com/alex-netkachov/nbjs-eventful/pkg/contracts"

func NewYamlConfigLoader(paths ...string) Loader {
	return &yamlLoader{paths: paths}
}

func NewJSONConfigLoader(paths ...string) Loader {
	return &jsonLoader{paths: paths}
}

func NewEnvConfigLoader(prefix string) Loader {
	return &envLoader{prefix: prefix}
}

func NewChainLoader(loaders ...Loader) Loader {
	return &chainLoader{loaders: loaders}
}

func NewMapConfig(values map[string]any) contracts.Config {
	return &MapConfig{values: values}
}

// NewModule wires the default source stack: yaml and json files
// templated with env interpolation, then environment overrides.
func NewModule(envPrefix string, configPaths ...string) contracts.AppModule {
	loaders := []Loader{
		NewYamlConfigLoader(configPaths...),
		NewJSONConfigLoader(configPaths...),
		NewEnvConfigLoader(envPrefix),
	}
	return &module{loader: newTemplatedLoader(NewChainLoader(loaders...))}
}

func NewModuleWithLoader(loader Loader) contracts.AppModule {
	return &module{loader: loader}
}
