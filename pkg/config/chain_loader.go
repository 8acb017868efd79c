package config

type chainLoader struct {
	loaders []Loader
}

// Load merges every loader that succeeds, later loaders overriding
// earlier ones. It fails only when every loader fails.
func (c *chainLoader) Load() (map[string]any, error) {
	final := make(map[string]any)
	var lastErr error
	loaded := false

	for _, loader := range c.loaders {
		values, err := loader.Load()
		if err != nil {
			lastErr = err
			continue
		}
		loaded = true

		if err = mergeMaps(final, values); err != nil {
			return nil, ErrMergeFailed.WithCause(err)
		}
	}

	if !loaded {
		return nil, ErrNoConfigSource.WithDetail("loader", "chain").WithCause(lastErr)
	}

	return final, nil
}

func mergeMaps(dst, src map[string]any) error {
	for k, v := range src {
		vMap, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}

		dstMap, ok := dst[k].(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}

		if err := mergeMaps(dstMap, vMap); err != nil {
			return err
		}
	}
	return nil
}
