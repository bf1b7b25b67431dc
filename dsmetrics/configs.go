package dsmetrics

// Config controls the metrics binding.
type Config struct {
	// Enabled defaults to true when unset.
	Enabled *bool `yaml:"enabled"`

	// Namespace prefixes the pool series; tracker.DefaultNamespace when empty.
	Namespace string `yaml:"namespace"`
}

func (c Config) enabled() bool {
	return c.Enabled == nil || *c.Enabled
}
