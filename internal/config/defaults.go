package config

// DefaultConfig returns a new Config with default values.
// These defaults are used as the base layer that can be overridden by
// config files, environment variables, and CLI flags.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			// Path: empty selects the built-in catalog.
			Path:   "",
			Format: "",
		},
		Engine: EngineConfig{
			// Seed: nil gives a fresh sequence every run.
			Seed:         nil,
			Categories:   nil,
			DiscoverAxes: true,
			Axes:         nil,
		},
	}
}
