// Package config provides configuration management for taskcycle with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (TASKCYCLE_* prefix)
//  3. Project config (.taskcycle/config.yaml)
//  4. Global config (~/.taskcycle/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/selector, internal/catalog or internal/domain.
// The CLI translates the engine section into a selector.Config.
package config

// Config is the root configuration structure for taskcycle.
type Config struct {
	// Catalog selects the task catalog file.
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" mapstructure:"catalog"`

	// Engine configures the task selection engine.
	Engine EngineConfig `json:"engine" yaml:"engine" mapstructure:"engine"`
}

// CatalogConfig selects where task records come from.
type CatalogConfig struct {
	// Path is the catalog file. Empty uses the built-in catalog.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Format forces the catalog format ("yaml" or "json").
	// Empty infers it from the file extension.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// EngineConfig mirrors the selection engine configuration.
type EngineConfig struct {
	// Seed makes selection reproducible. Nil seeds from the system source.
	Seed *uint64 `json:"seed,omitempty" yaml:"seed,omitempty" mapstructure:"seed"`

	// Categories restricts the draw to these categories.
	// Empty uses every category in the catalog.
	Categories []string `json:"categories" yaml:"categories" mapstructure:"categories"`

	// DiscoverAxes turns every category with targeted records into an axis.
	// Default: true
	DiscoverAxes bool `json:"discover_axes" yaml:"discover_axes" mapstructure:"discover_axes"`

	// Axes declares axes explicitly. A category listed here is not discovered.
	Axes []AxisConfig `json:"axes" yaml:"axes" mapstructure:"axes"`
}

// AxisConfig declares one axis.
//
// Example YAML:
//
//	engine:
//	  axes:
//	    - category: MoveSlider
//	      axis_key: top
//	      positions: 5
//	      start: 1
type AxisConfig struct {
	Category string `json:"category" yaml:"category" mapstructure:"category"`
	AxisKey  string `json:"axis_key,omitempty" yaml:"axis_key,omitempty" mapstructure:"axis_key"`

	// Positions is the axis size. Zero uses the highest target in the catalog.
	Positions int `json:"positions,omitempty" yaml:"positions,omitempty" mapstructure:"positions"`

	// Start is the first position. Zero draws it from the engine's random source.
	Start int `json:"start,omitempty" yaml:"start,omitempty" mapstructure:"start"`
}

// HasSeed reports whether a seed was configured.
func (e *EngineConfig) HasSeed() bool {
	return e.Seed != nil
}
