package selector

// AxisConfig declares one axis-linked (sub-)axis explicitly.
type AxisConfig struct {
	// Category is the axis-linked category name.
	Category string `yaml:"category" mapstructure:"category"`

	// AxisKey selects the sub-axis when the category is split (e.g. "top").
	// Empty for a category with a single axis.
	AxisKey string `yaml:"axis_key" mapstructure:"axis_key"`

	// Positions is the axis size N. Zero derives N from the highest target
	// position found in the catalog for this axis.
	Positions int `yaml:"positions" mapstructure:"positions"`

	// Start is the first position of the circuit. Zero draws the start from
	// the engine's random source.
	Start int `yaml:"start" mapstructure:"start"`
}

// Config selects which categories an engine draws from and how axes are built.
type Config struct {
	// Categories is the category set, each weighted equally per draw.
	// Nil means every category in the catalog; a non-nil empty slice is an
	// empty set and is rejected.
	Categories []string `yaml:"categories" mapstructure:"categories"`

	// Axes declares axes explicitly. An explicit entry for a category
	// disables discovery for that category.
	Axes []AxisConfig `yaml:"axes" mapstructure:"axes"`

	// DiscoverAxes turns every category whose records carry target
	// positions into an axis-linked category, one axis per axis key.
	DiscoverAxes bool `yaml:"discover_axes" mapstructure:"discover_axes"`
}

// DefaultConfig returns a config that draws from every catalog category and
// discovers axes from the catalog's target positions.
func DefaultConfig() Config {
	return Config{
		DiscoverAxes: true,
	}
}
