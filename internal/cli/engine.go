package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/taskcycle/internal/catalog"
	"github.com/mrz1836/taskcycle/internal/config"
	"github.com/mrz1836/taskcycle/internal/selector"
)

// engineFlags are the config overrides shared by commands that draw tasks.
type engineFlags struct {
	catalogPath   string
	catalogFormat string
	seed          uint64
	categories    []string
	noDiscover    bool
}

func addEngineFlags(cmd *cobra.Command, f *engineFlags) {
	cmd.Flags().StringVar(&f.catalogPath, "catalog", "", "task catalog file (default: built-in catalog)")
	cmd.Flags().StringVar(&f.catalogFormat, "format", "", "catalog format (yaml|json, default: from extension)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed for a reproducible draw")
	cmd.Flags().StringSliceVar(&f.categories, "category", nil, "restrict the draw to these categories (repeatable)")
	cmd.Flags().BoolVar(&f.noDiscover, "no-discover", false, "treat categories without an explicit axis as simple")
}

// overrides returns the flag values as a config layer. Only flags the user
// set take part.
func (f *engineFlags) overrides(cmd *cobra.Command) *config.Config {
	o := &config.Config{
		Catalog: config.CatalogConfig{Path: f.catalogPath, Format: f.catalogFormat},
		Engine:  config.EngineConfig{Categories: f.categories},
	}
	if cmd.Flags().Changed("seed") {
		seed := f.seed
		o.Engine.Seed = &seed
	}
	return o
}

// apply sets the bool flags ApplyOverrides cannot express.
func (f *engineFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("no-discover") {
		cfg.Engine.DiscoverAxes = !f.noDiscover
	}
}

// loadConfig loads the layered configuration, or the single --config file,
// and applies overrides on top.
func (e *env) loadConfig(ctx context.Context, overrides *config.Config) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if e.flags.ConfigFile != "" {
		cfg, err = config.LoadFile(ctx, e.flags.ConfigFile)
	} else {
		cfg, err = config.Load(ctx)
	}
	if err != nil {
		return nil, err
	}
	return config.ApplyOverrides(cfg, overrides)
}

// loadEngineConfig resolves the configuration for a drawing command.
func (e *env) loadEngineConfig(ctx context.Context, cmd *cobra.Command, f *engineFlags) (*config.Config, error) {
	cfg, err := e.loadConfig(ctx, f.overrides(cmd))
	if err != nil {
		return nil, err
	}
	f.apply(cmd, cfg)
	return cfg, nil
}

// loadCatalog opens the configured catalog, or the built-in one.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return catalog.Default()
	}
	format, err := catalog.ParseFormat(cfg.Catalog.Format)
	if err != nil {
		return nil, err
	}
	return catalog.Load(cfg.Catalog.Path, format)
}

// catalogSource names the catalog for output.
func catalogSource(cfg *config.Config) string {
	if cfg.Catalog.Path == "" {
		return "built-in"
	}
	return cfg.Catalog.Path
}

// selectorConfig translates the engine section. An empty category list in
// a config file means every category.
func selectorConfig(ec config.EngineConfig) selector.Config {
	sc := selector.Config{DiscoverAxes: ec.DiscoverAxes}
	if len(ec.Categories) > 0 {
		sc.Categories = append([]string(nil), ec.Categories...)
	}
	for _, a := range ec.Axes {
		sc.Axes = append(sc.Axes, selector.AxisConfig{
			Category:  a.Category,
			AxisKey:   a.AxisKey,
			Positions: a.Positions,
			Start:     a.Start,
		})
	}
	return sc
}

// newEngine builds the catalog and engine for a drawing command.
func newEngine(cfg *config.Config, logger zerolog.Logger, gaps selector.GapObserver) (*selector.Engine, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	opts := []selector.Option{
		selector.WithLogger(logger),
		selector.WithGapObserver(gaps),
	}
	if cfg.Engine.Seed != nil {
		opts = append(opts, selector.WithSeed(*cfg.Engine.Seed))
	}
	return selector.New(cat, selectorConfig(cfg.Engine), opts...)
}
