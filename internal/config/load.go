package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/taskcycle/internal/constants"
	"github.com/mrz1836/taskcycle/internal/errors"
)

// envKeys lists the keys without a default that can still be set from the
// environment. AutomaticEnv only resolves keys viper already knows about.
var envKeys = []string{"engine.seed"} //nolint:gochecknoglobals // static key list

// newViperInstance creates a Viper instance with the TASKCYCLE_ env prefix,
// key replacer and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrapf(errors.ErrConfigInvalid, "failed to unmarshal config: %v", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (TASKCYCLE_* prefix)
//  2. Project config (.taskcycle/config.yaml)
//  3. Global config (~/.taskcycle/config.yaml)
//  4. Built-in defaults
//
// For CLI flag overrides, use LoadWithOverrides instead.
//
// Missing config files are not an error.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := mergeConfigFile(v, ProjectConfigPath(), "failed to read project config file"); err != nil {
		return nil, err
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("catalog.path", cfg.Catalog.Path).
		Bool("engine.seeded", cfg.Engine.HasSeed()).
		Strs("engine.categories", cfg.Engine.Categories).
		Int("engine.axes", len(cfg.Engine.Axes)).
		Msg("configuration loaded")

	return cfg, nil
}

// LoadFile loads a single config file over the defaults and environment.
// It backs the --config flag, which replaces the global and project files.
func LoadFile(_ context.Context, path string) (*Config, error) {
	v := newViperInstance()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || isConfigNotFoundError(err) {
			return nil, errors.Wrapf(errors.ErrConfigInvalid, "config file %s not found", path)
		}
		return nil, errors.Wrapf(errors.ErrConfigInvalid, "failed to read config file %s: %v", path, err)
	}
	return unmarshalAndValidate(v)
}

// loadGlobalConfig attempts to load the global config file (~/.taskcycle/config.yaml).
// Returns nil if the file doesn't exist or the home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	path, err := GlobalConfigPath()
	if err != nil {
		return nil //nolint:nilerr // no home directory means no global config
	}
	return mergeConfigFile(v, path, "failed to read global config file")
}

// mergeConfigFile merges path into v when it exists.
func mergeConfigFile(v *viper.Viper, path, msg string) error {
	if !fileExists(path) {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrapf(errors.ErrConfigInvalid, "%s: %v", msg, err)
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}
	return ApplyOverrides(cfg, overrides)
}

// ApplyOverrides merges overrides into cfg and re-validates the result.
func ApplyOverrides(cfg, overrides *Config) (*Config, error) {
	if overrides != nil {
		applyOverrides(cfg, overrides)
	}
	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths for testing.
//
// projectConfigPath is the path to project-level config (higher priority).
// globalConfigPath is the path to global config (lower priority).
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrConfigInvalid, "failed to read global config %s: %v", globalConfigPath, err)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrConfigInvalid, "failed to read project config %s: %v", projectConfigPath, err)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// These defaults match the values from DefaultConfig().
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("catalog.format", d.Catalog.Format)

	v.SetDefault("engine.categories", []string{})
	v.SetDefault("engine.discover_axes", d.Engine.DiscoverAxes)
	v.SetDefault("engine.axes", []map[string]any{})
}

// applyOverrides merges non-zero override values into the config.
//
// IMPORTANT: DiscoverAxes is a bool and cannot be overridden to false here.
// The CLI handles that flag with cmd.Flags().Changed.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Catalog.Path != "" {
		cfg.Catalog.Path = overrides.Catalog.Path
	}
	if overrides.Catalog.Format != "" {
		cfg.Catalog.Format = overrides.Catalog.Format
	}
	if overrides.Engine.Seed != nil {
		seed := *overrides.Engine.Seed
		cfg.Engine.Seed = &seed
	}
	if len(overrides.Engine.Categories) > 0 {
		cfg.Engine.Categories = append([]string(nil), overrides.Engine.Categories...)
	}
	if len(overrides.Engine.Axes) > 0 {
		cfg.Engine.Axes = append([]AxisConfig(nil), overrides.Engine.Axes...)
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// Comma-separated env values decode into string slices.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
