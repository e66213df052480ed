package config

import (
	"strings"

	"github.com/mrz1836/taskcycle/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - catalog.format is empty, "yaml", "yml" or "json"
//   - engine.categories holds no blank names
//   - every axis names a category, is declared once, and has
//     non-negative positions and start with start <= positions
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateCatalogConfig(&cfg.Catalog); err != nil {
		return err
	}

	return validateEngineConfig(&cfg.Engine)
}

func validateCatalogConfig(cfg *CatalogConfig) error {
	switch strings.ToLower(cfg.Format) {
	case "", "yaml", "yml", "json":
		return nil
	default:
		return errors.Wrapf(errors.ErrConfigInvalid,
			"catalog.format must be yaml or json, got %q", cfg.Format)
	}
}

func validateEngineConfig(cfg *EngineConfig) error {
	for i, category := range cfg.Categories {
		if strings.TrimSpace(category) == "" {
			return errors.Wrapf(errors.ErrConfigInvalid,
				"engine.categories[%d] must not be blank", i)
		}
	}

	type axisKey struct{ category, key string }
	seen := make(map[axisKey]struct{}, len(cfg.Axes))

	for i, axis := range cfg.Axes {
		if strings.TrimSpace(axis.Category) == "" {
			return errors.Wrapf(errors.ErrConfigInvalid,
				"engine.axes[%d].category must not be empty", i)
		}
		if axis.Positions < 0 {
			return errors.Wrapf(errors.ErrConfigInvalid,
				"engine.axes[%d].positions must not be negative, got %d", i, axis.Positions)
		}
		if axis.Start < 0 {
			return errors.Wrapf(errors.ErrConfigInvalid,
				"engine.axes[%d].start must not be negative, got %d", i, axis.Start)
		}
		if axis.Positions > 0 && axis.Start > axis.Positions {
			return errors.Wrapf(errors.ErrConfigInvalid,
				"engine.axes[%d].start %d exceeds positions %d", i, axis.Start, axis.Positions)
		}

		k := axisKey{axis.Category, strings.ToLower(axis.AxisKey)}
		if _, dup := seen[k]; dup {
			return errors.Wrapf(errors.ErrConfigInvalid,
				"engine.axes[%d] repeats axis %s %s", i, axis.Category, axis.AxisKey)
		}
		seen[k] = struct{}{}
	}

	return nil
}
