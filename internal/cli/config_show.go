package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/taskcycle/internal/config"
	"github.com/mrz1836/taskcycle/internal/constants"
	"github.com/mrz1836/taskcycle/internal/tui"
)

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect taskcycle configuration",
	}

	cmd.AddCommand(newConfigShowCmd(e))
	root.AddCommand(cmd)
}

func newConfigShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective taskcycle configuration with source annotations.

Each value shows where it comes from:
  - default: Built-in default value
  - global: From ~/.taskcycle/config.yaml
  - project: From .taskcycle/config.yaml
  - file: From the file passed with --config
  - env: From a TASKCYCLE_* environment variable

Examples:
  taskcycle config show
  taskcycle config show --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), e, cmd.OutOrStdout())
		},
	}
}

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates the value is a built-in default.
	SourceDefault ConfigSource = "default"
	// SourceGlobal indicates the value came from global config.
	SourceGlobal ConfigSource = "global"
	// SourceProject indicates the value came from project config.
	SourceProject ConfigSource = "project"
	// SourceFile indicates the value came from the --config file.
	SourceFile ConfigSource = "file"
	// SourceEnv indicates the value came from an environment variable.
	SourceEnv ConfigSource = "env"
)

// ConfigValueWithSource represents a configuration value with its source.
type ConfigValueWithSource struct {
	Key    string       `json:"key" yaml:"key"`
	Value  any          `json:"value" yaml:"value"`
	Source ConfigSource `json:"source" yaml:"source"`
}

// configShowResult is the JSON envelope of "config show".
type configShowResult struct {
	Values []ConfigValueWithSource `json:"values"`
	Axes   []config.AxisConfig     `json:"axes"`
	Files  map[string]string       `json:"files"`
}

// configShowStyles contains styling for the config show command output.
type configShowStyles struct {
	header    lipgloss.Style
	key       lipgloss.Style
	value     lipgloss.Style
	sourceEnv lipgloss.Style
	sourcePrj lipgloss.Style
	sourceGbl lipgloss.Style
	sourceDef lipgloss.Style
	dim       lipgloss.Style
}

func newConfigShowStyles() *configShowStyles {
	return &configShowStyles{
		header:    lipgloss.NewStyle().Bold(true).Foreground(tui.ColorPrimary),
		key:       lipgloss.NewStyle().Foreground(tui.ColorPrimary),
		value:     lipgloss.NewStyle(),
		sourceEnv: lipgloss.NewStyle().Foreground(tui.ColorError),
		sourcePrj: lipgloss.NewStyle().Foreground(tui.ColorWarning),
		sourceGbl: lipgloss.NewStyle().Foreground(tui.ColorSuccess),
		sourceDef: lipgloss.NewStyle().Foreground(tui.ColorMuted),
		dim:       lipgloss.NewStyle().Foreground(tui.ColorMuted),
	}
}

// shownKeys are the scalar keys annotated by "config show", in display order.
var shownKeys = []string{ //nolint:gochecknoglobals // display order
	"catalog.path",
	"catalog.format",
	"engine.seed",
	"engine.categories",
	"engine.discover_axes",
	"engine.axes",
}

func runConfigShow(ctx context.Context, e *env, w io.Writer) error {
	cfg, err := e.loadConfig(ctx, nil)
	if err != nil {
		return err
	}

	files := configFiles(e.flags.ConfigFile)
	values := annotate(cfg, files)

	if e.flags.Output == OutputJSON {
		paths := make(map[string]string, len(files))
		for _, f := range files {
			paths[string(f.source)] = f.path
		}
		return tui.NewJSONOutput(w).JSON(configShowResult{Values: values, Axes: cfg.Engine.Axes, Files: paths})
	}

	tui.CheckNoColor()
	styles := newConfigShowStyles()
	_, _ = fmt.Fprintln(w, styles.header.Render("Effective taskcycle configuration"))
	_, _ = fmt.Fprintln(w, styles.dim.Render("Sources: ")+
		styles.sourceEnv.Render("env")+" > "+
		styles.sourcePrj.Render("project")+" > "+
		styles.sourceGbl.Render("global")+" > "+
		styles.sourceDef.Render("default"))
	_, _ = fmt.Fprintln(w)

	for _, vs := range values {
		_, _ = fmt.Fprintf(w, "%s: %s  %s\n",
			styles.key.Render(vs.Key),
			styles.value.Render(formatConfigValue(vs.Value)),
			sourceStyle(vs.Source, styles).Render("("+string(vs.Source)+")"))
	}
	for _, a := range cfg.Engine.Axes {
		_, _ = fmt.Fprintf(w, "  - %s\n", formatAxis(a))
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styles.dim.Render("Configuration files:"))
	for _, f := range files {
		state := ""
		if !f.exists {
			state = " (not found)"
		}
		_, _ = fmt.Fprintf(w, "  %s: %s\n", f.source, styles.dim.Render(f.path+state))
	}
	return nil
}

// configFile is one configuration layer on disk.
type configFile struct {
	source ConfigSource
	path   string
	exists bool
	keys   map[string]bool
}

// configFiles returns the file layers in ascending precedence.
func configFiles(explicit string) []configFile {
	if explicit != "" {
		return []configFile{readConfigKeys(SourceFile, explicit)}
	}

	var files []configFile
	if global, err := config.GlobalConfigPath(); err == nil {
		files = append(files, readConfigKeys(SourceGlobal, global))
	}
	project := config.ProjectConfigPath()
	if abs, err := filepath.Abs(project); err == nil {
		project = abs
	}
	return append(files, readConfigKeys(SourceProject, project))
}

// readConfigKeys records which dotted keys a YAML file sets.
func readConfigKeys(source ConfigSource, path string) configFile {
	f := configFile{source: source, path: path, keys: map[string]bool{}}

	data, err := os.ReadFile(path) //nolint:gosec // Config file path
	if err != nil {
		return f
	}
	f.exists = true

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return f
	}
	for section, body := range doc {
		inner, ok := body.(map[string]any)
		if !ok {
			continue
		}
		for key := range inner {
			f.keys[section+"."+key] = true
		}
	}
	return f
}

func annotate(cfg *config.Config, files []configFile) []ConfigValueWithSource {
	values := map[string]any{
		"catalog.path":         cfg.Catalog.Path,
		"catalog.format":       cfg.Catalog.Format,
		"engine.categories":    cfg.Engine.Categories,
		"engine.discover_axes": cfg.Engine.DiscoverAxes,
		"engine.axes":          len(cfg.Engine.Axes),
	}
	if cfg.Engine.HasSeed() {
		values["engine.seed"] = *cfg.Engine.Seed
	} else {
		values["engine.seed"] = nil
	}

	out := make([]ConfigValueWithSource, 0, len(shownKeys))
	for _, key := range shownKeys {
		out = append(out, ConfigValueWithSource{Key: key, Value: values[key], Source: determineSource(key, files)})
	}
	return out
}

// determineSource returns the highest-precedence layer that sets key.
func determineSource(key string, files []configFile) ConfigSource {
	envKey := constants.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if os.Getenv(envKey) != "" {
		return SourceEnv
	}
	for i := len(files) - 1; i >= 0; i-- {
		if files[i].keys[key] {
			return files[i].source
		}
	}
	return SourceDefault
}

func formatConfigValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "(unset)"
	case string:
		if val == "" {
			return "(empty)"
		}
		return val
	case []string:
		if len(val) == 0 {
			return "(all)"
		}
		return strings.Join(val, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatAxis(a config.AxisConfig) string {
	s := a.Category
	if a.AxisKey != "" {
		s += ":" + a.AxisKey
	}
	if a.Positions > 0 {
		s += fmt.Sprintf(" positions=%d", a.Positions)
	}
	if a.Start > 0 {
		s += fmt.Sprintf(" start=%d", a.Start)
	}
	return s
}

func sourceStyle(source ConfigSource, styles *configShowStyles) lipgloss.Style {
	switch source {
	case SourceEnv:
		return styles.sourceEnv
	case SourceProject, SourceFile:
		return styles.sourcePrj
	case SourceGlobal:
		return styles.sourceGbl
	case SourceDefault:
		return styles.sourceDef
	default:
		return styles.dim
	}
}
