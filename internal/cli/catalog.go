package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/taskcycle/internal/catalog"
	"github.com/mrz1836/taskcycle/internal/constants"
	"github.com/mrz1836/taskcycle/internal/ctxutil"
	"github.com/mrz1836/taskcycle/internal/errors"
	"github.com/mrz1836/taskcycle/internal/tui"
)

// AddCatalogCommand adds the catalog command group to the root command.
func AddCatalogCommand(root *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and validate task catalogs",
	}

	cmd.AddCommand(newCatalogListCmd(e))
	cmd.AddCommand(newCatalogValidateCmd(e))
	cmd.AddCommand(newCatalogExportCmd())

	root.AddCommand(cmd)
}

// axisSummary describes one axis of a category.
type axisSummary struct {
	Label     string `json:"label"`
	Positions int    `json:"positions"`
}

// categorySummary describes one catalog category.
type categorySummary struct {
	Name  string        `json:"name"`
	Tasks int           `json:"tasks"`
	Axes  []axisSummary `json:"axes,omitempty"`
}

// catalogListResult is the JSON envelope of "catalog list".
type catalogListResult struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Catalog     string            `json:"catalog"`
	Records     int               `json:"records"`
	Categories  []categorySummary `json:"categories"`
}

func newCatalogListCmd(e *env) *cobra.Command {
	flags := &engineFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog categories and their axes",
		Long: `List every category in the catalog with its task count and the axes
discovered from target positions.

Examples:
  taskcycle catalog list
  taskcycle catalog list --catalog tasks.yaml --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalogList(cmd.Context(), cmd, e, flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.catalogPath, "catalog", "", "task catalog file (default: built-in catalog)")
	cmd.Flags().StringVar(&flags.catalogFormat, "format", "", "catalog format (yaml|json, default: from extension)")

	return cmd
}

func summarize(cat *catalog.Catalog) []categorySummary {
	categories := cat.Categories()
	out := make([]categorySummary, 0, len(categories))
	for _, name := range categories {
		// Every listed category has records.
		recs, _ := cat.ByCategory(name)
		s := categorySummary{Name: name, Tasks: len(recs)}
		for _, id := range cat.Axes(name) {
			s.Axes = append(s.Axes, axisSummary{Label: id.Label(), Positions: cat.MaxTarget(id)})
		}
		out = append(out, s)
	}
	return out
}

func runCatalogList(ctx context.Context, cmd *cobra.Command, e *env, flags *engineFlags, w io.Writer) error {
	cfg, err := e.loadEngineConfig(ctx, cmd, flags)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	summaries := summarize(cat)
	out := tui.NewOutput(w, e.flags.Output)
	if e.flags.Output == OutputJSON {
		return out.JSON(catalogListResult{
			GeneratedAt: e.clock.Now(),
			Catalog:     catalogSource(cfg),
			Records:     cat.Len(),
			Categories:  summaries,
		})
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		axes := make([]string, 0, len(s.Axes))
		for _, a := range s.Axes {
			axes = append(axes, fmt.Sprintf("%s (%d)", a.Label, a.Positions))
		}
		rows = append(rows, []string{s.Name, strconv.Itoa(s.Tasks), strings.Join(axes, ", ")})
	}
	out.Table([]string{"CATEGORY", "TASKS", "AXES"}, rows)
	out.Info(fmt.Sprintf("%d tasks in %d categories from %s catalog", cat.Len(), len(summaries), catalogSource(cfg)))
	return nil
}

// CatalogValidateFlags holds flags specific to the catalog validate command.
type CatalogValidateFlags struct {
	// Format forces the format of every file.
	Format string
}

// validationResult reports one validated catalog file.
type validationResult struct {
	Path       string `json:"path"`
	Valid      bool   `json:"valid"`
	Records    int    `json:"records,omitempty"`
	Categories int    `json:"categories,omitempty"`
	Axes       int    `json:"axes,omitempty"`
	Error      string `json:"error,omitempty"`

	err error
}

// catalogValidateResult is the JSON envelope of "catalog validate".
type catalogValidateResult struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Valid       bool               `json:"valid"`
	Files       []validationResult `json:"files"`
}

func newCatalogValidateCmd(e *env) *cobra.Command {
	flags := &CatalogValidateFlags{}

	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate catalog files",
		Long: `Parse and validate one or more catalog files. Files are checked in
parallel; every file is reported even when an earlier one fails.

A catalog is valid when every record has a positive unique id, a category
and an instruction, target positions are at least 1, and an axis key is
only used together with a target position.

Examples:
  taskcycle catalog validate tasks.yaml
  taskcycle catalog validate lab-a.yaml lab-b.json --output json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogValidate(cmd.Context(), e, flags, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.Format, "format", "", "catalog format for every file (yaml|json, default: from extension)")

	return cmd
}

// validateFiles validates every path concurrently. Results keep the order of paths.
func validateFiles(ctx context.Context, paths []string, format catalog.Format) ([]validationResult, error) {
	results := make([]validationResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.CatalogValidateConcurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctxutil.Canceled(ctx); err != nil {
				return err
			}
			results[i] = validateFile(path, format)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func validateFile(path string, format catalog.Format) validationResult {
	cat, err := catalog.Load(path, format)
	if err != nil {
		return validationResult{Path: path, Error: err.Error(), err: err}
	}

	axes := 0
	for _, category := range cat.Categories() {
		axes += len(cat.Axes(category))
	}
	return validationResult{
		Path:       path,
		Valid:      true,
		Records:    cat.Len(),
		Categories: len(cat.Categories()),
		Axes:       axes,
	}
}

func runCatalogValidate(ctx context.Context, e *env, flags *CatalogValidateFlags, paths []string, w io.Writer) error {
	format, err := catalog.ParseFormat(flags.Format)
	if err != nil {
		return err
	}

	logger := GetLogger()

	results, err := validateFiles(ctx, paths, format)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if !r.Valid {
			failed++
			logger.Debug().Str("path", r.Path).Err(r.err).Msg("catalog invalid")
		}
	}

	out := tui.NewOutput(w, e.flags.Output)
	if e.flags.Output == OutputJSON {
		if err := out.JSON(catalogValidateResult{
			GeneratedAt: e.clock.Now(),
			Valid:       failed == 0,
			Files:       results,
		}); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				out.Success(fmt.Sprintf("%s: %d tasks, %d categories, %d axes", r.Path, r.Records, r.Categories, r.Axes))
				continue
			}
			out.Error(errors.Wrap(r.err, r.Path))
		}
	}

	if failed > 0 {
		return errors.NewExitCode2Error(fmt.Errorf("%w: %d of %d catalog files failed validation",
			errors.ErrConfiguration, failed, len(results)))
	}
	return nil
}

func newCatalogExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the built-in catalog",
		Long: `Print the built-in catalog as a starting point for a custom one.

Examples:
  taskcycle catalog export > tasks.yaml
  taskcycle catalog export --format json > tasks.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalogExport(format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&format, "format", string(catalog.FormatYAML), "output format (yaml|json)")

	return cmd
}

func runCatalogExport(format string, w io.Writer) error {
	f, err := catalog.ParseFormat(format)
	if err != nil {
		return err
	}

	cat, err := catalog.Default()
	if err != nil {
		return err
	}
	doc := catalog.Document{Tasks: cat.Records()}

	if f == catalog.FormatJSON {
		return tui.NewJSONOutput(w).JSON(doc)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return enc.Close()
}
