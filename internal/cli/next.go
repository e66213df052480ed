package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/taskcycle/internal/constants"
	"github.com/mrz1836/taskcycle/internal/ctxutil"
	"github.com/mrz1836/taskcycle/internal/domain"
	"github.com/mrz1836/taskcycle/internal/errors"
	"github.com/mrz1836/taskcycle/internal/selector"
	"github.com/mrz1836/taskcycle/internal/tui"
)

// NextFlags holds flags specific to the next command.
type NextFlags struct {
	engineFlags

	// Count is the number of tasks to draw.
	Count int
}

// AddNextCommand adds the next command to the root command.
func AddNextCommand(root *cobra.Command, e *env) {
	root.AddCommand(newNextCmd(e))
}

func newNextCmd(e *env) *cobra.Command {
	flags := &NextFlags{}

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Draw the next tasks",
		Long: `Draw one or more tasks from the catalog.

Categories are drawn uniformly. Knob and slider tasks follow their axis
circuit, so a long enough draw demonstrates every movement between two
positions exactly once per cycle.

Examples:
  taskcycle next
  taskcycle next --count 20 --seed 42
  taskcycle next --category TurnKnob --category MoveSlider
  taskcycle next --catalog tasks.json --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNext(cmd.Context(), cmd, e, flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&flags.Count, "count", "n", constants.DefaultDrawCount, "number of tasks to draw")
	addEngineFlags(cmd, &flags.engineFlags)

	return cmd
}

// nextResult is the JSON envelope of a draw.
type nextResult struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Catalog     string               `json:"catalog"`
	Seed        *uint64              `json:"seed,omitempty"`
	Tasks       []domain.Descriptor  `json:"tasks"`
	Axes        []selector.AxisState `json:"axes"`
	Gaps        []selector.GapCount  `json:"gaps,omitempty"`
}

func runNext(ctx context.Context, cmd *cobra.Command, e *env, flags *NextFlags, w io.Writer) error {
	if flags.Count < 1 || flags.Count > constants.MaxDrawCount {
		return errors.NewExitCode2Error(errors.Wrapf(errors.ErrInvalidArgument,
			"--count must be between 1 and %d, got %d", constants.MaxDrawCount, flags.Count))
	}

	logger := GetLogger()

	cfg, err := e.loadEngineConfig(ctx, cmd, &flags.engineFlags)
	if err != nil {
		return err
	}

	gaps := selector.NewGapCounter()
	engine, err := newEngine(cfg, logger, gaps)
	if err != nil {
		return err
	}

	tasks := make([]domain.Descriptor, 0, flags.Count)
	for i := 0; i < flags.Count; i++ {
		if err := ctxutil.Canceled(ctx); err != nil {
			return err
		}
		d := engine.Next()
		logger.Debug().
			Int("task_id", d.TaskID).
			Str("label", d.Label).
			Bool("fallback", d.Fallback).
			Msg("task drawn")
		tasks = append(tasks, d)
	}

	out := tui.NewOutput(w, e.flags.Output)
	if e.flags.Output == OutputJSON {
		return out.JSON(nextResult{
			GeneratedAt: e.clock.Now(),
			Catalog:     catalogSource(cfg),
			Seed:        cfg.Engine.Seed,
			Tasks:       tasks,
			Axes:        engine.Axes(),
			Gaps:        gaps.Snapshot(),
		})
	}

	for _, d := range tasks {
		out.Task(d)
	}
	if total := gaps.Total(); total > 0 {
		out.Warning(fmt.Sprintf("%d lookup gap(s): some axis tasks were replaced by a random task of the same category", total))
	}
	return nil
}
