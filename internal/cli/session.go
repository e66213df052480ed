package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/taskcycle/internal/constants"
	"github.com/mrz1836/taskcycle/internal/errors"
	"github.com/mrz1836/taskcycle/internal/selector"
	"github.com/mrz1836/taskcycle/internal/tui"
)

// Session commands read from the operator, one per line.
const (
	sessionAccept = ""
	sessionRedraw = "r"
)

// SessionFlags holds flags specific to the session command.
type SessionFlags struct {
	engineFlags

	// Limit ends the session after this many completed tasks. Zero means no limit.
	Limit int
}

// AddSessionCommand adds the session command to the root command.
func AddSessionCommand(root *cobra.Command, e *env) {
	root.AddCommand(newSessionCmd(e))
}

func newSessionCmd(e *env) *cobra.Command {
	flags := &SessionFlags{}

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Run an interactive recording session",
		Long: `Run an interactive recording session.

The next task is shown and the session waits for the operator:
  Enter   the task was recorded, draw the next one
  r       skip this task and draw another
  q       end the session (end of input or Ctrl+C does the same)

A summary with lookup gaps and axis progress is printed at the end.

Examples:
  taskcycle session
  taskcycle session --limit 50 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd.Context(), cmd, e, flags, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&flags.Limit, "limit", 0, "end after this many completed tasks (0: no limit)")
	addEngineFlags(cmd, &flags.engineFlags)

	return cmd
}

// sessionSummary is reported when a session ends.
type sessionSummary struct {
	SessionID string    `json:"session_id"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Drawn     int       `json:"drawn"`
	Completed int       `json:"completed"`
	Skipped   int       `json:"skipped"`

	// Interrupted is set when a signal ended the session.
	Interrupted bool `json:"interrupted,omitempty"`

	Gaps []selector.GapCount  `json:"gaps,omitempty"`
	Axes []selector.AxisState `json:"axes"`
}

// readLines feeds trimmed input lines to the returned channel until EOF or
// ctx is done.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func runSession(ctx context.Context, cmd *cobra.Command, e *env, flags *SessionFlags, in io.Reader, w io.Writer) error {
	if flags.Limit < 0 {
		return errors.NewExitCode2Error(errors.Wrapf(errors.ErrInvalidArgument,
			"--limit must not be negative, got %d", flags.Limit))
	}

	cfg, err := e.loadEngineConfig(ctx, cmd, &flags.engineFlags)
	if err != nil {
		return err
	}

	summary := sessionSummary{
		SessionID: uuid.NewString(),
		StartedAt: e.clock.Now(),
	}
	logger := GetLogger().With().Str("session_id", summary.SessionID).Logger()

	gaps := selector.NewGapCounter()
	engine, err := newEngine(cfg, logger, gaps)
	if err != nil {
		return err
	}

	out := tui.NewOutput(w, e.flags.Output)
	text := e.flags.Output != OutputJSON

	logger.Info().
		Str("catalog", catalogSource(cfg)).
		Int("limit", flags.Limit).
		Msg("session started")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := readLines(ctx, in)

	if err := sessionLoop(ctx, engine, lines, out, text, flags.Limit, &summary, logger); err != nil {
		return err
	}

	summary.EndedAt = e.clock.Now()
	summary.Gaps = gaps.Snapshot()
	summary.Axes = engine.Axes()

	logger.Info().
		Int("drawn", summary.Drawn).
		Int("completed", summary.Completed).
		Int("skipped", summary.Skipped).
		Bool("interrupted", summary.Interrupted).
		Msg("session ended")

	if !text {
		return out.JSON(summary)
	}
	printSessionSummary(out, summary)
	return nil
}

func sessionLoop(ctx context.Context, engine *selector.Engine, lines <-chan string, out tui.Output,
	text bool, limit int, summary *sessionSummary, logger zerolog.Logger,
) error {
	for limit == 0 || summary.Completed < limit {
		d := engine.Next()
		summary.Drawn++
		out.Task(d)
		logger.Debug().Int("task_id", d.TaskID).Str("label", d.Label).Bool("fallback", d.Fallback).Msg("task drawn")

	prompt:
		for {
			if text {
				out.Info("[enter] recorded  [r] redraw  [q] quit")
			}
			select {
			case <-ctx.Done():
				summary.Interrupted = true
				return nil
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				switch strings.ToLower(line) {
				case sessionAccept:
					summary.Completed++
					logger.Debug().Int("task_id", d.TaskID).Msg("task recorded")
					break prompt
				case sessionRedraw:
					summary.Skipped++
					if d.Transition != nil {
						// Hand the skipped move back to its axis.
						engine.Rewind(d.Label)
					}
					logger.Debug().Int("task_id", d.TaskID).Msg("task skipped")
					break prompt
				case constants.SessionQuitCommand:
					return nil
				default:
					out.Warning(fmt.Sprintf("unknown command %q", line))
				}
			}
		}
	}
	return nil
}

func printSessionSummary(out tui.Output, s sessionSummary) {
	if s.Interrupted {
		out.Warning("session interrupted")
	}
	out.Success(fmt.Sprintf("session %s: %d recorded, %d skipped, %d drawn in %s",
		s.SessionID, s.Completed, s.Skipped, s.Drawn, s.EndedAt.Sub(s.StartedAt).Round(time.Second)))

	if len(s.Gaps) > 0 {
		rows := make([][]string, 0, len(s.Gaps))
		for _, g := range s.Gaps {
			rows = append(rows, []string{g.Label, strconv.Itoa(g.Count)})
		}
		out.Warning("lookup gaps")
		out.Table([]string{"AXIS", "GAPS"}, rows)
	}

	if len(s.Axes) > 0 {
		rows := make([][]string, 0, len(s.Axes))
		for _, a := range s.Axes {
			rows = append(rows, []string{a.Label, fmt.Sprintf("%d/%d", a.Index, a.Cycle)})
		}
		out.Table([]string{"AXIS", "PROGRESS"}, rows)
	}
}
