package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/taskcycle/internal/constants"
	"github.com/mrz1836/taskcycle/internal/ctxutil"
	"github.com/mrz1836/taskcycle/internal/domain"
	"github.com/mrz1836/taskcycle/internal/errors"
	"github.com/mrz1836/taskcycle/internal/sequence"
	"github.com/mrz1836/taskcycle/internal/tui"
)

// SequenceFlags holds flags specific to the sequence command.
type SequenceFlags struct {
	// Verify re-checks the generated circuit before printing it.
	Verify bool
}

// AddSequenceCommand adds the sequence command to the root command.
func AddSequenceCommand(root *cobra.Command, e *env) {
	root.AddCommand(newSequenceCmd(e))
}

func newSequenceCmd(e *env) *cobra.Command {
	flags := &SequenceFlags{}

	cmd := &cobra.Command{
		Use:   "sequence N START",
		Short: "Print the transition circuit for an axis",
		Long: `Print the Eulerian circuit over every ordered pair of N positions,
starting and ending at START. The circuit has N*(N-1) transitions.

Examples:
  taskcycle sequence 6 1
  taskcycle sequence 5 3 --verify
  taskcycle sequence 4 1 --output json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSequence(cmd.Context(), e, flags, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&flags.Verify, "verify", false, "verify the circuit before printing it")

	return cmd
}

// sequenceResult is the JSON envelope of a generated circuit.
type sequenceResult struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Positions   int                 `json:"positions"`
	Start       int                 `json:"start"`
	Length      int                 `json:"length"`
	Verified    bool                `json:"verified"`
	Transitions []domain.Transition `json:"transitions"`
}

func runSequence(ctx context.Context, e *env, flags *SequenceFlags, args []string, w io.Writer) error {
	n, err := parseIntArg("N", args[0])
	if err != nil {
		return err
	}
	start, err := parseIntArg("START", args[1])
	if err != nil {
		return err
	}
	if n > constants.MaxSequenceSize {
		return errors.NewExitCode2Error(errors.Wrapf(errors.ErrInvalidArgument,
			"N must be at most %d, got %d", constants.MaxSequenceSize, n))
	}

	logger := GetLogger()

	seq, err := sequence.Generate(n, start)
	if err != nil {
		return err
	}
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if flags.Verify {
		if err := sequence.Verify(seq, n, start); err != nil {
			logger.Error().Err(err).Int("positions", n).Int("start", start).Msg("generated circuit failed verification")
			return err
		}
	}

	out := tui.NewOutput(w, e.flags.Output)
	if e.flags.Output == OutputJSON {
		return out.JSON(sequenceResult{
			GeneratedAt: e.clock.Now(),
			Positions:   n,
			Start:       start,
			Length:      len(seq),
			Verified:    flags.Verify,
			Transitions: seq,
		})
	}

	if _, err := io.WriteString(w, sequence.Format(seq)); err != nil {
		return err
	}
	if flags.Verify {
		out.Success(fmt.Sprintf("verified: %d transitions cover every ordered pair of %d positions", len(seq), n))
	}
	return nil
}

func parseIntArg(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.NewExitCode2Error(errors.Wrapf(errors.ErrInvalidArgument, "%s must be an integer, got %q", name, value))
	}
	return n, nil
}
