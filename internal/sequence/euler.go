package sequence

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mrz1836/taskcycle/internal/domain"
	tcerrors "github.com/mrz1836/taskcycle/internal/errors"
)

// Generate returns a closed walk over the complete digraph on positions
// 1..n that starts and ends at start and uses every directed edge exactly once.
//
// The circuit is built with an iterative Hierholzer walk. Among unused
// outgoing edges the smallest destination is always taken first, so the
// same (n, start) yields the same sequence on every call.
//
// Returns ErrInvalidAxis when n < 2 or start is outside [1, n], and
// ErrInternalConsistency if the result fails its own postcondition check.
func Generate(n, start int) (domain.Sequence, error) {
	if n < 2 {
		return nil, tcerrors.Wrapf(tcerrors.ErrInvalidAxis, "axis size must be at least 2, got %d", n)
	}
	if start < 1 || start > n {
		return nil, tcerrors.Wrapf(tcerrors.ErrInvalidAxis, "start position must be in [1, %d], got %d", n, start)
	}

	// next[u] is the index of the next unused neighbour of u in ascending order.
	next := make([]int, n+1)

	stack := make([]int, 1, n*(n-1)+1)
	stack[0] = start
	circuit := make([]int, 0, n*(n-1)+1)

	for len(stack) > 0 {
		v := stack[len(stack)-1]
		if w, ok := popNeighbour(next, v, n); ok {
			stack = append(stack, w)
			continue
		}
		circuit = append(circuit, v)
		stack = stack[:len(stack)-1]
	}

	seq := make(domain.Sequence, 0, len(circuit)-1)
	for i := len(circuit) - 1; i > 0; i-- {
		seq = append(seq, domain.Transition{
			From: domain.Position(circuit[i]),
			To:   domain.Position(circuit[i-1]),
		})
	}

	if err := Verify(seq, n, start); err != nil {
		return nil, err
	}
	return seq, nil
}

// popNeighbour consumes the smallest unused outgoing edge of v.
// Neighbours of v are 1..n without v itself, so the k-th neighbour is
// k+1 when k+1 < v and k+2 otherwise.
func popNeighbour(next []int, v, n int) (int, bool) {
	k := next[v]
	if k >= n-1 {
		return 0, false
	}
	next[v] = k + 1
	w := k + 1
	if w >= v {
		w++
	}
	return w, true
}

// Verify checks that seq is a complete Eulerian circuit for an axis of size n
// starting at start: length n·(n−1), no self-loops, every edge distinct and
// inside the axis, consecutive transitions chained, and the walk closed at start.
//
// Any violation is reported as ErrInternalConsistency.
func Verify(seq domain.Sequence, n, start int) error {
	want := n * (n - 1)
	if len(seq) != want {
		return fmt.Errorf("%w: sequence length %d, want %d", tcerrors.ErrInternalConsistency, len(seq), want)
	}
	if want == 0 {
		return nil
	}

	seen := make(map[domain.Transition]struct{}, want)
	for i, tr := range seq {
		if tr.From < 1 || int(tr.From) > n || tr.To < 1 || int(tr.To) > n {
			return fmt.Errorf("%w: transition %d (%s) outside axis [1, %d]", tcerrors.ErrInternalConsistency, i, tr, n)
		}
		if tr.From == tr.To {
			return fmt.Errorf("%w: transition %d (%s) is a self-loop", tcerrors.ErrInternalConsistency, i, tr)
		}
		if _, dup := seen[tr]; dup {
			return fmt.Errorf("%w: transition %s repeated", tcerrors.ErrInternalConsistency, tr)
		}
		seen[tr] = struct{}{}

		if i > 0 && seq[i-1].To != tr.From {
			return fmt.Errorf("%w: transition %d (%s) does not continue from %d", tcerrors.ErrInternalConsistency, i, tr, seq[i-1].To)
		}
	}

	if int(seq[0].From) != start {
		return fmt.Errorf("%w: sequence starts at %d, want %d", tcerrors.ErrInternalConsistency, seq[0].From, start)
	}
	if seq[len(seq)-1].To != seq[0].From {
		return fmt.Errorf("%w: sequence ends at %d, not closed at %d", tcerrors.ErrInternalConsistency, seq[len(seq)-1].To, seq[0].From)
	}
	return nil
}

// Format renders seq one transition per line as "i: from -> to", with the
// step number right-aligned and counted from 1.
func Format(seq domain.Sequence) string {
	width := len(strconv.Itoa(len(seq)))
	var b strings.Builder
	for i, tr := range seq {
		fmt.Fprintf(&b, "%*d: %d -> %d\n", width, i+1, tr.From, tr.To)
	}
	return b.String()
}
