package sequence

import (
	"github.com/mrz1836/taskcycle/internal/domain"
	tcerrors "github.com/mrz1836/taskcycle/internal/errors"
)

// Cursor walks a sequence cyclically. After Len calls to Next the exact same
// transitions repeat in the same order.
//
// A Cursor is not safe for concurrent use.
type Cursor struct {
	seq     domain.Sequence
	index   int
	last    domain.Transition
	hasLast bool
	steps   int
}

// NewCursor returns a cursor positioned at the first transition of seq.
// The sequence is copied, so later changes to seq do not affect the cursor.
func NewCursor(seq domain.Sequence) (*Cursor, error) {
	if len(seq) == 0 {
		return nil, tcerrors.Wrap(tcerrors.ErrInvalidAxis, "cursor requires a non-empty sequence")
	}
	owned := make(domain.Sequence, len(seq))
	copy(owned, seq)
	return &Cursor{seq: owned}, nil
}

// Next returns the transition at the current index and advances the index,
// wrapping to the start after the last transition. It never fails.
func (c *Cursor) Next() domain.Transition {
	tr := c.seq[c.index]
	c.index = (c.index + 1) % len(c.seq)
	c.last = tr
	c.hasLast = true
	c.steps++
	return tr
}

// Back steps the index back by one so the transition most recently returned
// by Next is returned again. It reports false, leaving the cursor unchanged,
// when every Next has already been undone.
func (c *Cursor) Back() bool {
	if c.steps == 0 {
		return false
	}
	c.steps--
	c.index = (c.index - 1 + len(c.seq)) % len(c.seq)
	if c.steps == 0 {
		c.last, c.hasLast = domain.Transition{}, false
		return true
	}
	c.last = c.seq[(c.index-1+len(c.seq))%len(c.seq)]
	return true
}

// Last returns the most recently returned transition. The boolean is false
// until Next has been called at least once.
func (c *Cursor) Last() (domain.Transition, bool) {
	return c.last, c.hasLast
}

// Len returns the cycle length.
func (c *Cursor) Len() int {
	return len(c.seq)
}

// Index returns the position of the transition the next call will return.
func (c *Cursor) Index() int {
	return c.index
}
