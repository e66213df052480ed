package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Position is a discrete position on one axis, numbered from 1.
type Position int

// Transition is a directed move between two distinct positions on one axis.
//
// Example JSON representation:
//
//	{"from": 3, "to": 1}
type Transition struct {
	// From is the position the operator starts at.
	From Position `json:"from" yaml:"from"`

	// To is the position the operator moves to.
	To Position `json:"to" yaml:"to"`
}

// String renders the transition as "from->to".
func (t Transition) String() string {
	return fmt.Sprintf("%d->%d", t.From, t.To)
}

// Sequence is an ordered closed walk of transitions on one axis.
type Sequence []Transition

// AxisID identifies one independently cycling axis. A category with a single
// axis has an empty Key; a category split into sub-axes (e.g. a top and a
// bottom slider) uses one Key per sub-axis.
type AxisID struct {
	Category string `json:"category" yaml:"category"`
	Key      string `json:"axis_key,omitempty" yaml:"axis_key,omitempty"`
}

// NewAxisID returns the axis for category and key. Keys are matched without
// regard to case, so the key is stored lower-cased.
func NewAxisID(category, key string) AxisID {
	return AxisID{Category: category, Key: strings.ToLower(key)}
}

// Normalized returns a with its key lower-cased, as NewAxisID would.
func (a AxisID) Normalized() AxisID {
	return NewAxisID(a.Category, a.Key)
}

// Label returns the category name, suffixed with ":Key" for split axes.
// The key is title-cased so "top" renders as "MoveSlider:Top".
func (a AxisID) Label() string {
	if a.Key == "" {
		return a.Category
	}
	// cases.Caser is stateful; build one per call.
	key := cases.Title(language.Und).String(strings.ToLower(a.Key))
	return a.Category + ":" + key
}

// String implements fmt.Stringer.
func (a AxisID) String() string {
	return a.Label()
}
