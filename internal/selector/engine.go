// Package selector provides the task selection engine: an unending,
// deterministic-when-seeded iterator over task descriptors.
//
// Each step draws a category uniformly from the configured set. Axis-linked
// categories advance their axis cursor and resolve the transition's
// destination to a catalog record; simple categories sample a record
// uniformly. Every axis visits each directed transition exactly once per
// cycle.
//
// Rewind undoes the last step of one axis, so a skipped task leaves that
// axis where it was.
//
// An Engine is not safe for concurrent use. Locked wraps one with a mutex
// for callers that share an engine between goroutines; the CLI commands
// drive a single goroutine and use the Engine directly.
//
// Import rules:
//   - CAN import: internal/catalog, internal/domain, internal/errors, internal/sequence, std lib
//   - MUST NOT import: internal/cli, internal/config
package selector

import (
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/mrz1836/taskcycle/internal/catalog"
	"github.com/mrz1836/taskcycle/internal/domain"
	tcerrors "github.com/mrz1836/taskcycle/internal/errors"
	"github.com/mrz1836/taskcycle/internal/sequence"
)

// seedStream is the fixed PCG stream used by WithSeed.
const seedStream = 0x9e3779b97f4a7c15

// Selector produces the next task descriptor. Engine and Locked implement it.
type Selector interface {
	Next() domain.Descriptor
}

// Engine multiplexes axis cursors and simple categories behind one iterator.
type Engine struct {
	catalog *catalog.Catalog
	rng     *rand.Rand
	logger  zerolog.Logger
	gaps    GapObserver

	units  []*unit
	axes   []*axis
	byAxis map[string]*axis
}

// unit is one entry of the category draw. A unit without axes is simple.
type unit struct {
	category string
	pool     []domain.TaskRecord
	axes     []*axis
}

type axis struct {
	id        domain.AxisID
	label     string
	positions int
	start     int
	cursor    *sequence.Cursor
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand injects the random source. The engine takes ownership of r.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithSeed seeds a PCG source so two engines built from the same catalog,
// config and seed produce identical output.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewPCG(seed, seedStream)) //nolint:gosec // reproducibility, not secrecy
	}
}

// WithLogger sets the logger used for construction details and lookup gaps.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithGapObserver sets the observer notified on every lookup gap.
func WithGapObserver(obs GapObserver) Option {
	return func(e *Engine) {
		if obs != nil {
			e.gaps = obs
		}
	}
}

// New builds an engine over cat.
//
// Construction is where every fatal condition is caught:
//   - an empty category set returns ErrEmptyCategorySet
//   - a category without records returns ErrUnknownCategory
//   - an invalid axis size or start returns ErrInvalidAxis
//
// An axis for which the catalog holds no target positions at all is left
// out and its category degrades to simple uniform sampling.
// Without WithSeed or WithRand the engine uses an unseeded source.
func New(cat *catalog.Catalog, cfg Config, opts ...Option) (*Engine, error) {
	if cat == nil {
		return nil, tcerrors.Wrap(tcerrors.ErrConfigNil, "catalog is nil")
	}

	e := &Engine{
		catalog: cat,
		logger:  zerolog.Nop(),
		gaps:    NoopGapObserver{},
		byAxis:  make(map[string]*axis),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // reproducibility, not secrecy
	}

	categories, err := resolveCategories(cat, cfg.Categories)
	if err != nil {
		return nil, err
	}

	explicit, err := groupAxes(cfg.Axes, categories)
	if err != nil {
		return nil, err
	}

	for _, category := range categories {
		// Validated by resolveCategories.
		pool, _ := cat.ByCategory(category)
		u := &unit{category: category, pool: pool}

		configs, ok := explicit[category]
		if !ok && cfg.DiscoverAxes {
			configs = discoverAxes(cat, category)
		}
		for _, ac := range configs {
			a, buildErr := e.buildAxis(ac, ok)
			if buildErr != nil {
				return nil, buildErr
			}
			if a == nil {
				continue
			}
			u.axes = append(u.axes, a)
			e.axes = append(e.axes, a)
			e.byAxis[a.label] = a
		}
		e.units = append(e.units, u)
	}

	e.logger.Debug().
		Int("categories", len(e.units)).
		Int("axes", len(e.axes)).
		Int("records", cat.Len()).
		Msg("task selection engine ready")

	return e, nil
}

// resolveCategories returns the configured category set in order, without
// duplicates, checking every entry against the catalog.
func resolveCategories(cat *catalog.Catalog, configured []string) ([]string, error) {
	if configured == nil {
		configured = cat.Categories()
	}

	seen := make(map[string]struct{}, len(configured))
	out := make([]string, 0, len(configured))
	for _, category := range configured {
		if _, dup := seen[category]; dup {
			continue
		}
		seen[category] = struct{}{}
		if !cat.Has(category) {
			return nil, tcerrors.Wrapf(tcerrors.ErrUnknownCategory, "category %q has no records", category)
		}
		out = append(out, category)
	}

	if len(out) == 0 {
		return nil, tcerrors.ErrEmptyCategorySet
	}
	return out, nil
}

// groupAxes indexes explicit axis configs by category.
func groupAxes(configs []AxisConfig, categories []string) (map[string][]AxisConfig, error) {
	inSet := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		inSet[c] = struct{}{}
	}

	grouped := make(map[string][]AxisConfig)
	seen := make(map[domain.AxisID]struct{})
	for _, ac := range configs {
		if _, ok := inSet[ac.Category]; !ok {
			return nil, tcerrors.Wrapf(tcerrors.ErrUnknownCategory, "axis category %q is not in the category set", ac.Category)
		}
		id := domain.NewAxisID(ac.Category, ac.AxisKey)
		if _, dup := seen[id]; dup {
			return nil, tcerrors.Wrapf(tcerrors.ErrConfigInvalid, "axis %s declared twice", id.Label())
		}
		seen[id] = struct{}{}
		grouped[ac.Category] = append(grouped[ac.Category], ac)
	}
	return grouped, nil
}

func discoverAxes(cat *catalog.Catalog, category string) []AxisConfig {
	ids := cat.Axes(category)
	out := make([]AxisConfig, 0, len(ids))
	for _, id := range ids {
		out = append(out, AxisConfig{Category: id.Category, AxisKey: id.Key})
	}
	return out
}

// buildAxis generates the circuit for one axis. It returns nil, nil when
// the axis is excluded and its category should fall back to simple sampling.
func (e *Engine) buildAxis(ac AxisConfig, explicit bool) (*axis, error) {
	id := domain.NewAxisID(ac.Category, ac.AxisKey)
	label := id.Label()

	maxTarget := e.catalog.MaxTarget(id)
	if maxTarget == 0 {
		e.logger.Warn().
			Str("axis", label).
			Msg("no target positions in catalog for axis; treating category as simple")
		return nil, nil
	}

	positions := ac.Positions
	if positions == 0 {
		positions = maxTarget
	}
	if !explicit && positions < 2 {
		e.logger.Warn().
			Str("axis", label).
			Int("positions", positions).
			Msg("axis has a single position; treating category as simple")
		return nil, nil
	}
	if positions < 2 {
		return nil, tcerrors.Wrapf(tcerrors.ErrInvalidAxis, "axis %s has %d positions", label, positions)
	}

	start := ac.Start
	if start == 0 {
		start = e.rng.IntN(positions) + 1
	}

	seq, err := sequence.Generate(positions, start)
	if err != nil {
		return nil, tcerrors.Wrapf(err, "axis %s", label)
	}
	cursor, err := sequence.NewCursor(seq)
	if err != nil {
		return nil, tcerrors.Wrapf(err, "axis %s", label)
	}

	if maxTarget > positions {
		e.logger.Warn().
			Str("axis", label).
			Int("positions", positions).
			Int("max_target", maxTarget).
			Msg("catalog has targets beyond the configured axis size; they are only reachable through fallback")
	}

	e.logger.Debug().
		Str("axis", label).
		Int("positions", positions).
		Int("start", start).
		Int("cycle", cursor.Len()).
		Msg("axis sequence generated")

	return &axis{
		id:        id,
		label:     label,
		positions: positions,
		start:     start,
		cursor:    cursor,
	}, nil
}

// Next returns the next task descriptor. It never fails on an engine
// returned by New.
func (e *Engine) Next() domain.Descriptor {
	u := e.units[e.rng.IntN(len(e.units))]
	if len(u.axes) == 0 {
		return describe(u.category, e.pick(u.pool), nil, false)
	}

	a := u.axes[0]
	if len(u.axes) > 1 {
		a = u.axes[e.rng.IntN(len(u.axes))]
	}

	tr := a.cursor.Next()
	matches := e.catalog.ByAxisTarget(a.id, tr.To)
	if len(matches) > 0 {
		return describe(a.label, e.pick(matches), &tr, false)
	}

	e.logger.Warn().
		Str("label", a.label).
		Int("from", int(tr.From)).
		Int("to", int(tr.To)).
		Msg("lookup gap: no task for transition destination, sampling whole category")
	e.gaps.LookupGap(a.label, tr)

	return describe(a.label, e.pick(u.pool), &tr, true)
}

func (e *Engine) pick(recs []domain.TaskRecord) domain.TaskRecord {
	return recs[e.rng.IntN(len(recs))]
}

func describe(label string, rec domain.TaskRecord, tr *domain.Transition, fallback bool) domain.Descriptor {
	return domain.Descriptor{
		TaskID:      rec.ID,
		Label:       label,
		Category:    rec.Category,
		Instruction: rec.Instruction,
		Transition:  tr,
		Fallback:    fallback,
	}
}

// LastTransition returns the transition most recently demonstrated on the
// axis with the given label (e.g. "TurnKnob" or "MoveSlider:Top").
// The boolean is false for unknown labels and for axes not yet drawn.
func (e *Engine) LastTransition(label string) (domain.Transition, bool) {
	a, ok := e.byAxis[label]
	if !ok {
		return domain.Transition{}, false
	}
	return a.cursor.Last()
}

// Rewind undoes the most recent cursor step on the axis with the given
// label, so the next draw on that axis repeats its transition. A skipped
// task therefore leaves the axis where it was. It reports false for unknown
// labels and when the axis has no step left to undo.
func (e *Engine) Rewind(label string) bool {
	a, ok := e.byAxis[label]
	if !ok {
		return false
	}
	return a.cursor.Back()
}

// Categories returns the category set in draw order.
func (e *Engine) Categories() []string {
	out := make([]string, len(e.units))
	for i, u := range e.units {
		out[i] = u.category
	}
	return out
}

// AxisState describes one axis for introspection.
type AxisState struct {
	Label     string             `json:"label"`
	Axis      domain.AxisID      `json:"axis"`
	Positions int                `json:"positions"`
	Start     int                `json:"start"`
	Cycle     int                `json:"cycle"`
	Index     int                `json:"index"`
	Last      *domain.Transition `json:"last,omitempty"`
}

// Axes returns the state of every axis in construction order.
func (e *Engine) Axes() []AxisState {
	out := make([]AxisState, 0, len(e.axes))
	for _, a := range e.axes {
		st := AxisState{
			Label:     a.label,
			Axis:      a.id,
			Positions: a.positions,
			Start:     a.start,
			Cycle:     a.cursor.Len(),
			Index:     a.cursor.Index(),
		}
		if last, ok := a.cursor.Last(); ok {
			st.Last = &last
		}
		out = append(out, st)
	}
	return out
}
