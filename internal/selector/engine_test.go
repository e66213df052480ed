package selector

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskcycle/internal/catalog"
	"github.com/mrz1836/taskcycle/internal/domain"
	tcerrors "github.com/mrz1836/taskcycle/internal/errors"
	"github.com/mrz1836/taskcycle/internal/sequence"
)

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

func knobCatalog(t *testing.T, positions ...int) *catalog.Catalog {
	t.Helper()
	records := []domain.TaskRecord{
		{ID: 1, Category: "PushButton", Instruction: "Push the red button."},
		{ID: 2, Category: "PushButton", Instruction: "Push the blue button."},
	}
	for i, p := range positions {
		records = append(records, domain.TaskRecord{
			ID:             100 + i,
			Category:       "TurnKnob",
			Instruction:    fmt.Sprintf("Turn the knob to position %d.", p),
			TargetPosition: domain.Target(p),
		})
	}
	c, err := catalog.New(records)
	require.NoError(t, err)
	return c
}

func transitionsByLabel(ds []domain.Descriptor) map[string][]domain.Transition {
	out := make(map[string][]domain.Transition)
	for _, d := range ds {
		if d.Transition != nil {
			out[d.Label] = append(out[d.Label], *d.Transition)
		}
	}
	return out
}

func draw(s Selector, n int) []domain.Descriptor {
	out := make([]domain.Descriptor, n)
	for i := range out {
		out[i] = s.Next()
	}
	return out
}

func assertFullCycle(t *testing.T, trs []domain.Transition, n int) {
	t.Helper()
	cycle := n * (n - 1)
	require.GreaterOrEqual(t, len(trs), cycle)

	seen := make(map[domain.Transition]struct{}, cycle)
	for i, tr := range trs[:cycle] {
		assert.NotEqual(t, tr.From, tr.To)
		assert.LessOrEqual(t, int(tr.To), n)
		assert.LessOrEqual(t, int(tr.From), n)
		_, dup := seen[tr]
		assert.False(t, dup, "transition %s repeated within first cycle", tr)
		seen[tr] = struct{}{}
		if i > 0 {
			assert.Equal(t, trs[i-1].To, tr.From, "axis walk breaks at draw %d", i)
		}
	}
	assert.Len(t, seen, cycle)
}

func TestNew_SingleAxisFollowsCircuit(t *testing.T) {
	t.Parallel()

	cat := knobCatalog(t, 1, 2, 3, 4, 5, 6)
	e, err := New(cat, Config{
		Categories: []string{"TurnKnob"},
		Axes:       []AxisConfig{{Category: "TurnKnob", Positions: 6, Start: 1}},
	}, WithSeed(1))
	require.NoError(t, err)

	want, err := sequence.Generate(6, 1)
	require.NoError(t, err)

	for i := 0; i < 2*len(want); i++ {
		d := e.Next()
		tr := want[i%len(want)]

		require.NotNil(t, d.Transition)
		assert.Equal(t, tr, *d.Transition, "draw %d", i)
		assert.Equal(t, "TurnKnob", d.Label)
		assert.Equal(t, "TurnKnob", d.Category)
		assert.Equal(t, fmt.Sprintf("Turn the knob to position %d.", tr.To), d.Instruction)
		assert.Equal(t, 100+int(tr.To)-1, d.TaskID)
		assert.False(t, d.Fallback)
	}
}

func TestNext_Deterministic(t *testing.T) {
	t.Parallel()

	cat := defaultCatalog(t)
	a, err := New(cat, DefaultConfig(), WithSeed(7))
	require.NoError(t, err)
	b, err := New(cat, DefaultConfig(), WithSeed(7))
	require.NoError(t, err)

	assert.Equal(t, a.Axes(), b.Axes(), "start positions come from the seeded source")
	assert.Equal(t, draw(a, 1000), draw(b, 1000))
	assert.Equal(t, a.Axes(), b.Axes())
}

func TestNext_DeterministicWithInjectedRand(t *testing.T) {
	t.Parallel()

	cat := defaultCatalog(t)
	a, err := New(cat, DefaultConfig(), WithRand(rand.New(rand.NewPCG(11, 12))))
	require.NoError(t, err)
	b, err := New(cat, DefaultConfig(), WithRand(rand.New(rand.NewPCG(11, 12))))
	require.NoError(t, err)

	assert.Equal(t, draw(a, 300), draw(b, 300))
}

func TestNext_DifferentSeedsDiverge(t *testing.T) {
	t.Parallel()

	cat := defaultCatalog(t)
	a, err := New(cat, DefaultConfig(), WithSeed(1))
	require.NoError(t, err)
	b, err := New(cat, DefaultConfig(), WithSeed(2))
	require.NoError(t, err)

	assert.NotEqual(t, draw(a, 200), draw(b, 200))
}

func TestNext_CategoriesDrawnUniformly(t *testing.T) {
	t.Parallel()

	cat := defaultCatalog(t)
	e, err := New(cat, DefaultConfig(), WithSeed(99))
	require.NoError(t, err)

	const draws = 16000
	counts := make(map[string]int)
	for _, d := range draw(e, draws) {
		counts[d.Category]++
	}

	require.Len(t, counts, 8)
	expected := draws / 8
	for category, n := range counts {
		// MoveSlider has two axes but is still one entry in the draw.
		assert.InDelta(t, expected, n, 300, "category %s drawn %d times", category, n)
	}
}

func TestNext_EveryAxisCoversEveryTransition(t *testing.T) {
	t.Parallel()

	cat := defaultCatalog(t)
	e, err := New(cat, DefaultConfig(), WithSeed(3))
	require.NoError(t, err)

	byLabel := transitionsByLabel(draw(e, 5000))

	require.Len(t, byLabel, 3)
	assertFullCycle(t, byLabel["TurnKnob"], 6)
	assertFullCycle(t, byLabel["MoveSlider:Top"], 5)
	assertFullCycle(t, byLabel["MoveSlider:Bottom"], 5)
}

func TestNext_SplitAxesResolveTheirOwnRecords(t *testing.T) {
	t.Parallel()

	cat := defaultCatalog(t)
	cfg := DefaultConfig()
	cfg.Categories = []string{"MoveSlider"}
	e, err := New(cat, cfg, WithSeed(5))
	require.NoError(t, err)

	for _, d := range draw(e, 400) {
		require.NotNil(t, d.Transition)
		assert.Equal(t, "MoveSlider", d.Category)
		assert.False(t, d.Fallback)

		switch d.Label {
		case "MoveSlider:Top":
			assert.Equal(t, fmt.Sprintf("Move the top slider to position %d.", d.Transition.To), d.Instruction)
		case "MoveSlider:Bottom":
			assert.Equal(t, fmt.Sprintf("Move the bottom slider to position %d.", d.Transition.To), d.Instruction)
		default:
			t.Fatalf("unexpected label %q", d.Label)
		}
	}
}

func TestNext_SimpleCategories(t *testing.T) {
	t.Parallel()

	cat := defaultCatalog(t)
	cfg := DefaultConfig()
	cfg.Categories = []string{"PushButton"}
	e, err := New(cat, cfg, WithSeed(8))
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, d := range draw(e, 200) {
		assert.Nil(t, d.Transition)
		assert.Equal(t, "PushButton", d.Label)
		assert.GreaterOrEqual(t, d.TaskID, 9)
		assert.LessOrEqual(t, d.TaskID, 12)
		seen[d.TaskID] = true
	}
	assert.Len(t, seen, 4, "every button task is eventually sampled")
	assert.Empty(t, e.Axes())
}

func TestNext_LookupGapFallsBack(t *testing.T) {
	t.Parallel()

	// Position 2 has no task text.
	cat := knobCatalog(t, 1, 3)
	var logs bytes.Buffer
	gaps := NewGapCounter()

	e, err := New(cat, Config{
		Categories: []string{"TurnKnob"},
		Axes:       []AxisConfig{{Category: "TurnKnob", Positions: 3, Start: 1}},
	}, WithSeed(4), WithLogger(zerolog.New(&logs)), WithGapObserver(gaps))
	require.NoError(t, err)

	ds := draw(e, 12)

	fallbacks := 0
	for _, d := range ds {
		require.NotNil(t, d.Transition)
		assert.Equal(t, "TurnKnob", d.Category)
		assert.Contains(t, []int{100, 101}, d.TaskID)
		if d.Transition.To == 2 {
			assert.True(t, d.Fallback)
			fallbacks++
		} else {
			assert.False(t, d.Fallback)
		}
	}

	// Two of the six transitions end at 2, over two full cycles.
	assert.Equal(t, 4, fallbacks)
	assert.Equal(t, 4, gaps.Total())
	assert.Equal(t, 4, gaps.Count("TurnKnob"))
	assert.Equal(t, []GapCount{{Label: "TurnKnob", Count: 4}}, gaps.Snapshot())
	assert.Contains(t, logs.String(), "lookup gap")
	assert.Contains(t, logs.String(), `"label":"TurnKnob"`)
	assert.Contains(t, logs.String(), `"to":2`)
}

func TestNew_ConfigurationErrors(t *testing.T) {
	t.Parallel()

	cat := defaultCatalog(t)
	empty, err := catalog.New(nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		cat     *catalog.Catalog
		cfg     Config
		wantErr error
	}{
		{"nil catalog", nil, DefaultConfig(), tcerrors.ErrConfigNil},
		{"empty catalog", empty, DefaultConfig(), tcerrors.ErrEmptyCategorySet},
		{"explicit empty set", cat, Config{Categories: []string{}}, tcerrors.ErrEmptyCategorySet},
		{"unknown category", cat, Config{Categories: []string{"PushButton", "Juggle"}}, tcerrors.ErrUnknownCategory},
		{
			"axis outside category set",
			cat,
			Config{Categories: []string{"PushButton"}, Axes: []AxisConfig{{Category: "TurnKnob"}}},
			tcerrors.ErrUnknownCategory,
		},
		{
			"axis declared twice",
			cat,
			Config{Axes: []AxisConfig{{Category: "TurnKnob"}, {Category: "TurnKnob", Positions: 6}}},
			tcerrors.ErrConfigInvalid,
		},
		{"single position", cat, Config{Axes: []AxisConfig{{Category: "TurnKnob", Positions: 1}}}, tcerrors.ErrInvalidAxis},
		{"negative positions", cat, Config{Axes: []AxisConfig{{Category: "TurnKnob", Positions: -4}}}, tcerrors.ErrInvalidAxis},
		{"start above size", cat, Config{Axes: []AxisConfig{{Category: "TurnKnob", Positions: 6, Start: 7}}}, tcerrors.ErrInvalidAxis},
		{"negative start", cat, Config{Axes: []AxisConfig{{Category: "TurnKnob", Start: -1}}}, tcerrors.ErrInvalidAxis},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e, err := New(tc.cat, tc.cfg, WithSeed(1))

			require.ErrorIs(t, err, tc.wantErr)
			assert.True(t, tcerrors.IsConfiguration(err))
			assert.Nil(t, e)
		})
	}
}

func TestNew_AxisWithoutTargetsDegrades(t *testing.T) {
	t.Parallel()

	cat := defaultCatalog(t)
	var logs bytes.Buffer

	e, err := New(cat, Config{
		Categories: []string{"PushButton"},
		Axes:       []AxisConfig{{Category: "PushButton", Positions: 4}},
	}, WithSeed(2), WithLogger(zerolog.New(&logs)))
	require.NoError(t, err)

	assert.Empty(t, e.Axes())
	for _, d := range draw(e, 50) {
		assert.Nil(t, d.Transition)
		assert.Equal(t, "PushButton", d.Category)
	}
	assert.Contains(t, logs.String(), "treating category as simple")
}

func TestNew_DiscoveredSinglePositionDegrades(t *testing.T) {
	t.Parallel()

	cat := knobCatalog(t, 1)
	e, err := New(cat, DefaultConfig(), WithSeed(2))
	require.NoError(t, err)

	assert.Empty(t, e.Axes())
	for _, d := range draw(e, 50) {
		assert.Nil(t, d.Transition)
	}
}

func TestNew_WithoutDiscoveryAllCategoriesAreSimple(t *testing.T) {
	t.Parallel()

	e, err := New(defaultCatalog(t), Config{}, WithSeed(2))
	require.NoError(t, err)

	assert.Empty(t, e.Axes())
	assert.Len(t, e.Categories(), 8)
}

func TestNew_StartDrawnFromSource(t *testing.T) {
	t.Parallel()

	e, err := New(defaultCatalog(t), DefaultConfig(), WithSeed(10))
	require.NoError(t, err)

	axes := e.Axes()
	require.Len(t, axes, 3)
	for _, st := range axes {
		assert.GreaterOrEqual(t, st.Start, 1)
		assert.LessOrEqual(t, st.Start, st.Positions)
		assert.Equal(t, st.Positions*(st.Positions-1), st.Cycle)
		assert.Equal(t, 0, st.Index)
		assert.Nil(t, st.Last)
	}
	assert.Equal(t, []string{"MoveSlider:Bottom", "MoveSlider:Top", "TurnKnob"},
		[]string{axes[0].Label, axes[1].Label, axes[2].Label})
}

func TestNew_DuplicateCategoriesCountOnce(t *testing.T) {
	t.Parallel()

	e, err := New(defaultCatalog(t), Config{Categories: []string{"PushButton", "MoveBox", "PushButton"}}, WithSeed(1))
	require.NoError(t, err)

	assert.Equal(t, []string{"PushButton", "MoveBox"}, e.Categories())
}

func TestLastTransition(t *testing.T) {
	t.Parallel()

	cat := knobCatalog(t, 1, 2, 3, 4)
	e, err := New(cat, Config{
		Categories: []string{"TurnKnob"},
		Axes:       []AxisConfig{{Category: "TurnKnob", Start: 2}},
	}, WithSeed(1))
	require.NoError(t, err)

	_, ok := e.LastTransition("TurnKnob")
	assert.False(t, ok)

	var last domain.Descriptor
	for i := 0; i < 5; i++ {
		last = e.Next()
	}

	tr, ok := e.LastTransition("TurnKnob")
	require.True(t, ok)
	assert.Equal(t, *last.Transition, tr)

	_, ok = e.LastTransition("PushButton")
	assert.False(t, ok)

	st := e.Axes()[0]
	assert.Equal(t, 4, st.Positions)
	assert.Equal(t, 2, st.Start)
	assert.Equal(t, 5, st.Index)
	require.NotNil(t, st.Last)
	assert.Equal(t, tr, *st.Last)
}

func TestLocked_SerializesConcurrentCallers(t *testing.T) {
	t.Parallel()

	cat := knobCatalog(t, 1, 2, 3, 4, 5, 6)
	e, err := New(cat, Config{
		Categories: []string{"TurnKnob"},
		Axes:       []AxisConfig{{Category: "TurnKnob", Start: 1}},
	}, WithSeed(1))
	require.NoError(t, err)
	l := NewLocked(e)

	const workers, perWorker = 8, 100
	var (
		mu     sync.Mutex
		counts = make(map[domain.Transition]int)
		wg     sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				d := l.Next()
				mu.Lock()
				counts[*d.Transition]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	total := 0
	for tr, n := range counts {
		total += n
		// 800 draws over a 30-transition cycle: 26 full cycles plus 20.
		assert.Contains(t, []int{26, 27}, n, "transition %s", tr)
	}
	assert.Equal(t, workers*perWorker, total)
	assert.Len(t, counts, 30)

	_, ok := l.LastTransition("TurnKnob")
	assert.True(t, ok)
	assert.Equal(t, 800%30, l.Axes()[0].Index)
}

func TestNew_AxisKeyIgnoresCase(t *testing.T) {
	t.Parallel()

	cat, err := catalog.New([]domain.TaskRecord{
		{ID: 10, Category: "MoveSlider", AxisKey: "top", TargetPosition: domain.Target(1), Instruction: "Move the top slider to position 1."},
		{ID: 11, Category: "MoveSlider", AxisKey: "top", TargetPosition: domain.Target(2), Instruction: "Move the top slider to position 2."},
		{ID: 12, Category: "MoveSlider", AxisKey: "top", TargetPosition: domain.Target(3), Instruction: "Move the top slider to position 3."},
	})
	require.NoError(t, err)
	var logs bytes.Buffer

	e, err := New(cat, Config{
		Categories: []string{"MoveSlider"},
		Axes:       []AxisConfig{{Category: "MoveSlider", AxisKey: "Top", Start: 1}},
	}, WithSeed(3), WithLogger(zerolog.New(&logs)))
	require.NoError(t, err)

	axes := e.Axes()
	require.Len(t, axes, 1)
	assert.Equal(t, "MoveSlider:Top", axes[0].Label)
	assert.Equal(t, 3, axes[0].Positions)
	assert.NotContains(t, logs.String(), "treating category as simple")

	for _, d := range draw(e, 6) {
		require.NotNil(t, d.Transition)
		assert.False(t, d.Fallback)
	}

	_, err = New(cat, Config{
		Categories: []string{"MoveSlider"},
		Axes: []AxisConfig{
			{Category: "MoveSlider", AxisKey: "top"},
			{Category: "MoveSlider", AxisKey: "TOP"},
		},
	}, WithSeed(3))
	require.ErrorIs(t, err, tcerrors.ErrConfigInvalid)
}

func TestRewind_RepeatsSkippedTransition(t *testing.T) {
	t.Parallel()

	cat := knobCatalog(t, 1, 2, 3)
	e, err := New(cat, Config{
		Categories: []string{"TurnKnob"},
		Axes:       []AxisConfig{{Category: "TurnKnob", Start: 1}},
	}, WithSeed(5))
	require.NoError(t, err)

	assert.False(t, e.Rewind("TurnKnob"), "nothing drawn yet")
	assert.False(t, e.Rewind("PushButton"))

	first := e.Next()
	require.NotNil(t, first.Transition)
	require.True(t, e.Rewind(first.Label))
	_, ok := e.LastTransition("TurnKnob")
	assert.False(t, ok)

	again := e.Next()
	require.NotNil(t, again.Transition)
	assert.Equal(t, *first.Transition, *again.Transition)

	// One skip does not cost the cycle a transition.
	trs := []domain.Transition{*again.Transition}
	for _, d := range draw(e, 5) {
		trs = append(trs, *d.Transition)
	}
	assertFullCycle(t, trs, 3)
	assert.Equal(t, 0, e.Axes()[0].Index)
}

func TestLocked_Rewind(t *testing.T) {
	t.Parallel()

	e, err := New(knobCatalog(t, 1, 2, 3, 4), Config{
		Categories: []string{"TurnKnob"},
		Axes:       []AxisConfig{{Category: "TurnKnob", Start: 2}},
	}, WithSeed(1))
	require.NoError(t, err)
	l := NewLocked(e)

	d := l.Next()
	require.True(t, l.Rewind(d.Label))
	assert.Equal(t, *d.Transition, *l.Next().Transition)
	assert.False(t, l.Rewind("MoveBox"))
}

func TestNoopGapObserver(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		NoopGapObserver{}.LookupGap("TurnKnob", domain.Transition{From: 1, To: 2})
	})
}
