package sequence

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskcycle/internal/domain"
	tcerrors "github.com/mrz1836/taskcycle/internal/errors"
)

func TestGenerate_TwoPositions(t *testing.T) {
	t.Parallel()

	seq, err := Generate(2, 1)

	require.NoError(t, err)
	assert.Equal(t, domain.Sequence{{From: 1, To: 2}, {From: 2, To: 1}}, seq)
}

func TestGenerate_ThreePositionsStartTwo(t *testing.T) {
	t.Parallel()

	seq, err := Generate(3, 2)
	require.NoError(t, err)
	require.Len(t, seq, 6)

	assert.ElementsMatch(t, []domain.Transition{
		{From: 1, To: 2}, {From: 1, To: 3},
		{From: 2, To: 1}, {From: 2, To: 3},
		{From: 3, To: 1}, {From: 3, To: 2},
	}, seq)
	assert.Equal(t, domain.Position(2), seq[0].From)
	assert.Equal(t, domain.Position(2), seq[5].To)
}

func TestGenerate_ExhaustiveCoverage(t *testing.T) {
	t.Parallel()

	for n := 2; n <= 9; n++ {
		for start := 1; start <= n; start++ {
			t.Run(fmt.Sprintf("n=%d/start=%d", n, start), func(t *testing.T) {
				t.Parallel()

				seq, err := Generate(n, start)
				require.NoError(t, err)
				require.Len(t, seq, n*(n-1))

				seen := make(map[domain.Transition]int, len(seq))
				for _, tr := range seq {
					seen[tr]++
				}
				for i := 1; i <= n; i++ {
					for j := 1; j <= n; j++ {
						if i == j {
							continue
						}
						assert.Equal(t, 1, seen[domain.Transition{From: domain.Position(i), To: domain.Position(j)}],
							"edge %d->%d", i, j)
					}
				}

				for i := 1; i < len(seq); i++ {
					assert.Equal(t, seq[i-1].To, seq[i].From, "walk breaks at step %d", i)
				}
				assert.Equal(t, domain.Position(start), seq[0].From)
				assert.Equal(t, domain.Position(start), seq[len(seq)-1].To)
			})
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := Generate(6, 1)
	require.NoError(t, err)
	second, err := Generate(6, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerate_LargeAxis(t *testing.T) {
	t.Parallel()

	seq, err := Generate(60, 17)

	require.NoError(t, err)
	assert.Len(t, seq, 60*59)
}

func TestGenerate_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		n     int
		start int
	}{
		{"zero positions", 0, 1},
		{"one position", 1, 1},
		{"negative size", -3, 1},
		{"start zero", 4, 0},
		{"start above size", 4, 5},
		{"negative start", 4, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			seq, err := Generate(tc.n, tc.start)

			require.Error(t, err)
			require.ErrorIs(t, err, tcerrors.ErrInvalidAxis)
			assert.True(t, tcerrors.IsConfiguration(err))
			assert.Nil(t, seq)
		})
	}
}

func TestVerify_DetectsBrokenSequences(t *testing.T) {
	t.Parallel()

	valid := domain.Sequence{{From: 1, To: 2}, {From: 2, To: 1}}
	require.NoError(t, Verify(valid, 2, 1))

	tests := []struct {
		name  string
		seq   domain.Sequence
		n     int
		start int
		msg   string
	}{
		{"too short", domain.Sequence{{From: 1, To: 2}}, 2, 1, "length"},
		{"self loop", domain.Sequence{{From: 1, To: 1}, {From: 1, To: 2}}, 2, 1, "self-loop"},
		{"duplicate", domain.Sequence{{From: 1, To: 2}, {From: 1, To: 2}}, 2, 1, "repeated"},
		{"out of range", domain.Sequence{{From: 1, To: 3}, {From: 3, To: 1}}, 2, 1, "outside axis"},
		{"wrong start", valid, 2, 2, "starts at"},
		{
			"broken chain",
			domain.Sequence{{From: 1, To: 2}, {From: 1, To: 3}, {From: 2, To: 1}, {From: 2, To: 3}, {From: 3, To: 1}, {From: 3, To: 2}},
			3, 1, "does not continue",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := Verify(tc.seq, tc.n, tc.start)

			require.ErrorIs(t, err, tcerrors.ErrInternalConsistency)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestFormat_Golden(t *testing.T) {
	t.Parallel()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	cases := []struct {
		name  string
		n     int
		start int
	}{
		{"n3_start2", 3, 2},
		{"n4_start1", 4, 1},
	}

	for _, tc := range cases {
		seq, err := Generate(tc.n, tc.start)
		require.NoError(t, err)
		g.Assert(t, tc.name, []byte(Format(seq)))
	}
}

func BenchmarkGenerate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Generate(30, 1); err != nil {
			b.Fatal(err)
		}
	}
}
