package ranking

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botirk38/langsim/similarity"
	"github.com/botirk38/langsim/types"
)

// tableScorer looks scores up by candidate code.
func tableScorer(table map[string]float64) Scorer[string] {
	return func(_ context.Context, _, candidate string) (float64, error) {
		score, ok := table[candidate]
		if !ok {
			return 0, fmt.Errorf("%s: %w", candidate, types.ErrEmptyOperand)
		}
		return score, nil
	}
}

func TestRankOrdersByScore(t *testing.T) {
	items := map[string]string{"Q": "Q", "A": "A", "B": "B", "C": "C"}
	r := New(tableScorer(map[string]float64{"A": 0.9, "B": 0.5, "C": 0.2}))

	ranked, err := r.Rank(context.Background(), "Q", items)
	require.NoError(t, err)
	assert.Equal(t, []Neighbor{{"A", 0.9}, {"B", 0.5}, {"C", 0.2}}, ranked)
}

func TestRankTieBreakByCode(t *testing.T) {
	items := map[string]string{"q": "q", "fra": "fra", "deu": "deu", "eng": "eng"}
	r := New(tableScorer(map[string]float64{"fra": 0.5, "deu": 0.5, "eng": 0.7}))

	ranked, err := r.Rank(context.Background(), "q", items)
	require.NoError(t, err)
	assert.Equal(t, []Neighbor{{"eng", 0.7}, {"deu", 0.5}, {"fra", 0.5}}, ranked)
}

func TestScoresSkipsFailedPairs(t *testing.T) {
	items := map[string]string{"q": "q", "a": "a", "b": "b"}
	r := New(tableScorer(map[string]float64{"a": 0.4}))

	res, err := r.Scores(context.Background(), "q", items)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 0.4}, res.Scores)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "b", res.Skipped[0].Code)
	assert.True(t, errors.Is(res.Skipped[0].Err, types.ErrEmptyOperand))
}

func TestScoresMissingQuery(t *testing.T) {
	r := New(tableScorer(nil))
	_, err := r.Scores(context.Background(), "zzz", map[string]string{"a": "a"})
	assert.ErrorIs(t, err, types.ErrMissingLanguage)
}

func TestRankWithF1Scorer(t *testing.T) {
	inventories := map[string]types.PhonemeSet{
		"q": types.NewPhonemeSet("p", "t", "k", "a"),
		"x": types.NewPhonemeSet("p", "t", "k", "a"),
		"y": types.NewPhonemeSet("p", "t", "i"),
		"z": types.NewPhonemeSet("m"),
		"e": {},
	}
	f1 := func(_ context.Context, a, b types.PhonemeSet) (float64, error) {
		return similarity.F1Score(a, b)
	}

	r := New(f1, WithTopK(2))
	ranked, err := r.Rank(context.Background(), "q", inventories)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "x", ranked[0].Code)
	assert.Equal(t, 1.0, ranked[0].Score)
	assert.Equal(t, "y", ranked[1].Code)
}

func TestParallelRankIsDeterministic(t *testing.T) {
	items := make(map[string]int)
	for i := range 200 {
		items[fmt.Sprintf("l%03d", i)] = i % 7
	}
	scorer := func(_ context.Context, q, c int) (float64, error) {
		return 1 / float64(1+abs(q-c)), nil
	}

	want, err := New(scorer).Rank(context.Background(), "l000", items)
	require.NoError(t, err)

	for range 5 {
		got, err := New(scorer, WithJobs(8)).Rank(context.Background(), "l000", items)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestScoresHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(tableScorer(map[string]float64{"a": 1}))
	_, err := r.Scores(ctx, "q", map[string]string{"q": "q", "a": "a"})
	assert.ErrorIs(t, err, context.Canceled)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
