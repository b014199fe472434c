package langsim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/botirk38/langsim/backends/inmemory"
	"github.com/botirk38/langsim/options"
	"github.com/botirk38/langsim/types"
)

func testDataset() *types.Dataset {
	return &types.Dataset{
		Inventories: map[string]types.PhonemeSet{
			"eng": types.NewPhonemeSet("p", "b", "t", "d", "k"),
			"fra": types.NewPhonemeSet("p", "b", "t", "d", "ʁ"),
			"deu": types.NewPhonemeSet("p", "b", "t", "k", "x"),
			"zzz": types.NewPhonemeSet("p", "b"),
		},
		Names: map[string]string{"eng": "English", "fra": "French", "deu": "German"},
		PhonemeFeatures: map[string][]float64{
			"p": {1, 0, 0},
			"b": {1, 1, 0},
			"t": {0, 0, 1},
			"d": {0, 1, 1},
			"k": {1, 0, 1},
		},
		Typology: map[string]types.TypologyRecord{
			"eng": {Genealogy: types.Genealogy{Family: "Indo-European", Genus: "Germanic"}, Features: []float64{1, 0, 1}},
			"deu": {Genealogy: types.Genealogy{Family: "Indo-European", Genus: "Germanic"}, Features: []float64{1, 0, 1}},
			"fra": {Genealogy: types.Genealogy{Family: "Indo-European", Genus: "Romance"}, Features: []float64{0, 1, 1}},
			"zzz": {Genealogy: types.Genealogy{Family: "Isolate", Genus: "Isolate"}, Features: []float64{0, 0, 0}},
		},
		Orthography: map[string]types.OrthographyRecord{
			"English": {Freqs: types.CharFreqs{'a': 5, 'b': 3}, Size: 100},
			"French":  {Freqs: types.CharFreqs{'a': 5, 'b': 3, 'é': 1}, Size: 100},
			"German":  {Freqs: types.CharFreqs{'a': 5, 'ä': 2}, Size: 100},
		},
		Codes: types.CodeMap{
			ThreeToOne: map[string]string{"eng": "en", "fra": "fr", "deu": "de"},
			WikiNames:  map[string]string{"en": "English", "fr": "French", "de": "German"},
		},
	}
}

func newTestScorer(t *testing.T, data *types.Dataset, opts ...options.Option) *Scorer {
	t.Helper()
	s, err := New(data, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var (
	orthEngFra = 34 / math.Sqrt(34*35)
	orthEngDeu = 25 / math.Sqrt(34*29)
)

func TestPairwise(t *testing.T) {
	s := newTestScorer(t, testDataset())
	ctx := context.Background()

	m, err := s.Pairwise(ctx, "eng", "fra")
	require.NoError(t, err)
	assert.Equal(t, "French", m.Lang.WikiName)
	assert.Equal(t, "French", m.Lang.Name)
	assert.InDelta(t, 0.8, m.Phon, 1e-9)
	assert.InDelta(t, orthEngFra, m.Orth, 1e-9)
	assert.InDelta(t, 0.5, m.Gen, 1e-9)
	assert.InDelta(t, (0.8+orthEngFra+0.5)/3, m.Aggregate, 1e-9)

	_, err = s.Pairwise(ctx, "eng", "zzz")
	assert.True(t, errors.Is(err, types.ErrUnmappableCode))
}

func TestSignals(t *testing.T) {
	s := newTestScorer(t, testDataset())
	ctx := context.Background()

	gen, err := s.Genealogical(ctx, "eng", "deu")
	require.NoError(t, err)
	assert.Equal(t, 1.0, gen)

	orth, err := s.Orthographic(ctx, "eng", "deu")
	require.NoError(t, err)
	assert.InDelta(t, orthEngDeu, orth, 1e-9)

	typ, err := s.Typological(ctx, "eng", "deu")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, typ, 1e-9)

	feat, err := s.PhonologicalFeatures(ctx, "eng", "eng")
	require.NoError(t, err)
	assert.Greater(t, feat, 0.0)
	assert.LessOrEqual(t, feat, 1.0)

	_, err = s.Phonological(ctx, "eng", "xxx")
	assert.True(t, errors.Is(err, types.ErrMissingLanguage))

	_, err = s.Orthographic(ctx, "eng", "zzz")
	assert.True(t, errors.Is(err, types.ErrUnmappableCode))
}

func TestTypologicalUsesPhonologyFeatures(t *testing.T) {
	data := testDataset()
	width := types.PhonologyFeatures + 3
	for code, rec := range data.Typology {
		features := make([]float64, width)
		copy(features, rec.Features)
		rec.Features = features
		data.Typology[code] = rec
	}
	// Non-phonological chapters differ; they must not affect the score.
	data.Typology["deu"].Features[width-1] = 1

	s := newTestScorer(t, data)
	typ, err := s.Typological(context.Background(), "eng", "deu")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, typ, 1e-9)
}

func TestClosest(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := newTestScorer(t, testDataset(), options.WithLogger(zap.New(core)))

	report, err := s.Closest(context.Background(), "eng")
	require.NoError(t, err)

	assert.Equal(t, "English", report.Query.WikiName)
	require.Len(t, report.Matches, 2)
	assert.Equal(t, "deu", report.Matches[0].Lang.ISO3)
	assert.Equal(t, "fra", report.Matches[1].Lang.ISO3)
	assert.InDelta(t, (0.8+orthEngDeu+1)/3, report.Matches[0].Aggregate, 1e-9)

	// zzz has no ISO 639-1 entry, so it is excluded rather than scored zero.
	require.Len(t, report.Excluded, 1)
	assert.Equal(t, "zzz", report.Excluded[0].Code)
	assert.True(t, errors.Is(report.Excluded[0].Reason, types.ErrUnmappableCode))
	for _, m := range report.Matches {
		assert.NotEqual(t, "zzz", m.Lang.ISO3)
	}
	assert.Equal(t, 1, logs.FilterMessage("excluded from aggregate ranking").Len())
}

func TestClosestExcludesUntranslatable(t *testing.T) {
	data := testDataset()
	germanic := types.TypologyRecord{
		Genealogy: types.Genealogy{Family: "Indo-European", Genus: "Germanic"},
		Features:  []float64{1, 0, 1},
	}
	// nld has an ISO 639-1 code but no Wikipedia name.
	data.Inventories["nld"] = types.NewPhonemeSet("p", "b", "t", "d", "k")
	data.Typology["nld"] = germanic
	data.Codes.ThreeToOne["nld"] = "nl"
	// ltz has a Wikipedia name but no orthography entry.
	data.Inventories["ltz"] = types.NewPhonemeSet("p", "b", "t", "d", "k")
	data.Typology["ltz"] = germanic
	data.Codes.ThreeToOne["ltz"] = "lb"
	data.Codes.WikiNames["lb"] = "Luxembourgish"

	s := newTestScorer(t, data)
	report, err := s.Closest(context.Background(), "eng")
	require.NoError(t, err)

	excluded := map[string]error{}
	for _, ex := range report.Excluded {
		excluded[ex.Code] = ex.Reason
	}
	require.Contains(t, excluded, "nld")
	assert.True(t, errors.Is(excluded["nld"], types.ErrUnmappableCode))
	require.Contains(t, excluded, "ltz")
	assert.True(t, errors.Is(excluded["ltz"], types.ErrMissingLanguage))

	require.Len(t, report.Matches, 2)
	for _, m := range report.Matches {
		assert.NotContains(t, []string{"nld", "ltz", "zzz"}, m.Lang.ISO3)
	}
}

func TestClosestWeightsAndTies(t *testing.T) {
	ctx := context.Background()

	s := newTestScorer(t, testDataset(), options.WithWeights(0, 1, 0))
	report, err := s.Closest(ctx, "eng")
	require.NoError(t, err)
	require.Len(t, report.Matches, 2)
	assert.Equal(t, "fra", report.Matches[0].Lang.ISO3)

	// Both candidates score 0.8 phonologically; ascending code breaks the tie.
	s = newTestScorer(t, testDataset(), options.WithWeights(1, 0, 0))
	report, err = s.Closest(ctx, "eng")
	require.NoError(t, err)
	require.Len(t, report.Matches, 2)
	assert.Equal(t, report.Matches[0].Aggregate, report.Matches[1].Aggregate)
	assert.Equal(t, "deu", report.Matches[0].Lang.ISO3)
	assert.Equal(t, "fra", report.Matches[1].Lang.ISO3)
}

func TestClosestSharedWikipedia(t *testing.T) {
	data := testDataset()
	data.Inventories["sco"] = types.NewPhonemeSet("p", "b", "t", "d", "x")
	data.Typology["sco"] = types.TypologyRecord{
		Genealogy: types.Genealogy{Family: "Indo-European", Genus: "Germanic"},
		Features:  []float64{1, 0, 1},
	}
	data.Codes.ThreeToOne["sco"] = "en"

	s := newTestScorer(t, data)
	report, err := s.Closest(context.Background(), "eng")
	require.NoError(t, err)

	var found bool
	for _, m := range report.Matches {
		if m.Lang.ISO3 == "sco" {
			found = true
			assert.InDelta(t, 1.0, m.Orth, 1e-9)
		}
	}
	assert.True(t, found)
}

func TestClosestQueryErrors(t *testing.T) {
	s := newTestScorer(t, testDataset())
	ctx := context.Background()

	_, err := s.Closest(ctx, "zzz")
	assert.True(t, errors.Is(err, types.ErrUnmappableCode))

	data := testDataset()
	delete(data.Typology, "eng")
	s = newTestScorer(t, data)
	_, err = s.Closest(ctx, "eng")
	assert.True(t, errors.Is(err, types.ErrMissingLanguage))
}

func TestClosestPerSignal(t *testing.T) {
	s := newTestScorer(t, testDataset(), options.WithJobs(4))
	ctx := context.Background()

	phon, err := s.ClosestPhonological(ctx, "eng", 2)
	require.NoError(t, err)
	require.Len(t, phon, 2)
	assert.Equal(t, "deu", phon[0].Code)
	assert.Equal(t, "fra", phon[1].Code)

	orth, err := s.ClosestOrthographic(ctx, "eng", 0)
	require.NoError(t, err)
	require.Len(t, orth, 2)
	assert.Equal(t, "French", orth[0].Code)

	gen, err := s.ClosestGenealogical(ctx, "eng", 1)
	require.NoError(t, err)
	require.Len(t, gen, 1)
	assert.Equal(t, "deu", gen[0].Code)

	typ, err := s.ClosestTypological(ctx, "eng", 0)
	require.NoError(t, err)
	require.Len(t, typ, 3)
	assert.Equal(t, "deu", typ[0].Code)

	feat, err := s.ClosestFeatures(ctx, "eng", 0)
	require.NoError(t, err)
	assert.Len(t, feat, 3)
}

func TestNewResolvesInventories(t *testing.T) {
	data := testDataset()
	data.Inventories = nil
	data.Sources = map[string]map[string]types.PhonemeSet{
		"eng": {
			"spa":   types.NewPhonemeSet("p"),
			"upsid": types.NewPhonemeSet("p", "b", "t", "d", "k"),
		},
		"fra": {"ph": types.NewPhonemeSet("p", "b", "t", "d", "ʁ")},
	}
	data.Trumps = map[string][]string{"eng": {"upsid", "spa"}}

	s := newTestScorer(t, data)
	got, err := s.Phonological(context.Background(), "eng", "fra")
	require.NoError(t, err)
	assert.InDelta(t, 0.8, got, 1e-9)

	set, res, err := s.Inventory("eng")
	require.NoError(t, err)
	assert.Equal(t, "upsid", res.Chosen)
	assert.True(t, res.ByTrump)
	assert.Len(t, set, 5)
	assert.Nil(t, data.Inventories)
}

func TestClusters(t *testing.T) {
	s := newTestScorer(t, testDataset())
	clusters, err := s.Clusters(context.Background())
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, "English", clusters[0].Seed)
	assert.Equal(t, []string{"English", "French", "German"}, clusters[0].Members)

	s = newTestScorer(t, testDataset(), options.WithClustering(101, 0.5))
	clusters, err = s.Clusters(context.Background())
	require.NoError(t, err)
	assert.Empty(t, clusters)
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	data := testDataset()
	data.Typology["fra"] = types.TypologyRecord{Features: []float64{1}}
	_, err = New(data)
	assert.True(t, errors.Is(err, types.ErrLengthMismatch))

	_, err = New(testDataset(), options.WithWeights(-1, 1, 1))
	assert.True(t, errors.Is(err, types.ErrInvalidWeight))
}

type countingCache struct {
	types.CacheBackend[types.PhonemePair, float64]
	closed int
}

func (c *countingCache) Close() error {
	c.closed++
	return nil
}

func TestNewClosesCacheOnError(t *testing.T) {
	inner, err := inmemory.NewLRUBackend[types.PhonemePair, float64](types.BackendConfig{Capacity: 10})
	require.NoError(t, err)
	cache := &countingCache{CacheBackend: inner}

	_, err = New(testDataset(), options.WithCustomCache(cache), options.WithTypologyComparator("nope"))
	require.Error(t, err)
	assert.Equal(t, 1, cache.closed)
}
