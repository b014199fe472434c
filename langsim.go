// Package langsim ranks languages by their similarity to a query language.
//
// Three signals are combined: phonological inventory overlap (F1),
// orthographic character-frequency overlap and genealogical classification.
// A Scorer is built once over a read-only types.Dataset and released with
// Close.
package langsim

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/botirk38/langsim/cluster"
	"github.com/botirk38/langsim/inventory"
	"github.com/botirk38/langsim/options"
	"github.com/botirk38/langsim/ranking"
	"github.com/botirk38/langsim/similarity"
	"github.com/botirk38/langsim/types"
)

// Scorer computes pairwise and ranked similarities over one dataset.
type Scorer struct {
	data        *types.Dataset
	inventories map[string]types.PhonemeSet
	genealogy   map[string]types.Genealogy
	typology    map[string][]float64
	cfg         *options.Config
	features    *similarity.FeatureScorer
	resolver    *inventory.Resolver
	logger      *zap.Logger
}

// Match is one row of the aggregate ranking.
type Match struct {
	Lang      types.Language
	Aggregate float64
	Phon      float64
	Orth      float64
	Gen       float64
}

// Exclusion records a language left out of the aggregate ranking.
type Exclusion struct {
	Code   string
	Reason error
}

// Report is the result of Closest.
type Report struct {
	Query    types.Language
	Matches  []Match
	Excluded []Exclusion
}

// New creates a Scorer over data. When data carries no resolved inventories
// they are resolved from data.Sources with the trump rankings.
func New(data *types.Dataset, opts ...options.Option) (*Scorer, error) {
	if data == nil {
		return nil, errors.New("dataset cannot be nil")
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	cfg := options.NewConfig()
	if err := cfg.Apply(opts...); err != nil {
		return nil, errors.Join(err, cfg.Close())
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Join(err, cfg.Close())
	}

	features, err := similarity.NewFeatureScorer(data.PhonemeFeatures, cfg.PairCache)
	if err != nil {
		return nil, errors.Join(err, cfg.Close())
	}

	s := &Scorer{
		data:        data,
		inventories: data.Inventories,
		genealogy:   make(map[string]types.Genealogy, len(data.Typology)),
		typology:    make(map[string][]float64, len(data.Typology)),
		cfg:         cfg,
		features:    features,
		resolver:    inventory.NewResolver(cfg.Logger.Named("inventory")),
		logger:      cfg.Logger,
	}
	if len(s.inventories) == 0 && len(data.Sources) > 0 {
		s.inventories = s.resolver.ResolveAll(data.Sources, data.Trumps)
	}
	for code, rec := range data.Typology {
		s.genealogy[code] = rec.Genealogy
		s.typology[code] = rec.PhonFeatures()
	}
	return s, nil
}

// Close releases the pair cache.
func (s *Scorer) Close() error {
	return s.features.Cache().Close()
}

// Config returns the effective configuration.
func (s *Scorer) Config() options.Config {
	return *s.cfg
}

// Language translates an ISO 639-3 code across all code systems.
func (s *Scorer) Language(iso3 string) (types.Language, error) {
	lang, err := s.data.Codes.Translate(iso3)
	if err != nil {
		return types.Language{}, err
	}
	lang.Name = s.data.Names[iso3]
	return lang, nil
}

// Inventory returns the resolved inventory of lang together with how it was chosen.
func (s *Scorer) Inventory(lang string) (types.PhonemeSet, inventory.Resolution, error) {
	if sources, ok := s.data.Sources[lang]; ok {
		return s.resolver.Resolve(lang, sources, s.data.Trumps[lang])
	}
	set, ok := s.inventories[lang]
	if !ok {
		return nil, inventory.Resolution{Lang: lang}, fmt.Errorf("%s: %w", lang, types.ErrMissingLanguage)
	}
	return set, inventory.Resolution{Lang: lang}, nil
}

func (s *Scorer) inventoryCodes() []string {
	codes := make([]string, 0, len(s.inventories))
	for code := range s.inventories {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func lookup[T any](table map[string]T, code string) (T, error) {
	v, ok := table[code]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: %w", code, types.ErrMissingLanguage)
	}
	return v, nil
}

// Phonological returns the F1 score of two inventories.
func (s *Scorer) Phonological(ctx context.Context, l1, l2 string) (float64, error) {
	a, err := lookup(s.inventories, l1)
	if err != nil {
		return 0, err
	}
	b, err := lookup(s.inventories, l2)
	if err != nil {
		return 0, err
	}
	return similarity.F1Score(a, b)
}

// PhonologicalFeatures returns the distinctive-feature score of two inventories.
func (s *Scorer) PhonologicalFeatures(ctx context.Context, l1, l2 string) (float64, error) {
	a, err := lookup(s.inventories, l1)
	if err != nil {
		return 0, err
	}
	b, err := lookup(s.inventories, l2)
	if err != nil {
		return 0, err
	}
	return s.features.Score(ctx, a, b)
}

// Overlap returns how well the bridge inventory covers the target one.
func (s *Scorer) Overlap(bridge, target string) (int, error) {
	a, err := lookup(s.inventories, bridge)
	if err != nil {
		return 0, err
	}
	b, err := lookup(s.inventories, target)
	if err != nil {
		return 0, err
	}
	return similarity.Overlap(a, b)
}

// orthography finds the character distribution of an ISO 639-3 code.
func (s *Scorer) orthography(iso3 string) (types.Language, types.OrthographyRecord, error) {
	lang, err := s.data.Codes.Translate(iso3)
	if err != nil {
		return lang, types.OrthographyRecord{}, err
	}
	rec, err := lookup(s.data.Orthography, lang.WikiName)
	return lang, rec, err
}

// Orthographic returns the character-frequency score of two languages.
func (s *Scorer) Orthographic(ctx context.Context, l1, l2 string) (float64, error) {
	_, a, err := s.orthography(l1)
	if err != nil {
		return 0, err
	}
	_, b, err := s.orthography(l2)
	if err != nil {
		return 0, err
	}
	return similarity.CharFrequencyScore(a.Freqs, b.Freqs)
}

// Genealogical returns the genealogy category score of two languages.
func (s *Scorer) Genealogical(ctx context.Context, l1, l2 string) (float64, error) {
	a, err := lookup(s.genealogy, l1)
	if err != nil {
		return 0, err
	}
	b, err := lookup(s.genealogy, l2)
	if err != nil {
		return 0, err
	}
	return similarity.GenealogyScore(a, b), nil
}

// Typological compares the phonological WALS features (1A to 19A) of two
// languages with the configured comparator.
func (s *Scorer) Typological(ctx context.Context, l1, l2 string) (float64, error) {
	a, err := lookup(s.typology, l1)
	if err != nil {
		return 0, err
	}
	b, err := lookup(s.typology, l2)
	if err != nil {
		return 0, err
	}
	return s.cfg.Typology(a, b)
}

// Pairwise combines the three signals for one pair of ISO 639-3 codes.
func (s *Scorer) Pairwise(ctx context.Context, l1, l2 string) (Match, error) {
	lang, err := s.Language(l2)
	if err != nil {
		return Match{}, err
	}
	if _, err := s.data.Codes.Translate(l1); err != nil {
		return Match{}, err
	}

	m := Match{Lang: lang}
	if m.Phon, err = s.Phonological(ctx, l1, l2); err != nil {
		return Match{}, fmt.Errorf("phonological: %w", err)
	}
	if m.Orth, err = s.Orthographic(ctx, l1, l2); err != nil {
		return Match{}, fmt.Errorf("orthographic: %w", err)
	}
	if m.Gen, err = s.Genealogical(ctx, l1, l2); err != nil {
		return Match{}, fmt.Errorf("genealogical: %w", err)
	}
	m.Aggregate = s.combine(m.Phon, m.Orth, m.Gen)
	return m, nil
}

func (s *Scorer) combine(phon, orth, gen float64) float64 {
	w := s.cfg.Weights
	return w.Phonological*phon + w.Orthographic*orth + w.Genealogical*gen
}

func rankerOpts(s *Scorer, topK int) []ranking.Option {
	return []ranking.Option{
		ranking.WithJobs(s.cfg.Jobs),
		ranking.WithTopK(topK),
		ranking.WithLogger(s.logger.Named("ranking")),
	}
}

func f1Scorer(_ context.Context, a, b types.PhonemeSet) (float64, error) {
	return similarity.F1Score(a, b)
}

func charScorer(_ context.Context, a, b types.OrthographyRecord) (float64, error) {
	return similarity.CharFrequencyScore(a.Freqs, b.Freqs)
}

func genScorer(_ context.Context, a, b types.Genealogy) (float64, error) {
	return similarity.GenealogyScore(a, b), nil
}

// ClosestPhonological ranks every inventory by F1 against query. topK <= 0 keeps all.
func (s *Scorer) ClosestPhonological(ctx context.Context, query string, topK int) ([]ranking.Neighbor, error) {
	return ranking.New(f1Scorer, rankerOpts(s, topK)...).Rank(ctx, query, s.inventories)
}

// ClosestFeatures ranks every inventory by distinctive-feature score against query.
func (s *Scorer) ClosestFeatures(ctx context.Context, query string, topK int) ([]ranking.Neighbor, error) {
	return ranking.New(s.features.Score, rankerOpts(s, topK)...).Rank(ctx, query, s.inventories)
}

// ClosestOrthographic ranks every character distribution against query's.
// Codes in the result are Wikipedia names.
func (s *Scorer) ClosestOrthographic(ctx context.Context, query string, topK int) ([]ranking.Neighbor, error) {
	lang, _, err := s.orthography(query)
	if err != nil {
		return nil, err
	}
	return ranking.New(charScorer, rankerOpts(s, topK)...).Rank(ctx, lang.WikiName, s.data.Orthography)
}

// ClosestGenealogical ranks every WALS language by genealogy score against query.
func (s *Scorer) ClosestGenealogical(ctx context.Context, query string, topK int) ([]ranking.Neighbor, error) {
	return ranking.New(genScorer, rankerOpts(s, topK)...).Rank(ctx, query, s.genealogy)
}

// ClosestTypological ranks every WALS language by phonological feature score against query.
func (s *Scorer) ClosestTypological(ctx context.Context, query string, topK int) ([]ranking.Neighbor, error) {
	typ := func(_ context.Context, a, b []float64) (float64, error) { return s.cfg.Typology(a, b) }
	return ranking.New(typ, rankerOpts(s, topK)...).Rank(ctx, query, s.typology)
}

// Closest ranks every language with all three signals computable by the
// weighted aggregate score. Languages that cannot be translated across the
// code systems, or that lack one of the signals, are reported in Excluded
// and never receive a score.
func (s *Scorer) Closest(ctx context.Context, query string) (*Report, error) {
	q, err := s.Language(query)
	if err != nil {
		return nil, err
	}
	if _, ok := s.inventories[query]; !ok {
		return nil, fmt.Errorf("%s: inventory: %w", query, types.ErrMissingLanguage)
	}
	qOrth, ok := s.data.Orthography[q.WikiName]
	if !ok {
		return nil, fmt.Errorf("%s (%s): orthography: %w", query, q.WikiName, types.ErrMissingLanguage)
	}
	if _, ok := s.genealogy[query]; !ok {
		return nil, fmt.Errorf("%s: genealogy: %w", query, types.ErrMissingLanguage)
	}

	opts := rankerOpts(s, 0)
	phon, err := ranking.New(f1Scorer, opts...).Scores(ctx, query, s.inventories)
	if err != nil {
		return nil, err
	}
	orth, err := ranking.New(charScorer, opts...).Scores(ctx, q.WikiName, s.data.Orthography)
	if err != nil {
		return nil, err
	}
	gen, err := ranking.New(genScorer, opts...).Scores(ctx, query, s.genealogy)
	if err != nil {
		return nil, err
	}

	skipped := make(map[string]error, len(phon.Skipped))
	for _, sk := range phon.Skipped {
		skipped[sk.Code] = sk.Err
	}

	report := &Report{Query: q}
	exclude := func(code string, reason error) {
		report.Excluded = append(report.Excluded, Exclusion{Code: code, Reason: reason})
		s.logger.Debug("excluded from aggregate ranking",
			zap.String("query", query),
			zap.String("candidate", code),
			zap.Error(reason),
		)
	}

	for _, code := range s.inventoryCodes() {
		if code == query {
			continue
		}
		if err, bad := skipped[code]; bad {
			exclude(code, fmt.Errorf("phonological: %w", err))
			continue
		}

		lang, err := s.Language(code)
		if err != nil {
			exclude(code, err)
			continue
		}

		o, ok := orth.Scores[lang.WikiName]
		if lang.WikiName == q.WikiName {
			// Several ISO 639-3 codes can share one Wikipedia edition.
			o, err = similarity.CharFrequencyScore(qOrth.Freqs, qOrth.Freqs)
			ok = err == nil
		}
		if !ok {
			exclude(code, fmt.Errorf("orthographic %s: %w", lang.WikiName, types.ErrMissingLanguage))
			continue
		}

		g, ok := gen.Scores[code]
		if !ok {
			exclude(code, fmt.Errorf("genealogical: %w", types.ErrMissingLanguage))
			continue
		}

		p := phon.Scores[code]
		report.Matches = append(report.Matches, Match{
			Lang:      lang,
			Aggregate: s.combine(p, o, g),
			Phon:      p,
			Orth:      o,
			Gen:       g,
		})
	}

	sort.Slice(report.Matches, func(i, j int) bool {
		a, b := report.Matches[i], report.Matches[j]
		if a.Aggregate != b.Aggregate {
			return a.Aggregate > b.Aggregate
		}
		return a.Lang.ISO3 < b.Lang.ISO3
	})
	return report, nil
}

// Clusters groups every orthography entry into script clusters.
func (s *Scorer) Clusters(ctx context.Context) ([]cluster.Cluster, error) {
	c := cluster.New(
		cluster.WithMinSupport(s.cfg.MinSupport),
		cluster.WithThreshold(s.cfg.Threshold),
		cluster.WithLogger(s.logger.Named("cluster")),
	)
	return c.Cluster(ctx, s.data.Orthography)
}
