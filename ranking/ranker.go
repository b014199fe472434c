// Package ranking scores a query language against every other language in
// a table and orders the results deterministically.
package ranking

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/botirk38/langsim/types"
)

// Scorer compares the data of two languages.
type Scorer[T any] func(ctx context.Context, query, candidate T) (float64, error)

// Neighbor is one ranked candidate.
type Neighbor struct {
	Code  string
	Score float64
}

// Skipped is a candidate whose score could not be computed.
type Skipped struct {
	Code string
	Err  error
}

// Result holds the scores of one ranking run.
type Result struct {
	Query   string
	Scores  map[string]float64
	Skipped []Skipped
}

// Ranker runs one Scorer over a language table.
type Ranker[T any] struct {
	scorer Scorer[T]
	jobs   int
	topK   int
	logger *zap.Logger
}

// Option configures a Ranker.
type Option func(*settings)

type settings struct {
	jobs   int
	topK   int
	logger *zap.Logger
}

// WithJobs sets how many pairs are scored concurrently. Values <= 0 use GOMAXPROCS.
func WithJobs(n int) Option {
	return func(s *settings) { s.jobs = n }
}

// WithTopK truncates Rank output to the best k neighbours. k <= 0 keeps all.
func WithTopK(k int) Option {
	return func(s *settings) { s.topK = k }
}

// WithLogger sets the logger used for skipped candidates.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Ranker for scorer.
func New[T any](scorer Scorer[T], opts ...Option) *Ranker[T] {
	s := settings{jobs: 1, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&s)
	}
	if s.jobs <= 0 {
		s.jobs = runtime.GOMAXPROCS(0)
	}
	return &Ranker[T]{scorer: scorer, jobs: s.jobs, topK: s.topK, logger: s.logger}
}

// Scores computes the scorer between query and every other code in items.
// Candidates are visited in ascending code order. A candidate whose score
// fails is reported in Skipped and does not abort the run.
func (r *Ranker[T]) Scores(ctx context.Context, query string, items map[string]T) (*Result, error) {
	q, ok := items[query]
	if !ok {
		return nil, fmt.Errorf("%s: %w", query, types.ErrMissingLanguage)
	}

	codes := make([]string, 0, len(items))
	for code := range items {
		if code != query {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)

	// Slots are unique per goroutine, so no locking is needed.
	scores := make([]float64, len(codes))
	errs := make([]error, len(codes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(r.jobs, len(codes))))

	for i, code := range codes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scores[i], errs[i] = r.scorer(gctx, q, items[code])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Query: query, Scores: make(map[string]float64, len(codes))}
	for i, code := range codes {
		if errs[i] != nil {
			res.Skipped = append(res.Skipped, Skipped{Code: code, Err: errs[i]})
			r.logger.Debug("skipping candidate",
				zap.String("query", query),
				zap.String("candidate", code),
				zap.Error(errs[i]),
			)
			continue
		}
		res.Scores[code] = scores[i]
	}
	return res, nil
}

// Rank returns the neighbours of query ordered by descending score, ties
// broken by ascending code.
func (r *Ranker[T]) Rank(ctx context.Context, query string, items map[string]T) ([]Neighbor, error) {
	res, err := r.Scores(ctx, query, items)
	if err != nil {
		return nil, err
	}
	ranked := Sort(res.Scores)
	if r.topK > 0 && len(ranked) > r.topK {
		ranked = ranked[:r.topK]
	}
	return ranked, nil
}

// Sort orders a score map by descending score, ties broken by ascending code.
func Sort(scores map[string]float64) []Neighbor {
	out := make([]Neighbor, 0, len(scores))
	for code, score := range scores {
		out = append(out, Neighbor{Code: code, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Code < out[j].Code
	})
	return out
}
