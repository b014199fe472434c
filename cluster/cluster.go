// Package cluster groups languages into script clusters by comparing their
// character distributions.
//
// The algorithm is a greedy approximation of single-link clustering: each
// candidate is compared only with the seed (first member) of every existing
// cluster, never with the other members. The outcome therefore depends on
// the processing order, which is fixed (ascending code unless WithOrder pins
// another one).
package cluster

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/botirk38/langsim/similarity"
	"github.com/botirk38/langsim/types"
)

const (
	// DefaultMinSupport is the smallest dump size admitted to clustering.
	DefaultMinSupport = 100
	// DefaultThreshold is the seed score a candidate must exceed to join a cluster.
	DefaultThreshold = 0.5
)

// Cluster is a set of languages sharing an inferred script.
type Cluster struct {
	Seed    string
	Members []string // insertion order, Seed first
}

// Clusterer partitions languages into script clusters.
type Clusterer struct {
	minSupport int
	threshold  float64
	order      func(codes []string) []string
	logger     *zap.Logger
}

// Option configures a Clusterer.
type Option func(*Clusterer)

// WithMinSupport skips entries whose size is below n.
func WithMinSupport(n int) Option {
	return func(c *Clusterer) { c.minSupport = n }
}

// WithThreshold sets the score a candidate must exceed to join a cluster.
func WithThreshold(t float64) Option {
	return func(c *Clusterer) { c.threshold = t }
}

// WithOrder replaces the default ascending processing order. The function
// receives the sorted codes and returns them in the order to process;
// codes it drops are not clustered.
func WithOrder(order func(codes []string) []string) Option {
	return func(c *Clusterer) {
		if order != nil {
			c.order = order
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Clusterer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Clusterer with the default support and threshold.
func New(opts ...Option) *Clusterer {
	c := &Clusterer{
		minSupport: DefaultMinSupport,
		threshold:  DefaultThreshold,
		order:      func(codes []string) []string { return codes },
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cluster partitions entries. Every admitted entry lands in exactly one
// cluster; entries below the support threshold or whose distribution cannot
// be scored (empty or all-zero) are not admitted.
func (c *Clusterer) Cluster(ctx context.Context, entries map[string]types.OrthographyRecord) ([]Cluster, error) {
	codes := make([]string, 0, len(entries))
	for code := range entries {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var clusters []Cluster
	for _, code := range c.order(codes) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, ok := entries[code]
		if !ok || entry.Size < c.minSupport {
			continue
		}
		if _, err := similarity.CharFrequencyScore(entry.Freqs, entry.Freqs); err != nil {
			c.logger.Debug("skipping unscorable distribution", zap.String("code", code), zap.Error(err))
			continue
		}

		best, bestScore := -1, -1.0
		for i := range clusters {
			score, err := similarity.CharFrequencyScore(entry.Freqs, entries[clusters[i].Seed].Freqs)
			if err != nil {
				c.logger.Debug("seed comparison failed",
					zap.String("code", code),
					zap.String("seed", clusters[i].Seed),
					zap.Error(err),
				)
				continue
			}
			if score > bestScore {
				best, bestScore = i, score
			}
		}

		if best >= 0 && bestScore > c.threshold {
			clusters[best].Members = append(clusters[best].Members, code)
			continue
		}

		c.logger.Debug("new script cluster", zap.String("seed", code), zap.Float64("best_score", bestScore))
		clusters = append(clusters, Cluster{Seed: code, Members: []string{code}})
	}

	return clusters, nil
}

// SizedCode pairs a language code with its dump size.
type SizedCode struct {
	Size int
	Code string
}

// Summary lists every cluster's members as (size, code) pairs sorted by size
// then code, together with the number of clusters.
func Summary(clusters []Cluster, entries map[string]types.OrthographyRecord) ([][]SizedCode, int) {
	out := make([][]SizedCode, len(clusters))
	for i, cl := range clusters {
		pairs := make([]SizedCode, len(cl.Members))
		for j, code := range cl.Members {
			pairs[j] = SizedCode{Size: entries[code].Size, Code: code}
		}
		sort.Slice(pairs, func(a, b int) bool {
			if pairs[a].Size != pairs[b].Size {
				return pairs[a].Size < pairs[b].Size
			}
			return pairs[a].Code < pairs[b].Code
		})
		out[i] = pairs
	}
	return out, len(clusters)
}
