package similarity

import (
	"context"
	"fmt"

	"github.com/botirk38/langsim/backends/inmemory"
	"github.com/botirk38/langsim/types"
)

// DefaultPairCacheCapacity bounds the phoneme-pair memo when no cache is supplied.
const DefaultPairCacheCapacity = 1 << 16

// FeatureScorer compares inventories through the distinctive features of
// their phonemes. Pair similarities are memoised in a bounded cache.
type FeatureScorer struct {
	features map[string][]float64
	cache    types.CacheBackend[types.PhonemePair, float64]
}

// NewFeatureScorer creates a scorer over the phoneme feature table. A nil
// cache gets an LRU of DefaultPairCacheCapacity entries.
func NewFeatureScorer(features map[string][]float64, cache types.CacheBackend[types.PhonemePair, float64]) (*FeatureScorer, error) {
	if cache == nil {
		lru, err := inmemory.NewLRUBackend[types.PhonemePair, float64](types.BackendConfig{
			Capacity: DefaultPairCacheCapacity,
		})
		if err != nil {
			return nil, err
		}
		cache = lru
	}
	return &FeatureScorer{features: features, cache: cache}, nil
}

// Score averages the cosine similarity of every phoneme pair (a, b) with
// a in A and b in B. Phonemes without a feature vector contribute 0.
func (s *FeatureScorer) Score(ctx context.Context, a, b types.PhonemeSet) (float64, error) {
	if len(a) == 0 {
		return 0, fmt.Errorf("first inventory: %w", types.ErrEmptyOperand)
	}
	if len(b) == 0 {
		return 0, fmt.Errorf("second inventory: %w", types.ErrEmptyOperand)
	}

	var total float64
	bs := b.Sorted()
	for _, pa := range a.Sorted() {
		for _, pb := range bs {
			sim, err := s.pair(ctx, pa, pb)
			if err != nil {
				return 0, err
			}
			total += sim
		}
	}
	return total / float64(len(a)*len(b)), nil
}

// pair returns the memoised cosine of two phonemes.
func (s *FeatureScorer) pair(ctx context.Context, pa, pb string) (float64, error) {
	va, okA := s.features[pa]
	vb, okB := s.features[pb]
	if !okA || !okB {
		return 0, nil
	}

	key := types.NewPhonemePair(pa, pb)
	if sim, found, err := s.cache.Get(ctx, key); err != nil {
		return 0, fmt.Errorf("pair cache get %s: %w", key, err)
	} else if found {
		return sim, nil
	}

	sim, err := CosineSimilarity(va, vb)
	if err != nil {
		return 0, fmt.Errorf("phonemes %s: %w", key, err)
	}
	if err := s.cache.Set(ctx, key, sim); err != nil {
		return 0, fmt.Errorf("pair cache set %s: %w", key, err)
	}
	return sim, nil
}

// Cache exposes the memo backend, mainly for flushing between batches.
func (s *FeatureScorer) Cache() types.CacheBackend[types.PhonemePair, float64] {
	return s.cache
}
