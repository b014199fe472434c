// Package types holds the records, tables and interfaces shared by the langsim packages.
package types

import (
	"context"
	"sort"
	"time"
)

// Language identifies one language across the three code systems used by the datasets.
type Language struct {
	ISO3     string // ISO 639-3, e.g. "cmn"
	ISO1     string // ISO 639-1, or ISO3 when no two-letter code exists
	WikiCode string // Wikipedia language code
	WikiName string // Wikipedia language name, e.g. "Waray-Waray"
	Name     string
}

// PhonemeSet is a set of phoneme symbols.
type PhonemeSet map[string]struct{}

// NewPhonemeSet builds a set from the given symbols.
func NewPhonemeSet(phonemes ...string) PhonemeSet {
	s := make(PhonemeSet, len(phonemes))
	for _, p := range phonemes {
		s[p] = struct{}{}
	}
	return s
}

// Add inserts a phoneme.
func (s PhonemeSet) Add(p string) { s[p] = struct{}{} }

// Contains reports whether p is in the set.
func (s PhonemeSet) Contains(p string) bool {
	_, ok := s[p]
	return ok
}

// Intersect returns the number of phonemes present in both sets.
func (s PhonemeSet) Intersect(other PhonemeSet) int {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	n := 0
	for p := range small {
		if large.Contains(p) {
			n++
		}
	}
	return n
}

// Sorted returns the phonemes in ascending order.
func (s PhonemeSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// CharFreqs maps a character to its occurrence count.
type CharFreqs map[rune]int

// Genealogy is the WALS classification of a language.
type Genealogy struct {
	Family string
	Genus  string
}

// TypologyRecord is one WALS row: classification plus normalised feature values.
type TypologyRecord struct {
	Name      string
	Genealogy Genealogy
	Features  []float64
}

// PhonologyFeatures is the number of leading WALS features that describe
// phonology (chapters 1A to 19A).
const PhonologyFeatures = 19

// PhonFeatures returns the phonological prefix of the feature vector.
func (r TypologyRecord) PhonFeatures() []float64 {
	return r.Features[:min(PhonologyFeatures, len(r.Features))]
}

// OrthographyRecord is the character distribution of one Wikipedia language dump.
type OrthographyRecord struct {
	Freqs CharFreqs
	Size  int // number of lines the distribution was counted from
}

// SourceRank is one (language, source, trump) row of the aggregated inventory table.
type SourceRank struct {
	Lang   string
	Source string
	Trump  int
}

// PhonemePair is an unordered pair of phonemes; use NewPhonemePair to build one.
type PhonemePair struct {
	A, B string
}

// NewPhonemePair orders a and b so that {a,b} and {b,a} share one key.
func NewPhonemePair(a, b string) PhonemePair {
	if b < a {
		a, b = b, a
	}
	return PhonemePair{A: a, B: b}
}

func (p PhonemePair) String() string { return p.A + "|" + p.B }

// CacheBackend defines the interface for the pair-score memo storage.
// This allows for pluggable storage systems including in-memory and Redis.
type CacheBackend[K comparable, V any] interface {
	// Set stores a value in the cache
	Set(ctx context.Context, key K, value V) error

	// Get retrieves a value by key
	Get(ctx context.Context, key K) (V, bool, error)

	// Delete removes an entry by key
	Delete(ctx context.Context, key K) error

	// Contains checks if a key exists without retrieving the value
	Contains(ctx context.Context, key K) (bool, error)

	// Flush clears all entries from the cache
	Flush(ctx context.Context) error

	// Len returns the number of entries in the cache
	Len(ctx context.Context) (int, error)

	// Close closes the backend and releases resources
	Close() error
}

// BackendConfig provides configuration options for backends
type BackendConfig struct {
	// For in-memory caches
	Capacity int

	// For Redis
	ConnectionString string
	Username         string
	Password         string
	Database         int
	Prefix           string
	TTL              time.Duration
}

// BackendType represents the type of cache backend
type BackendType string

const (
	BackendLRU   BackendType = "lru"
	BackendFIFO  BackendType = "fifo"
	BackendLFU   BackendType = "lfu"
	BackendRedis BackendType = "redis"
)
