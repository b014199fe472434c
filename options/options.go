// Package options provides functional options for configuring a langsim Scorer.
package options

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/botirk38/langsim/backends"
	"github.com/botirk38/langsim/cluster"
	"github.com/botirk38/langsim/similarity"
	"github.com/botirk38/langsim/types"
)

// Option represents a configuration option for a Scorer
type Option func(*Config) error

// Weights are the linear coefficients of the aggregate score.
type Weights struct {
	Phonological float64
	Orthographic float64
	Genealogical float64
}

// DefaultWeights gives each signal a third.
func DefaultWeights() Weights {
	return Weights{Phonological: 1.0 / 3, Orthographic: 1.0 / 3, Genealogical: 1.0 / 3}
}

// Validate rejects negative weights.
func (w Weights) Validate() error {
	if w.Phonological < 0 || w.Orthographic < 0 || w.Genealogical < 0 {
		return fmt.Errorf("%+v: %w", w, types.ErrInvalidWeight)
	}
	return nil
}

// Config holds the configuration for building a Scorer
type Config struct {
	Weights    Weights
	Logger     *zap.Logger
	PairCache  types.CacheBackend[types.PhonemePair, float64]
	Typology   similarity.VectorFunc
	Jobs       int
	MinSupport int
	Threshold  float64
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Weights:    DefaultWeights(),
		Logger:     zap.NewNop(),
		Typology:   similarity.CosineSimilarity,
		Jobs:       1,
		MinSupport: cluster.DefaultMinSupport,
		Threshold:  cluster.DefaultThreshold,
	}
}

// Apply applies all the given options to the config
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.Logger == nil {
		return errors.New("logger cannot be nil")
	}
	if c.Typology == nil {
		return errors.New("typology comparator cannot be nil")
	}
	return nil
}

// Close releases the pair cache, if one was built.
func (c *Config) Close() error {
	if c.PairCache == nil {
		return nil
	}
	err := c.PairCache.Close()
	c.PairCache = nil
	return err
}

// setPairCache installs cache, closing the one it replaces.
func (c *Config) setPairCache(cache types.CacheBackend[types.PhonemePair, float64]) error {
	if err := c.Close(); err != nil {
		_ = cache.Close()
		return fmt.Errorf("closing previous pair cache: %w", err)
	}
	c.PairCache = cache
	return nil
}

// WithWeights sets the aggregate weights
func WithWeights(phonological, orthographic, genealogical float64) Option {
	return func(cfg *Config) error {
		w := Weights{Phonological: phonological, Orthographic: orthographic, Genealogical: genealogical}
		if err := w.Validate(); err != nil {
			return err
		}
		cfg.Weights = w
		return nil
	}
}

// WithLogger sets the logger shared by every component
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *Config) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.Logger = logger
		return nil
	}
}

// WithLRUCache memoises phoneme-pair similarities in an LRU cache
func WithLRUCache(capacity int) Option {
	return withBackend(types.BackendLRU, types.BackendConfig{Capacity: capacity})
}

// WithFIFOCache memoises phoneme-pair similarities in a FIFO cache
func WithFIFOCache(capacity int) Option {
	return withBackend(types.BackendFIFO, types.BackendConfig{Capacity: capacity})
}

// WithLFUCache memoises phoneme-pair similarities in an LFU cache
func WithLFUCache(capacity int) Option {
	return withBackend(types.BackendLFU, types.BackendConfig{Capacity: capacity})
}

// WithRedisCache memoises phoneme-pair similarities in Redis
func WithRedisCache(addr string, db int) Option {
	return withBackend(types.BackendRedis, types.BackendConfig{ConnectionString: addr, Database: db})
}

// WithBackend builds the pair cache from an explicit backend type and config
func WithBackend(backendType types.BackendType, config types.BackendConfig) Option {
	return withBackend(backendType, config)
}

func withBackend(backendType types.BackendType, config types.BackendConfig) Option {
	return func(cfg *Config) error {
		factory := &backends.BackendFactory[types.PhonemePair, float64]{}
		backend, err := factory.NewBackend(backendType, config)
		if err != nil {
			return fmt.Errorf("pair cache %s: %w", backendType, err)
		}
		return cfg.setPairCache(backend)
	}
}

// WithCustomCache allows using a pre-configured pair cache
func WithCustomCache(cache types.CacheBackend[types.PhonemePair, float64]) Option {
	return func(cfg *Config) error {
		if cache == nil {
			return errors.New("cache cannot be nil")
		}
		return cfg.setPairCache(cache)
	}
}

// WithTypologyComparator selects the WALS vector comparator by name
func WithTypologyComparator(name string) Option {
	return func(cfg *Config) error {
		fn, err := similarity.VectorFuncByName(name)
		if err != nil {
			return err
		}
		cfg.Typology = fn
		return nil
	}
}

// WithJobs sets the number of pairs scored concurrently; <= 0 means GOMAXPROCS
func WithJobs(n int) Option {
	return func(cfg *Config) error {
		cfg.Jobs = n
		return nil
	}
}

// WithClustering sets the script clustering support and threshold
func WithClustering(minSupport int, threshold float64) Option {
	return func(cfg *Config) error {
		if minSupport < 0 {
			return errors.New("min support must be non-negative")
		}
		if threshold < 0 || threshold > 1 {
			return errors.New("threshold must be within [0,1]")
		}
		cfg.MinSupport = minSupport
		cfg.Threshold = threshold
		return nil
	}
}
