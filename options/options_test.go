package options

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/botirk38/langsim/backends/inmemory"
	"github.com/botirk38/langsim/types"
)

func TestConfigCreation(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		cfg := NewConfig()
		if cfg.Weights != DefaultWeights() {
			t.Errorf("Expected default weights, got %+v", cfg.Weights)
		}
		if cfg.Logger == nil {
			t.Error("Expected default logger to be set")
		}
		if cfg.PairCache != nil {
			t.Error("Expected pair cache to be nil initially")
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Expected default config to validate, got: %v", err)
		}
	})

	t.Run("NegativeWeight", func(t *testing.T) {
		cfg := NewConfig()
		err := cfg.Apply(WithWeights(0.5, -0.1, 0.5))
		if !errors.Is(err, types.ErrInvalidWeight) {
			t.Errorf("Expected ErrInvalidWeight, got %v", err)
		}
	})

	t.Run("Weights", func(t *testing.T) {
		cfg := NewConfig()
		if err := cfg.Apply(WithWeights(1, 0, 0)); err != nil {
			t.Fatalf("Failed to set weights: %v", err)
		}
		if cfg.Weights.Phonological != 1 || cfg.Weights.Orthographic != 0 {
			t.Errorf("Unexpected weights %+v", cfg.Weights)
		}
	})
}

func TestCacheOptions(t *testing.T) {
	cacheOptions := map[string]Option{
		"LRU":  WithLRUCache(100),
		"FIFO": WithFIFOCache(100),
		"LFU":  WithLFUCache(100),
	}
	for name, opt := range cacheOptions {
		t.Run(name, func(t *testing.T) {
			cfg := NewConfig()
			if err := cfg.Apply(opt); err != nil {
				t.Fatalf("Failed to set %s cache: %v", name, err)
			}
			if cfg.PairCache == nil {
				t.Error("Expected pair cache to be set")
			}
		})
	}

	t.Run("CustomCache", func(t *testing.T) {
		lru, err := inmemory.NewLRUBackend[types.PhonemePair, float64](types.BackendConfig{Capacity: 4})
		if err != nil {
			t.Fatalf("Failed to create backend: %v", err)
		}
		cfg := NewConfig()
		if err := cfg.Apply(WithCustomCache(lru)); err != nil {
			t.Fatalf("Failed to set custom cache: %v", err)
		}
		if cfg.PairCache != lru {
			t.Error("Expected custom cache to be set")
		}
	})

	t.Run("NilCache", func(t *testing.T) {
		cfg := NewConfig()
		if err := cfg.Apply(WithCustomCache(nil)); err == nil {
			t.Error("Expected error for nil cache")
		}
	})

	t.Run("UnsupportedBackend", func(t *testing.T) {
		cfg := NewConfig()
		err := cfg.Apply(WithBackend("memcached", types.BackendConfig{}))
		if !errors.Is(err, types.ErrUnsupportedBackend) {
			t.Errorf("Expected ErrUnsupportedBackend, got %v", err)
		}
	})
}

func TestMiscOptions(t *testing.T) {
	cfg := NewConfig()
	logger := zap.NewExample()

	err := cfg.Apply(
		WithLogger(logger),
		WithJobs(4),
		WithClustering(50, 0.25),
		WithTypologyComparator("match"),
	)
	if err != nil {
		t.Fatalf("Failed to apply options: %v", err)
	}
	if cfg.Logger != logger || cfg.Jobs != 4 || cfg.MinSupport != 50 || cfg.Threshold != 0.25 {
		t.Errorf("Unexpected config %+v", cfg)
	}

	if err := cfg.Apply(WithLogger(nil)); err == nil {
		t.Error("Expected error for nil logger")
	}
	if err := cfg.Apply(WithClustering(10, 1.5)); err == nil {
		t.Error("Expected error for threshold above 1")
	}
	if err := cfg.Apply(WithTypologyComparator("nope")); err == nil {
		t.Error("Expected error for unknown comparator")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "langsim.toml")
	content := `
jobs = 4
typology = "euclidean"

[weights]
phonological = 0.5
orthographic = 0.25
genealogical = 0.25

[cluster]
threshold = 0.6

[cache]
backend = "fifo"
capacity = 128
ttl = "1h"

[data]
phonemes = "data/phoible-phonemes.tsv"
chardump = "data/langdists.msgpack"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	fc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if fc.Jobs != 4 || fc.Typology != "euclidean" {
		t.Errorf("Unexpected top-level values %+v", fc)
	}
	if fc.Cluster.MinSupport != 100 || fc.Cluster.Threshold != 0.6 {
		t.Errorf("Expected default support and overridden threshold, got %+v", fc.Cluster)
	}
	if fc.Cache.TTL != time.Hour {
		t.Errorf("Expected 1h TTL, got %v", fc.Cache.TTL)
	}
	if fc.Data.Phonemes != "data/phoible-phonemes.tsv" {
		t.Errorf("Unexpected data paths %+v", fc.Data)
	}

	cfg := NewConfig()
	if err := cfg.Apply(fc.Options()...); err != nil {
		t.Fatalf("Failed to apply file options: %v", err)
	}
	if cfg.Weights.Phonological != 0.5 || cfg.Jobs != 4 || cfg.Threshold != 0.6 {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if _, ok := cfg.PairCache.(*inmemory.FIFOBackend[types.PhonemePair, float64]); !ok {
		t.Errorf("Expected FIFO pair cache, got %T", cfg.PairCache)
	}
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("colour = \"red\"\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("Expected error for unknown key")
	}
}

type closeCounter struct {
	types.CacheBackend[types.PhonemePair, float64]
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestReplacedCacheIsClosed(t *testing.T) {
	inner, err := inmemory.NewLRUBackend[types.PhonemePair, float64](types.BackendConfig{Capacity: 10})
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}
	first := &closeCounter{CacheBackend: inner}

	cfg := NewConfig()
	if err := cfg.Apply(WithCustomCache(first), WithFIFOCache(10)); err != nil {
		t.Fatalf("Failed to apply options: %v", err)
	}
	if first.closed != 1 {
		t.Errorf("Expected replaced cache to be closed once, got %d", first.closed)
	}

	if err := cfg.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if cfg.PairCache != nil {
		t.Error("Expected Close to clear the pair cache")
	}
	if err := cfg.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
}
