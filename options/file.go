package options

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/botirk38/langsim/cluster"
	"github.com/botirk38/langsim/similarity"
	"github.com/botirk38/langsim/types"
)

// FileConfig is the TOML form of the configuration.
type FileConfig struct {
	Jobs     int         `toml:"jobs"`
	Typology string      `toml:"typology"`
	Weights  WeightsFile `toml:"weights"`
	Cluster  ClusterFile `toml:"cluster"`
	Cache    CacheFile   `toml:"cache"`
	Data     DataFile    `toml:"data"`
	Log      LogFile     `toml:"log"`
}

// WeightsFile is the [weights] section.
type WeightsFile struct {
	Phonological float64 `toml:"phonological"`
	Orthographic float64 `toml:"orthographic"`
	Genealogical float64 `toml:"genealogical"`
}

// ClusterFile is the [cluster] section.
type ClusterFile struct {
	MinSupport int     `toml:"min_support"`
	Threshold  float64 `toml:"threshold"`
}

// CacheFile is the [cache] section.
type CacheFile struct {
	Backend  string        `toml:"backend"`
	Capacity int           `toml:"capacity"`
	URL      string        `toml:"url"`
	Database int           `toml:"database"`
	Prefix   string        `toml:"prefix"`
	TTL      time.Duration `toml:"ttl"`
}

// DataFile is the [data] section: paths read by the loaders.
type DataFile struct {
	Phonemes        string `toml:"phonemes"`
	Aggregated      string `toml:"aggregated"`
	SegmentFeatures string `toml:"segment_features"`
	WALS            string `toml:"wals"`
	ISO6393         string `toml:"iso639_3"`
	WikiLanguages   string `toml:"wikilanguages"`
	CharDump        string `toml:"chardump"`
}

// LogFile is the [log] section.
type LogFile struct {
	Level string `toml:"level"`
}

// DefaultFileConfig mirrors NewConfig.
func DefaultFileConfig() FileConfig {
	w := DefaultWeights()
	return FileConfig{
		Jobs:     1,
		Typology: "cosine",
		Weights: WeightsFile{
			Phonological: w.Phonological,
			Orthographic: w.Orthographic,
			Genealogical: w.Genealogical,
		},
		Cluster: ClusterFile{
			MinSupport: cluster.DefaultMinSupport,
			Threshold:  cluster.DefaultThreshold,
		},
		Cache: CacheFile{
			Backend:  string(types.BackendLRU),
			Capacity: similarity.DefaultPairCacheCapacity,
		},
		Log: LogFile{Level: "warn"},
	}
}

// LoadFile decodes a TOML file over the defaults.
func LoadFile(path string) (FileConfig, error) {
	cfg := DefaultFileConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("%s: unknown keys %v", path, undecoded)
	}
	return cfg, nil
}

// Options translates the file into functional options.
func (f FileConfig) Options() []Option {
	opts := []Option{
		WithJobs(f.Jobs),
		WithTypologyComparator(f.Typology),
		WithWeights(f.Weights.Phonological, f.Weights.Orthographic, f.Weights.Genealogical),
		WithClustering(f.Cluster.MinSupport, f.Cluster.Threshold),
	}

	backend := types.BackendType(f.Cache.Backend)
	if backend == "" {
		backend = types.BackendLRU
	}
	opts = append(opts, WithBackend(backend, types.BackendConfig{
		Capacity:         f.Cache.Capacity,
		ConnectionString: f.Cache.URL,
		Database:         f.Cache.Database,
		Prefix:           f.Cache.Prefix,
		TTL:              f.Cache.TTL,
	}))
	return opts
}
