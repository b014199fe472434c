package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/botirk38/langsim"
	"github.com/botirk38/langsim/loader"
	"github.com/botirk38/langsim/options"
	"github.com/botirk38/langsim/types"
)

// Default file names looked up under --data.
var defaultDataFiles = options.DataFile{
	Phonemes:        "phoible-phonemes.tsv",
	Aggregated:      "phoible-aggregated.tsv",
	SegmentFeatures: "phoible-segments-features.tsv",
	WALS:            "language.csv",
	ISO6393:         "iso-639-3.tab",
	WikiLanguages:   "wikilanguages",
	CharDump:        "sizes-langdists.msgpack",
}

type session struct {
	cfg    options.FileConfig
	logger *zap.Logger
	data   *types.Dataset
	scorer *langsim.Scorer
}

// readConfig resolves the configuration from --config, --data and --jobs.
func readConfig(cmd *cobra.Command) (options.FileConfig, error) {
	flags := cmd.Root().PersistentFlags()

	cfg := options.DefaultFileConfig()
	path, err := flags.GetString("config")
	if err != nil {
		return cfg, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		if cfg, err = options.LoadFile(path); err != nil {
			return cfg, err
		}
	}

	dir, err := flags.GetString("data")
	if err != nil {
		return cfg, fmt.Errorf("failed to get data flag: %w", err)
	}
	if dir != "" {
		fill := func(dst *string, name string) {
			if *dst == "" {
				*dst = filepath.Join(dir, name)
			}
		}
		fill(&cfg.Data.Phonemes, defaultDataFiles.Phonemes)
		fill(&cfg.Data.Aggregated, defaultDataFiles.Aggregated)
		fill(&cfg.Data.SegmentFeatures, defaultDataFiles.SegmentFeatures)
		fill(&cfg.Data.WALS, defaultDataFiles.WALS)
		fill(&cfg.Data.ISO6393, defaultDataFiles.ISO6393)
		fill(&cfg.Data.WikiLanguages, defaultDataFiles.WikiLanguages)
		fill(&cfg.Data.CharDump, defaultDataFiles.CharDump)
	}

	if flags.Changed("jobs") {
		jobs, err := flags.GetInt("jobs")
		if err != nil {
			return cfg, fmt.Errorf("failed to get jobs flag: %w", err)
		}
		cfg.Jobs = jobs
	}
	return cfg, nil
}

// newLogger builds a development logger for --verbose and a production
// logger at the configured level otherwise.
func newLogger(cmd *cobra.Command, level string) (*zap.Logger, error) {
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	if verbose {
		return zap.NewDevelopment()
	}

	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}

// openSession loads the configuration, the dataset and the scorer.
func openSession(cmd *cobra.Command) (*session, error) {
	if err := setupColor(cmd); err != nil {
		return nil, err
	}
	cfg, err := readConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	data, err := loader.Load(cmd.Context(), cfg.Data, logger.Named("loader"))
	if err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	opts := append(cfg.Options(), options.WithLogger(logger))
	scorer, err := langsim.New(data, opts...)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, data: data, scorer: scorer}, nil
}

func (s *session) Close() {
	if err := s.scorer.Close(); err != nil {
		s.logger.Warn("failed to close scorer", zap.Error(err))
	}
	_ = s.logger.Sync()
}
