package loader

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/botirk38/langsim/options"
	"github.com/botirk38/langsim/types"
)

// Load opens the files named by paths and assembles a Dataset. Inventories
// are left unresolved; the Scorer resolves them from Sources and Trumps.
// An empty path leaves the corresponding table empty.
func Load(ctx context.Context, paths options.DataFile, logger *zap.Logger) (*types.Dataset, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	data := &types.Dataset{
		Sources:         map[string]map[string]types.PhonemeSet{},
		Trumps:          map[string][]string{},
		Names:           map[string]string{},
		PhonemeFeatures: map[string][]float64{},
		Typology:        map[string]types.TypologyRecord{},
		Orthography:     map[string]types.OrthographyRecord{},
		Codes: types.CodeMap{
			ThreeToOne: map[string]string{},
			WikiNames:  map[string]string{},
		},
	}

	steps := []struct {
		name string
		path string
		load func(io.Reader) error
	}{
		{"phonemes", paths.Phonemes, func(r io.Reader) error {
			t, err := LoadPhoibleSources(r)
			if err != nil {
				return err
			}
			data.Sources, data.Names = t.Sources, t.Names
			// The aggregated table, when present, overrides these rankings.
			for lang, ranking := range t.Trumps() {
				if _, ok := data.Trumps[lang]; !ok {
					data.Trumps[lang] = ranking
				}
			}
			return nil
		}},
		{"aggregated", paths.Aggregated, func(r io.Reader) error {
			trumps, err := LoadTrumps(r)
			if err != nil {
				return err
			}
			for lang, ranking := range trumps {
				data.Trumps[lang] = ranking
			}
			return nil
		}},
		{"segment features", paths.SegmentFeatures, func(r io.Reader) (err error) {
			data.PhonemeFeatures, err = LoadSegmentFeatures(r)
			return err
		}},
		{"wals", paths.WALS, func(r io.Reader) (err error) {
			data.Typology, err = LoadWALS(r)
			return err
		}},
		{"iso 639-3", paths.ISO6393, func(r io.Reader) (err error) {
			data.Codes.ThreeToOne, err = LoadISO6393(r)
			return err
		}},
		{"wikilanguages", paths.WikiLanguages, func(r io.Reader) (err error) {
			data.Codes.WikiNames, err = LoadWikiLanguages(r)
			return err
		}},
		{"chardump", paths.CharDump, func(r io.Reader) (err error) {
			data.Orthography, err = LoadDump(r)
			return err
		}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if step.path == "" {
			logger.Warn("no data file configured", zap.String("table", step.name))
			continue
		}
		if err := loadFile(step.path, step.load); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
		logger.Debug("loaded table", zap.String("table", step.name), zap.String("path", step.path))
	}

	data.PadFeatures()
	return data, nil
}

func loadFile(path string, load func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return load(f)
}
