package loader

import (
	"errors"
	"fmt"
	"io"

	"github.com/botirk38/langsim/types"
)

// walsFeatureStart is the first feature column of WALS language.csv.
const walsFeatureStart = 10

// LoadWALS reads WALS language.csv into typology records keyed by ISO3 code.
//
// Every feature value contributes its leading integer, and each feature
// column is divided by its maximum so values fall within [0,1]. Rows without
// an ISO code are dropped; a repeated ISO code keeps the last row.
func LoadWALS(r io.Reader) (map[string]types.TypologyRecord, error) {
	cr := newReader(r, ',')
	h, err := readHeader(cr, "iso_code", "Name", "genus", "family")
	if err != nil {
		return nil, fmt.Errorf("wals: %w", err)
	}
	width := len(h) - walsFeatureStart
	if width < 0 {
		width = 0
	}

	out := make(map[string]types.TypologyRecord)
	maxvals := make([]float64, width)

	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("wals line %d: %w", line, err)
		}

		feats := make([]float64, width)
		for i := range feats {
			col := walsFeatureStart + i
			if col >= len(row) {
				break
			}
			v, err := leadingInt(row[col])
			if err != nil {
				return nil, fmt.Errorf("wals line %d column %d: %w", line, col+1, err)
			}
			feats[i] = float64(v)
			maxvals[i] = max(maxvals[i], feats[i])
		}

		iso := h.get(row, "iso_code")
		if iso == "" {
			continue
		}
		out[iso] = types.TypologyRecord{
			Name: h.get(row, "Name"),
			Genealogy: types.Genealogy{
				Family: h.get(row, "family"),
				Genus:  h.get(row, "genus"),
			},
			Features: feats,
		}
	}

	for _, rec := range out {
		for i, m := range maxvals {
			if m > 0 {
				rec.Features[i] /= m
			}
		}
	}
	return out, nil
}
