package types

import (
	"fmt"
	"sort"
)

// CodeMap translates ISO 639-3 codes into the other two code systems.
type CodeMap struct {
	// ThreeToOne maps ISO 639-3 to ISO 639-1, already falling back to the
	// ISO 639-3 code when the language has no two-letter code.
	ThreeToOne map[string]string
	// WikiNames maps a Wikipedia language code to its Wikipedia name.
	WikiNames map[string]string
}

// Translate resolves iso3 into a Language carrying all three codes.
func (m CodeMap) Translate(iso3 string) (Language, error) {
	iso1, ok := m.ThreeToOne[iso3]
	if !ok || iso1 == "" {
		return Language{}, fmt.Errorf("%s: no ISO 639-1 entry: %w", iso3, ErrUnmappableCode)
	}
	name, ok := m.WikiNames[iso1]
	if !ok || name == "" {
		return Language{}, fmt.Errorf("%s (%s): no Wikipedia name: %w", iso3, iso1, ErrUnmappableCode)
	}
	return Language{ISO3: iso3, ISO1: iso1, WikiCode: iso1, WikiName: name}, nil
}

// Dataset holds every table the scorers read. It is built once per session
// and must not be mutated after it is handed to a Scorer.
type Dataset struct {
	// Sources holds, per ISO3 code, every observed inventory keyed by source name.
	Sources map[string]map[string]PhonemeSet
	// Trumps ranks the source names per ISO3 code, rank 1 first.
	Trumps map[string][]string
	// Inventories holds the resolved inventory per ISO3 code.
	Inventories map[string]PhonemeSet
	// Names holds the display name per ISO3 code.
	Names map[string]string
	// PhonemeFeatures maps a phoneme to its binary distinctive-feature vector.
	PhonemeFeatures map[string][]float64
	// Typology holds WALS rows per ISO3 code.
	Typology map[string]TypologyRecord
	// Orthography holds character distributions per Wikipedia name.
	Orthography map[string]OrthographyRecord
	// Codes joins the tables above.
	Codes CodeMap
}

// FeatureWidth returns the widest typology feature vector in the dataset.
func (d *Dataset) FeatureWidth() int {
	width := 0
	for _, rec := range d.Typology {
		if len(rec.Features) > width {
			width = len(rec.Features)
		}
	}
	return width
}

// PadFeatures right-pads every typology vector with zeros to the common width.
func (d *Dataset) PadFeatures() {
	width := d.FeatureWidth()
	for code, rec := range d.Typology {
		if len(rec.Features) == width {
			continue
		}
		padded := make([]float64, width)
		copy(padded, rec.Features)
		rec.Features = padded
		d.Typology[code] = rec
	}
}

// Validate checks that every typology vector has the same length.
func (d *Dataset) Validate() error {
	codes := make([]string, 0, len(d.Typology))
	for code := range d.Typology {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	width := -1
	for _, code := range codes {
		n := len(d.Typology[code].Features)
		if width < 0 {
			width = n
			continue
		}
		if n != width {
			return fmt.Errorf("%s: %d features, want %d: %w", code, n, width, ErrLengthMismatch)
		}
	}
	return nil
}
