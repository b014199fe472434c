package loader

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/botirk38/langsim/inventory"
	"github.com/botirk38/langsim/types"
)

// PhoibleTable is the content of the PHOIBLE phoneme table.
type PhoibleTable struct {
	// Sources maps ISO3 code to source name to inventory.
	Sources map[string]map[string]types.PhonemeSet
	// Names maps ISO3 code to the PHOIBLE language name.
	Names map[string]string
	// Ranks holds one row per (language, source) with its trump rank.
	Ranks []types.SourceRank
}

// Trumps builds the per-language source ranking from the table's own trump column.
func (t *PhoibleTable) Trumps() map[string][]string {
	return inventory.BuildTrumps(t.Ranks)
}

// inventoryRef identifies one PHOIBLE inventory of one language.
type inventoryRef struct {
	lang, source, id string
}

// lessInventoryID orders numeric inventory IDs by value and falls back to
// string order for anything else.
func lessInventoryID(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// sourceNames names every inventory. Per language and source, the inventory
// with the lowest ID is named by the bare Source and any other by
// Source:InventoryID. The result does not depend on row order, so the phoneme
// and aggregated tables agree on the names.
func sourceNames(refs []inventoryRef) map[inventoryRef]string {
	type group struct{ lang, source string }
	first := make(map[group]string)
	for _, ref := range refs {
		g := group{ref.lang, ref.source}
		if id, ok := first[g]; !ok || lessInventoryID(ref.id, id) {
			first[g] = ref.id
		}
	}
	names := make(map[inventoryRef]string, len(refs))
	for _, ref := range refs {
		if first[group{ref.lang, ref.source}] == ref.id {
			names[ref] = ref.source
		} else {
			names[ref] = ref.source + ":" + ref.id
		}
	}
	return names
}

// LoadPhoibleSources reads the PHOIBLE phoneme table, one phoneme per row.
//
// A source is named by the Source column. When one language has several
// inventories from the same source, all but the lowest InventoryID are
// named Source:InventoryID.
func LoadPhoibleSources(r io.Reader) (*PhoibleTable, error) {
	cr := newReader(r, '\t')
	h, err := readHeader(cr, "InventoryID", "Source", "LanguageCode", "Trump", "Phoneme")
	if err != nil {
		return nil, fmt.Errorf("phoible phonemes: %w", err)
	}

	t := &PhoibleTable{
		Sources: make(map[string]map[string]types.PhonemeSet),
		Names:   make(map[string]string),
	}

	var refs []inventoryRef
	sets := make(map[inventoryRef]types.PhonemeSet)
	trumps := make(map[inventoryRef]int)

	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("phoible phonemes line %d: %w", line, err)
		}

		lang := h.get(row, "LanguageCode")
		phoneme := h.get(row, "Phoneme")
		if lang == "" || phoneme == "" {
			continue
		}
		ref := inventoryRef{lang: lang, source: h.get(row, "Source"), id: h.get(row, "InventoryID")}

		set, ok := sets[ref]
		if !ok {
			trump, err := parseCount(h.get(row, "Trump"))
			if err != nil {
				return nil, fmt.Errorf("phoible phonemes line %d: trump: %w", line, err)
			}
			set = types.PhonemeSet{}
			sets[ref] = set
			trumps[ref] = trump
			refs = append(refs, ref)
		}
		set.Add(phoneme)

		if name := h.get(row, "LanguageName"); name != "" {
			t.Names[lang] = name
		}
	}

	names := sourceNames(refs)
	for _, ref := range refs {
		if t.Sources[ref.lang] == nil {
			t.Sources[ref.lang] = make(map[string]types.PhonemeSet)
		}
		t.Sources[ref.lang][names[ref]] = sets[ref]
		t.Ranks = append(t.Ranks, types.SourceRank{Lang: ref.lang, Source: names[ref], Trump: trumps[ref]})
	}
	return t, nil
}

// LoadTrumps reads the PHOIBLE aggregated table and returns, per ISO3 code,
// the source names ordered by trump rank. Sources are named as in
// LoadPhoibleSources.
func LoadTrumps(r io.Reader) (map[string][]string, error) {
	cr := newReader(r, '\t')
	h, err := readHeader(cr, "InventoryID", "Source", "LanguageCode", "Trump")
	if err != nil {
		return nil, fmt.Errorf("phoible aggregated: %w", err)
	}

	var refs []inventoryRef
	trumps := make(map[inventoryRef]int)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("phoible aggregated line %d: %w", line, err)
		}
		lang := h.get(row, "LanguageCode")
		if lang == "" {
			continue
		}
		trump, err := parseCount(h.get(row, "Trump"))
		if err != nil {
			return nil, fmt.Errorf("phoible aggregated line %d: trump: %w", line, err)
		}
		ref := inventoryRef{lang: lang, source: h.get(row, "Source"), id: h.get(row, "InventoryID")}
		if _, ok := trumps[ref]; !ok {
			refs = append(refs, ref)
		}
		trumps[ref] = trump
	}

	names := sourceNames(refs)
	rows := make([]types.SourceRank, 0, len(refs))
	for _, ref := range refs {
		rows = append(rows, types.SourceRank{Lang: ref.lang, Source: names[ref], Trump: trumps[ref]})
	}
	return inventory.BuildTrumps(rows), nil
}

// LoadSegmentFeatures reads the PHOIBLE segment feature table. The first
// column is the segment; every other cell is "+" (1) or anything else (0).
func LoadSegmentFeatures(r io.Reader) (map[string][]float64, error) {
	cr := newReader(r, '\t')
	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("segment features: empty table: %w", ErrMalformedTable)
		}
		return nil, fmt.Errorf("segment features: %w", err)
	}
	width := len(head) - 1
	if width < 1 {
		return nil, fmt.Errorf("segment features: no feature columns: %w", ErrMalformedTable)
	}

	out := make(map[string][]float64)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("segment features line %d: %w", line, err)
		}
		segment := strings.TrimSpace(row[0])
		if segment == "" {
			continue
		}
		vec := make([]float64, width)
		for i := 0; i < width && i+1 < len(row); i++ {
			if strings.TrimSpace(row[i+1]) == "+" {
				vec[i] = 1
			}
		}
		out[segment] = vec
	}
	return out, nil
}

// SourceNames returns the source names of lang, sorted.
func (t *PhoibleTable) SourceNames(lang string) []string {
	names := make([]string, 0, len(t.Sources[lang]))
	for name := range t.Sources[lang] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
