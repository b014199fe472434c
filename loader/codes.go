package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// LoadISO6393 reads the SIL ISO 639-3 code table and maps each three-letter
// code to its ISO 639-1 code, or to itself when it has none.
func LoadISO6393(r io.Reader) (map[string]string, error) {
	cr := newReader(r, '\t')
	h, err := readHeader(cr, "Id", "Part1")
	if err != nil {
		return nil, fmt.Errorf("iso 639-3: %w", err)
	}

	out := make(map[string]string)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iso 639-3 line %d: %w", line, err)
		}
		iso3 := h.get(row, "Id")
		if iso3 == "" {
			continue
		}
		iso1 := h.get(row, "Part1")
		if iso1 == "" {
			iso1 = iso3
		}
		out[iso3] = iso1
	}
	return out, nil
}

// LoadWikiLanguages reads "name<TAB>code" lines and maps Wikipedia code to name.
func LoadWikiLanguages(r io.Reader) (map[string]string, error) {
	out := make(map[string]string)
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		name, code, ok := strings.Cut(text, "\t")
		name, code = strings.TrimSpace(name), strings.TrimSpace(code)
		if !ok || name == "" || code == "" {
			return nil, fmt.Errorf("wikilanguages line %d: %q: %w", line, text, ErrMalformedTable)
		}
		out[code] = name
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("wikilanguages: %w", err)
	}
	return out, nil
}
