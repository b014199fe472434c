// Package loader parses the tab- and comma-separated tables the scorers are
// built from: PHOIBLE inventories and segment features, WALS, the ISO 639-3
// code table, the Wikipedia language list and per-language text dumps.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// ErrMalformedTable indicates a missing column or an unparsable cell.
var ErrMalformedTable = errors.New("malformed table")

func newReader(r io.Reader, comma rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	// PHOIBLE cells contain bare quote characters.
	cr.LazyQuotes = true
	return cr
}

// header maps column names to their index.
type header map[string]int

func readHeader(cr *csv.Reader, required ...string) (header, error) {
	row, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty table: %w", ErrMalformedTable)
		}
		return nil, err
	}
	h := make(header, len(row))
	for i, name := range row {
		h[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range required {
		if _, ok := h[name]; !ok {
			return nil, fmt.Errorf("missing column %q: %w", name, ErrMalformedTable)
		}
	}
	return h, nil
}

func (h header) get(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseCount parses a non-negative integer cell.
func parseCount(s string) (int, error) {
	u, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrMalformedTable)
	}
	return safecast.Conv[int](u)
}

// leadingInt returns the integer prefix of a WALS value such as "2 Moderately small".
// Empty or non-numeric cells count as 0.
func leadingInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, nil
	}
	return parseCount(s[:end])
}
