package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/botirk38/langsim/types"
)

// Current schema version - increment when dumpPayload changes
const dumpSchemaVersion uint16 = 1

// ErrDumpSchema indicates a dump written by an incompatible version.
var ErrDumpSchema = errors.New("unsupported dump schema")

type dumpPayload struct {
	Schema  uint16
	Entries map[string]dumpEntry
}

type dumpEntry struct {
	Size  int
	Freqs map[string]int
}

// SaveDump writes the orthography table to w as msgpack.
func SaveDump(w io.Writer, dump map[string]types.OrthographyRecord) error {
	payload := dumpPayload{Schema: dumpSchemaVersion, Entries: make(map[string]dumpEntry, len(dump))}
	for name, rec := range dump {
		freqs := make(map[string]int, len(rec.Freqs))
		for r, n := range rec.Freqs {
			freqs[string(r)] = n
		}
		payload.Entries[name] = dumpEntry{Size: rec.Size, Freqs: freqs}
	}
	return msgpack.NewEncoder(w).Encode(&payload)
}

// LoadDump reads an orthography table written by SaveDump.
func LoadDump(r io.Reader) (map[string]types.OrthographyRecord, error) {
	var payload dumpPayload
	if err := msgpack.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode dump: %w", err)
	}
	if payload.Schema != dumpSchemaVersion {
		return nil, fmt.Errorf("schema %d, want %d: %w", payload.Schema, dumpSchemaVersion, ErrDumpSchema)
	}

	out := make(map[string]types.OrthographyRecord, len(payload.Entries))
	for name, e := range payload.Entries {
		freqs := make(types.CharFreqs, len(e.Freqs))
		for s, n := range e.Freqs {
			r, _ := utf8.DecodeRuneInString(s)
			freqs[r] = n
		}
		out[name] = types.OrthographyRecord{Size: e.Size, Freqs: freqs}
	}
	return out, nil
}

// SaveDumpFile writes the dump to path through a temporary file and a rename.
func SaveDumpFile(path string, dump map[string]types.OrthographyRecord) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if err = SaveDump(f, dump); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// LoadDumpFile reads a dump written by SaveDumpFile.
func LoadDumpFile(path string) (map[string]types.OrthographyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadDump(f)
}
