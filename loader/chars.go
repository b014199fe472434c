package loader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/botirk38/langsim/types"
)

// DumpFilePrefix prefixes every per-language text file: wikidata.<Wikipedia name>.
const DumpFilePrefix = "wikidata."

// maxLineSize bounds one line of a text dump.
const maxLineSize = 16 << 20

func ignored(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsDigit(r)
}

// CountChars counts the characters of lines after NFC normalisation and
// lower-casing. Whitespace, punctuation, symbols and digits are not counted.
func CountChars(lines []string) types.CharFreqs {
	freqs := types.CharFreqs{}
	for _, line := range lines {
		addChars(freqs, line)
	}
	return freqs
}

func addChars(freqs types.CharFreqs, text string) {
	for _, r := range norm.NFC.String(text) {
		if ignored(r) {
			continue
		}
		freqs[unicode.ToLower(r)]++
	}
}

// CountReader counts a text dump. Only the first tab-separated field of each
// line is counted; Size is the number of lines.
func CountReader(r io.Reader) (types.OrthographyRecord, error) {
	rec := types.OrthographyRecord{Freqs: types.CharFreqs{}}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		rec.Size++
		field, _, _ := strings.Cut(sc.Text(), "\t")
		addChars(rec.Freqs, field)
	}
	if err := sc.Err(); err != nil {
		return types.OrthographyRecord{}, err
	}
	return rec, nil
}

// DumpFiles lists the text dumps in dir keyed by Wikipedia name. Files must
// be named wikidata.<name> with no further dot.
func DumpFiles(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), DumpFilePrefix) {
			continue
		}
		name := strings.TrimPrefix(e.Name(), DumpFilePrefix)
		if name == "" || strings.Contains(name, ".") {
			continue
		}
		out[name] = filepath.Join(dir, e.Name())
	}
	return out, nil
}

// BuildDump counts every text dump in dir, jobs files at a time. jobs <= 0
// uses GOMAXPROCS.
func BuildDump(ctx context.Context, dir string, jobs int, logger *zap.Logger) (map[string]types.OrthographyRecord, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	files, err := DumpFiles(dir)
	if err != nil {
		return nil, err
	}
	logger.Info("counting text dumps", zap.String("dir", dir), zap.Int("files", len(files)))

	var mu sync.Mutex
	out := make(map[string]types.OrthographyRecord, len(files))

	g, gctx := errgroup.WithContext(ctx)
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(jobs)
	for name, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			rec, err := CountReader(f)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			logger.Debug("counted", zap.String("lang", name), zap.Int("lines", rec.Size), zap.Int("chars", len(rec.Freqs)))

			mu.Lock()
			out[name] = rec
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
