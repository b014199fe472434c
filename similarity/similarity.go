// Package similarity provides the scoring functions used to compare languages.
//
// Every scorer returns a value in [0,1] together with an error. An error such
// as types.ErrEmptyOperand means the score could not be computed and is never
// folded into the numeric result.
package similarity

import (
	"sort"

	"github.com/botirk38/langsim/types"
)

// VectorFunc scores two equal-length feature vectors.
type VectorFunc func(a, b []float64) (float64, error)

func sortedRunes(d types.CharFreqs) []rune {
	out := make([]rune, 0, len(d))
	for r := range d {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
