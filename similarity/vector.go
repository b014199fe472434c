package similarity

import (
	"fmt"
	"math"

	"github.com/botirk38/langsim/types"
)

func checkVectors(a, b []float64) error {
	if len(a) == 0 || len(b) == 0 {
		return types.ErrEmptyOperand
	}
	if len(a) != len(b) {
		return fmt.Errorf("%d vs %d: %w", len(a), len(b), types.ErrLengthMismatch)
	}
	return nil
}

// CosineSimilarity computes the cosine of the angle between a and b.
// Vectors with zero magnitude score 0.
func CosineSimilarity(a, b []float64) (float64, error) {
	if err := checkVectors(a, b); err != nil {
		return 0, err
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return clamp01(dot / (math.Sqrt(normA) * math.Sqrt(normB))), nil
}

// EuclideanSimilarity computes similarity based on Euclidean distance.
// Returns 1 / (1 + distance) to convert distance to similarity (higher = more similar).
func EuclideanSimilarity(a, b []float64) (float64, error) {
	if err := checkVectors(a, b); err != nil {
		return 0, err
	}

	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return 1 / (1 + math.Sqrt(sum)), nil
}

// ManhattanSimilarity computes similarity based on Manhattan (L1) distance.
// Returns 1 / (1 + distance) to convert distance to similarity.
func ManhattanSimilarity(a, b []float64) (float64, error) {
	if err := checkVectors(a, b); err != nil {
		return 0, err
	}

	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return 1 / (1 + sum), nil
}

// TypologyMatch returns the share of feature positions where a and b agree,
// not counting positions that are missing (zero) in both.
func TypologyMatch(a, b []float64) (float64, error) {
	if err := checkVectors(a, b); err != nil {
		return 0, err
	}

	equal := 0
	for i := range a {
		if a[i] == b[i] && a[i] != 0 {
			equal++
		}
	}
	return float64(equal) / float64(len(a)), nil
}

// VectorFuncByName returns the typology comparator registered under name:
// "cosine", "euclidean", "manhattan" or "match".
func VectorFuncByName(name string) (VectorFunc, error) {
	switch name {
	case "cosine", "":
		return CosineSimilarity, nil
	case "euclidean":
		return EuclideanSimilarity, nil
	case "manhattan":
		return ManhattanSimilarity, nil
	case "match":
		return TypologyMatch, nil
	default:
		return nil, fmt.Errorf("unknown vector comparator %q", name)
	}
}
