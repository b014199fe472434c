package similarity

import (
	"fmt"
	"math"

	"github.com/botirk38/langsim/types"
)

// CharFrequencyScore compares two character distributions. For every
// character seen in both, exp(log d1[c] + log d2[c]) is summed; the sum is
// divided by the product of the L2 norms of the full distributions.
// Characters present in only one distribution add nothing to the numerator.
func CharFrequencyScore(d1, d2 types.CharFreqs) (float64, error) {
	if len(d1) == 0 {
		return 0, fmt.Errorf("first distribution: %w", types.ErrEmptyOperand)
	}
	if len(d2) == 0 {
		return 0, fmt.Errorf("second distribution: %w", types.ErrEmptyOperand)
	}

	n1, n2 := l2norm(d1), l2norm(d2)
	if n1 == 0 || n2 == 0 {
		return 0, fmt.Errorf("zero-norm distribution: %w", types.ErrEmptyOperand)
	}

	small, large := d1, d2
	if len(small) > len(large) {
		small, large = large, small
	}

	var dot float64
	for _, c := range sortedRunes(small) {
		x, y := small[c], large[c]
		if x <= 0 || y <= 0 {
			continue
		}
		dot += math.Exp(math.Log(float64(x)) + math.Log(float64(y)))
	}

	return clamp01(dot / (n1 * n2)), nil
}

func l2norm(d types.CharFreqs) float64 {
	var sum float64
	for _, c := range sortedRunes(d) {
		v := float64(d[c])
		sum += v * v
	}
	return math.Sqrt(sum)
}
