package similarity

import (
	"fmt"

	"github.com/botirk38/langsim/types"
)

// F1Score returns the harmonic mean of precision |A∩B|/|B| and recall |A∩B|/|A|.
// Identical inventories score 1 and disjoint ones score 0.
func F1Score(a, b types.PhonemeSet) (float64, error) {
	if len(a) == 0 {
		return 0, fmt.Errorf("first inventory: %w", types.ErrEmptyOperand)
	}
	if len(b) == 0 {
		return 0, fmt.Errorf("second inventory: %w", types.ErrEmptyOperand)
	}

	tp := float64(a.Intersect(b))
	if tp == 0 {
		return 0, nil
	}

	precision := tp / float64(len(b))
	recall := tp / float64(len(a))
	return 2 * precision * recall / (precision + recall), nil
}

// Overlap scores how well a bridge inventory covers a target: the number of
// shared phonemes minus the number only found in the target. It is unbounded
// and meant for inspection, not ranking.
func Overlap(bridge, target types.PhonemeSet) (int, error) {
	if len(bridge) == 0 || len(target) == 0 {
		return 0, types.ErrEmptyOperand
	}
	common := bridge.Intersect(target)
	return common - (len(target) - common), nil
}
