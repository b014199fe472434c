package similarity

import "github.com/botirk38/langsim/types"

// Genealogy category scores.
const (
	SameGenus  = 1.0
	SameFamily = 0.5
	Unrelated  = 0.0
)

// GenealogyScore returns SameGenus when both family and genus match,
// SameFamily when only the family matches and Unrelated otherwise. An empty
// family is treated as unknown.
func GenealogyScore(g1, g2 types.Genealogy) float64 {
	if g1.Family == "" || g1.Family != g2.Family {
		return Unrelated
	}
	if g1.Genus != "" && g1.Genus == g2.Genus {
		return SameGenus
	}
	return SameFamily
}
