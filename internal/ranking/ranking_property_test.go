package ranking

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"put-screener/internal/models"
)

// Property: for any candidate set, ranking yields a permutation of the
// input ordered descending by the key, with equal keys ordered by
// contract symbol ascending. The order is total, so two runs can never
// disagree.

// candidateGen draws metrics from a coarse grid on purpose so ties are
// frequent and the tie-break is actually exercised.
func candidateGen() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 9),
		gen.IntRange(0, 9),
		gen.Identifier(),
	).Map(func(vals []interface{}) models.TradeCandidate {
		return models.TradeCandidate{
			OptionQuote: models.OptionQuote{
				Symbol: vals[2].(string),
				Side:   models.SidePut,
			},
			ROI: float64(vals[0].(int)) / 10,
			COP: float64(vals[1].(int)) / 10,
		}
	})
}

func candidateSliceGen() gopter.Gen {
	return gen.SliceOf(candidateGen())
}

func TestRankProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	for _, key := range []SortKey{ByROI, ByCOP, ByScore} {
		key := key

		properties.Property(fmt.Sprintf("%s: descending with symbol tie-break", key), prop.ForAll(
			func(cands []models.TradeCandidate) bool {
				ranked := Rank(cands, key)
				for i := 1; i < len(ranked); i++ {
					prev, cur := metric(ranked[i-1], key), metric(ranked[i], key)
					if prev < cur {
						return false
					}
					if prev == cur && ranked[i-1].Symbol > ranked[i].Symbol {
						return false
					}
				}
				return true
			},
			candidateSliceGen(),
		))

		properties.Property(fmt.Sprintf("%s: output is a permutation of input", key), prop.ForAll(
			func(cands []models.TradeCandidate) bool {
				ranked := Rank(cands, key)
				if len(ranked) != len(cands) {
					return false
				}
				counts := map[string]int{}
				for _, c := range cands {
					counts[c.Symbol]++
				}
				for _, c := range ranked {
					counts[c.Symbol]--
				}
				for _, n := range counts {
					if n != 0 {
						return false
					}
				}
				return true
			},
			candidateSliceGen(),
		))
	}

	properties.TestingRun(t)
}
