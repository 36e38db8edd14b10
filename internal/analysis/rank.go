package analysis

import (
	"sort"

	"brasero-forecast/internal/model"
	"brasero-forecast/internal/projection"
)

type RankedImpact struct {
	Rank int
	Impact
}

// RankBySwing computes driver impacts and sorts them descending by Swing.
func RankBySwing(e *projection.Engine, a model.AssumptionSet, step float64) []RankedImpact {
	impacts := Sensitivity(e, a, step)
	sort.SliceStable(impacts, func(i, j int) bool {
		return impacts[i].Swing > impacts[j].Swing
	})
	out := make([]RankedImpact, len(impacts))
	for i, imp := range impacts {
		out[i] = RankedImpact{Rank: i + 1, Impact: imp}
	}
	return out
}
