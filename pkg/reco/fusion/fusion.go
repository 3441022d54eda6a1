// Package fusion merges the style-channel and situation-channel result sets
// into one ranking.
package fusion

import (
	"sort"

	"ai-stylist-be/pkg/reco"
)

const normalizeEpsilon = 1e-6

// Fuse merges the two channel result sets by product id, min-max normalizes
// each channel's scores, combines them with conflict-aware weights and
// returns the top k by fused score descending.
//
// Merge order is style candidates first, then situation-only candidates, in
// their incoming order. The sort is stable, so equal fused scores keep that
// merge order. A product absent from one channel scores 0.0 there before
// normalization.
func Fuse(styleItems, situationItems []reco.Candidate, conflict bool, k int) []reco.FusedCandidate {
	type entry struct {
		item      reco.Candidate
		styleSim  float64
		situation float64
	}

	index := make(map[string]int)
	var merged []entry

	for _, item := range styleItems {
		if at, ok := index[item.ProductID]; ok {
			merged[at].styleSim = item.Score
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, entry{item: item, styleSim: item.Score})
	}
	for _, item := range situationItems {
		if at, ok := index[item.ProductID]; ok {
			merged[at].situation = item.Score
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, entry{item: item, situation: item.Score})
	}

	if len(merged) == 0 {
		return nil
	}

	styleVals := make([]float64, len(merged))
	situationVals := make([]float64, len(merged))
	for i, e := range merged {
		styleVals[i] = e.styleSim
		situationVals[i] = e.situation
	}
	styleNorm := normalize(styleVals)
	situationNorm := normalize(situationVals)

	alpha, beta := 0.5, 0.5
	if conflict {
		alpha, beta = 0.0, 1.0
	}

	fused := make([]reco.FusedCandidate, len(merged))
	for i, e := range merged {
		fused[i] = reco.FusedCandidate{
			Candidate: e.item,
			Fused:     alpha*styleNorm[i] + beta*situationNorm[i],
		}
	}

	sort.SliceStable(fused, func(a, b int) bool { return fused[a].Fused > fused[b].Fused })

	if k > 0 && k < len(fused) {
		fused = fused[:k]
	}
	return fused
}

// normalize min-max scales to [0, 1]. When every value is (near) identical
// the channel carries no signal and all scores map to the neutral 0.5.
func normalize(vals []float64) []float64 {
	mn, mx := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}

	out := make([]float64, len(vals))
	if mx-mn < normalizeEpsilon {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	for i, v := range vals {
		out[i] = (v - mn) / (mx - mn)
	}
	return out
}
