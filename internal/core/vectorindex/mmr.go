package vectorindex

import (
	"math"
)

// candidate pairs a hit with its stored vector so MMR can measure
// redundancy against already-selected results.
type candidate struct {
	hit Hit
	vec []float32
}

// rerank applies Maximal Marginal Relevance over candidates already scored
// by query similarity (candidate.hit.Score). It repeatedly selects the
// candidate maximizing
//
//	lambda*sim(query, c) - (1-lambda)*max sim(c, selected)
//
// breaking ties by the higher raw query similarity, until k results are
// chosen or candidates are exhausted.
func rerank(cands []candidate, k int, lambda float64) []Hit {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	if k > len(cands) {
		k = len(cands)
	}

	selected := make([]Hit, 0, k)
	selectedVecs := make([][]float32, 0, k)
	remaining := make([]candidate, len(cands))
	copy(remaining, cands)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := -1
		bestScore := math.Inf(-1)
		bestSim := math.Inf(-1)

		for i, c := range remaining {
			// True signed maximum over the selected set: a candidate
			// anti-similar to everything selected gets a negative
			// redundancy and is rewarded, not clamped to zero.
			redundancy := 0.0
			if len(selectedVecs) > 0 {
				redundancy = math.Inf(-1)
				for _, sv := range selectedVecs {
					if s := CosineSimilarity(c.vec, sv); s > redundancy {
						redundancy = s
					}
				}
			}
			score := lambda*c.hit.Score - (1-lambda)*redundancy
			if score > bestScore || (score == bestScore && c.hit.Score > bestSim) {
				bestIdx = i
				bestScore = score
				bestSim = c.hit.Score
			}
		}

		chosen := remaining[bestIdx]
		selected = append(selected, chosen.hit)
		selectedVecs = append(selectedVecs, chosen.vec)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return selected
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0
// when either vector has zero magnitude or lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
