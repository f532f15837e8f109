package vectorstore

import "math"

// Candidate pairs a stored vector with its similarity to the query, in
// similarity rank order.
type Candidate struct {
	Vector []float32
	Score  float64
}

// MaximalMarginalRelevance selects up to k candidate indices balancing query
// relevance against diversity among the already selected set. Each round
// picks the candidate maximizing
//
//	lambda*sim(c, query) - (1-lambda)*maxSim(c, selected)
//
// with ties going to the better original similarity rank. lambda=1 reduces
// to pure similarity order, lambda=0 to pure diversity.
func MaximalMarginalRelevance(candidates []Candidate, k int, lambda float64) []int {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	selected := make([]int, 0, k)
	remaining := make(map[int]struct{}, len(candidates))
	for i := range candidates {
		remaining[i] = struct{}{}
	}

	for len(selected) < k {
		best := -1
		bestScore := math.Inf(-1)
		// Iterate in rank order so a strict > comparison breaks ties by rank.
		for i := range candidates {
			if _, ok := remaining[i]; !ok {
				continue
			}
			maxSim := 0.0
			for _, j := range selected {
				if sim := Cosine(candidates[i].Vector, candidates[j].Vector); sim > maxSim {
					maxSim = sim
				}
			}
			score := lambda*candidates[i].Score - (1-lambda)*maxSim
			if score > bestScore {
				bestScore = score
				best = i
			}
		}
		if best < 0 {
			break
		}
		selected = append(selected, best)
		delete(remaining, best)
	}
	return selected
}

// Cosine returns the cosine similarity of two vectors. Mismatched or zero
// vectors score 0.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
