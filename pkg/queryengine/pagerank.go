package queryengine

import "sort"

const (
	pageRankDamping    = 0.85
	pageRankMaxIters   = 50
	pageRankConvergence = 1e-6
)

// RankedEntity pairs an entity key with its PageRank score.
type RankedEntity struct {
	Key   string  `json:"key"`
	Score float64 `json:"score"`
}

// PageRank runs the standard damped power-iteration PageRank over g,
// stopping at 50 iterations or when the L1 delta between iterations drops
// below 1e-6. Scores sum to 1.0. Returns the top N by score, or all
// entities if n <= 0.
func PageRank(g *Graph, n int) []RankedEntity {
	nodes := g.Order
	count := len(nodes)
	if count == 0 {
		return nil
	}

	scores := make(map[string]float64, count)
	outDegree := make(map[string]int, count)
	for _, k := range nodes {
		scores[k] = 1.0 / float64(count)
		outDegree[k] = len(g.ScopedNeighbors(k))
	}

	for iter := 0; iter < pageRankMaxIters; iter++ {
		next := make(map[string]float64, count)
		dangling := 0.0
		for _, k := range nodes {
			if outDegree[k] == 0 {
				dangling += scores[k]
			}
		}
		base := (1 - pageRankDamping) / float64(count)
		danglingShare := pageRankDamping * dangling / float64(count)
		for _, k := range nodes {
			next[k] = base + danglingShare
		}
		for _, k := range nodes {
			if outDegree[k] == 0 {
				continue
			}
			share := pageRankDamping * scores[k] / float64(outDegree[k])
			for _, nb := range g.ScopedNeighbors(k) {
				next[nb] += share
			}
		}

		delta := 0.0
		for _, k := range nodes {
			delta += absFloat(next[k] - scores[k])
		}
		scores = next
		if delta < pageRankConvergence {
			break
		}
	}

	ranked := make([]RankedEntity, 0, count)
	for _, k := range nodes {
		ranked = append(ranked, RankedEntity{Key: k, Score: scores[k]})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
