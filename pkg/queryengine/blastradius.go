package queryengine

import "context"

// maxNodesExplored bounds blast-radius BFS on pathological graphs, the
// same safety-limit idiom as the teacher's call-path tracer.
const maxNodesExplored = 50000

// HopLevel is one level of a blast-radius BFS result.
type HopLevel struct {
	Hop      int      `json:"hop"`
	Count    int      `json:"count"`
	Entities []string `json:"entities"`
}

// BlastRadius is the result of a forward BFS from a source entity.
type BlastRadius struct {
	SourceKey     string     `json:"source_key"`
	ByHop         []HopLevel `json:"by_hop"`
	TotalAffected int        `json:"total_affected"`
}

// BlastRadiusBFS walks forward from sourceKey up to maxHops levels,
// recording the set of entities newly reached at each level. sourceKey is
// fuzzy-matched via Graph.ResolveKey if no exact entity exists.
func BlastRadiusBFS(ctx context.Context, g *Graph, sourceKey string, maxHops int) (BlastRadius, bool) {
	resolved, ok := g.ResolveKey(sourceKey)
	if !ok {
		return BlastRadius{}, false
	}

	visited := map[string]bool{resolved: true}
	frontier := []string{resolved}
	result := BlastRadius{SourceKey: resolved}

	explored := 0
	for hop := 1; hop <= maxHops && len(frontier) > 0; hop++ {
		select {
		case <-ctx.Done():
			return result, true
		default:
		}

		var next []string
		var level []string
		for _, k := range frontier {
			for _, n := range g.Neighbors(k) {
				explored++
				if explored > maxNodesExplored {
					result.ByHop = append(result.ByHop, HopLevel{Hop: hop, Count: len(level), Entities: level})
					result.TotalAffected += len(level)
					return result, true
				}
				if visited[n] {
					continue
				}
				visited[n] = true
				level = append(level, n)
				next = append(next, n)
			}
		}
		if len(level) == 0 {
			break
		}
		result.ByHop = append(result.ByHop, HopLevel{Hop: hop, Count: len(level), Entities: level})
		result.TotalAffected += len(level)
		frontier = next
	}

	return result, true
}
