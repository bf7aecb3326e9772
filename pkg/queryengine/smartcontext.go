package queryengine

import "sort"

// ContextCandidate is one entity considered for inclusion in a smart
// context selection, carrying its relevance score and reason.
type ContextCandidate struct {
	Key       string  `json:"key"`
	Relevance string  `json:"relevance"`
	Score     float64 `json:"score"`
	TokenCost int     `json:"token_cost"`
}

// SmartContext is the result of a token-budgeted knapsack selection
// rooted at a focus entity.
type SmartContext struct {
	FocusKey    string              `json:"focus_key"`
	Included    []ContextCandidate  `json:"included"`
	TokensUsed  int                 `json:"tokens_used"`
	Breakdown   map[string]int      `json:"relevance_breakdown"`
}

const (
	scoreFocus         = 1.0
	scoreDirectCaller  = 0.95
	scoreDirectCallee  = 0.95
	scoreTransitiveBase = 0.7
	scoreTransitiveStep = 0.1
	scoreFloor         = 0.3
)

// SelectSmartContext enumerates the focus entity, its direct callers and
// callees, and transitive neighbors at increasing depth (score decaying
// by 0.1 per hop until it drops to or below 0.3), estimates each
// candidate's token cost as len(name)/4 + len(file_path)/4 + 50, and
// greedily admits candidates by descending score while they fit the
// remaining budget.
func SelectSmartContext(g *Graph, focusKey string, budget int) SmartContext {
	result := SmartContext{FocusKey: focusKey, Breakdown: make(map[string]int)}
	if _, ok := g.Entities[focusKey]; !ok {
		return result
	}

	candidates := enumerateCandidates(g, focusKey)

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })

	remaining := budget
	for _, c := range candidates {
		if c.TokenCost > remaining {
			continue
		}
		result.Included = append(result.Included, c)
		result.TokensUsed += c.TokenCost
		result.Breakdown[c.Relevance]++
		remaining -= c.TokenCost
	}
	return result
}

func enumerateCandidates(g *Graph, focusKey string) []ContextCandidate {
	seen := map[string]bool{focusKey: true}
	candidates := []ContextCandidate{candidateFor(g, focusKey, "focus", scoreFocus)}

	for _, caller := range g.scopedReverseNeighbors(focusKey) {
		if seen[caller] {
			continue
		}
		seen[caller] = true
		candidates = append(candidates, candidateFor(g, caller, "direct_caller", scoreDirectCaller))
	}
	for _, callee := range g.ScopedNeighbors(focusKey) {
		if seen[callee] {
			continue
		}
		seen[callee] = true
		candidates = append(candidates, candidateFor(g, callee, "direct_callee", scoreDirectCallee))
	}

	frontier := make([]string, 0, len(seen))
	for k := range seen {
		if k != focusKey {
			frontier = append(frontier, k)
		}
	}

	depth := 1
	for len(frontier) > 0 {
		score := scoreTransitiveBase - scoreTransitiveStep*float64(depth)
		if score <= scoreFloor {
			break
		}
		var next []string
		for _, v := range frontier {
			for _, n := range append(g.ScopedNeighbors(v), g.scopedReverseNeighbors(v)...) {
				if seen[n] {
					continue
				}
				seen[n] = true
				candidates = append(candidates, candidateFor(g, n, "transitive", score))
				next = append(next, n)
			}
		}
		frontier = next
		depth++
	}

	return candidates
}

func candidateFor(g *Graph, key, relevance string, score float64) ContextCandidate {
	e := g.Entities[key]
	cost := len(e.Name)/4 + len(e.FilePath)/4 + 50
	return ContextCandidate{Key: key, Relevance: relevance, Score: score, TokenCost: cost}
}
