// Package queryengine implements the graph analysis algorithms: blast
// radius, cycle detection, k-core, PageRank, betweenness centrality,
// entropy, the CK metrics suite, SQALE technical debt, community
// detection, and the token-budget smart-context selector. Every
// algorithm operates on an in-memory Graph built once from a scoped
// query over the entity/edge relations — construction is O(V+E).
package queryengine

import "github.com/parseltongue/parseltongue/pkg/model"

// Graph is the in-memory adjacency representation every algorithm in this
// package operates on.
type Graph struct {
	Entities map[string]model.Entity
	Out      map[string][]model.DependencyEdge // key -> outgoing edges
	In       map[string][]model.DependencyEdge // key -> incoming edges
	Order    []string                          // entity keys in construction order, for deterministic iteration
}

// BuildGraph constructs a Graph from a flat entity/edge set, e.g. the
// result of a scoped store query. Edges referencing a key outside
// entities are still recorded (an unresolved or out-of-scope callee),
// just without a corresponding Entities entry.
func BuildGraph(entities []model.Entity, edges []model.DependencyEdge) *Graph {
	g := &Graph{
		Entities: make(map[string]model.Entity, len(entities)),
		Out:      make(map[string][]model.DependencyEdge, len(entities)),
		In:       make(map[string][]model.DependencyEdge, len(entities)),
		Order:    make([]string, 0, len(entities)),
	}
	for _, e := range entities {
		g.Entities[e.Key] = e
		g.Order = append(g.Order, e.Key)
	}
	for _, e := range edges {
		g.Out[e.FromKey] = append(g.Out[e.FromKey], e)
		g.In[e.ToKey] = append(g.In[e.ToKey], e)
	}
	return g
}

// Neighbors returns the forward-adjacent keys of key, deduplicated.
func (g *Graph) Neighbors(key string) []string {
	return dedupTargets(g.Out[key], func(e model.DependencyEdge) string { return e.ToKey })
}

// ReverseNeighbors returns the backward-adjacent keys of key, deduplicated.
func (g *Graph) ReverseNeighbors(key string) []string {
	return dedupTargets(g.In[key], func(e model.DependencyEdge) string { return e.FromKey })
}

// ScopedNeighbors returns key's forward-adjacent keys restricted to those
// with an Entities record — the closed adjacency algorithms that need a
// well-formed probability distribution or component structure (PageRank,
// betweenness, cycle detection) use, since an edge to an unresolved or
// out-of-scope callee has no node to carry weight.
func (g *Graph) ScopedNeighbors(key string) []string {
	out := g.Neighbors(key)
	filtered := out[:0:0]
	for _, k := range out {
		if _, ok := g.Entities[k]; ok {
			filtered = append(filtered, k)
		}
	}
	return filtered
}

// scopedReverseNeighbors is ScopedNeighbors' reverse-direction counterpart.
func (g *Graph) scopedReverseNeighbors(key string) []string {
	out := g.ReverseNeighbors(key)
	filtered := out[:0:0]
	for _, k := range out {
		if _, ok := g.Entities[k]; ok {
			filtered = append(filtered, k)
		}
	}
	return filtered
}

func dedupTargets(edges []model.DependencyEdge, sel func(model.DependencyEdge) string) []string {
	seen := make(map[string]bool, len(edges))
	out := make([]string, 0, len(edges))
	for _, e := range edges {
		k := sel(e)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// ResolveKey finds an exact match for key, or falls back to a suffix match
// on semantic path when none exists — the fuzzy-match rule blast radius
// and other focus-key algorithms use when a client supplies a short name
// instead of a full key.
func (g *Graph) ResolveKey(key string) (string, bool) {
	if _, ok := g.Entities[key]; ok {
		return key, true
	}
	var match string
	matches := 0
	for _, k := range g.Order {
		sp := g.Entities[k].SemanticPath
		if hasSuffix(sp, key) {
			match = k
			matches++
		}
	}
	if matches == 1 {
		return match, true
	}
	return "", false
}

func hasSuffix(s, suffix string) bool {
	if len(suffix) > len(s) {
		return false
	}
	return s[len(s)-len(suffix):] == suffix
}
