package queryengine

import (
	"math"

	"github.com/parseltongue/parseltongue/pkg/model"
)

// EntropyLevel classifies an entity's outgoing-edge-type distribution.
type EntropyLevel string

const (
	EntropyLow    EntropyLevel = "Low"
	EntropyMedium EntropyLevel = "Medium"
	EntropyHigh   EntropyLevel = "High"
)

// EntityEntropy is one entity's Shannon entropy over its outgoing edge types.
type EntityEntropy struct {
	Key     string       `json:"key"`
	Entropy float64      `json:"entropy"`
	Level   EntropyLevel `json:"level"`
}

// Entropy computes, for every entity, the Shannon entropy of its outgoing
// edges' edge_type histogram: H = -sum(p * log2(p)). Classifies Low
// (<1.0), Medium (1.0-2.0), High (>2.0).
func Entropy(g *Graph) []EntityEntropy {
	out := make([]EntityEntropy, 0, len(g.Order))
	for _, key := range g.Order {
		edges := g.Out[key]
		if len(edges) == 0 {
			out = append(out, EntityEntropy{Key: key, Entropy: 0, Level: EntropyLow})
			continue
		}
		counts := make(map[model.EdgeType]int, len(edges))
		for _, e := range edges {
			counts[e.EdgeType]++
		}
		total := float64(len(edges))
		h := 0.0
		for _, c := range counts {
			p := float64(c) / total
			h -= p * math.Log2(p)
		}
		out = append(out, EntityEntropy{Key: key, Entropy: h, Level: entropyLevel(h)})
	}
	return out
}

func entropyLevel(h float64) EntropyLevel {
	switch {
	case h < 1.0:
		return EntropyLow
	case h <= 2.0:
		return EntropyMedium
	default:
		return EntropyHigh
	}
}
