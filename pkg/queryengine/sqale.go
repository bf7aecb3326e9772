package queryengine

import "sort"

// SQALERating is the A-E maintainability grade.
type SQALERating string

const (
	SQALEA SQALERating = "A"
	SQALEB SQALERating = "B"
	SQALEC SQALERating = "C"
	SQALED SQALERating = "D"
	SQALEE SQALERating = "E"
)

// SQALEScore is one entity's technical-debt weighted sum and rating.
type SQALEScore struct {
	Key    string      `json:"key"`
	Debt   float64     `json:"debt"`
	Rating SQALERating `json:"rating"`
}

const (
	sqaleCycleWeight   = 0.4
	sqaleCouplingWeight = 0.25
	sqaleLCOMWeight    = 0.2
	sqaleEntropyWeight = 0.15
)

// SQALETechnicalDebt computes, per entity, a weighted sum of cycle
// participation, hotspot coupling (CBO normalized against the graph's
// maximum), LCOM, and high-entropy contribution, then maps the sum to an
// A-E rating.
func SQALETechnicalDebt(g *Graph) []SQALEScore {
	cycles := DetectCycles(g)
	inCycle := make(map[string]bool)
	for _, c := range cycles {
		for _, k := range c.Entities {
			inCycle[k] = true
		}
	}

	ck := CKMetricsSuite(g)
	ckByKey := make(map[string]CKMetrics, len(ck))
	maxCBO := 0
	for _, m := range ck {
		ckByKey[m.Key] = m
		if m.CBO > maxCBO {
			maxCBO = m.CBO
		}
	}

	ent := Entropy(g)
	entByKey := make(map[string]EntityEntropy, len(ent))
	maxEntropy := 0.0
	for _, e := range ent {
		entByKey[e.Key] = e
		if e.Entropy > maxEntropy {
			maxEntropy = e.Entropy
		}
	}

	out := make([]SQALEScore, 0, len(g.Order))
	for _, key := range g.Order {
		m := ckByKey[key]
		e := entByKey[key]

		cycleTerm := 0.0
		if inCycle[key] {
			cycleTerm = 1.0
		}

		couplingTerm := 0.0
		if maxCBO > 0 {
			couplingTerm = float64(m.CBO) / float64(maxCBO)
		}

		entropyTerm := 0.0
		if maxEntropy > 0 {
			entropyTerm = e.Entropy / maxEntropy
		}

		debt := sqaleCycleWeight*cycleTerm +
			sqaleCouplingWeight*couplingTerm +
			sqaleLCOMWeight*m.LCOM +
			sqaleEntropyWeight*entropyTerm

		out = append(out, SQALEScore{Key: key, Debt: debt, Rating: ratingFor(debt)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Debt > out[j].Debt })
	return out
}

func ratingFor(debt float64) SQALERating {
	switch {
	case debt < 0.2:
		return SQALEA
	case debt < 0.4:
		return SQALEB
	case debt < 0.6:
		return SQALEC
	case debt < 0.8:
		return SQALED
	default:
		return SQALEE
	}
}
