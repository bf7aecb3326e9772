package queryengine

import "github.com/parseltongue/parseltongue/pkg/model"

// CKGrade is the A-F letter grade derived from a CK metrics threshold
// combination.
type CKGrade string

const (
	GradeA CKGrade = "A"
	GradeB CKGrade = "B"
	GradeC CKGrade = "C"
	GradeD CKGrade = "D"
	GradeF CKGrade = "F"
)

// CKMetrics is the Chidamber-Kemerer suite for one entity.
type CKMetrics struct {
	Key   string  `json:"key"`
	CBO   int     `json:"cbo"`
	RFC   int     `json:"rfc"`
	WMC   int     `json:"wmc"`
	LCOM  float64 `json:"lcom"`
	DIT   int     `json:"dit"`
	NOC   int     `json:"noc"`
	Grade CKGrade `json:"grade"`
}

// CKMetricsSuite computes CBO (unique in/out neighbors), RFC (1 + outgoing
// Calls edges), WMC (proxy by out-degree), LCOM (1 minus the average
// Jaccard similarity of outgoing-target sets among entities sharing the
// same file), and DIT/NOC (inheritance depth and children count via
// Implements/Extends edges).
func CKMetricsSuite(g *Graph) []CKMetrics {
	dit := inheritanceDepths(g)
	noc := childCounts(g)
	byFile := entitiesByFile(g)

	out := make([]CKMetrics, 0, len(g.Order))
	for _, key := range g.Order {
		cbo := cboFor(g, key)
		rfc := rfcFor(g, key)
		wmc := len(g.ScopedNeighbors(key))
		lcom := lcomFor(g, key, byFile)
		m := CKMetrics{
			Key:  key,
			CBO:  cbo,
			RFC:  rfc,
			WMC:  wmc,
			LCOM: lcom,
			DIT:  dit[key],
			NOC:  noc[key],
		}
		m.Grade = gradeFor(m)
		out = append(out, m)
	}
	return out
}

func cboFor(g *Graph, key string) int {
	seen := make(map[string]bool)
	for _, n := range g.ScopedNeighbors(key) {
		seen[n] = true
	}
	for _, n := range g.scopedReverseNeighbors(key) {
		seen[n] = true
	}
	return len(seen)
}

func rfcFor(g *Graph, key string) int {
	calls := 0
	for _, e := range g.Out[key] {
		if e.EdgeType == model.EdgeCalls {
			calls++
		}
	}
	return 1 + calls
}

func entitiesByFile(g *Graph) map[string][]string {
	byFile := make(map[string][]string)
	for _, key := range g.Order {
		fp := g.Entities[key].FilePath
		byFile[fp] = append(byFile[fp], key)
	}
	return byFile
}

// lcomFor is 1 minus the average Jaccard similarity between key's
// outgoing-target set and every other entity co-located in the same file.
// A co-located entity with no outgoing edges and no overlap counts as
// fully dissimilar (Jaccard 0). Entities alone in their file have LCOM 0.
func lcomFor(g *Graph, key string, byFile map[string][]string) float64 {
	fp := g.Entities[key].FilePath
	peers := byFile[fp]
	if len(peers) <= 1 {
		return 0
	}
	mine := targetSet(g, key)
	total := 0.0
	count := 0
	for _, peer := range peers {
		if peer == key {
			continue
		}
		theirs := targetSet(g, peer)
		total += jaccard(mine, theirs)
		count++
	}
	if count == 0 {
		return 0
	}
	return 1 - total/float64(count)
}

func targetSet(g *Graph, key string) map[string]bool {
	s := make(map[string]bool)
	for _, n := range g.ScopedNeighbors(key) {
		s[n] = true
	}
	return s
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func inheritanceParents(g *Graph, key string) []string {
	var parents []string
	for _, e := range g.Out[key] {
		if e.EdgeType == model.EdgeImplements || e.EdgeType == model.EdgeExtends {
			if _, ok := g.Entities[e.ToKey]; ok {
				parents = append(parents, e.ToKey)
			}
		}
	}
	return parents
}

// inheritanceDepths computes DIT (depth in tree) as the longest
// Implements/Extends chain from each entity to a root with no parent.
func inheritanceDepths(g *Graph) map[string]int {
	depth := make(map[string]int, len(g.Order))
	visiting := make(map[string]bool)

	var compute func(key string) int
	compute = func(key string) int {
		if d, ok := depth[key]; ok {
			return d
		}
		if visiting[key] {
			return 0 // cyclic inheritance, treat as root to avoid infinite recursion
		}
		visiting[key] = true
		parents := inheritanceParents(g, key)
		best := 0
		for _, p := range parents {
			if d := compute(p) + 1; d > best {
				best = d
			}
		}
		visiting[key] = false
		depth[key] = best
		return best
	}

	for _, key := range g.Order {
		compute(key)
	}
	return depth
}

// childCounts computes NOC (number of children) as the count of entities
// whose Implements/Extends edge points at key.
func childCounts(g *Graph) map[string]int {
	noc := make(map[string]int, len(g.Order))
	for _, key := range g.Order {
		for _, e := range g.In[key] {
			if e.EdgeType == model.EdgeImplements || e.EdgeType == model.EdgeExtends {
				if _, ok := g.Entities[e.FromKey]; ok {
					noc[key]++
				}
			}
		}
	}
	return noc
}

// gradeFor maps a threshold combination to a letter grade. Any single
// severely out-of-range metric caps the grade at F; otherwise grades
// degrade by how many metrics cross their moderate threshold.
func gradeFor(m CKMetrics) CKGrade {
	severe := m.CBO > 20 || m.RFC > 50 || m.WMC > 30 || m.LCOM > 0.9 || m.DIT > 8
	if severe {
		return GradeF
	}
	flags := 0
	if m.CBO > 10 {
		flags++
	}
	if m.RFC > 25 {
		flags++
	}
	if m.WMC > 15 {
		flags++
	}
	if m.LCOM > 0.7 {
		flags++
	}
	if m.DIT > 4 {
		flags++
	}
	switch flags {
	case 0:
		return GradeA
	case 1:
		return GradeB
	case 2:
		return GradeC
	default:
		return GradeD
	}
}
