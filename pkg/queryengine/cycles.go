package queryengine

// Cycle is a strongly connected component of size >= 2, or a size-1
// component with a self-loop, returned as an ordered path.
type Cycle struct {
	Entities []string `json:"entities"`
}

type tarjanState struct {
	g        *Graph
	index    map[string]int
	lowlink  map[string]int
	onStack  map[string]bool
	stack    []string
	counter  int
	cycles   []Cycle
}

// DetectCycles runs Tarjan's strongly connected components algorithm over
// g, emitting every SCC of size >= 2, plus any size-1 SCC that is a
// self-loop (an entity with an edge to itself). O(V+E).
func DetectCycles(g *Graph) []Cycle {
	st := &tarjanState{
		g:       g,
		index:   make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
	}
	for _, v := range g.Order {
		if _, seen := st.index[v]; !seen {
			st.strongConnect(v)
		}
	}
	return st.cycles
}

func (st *tarjanState) strongConnect(v string) {
	st.index[v] = st.counter
	st.lowlink[v] = st.counter
	st.counter++
	st.stack = append(st.stack, v)
	st.onStack[v] = true

	for _, w := range st.g.ScopedNeighbors(v) {
		if _, seen := st.index[w]; !seen {
			st.strongConnect(w)
			if st.lowlink[w] < st.lowlink[v] {
				st.lowlink[v] = st.lowlink[w]
			}
		} else if st.onStack[w] {
			if st.index[w] < st.lowlink[v] {
				st.lowlink[v] = st.index[w]
			}
		}
	}

	if st.lowlink[v] != st.index[v] {
		return
	}

	var component []string
	for {
		n := len(st.stack) - 1
		w := st.stack[n]
		st.stack = st.stack[:n]
		st.onStack[w] = false
		component = append(component, w)
		if w == v {
			break
		}
	}

	if len(component) >= 2 || selfLoop(st.g, component[0]) {
		st.cycles = append(st.cycles, Cycle{Entities: component})
	}
}

func selfLoop(g *Graph, key string) bool {
	for _, n := range g.ScopedNeighbors(key) {
		if n == key {
			return true
		}
	}
	return false
}

// KCoreLayer is every vertex whose coreness equals K.
type KCoreLayer struct {
	K        int      `json:"k"`
	Entities []string `json:"entities"`
}

// KCoreDecomposition peels vertices of minimum remaining degree one at a
// time, tracking the running maximum degree seen at removal as k. A
// vertex's coreness is k at the moment it was peeled. Standard
// Batagelj-Zaversnik decomposition, O(V^2) here since entity graphs are
// small enough that a bucket-queue isn't worth the complexity.
func KCoreDecomposition(g *Graph) []KCoreLayer {
	undirected := make(map[string]map[string]bool, len(g.Order))
	for _, key := range g.Order {
		undirected[key] = make(map[string]bool)
	}
	for _, key := range g.Order {
		for _, n := range g.ScopedNeighbors(key) {
			if _, ok := undirected[n]; !ok {
				undirected[n] = make(map[string]bool)
			}
			undirected[key][n] = true
			undirected[n][key] = true
		}
		for _, n := range g.scopedReverseNeighbors(key) {
			if _, ok := undirected[n]; !ok {
				undirected[n] = make(map[string]bool)
			}
			undirected[key][n] = true
			undirected[n][key] = true
		}
	}

	degree := make(map[string]int, len(undirected))
	removed := make(map[string]bool, len(undirected))
	remaining := len(undirected)
	for v, neighbors := range undirected {
		degree[v] = len(neighbors)
	}

	coreness := make(map[string]int, len(undirected))
	k := 0
	for remaining > 0 {
		minVertex := ""
		minDegree := -1
		for v, d := range degree {
			if removed[v] {
				continue
			}
			if minDegree == -1 || d < minDegree {
				minDegree = d
				minVertex = v
			}
		}
		if minDegree > k {
			k = minDegree
		}
		coreness[minVertex] = k
		removed[minVertex] = true
		remaining--
		for n := range undirected[minVertex] {
			if !removed[n] {
				degree[n]--
			}
		}
	}

	layers := make(map[int][]string)
	for v, c := range coreness {
		layers[c] = append(layers[c], v)
	}
	out := make([]KCoreLayer, 0, len(layers))
	for c, entities := range layers {
		out = append(out, KCoreLayer{K: c, Entities: entities})
	}
	return out
}
