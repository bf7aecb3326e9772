package queryengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parseltongue/parseltongue/pkg/model"
)

func ent(key, name, filePath string) model.Entity {
	return model.Entity{Key: key, Name: name, FilePath: filePath}
}

func edge(from, to string, edgeType model.EdgeType) model.DependencyEdge {
	return model.DependencyEdge{FromKey: from, ToKey: to, EdgeType: edgeType}
}

func TestBuildGraph_ScopedNeighborsExcludesUnresolved(t *testing.T) {
	entities := []model.Entity{ent("go:fn:A:f.go:T1", "A", "f.go")}
	edges := []model.DependencyEdge{
		edge("go:fn:A:f.go:T1", "go:ref:External:unknown:T0", model.EdgeCalls),
	}
	g := BuildGraph(entities, edges)

	assert.Equal(t, []string{"go:ref:External:unknown:T0"}, g.Neighbors("go:fn:A:f.go:T1"))
	assert.Empty(t, g.ScopedNeighbors("go:fn:A:f.go:T1"))
}

func TestResolveKey_FuzzySuffixMatch(t *testing.T) {
	entities := []model.Entity{ent("go:fn:Handle:internal/a.go:T1", "Handle", "internal/a.go")}
	g := BuildGraph(entities, nil)
	g.Entities["go:fn:Handle:internal/a.go:T1"] = model.Entity{
		Key: "go:fn:Handle:internal/a.go:T1", SemanticPath: "go:fn:Handle:internal/a.go",
	}

	key, ok := g.ResolveKey("Handle:internal/a.go")
	assert.True(t, ok)
	assert.Equal(t, "go:fn:Handle:internal/a.go:T1", key)

	_, ok = g.ResolveKey("nonexistent")
	assert.False(t, ok)
}

func threeNodeCycleGraph() *Graph {
	entities := []model.Entity{
		ent("go:fn:A:f.go:T1", "A", "f.go"),
		ent("go:fn:B:f.go:T1", "B", "f.go"),
		ent("go:fn:C:f.go:T1", "C", "f.go"),
		ent("go:fn:D:f.go:T1", "D", "f.go"),
	}
	edges := []model.DependencyEdge{
		edge("go:fn:A:f.go:T1", "go:fn:B:f.go:T1", model.EdgeCalls),
		edge("go:fn:B:f.go:T1", "go:fn:C:f.go:T1", model.EdgeCalls),
		edge("go:fn:C:f.go:T1", "go:fn:A:f.go:T1", model.EdgeCalls),
		edge("go:fn:A:f.go:T1", "go:fn:D:f.go:T1", model.EdgeCalls),
	}
	return BuildGraph(entities, edges)
}

func TestDetectCycles_FindsThreeNodeSCC(t *testing.T) {
	g := threeNodeCycleGraph()
	cycles := DetectCycles(g)

	require.Len(t, cycles, 1)
	assert.ElementsMatch(t, []string{"go:fn:A:f.go:T1", "go:fn:B:f.go:T1", "go:fn:C:f.go:T1"}, cycles[0].Entities)
}

func TestDetectCycles_SelfLoopReported(t *testing.T) {
	entities := []model.Entity{ent("go:fn:A:f.go:T1", "A", "f.go")}
	edges := []model.DependencyEdge{edge("go:fn:A:f.go:T1", "go:fn:A:f.go:T1", model.EdgeCalls)}
	g := BuildGraph(entities, edges)

	cycles := DetectCycles(g)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"go:fn:A:f.go:T1"}, cycles[0].Entities)
}

func TestKCoreDecomposition_LeafNodeIsOneCore(t *testing.T) {
	g := threeNodeCycleGraph()
	layers := KCoreDecomposition(g)

	coreness := make(map[string]int)
	for _, l := range layers {
		for _, e := range l.Entities {
			coreness[e] = l.K
		}
	}
	assert.Equal(t, 1, coreness["go:fn:D:f.go:T1"])
	assert.Equal(t, 2, coreness["go:fn:A:f.go:T1"])
}

func TestPageRank_ScoresSumToOne(t *testing.T) {
	g := threeNodeCycleGraph()
	ranked := PageRank(g, 0)

	require.Len(t, ranked, 4)
	sum := 0.0
	for _, r := range ranked {
		sum += r.Score
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestPageRank_TopNTruncates(t *testing.T) {
	g := threeNodeCycleGraph()
	ranked := PageRank(g, 2)
	assert.Len(t, ranked, 2)
	assert.GreaterOrEqual(t, ranked[0].Score, ranked[1].Score)
}

func TestBetweennessCentrality_HubScoresHigher(t *testing.T) {
	entities := []model.Entity{
		ent("go:fn:A:f.go:T1", "A", "f.go"),
		ent("go:fn:B:f.go:T1", "B", "f.go"),
		ent("go:fn:C:f.go:T1", "C", "f.go"),
	}
	edges := []model.DependencyEdge{
		edge("go:fn:A:f.go:T1", "go:fn:B:f.go:T1", model.EdgeCalls),
		edge("go:fn:B:f.go:T1", "go:fn:C:f.go:T1", model.EdgeCalls),
	}
	g := BuildGraph(entities, edges)

	centrality := BetweennessCentrality(g)
	assert.Greater(t, centrality["go:fn:B:f.go:T1"], centrality["go:fn:A:f.go:T1"])
	assert.Greater(t, centrality["go:fn:B:f.go:T1"], centrality["go:fn:C:f.go:T1"])
}

func TestEntropy_NoEdgesIsLow(t *testing.T) {
	g := BuildGraph([]model.Entity{ent("go:fn:A:f.go:T1", "A", "f.go")}, nil)
	result := Entropy(g)
	require.Len(t, result, 1)
	assert.Equal(t, EntropyLow, result[0].Level)
	assert.Zero(t, result[0].Entropy)
}

func TestEntropy_TwoEqualEdgeTypesIsOneBitMedium(t *testing.T) {
	entities := []model.Entity{
		ent("go:fn:A:f.go:T1", "A", "f.go"),
		ent("go:fn:B:f.go:T1", "B", "f.go"),
		ent("go:fn:C:f.go:T1", "C", "f.go"),
	}
	edges := []model.DependencyEdge{
		edge("go:fn:A:f.go:T1", "go:fn:B:f.go:T1", model.EdgeCalls),
		edge("go:fn:A:f.go:T1", "go:fn:C:f.go:T1", model.EdgeUses),
	}
	g := BuildGraph(entities, edges)

	result := Entropy(g)
	for _, e := range result {
		if e.Key == "go:fn:A:f.go:T1" {
			assert.InDelta(t, 1.0, e.Entropy, 1e-9)
			assert.Equal(t, EntropyMedium, e.Level)
		}
	}
}

func TestBlastRadiusBFS_RespectsMaxHops(t *testing.T) {
	entities := []model.Entity{
		ent("go:fn:A:f.go:T1", "A", "f.go"),
		ent("go:fn:B:f.go:T1", "B", "f.go"),
		ent("go:fn:C:f.go:T1", "C", "f.go"),
	}
	edges := []model.DependencyEdge{
		edge("go:fn:A:f.go:T1", "go:fn:B:f.go:T1", model.EdgeCalls),
		edge("go:fn:B:f.go:T1", "go:fn:C:f.go:T1", model.EdgeCalls),
	}
	g := BuildGraph(entities, edges)

	result, ok := BlastRadiusBFS(context.Background(), g, "go:fn:A:f.go:T1", 1)
	require.True(t, ok)
	assert.Equal(t, 1, result.TotalAffected)
	assert.Len(t, result.ByHop, 1)
}

func TestBlastRadiusBFS_IncludesUnresolvedCallees(t *testing.T) {
	entities := []model.Entity{ent("go:fn:A:f.go:T1", "A", "f.go")}
	edges := []model.DependencyEdge{edge("go:fn:A:f.go:T1", "go:ref:Ext:unknown:T0", model.EdgeCalls)}
	g := BuildGraph(entities, edges)

	result, ok := BlastRadiusBFS(context.Background(), g, "go:fn:A:f.go:T1", 2)
	require.True(t, ok)
	assert.Equal(t, 1, result.TotalAffected)
}

func TestCKMetricsSuite_RFCCountsOnlyCalls(t *testing.T) {
	entities := []model.Entity{
		ent("go:fn:A:f.go:T1", "A", "f.go"),
		ent("go:fn:B:f.go:T1", "B", "f.go"),
	}
	edges := []model.DependencyEdge{
		edge("go:fn:A:f.go:T1", "go:fn:B:f.go:T1", model.EdgeCalls),
		edge("go:fn:A:f.go:T1", "go:fn:B:f.go:T1", model.EdgeUses),
	}
	g := BuildGraph(entities, edges)

	metrics := CKMetricsSuite(g)
	var a CKMetrics
	for _, m := range metrics {
		if m.Key == "go:fn:A:f.go:T1" {
			a = m
		}
	}
	assert.Equal(t, 2, a.RFC)
	assert.Equal(t, 1, a.CBO)
}

func TestCKMetricsSuite_InheritanceDepthAndChildren(t *testing.T) {
	entities := []model.Entity{
		ent("go:struct:Base:f.go:T1", "Base", "f.go"),
		ent("go:struct:Mid:f.go:T1", "Mid", "f.go"),
		ent("go:struct:Leaf:f.go:T1", "Leaf", "f.go"),
	}
	edges := []model.DependencyEdge{
		edge("go:struct:Mid:f.go:T1", "go:struct:Base:f.go:T1", model.EdgeExtends),
		edge("go:struct:Leaf:f.go:T1", "go:struct:Mid:f.go:T1", model.EdgeExtends),
	}
	g := BuildGraph(entities, edges)

	metrics := CKMetricsSuite(g)
	byKey := make(map[string]CKMetrics)
	for _, m := range metrics {
		byKey[m.Key] = m
	}
	assert.Equal(t, 2, byKey["go:struct:Leaf:f.go:T1"].DIT)
	assert.Equal(t, 1, byKey["go:struct:Base:f.go:T1"].NOC)
}

func TestSQALETechnicalDebt_CycleParticipantRatesWorse(t *testing.T) {
	g := threeNodeCycleGraph()
	scores := SQALETechnicalDebt(g)

	byKey := make(map[string]SQALEScore)
	for _, s := range scores {
		byKey[s.Key] = s
	}
	assert.Greater(t, byKey["go:fn:A:f.go:T1"].Debt, byKey["go:fn:D:f.go:T1"].Debt)
}

func TestLabelPropagation_ConnectedComponentsShareLabel(t *testing.T) {
	g := threeNodeCycleGraph()
	communities := LabelPropagation(g)

	labelOf := make(map[string]string)
	for _, c := range communities {
		for _, e := range c.Entities {
			labelOf[e] = c.Label
		}
	}
	assert.Equal(t, labelOf["go:fn:A:f.go:T1"], labelOf["go:fn:B:f.go:T1"])
	assert.Equal(t, labelOf["go:fn:A:f.go:T1"], labelOf["go:fn:C:f.go:T1"])
}

func TestLeidenRefine_EmptyGraphReturnsNil(t *testing.T) {
	g := BuildGraph(nil, nil)
	assert.Nil(t, LeidenRefine(g))
}

func TestSelectSmartContext_FocusAlwaysIncludedFirst(t *testing.T) {
	g := threeNodeCycleGraph()
	result := SelectSmartContext(g, "go:fn:A:f.go:T1", 10000)

	require.NotEmpty(t, result.Included)
	assert.Equal(t, "go:fn:A:f.go:T1", result.Included[0].Key)
	assert.Equal(t, "focus", result.Included[0].Relevance)
}

func TestSelectSmartContext_RespectsBudget(t *testing.T) {
	g := threeNodeCycleGraph()
	result := SelectSmartContext(g, "go:fn:A:f.go:T1", 0)

	assert.Empty(t, result.Included)
	assert.Zero(t, result.TokensUsed)
}

func TestSelectSmartContext_UnknownFocusReturnsEmpty(t *testing.T) {
	g := threeNodeCycleGraph()
	result := SelectSmartContext(g, "go:fn:Nonexistent:f.go:T1", 10000)
	assert.Empty(t, result.Included)
}
