package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parseltongue/parseltongue/pkg/model"
)

func TestSetupTestStore_StartsEmpty(t *testing.T) {
	store := SetupTestStore(t)
	require.NotNil(t, store)
	assert.Empty(t, QueryAllEntities(t, store))
}

func TestInsertTestEntity(t *testing.T) {
	store := SetupTestStore(t)
	InsertTestEntity(t, store, model.Entity{Key: "go:fn:HandleAuth:auth.go:1", Name: "HandleAuth", FilePath: "auth.go", LineStart: 10, LineEnd: 25})

	entities := QueryAllEntities(t, store)
	require.Len(t, entities, 1)
	assert.Equal(t, "HandleAuth", entities[0].Name)
	assert.Equal(t, "auth.go", entities[0].FilePath)
}

func TestInsertTestEntity_Multiple(t *testing.T) {
	store := SetupTestStore(t)
	InsertTestEntity(t, store, model.Entity{Key: "go:fn:Main:main.go:1", Name: "Main", FilePath: "main.go"})
	InsertTestEntity(t, store, model.Entity{Key: "go:fn:Helper:util.go:1", Name: "Helper", FilePath: "util.go"})
	InsertTestEntity(t, store, model.Entity{Key: "go:fn:Process:processor.go:1", Name: "Process", FilePath: "processor.go"})

	assert.Len(t, QueryAllEntities(t, store), 3)
}

func TestInsertTestEdge(t *testing.T) {
	store := SetupTestStore(t)
	InsertTestEntity(t, store, model.Entity{Key: "a", Name: "a", FilePath: "main.go"})
	InsertTestEntity(t, store, model.Entity{Key: "b", Name: "b", FilePath: "main.go"})
	InsertTestEdge(t, store, model.DependencyEdge{FromKey: "a", ToKey: "b", EdgeType: model.EdgeCalls})

	edges := QueryAllEdges(t, store)
	require.Len(t, edges, 1)
	assert.Equal(t, "a", edges[0].FromKey)
	assert.Equal(t, "b", edges[0].ToKey)
}

func TestSetupTestStore_IsolatedAcrossTests(t *testing.T) {
	store1 := SetupTestStore(t)
	InsertTestEntity(t, store1, model.Entity{Key: "x", Name: "X", FilePath: "f1.go"})

	store2 := SetupTestStore(t)
	assert.Empty(t, QueryAllEntities(t, store2), "second store should be isolated from the first")
	assert.Len(t, QueryAllEntities(t, store1), 1)
}
