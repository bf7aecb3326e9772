package testing

import (
	"context"
	"testing"

	"github.com/parseltongue/parseltongue/pkg/graphstore"
	"github.com/parseltongue/parseltongue/pkg/model"
)

// SetupTestStore opens an in-memory graph store with the schema applied,
// closing it automatically when the test finishes.
func SetupTestStore(t *testing.T) *graphstore.Store {
	t.Helper()

	store, err := graphstore.Open(graphstore.Config{Engine: "mem"})
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// InsertTestEntity seeds a single entity into store.
func InsertTestEntity(t *testing.T, store *graphstore.Store, e model.Entity) {
	t.Helper()
	if err := store.Execute(context.Background(), graphstore.InsertEntitiesScript([]model.Entity{e})); err != nil {
		t.Fatalf("failed to insert test entity %s: %v", e.Key, err)
	}
}

// InsertTestEdge seeds a single dependency edge into store.
func InsertTestEdge(t *testing.T, store *graphstore.Store, e model.DependencyEdge) {
	t.Helper()
	if err := store.Execute(context.Background(), graphstore.InsertEdgesScript([]model.DependencyEdge{e})); err != nil {
		t.Fatalf("failed to insert test edge %s->%s: %v", e.FromKey, e.ToKey, err)
	}
}

// QueryAllEntities returns every entity currently stored, unscoped.
func QueryAllEntities(t *testing.T, store *graphstore.Store) []model.Entity {
	t.Helper()
	entities, err := store.QueryAllEntitiesScoped(context.Background(), "")
	if err != nil {
		t.Fatalf("failed to query entities: %v", err)
	}
	return entities
}

// QueryAllEdges returns every edge currently stored, unscoped.
func QueryAllEdges(t *testing.T, store *graphstore.Store) []model.DependencyEdge {
	t.Helper()
	edges, err := store.QueryAllEdgesScoped(context.Background(), "")
	if err != nil {
		t.Fatalf("failed to query edges: %v", err)
	}
	return edges
}
