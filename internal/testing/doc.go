// Package testing provides shared scaffolding for tests that need a live
// graph store: an in-memory Store plus seeders and readers for entities
// and edges, so package tests don't each hand-roll CozoScript.
//
// # Quick Start
//
//	func TestMyFeature(t *testing.T) {
//	    store := testing.SetupTestStore(t)
//	    testing.InsertTestEntity(t, store, model.Entity{Key: "k", Name: "Handle", FilePath: "auth.go"})
//
//	    entities := testing.QueryAllEntities(t, store)
//	    require.Len(t, entities, 1)
//	}
package testing
