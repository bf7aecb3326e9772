package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parseltongue/parseltongue/pkg/model"
)

func entity(key, name, l1, l2 string) model.Entity {
	return model.Entity{Key: key, Name: name, RootSubfolderL1: l1, RootSubfolderL2: l2}
}

func TestResolver_PrefersSameScopeOverProjectWide(t *testing.T) {
	entities := []model.Entity{
		entity("go:fn:Handle:internal/handlers:T1", "Handle", "internal", "handlers"),
		entity("go:fn:Handle:internal/routes:T1", "Handle", "internal", "routes"),
	}
	r := NewResolver(entities)

	got := r.Resolve("go", "internal", "handlers", "Handle")
	assert.Equal(t, "go:fn:Handle:internal/handlers:T1", got)
}

func TestResolver_FallsBackToProjectWideByName(t *testing.T) {
	entities := []model.Entity{
		entity("go:fn:Validate:internal/handlers:T1", "Validate", "internal", "handlers"),
	}
	r := NewResolver(entities)

	got := r.Resolve("go", "internal", "routes", "Validate")
	assert.Equal(t, "go:fn:Validate:internal/handlers:T1", got)
}

func TestResolver_ReturnsUnresolvedSentinelWhenNoCandidate(t *testing.T) {
	r := NewResolver(nil)

	got := r.Resolve("go", "internal", "routes", "NeverDefined")
	assert.Equal(t, "go:ref:NeverDefined:unknown:T0", got)
}
