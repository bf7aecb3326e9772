package graphstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parseltongue/parseltongue/pkg/model"
)

func TestInsertEntitiesScript_EmptyYieldsEmptyScript(t *testing.T) {
	assert.Empty(t, InsertEntitiesScript(nil))
}

func TestInsertEntitiesScript_EscapesQuotedLiterals(t *testing.T) {
	entities := []model.Entity{{Key: "go:fn:A:f.go:T1", Name: `A "quoted"`, FilePath: "f.go"}}
	script := InsertEntitiesScript(entities)
	assert.Contains(t, script, ":put pt_entity")
	assert.Contains(t, script, `A \"quoted\"`)
}

func TestDeleteEdgesFromFileScript_EmbedsFileSlot(t *testing.T) {
	script := DeleteEdgesFromFileScript("__internal_auth_go")
	assert.Contains(t, script, "__internal_auth_go")
	assert.Contains(t, script, ":rm pt_edge")
}

func TestEntityFromRow_MapsAllColumns(t *testing.T) {
	row := []any{
		"go:fn:A:f.go:T1", "A", "fn", "go", "f.go", int64(1), int64(5),
		"internal", "auth", "CODE", int64(42), int64(1700000000), "go:fn:A:f.go", "body", "sig",
	}
	e := entityFromRow(row)
	assert.Equal(t, "go:fn:A:f.go:T1", e.Key)
	assert.Equal(t, "A", e.Name)
	assert.Equal(t, 1, e.LineStart)
	assert.Equal(t, 5, e.LineEnd)
	assert.Equal(t, model.ClassCode, e.EntityClass)
	assert.EqualValues(t, 42, e.ContentHash)
}

func TestEdgeFromRow_MapsAllColumns(t *testing.T) {
	row := []any{"from", "to", "Calls", "f.go:10"}
	e := edgeFromRow(row)
	assert.Equal(t, "from", e.FromKey)
	assert.Equal(t, "to", e.ToKey)
	assert.Equal(t, model.EdgeCalls, e.EdgeType)
	assert.Equal(t, "f.go:10", e.SourceLocation)
}

func TestDataDirForProject_EmptyProjectReturnsBase(t *testing.T) {
	assert.Equal(t, "/data", DataDirForProject("/data", ""))
	assert.Equal(t, "/data/proj123", DataDirForProject("/data", "proj123"))
}
