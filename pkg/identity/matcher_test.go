package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parseltongue/parseltongue/pkg/extract"
	"github.com/parseltongue/parseltongue/pkg/langreg"
)

func noTestClass(string, string, string) (string, bool) { return "", false }

// Scenario A: inserting blank lines/whitespace above an entity shifts its
// line numbers but must not change its key or register as Modified.
func TestScenarioA_WhitespaceInsertionPreservesKeys(t *testing.T) {
	body := "func Greet() {\n\treturn\n}"
	old := AssignFresh("go", "pkg/greet.go", []extract.RawEntity{
		{Name: "Greet", Kind: langreg.KindFunction, LineStart: 3, LineEnd: 5, Body: body},
	}, 1000, noTestClass)
	require.Len(t, old, 1)

	// Same entity, now 4 lines further down the file, identical body.
	shifted := []extract.RawEntity{
		{Name: "Greet", Kind: langreg.KindFunction, LineStart: 7, LineEnd: 9, Body: body},
	}

	results := Match("go", "pkg/greet.go", old, shifted, 2000, noTestClass)
	require.Len(t, results, 1)
	assert.Equal(t, Unchanged, results[0].Classification)
	assert.Equal(t, old[0].Key, results[0].New.Key)
	assert.Equal(t, old[0].BirthTimestamp, results[0].New.BirthTimestamp)
}

// Scenario B: editing a body changes its content hash but the key (and
// birth timestamp) must survive, classified as Modified.
func TestScenarioB_BodyModificationPreservesKeyUpdatesHash(t *testing.T) {
	oldBody := "func Add(a, b int) int {\n\treturn a + b\n}"
	old := AssignFresh("go", "pkg/math.go", []extract.RawEntity{
		{Name: "Add", Kind: langreg.KindFunction, LineStart: 1, LineEnd: 3, Body: oldBody},
	}, 1000, noTestClass)

	newBody := "func Add(a, b int) int {\n\tsum := a + b\n\treturn sum\n}"
	newRaw := []extract.RawEntity{
		{Name: "Add", Kind: langreg.KindFunction, LineStart: 1, LineEnd: 4, Body: newBody},
	}

	results := Match("go", "pkg/math.go", old, newRaw, 2000, noTestClass)
	require.Len(t, results, 1)
	assert.Equal(t, Modified, results[0].Classification)
	assert.Equal(t, old[0].Key, results[0].New.Key)
	assert.Equal(t, old[0].BirthTimestamp, results[0].New.BirthTimestamp)
	assert.NotEqual(t, old[0].ContentHash, results[0].New.ContentHash)
}

// Scenario E: two entities sharing the same semantic path (duplicate body,
// e.g. overloaded free functions in a language that permits re-declaration)
// must be matched by position, not swapped.
func TestScenarioE_DuplicateBodyMatchedByPosition(t *testing.T) {
	body := "func Noop() {}"
	old := AssignFresh("go", "pkg/noop.go", []extract.RawEntity{
		{Name: "Noop", Kind: langreg.KindFunction, LineStart: 1, LineEnd: 1, Body: body},
		{Name: "Noop", Kind: langreg.KindFunction, LineStart: 10, LineEnd: 10, Body: body},
	}, 1000, noTestClass)
	require.Len(t, old, 2)

	// Both survive, each shifted by one line, order preserved.
	newRaw := []extract.RawEntity{
		{Name: "Noop", Kind: langreg.KindFunction, LineStart: 2, LineEnd: 2, Body: body},
		{Name: "Noop", Kind: langreg.KindFunction, LineStart: 11, LineEnd: 11, Body: body},
	}

	results := Match("go", "pkg/noop.go", old, newRaw, 2000, noTestClass)
	require.Len(t, results, 2)
	assert.Equal(t, Unchanged, results[0].Classification)
	assert.Equal(t, old[0].Key, results[0].New.Key)
	assert.Equal(t, Unchanged, results[1].Classification)
	assert.Equal(t, old[1].Key, results[1].New.Key)
	assert.NotEqual(t, results[0].New.Key, results[1].New.Key)
}

func TestMatch_AddedAndDeleted(t *testing.T) {
	old := AssignFresh("go", "pkg/x.go", []extract.RawEntity{
		{Name: "Gone", Kind: langreg.KindFunction, LineStart: 1, LineEnd: 2, Body: "func Gone() {}"},
	}, 1000, noTestClass)

	newRaw := []extract.RawEntity{
		{Name: "New", Kind: langreg.KindFunction, LineStart: 1, LineEnd: 2, Body: "func New() {}"},
	}

	results := Match("go", "pkg/x.go", old, newRaw, 2000, noTestClass)
	require.Len(t, results, 2)

	var classes []Classification
	for _, r := range results {
		classes = append(classes, r.Classification)
	}
	assert.Contains(t, classes, Added)
	assert.Contains(t, classes, Deleted)
}

func TestContentHash_WhitespaceNormalizedEquivalence(t *testing.T) {
	a := ContentHash("func  F()  {\n  return\n}")
	b := ContentHash("func F() {\nreturn\n}")
	assert.Equal(t, a, b)
}
