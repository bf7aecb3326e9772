package graphstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatcher_SplitsOnMutationCount(t *testing.T) {
	script := strings.Join([]string{
		`?[a] <- [[1]]
:put pt_entity { a }`,
		`?[b] <- [[2]]
:put pt_entity { b }`,
		`?[c] <- [[3]]
:put pt_entity { c }`,
	}, "\n\n")

	b := NewBatcher(2, 1<<20)
	batches, err := b.Batch(script)
	require.NoError(t, err)
	assert.Len(t, batches, 2)
}

func TestBatcher_RejectsOversizedStatement(t *testing.T) {
	huge := "?[a] <- [[\"" + strings.Repeat("x", 1000) + "\"]]\n:put pt_entity { a }"
	b := NewBatcher(10, 100)
	_, err := b.Batch(huge)
	assert.Error(t, err)
}

func TestBatcher_EmptyScript(t *testing.T) {
	b := NewBatcher(10, 1000)
	batches, err := b.Batch("")
	require.NoError(t, err)
	assert.Nil(t, batches)
}

func TestBatcher_PreservesBracesInsideStrings(t *testing.T) {
	script := `?[a] <- [["has } brace"]]
:put pt_entity { a }`
	b := NewBatcher(10, 1<<20)
	batches, err := b.Batch(script)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Contains(t, batches[0], "has } brace")
}
