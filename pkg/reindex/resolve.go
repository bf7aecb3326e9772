package reindex

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/parseltongue/parseltongue/pkg/extract"
	"github.com/parseltongue/parseltongue/pkg/langreg"
	"github.com/parseltongue/parseltongue/pkg/model"
	"github.com/parseltongue/parseltongue/pkg/pathkey"
)

// newParser builds a fresh, single-use tree-sitter parser for the given
// language. A reindex touches one file at a time, so there is no pooling
// concern here the way there is in pkg/ingest's parallel walk.
func newParser(lang langreg.Language) *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(lang.Grammar())
	return p
}

// resolveEdges maps each RawEdge's CallerIndex/CalleeName to the keyed
// entities this reindex just produced, falling back to the unresolved
// sentinel when the callee isn't one of the file's own fresh entities.
// Cross-file resolution against the rest of the project is intentionally
// not attempted here: a single-file reindex only has this file's entity
// set in hand, and re-resolving every other file's edges on each keystroke
// would defeat the point of an incremental reindex. Full project-wide
// resolution runs once during pkg/ingest's initial walk.
func resolveEdges(lang string, fresh []model.Entity, raw []extract.RawEdge, filePath string) []model.DependencyEdge {
	byName := make(map[string]string, len(fresh))
	for _, e := range fresh {
		byName[e.Name] = e.Key
	}

	edges := make([]model.DependencyEdge, 0, len(raw))
	for _, re := range raw {
		fromKey := ""
		if re.CallerIndex >= 0 && re.CallerIndex < len(fresh) {
			fromKey = fresh[re.CallerIndex].Key
		}
		toKey, ok := byName[re.CalleeName]
		if !ok {
			toKey = pathkey.UnresolvedKey(lang, re.CalleeName).Encode()
		}
		edges = append(edges, model.DependencyEdge{
			FromKey:        fromKey,
			ToKey:          toKey,
			EdgeType:       model.EdgeType(re.EdgeType),
			SourceLocation: filePath,
		})
	}
	return edges
}
