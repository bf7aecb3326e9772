package ingest

import (
	"github.com/parseltongue/parseltongue/pkg/model"
	"github.com/parseltongue/parseltongue/pkg/pathkey"
)

// Resolver resolves a call's callee name against the set of entities known
// so far, generalizing the teacher's Go-specific import-alias resolution
// (pkg/ingestion/resolver.go) into a language-agnostic two-tier lookup:
// first the entities defined in the same folder scope (root_subfolder_L1/
// L2 — the rough equivalent of "same package"), then the full project
// index by simple name. A callee matching neither resolves to the
// sentinel unresolved key instead of being dropped.
type Resolver struct {
	byScope  map[string]map[string][]string // scopeKey(l1,l2) -> name -> keys
	byName   map[string][]string            // name -> keys, project-wide
}

// NewResolver builds an index from the full current entity set. Call this
// once after a batch of entities has been assigned keys, before resolving
// any RawEdge callee names against it.
func NewResolver(entities []model.Entity) *Resolver {
	r := &Resolver{
		byScope: make(map[string]map[string][]string),
		byName:  make(map[string][]string),
	}
	for _, e := range entities {
		scope := scopeKey(e.RootSubfolderL1, e.RootSubfolderL2)
		if r.byScope[scope] == nil {
			r.byScope[scope] = make(map[string][]string)
		}
		r.byScope[scope][e.Name] = append(r.byScope[scope][e.Name], e.Key)
		r.byName[e.Name] = append(r.byName[e.Name], e.Key)
	}
	return r
}

func scopeKey(l1, l2 string) string { return l1 + "\x00" + l2 }

// Resolve finds the best-match key for a callee name seen in callerFolder
// (the calling entity's root_subfolder_L1/L2). Returns the unresolved
// sentinel key for lang/calleeName when no candidate is found.
func (r *Resolver) Resolve(lang, callerL1, callerL2, calleeName string) string {
	if names, ok := r.byScope[scopeKey(callerL1, callerL2)]; ok {
		if keys := names[calleeName]; len(keys) > 0 {
			return keys[0]
		}
	}
	if keys := r.byName[calleeName]; len(keys) > 0 {
		return keys[0]
	}
	return pathkey.UnresolvedKey(lang, calleeName).Encode()
}
