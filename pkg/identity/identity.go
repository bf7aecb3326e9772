// Package identity implements the Key Generator & Matcher: assigning a
// birth timestamp to entities seen for the first time, and — on
// re-index — matching a freshly parsed entity set against the entities
// already stored for that file via content-hash equality with a
// positional fallback. This replaces the teacher's line-range-hash
// identity scheme (pkg/ingestion/ids.go in the source this was adapted
// from), which the system this models explicitly found to be a
// correctness bug: line numbers drift on every edit above an entity, so a
// key derived from them changes even when the entity itself didn't.
package identity

import (
	"github.com/parseltongue/parseltongue/pkg/extract"
	"github.com/parseltongue/parseltongue/pkg/langreg"
	"github.com/parseltongue/parseltongue/pkg/model"
	"github.com/parseltongue/parseltongue/pkg/pathkey"
)

// AssignFresh assigns a single shared birth timestamp to every raw entity
// extracted from one ingestion run, building full model.Entity values with
// keys, semantic paths, and content hashes filled in. Used on first sight
// of a file (fresh ingest, or Added classification during reindex).
func AssignFresh(lang, filePath string, raws []extract.RawEntity, birth int64, class func(filePath, name, body string) (string, bool)) []model.Entity {
	l1, l2 := pathkey.Subfolders(filePath)
	out := make([]model.Entity, 0, len(raws))
	for _, r := range raws {
		out = append(out, buildEntity(lang, filePath, l1, l2, r, birth, class))
	}
	return out
}

func buildEntity(lang, filePath, l1, l2 string, r extract.RawEntity, birth int64, class func(filePath, name, body string) (string, bool)) model.Entity {
	k := pathkey.NewKey(lang, string(r.Kind), r.Name, filePath, birth)
	entityClass := model.ClassCode
	if class != nil {
		if _, isTest := class(filePath, r.Name, r.Body); isTest {
			entityClass = model.ClassTest
		}
	}
	if entityClass == model.ClassCode && (r.Kind == langreg.KindStruct || r.Kind == langreg.KindInterface || r.Kind == langreg.KindTypedef || r.Kind == langreg.KindEnum) {
		entityClass = model.ClassSchemaDefinition
	}
	return model.Entity{
		Key:             k.Encode(),
		Name:            r.Name,
		EntityType:      string(r.Kind),
		Language:        lang,
		FilePath:        filePath,
		LineStart:       r.LineStart,
		LineEnd:         r.LineEnd,
		RootSubfolderL1: l1,
		RootSubfolderL2: l2,
		EntityClass:     entityClass,
		ContentHash:     ContentHash(r.Body),
		BirthTimestamp:  birth,
		SemanticPath:    k.SemanticPath(),
		Code:            r.Body,
		Signature:       r.Signature,
	}
}
