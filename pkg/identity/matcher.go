package identity

import (
	"github.com/parseltongue/parseltongue/pkg/extract"
	"github.com/parseltongue/parseltongue/pkg/model"
	"github.com/parseltongue/parseltongue/pkg/pathkey"
)

// Classification labels what happened to one entity across a re-index.
type Classification string

const (
	Unchanged Classification = "Unchanged"
	Modified  Classification = "Modified"
	Added     Classification = "Added"
	Deleted   Classification = "Deleted"
)

// MatchResult pairs a classification with the entity records involved.
// Old is the previously stored entity (present for Unchanged, Modified,
// Deleted). New is the freshly built entity (present for Unchanged,
// Modified, Added) — for Unchanged and Modified it carries Old's key and
// birth timestamp, since identity survives the edit.
type MatchResult struct {
	Classification Classification
	Old            *model.Entity
	New            *model.Entity
}

// Match runs the three-step matching algorithm: group old entities by
// semantic path, then for each new raw entity (walked in source order) try
// a content-hash match against same-semantic-path candidates, falling back
// to nearest-by-line-start positional matching, and finally declaring the
// entity Added if nothing matches. Any old entity never claimed by a new
// one is Deleted.
//
// birth is the timestamp assigned to any newly Added entity; Unchanged and
// Modified entities keep their Old counterpart's birth timestamp, since
// identity — and the key that encodes it — must survive the edit.
func Match(lang, filePath string, old []model.Entity, newRaw []extract.RawEntity, birth int64, classify func(filePath, name, body string) (string, bool)) []MatchResult {
	l1, l2 := pathkey.Subfolders(filePath)

	bySP := make(map[string][]int, len(old))
	for i, o := range old {
		bySP[o.SemanticPath] = append(bySP[o.SemanticPath], i)
	}
	claimed := make([]bool, len(old))

	var results []MatchResult

	for _, r := range newRaw {
		sp := semanticPathFor(lang, filePath, r)
		candidates := bySP[sp]

		matchIdx := -1
		hash := ContentHash(r.Body)
		for _, ci := range candidates {
			if claimed[ci] {
				continue
			}
			if old[ci].ContentHash == hash {
				matchIdx = ci
				break
			}
		}

		if matchIdx < 0 {
			matchIdx = nearestPositional(old, candidates, claimed, r)
		}

		if matchIdx >= 0 {
			claimed[matchIdx] = true
			o := old[matchIdx]
			n := buildEntity(lang, filePath, l1, l2, r, o.BirthTimestamp, classify)
			n.Key = o.Key
			n.SemanticPath = o.SemanticPath
			oCopy := o
			if o.ContentHash == hash {
				results = append(results, MatchResult{Classification: Unchanged, Old: &oCopy, New: &n})
			} else {
				results = append(results, MatchResult{Classification: Modified, Old: &oCopy, New: &n})
			}
			continue
		}

		n := buildEntity(lang, filePath, l1, l2, r, birth, classify)
		results = append(results, MatchResult{Classification: Added, New: &n})
	}

	for i, o := range old {
		if !claimed[i] {
			oCopy := o
			results = append(results, MatchResult{Classification: Deleted, Old: &oCopy})
		}
	}

	return results
}

func semanticPathFor(lang, filePath string, r extract.RawEntity) string {
	k := pathkey.NewKey(lang, string(r.Kind), r.Name, filePath, 0)
	return k.SemanticPath()
}

// nearestPositional picks, among unclaimed same-semantic-path candidates,
// the one with the smallest absolute line-start delta, breaking ties by
// the smallest line-end delta. Returns -1 if candidates is empty or every
// candidate is already claimed.
func nearestPositional(old []model.Entity, candidates []int, claimed []bool, r extract.RawEntity) int {
	best := -1
	bestStartDelta, bestEndDelta := 0, 0

	for _, ci := range candidates {
		if claimed[ci] {
			continue
		}
		o := old[ci]
		startDelta := abs(o.LineStart - r.LineStart)
		endDelta := abs(o.LineEnd - r.LineEnd)

		if best < 0 || startDelta < bestStartDelta || (startDelta == bestStartDelta && endDelta < bestEndDelta) {
			best = ci
			bestStartDelta = startDelta
			bestEndDelta = endDelta
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
