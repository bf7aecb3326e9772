package ingest

import (
	"context"
	"os"

	"github.com/parseltongue/parseltongue/pkg/extract"
	"github.com/parseltongue/parseltongue/pkg/langreg"
	"github.com/parseltongue/parseltongue/pkg/model"
)

// fileParse is one file's extraction output, still carrying raw (keyless)
// entities and edges — identity assignment happens once every file in a
// run has been parsed, so birth timestamps and cross-file call resolution
// see the whole entity set at once.
type fileParse struct {
	path     string
	language string
	raw      extract.Result
	parseErr error
}

// parseOne parses a single file, preferring tree-sitter via the pooled
// parser and falling back to the Swift regex extractor when the
// language's grammar is unavailable.
func parseOne(ctx context.Context, pool *parserPool, fi FileInfo) fileParse {
	source, err := os.ReadFile(fi.FullPath)
	if err != nil {
		return fileParse{path: fi.Path, language: fi.Language.Name, parseErr: err}
	}

	if fi.Language.Name == "swift" {
		return fileParse{path: fi.Path, language: "swift", raw: swiftResult(source)}
	}

	parser := pool.Get(fi.Language)
	defer pool.Put(fi.Language, parser)

	result, err := extract.Extract(ctx, fi.Language, fi.Path, source, parser)
	return fileParse{path: fi.Path, language: fi.Language.Name, raw: result, parseErr: err}
}

// swiftResult adapts langreg.ExtractSwift's declarations to extract.Result
// so Swift files flow through the same downstream identity/edge pipeline
// as tree-sitter languages, just without dependency edges (the regex
// fallback doesn't track call sites).
func swiftResult(source []byte) extract.Result {
	decls := langreg.ExtractSwift(source)
	entities := make([]extract.RawEntity, 0, len(decls))
	for _, d := range decls {
		entities = append(entities, extract.RawEntity{
			Name:      d.Name,
			Kind:      d.Kind,
			LineStart: d.LineStart,
			LineEnd:   d.LineEnd,
			Body:      d.Body,
			Signature: d.Signature,
		})
	}
	return extract.Result{
		Entities:        entities,
		SourceWordCount: countWords(source),
	}
}

func countWords(b []byte) int {
	n, inWord := 0, false
	for _, c := range b {
		isSpace := c == ' ' || c == '\t' || c == '\n' || c == '\r'
		if !isSpace && !inWord {
			n++
			inWord = true
		} else if isSpace {
			inWord = false
		}
	}
	return n
}

// coverageRow derives a FileWordCoverageRow from one file's parse result.
func coverageRow(folder, filename, language string, r extract.Result) model.FileWordCoverageRow {
	entityWords := 0
	for _, e := range r.Entities {
		entityWords += wordsInRange(e.Body)
	}
	raw, effective := model.ComputeCoverage(r.SourceWordCount, entityWords, r.ImportWordCount, r.CommentWordCount)
	return model.FileWordCoverageRow{
		FolderPath:           folder,
		Filename:             filename,
		Language:             language,
		SourceWordCount:      r.SourceWordCount,
		EntityWordCount:      entityWords,
		ImportWordCount:      r.ImportWordCount,
		CommentWordCount:     r.CommentWordCount,
		RawCoveragePct:       raw,
		EffectiveCoveragePct: effective,
		EntityCount:          len(r.Entities),
	}
}

func wordsInRange(body string) int {
	return countWords([]byte(body))
}
