// Package extract implements the Entity Extractor: given a parsed AST and
// its language's registry entry, it walks the tree once to produce raw
// entities, raw dependency edges, and the word-count inputs the coverage
// report needs. It does not assign keys or classify test entities — that
// is pkg/identity and pkg/testclass's job, run on the RawEntity values
// this package returns.
package extract

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/parseltongue/parseltongue/pkg/langreg"
)

// RawEntity is a definition found during the walk, before key assignment.
type RawEntity struct {
	Name       string
	Kind       langreg.DefinitionKind
	LineStart  int
	LineEnd    int
	ByteStart  int
	ByteEnd    int
	Body       string
	Signature  string
	ParentName string // enclosing entity's name, for Contains edges; "" at top level
}

// RawEdge is a dependency relation found during the walk, with the caller
// identified by its index into Result.Entities (or -1 if no enclosing
// entity claims the call site).
type RawEdge struct {
	CallerIndex int
	CalleeName  string
	EdgeType    string // mirrors model.EdgeType but kept untyped to avoid an import cycle
	Line        int
}

// Result is everything the ingestion pipeline needs from one file.
type Result struct {
	Entities         []RawEntity
	Edges            []RawEdge
	SourceWordCount  int
	ImportWordCount  int
	CommentWordCount int
}

// ParseError wraps a tree-sitter or UTF-8 failure, per the §4.3 error
// condition: malformed UTF-8 fails the file, everything else is
// best-effort (tree-sitter itself is error-tolerant and keeps producing a
// tree around syntax errors).
type ParseError struct {
	FilePath string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("extract: parse error in %s: %v", e.FilePath, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Extract parses source with parser (already configured for lang's
// grammar via SetLanguage) and walks the resulting tree.
//
// Contract: idempotent and deterministic — the walk order is tree-sitter's
// native left-to-right child iteration, so two calls on the same bytes
// produce identical Results modulo nothing (no wall-clock or randomness is
// consulted here).
func Extract(ctx context.Context, lang langreg.Language, filePath string, source []byte, parser *sitter.Parser) (Result, error) {
	if !utf8.Valid(source) {
		return Result{}, &ParseError{FilePath: filePath, Err: fmt.Errorf("invalid UTF-8")}
	}

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return Result{}, &ParseError{FilePath: filePath, Err: err}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		// Treated as an empty file: zero entities, zero edges, no error.
		return Result{SourceWordCount: countWords(source)}, nil
	}

	w := &walker{lang: lang, source: source}
	w.walk(root, -1)
	w.mergeRanges()

	return Result{
		Entities:         w.entities,
		Edges:            w.edges,
		SourceWordCount:  countWords(source),
		ImportWordCount:  countWordsInRanges(source, w.importRanges),
		CommentWordCount: countWordsInRanges(source, w.commentRanges),
	}, nil
}

type byteRange struct{ start, end int }

type walker struct {
	lang          langreg.Language
	source        []byte
	entities      []RawEntity
	edges         []RawEdge
	importRanges  []byteRange
	commentRanges []byteRange
}

// walk recurses through the tree. enclosingIdx is the index into
// w.entities of the innermost entity containing node, or -1 at the top
// level; it's threaded through recursive calls so call-sites and nested
// definitions can attribute themselves to their parent.
func (w *walker) walk(node *sitter.Node, enclosingIdx int) {
	if node == nil {
		return
	}
	nodeType := node.Type()

	nextEnclosing := enclosingIdx

	isImport := w.lang.IsImportNode(nodeType)
	if isImport && w.isCallNode(nodeType) {
		// A node type that is both a call and an import (Ruby's `call`)
		// counts as an import only for require/require_relative.
		method := ""
		if m := node.ChildByFieldName("method"); m != nil {
			method = m.Content(w.source)
		}
		isImport = method == "require" || method == "require_relative"
	}

	if def, ok := w.lang.DefKindFor(nodeType); ok {
		if e, idx, ok := w.extractDef(node, def, enclosingIdx); ok {
			w.entities = append(w.entities, e)
			nextEnclosing = idx
		}
	} else if isImport {
		w.importRanges = append(w.importRanges, byteRange{int(node.StartByte()), int(node.EndByte())})
	} else if w.lang.IsCommentNode(nodeType) {
		w.commentRanges = append(w.commentRanges, byteRange{int(node.StartByte()), int(node.EndByte())})
	} else if w.isCallNode(nodeType) {
		if callee := w.calleeName(node); callee != "" {
			w.edges = append(w.edges, RawEdge{
				CallerIndex: enclosingIdx,
				CalleeName:  callee,
				EdgeType:    "Calls",
				Line:        int(node.StartPoint().Row) + 1,
			})
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		w.walk(node.Child(i), nextEnclosing)
	}
}

func (w *walker) isCallNode(nodeType string) bool {
	for _, c := range w.lang.CallNodes {
		if c == nodeType {
			return true
		}
	}
	return false
}

// extractDef builds a RawEntity for a matched definition node. Returns
// ok=false if no usable name could be found (e.g. an anonymous
// declaration tree-sitter still matched structurally).
func (w *walker) extractDef(node *sitter.Node, def langreg.DefNode, enclosingIdx int) (RawEntity, int, bool) {
	name := w.nameOf(node, def)
	if name == "" {
		return RawEntity{}, 0, false
	}

	start, end := int(node.StartByte()), int(node.EndByte())
	body := string(w.source[start:end])

	parentName := ""
	if enclosingIdx >= 0 && enclosingIdx < len(w.entities) {
		parentName = w.entities[enclosingIdx].Name
	}

	e := RawEntity{
		Name:       name,
		Kind:       def.Kind,
		LineStart:  int(node.StartPoint().Row) + 1,
		LineEnd:    int(node.EndPoint().Row) + 1,
		ByteStart:  start,
		ByteEnd:    end,
		Body:       body,
		Signature:  firstLine(body),
		ParentName: parentName,
	}
	return e, len(w.entities), true
}

// nameOf resolves a definition node's name via its registered field, with
// a fallback scan for the first identifier-shaped named child — languages
// like C's function_definition nest the declarator rather than exposing a
// flat "name" field.
func (w *walker) nameOf(node *sitter.Node, def langreg.DefNode) string {
	if def.NameField != "" {
		if n := node.ChildByFieldName(def.NameField); n != nil {
			return string(w.source[n.StartByte():n.EndByte()])
		}
	}
	return w.scanForIdentifier(node)
}

func (w *walker) scanForIdentifier(node *sitter.Node) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		c := node.NamedChild(i)
		switch c.Type() {
		case "identifier", "field_identifier", "type_identifier":
			return string(w.source[c.StartByte():c.EndByte()])
		case "function_declarator", "pointer_declarator":
			if n := w.scanForIdentifier(c); n != "" {
				return n
			}
		}
	}
	return ""
}

// calleeName resolves the callee identifier of a call expression,
// handling the common field names used across grammars ("function",
// "method") and unwrapping a qualified/member expression to its rightmost
// identifier (e.g. pkg.Foo() -> "Foo", obj.method() -> "method").
func (w *walker) calleeName(node *sitter.Node) string {
	callee := node.ChildByFieldName("function")
	if callee == nil {
		callee = node.ChildByFieldName("method")
	}
	if callee == nil && node.NamedChildCount() > 0 {
		callee = node.NamedChild(0)
	}
	if callee == nil {
		return ""
	}
	return w.rightmostIdentifier(callee)
}

func (w *walker) rightmostIdentifier(node *sitter.Node) string {
	switch node.Type() {
	case "identifier", "field_identifier", "type_identifier", "constant":
		return string(w.source[node.StartByte():node.EndByte()])
	}
	// field_expression / selector_expression / member_expression /
	// scoped_identifier all expose the trailing name via a "field",
	// "property", or "name" child field depending on grammar.
	for _, field := range []string{"field", "property", "name"} {
		if n := node.ChildByFieldName(field); n != nil {
			return w.rightmostIdentifier(n)
		}
	}
	if n := node.NamedChild(int(node.NamedChildCount()) - 1); n != nil {
		return w.rightmostIdentifier(n)
	}
	return string(w.source[node.StartByte():node.EndByte()])
}

func (w *walker) mergeRanges() {
	w.importRanges = mergeSorted(w.importRanges)
	w.commentRanges = mergeSorted(w.commentRanges)
}

func mergeSorted(ranges []byteRange) []byteRange {
	if len(ranges) == 0 {
		return nil
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })
	merged := []byteRange{ranges[0]}
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r.start <= last.end {
			if r.end > last.end {
				last.end = r.end
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

func countWords(b []byte) int {
	return len(strings.Fields(string(b)))
}

func countWordsInRanges(source []byte, ranges []byteRange) int {
	total := 0
	for _, r := range ranges {
		if r.start < 0 || r.end > len(source) || r.start > r.end {
			continue
		}
		total += countWords(source[r.start:r.end])
	}
	return total
}

func firstLine(body string) string {
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		return strings.TrimSpace(body[:idx])
	}
	return strings.TrimSpace(body)
}
