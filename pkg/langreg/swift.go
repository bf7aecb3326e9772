package langreg

import (
	"regexp"
	"strings"
)

// Swift has no bundled tree-sitter grammar in this module's dependency
// set, the same situation the teacher's own protobuf parser documents
// ("regex-based parsing since tree-sitter-proto is not bundled"). This
// file follows that precedent: a regex-driven signature match plus a
// brace-depth scan for the body range, reused here for func/class/
// struct/protocol/extension declarations.
var swiftDeclPattern = regexp.MustCompile(
	`^\s*(?:public |private |internal |fileprivate |open )?(?:static |final |override )*(func|class|struct|protocol|extension|enum)\s+([A-Za-z_][A-Za-z0-9_]*)`,
)

// SwiftDecl is one regex-matched Swift declaration.
type SwiftDecl struct {
	Name      string
	Kind      DefinitionKind
	LineStart int
	LineEnd   int
	Body      string
	Signature string
}

var swiftKind = map[string]DefinitionKind{
	"func":       KindFunction,
	"class":      KindClass,
	"struct":     KindStruct,
	"protocol":   KindInterface,
	"extension":  KindImpl,
	"enum":       KindEnum,
}

// ExtractSwift scans Swift source line by line for declarations, matching
// each to its closing brace by depth count — the same block-end strategy
// the protobuf fallback uses for message/enum bodies.
func ExtractSwift(source []byte) []SwiftDecl {
	lines := strings.Split(string(source), "\n")
	var decls []SwiftDecl

	for i, line := range lines {
		m := swiftDeclPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		keyword, name := m[1], m[2]
		kind, ok := swiftKind[keyword]
		if !ok {
			continue
		}
		endIdx := findSwiftBlockEnd(lines, i)
		body := strings.Join(lines[i:endIdx], "\n")
		decls = append(decls, SwiftDecl{
			Name:      name,
			Kind:      kind,
			LineStart: i + 1,
			LineEnd:   endIdx,
			Body:      body,
			Signature: strings.TrimSpace(line),
		})
	}
	return decls
}

func findSwiftBlockEnd(lines []string, startIdx int) int {
	depth := 0
	started := false
	for i := startIdx; i < len(lines); i++ {
		line := lines[i]
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if !started && strings.Contains(line, "{") {
			started = true
		}
		if started && depth <= 0 {
			return i + 1
		}
	}
	return len(lines)
}
