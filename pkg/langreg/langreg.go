// Package langreg is the language registry: for each of the twelve
// supported languages it holds the file extensions that select it, the
// tree-sitter grammar handle (nil for the one language with no bundled
// grammar, Swift — see swift.go), and the AST node-type sets that the
// entity extractor needs to recognize definitions, imports, and comments.
package langreg

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// DefinitionKind names the entity_type keyword a matched definition node
// maps to, independent of the language's own grammar terminology.
type DefinitionKind string

const (
	KindFunction  DefinitionKind = "fn"
	KindMethod    DefinitionKind = "method"
	KindStruct    DefinitionKind = "struct"
	KindClass     DefinitionKind = "class"
	KindTrait     DefinitionKind = "trait"
	KindInterface DefinitionKind = "interface"
	KindEnum      DefinitionKind = "enum"
	KindModule    DefinitionKind = "mod"
	KindImpl      DefinitionKind = "impl"
	KindTypedef   DefinitionKind = "type"
)

// DefNode maps one tree-sitter node type to the entity kind it denotes,
// plus which field holds the name.
type DefNode struct {
	NodeType  string
	Kind      DefinitionKind
	NameField string // field name passed to ChildByFieldName; "" falls back to scanning for an identifier child
}

// Language is one entry in the registry.
type Language struct {
	Name         string // the lang field in the key grammar: "rust", "python", ...
	Extensions   []string
	Grammar      func() *sitter.Language // nil for languages extracted via regexp fallback
	Defs         []DefNode
	CallNodes    []string // node types whose structure denotes a call expression
	ImportNodes  []string
	CommentNodes []string
}

var registry = []Language{
	{
		Name:       "rust",
		Extensions: []string{".rs"},
		Grammar:    rust.GetLanguage,
		Defs: []DefNode{
			{NodeType: "function_item", Kind: KindFunction, NameField: "name"},
			{NodeType: "struct_item", Kind: KindStruct, NameField: "name"},
			{NodeType: "trait_item", Kind: KindTrait, NameField: "name"},
			{NodeType: "enum_item", Kind: KindEnum, NameField: "name"},
			{NodeType: "mod_item", Kind: KindModule, NameField: "name"},
			{NodeType: "impl_item", Kind: KindImpl, NameField: "type"},
		},
		CallNodes:    []string{"call_expression"},
		ImportNodes:  []string{"use_declaration"},
		CommentNodes: []string{"line_comment", "block_comment"},
	},
	{
		Name:       "python",
		Extensions: []string{".py"},
		Grammar:    python.GetLanguage,
		Defs: []DefNode{
			{NodeType: "function_definition", Kind: KindFunction, NameField: "name"},
			{NodeType: "class_definition", Kind: KindClass, NameField: "name"},
		},
		CallNodes:    []string{"call"},
		ImportNodes:  []string{"import_statement", "import_from_statement"},
		CommentNodes: []string{"comment"},
	},
	{
		Name:       "javascript",
		Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		Grammar:    javascript.GetLanguage,
		Defs: []DefNode{
			{NodeType: "function_declaration", Kind: KindFunction, NameField: "name"},
			{NodeType: "method_definition", Kind: KindMethod, NameField: "name"},
			{NodeType: "class_declaration", Kind: KindClass, NameField: "name"},
		},
		CallNodes:    []string{"call_expression"},
		ImportNodes:  []string{"import_statement"},
		CommentNodes: []string{"comment"},
	},
	{
		Name:       "typescript",
		Extensions: []string{".ts", ".tsx"},
		Grammar:    typescript.GetLanguage,
		Defs: []DefNode{
			{NodeType: "function_declaration", Kind: KindFunction, NameField: "name"},
			{NodeType: "method_definition", Kind: KindMethod, NameField: "name"},
			{NodeType: "class_declaration", Kind: KindClass, NameField: "name"},
			{NodeType: "interface_declaration", Kind: KindInterface, NameField: "name"},
			{NodeType: "enum_declaration", Kind: KindEnum, NameField: "name"},
			{NodeType: "type_alias_declaration", Kind: KindTypedef, NameField: "name"},
		},
		CallNodes:    []string{"call_expression"},
		ImportNodes:  []string{"import_statement"},
		CommentNodes: []string{"comment"},
	},
	{
		Name:       "go",
		Extensions: []string{".go"},
		Grammar:    golang.GetLanguage,
		Defs: []DefNode{
			{NodeType: "function_declaration", Kind: KindFunction, NameField: "name"},
			{NodeType: "method_declaration", Kind: KindMethod, NameField: "name"},
			{NodeType: "type_declaration", Kind: KindStruct, NameField: ""},
		},
		CallNodes:    []string{"call_expression"},
		ImportNodes:  []string{"import_declaration", "import_spec"},
		CommentNodes: []string{"comment"},
	},
	{
		Name:       "java",
		Extensions: []string{".java"},
		Grammar:    java.GetLanguage,
		Defs: []DefNode{
			{NodeType: "method_declaration", Kind: KindMethod, NameField: "name"},
			{NodeType: "class_declaration", Kind: KindClass, NameField: "name"},
			{NodeType: "interface_declaration", Kind: KindInterface, NameField: "name"},
			{NodeType: "enum_declaration", Kind: KindEnum, NameField: "name"},
		},
		CallNodes:    []string{"method_invocation"},
		ImportNodes:  []string{"import_declaration"},
		CommentNodes: []string{"line_comment", "block_comment"},
	},
	{
		Name:       "c",
		Extensions: []string{".c", ".h"},
		Grammar:    c.GetLanguage,
		Defs: []DefNode{
			{NodeType: "function_definition", Kind: KindFunction, NameField: ""},
			{NodeType: "struct_specifier", Kind: KindStruct, NameField: "name"},
		},
		CallNodes:    []string{"call_expression"},
		ImportNodes:  []string{"preproc_include"},
		CommentNodes: []string{"comment"},
	},
	{
		Name:       "cpp",
		Extensions: []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
		Grammar:    cpp.GetLanguage,
		Defs: []DefNode{
			{NodeType: "function_definition", Kind: KindFunction, NameField: ""},
			{NodeType: "class_specifier", Kind: KindClass, NameField: "name"},
			{NodeType: "struct_specifier", Kind: KindStruct, NameField: "name"},
		},
		CallNodes:    []string{"call_expression"},
		ImportNodes:  []string{"preproc_include"},
		CommentNodes: []string{"comment"},
	},
	{
		Name:       "ruby",
		Extensions: []string{".rb"},
		Grammar:    ruby.GetLanguage,
		Defs: []DefNode{
			{NodeType: "method", Kind: KindMethod, NameField: "name"},
			{NodeType: "class", Kind: KindClass, NameField: "name"},
			{NodeType: "module", Kind: KindModule, NameField: "name"},
		},
		CallNodes:    []string{"call"},
		ImportNodes:  []string{"call"}, // require/require_relative appear as `call` nodes; the extractor keeps only those method names as imports
		CommentNodes: []string{"comment"},
	},
	{
		Name:       "php",
		Extensions: []string{".php"},
		Grammar:    php.GetLanguage,
		Defs: []DefNode{
			{NodeType: "function_definition", Kind: KindFunction, NameField: "name"},
			{NodeType: "method_declaration", Kind: KindMethod, NameField: "name"},
			{NodeType: "class_declaration", Kind: KindClass, NameField: "name"},
			{NodeType: "interface_declaration", Kind: KindInterface, NameField: "name"},
		},
		CallNodes:    []string{"function_call_expression"},
		ImportNodes:  []string{"namespace_use_declaration"},
		CommentNodes: []string{"comment"},
	},
	{
		Name:       "csharp",
		Extensions: []string{".cs"},
		Grammar:    csharp.GetLanguage,
		Defs: []DefNode{
			{NodeType: "method_declaration", Kind: KindMethod, NameField: "name"},
			{NodeType: "class_declaration", Kind: KindClass, NameField: "name"},
			{NodeType: "struct_declaration", Kind: KindStruct, NameField: "name"},
			{NodeType: "interface_declaration", Kind: KindInterface, NameField: "name"},
			{NodeType: "enum_declaration", Kind: KindEnum, NameField: "name"},
		},
		CallNodes:    []string{"invocation_expression"},
		ImportNodes:  []string{"using_directive"},
		CommentNodes: []string{"comment"},
	},
	{
		Name:       "swift",
		Extensions: []string{".swift"},
		Grammar:    nil, // no bundled grammar in the pack; see swift.go's regex fallback
	},
}

// ByExtension returns the Language entry for a file extension (including
// the leading dot), and whether one was found.
func ByExtension(ext string) (Language, bool) {
	for _, l := range registry {
		for _, e := range l.Extensions {
			if e == ext {
				return l, true
			}
		}
	}
	return Language{}, false
}

// ByName returns the Language entry for a lang key-field value.
func ByName(name string) (Language, bool) {
	for _, l := range registry {
		if l.Name == name {
			return l, true
		}
	}
	return Language{}, false
}

// All returns every registered language.
func All() []Language {
	out := make([]Language, len(registry))
	copy(out, registry)
	return out
}

// DefKindFor looks up the DefNode entry matching a node type within a
// language, returning ok=false if the node type isn't a recognized
// definition for that language.
func (l Language) DefKindFor(nodeType string) (DefNode, bool) {
	for _, d := range l.Defs {
		if d.NodeType == nodeType {
			return d, true
		}
	}
	return DefNode{}, false
}

func (l Language) isImportNode(nodeType string) bool {
	for _, n := range l.ImportNodes {
		if n == nodeType {
			return true
		}
	}
	return false
}

// IsImportNode reports whether nodeType is one of this language's
// import-denoting node types.
func (l Language) IsImportNode(nodeType string) bool { return l.isImportNode(nodeType) }

func (l Language) isCommentNode(nodeType string) bool {
	for _, n := range l.CommentNodes {
		if n == nodeType {
			return true
		}
	}
	return false
}

// IsCommentNode reports whether nodeType is this language's comment node
// type.
func (l Language) IsCommentNode(nodeType string) bool { return l.isCommentNode(nodeType) }
