package ingest

import (
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/parseltongue/parseltongue/pkg/langreg"
)

// parserPool keeps one sync.Pool of *sitter.Parser per language, since a
// tree-sitter parser is not safe for concurrent use but is cheap to reuse
// across files once its grammar is set. Generalizes the teacher's
// per-language-field pool (goPool/pyPool/jsPool/tsPool) to the full
// registry without hand-naming a field per language.
type parserPool struct {
	mu    sync.Mutex
	pools map[string]*sync.Pool
}

func newParserPool() *parserPool {
	return &parserPool{pools: make(map[string]*sync.Pool)}
}

// Get returns a parser configured for lang, creating its pool lazily.
// Swift has no grammar and always returns nil — callers fall back to
// langreg.ExtractSwift instead of tree-sitter.
func (p *parserPool) Get(lang langreg.Language) *sitter.Parser {
	if lang.Grammar == nil {
		return nil
	}
	p.mu.Lock()
	pool, ok := p.pools[lang.Name]
	if !ok {
		grammar := lang.Grammar
		pool = &sync.Pool{New: func() any {
			parser := sitter.NewParser()
			parser.SetLanguage(grammar())
			return parser
		}}
		p.pools[lang.Name] = pool
	}
	p.mu.Unlock()
	return pool.Get().(*sitter.Parser)
}

// Put returns a parser to its language's pool.
func (p *parserPool) Put(lang langreg.Language, parser *sitter.Parser) {
	if parser == nil {
		return
	}
	p.mu.Lock()
	pool := p.pools[lang.Name]
	p.mu.Unlock()
	if pool != nil {
		pool.Put(parser)
	}
}
