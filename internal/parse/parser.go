// Package parse implements the Parser contract of spec §4.1 and §6: language
// detection is handled by internal/langdetect, this package turns source
// bytes into a tree-sitter AST per language.
//
// Grammars are wired per the teacher's internal/indexer/parsers package:
// each language gets one go-tree-sitter grammar binding.
package parse

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/mvp-joe/repo-knowledge/internal/langdetect"
)

// Tree wraps a parsed tree-sitter tree. Callers must call Close when done.
type Tree struct {
	tree *sitter.Tree
	Root *sitter.Node
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
	}
}

// Parser produces an AST per language. Grammars unavailable for a language
// cause Parse to return (nil, nil) rather than an error, so callers degrade
// gracefully (spec §4.1, §7 GrammarUnavailable).
type Parser interface {
	// Initialize loads all grammars. Safe to call multiple times.
	Initialize() error

	// GetLanguage returns a grammar handle for lang, or nil if unavailable.
	GetLanguage(lang langdetect.Language) *sitter.Language

	// Parse parses source for the given language. Returns (nil, nil) if the
	// grammar is unavailable or the parse otherwise fails to produce a tree.
	Parse(source []byte, lang langdetect.Language) (*Tree, error)
}

type parser struct {
	mu        sync.Mutex
	languages map[langdetect.Language]*sitter.Language
	init      bool
}

// NewParser creates a Parser with all spec-required grammars registered.
func NewParser() Parser {
	return &parser{languages: make(map[langdetect.Language]*sitter.Language)}
}

func (p *parser) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.init {
		return nil
	}

	p.languages[langdetect.Go] = sitter.NewLanguage(sitter_go.Language())
	p.languages[langdetect.Java] = sitter.NewLanguage(sitter_java.Language())
	p.languages[langdetect.JavaScript] = sitter.NewLanguage(sitter_javascript.Language())
	p.languages[langdetect.Python] = sitter.NewLanguage(sitter_python.Language())
	p.languages[langdetect.Rust] = sitter.NewLanguage(sitter_rust.Language())
	p.languages[langdetect.TypeScript] = sitter.NewLanguage(sitter_typescript.LanguageTypescript())
	p.languages[langdetect.TSX] = sitter.NewLanguage(sitter_typescript.LanguageTSX())

	p.init = true
	return nil
}

func (p *parser) GetLanguage(lang langdetect.Language) *sitter.Language {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.languages[lang]
}

func (p *parser) Parse(source []byte, lang langdetect.Language) (*Tree, error) {
	grammar := p.GetLanguage(lang)
	if grammar == nil {
		return nil, nil
	}

	sp := sitter.NewParser()
	defer sp.Close()
	if err := sp.SetLanguage(grammar); err != nil {
		return nil, fmt.Errorf("failed to set grammar for %s: %w", lang, err)
	}

	tree := sp.Parse(source, nil)
	if tree == nil {
		return nil, nil
	}
	return &Tree{tree: tree, Root: tree.RootNode()}, nil
}

// NodeText returns the source text spanned by node.
func NodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// Walk performs a depth-first pre-order walk, invoking visit for every node.
// If visit returns false, node's children are not visited.
func Walk(node *sitter.Node, visit func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		Walk(node.Child(uint(i)), visit)
	}
}

// DescendantsByType returns every node of the given kind reachable from root.
func DescendantsByType(root *sitter.Node, kind string) []*sitter.Node {
	var out []*sitter.Node
	Walk(root, func(n *sitter.Node) bool {
		if n.Kind() == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}
