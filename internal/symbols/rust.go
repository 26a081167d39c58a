package symbols

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/repo-knowledge/internal/langdetect"
)

type rustExtractor struct{}

// NewRustExtractor returns the Rust SymbolExtractor strategy.
func NewRustExtractor() Extractor { return &rustExtractor{} }

func (r *rustExtractor) Language() langdetect.Language { return langdetect.Rust }

func (r *rustExtractor) Extract(root *sitter.Node, source []byte) FileSymbols {
	var out FileSymbols
	count := int(root.ChildCount())
	for i := 0; i < count; i++ {
		n := root.Child(uint(i))
		if n == nil {
			continue
		}
		switch n.Kind() {
		case "function_item":
			out.Symbols = append(out.Symbols, r.extractFunction(n, source, ""))
		case "struct_item":
			out.Symbols = append(out.Symbols, r.extractSimple(n, source, KindClass))
		case "enum_item":
			out.Symbols = append(out.Symbols, r.extractSimple(n, source, KindEnum))
		case "trait_item":
			out.Symbols = append(out.Symbols, r.extractSimple(n, source, KindInterface))
		case "impl_item":
			out.Symbols = append(out.Symbols, r.extractImpl(n, source)...)
		case "use_declaration":
			out.Imports = append(out.Imports, r.extractUse(n, source))
		}
	}
	return out
}

func rustExported(n *sitter.Node) bool {
	return childByType(n, "visibility_modifier") != nil
}

func (r *rustExtractor) extractFunction(n *sitter.Node, source []byte, parent string) Symbol {
	nameNode := n.ChildByFieldName("name")
	name := nodeText(nameNode, source)
	kind := KindFunction
	if parent != "" {
		kind = KindMethod
	}
	return Symbol{
		Name:       name,
		Kind:       kind,
		Signature:  extractSignature(nodeText(n, source)),
		Range:      rangeOf(n),
		ParentName: parent,
		Docstring:  precedingDocstring(n, source, "line_comment", "block_comment"),
		Exported:   rustExported(n),
		Body:       nodeText(n, source),
	}
}

func (r *rustExtractor) extractSimple(n *sitter.Node, source []byte, kind Kind) Symbol {
	nameNode := n.ChildByFieldName("name")
	name := nodeText(nameNode, source)
	return Symbol{
		Name:      name,
		Kind:      kind,
		Signature: extractSignature(nodeText(n, source)),
		Range:     rangeOf(n),
		Docstring: precedingDocstring(n, source, "line_comment", "block_comment"),
		Exported:  rustExported(n),
		Body:      nodeText(n, source),
	}
}

// extractImpl attributes the impl block's inner functions as methods with
// parent = the impl target type (spec §4.2).
func (r *rustExtractor) extractImpl(n *sitter.Node, source []byte) []Symbol {
	typeNode := n.ChildByFieldName("type")
	target := strings.TrimSpace(nodeText(typeNode, source))
	body := n.ChildByFieldName("body")
	var syms []Symbol
	if body == nil {
		return syms
	}
	for _, fn := range childrenByType(body, "function_item") {
		syms = append(syms, r.extractFunction(fn, source, target))
	}
	return syms
}

func (r *rustExtractor) extractUse(n *sitter.Node, source []byte) Import {
	arg := n.ChildByFieldName("argument")
	line := int(n.StartPosition().Row) + 1
	return Import{Source: strings.TrimSpace(nodeText(arg, source)), Line: line}
}
