package symbols

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/repo-knowledge/internal/langdetect"
)

// javaExtractor is not covered by one of spec §4.2's four detailed
// per-language rules; it generalizes the Go/Rust pattern (top-level type
// declarations, their contained methods attributed to the declaring type,
// import declarations) to Java's grammar. See DESIGN.md for this decision.
type javaExtractor struct{}

// NewJavaExtractor returns the Java SymbolExtractor strategy.
func NewJavaExtractor() Extractor { return &javaExtractor{} }

func (j *javaExtractor) Language() langdetect.Language { return langdetect.Java }

func (j *javaExtractor) Extract(root *sitter.Node, source []byte) FileSymbols {
	var out FileSymbols
	count := int(root.ChildCount())
	for i := 0; i < count; i++ {
		n := root.Child(uint(i))
		if n == nil {
			continue
		}
		switch n.Kind() {
		case "class_declaration":
			out.Symbols = append(out.Symbols, j.extractType(n, source, KindClass)...)
		case "interface_declaration":
			out.Symbols = append(out.Symbols, j.extractType(n, source, KindInterface)...)
		case "enum_declaration":
			out.Symbols = append(out.Symbols, j.extractType(n, source, KindEnum)...)
		case "import_declaration":
			out.Imports = append(out.Imports, j.extractImport(n, source))
		}
	}
	return out
}

func (j *javaExtractor) extractType(n *sitter.Node, source []byte, kind Kind) []Symbol {
	nameNode := n.ChildByFieldName("name")
	name := nodeText(nameNode, source)
	top := Symbol{
		Name:      name,
		Kind:      kind,
		Signature: extractSignature(nodeText(n, source)),
		Range:     rangeOf(n),
		Docstring: precedingDocstring(n, source, "line_comment", "block_comment"),
		Exported:  javaModifiersHavePublic(n, source),
		Body:      nodeText(n, source),
	}
	syms := []Symbol{top}

	body := n.ChildByFieldName("body")
	if body != nil {
		for _, m := range childrenByType(body, "method_declaration") {
			syms = append(syms, j.extractMethod(m, source, name))
		}
	}
	return syms
}

func javaModifiersHavePublic(n *sitter.Node, source []byte) bool {
	mods := childByType(n, "modifiers")
	if mods == nil {
		return false
	}
	return strings.Contains(nodeText(mods, source), "public")
}

func (j *javaExtractor) extractMethod(n *sitter.Node, source []byte, parent string) Symbol {
	nameNode := n.ChildByFieldName("name")
	name := nodeText(nameNode, source)
	return Symbol{
		Name:       name,
		Kind:       KindMethod,
		Signature:  extractSignature(nodeText(n, source)),
		Range:      rangeOf(n),
		ParentName: parent,
		Docstring:  precedingDocstring(n, source, "line_comment", "block_comment"),
		Exported:   javaModifiersHavePublic(n, source),
		Body:       nodeText(n, source),
	}
}

func (j *javaExtractor) extractImport(n *sitter.Node, source []byte) Import {
	line := int(n.StartPosition().Row) + 1
	text := strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(nodeText(n, source), "import")), ";")
	return Import{Source: strings.TrimSpace(text), Line: line}
}
