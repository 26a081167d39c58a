package symbols

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/repo-knowledge/internal/langdetect"
)

type pythonExtractor struct{}

// NewPythonExtractor returns the Python SymbolExtractor strategy.
func NewPythonExtractor() Extractor { return &pythonExtractor{} }

func (p *pythonExtractor) Language() langdetect.Language { return langdetect.Python }

func (p *pythonExtractor) Extract(root *sitter.Node, source []byte) FileSymbols {
	var out FileSymbols
	count := int(root.ChildCount())
	for i := 0; i < count; i++ {
		n := root.Child(uint(i))
		if n == nil {
			continue
		}
		switch n.Kind() {
		case "function_definition":
			out.Symbols = append(out.Symbols, p.extractFunction(n, source, ""))
		case "class_definition":
			out.Symbols = append(out.Symbols, p.extractClass(n, source)...)
		case "import_statement", "import_from_statement":
			out.Imports = append(out.Imports, p.extractImport(n, source))
		}
	}
	return out
}

func pyExported(name string) bool {
	return !strings.HasPrefix(name, "_")
}

func (p *pythonExtractor) extractFunction(n *sitter.Node, source []byte, parent string) Symbol {
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
		Docstring:  p.bodyDocstring(n, source),
		Exported:   pyExported(name),
		Body:       nodeText(n, source),
	}
}

// bodyDocstring returns the string expression that is the first statement of
// the function/class body, per spec §4.2.
func (p *pythonExtractor) bodyDocstring(n *sitter.Node, source []byte) string {
	body := n.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first == nil || first.Kind() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	strNode := first.NamedChild(0)
	if strNode == nil || strNode.Kind() != "string" {
		return ""
	}
	return strings.Trim(strings.TrimSpace(nodeText(strNode, source)), `"'`)
}

func (p *pythonExtractor) extractClass(n *sitter.Node, source []byte) []Symbol {
	nameNode := n.ChildByFieldName("name")
	name := nodeText(nameNode, source)
	class := Symbol{
		Name:      name,
		Kind:      KindClass,
		Signature: extractSignature(nodeText(n, source)),
		Range:     rangeOf(n),
		Docstring: p.bodyDocstring(n, source),
		Exported:  pyExported(name),
		Body:      nodeText(n, source),
	}
	syms := []Symbol{class}

	body := n.ChildByFieldName("body")
	if body != nil {
		methodCount := int(body.NamedChildCount())
		for i := 0; i < methodCount; i++ {
			child := body.NamedChild(uint(i))
			if child != nil && child.Kind() == "function_definition" {
				syms = append(syms, p.extractFunction(child, source, name))
			}
		}
	}
	return syms
}

func (p *pythonExtractor) extractImport(n *sitter.Node, source []byte) Import {
	line := int(n.StartPosition().Row) + 1
	if n.Kind() == "import_from_statement" {
		moduleNode := n.ChildByFieldName("module_name")
		names := childrenByType(n, "dotted_name")
		var names2 []string
		for _, nm := range names {
			if moduleNode != nil && nm.StartByte() == moduleNode.StartByte() {
				continue // the module path itself, not an imported name
			}
			names2 = append(names2, nodeText(nm, source))
		}
		return Import{Source: nodeText(moduleNode, source), Names: names2, Line: line}
	}
	return Import{Source: strings.TrimSpace(nodeText(n, source)), Line: line}
}
