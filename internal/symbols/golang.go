package symbols

import (
	"strings"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/repo-knowledge/internal/langdetect"
)

type goExtractor struct{}

// NewGoExtractor returns the Go SymbolExtractor strategy.
func NewGoExtractor() Extractor { return &goExtractor{} }

func (g *goExtractor) Language() langdetect.Language { return langdetect.Go }

func (g *goExtractor) Extract(root *sitter.Node, source []byte) FileSymbols {
	var out FileSymbols
	count := int(root.ChildCount())
	for i := 0; i < count; i++ {
		n := root.Child(uint(i))
		if n == nil {
			continue
		}
		switch n.Kind() {
		case "function_declaration":
			out.Symbols = append(out.Symbols, g.extractFunction(n, source))
		case "method_declaration":
			out.Symbols = append(out.Symbols, g.extractMethod(n, source))
		case "type_declaration":
			out.Symbols = append(out.Symbols, g.extractTypeDecl(n, source)...)
		case "import_declaration":
			out.Imports = append(out.Imports, g.extractImports(n, source)...)
		}
	}
	return out
}

func goExported(name string) bool {
	if name == "" {
		return false
	}
	r := []rune(name)[0]
	return unicode.IsUpper(r)
}

func (g *goExtractor) extractFunction(n *sitter.Node, source []byte) Symbol {
	nameNode := n.ChildByFieldName("name")
	name := nodeText(nameNode, source)
	return Symbol{
		Name:      name,
		Kind:      KindFunction,
		Signature: extractSignature(nodeText(n, source)),
		Range:     rangeOf(n),
		Docstring: precedingDocstring(n, source, "comment"),
		Exported:  goExported(name),
		Body:      nodeText(n, source),
	}
}

func (g *goExtractor) extractMethod(n *sitter.Node, source []byte) Symbol {
	nameNode := n.ChildByFieldName("name")
	name := nodeText(nameNode, source)
	parent := receiverTypeName(n, source)
	return Symbol{
		Name:       name,
		Kind:       KindMethod,
		Signature:  extractSignature(nodeText(n, source)),
		Range:      rangeOf(n),
		ParentName: parent,
		Docstring:  precedingDocstring(n, source, "comment"),
		Exported:   goExported(name),
		Body:       nodeText(n, source),
	}
}

// receiverTypeName extracts the receiver's type name, stripped of pointer
// and parentheses (spec §4.2: "parent = receiver type name, stripped of
// pointer/parentheses").
func receiverTypeName(methodDecl *sitter.Node, source []byte) string {
	receiver := methodDecl.ChildByFieldName("receiver")
	if receiver == nil {
		return ""
	}
	text := nodeText(receiver, source)
	text = strings.Trim(text, "()")
	text = strings.TrimSpace(text)
	fields := strings.Fields(text)
	typ := text
	if len(fields) == 2 {
		typ = fields[1]
	}
	typ = strings.TrimPrefix(typ, "*")
	if idx := strings.IndexByte(typ, '['); idx >= 0 {
		typ = typ[:idx]
	}
	return strings.TrimSpace(typ)
}

func (g *goExtractor) extractTypeDecl(n *sitter.Node, source []byte) []Symbol {
	var syms []Symbol
	for _, spec := range childrenByType(n, "type_spec") {
		nameNode := spec.ChildByFieldName("name")
		name := nodeText(nameNode, source)
		typeNode := spec.ChildByFieldName("type")
		kind := KindType
		if typeNode != nil {
			switch typeNode.Kind() {
			case "struct_type":
				kind = KindClass
			case "interface_type":
				kind = KindInterface
			}
		}
		syms = append(syms, Symbol{
			Name:      name,
			Kind:      kind,
			Signature: extractSignature(nodeText(spec, source)),
			Range:     rangeOf(spec),
			Docstring: precedingDocstring(n, source, "comment"),
			Exported:  goExported(name),
			Body:      nodeText(spec, source),
		})
	}
	return syms
}

func (g *goExtractor) extractImports(n *sitter.Node, source []byte) []Import {
	var imports []Import
	line := int(n.StartPosition().Row) + 1

	specs := childrenByType(n, "import_spec")
	if list := childByType(n, "import_spec_list"); list != nil {
		specs = append(specs, childrenByType(list, "import_spec")...)
	}
	for _, spec := range specs {
		pathNode := spec.ChildByFieldName("path")
		path := strings.Trim(nodeText(pathNode, source), `"`)
		imports = append(imports, Import{Source: path, Line: line})
	}
	return imports
}
