package symbols

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/repo-knowledge/internal/langdetect"
)

// tsJsExtractor implements the shared TypeScript/JavaScript recognition
// rules of spec §4.2. TSX reuses the same grammar shape as TypeScript.
type tsJsExtractor struct {
	lang langdetect.Language
}

// NewTypeScriptExtractor returns the TypeScript SymbolExtractor strategy.
func NewTypeScriptExtractor() Extractor { return &tsJsExtractor{lang: langdetect.TypeScript} }

// NewTSXExtractor returns the TSX SymbolExtractor strategy.
func NewTSXExtractor() Extractor { return &tsJsExtractor{lang: langdetect.TSX} }

// NewJavaScriptExtractor returns the JavaScript SymbolExtractor strategy.
func NewJavaScriptExtractor() Extractor { return &tsJsExtractor{lang: langdetect.JavaScript} }

func (t *tsJsExtractor) Language() langdetect.Language { return t.lang }

func (t *tsJsExtractor) Extract(root *sitter.Node, source []byte) FileSymbols {
	var out FileSymbols
	count := int(root.ChildCount())
	for i := 0; i < count; i++ {
		t.extractStatement(root.Child(uint(i)), source, false, &out)
	}
	return out
}

// extractStatement processes one top-level (or export-wrapped) statement.
// exported is true if this statement is wrapped in an export_statement
// (spec §4.2: "wrapped in an export statement or preceded by an export
// keyword token").
func (t *tsJsExtractor) extractStatement(n *sitter.Node, source []byte, exported bool, out *FileSymbols) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "export_statement":
		decl := n.ChildByFieldName("declaration")
		if decl != nil {
			t.extractStatement(decl, source, true, out)
			return
		}
		// export default <expr> / export { a, b } — no declaration to attribute.
		return
	case "function_declaration":
		out.Symbols = append(out.Symbols, t.extractFunction(n, source, exported))
	case "lexical_declaration", "variable_declaration":
		out.Symbols = append(out.Symbols, t.extractArrowFunctions(n, source, exported)...)
	case "class_declaration":
		out.Symbols = append(out.Symbols, t.extractClass(n, source, exported)...)
	case "interface_declaration":
		out.Symbols = append(out.Symbols, t.extractSimple(n, source, KindInterface, exported))
	case "type_alias_declaration":
		out.Symbols = append(out.Symbols, t.extractSimple(n, source, KindType, exported))
	case "enum_declaration":
		out.Symbols = append(out.Symbols, t.extractSimple(n, source, KindEnum, exported))
	case "import_statement":
		out.Imports = append(out.Imports, t.extractImport(n, source))
	}
}

func (t *tsJsExtractor) extractFunction(n *sitter.Node, source []byte, exported bool) Symbol {
	name := nodeText(n.ChildByFieldName("name"), source)
	return Symbol{
		Name:      name,
		Kind:      KindFunction,
		Signature: extractSignature(nodeText(n, source)),
		Range:     rangeOf(n),
		Docstring: precedingDocstring(n, source, "comment"),
		Exported:  exported,
		Body:      nodeText(n, source),
	}
}

// extractArrowFunctions finds arrow-function-valued variable declarators
// within a lexical/variable declaration (spec §4.2).
func (t *tsJsExtractor) extractArrowFunctions(n *sitter.Node, source []byte, exported bool) []Symbol {
	var syms []Symbol
	for _, decl := range childrenByType(n, "variable_declarator") {
		value := decl.ChildByFieldName("value")
		if value == nil || value.Kind() != "arrow_function" {
			continue
		}
		name := nodeText(decl.ChildByFieldName("name"), source)
		syms = append(syms, Symbol{
			Name:      name,
			Kind:      KindFunction,
			Signature: extractSignature(nodeText(decl, source)),
			Range:     rangeOf(decl),
			Docstring: precedingDocstring(n, source, "comment"),
			Exported:  exported,
			Body:      nodeText(value, source),
		})
	}
	return syms
}

func (t *tsJsExtractor) extractSimple(n *sitter.Node, source []byte, kind Kind, exported bool) Symbol {
	name := nodeText(n.ChildByFieldName("name"), source)
	return Symbol{
		Name:      name,
		Kind:      kind,
		Signature: extractSignature(nodeText(n, source)),
		Range:     rangeOf(n),
		Docstring: precedingDocstring(n, source, "comment"),
		Exported:  exported,
		Body:      nodeText(n, source),
	}
}

func (t *tsJsExtractor) extractClass(n *sitter.Node, source []byte, exported bool) []Symbol {
	name := nodeText(n.ChildByFieldName("name"), source)
	class := Symbol{
		Name:      name,
		Kind:      KindClass,
		Signature: extractSignature(nodeText(n, source)),
		Range:     rangeOf(n),
		Docstring: precedingDocstring(n, source, "comment"),
		Exported:  exported,
		Body:      nodeText(n, source),
	}
	syms := []Symbol{class}

	body := n.ChildByFieldName("body")
	if body == nil {
		return syms
	}
	memberCount := int(body.NamedChildCount())
	for i := 0; i < memberCount; i++ {
		member := body.NamedChild(uint(i))
		if member == nil {
			continue
		}
		switch member.Kind() {
		case "method_definition":
			mName := nodeText(member.ChildByFieldName("name"), source)
			syms = append(syms, Symbol{
				Name:       mName,
				Kind:       KindMethod,
				Signature:  extractSignature(nodeText(member, source)),
				Range:      rangeOf(member),
				ParentName: name,
				Docstring:  precedingDocstring(member, source, "comment"),
				Exported:   exported,
				Body:       nodeText(member, source),
			})
		case "public_field_definition", "field_definition":
			pName := nodeText(member.ChildByFieldName("property"), source)
			syms = append(syms, Symbol{
				Name:       pName,
				Kind:       KindProperty,
				Signature:  extractSignature(nodeText(member, source)),
				Range:      rangeOf(member),
				ParentName: name,
				Docstring:  precedingDocstring(member, source, "comment"),
				Exported:   exported,
				Body:       nodeText(member, source),
			})
		}
	}
	return syms
}

func (t *tsJsExtractor) extractImport(n *sitter.Node, source []byte) Import {
	line := int(n.StartPosition().Row) + 1
	sourceNode := n.ChildByFieldName("source")
	src := strings.Trim(nodeText(sourceNode, source), `"'`)

	var names []string
	clause := childByType(n, "import_clause")
	if clause != nil {
		if named := childByType(clause, "named_imports"); named != nil {
			for _, spec := range childrenByType(named, "import_specifier") {
				nameNode := spec.ChildByFieldName("name")
				names = append(names, nodeText(nameNode, source))
			}
		}
		if def := clause.NamedChild(0); def != nil && def.Kind() == "identifier" {
			names = append(names, nodeText(def, source))
		}
	}

	return Import{Source: src, Names: names, Line: line}
}
