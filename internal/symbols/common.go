package symbols

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

const signatureHardLimit = 200

// nodeText returns the source text spanned by node.
func nodeText(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return string(source[n.StartByte():n.EndByte()])
}

// extractSignature truncates text at the earliest of `{`, `=>`, or a newline,
// bounded by signatureHardLimit characters (spec §4.2). The newline cut
// applies to every symbol kind, not only type aliases, so a declaration
// header spanning several lines keeps only its first line.
func extractSignature(text string) string {
	cut := len(text)
	if i := strings.IndexByte(text, '{'); i >= 0 && i < cut {
		cut = i
	}
	if i := strings.Index(text, "=>"); i >= 0 && i < cut {
		cut = i
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 && i < cut {
		cut = i
	}
	sig := strings.TrimSpace(text[:cut])
	if len(sig) > signatureHardLimit {
		sig = sig[:signatureHardLimit]
	}
	return sig
}

// stripComment removes block-comment (/* */, /** */) and line-comment
// (///, //, #) markers from a single comment node's text.
func stripComment(text string) string {
	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(text, "/**"):
		text = strings.TrimPrefix(text, "/**")
		text = strings.TrimSuffix(text, "*/")
	case strings.HasPrefix(text, "/*"):
		text = strings.TrimPrefix(text, "/*")
		text = strings.TrimSuffix(text, "*/")
	case strings.HasPrefix(text, "///"):
		text = strings.TrimPrefix(text, "///")
	case strings.HasPrefix(text, "//"):
		text = strings.TrimPrefix(text, "//")
	case strings.HasPrefix(text, "#"):
		text = strings.TrimPrefix(text, "#")
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "*")
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// precedingDocstring returns the docstring from the comment node immediately
// preceding n (skipping no intervening siblings), or "" if none.
func precedingDocstring(n *sitter.Node, source []byte, commentKinds ...string) string {
	prev := n.PrevSibling()
	if prev == nil {
		return ""
	}
	kind := prev.Kind()
	for _, ck := range commentKinds {
		if kind == ck {
			return stripComment(nodeText(prev, source))
		}
	}
	return ""
}

// childByType returns the first direct child of n with the given kind.
func childByType(n *sitter.Node, kind string) *sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(uint(i))
		if c != nil && c.Kind() == kind {
			return c
		}
	}
	return nil
}

// childrenByType returns every direct child of n with the given kind.
func childrenByType(n *sitter.Node, kind string) []*sitter.Node {
	var out []*sitter.Node
	if n == nil {
		return out
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(uint(i))
		if c != nil && c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// walk performs a depth-first pre-order walk of n and its descendants.
func walk(n *sitter.Node, visit func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		walk(n.Child(uint(i)), visit)
	}
}
