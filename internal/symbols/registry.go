package symbols

import "github.com/mvp-joe/repo-knowledge/internal/langdetect"

// Registry dispatches to the language-specific Extractor strategy.
type Registry struct {
	extractors map[langdetect.Language]Extractor
}

// NewRegistry builds a Registry with one strategy per spec §4.1 code
// language.
func NewRegistry() *Registry {
	r := &Registry{extractors: make(map[langdetect.Language]Extractor)}
	for _, e := range []Extractor{
		NewTypeScriptExtractor(),
		NewTSXExtractor(),
		NewJavaScriptExtractor(),
		NewPythonExtractor(),
		NewRustExtractor(),
		NewGoExtractor(),
		NewJavaExtractor(),
	} {
		r.extractors[e.Language()] = e
	}
	return r
}

// For returns the Extractor for lang, or nil if lang is not a code language.
func (r *Registry) For(lang langdetect.Language) Extractor {
	return r.extractors[lang]
}
