package embedprovider

// NewProvider returns the embedding provider for modelID, wrapped in Lazy so
// initialization happens once on first use (spec §5). The real embedding
// model is an external collaborator (spec §1: "the embedding model itself,
// consumed via an abstract interface"); until one is wired in, every model
// id resolves to the deterministic mock, matching the teacher's own
// internal/embed/factory.go fallback to its "mock" provider.
func NewProvider(modelID string, dimensions int) Provider {
	return NewLazy(NewMockProvider(modelID, dimensions))
}
