package graph

import "github.com/mvp-joe/repo-knowledge/internal/storage"

// Dependencies returns the distinct target symbol ids reachable from
// symbolID within depth hops of calls/imports edges (spec §8 scenario 3:
// "get_dependencies from caller depth=1 returns foo as a dependency").
func Dependencies(store *storage.MetadataStore, symbolID int64, depth int) ([]int64, error) {
	if depth <= 0 {
		return nil, nil
	}
	edges, err := store.AllGraphEdges()
	if err != nil {
		return nil, err
	}

	outgoing := make(map[int64][]int64)
	for _, e := range edges {
		if e.EdgeType != storage.EdgeCalls && e.EdgeType != storage.EdgeImports {
			continue
		}
		outgoing[e.SourceSymbolID] = append(outgoing[e.SourceSymbolID], e.TargetSymbolID)
	}

	visited := map[int64]bool{symbolID: true}
	var out []int64
	frontier := []int64{symbolID}
	for d := 0; d < depth && len(frontier) > 0; d++ {
		var next []int64
		for _, id := range frontier {
			for _, target := range outgoing[id] {
				if visited[target] {
					continue
				}
				visited[target] = true
				out = append(out, target)
				next = append(next, target)
			}
		}
		frontier = next
	}
	return out, nil
}
