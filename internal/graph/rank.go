package graph

import "github.com/mvp-joe/repo-knowledge/internal/storage"

const (
	dampingFactor = 0.85
	iterations    = 20
)

// Rank runs power-iteration PageRank over the directed symbol graph and
// persists the resulting importance scores, per spec §4.6. Every persisted
// symbol participates, regardless of which file produced the edges in the
// current batch, since importance is a property of the whole graph.
func Rank(store *storage.MetadataStore) error {
	syms, err := store.AllSymbols()
	if err != nil {
		return err
	}
	n := len(syms)
	if n == 0 {
		return nil
	}

	index := make(map[int64]int, n)
	for i, s := range syms {
		index[s.ID] = i
	}

	edges, err := store.AllGraphEdges()
	if err != nil {
		return err
	}

	outDegree := make([]int, n)
	// incoming[i] lists the node indices with an edge into node i.
	incoming := make([][]int, n)
	for _, e := range edges {
		si, sok := index[e.SourceSymbolID]
		ti, tok := index[e.TargetSymbolID]
		if !sok || !tok {
			continue
		}
		outDegree[si]++
		incoming[ti] = append(incoming[ti], si)
	}

	scores := make([]float64, n)
	init := 1.0 / float64(n)
	for i := range scores {
		scores[i] = init
	}

	for iter := 0; iter < iterations; iter++ {
		var danglingMass float64
		for i := 0; i < n; i++ {
			if outDegree[i] == 0 {
				danglingMass += scores[i]
			}
		}

		next := make([]float64, n)
		base := (1-dampingFactor)/float64(n) + dampingFactor*danglingMass/float64(n)
		for i := 0; i < n; i++ {
			sum := 0.0
			for _, j := range incoming[i] {
				sum += scores[j] / float64(outDegree[j])
			}
			next[i] = base + dampingFactor*sum
		}
		scores = next
	}

	max := 0.0
	for _, s := range scores {
		if s > max {
			max = s
		}
	}

	result := make(map[int64]float64, n)
	for i, s := range syms {
		if max > 0 {
			result[s.ID] = scores[i] / max
		} else {
			result[s.ID] = 0
		}
	}

	return store.UpdateImportance(result)
}
