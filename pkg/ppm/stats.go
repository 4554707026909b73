package ppm

// ModelStats holds aggregated statistics for a single Model.
type ModelStats struct {
	MaxOrder          int          // maximum context order
	EscapeMethod      EscapeMethod // escape method used by Predict
	VocabSize         int          // allocated vocabulary IDs, reserved entries included
	Nodes             int          // trie nodes, root included
	NodesByOrder      []int        // trie nodes per context order, indexed by order
	TotalObservations int          // symbols observed so far (saturating)
	ContextOrder      int          // order of the current context pointer
}

// Stats returns a snapshot of statistics for the model. It walks the whole
// node arena, so it is meant for inspection and reporting rather than the
// per-keystroke path.
func (m *Model) Stats() *ModelStats {
	nodesByOrder := make([]int, m.maxOrder+1)
	for i := range m.trie.nodes {
		nodesByOrder[m.trie.nodes[i].order]++
	}

	return &ModelStats{
		MaxOrder:          m.maxOrder,
		EscapeMethod:      m.escape,
		VocabSize:         m.vocab.Size(),
		Nodes:             m.trie.len(),
		NodesByOrder:      nodesByOrder,
		TotalObservations: m.trie.nodes[rootRef].total,
		ContextOrder:      m.trie.nodes[m.pointer].order,
	}
}
