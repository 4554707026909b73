package ppm

// Distribution is a probability distribution over the next symbol, indexed by
// symbol ID. Its length is the vocabulary size at the time it was produced.
// Entries are non-negative and sum to 1 within floating-point tolerance; the
// OOV entry is always strictly positive and the root sentinel entry is
// always 0.
type Distribution []float64

// EscapeMethod selects the escape-probability formula used when blending
// context orders into a single distribution. The walk over the backoff chain
// is identical for all methods; only the per-level split between symbol mass
// and escape mass differs.
type EscapeMethod uint8

const (
	// EscapeMethodA reserves a single escape count per context (PPM-A).
	// With C observed continuations, escape mass is 1/(C+1) and a symbol
	// with count c receives c/(C+1).
	EscapeMethodA EscapeMethod = iota
	// EscapeMethodB discounts one occurrence from every seen symbol (PPM-B).
	// With T distinct symbols, escape mass is T/C and a symbol with count c
	// receives (c-1)/C. A symbol whose discounted share is zero keeps its
	// eligibility at shorter contexts.
	EscapeMethodB
	// EscapeMethodC reserves one escape count per distinct symbol (PPM-C).
	// Escape mass is T/(C+T) and a symbol with count c receives c/(C+T).
	// This is the default method.
	EscapeMethodC
)

// String returns the short conventional name of the escape method.
func (e EscapeMethod) String() string {
	switch e {
	case EscapeMethodA:
		return "A"
	case EscapeMethodB:
		return "B"
	case EscapeMethodC:
		return "C"
	default:
		return "unknown"
	}
}

// estimate blends the counts along the current context's backoff chain into a
// distribution over all vocabulary IDs.
//
// The walk starts at the deepest tracked context and follows backoff links to
// the root. Each level splits the remaining probability mass between the
// symbols counted there and an escape to the next shorter context; a symbol
// that received mass at a deeper level is excluded from all shallower ones.
// A level whose eligible symbol set is empty contributes nothing and consumes
// no mass. Whatever mass survives past the root goes to the OOV symbol, which
// therefore always ends up strictly positive.
func (m *Model) estimate() Distribution {
	dist := make(Distribution, m.vocab.Size())
	excluded := make([]bool, m.vocab.Size())
	remaining := 1.0

	for ref := m.pointer; ref != nilRef; ref = m.trie.nodes[ref].backoff {
		node := &m.trie.nodes[ref]
		if len(node.counts) == 0 {
			continue
		}

		var distinct, total int
		for id, c := range node.counts {
			if !excluded[id] {
				distinct++
				total += c
			}
		}
		if distinct == 0 {
			continue
		}

		var denom, escape float64
		switch m.escape {
		case EscapeMethodA:
			denom = float64(total) + 1
			escape = 1 / denom
		case EscapeMethodB:
			denom = float64(total)
			escape = float64(distinct) / denom
		default:
			denom = float64(total + distinct)
			escape = float64(distinct) / denom
		}

		for id, c := range node.counts {
			if excluded[id] {
				continue
			}
			weight := float64(c)
			if m.escape == EscapeMethodB {
				weight--
			}
			if weight <= 0 {
				continue
			}
			dist[id] += remaining * weight / denom
			excluded[id] = true
		}
		remaining *= escape
	}

	dist[OOVSymbolID] += remaining
	return dist
}
