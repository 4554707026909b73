package ppm

import "math"

// nodeRef is a stable index into the trie's node arena. Nodes are never
// relocated or freed, so a nodeRef stays valid for the lifetime of the trie.
type nodeRef int32

const (
	// nilRef marks the absence of a node, such as the root's backoff.
	nilRef nodeRef = -1
	// rootRef is the arena index of the root node, the empty context.
	rootRef nodeRef = 0
)

// trieNode represents one context, a suffix of recently observed symbols.
//
// children holds the deeper contexts reachable by appending one symbol, while
// counts holds how often each symbol was observed immediately after this
// context. The two maps are keyed by the same symbol IDs but evolve
// independently: a count exists for every observed continuation, a child only
// once that continuation has itself been tracked as a context.
type trieNode struct {
	children map[int]nodeRef
	counts   map[int]int
	total    int
	backoff  nodeRef
	order    int
}

// contextTrie is an arena-backed trie of bounded depth. The backoff field of
// each node is a non-owning cross-reference to the node for the same context
// with its oldest symbol dropped; ownership flows strictly parent to child.
type contextTrie struct {
	nodes []trieNode
}

// newContextTrie creates a trie holding only the root node. The capacity hint
// presizes the arena to avoid early growth copies.
func newContextTrie(capacity int) *contextTrie {
	if capacity < 1 {
		capacity = 1
	}
	t := &contextTrie{nodes: make([]trieNode, 0, capacity)}
	t.nodes = append(t.nodes, trieNode{backoff: nilRef})
	return t
}

// childOf returns the child of ref for the given symbol ID, or nilRef if no
// such context has been tracked. It never mutates the trie.
func (t *contextTrie) childOf(ref nodeRef, id int) nodeRef {
	if child, ok := t.nodes[ref].children[id]; ok {
		return child
	}
	return nilRef
}

// getOrCreateChild returns the child of ref for the given symbol ID, creating
// it if absent. A new node's backoff is wired to the equivalent child of ref's
// own backoff, which is created first if needed; the recursion bottoms out at
// the root, so backoff targets always exist no later than the nodes that
// reference them.
func (t *contextTrie) getOrCreateChild(ref nodeRef, id int) nodeRef {
	if child := t.childOf(ref, id); child != nilRef {
		return child
	}

	backoff := rootRef
	if ref != rootRef {
		backoff = t.getOrCreateChild(t.nodes[ref].backoff, id)
	}

	// Appending may relocate the arena, so nodes are always addressed by
	// index here rather than through held pointers.
	child := nodeRef(len(t.nodes))
	t.nodes = append(t.nodes, trieNode{backoff: backoff, order: t.nodes[ref].order + 1})
	if t.nodes[ref].children == nil {
		t.nodes[ref].children = make(map[int]nodeRef)
	}
	t.nodes[ref].children[id] = child
	return child
}

// incrementCount adds delta to the count of the given symbol ID at ref and to
// the node's cached total. Counts never decrement: a non-positive delta is a
// no-op. Both the count and the total saturate at math.MaxInt instead of
// wrapping, and delta is trimmed so the total stays equal to the sum of the
// counts even at the clamp.
func (t *contextTrie) incrementCount(ref nodeRef, id, delta int) {
	node := &t.nodes[ref]
	if delta > math.MaxInt-node.counts[id] {
		delta = math.MaxInt - node.counts[id]
	}
	if delta > math.MaxInt-node.total {
		delta = math.MaxInt - node.total
	}
	if delta <= 0 {
		return
	}
	if node.counts == nil {
		node.counts = make(map[int]int)
	}
	node.counts[id] += delta
	node.total += delta
}

// distinctCount returns the number of distinct symbols observed immediately
// after the context at ref.
func (t *contextTrie) distinctCount(ref nodeRef) int {
	return len(t.nodes[ref].counts)
}

// len returns the number of nodes in the arena, including the root.
func (t *contextTrie) len() int {
	return len(t.nodes)
}
