package ppm

import (
	"math"
	"testing"
)

func TestGetOrCreateChildWiresBackoff(t *testing.T) {
	trie := newContextTrie(0)
	const aID, bID = 2, 3

	a := trie.getOrCreateChild(rootRef, aID)
	if got := trie.nodes[a].backoff; got != rootRef {
		t.Errorf("backoff of an order-1 node = %d, want root %d", got, rootRef)
	}
	if got := trie.nodes[a].order; got != 1 {
		t.Errorf("order of a root child = %d, want 1", got)
	}

	// Creating the context "ab" must create and wire the context "b" first.
	ab := trie.getOrCreateChild(a, bID)
	b := trie.childOf(rootRef, bID)
	if b == nilRef {
		t.Fatal("creating a depth-2 node did not create its backoff target under the root")
	}
	if got := trie.nodes[ab].backoff; got != b {
		t.Errorf("backoff of the \"ab\" node = %d, want the \"b\" node %d", got, b)
	}
	if got := trie.nodes[b].backoff; got != rootRef {
		t.Errorf("backoff of the auto-created \"b\" node = %d, want root", got)
	}
	if got := trie.nodes[ab].order; got != 2 {
		t.Errorf("order of the \"ab\" node = %d, want 2", got)
	}

	// Lookups are stable and non-mutating.
	before := trie.len()
	if again := trie.getOrCreateChild(a, bID); again != ab {
		t.Errorf("getOrCreateChild returned %d for an existing child, want %d", again, ab)
	}
	if trie.childOf(a, 99) != nilRef {
		t.Error("childOf for an untracked symbol did not return nilRef")
	}
	if trie.len() != before {
		t.Errorf("lookups changed the node count from %d to %d", before, trie.len())
	}
}

func TestIncrementCount(t *testing.T) {
	trie := newContextTrie(0)
	const aID, bID = 2, 3

	trie.incrementCount(rootRef, aID, 1)
	trie.incrementCount(rootRef, aID, 1)
	trie.incrementCount(rootRef, bID, 3)

	root := trie.nodes[rootRef]
	if root.counts[aID] != 2 || root.counts[bID] != 3 {
		t.Errorf("counts = %v, want a:2 b:3", root.counts)
	}
	if root.total != 5 {
		t.Errorf("total = %d, want 5", root.total)
	}
	if trie.distinctCount(rootRef) != 2 {
		t.Errorf("distinctCount = %d, want 2", trie.distinctCount(rootRef))
	}

	// Counts are monotone: non-positive deltas change nothing.
	trie.incrementCount(rootRef, aID, 0)
	trie.incrementCount(rootRef, aID, -7)
	if got := trie.nodes[rootRef].counts[aID]; got != 2 {
		t.Errorf("count after non-positive deltas = %d, want 2", got)
	}
}

func TestIncrementCountSaturates(t *testing.T) {
	trie := newContextTrie(0)
	const aID, bID = 2, 3

	trie.incrementCount(rootRef, aID, math.MaxInt)
	trie.incrementCount(rootRef, aID, 1)
	if got := trie.nodes[rootRef].counts[aID]; got != math.MaxInt {
		t.Errorf("count = %d, want saturation at math.MaxInt", got)
	}

	// The cached total is saturated too, so a further symbol is dropped
	// rather than breaking the total == sum(counts) invariant.
	trie.incrementCount(rootRef, bID, 5)
	root := trie.nodes[rootRef]
	if root.counts[bID] != 0 {
		t.Errorf("count for a second symbol = %d, want 0 once the total is saturated", root.counts[bID])
	}
	if root.total != math.MaxInt {
		t.Errorf("total = %d, want math.MaxInt", root.total)
	}
}
