package ppm

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// defaultArenaCapacity presizes the trie arena for a typical interactive
// session.
const defaultArenaCapacity = 1 << 10

// modelOptions is used by NewModel to configure optional parameters.
type modelOptions struct {
	escape        EscapeMethod
	arenaCapacity int
}

// ModelOption is a function that configures a Model at construction time.
// It's used as a variadic argument to NewModel.
type ModelOption func(*modelOptions)

// WithEscapeMethod selects the escape method used by Predict.
// The default is EscapeMethodC.
func WithEscapeMethod(method EscapeMethod) ModelOption {
	return func(o *modelOptions) { o.escape = method }
}

// WithArenaCapacity presizes the trie's node arena to n nodes. It is a hint
// only; the arena still grows as needed.
func WithArenaCapacity(n int) ModelOption {
	return func(o *modelOptions) {
		if n > 0 {
			o.arenaCapacity = n
		}
	}
}

// Model is an adaptive character-level language model using Prediction by
// Partial Matching. It learns incrementally from observed symbols and
// predicts a distribution over the next symbol by blending statistics from
// the longest matching context down to the empty one.
//
// Every operation is a bounded walk of at most maxOrder+1 trie levels that
// never blocks and performs no I/O, cheap enough to run on every keystroke.
// Memory grows monotonically with the amount of distinct history observed;
// nothing is ever evicted.
//
// A Model is not safe for concurrent use. Independent streams should each
// use their own Model; sharing one across goroutines requires external
// synchronization.
type Model struct {
	vocab    *Vocabulary
	trie     *contextTrie
	maxOrder int
	escape   EscapeMethod
	pointer  nodeRef
	logger   *slog.Logger
}

// NewModel creates a Model over the given vocabulary with the given maximum
// context order. The vocabulary is injected rather than owned: its openness
// decides whether novel symbols grow the alphabet or collapse into OOV, and
// tests or hosts may share it across models as long as they serialize
// mutation.
func NewModel(vocab *Vocabulary, maxOrder int, opts ...ModelOption) (*Model, error) {
	if vocab == nil {
		return nil, errors.New("ppm: vocabulary must not be nil")
	}
	if maxOrder < 1 {
		return nil, fmt.Errorf("ppm: max order must be positive, got %d", maxOrder)
	}

	options := &modelOptions{
		escape:        EscapeMethodC,
		arenaCapacity: defaultArenaCapacity,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.escape > EscapeMethodC {
		return nil, fmt.Errorf("ppm: unknown escape method %d", uint8(options.escape))
	}

	return &Model{
		vocab:    vocab,
		trie:     newContextTrie(options.arenaCapacity),
		maxOrder: maxOrder,
		escape:   options.escape,
		pointer:  rootRef,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Observe records one symbol from the input stream. The symbol's count is
// incremented at every context along the current pointer's backoff chain,
// from the deepest tracked context down to the root, so that shorter contexts
// accumulate statistics independently. The pointer then advances to the
// context ending in the new symbol, capped at the maximum order.
//
// Under an open vocabulary a novel symbol is allocated a fresh ID first;
// under a frozen one it is recorded as OOV. Observe never fails.
func (m *Model) Observe(symbol string) {
	m.observeID(m.vocab.ID(symbol))
}

// observeID is the ID-level counterpart of Observe. Observing the root
// sentinel is a no-op.
func (m *Model) observeID(id int) {
	if id == RootSymbolID {
		return
	}

	for ref := m.pointer; ref != nilRef; ref = m.trie.nodes[ref].backoff {
		m.trie.incrementCount(ref, id, 1)
	}

	from := m.pointer
	if m.trie.nodes[from].order >= m.maxOrder {
		// Advance through the backoff so the pointer never exceeds the
		// maximum order; the node reached there is exactly the one an
		// over-deep child would have backed off to.
		from = m.trie.nodes[from].backoff
	}
	m.pointer = m.trie.getOrCreateChild(from, id)
}

// Advance moves the context pointer as if symbol had been observed, without
// recording anything: no counts change, no nodes are created and no
// vocabulary ID is allocated. The pointer lands on the longest already
// tracked context ending in the symbol, or on the root when there is none.
// This keeps the context in step with text the model must not train on, such
// as its own generated output.
func (m *Model) Advance(symbol string) {
	m.advanceID(m.vocab.lookup(symbol))
}

// advanceID descends to an existing child of the longest suffix context that
// has one for the given ID, shortening the context one backoff at a time.
func (m *Model) advanceID(id int) {
	if id == RootSymbolID {
		return
	}

	for ref := m.pointer; ref != nilRef; ref = m.trie.nodes[ref].backoff {
		if m.trie.nodes[ref].order < m.maxOrder {
			if child := m.trie.childOf(ref, id); child != nilRef {
				m.pointer = child
				return
			}
		}
	}
	m.pointer = rootRef
}

// Predict returns the model's distribution over the next symbol given the
// current context. It does not mutate the model: calling it repeatedly
// without an intervening Observe returns bit-identical distributions.
func (m *Model) Predict() Distribution {
	return m.estimate()
}

// Reset returns the context pointer to the root, forgetting the current
// context but none of the learned counts. Use it at natural boundaries such
// as the start of a new input field.
func (m *Model) Reset() {
	m.pointer = rootRef
}

// SetLogger sets the logger for the Model. By default, all logs are
// discarded. Providing a `log/slog.Logger` will enable logging for bulk
// operations such as evaluation.
func (m *Model) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}
