package ppm

import (
	"errors"
	"fmt"
)

const (
	// RootSymbolID is the reserved ID for the root sentinel, which stands for
	// the empty context and never appears in observed input.
	RootSymbolID = 0
	// OOVSymbolID is the reserved ID for the out-of-vocabulary symbol.
	OOVSymbolID = 1
	// RootSymbolText is the reserved text for the root sentinel.
	RootSymbolText = "<root>"
	// OOVSymbolText is the reserved text for the out-of-vocabulary symbol.
	OOVSymbolText = "<oov>"
)

// ErrUnknownID is returned by Vocabulary.Symbol when the requested ID was
// never allocated.
var ErrUnknownID = errors.New("ppm: unknown symbol id")

// Vocabulary is a bidirectional mapping between symbols and dense integer IDs.
// A new vocabulary is open: unseen symbols are assigned the next unused ID on
// lookup. After Freeze, unseen symbols map to the reserved OOV ID instead.
//
// ID mutates vocabulary state when it allocates, so a Vocabulary shared across
// goroutines needs external synchronization.
type Vocabulary struct {
	ids     map[string]int
	symbols []string
	frozen  bool
}

// NewVocabulary creates an open vocabulary containing only the two reserved
// entries, the root sentinel and the OOV symbol.
func NewVocabulary() *Vocabulary {
	v := &Vocabulary{
		ids:     make(map[string]int),
		symbols: []string{RootSymbolText, OOVSymbolText},
	}
	v.ids[RootSymbolText] = RootSymbolID
	v.ids[OOVSymbolText] = OOVSymbolID
	return v
}

// ID returns the ID for symbol. While the vocabulary is open a novel symbol is
// assigned the next unused ID; once frozen, novel symbols map to OOVSymbolID.
func (v *Vocabulary) ID(symbol string) int {
	if id, ok := v.ids[symbol]; ok {
		return id
	}
	if v.frozen {
		return OOVSymbolID
	}
	id := len(v.symbols)
	v.symbols = append(v.symbols, symbol)
	v.ids[symbol] = id
	return id
}

// lookup returns the ID for symbol without ever allocating, mapping unseen
// symbols to OOVSymbolID regardless of openness.
func (v *Vocabulary) lookup(symbol string) int {
	if id, ok := v.ids[symbol]; ok {
		return id
	}
	return OOVSymbolID
}

// Symbol returns the text for a previously allocated ID. It returns an error
// wrapping ErrUnknownID if the ID was never allocated.
func (v *Vocabulary) Symbol(id int) (string, error) {
	if id < 0 || id >= len(v.symbols) {
		return "", fmt.Errorf("symbol id %d: %w", id, ErrUnknownID)
	}
	return v.symbols[id], nil
}

// Size returns the number of allocated IDs, including the reserved root
// sentinel and OOV entries.
func (v *Vocabulary) Size() int {
	return len(v.symbols)
}

// Freeze closes the vocabulary. Symbols not seen before the freeze map to
// OOVSymbolID from then on. Freezing cannot be undone.
func (v *Vocabulary) Freeze() {
	v.frozen = true
}

// Frozen reports whether the vocabulary has been closed.
func (v *Vocabulary) Frozen() bool {
	return v.frozen
}
