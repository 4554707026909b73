package ppm

import (
	"errors"
	"testing"
)

func TestVocabularyReservedEntries(t *testing.T) {
	v := NewVocabulary()

	if v.Size() != 2 {
		t.Errorf("fresh vocabulary size = %d, want the 2 reserved entries", v.Size())
	}
	if id := v.ID(RootSymbolText); id != RootSymbolID {
		t.Errorf("ID(%q) = %d, want %d", RootSymbolText, id, RootSymbolID)
	}
	if id := v.ID(OOVSymbolText); id != OOVSymbolID {
		t.Errorf("ID(%q) = %d, want %d", OOVSymbolText, id, OOVSymbolID)
	}
	if s, err := v.Symbol(OOVSymbolID); err != nil || s != OOVSymbolText {
		t.Errorf("Symbol(%d) = %q, %v, want %q", OOVSymbolID, s, err, OOVSymbolText)
	}
}

func TestVocabularyGrowth(t *testing.T) {
	v := NewVocabulary()

	aID := v.ID("a")
	if aID != 2 {
		t.Errorf("first allocated ID = %d, want 2", aID)
	}
	if again := v.ID("a"); again != aID {
		t.Errorf("repeated ID(\"a\") = %d, want stable %d", again, aID)
	}
	bID := v.ID("b")
	if bID != 3 {
		t.Errorf("second allocated ID = %d, want 3", bID)
	}
	if v.Size() != 4 {
		t.Errorf("Size() = %d, want 4", v.Size())
	}

	s, err := v.Symbol(bID)
	if err != nil {
		t.Fatalf("Symbol(%d) failed: %v", bID, err)
	}
	if s != "b" {
		t.Errorf("Symbol(%d) = %q, want \"b\"", bID, s)
	}
}

func TestVocabularyFreeze(t *testing.T) {
	v := NewVocabulary()
	aID := v.ID("a")
	v.Freeze()

	if !v.Frozen() {
		t.Error("Frozen() = false after Freeze()")
	}
	if id := v.ID("z"); id != OOVSymbolID {
		t.Errorf("ID of unseen symbol on a frozen vocabulary = %d, want OOV %d", id, OOVSymbolID)
	}
	if id := v.ID("a"); id != aID {
		t.Errorf("known symbol changed ID after freeze: got %d, want %d", id, aID)
	}
	if v.Size() != 3 {
		t.Errorf("Size() = %d after a frozen miss, want unchanged 3", v.Size())
	}
}

func TestVocabularyUnknownID(t *testing.T) {
	v := NewVocabulary()
	v.ID("a")

	for _, id := range []int{-1, 3, 99} {
		if _, err := v.Symbol(id); !errors.Is(err, ErrUnknownID) {
			t.Errorf("Symbol(%d) error = %v, want ErrUnknownID", id, err)
		}
	}
}
