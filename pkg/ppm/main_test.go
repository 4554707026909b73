package ppm

import (
	"go/build"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// probTolerance is the absolute tolerance used when comparing probabilities.
const probTolerance = 1e-9

// newTestModel creates an open-vocabulary model for testing.
func newTestModel(t *testing.T, maxOrder int, opts ...ModelOption) *Model {
	m, err := NewModel(NewVocabulary(), maxOrder, opts...)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return m
}

// closedVocab returns a frozen vocabulary holding the given symbols plus the
// reserved entries.
func closedVocab(symbols ...string) *Vocabulary {
	v := NewVocabulary()
	for _, s := range symbols {
		v.ID(s)
	}
	v.Freeze()
	return v
}

// newClosedModel creates a model over a frozen vocabulary of exactly the
// given symbols.
func newClosedModel(t *testing.T, maxOrder int, symbols ...string) *Model {
	m, err := NewModel(closedVocab(symbols...), maxOrder)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return m
}

// observeAll feeds the symbols to the model in order.
func observeAll(m *Model, symbols ...string) {
	for _, s := range symbols {
		m.Observe(s)
	}
}

// splitSymbols breaks a string into one symbol per rune.
func splitSymbols(text string) []string {
	symbols := make([]string, 0, len(text))
	for _, r := range text {
		symbols = append(symbols, string(r))
	}
	return symbols
}

// almostEqual reports whether two probabilities agree within probTolerance.
func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= probTolerance
}

// distSum returns the total probability mass of a distribution.
func distSum(d Distribution) float64 {
	var sum float64
	for _, p := range d {
		sum += p
	}
	return sum
}

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a character stream
// for benchmarking.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		goRoot := build.Default.GOROOT
		var sb strings.Builder
		for _, file := range []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
		} {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = strings.Repeat("the quick brown fox jumps over the lazy dog. ", 64)
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
