package ppm

import (
	"math"
	"math/rand/v2"
	"sort"
)

// Prediction pairs a symbol ID with the probability assigned to it by a
// Predict call.
type Prediction struct {
	ID   int
	Prob float64
}

// generateOptions is used by the generate functions to configure default
// options.
type generateOptions struct {
	temperature float64
	topK        int
	rng         *rand.Rand
}

// GenerateOption is a function that configures generation parameters. It's
// used as a variadic argument to Generate.
type GenerateOption func(*generateOptions)

// WithTemperature adjusts the randomness of symbol selection.
// A value of 1.0 is standard weighted random selection.
// Values > 1.0 increase randomness (making less probable symbols more likely).
// Values < 1.0 decrease randomness (making more probable symbols even more likely).
// A value of 0 or less results in deterministic selection (always choosing the most probable symbol).
func WithTemperature(t float64) GenerateOption {
	return func(o *generateOptions) { o.temperature = t }
}

// WithTopK restricts the selection pool to the top `k` most probable symbols
// at each step. A value of 0 disables Top-K sampling.
func WithTopK(k int) GenerateOption {
	return func(o *generateOptions) { o.topK = k }
}

// WithRand sets the random source used for sampling, making generation
// reproducible. By default each Generate call seeds a fresh PCG source from
// the global generator.
func WithRand(rng *rand.Rand) GenerateOption {
	return func(o *generateOptions) { o.rng = rng }
}

// Top returns the k most probable symbols in descending order of
// probability, breaking ties by ascending ID. Zero-probability symbols and
// the root sentinel are omitted, so fewer than k predictions may come back.
func (d Distribution) Top(k int) []Prediction {
	if k <= 0 {
		return nil
	}
	preds := d.descending()
	if k < len(preds) {
		preds = preds[:k]
	}
	return preds
}

// descending collects the nonzero entries of d, root sentinel excluded,
// sorted by descending probability with an ascending-ID tie break.
func (d Distribution) descending() []Prediction {
	preds := make([]Prediction, 0, len(d))
	for id, p := range d {
		if id == RootSymbolID || p <= 0 {
			continue
		}
		preds = append(preds, Prediction{ID: id, Prob: p})
	}
	sort.Slice(preds, func(i, j int) bool {
		if preds[i].Prob != preds[j].Prob {
			return preds[i].Prob > preds[j].Prob
		}
		return preds[i].ID < preds[j].ID
	})
	return preds
}

// Sample draws one symbol ID from the distribution using the given random
// source, which must not be nil. Temperature behaves as in WithTemperature.
func (d Distribution) Sample(rng *rand.Rand, temperature float64) int {
	return sampleFrom(d.descending(), rng, temperature)
}

// Generate samples n symbols from the model, advancing the context through
// the generated text without training on it. A generated OOV symbol renders
// as OOVSymbolText. Generation can be customized with GenerateOption
// functions.
func (m *Model) Generate(n int, opts ...GenerateOption) []string {
	if n <= 0 {
		return nil
	}
	options := &generateOptions{
		temperature: 1.0,
		topK:        0,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.rng == nil {
		options.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		choices := m.Predict().descending()
		if options.topK > 0 && options.topK < len(choices) {
			choices = choices[:options.topK]
		}
		id := sampleFrom(choices, options.rng, options.temperature)
		out = append(out, m.vocab.symbols[id])
		m.advanceID(id)
	}
	return out
}

// sampleFrom abstracts the symbol selection logic shared by Sample and
// Generate. choices must be sorted in descending probability order. The
// weighted draws can fall through on floating-point residue, in which case
// the least probable choice is kept.
func sampleFrom(choices []Prediction, rng *rand.Rand, temperature float64) int {
	if len(choices) == 0 {
		return OOVSymbolID
	}
	next := choices[len(choices)-1].ID

	// Deterministic selection: the slice is already sorted, so the most
	// probable symbol is in front.
	if temperature <= 0 {
		return choices[0].ID
	}

	if temperature == 1.0 { // Standard weighted random
		var totalProb float64
		for _, choice := range choices {
			totalProb += choice.Prob
		}
		randChoice := rng.Float64() * totalProb
		for _, choice := range choices {
			randChoice -= choice.Prob
			if randChoice < 0 {
				next = choice.ID
				break
			}
		}
		return next
	}

	// Temperature-based sampling
	logProbabilities := make([]float64, len(choices))
	maxLP := math.Inf(-1)
	for i, choice := range choices {
		lp := math.Log(choice.Prob) / temperature
		logProbabilities[i] = lp
		if lp > maxLP {
			maxLP = lp
		}
	}
	var totalWeight float64
	weights := make([]float64, len(choices))
	for i, lp := range logProbabilities {
		w := math.Exp(lp - maxLP)
		weights[i] = w
		totalWeight += w
	}
	randChoice := rng.Float64() * totalWeight
	for i, choice := range choices {
		randChoice -= weights[i]
		if randChoice < 0 {
			next = choice.ID
			break
		}
	}
	return next
}
