package ppm

import (
	"context"
	"log/slog"
	"math"
)

// evalOptions is used by Evaluate to configure default options.
type evalOptions struct {
	adapt bool
}

// EvalOption is a function that configures evaluation parameters. It's used
// as a variadic argument to Evaluate.
type EvalOption func(*evalOptions)

// WithAdaptation controls whether the model keeps learning while being
// evaluated. When true (the default) every symbol is observed after it is
// scored, measuring the model as it adapts to the stream; when false the
// context only advances, measuring a frozen model.
func WithAdaptation(adapt bool) EvalOption {
	return func(o *evalOptions) { o.adapt = adapt }
}

// EvalResult summarizes how well a model predicted a held-out symbol stream.
type EvalResult struct {
	Symbols      int     // symbols scored
	OOVSymbols   int     // symbols scored through the OOV reserve
	CrossEntropy float64 // average negative log2 probability, in bits per symbol
	Perplexity   float64 // exp of the average negative natural log probability
}

// Evaluate scores a held-out symbol stream against the model one symbol at a
// time: predict, take the probability of the symbol that actually came next,
// then feed that symbol to the model. A symbol the model has never observed,
// whether unseen under a frozen vocabulary or novel under an open one, is
// scored with the OOV reserve; since that reserve is always strictly
// positive the result stays finite on any input.
//
// The context is checked periodically. On cancellation an error is returned
// and the model keeps whatever it learned up to that point.
func Evaluate(ctx context.Context, m *Model, symbols []string, opts ...EvalOption) (*EvalResult, error) {
	options := &evalOptions{adapt: true}
	for _, opt := range opts {
		opt(options)
	}

	if len(symbols) == 0 {
		return &EvalResult{}, nil
	}

	var sumLog float64
	var oovCount int
	for i, symbol := range symbols {
		if i&1023 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		dist := m.Predict()
		id := m.vocab.lookup(symbol)
		p := dist[id]
		oov := id == OOVSymbolID
		if p == 0 {
			// A known symbol the model never observed is scored through
			// the OOV reserve, the mass held back for exactly that event.
			p = dist[OOVSymbolID]
			oov = true
		}
		if oov {
			oovCount++
		}
		sumLog += math.Log(p)

		if options.adapt {
			m.Observe(symbol)
		} else {
			m.Advance(symbol)
		}
	}

	meanLog := sumLog / float64(len(symbols))
	result := &EvalResult{
		Symbols:      len(symbols),
		OOVSymbols:   oovCount,
		CrossEntropy: -meanLog / math.Ln2,
		Perplexity:   math.Exp(-meanLog),
	}

	m.logger.InfoContext(ctx, "Evaluation completed",
		slog.Int("symbols", result.Symbols),
		slog.Int("oov_symbols", result.OOVSymbols),
		slog.Float64("cross_entropy_bits", result.CrossEntropy),
		slog.Float64("perplexity", result.Perplexity),
	)

	return result, nil
}
