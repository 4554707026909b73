/*
Package ppm provides an adaptive character-level language model based on
Prediction by Partial Matching (PPM).

A Model learns incrementally from a stream of symbols, with no separate
training phase, and can produce a probability distribution over the next
symbol at any point. Each observation and each prediction is a bounded walk
over a few trie levels, cheap enough to run on every keystroke. The library
supports open and closed vocabularies, the classic A, B and C escape
methods, temperature and top-K sampling, and held-out perplexity
evaluation.
*/
package ppm
