package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"

	"github.com/CTAG07/Drosera/pkg/ppm"
)

// primeModel streams the configured corpus file into the model one rune at a
// time, so the server starts each cycle with a warm context trie instead of a
// blank one. Invalid UTF-8 bytes are skipped rather than observed.
func primeModel(logger *slog.Logger, model *ppm.Model, vocab *ppm.Vocabulary, config *ModelConfig) error {
	if config.CorpusPath == "" {
		logger.Debug("No corpus configured, starting with an empty model.")
		return nil
	}

	start := time.Now()
	file, err := os.Open(config.CorpusPath)
	if err != nil {
		return fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	var source io.Reader = file
	if config.CorpusMaxBytes > 0 {
		source = io.LimitReader(file, config.CorpusMaxBytes)
	}

	symbols := 0
	reader := bufio.NewReader(source)
	for {
		r, size, err := reader.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("failed to read corpus file: %w", err)
		}
		if r == utf8.RuneError && size == 1 {
			continue
		}
		model.Observe(string(r))
		symbols++
	}

	if config.FreezeAfterPriming {
		vocab.Freeze()
	}

	logger.Info("Corpus priming completed",
		"path", config.CorpusPath,
		"symbols", symbols,
		"vocab_size", vocab.Size(),
		"frozen", vocab.Frozen(),
		"duration", time.Since(start).Round(time.Millisecond))

	return nil
}

// readCorpusSymbols reads a corpus file into a symbol slice, one symbol per
// rune, skipping invalid UTF-8 bytes. maxSymbols <= 0 means no cap.
func readCorpusSymbols(path string, maxSymbols int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	var symbols []string
	reader := bufio.NewReader(file)
	for {
		if maxSymbols > 0 && len(symbols) >= maxSymbols {
			break
		}
		r, size, err := reader.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read corpus file: %w", err)
		}
		if r == utf8.RuneError && size == 1 {
			continue
		}
		symbols = append(symbols, string(r))
	}

	return symbols, nil
}
