package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/CTAG07/Drosera/pkg/ppm"
)

// EvalAPI holds the dependencies for the evaluation API handlers. Evaluation
// shares the model mutex with the model API: a run blocks interactive use
// until it finishes or its request context is cancelled.
type EvalAPI struct {
	model  *ppm.Model
	store  *EvalStore
	config *EvalConfig
	mu     *sync.Mutex
	logger *slog.Logger
}

// NewEvalAPI creates a new instance of the EvalAPI.
func NewEvalAPI(model *ppm.Model, store *EvalStore, config *EvalConfig, mu *sync.Mutex, logger *slog.Logger) *EvalAPI {
	return &EvalAPI{
		model:  model,
		store:  store,
		config: config,
		mu:     mu,
		logger: logger,
	}
}

// RegisterRoutes sets up the routing for all /api/eval endpoints.
func (e *EvalAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/eval/run", e.handleRun)
	mux.HandleFunc("/api/eval/runs", e.handleRuns)
	mux.HandleFunc("/api/eval/summary", e.handleSummary)
}

type EvalRunRequest struct {
	Path       string `json:"path"`
	Adapt      *bool  `json:"adapt"`
	MaxSymbols int    `json:"max_symbols"`
}

// handleRun evaluates the model against a held-out corpus file and records
// the result. Adaptation and the symbol cap fall back to the configured
// defaults when the request omits them.
func (e *EvalAPI) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req EvalRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}
	if req.Path == "" {
		respondWithError(w, http.StatusBadRequest, "Corpus path is required")
		return
	}

	maxSymbols := req.MaxSymbols
	if maxSymbols <= 0 {
		maxSymbols = e.config.MaxSymbols
	}
	adapt := e.config.Adapt
	if req.Adapt != nil {
		adapt = *req.Adapt
	}

	symbols, err := readCorpusSymbols(req.Path, maxSymbols)
	if err != nil {
		e.logger.Error("Failed to read evaluation corpus", "path", req.Path, "error", err)
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read corpus: %v", err))
		return
	}
	if len(symbols) == 0 {
		respondWithError(w, http.StatusBadRequest, "Corpus contains no symbols")
		return
	}

	e.mu.Lock()
	result, err := ppm.Evaluate(r.Context(), e.model, symbols, ppm.WithAdaptation(adapt))
	e.mu.Unlock()
	if err != nil {
		e.logger.Error("Evaluation failed", "path", req.Path, "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Evaluation failed: %v", err))
		return
	}

	run := EvalRun{
		Corpus:       req.Path,
		RanAt:        time.Now(),
		Symbols:      result.Symbols,
		OOVSymbols:   result.OOVSymbols,
		CrossEntropy: result.CrossEntropy,
		Perplexity:   result.Perplexity,
		Adapted:      adapt,
	}
	run, err = e.store.InsertRun(r.Context(), run)
	if err != nil {
		e.logger.Error("Failed to record eval run", "path", req.Path, "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to record run: %v", err))
		return
	}

	respondWithJSON(w, http.StatusCreated, run)
}

// handleRuns lists the most recent evaluation runs.
func (e *EvalAPI) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	runs, err := e.store.ListRuns(r.Context())
	if err != nil {
		e.logger.Error("Failed to list eval runs", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Database error: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, runs)
}

// handleSummary returns aggregate metrics over all recorded runs.
func (e *EvalAPI) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	respondWithJSON(w, http.StatusOK, e.store.Summary(r.Context()))
}
