package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/CTAG07/Drosera/pkg/ppm"
)

// ModelAPI holds the dependencies for the prediction model API handlers.
// The model is not safe for concurrent use, so every handler serializes its
// access through the shared mutex.
type ModelAPI struct {
	model  *ppm.Model
	vocab  *ppm.Vocabulary
	mu     *sync.Mutex
	logger *slog.Logger
}

// NewModelAPI creates a new instance of the ModelAPI.
func NewModelAPI(model *ppm.Model, vocab *ppm.Vocabulary, mu *sync.Mutex, logger *slog.Logger) *ModelAPI {
	return &ModelAPI{
		model:  model,
		vocab:  vocab,
		mu:     mu,
		logger: logger,
	}
}

// RegisterRoutes sets up the routing for all /api/model endpoints.
func (m *ModelAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/model/observe", m.handleObserve)
	mux.HandleFunc("/api/model/predict", m.handlePredict)
	mux.HandleFunc("/api/model/generate", m.handleGenerate)
	mux.HandleFunc("/api/model/reset", m.handleReset)
	mux.HandleFunc("/api/model/stats", m.handleStats)
}

type ObserveRequest struct {
	Text string `json:"text"`
}

type ObserveResponse struct {
	Observed  int `json:"observed"`
	VocabSize int `json:"vocab_size"`
}

// PredictionEntry is one candidate symbol in a prediction response.
type PredictionEntry struct {
	Symbol      string  `json:"symbol"`
	ID          int     `json:"id"`
	Probability float64 `json:"probability"`
}

type GenerateResponse struct {
	Symbols []string `json:"symbols"`
	Text    string   `json:"text"`
}

// handleObserve feeds a text fragment into the model, one symbol per rune.
// Counts and the context both move, so subsequent predictions condition on the
// end of this fragment.
func (m *ModelAPI) handleObserve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req ObserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}
	if req.Text == "" {
		respondWithError(w, http.StatusBadRequest, "Text must not be empty")
		return
	}

	m.mu.Lock()
	observed := 0
	for _, sym := range req.Text {
		m.model.Observe(string(sym))
		observed++
	}
	size := m.vocab.Size()
	m.mu.Unlock()

	m.logger.Debug("Observed text fragment", "symbols", observed, "vocab_size", size)
	respondWithJSON(w, http.StatusOK, ObserveResponse{Observed: observed, VocabSize: size})
}

// handlePredict returns the top k candidates for the next symbol under the
// current context.
func (m *ModelAPI) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	k := 10
	if kStr := r.URL.Query().Get("k"); kStr != "" {
		parsed, err := strconv.Atoi(kStr)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "Parameter k must be a positive integer")
			return
		}
		k = parsed
	}

	m.mu.Lock()
	top := m.model.Predict().Top(k)
	entries := make([]PredictionEntry, 0, len(top))
	for _, p := range top {
		symbol, _ := m.vocab.Symbol(p.ID)
		entries = append(entries, PredictionEntry{Symbol: symbol, ID: p.ID, Probability: p.Prob})
	}
	m.mu.Unlock()

	respondWithJSON(w, http.StatusOK, entries)
}

// handleGenerate samples a continuation from the current context. Generation
// never trains the model, but it does move the context: the pointer ends where
// the generated text ends. Reset the model to return to the empty context.
func (m *ModelAPI) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	n := 64
	if nStr := r.URL.Query().Get("n"); nStr != "" {
		parsed, err := strconv.Atoi(nStr)
		if err != nil || parsed <= 0 || parsed > 65536 {
			respondWithError(w, http.StatusBadRequest, "Parameter n must be a positive integer up to 65536")
			return
		}
		n = parsed
	}

	var opts []ppm.GenerateOption
	if tempStr := r.URL.Query().Get("temperature"); tempStr != "" {
		temp, err := strconv.ParseFloat(tempStr, 64)
		if err != nil || temp < 0 {
			respondWithError(w, http.StatusBadRequest, "Parameter temperature must be a non-negative number")
			return
		}
		opts = append(opts, ppm.WithTemperature(temp))
	}
	if topKStr := r.URL.Query().Get("top_k"); topKStr != "" {
		topK, err := strconv.Atoi(topKStr)
		if err != nil || topK < 0 {
			respondWithError(w, http.StatusBadRequest, "Parameter top_k must be a non-negative integer")
			return
		}
		opts = append(opts, ppm.WithTopK(topK))
	}

	m.mu.Lock()
	symbols := m.model.Generate(n, opts...)
	m.mu.Unlock()

	respondWithJSON(w, http.StatusOK, GenerateResponse{Symbols: symbols, Text: strings.Join(symbols, "")})
}

// handleReset returns the context pointer to the root. Learned counts are kept.
func (m *ModelAPI) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	m.mu.Lock()
	m.model.Reset()
	m.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// handleStats returns a snapshot of model statistics.
func (m *ModelAPI) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	m.mu.Lock()
	stats := m.model.Stats()
	m.mu.Unlock()

	respondWithJSON(w, http.StatusOK, stats)
}
