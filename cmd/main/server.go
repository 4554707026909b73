package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/CTAG07/Drosera/pkg/ppm"
)

// Server wires the prediction model, the evaluation store, and the API
// handlers onto a single mux. The model is not safe for concurrent use, so
// every handler that touches it goes through one shared mutex.
type Server struct {
	config    *Config
	db        *sql.DB
	logger    *slog.Logger
	vocab     *ppm.Vocabulary
	model     *ppm.Model
	store     *EvalStore
	modelAPI  *ModelAPI
	evalAPI   *EvalAPI
	serverAPI *ServerAPI
	apiMux    *http.ServeMux
}

func NewServer(config *Config, logger *slog.Logger, db *sql.DB, actionChan chan string) (*Server, error) {

	// model initialization
	vocab := ppm.NewVocabulary()
	escape, err := parseEscapeMethod(config.Model.EscapeMethod)
	if err != nil {
		return nil, fmt.Errorf("error creating ppm model: %v", err)
	}
	model, err := ppm.NewModel(vocab, config.Model.MaxOrder,
		ppm.WithEscapeMethod(escape),
		ppm.WithArenaCapacity(config.Model.ArenaCapacity))
	if err != nil {
		return nil, fmt.Errorf("error creating ppm model: %v", err)
	}
	model.SetLogger(logger)

	if err = primeModel(logger, model, vocab, config.Model); err != nil {
		return nil, fmt.Errorf("failed to prime model from corpus: %w", err)
	}

	store := NewEvalStore(db)

	// api initialization
	mu := &sync.Mutex{}
	modelAPI := NewModelAPI(model, vocab, mu, logger)
	evalAPI := NewEvalAPI(model, store, config.Eval, mu, logger)
	serverAPI := NewServerAPI(config, configPath, actionChan, mu, logger)

	// create object, register routes to the mux, and return it
	server := &Server{
		config:    config,
		db:        db,
		logger:    logger,
		vocab:     vocab,
		model:     model,
		store:     store,
		modelAPI:  modelAPI,
		evalAPI:   evalAPI,
		serverAPI: serverAPI,
		apiMux:    http.NewServeMux(),
	}

	server.modelAPI.RegisterRoutes(server.apiMux)
	server.evalAPI.RegisterRoutes(server.apiMux)
	server.serverAPI.RegisterRoutes(server.apiMux)

	// The health check gets its own route so something like docker can probe it.
	server.apiMux.HandleFunc("/api/health", server.serverAPI.handleHealthCheck)

	return server, nil
}
