package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const evalSchema = `
CREATE TABLE IF NOT EXISTS eval_runs (
    id             INTEGER  PRIMARY KEY,
    corpus         TEXT     NOT NULL,
    ran_at         DATETIME NOT NULL,
    symbols        INTEGER  NOT NULL,
    oov_symbols    INTEGER  NOT NULL,
    cross_entropy  REAL     NOT NULL,
    perplexity     REAL     NOT NULL,
    adapted        BOOLEAN  NOT NULL
);
`

// EvalRun is a single recorded evaluation run.
type EvalRun struct {
	ID           int       `json:"id"`
	Corpus       string    `json:"corpus"`
	RanAt        time.Time `json:"ran_at"`
	Symbols      int       `json:"symbols"`
	OOVSymbols   int       `json:"oov_symbols"`
	CrossEntropy float64   `json:"cross_entropy"` // bits per symbol
	Perplexity   float64   `json:"perplexity"`
	Adapted      bool      `json:"adapted"`
}

// EvalSummary provides a high-level overview of all recorded runs.
type EvalSummary struct {
	TotalRuns      int64   `json:"total_runs"`
	TotalSymbols   int64   `json:"total_symbols"`
	AvgPerplexity  float64 `json:"avg_perplexity"`
	BestPerplexity float64 `json:"best_perplexity"`
}

// EvalStore persists evaluation results. Model state itself is never stored,
// only the metrics of completed runs.
type EvalStore struct {
	db *sql.DB
}

func setupEvalSchema(db *sql.DB) error {
	_, err := db.Exec(evalSchema)
	return err
}

func NewEvalStore(db *sql.DB) *EvalStore {
	return &EvalStore{
		db: db,
	}
}

// InsertRun records a completed evaluation run and returns it with its
// assigned ID.
func (s *EvalStore) InsertRun(ctx context.Context, run EvalRun) (EvalRun, error) {
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO eval_runs (corpus, ran_at, symbols, oov_symbols, cross_entropy, perplexity, adapted)
        VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id
    `, run.Corpus, run.RanAt, run.Symbols, run.OOVSymbols, run.CrossEntropy, run.Perplexity, run.Adapted).Scan(&run.ID)
	if err != nil {
		return run, fmt.Errorf("failed to insert eval run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *EvalStore) ListRuns(ctx context.Context) ([]EvalRun, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, corpus, ran_at, symbols, oov_symbols, cross_entropy, perplexity, adapted
        FROM eval_runs ORDER BY id DESC LIMIT 100
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query eval runs: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var runs []EvalRun
	for rows.Next() {
		var run EvalRun
		if err = rows.Scan(&run.ID, &run.Corpus, &run.RanAt, &run.Symbols, &run.OOVSymbols, &run.CrossEntropy, &run.Perplexity, &run.Adapted); err != nil {
			return nil, fmt.Errorf("failed to scan eval run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Summary aggregates all recorded runs.
func (s *EvalStore) Summary(ctx context.Context) EvalSummary {
	var summary EvalSummary
	_ = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM eval_runs").Scan(&summary.TotalRuns)
	_ = s.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(symbols), 0) FROM eval_runs").Scan(&summary.TotalSymbols)
	_ = s.db.QueryRowContext(ctx, "SELECT COALESCE(AVG(perplexity), 0) FROM eval_runs").Scan(&summary.AvgPerplexity)
	_ = s.db.QueryRowContext(ctx, "SELECT COALESCE(MIN(perplexity), 0) FROM eval_runs").Scan(&summary.BestPerplexity)
	return summary
}
