package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/CTAG07/Drosera/pkg/ppm"
)

// ServerConfig holds the configuration for the HTTP API server.
type ServerConfig struct {
	ApiAddr      string `json:"api_addr"`
	LogLevel     string `json:"log_level"`
	DataDir      string `json:"data_dir"`
	DatabasePath string `json:"database_path"`
}

// ModelConfig holds the construction parameters for the prediction model.
// Changing these requires a restart: the model is built once per server cycle.
type ModelConfig struct {
	MaxOrder           int    `json:"max_order"`
	EscapeMethod       string `json:"escape_method"`
	ArenaCapacity      int    `json:"arena_capacity"`
	CorpusPath         string `json:"corpus_path"`
	CorpusMaxBytes     int64  `json:"corpus_max_bytes"`
	FreezeAfterPriming bool   `json:"freeze_after_priming"`
}

// EvalConfig holds the defaults applied to evaluation runs when a request
// doesn't specify its own values.
type EvalConfig struct {
	MaxSymbols int  `json:"max_symbols"`
	Adapt      bool `json:"adapt"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Server *ServerConfig `json:"server_config"`
	Model  *ModelConfig  `json:"model_config"`
	Eval   *EvalConfig   `json:"eval_config"`
}

// DefaultServerConfig creates a server configuration with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ApiAddr:      ":7279",
		LogLevel:     "info",
		DataDir:      "./data",
		DatabasePath: "./data/drosera_eval.db?_journal_mode=WAL&_busy_timeout=5000",
	}
}

// DefaultModelConfig creates a model configuration with default values.
func DefaultModelConfig() *ModelConfig {
	return &ModelConfig{
		MaxOrder:           4,
		EscapeMethod:       "C",
		ArenaCapacity:      1 << 16,
		CorpusPath:         "",
		CorpusMaxBytes:     8 << 20,
		FreezeAfterPriming: false,
	}
}

// DefaultEvalConfig creates an evaluation configuration with default values.
func DefaultEvalConfig() *EvalConfig {
	return &EvalConfig{
		MaxSymbols: 1 << 20,
		Adapt:      true,
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	// Initialize with default configurations
	config := &Config{
		Server: DefaultServerConfig(),
		Model:  DefaultModelConfig(),
		Eval:   DefaultEvalConfig(),
	}

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			if err = saveConfig(path, config); err != nil {
				// Log a warning instead of failing, as the server can still run with defaults.
				fmt.Printf("warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		// For other errors (e.g., permission denied), return the error.
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal the JSON from the file into the config struct.
	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// An explicit null section in the file unmarshals to nil; re-default it
	// so a loaded config always carries all three sections.
	if config.Server == nil {
		config.Server = DefaultServerConfig()
	}
	if config.Model == nil {
		config.Model = DefaultModelConfig()
	}
	if config.Eval == nil {
		config.Eval = DefaultEvalConfig()
	}

	return config, nil
}

// saveConfig writes the configuration to disk atomically, so a crash mid-write
// can't leave a truncated config behind.
func saveConfig(path string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// parseLogLevel maps the config log level string onto a slog level. Unknown
// strings fall back to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// parseEscapeMethod maps the config escape method string onto a ppm escape
// method. An empty string selects the default, method C.
func parseEscapeMethod(method string) (ppm.EscapeMethod, error) {
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case "", "C":
		return ppm.EscapeMethodC, nil
	case "A":
		return ppm.EscapeMethodA, nil
	case "B":
		return ppm.EscapeMethodB, nil
	default:
		return 0, fmt.Errorf("unknown escape method %q", method)
	}
}
