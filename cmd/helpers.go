package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"semdex/internal/config"
	"semdex/internal/embedder"
	"semdex/internal/store"
)

// newEmbedder builds the configured embedding client.
func newEmbedder(cfg *config.Config) (embedder.Embedder, error) {
	switch cfg.Provider {
	case "", "ollama":
		return embedder.NewOllamaEmbedder(cfg.Ollama.URL, cfg.Ollama.Model), nil
	case "openai":
		return embedder.NewOpenAIEmbedder(cfg.OpenAI.Model, cfg.OpenAI.APIKeyEnv)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// resolveDBPath returns the configured database path, falling back to
// <base>/.semdex/index.db.
func resolveDBPath(base string) string {
	if cfg.DBPath != "" {
		return cfg.DBPath
	}
	return filepath.Join(base, ".semdex", "index.db")
}

// openExistingStore opens the index for read-side commands and fails with
// a hint when it hasn't been built yet.
func openExistingStore() (*store.SQLiteStore, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	dbPath := resolveDBPath(wd)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("index not found at %s\nRun 'semdex index <path>' first to build the index", dbPath)
	}
	return store.Open(dbPath)
}
