package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OllamaConfig holds connection details for a local Ollama instance.
type OllamaConfig struct {
	URL   string `yaml:"url"`
	Model string `yaml:"model"`
}

// OpenAIConfig configures the OpenAI embedding provider.
type OpenAIConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// Config is the root application configuration.
type Config struct {
	DBPath    string       `yaml:"db_path"`
	Provider  string       `yaml:"provider"` // "ollama" or "openai"
	Ollama    OllamaConfig `yaml:"ollama"`
	OpenAI    OpenAIConfig `yaml:"openai"`
	ChunkSize int          `yaml:"chunk_size"`
	BatchSize int          `yaml:"batch_size"`
}

// Load reads a config from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./semdex.yaml first, then ~/.config/semdex/config.yaml.
// If neither exists it returns the defaults.
func LoadDefault() (*Config, string, error) {
	cwdPath := "semdex.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	home, err := os.UserHomeDir()
	if err == nil {
		userPath := filepath.Join(home, ".config", "semdex", "config.yaml")
		if _, err := os.Stat(userPath); err == nil {
			cfg, err := Load(userPath)
			return cfg, userPath, err
		}
	}
	return Default(), "", nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Provider == "" {
		cfg.Provider = "ollama"
	}
	if cfg.Ollama.URL == "" {
		cfg.Ollama.URL = "http://localhost:11434"
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = "nomic-embed-text"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "text-embedding-3-small"
	}
	if cfg.OpenAI.APIKeyEnv == "" {
		cfg.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 20
	}
}
