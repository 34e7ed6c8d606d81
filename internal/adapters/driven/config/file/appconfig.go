// Package file loads the TOML application configuration: data directory,
// embedding provider credentials, and backend endpoints. Per-user retrieval
// tunables live in the record store, not here.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// OpenAIConfig configures the embedding provider.
type OpenAIConfig struct {
	// APIKey enables the OpenAI provider. Empty means embeddings are
	// stubbed and search runs lexical-only.
	APIKey string `toml:"api_key"`

	// BaseURL overrides the API endpoint (Azure or compatible APIs).
	BaseURL string `toml:"base_url"`

	// Model selects the embedding model.
	Model string `toml:"model"`
}

// QdrantConfig configures the vector index backend.
type QdrantConfig struct {
	// URL is the Qdrant REST endpoint. Empty disables the vector index.
	URL string `toml:"url"`

	APIKey string `toml:"api_key"`
}

// RedisConfig configures the result cache backend.
type RedisConfig struct {
	// Addr is the host:port of the Redis instance. Empty selects the
	// in-process cache.
	Addr string `toml:"addr"`

	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// WatchConfig configures the watch-directory auto-ingest loop.
type WatchConfig struct {
	// Extensions filters which files trigger ingestion (with dot).
	Extensions []string `toml:"extensions"`
}

// AppConfig is the application-level configuration.
type AppConfig struct {
	// DataDir holds the SQLite database. Empty defaults to ~/.ragpipe/data.
	DataDir string `toml:"data_dir"`

	// UserID is the stable local identity. Generated and persisted on
	// first run when absent.
	UserID string `toml:"user_id"`

	OpenAI OpenAIConfig `toml:"openai"`
	Qdrant QdrantConfig `toml:"qdrant"`
	Redis  RedisConfig  `toml:"redis"`
	Watch  WatchConfig  `toml:"watch"`
}

// DefaultPath returns the standard config file location,
// ~/.ragpipe/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".ragpipe", "config.toml"), nil
}

// Load reads the configuration at path. An empty path uses DefaultPath; a
// missing file yields the zero config with environment overlays applied.
func Load(path string) (*AppConfig, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := &AppConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// Save writes the configuration to path with restricted permissions.
func Save(path string, cfg *AppConfig) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// applyEnv overlays credentials from the environment so keys never have to
// live on disk.
func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("QDRANT_URL"); v != "" {
		cfg.Qdrant.URL = v
	}
	if v := os.Getenv("QDRANT_API_KEY"); v != "" {
		cfg.Qdrant.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
}
