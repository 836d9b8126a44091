package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DemoProject is the placeholder project id written by `config init`.
// A store configured with it (or with no project at all) short-circuits
// into the in-memory demo backend instead of dialing Firestore.
const DemoProject = "demo-project"

// Config represents the main configuration for lsync.
type Config struct {
	BaseDir string        `toml:"base_dir"`
	LogDir  string        `toml:"log_dir"`
	Store   StoreConfig   `toml:"store"`
	Catalog CatalogConfig `toml:"catalog"`
	Server  ServerConfig  `toml:"server"`
}

// StoreConfig selects and parameterizes the document-store backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StoreConfig struct {
	Type string `toml:"type"` // "firestore", "sqlite", or "memory"

	// Firestore-specific fields (only used when Type == "firestore").
	// ProjectID may be overridden by LSYNC_FIRESTORE_PROJECT.
	ProjectID string `toml:"project_id,omitempty"`

	// SQLite-specific fields (only used when Type == "sqlite")
	DataDir string `toml:"data_dir,omitempty"`
}

// CatalogConfig points at optional extra lesson files merged into the
// built-in catalog.
type CatalogConfig struct {
	LessonsDir string `toml:"lessons_dir,omitempty"`
}

// ServerConfig holds settings for the HTTP read API.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins,omitempty"`
}

// NewConfig creates a Config with defaults rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Store: StoreConfig{
			Type:      "firestore",
			ProjectID: DemoProject,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// ResolveProjectID returns the effective Firestore project id:
// LSYNC_FIRESTORE_PROJECT wins over the config file. An empty result or
// the demo placeholder means demo mode.
func (c *Config) ResolveProjectID() string {
	if p := os.Getenv("LSYNC_FIRESTORE_PROJECT"); p != "" {
		return p
	}
	return c.Store.ProjectID
}

// DemoMode reports whether the store should short-circuit to the
// in-memory backend because no real Firestore project is configured.
func (c *Config) DemoMode() bool {
	if c.Store.Type != "firestore" {
		return false
	}
	p := c.ResolveProjectID()
	return p == "" || p == DemoProject
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
