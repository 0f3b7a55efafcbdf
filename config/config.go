// Package config loads contacts configuration from YAML with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kjk/contacts/snapshot"
	"github.com/kjk/contacts/u"
)

// Config holds all contacts configuration.
type Config struct {
	// File is the backing file of the store
	File     string   `yaml:"file"`
	LogDir   string   `yaml:"log_dir"`
	Verbose  bool     `yaml:"verbose"`
	Snapshot Snapshot `yaml:"snapshot"`
}

// Snapshot holds snapshot settings.
type Snapshot struct {
	Dir         string                `yaml:"dir"`
	Compression string                `yaml:"compression"` // "none" | "zstd" | "brotli"
	Minio       *snapshot.MinioConfig `yaml:"minio"`
}

// DefaultConfig returns a Config with defaults.
func DefaultConfig() Config {
	return Config{
		File: "db/development.txt",
		Snapshot: Snapshot{
			Dir:         "db/snapshots",
			Compression: string(snapshot.Zstd),
		},
	}
}

// Load reads YAML config file at path.
// If the file does not exist, defaults are returned without error.
// Unknown fields are an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(u.ExpandTildeInPath(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// comment-only files decode to EOF
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.File == "" {
		return errors.New("config: file cannot be empty")
	}
	if _, err := snapshot.ParseCompression(c.Snapshot.Compression); err != nil {
		return fmt.Errorf("config: snapshot.compression: %w", err)
	}
	if c.Snapshot.Minio.IsSet() {
		if err := c.Snapshot.Minio.Validate(); err != nil {
			return fmt.Errorf("config: snapshot.minio: %w", err)
		}
	}
	return nil
}

// ApplyEnv applies environment variable overrides.
// Supported variables: CONTACTS_FILE, CONTACTS_LOG_DIR, CONTACTS_MINIO_ACCESS, CONTACTS_MINIO_SECRET.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("CONTACTS_FILE"); v != "" {
		c.File = v
	}
	if v := os.Getenv("CONTACTS_LOG_DIR"); v != "" {
		c.LogDir = v
	}
	// secrets are better kept out of the config file
	if c.Snapshot.Minio != nil {
		if v := os.Getenv("CONTACTS_MINIO_ACCESS"); v != "" {
			c.Snapshot.Minio.Access = v
		}
		if v := os.Getenv("CONTACTS_MINIO_SECRET"); v != "" {
			c.Snapshot.Minio.Secret = v
		}
	}
	c.File = u.ExpandTildeInPath(c.File)
	c.LogDir = u.ExpandTildeInPath(c.LogDir)
}
