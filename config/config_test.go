package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kjk/contacts/snapshot"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contacts.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.File != "db/development.txt" {
		t.Errorf("default file = %q, want %q", cfg.File, "db/development.txt")
	}
	if cfg.Snapshot.Compression != "zstd" {
		t.Errorf("default compression = %q, want %q", cfg.Snapshot.Compression, "zstd")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid, got %v", err)
	}
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeConfig(t, `
file: /tmp/contacts.txt
log_dir: /tmp/logs
verbose: true
snapshot:
  dir: /tmp/snapshots
  compression: brotli
  minio:
    endpoint: s3.example.com
    bucket: backups
    access: a
    secret: s
    prefix: contacts/
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.File != "/tmp/contacts.txt" {
		t.Errorf("file = %q, want %q", cfg.File, "/tmp/contacts.txt")
	}
	if !cfg.Verbose {
		t.Error("verbose = false, want true")
	}
	if cfg.Snapshot.Compression != "brotli" {
		t.Errorf("compression = %q, want %q", cfg.Snapshot.Compression, "brotli")
	}
	if cfg.Snapshot.Minio == nil || cfg.Snapshot.Minio.Bucket != "backups" {
		t.Fatalf("minio = %+v, want bucket %q", cfg.Snapshot.Minio, "backups")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/contacts.yaml")
	if err != nil {
		t.Fatalf("Load() should return defaults for missing file, got error: %v", err)
	}
	if cfg.File != DefaultConfig().File {
		t.Errorf("Load(missing) file = %q, want default", cfg.File)
	}
}

func TestLoad_CommentOnly(t *testing.T) {
	cfg, err := Load(writeConfig(t, "# nothing here\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.File != DefaultConfig().File {
		t.Errorf("file = %q, want default", cfg.File)
	}
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := Load(writeConfig(t, "filepath: x.txt\n"))
	if err == nil {
		t.Fatal("Load() with unknown field should return error")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "{{invalid yaml"))
	if err == nil {
		t.Fatal("Load(invalid YAML) should return error")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.File = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with empty file should fail")
	}

	cfg = DefaultConfig()
	cfg.Snapshot.Compression = "lzma"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with unknown compression should fail")
	}

	cfg = DefaultConfig()
	cfg.Snapshot.Minio = &snapshot.MinioConfig{Endpoint: "s3.example.com"}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with incomplete minio config should fail")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CONTACTS_FILE", "/data/contacts.txt")
	t.Setenv("CONTACTS_LOG_DIR", "/data/logs")
	t.Setenv("CONTACTS_MINIO_SECRET", "from-env")

	cfg := DefaultConfig()
	cfg.Snapshot.Minio = &snapshot.MinioConfig{Endpoint: "s3.example.com", Secret: "from-file"}
	cfg.ApplyEnv()
	if cfg.File != "/data/contacts.txt" {
		t.Errorf("file = %q, want %q", cfg.File, "/data/contacts.txt")
	}
	if cfg.LogDir != "/data/logs" {
		t.Errorf("log dir = %q, want %q", cfg.LogDir, "/data/logs")
	}
	if cfg.Snapshot.Minio.Secret != "from-env" {
		t.Errorf("minio secret = %q, want %q", cfg.Snapshot.Minio.Secret, "from-env")
	}
}
