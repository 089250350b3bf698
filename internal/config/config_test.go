package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: 127.0.0.1
  port: 8080
database:
  host: localhost
  port: 5432
  name: ironcoach
  user: coach
  password: secret
auth:
  api_key: test-key
session:
  default_rest_seconds: 120
`

// TestLoad parses a complete file and checks every section lands.
func TestLoad(t *testing.T) {
	path := writeConfig(t, validYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "ironcoach" {
		t.Errorf("Database.Name = %q, want %q", cfg.Database.Name, "ironcoach")
	}
	if cfg.Auth.APIKey != "test-key" {
		t.Errorf("Auth.APIKey = %q, want %q", cfg.Auth.APIKey, "test-key")
	}
	if cfg.Session.DefaultRestSeconds != 120 {
		t.Errorf("Session.DefaultRestSeconds = %d, want 120", cfg.Session.DefaultRestSeconds)
	}
}

// TestLoadEnvOverrides checks env vars win over file values.
func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, validYAML)

	t.Setenv("IRONCOACH_DB_HOST", "db.internal")
	t.Setenv("IRONCOACH_SERVER_PORT", "9090")
	t.Setenv("IRONCOACH_AUTH_API_KEY", "env-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "db.internal")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Auth.APIKey != "env-key" {
		t.Errorf("Auth.APIKey = %q, want %q", cfg.Auth.APIKey, "env-key")
	}
}

// TestLoadValidation rejects files missing required fields.
func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing api key", `
server:
  port: 8080
database:
  host: localhost
  port: 5432
  name: db
  user: u
`},
		{"missing db host", `
server:
  port: 8080
database:
  port: 5432
  name: db
  user: u
auth:
  api_key: k
`},
		{"negative rest", `
server:
  port: 8080
database:
  host: localhost
  port: 5432
  name: db
  user: u
auth:
  api_key: k
session:
  default_rest_seconds: -5
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.yaml)
			if _, err := Load(path); err == nil {
				t.Error("Load() error = nil, want validation error")
			}
		})
	}
}

// TestDSN formats the connection string with sslmode defaulting.
func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 5432, Name: "n", User: "u", Password: "p"}
	want := "postgres://u:p@h:5432/n?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}

	d.SSLMode = "require"
	want = "postgres://u:p@h:5432/n?sslmode=require"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

// TestLoadMissingFile returns an error rather than defaults.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() error = nil, want file error")
	}
}
