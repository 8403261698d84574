package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "env: development\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 5000 {
		t.Fatalf("port = %d", cfg.Port)
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Fatalf("token ttl = %v", cfg.TokenTTL)
	}
	if cfg.Summarizer.BaseURL == "" || cfg.Summarizer.Timeout <= 0 {
		t.Fatalf("summarizer defaults missing: %+v", cfg.Summarizer)
	}
	if !cfg.IsDev() {
		t.Fatal("expected dev mode")
	}
}

func TestLoadYAMLValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
env: production
port: 8080
jwt_secret: topsecret
database:
  dsn: "user:pw@tcp(db:3306)/gistify?parseTime=True"
summarizer:
  base_url: http://rag:5001
  timeout: 30s
s3:
  bucket: gistify-docs
  region: us-east-1
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8080 || cfg.JWTSecret != "topsecret" {
		t.Fatalf("got %+v", cfg)
	}
	if cfg.IsDev() {
		t.Fatal("expected production mode")
	}
	if cfg.DSN() != "user:pw@tcp(db:3306)/gistify?parseTime=True" {
		t.Fatalf("dsn = %q", cfg.DSN())
	}
	if cfg.Summarizer.BaseURL != "http://rag:5001" || cfg.Summarizer.Timeout != 30*time.Second {
		t.Fatalf("summarizer = %+v", cfg.Summarizer)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GISTIFY_JWT_SECRET", "env-secret")
	t.Setenv("GISTIFY_SUMMARIZER_URL", "http://other:9999")

	cfg, err := Load(writeConfig(t, "jwt_secret: file-secret\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Fatalf("jwt secret = %q", cfg.JWTSecret)
	}
	if cfg.Summarizer.BaseURL != "http://other:9999" {
		t.Fatalf("summarizer url = %q", cfg.Summarizer.BaseURL)
	}
}

func TestAssembledDSN(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
database:
  user: gist
  password: pw
  host: mysql
  name: gistify
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	dsn := cfg.DSN()
	if !strings.Contains(dsn, "gist:pw@tcp(mysql:3306)/gistify") {
		t.Fatalf("dsn = %q", dsn)
	}
	if !strings.Contains(dsn, "parseTime=True") {
		t.Fatalf("dsn = %q", dsn)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}
