package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Backend.Mode != BackendCanned {
		t.Errorf("expected canned backend, got %s", cfg.Backend.Mode)
	}
	if cfg.Canned.FaceDelay != 2*time.Second {
		t.Errorf("expected 2s face delay, got %v", cfg.Canned.FaceDelay)
	}
	if cfg.Canned.IDDelay != time.Second {
		t.Errorf("expected 1s id delay, got %v", cfg.Canned.IDDelay)
	}
	if cfg.Canned.TimeDelay != 1500*time.Millisecond {
		t.Errorf("expected 1.5s time delay, got %v", cfg.Canned.TimeDelay)
	}
	if cfg.Search.HistorySize != 10 {
		t.Errorf("expected history size 10, got %d", cfg.Search.HistorySize)
	}
	if cfg.Notify.DismissAfter != 5*time.Second {
		t.Errorf("expected 5s dismiss interval, got %v", cfg.Notify.DismissAfter)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("expected info/json logging, got %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
backend:
  mode: remote
  base_url: http://tracker:8080/v1
  timeout: 3s
canned:
  face_delay: 10ms
search:
  history_size: 25
logging:
  level: debug
  format: text
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Backend.Mode != BackendRemote || cfg.Backend.BaseURL != "http://tracker:8080/v1" {
		t.Errorf("unexpected backend %+v", cfg.Backend)
	}
	if cfg.Backend.Timeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", cfg.Backend.Timeout)
	}
	if cfg.Canned.FaceDelay != 10*time.Millisecond {
		t.Errorf("expected 10ms face delay, got %v", cfg.Canned.FaceDelay)
	}
	if cfg.Search.HistorySize != 25 {
		t.Errorf("expected history size 25, got %d", cfg.Search.HistorySize)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected text format, got %s", cfg.Logging.Format)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CT_SERVER_PORT", "9191")
	t.Setenv("CT_NATS_URL", "nats://localhost:4222")
	t.Setenv("CT_CORS_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("CT_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "server:\n  port: 9000\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("expected env port 9191, got %d", cfg.Server.Port)
	}
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("expected nats url from env, got %s", cfg.NATS.URL)
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("expected 2 cors origins, got %v", cfg.Server.CORSOrigins)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected warn level, got %s", cfg.Logging.Level)
	}
}

func TestLoad_InvalidInt(t *testing.T) {
	t.Setenv("CT_SERVER_PORT", "notanumber")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port on invalid value, got %d", cfg.Server.Port)
	}
}

func TestLoad_RemoteRequiresBaseURL(t *testing.T) {
	t.Setenv("CT_BACKEND_MODE", "remote")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for remote mode without base url")
	}
}

func TestLoad_UnknownMode(t *testing.T) {
	if _, err := Load(writeConfig(t, "backend:\n  mode: magic\n")); err == nil {
		t.Fatal("expected error for unknown backend mode")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, Name: "track", User: "u", Password: "p"}
	want := "postgres://u:p@db:5432/track?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
