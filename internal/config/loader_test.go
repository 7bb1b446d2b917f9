package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("NRFDASH_API_URL", "")
	t.Setenv("NRFDASH_LISTEN", "")
	t.Setenv("NRFDASH_PASSWORD", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.URL != DefaultAPIURL || cfg.API.Username != "USER" {
		t.Errorf("api = %+v", cfg.API)
	}
	if cfg.Polling.Devices != 3*time.Second || cfg.Polling.Logs != time.Second {
		t.Errorf("polling = %+v", cfg.Polling)
	}
	if cfg.Web.Listen != DefaultListen {
		t.Errorf("listen = %q", cfg.Web.Listen)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nrfdash.yaml")
	data := []byte(`
api:
  url: http://hub.local:5000
  timeout: 4s
polling:
  devices: 5s
  logs: 2s
web:
  listen: 127.0.0.1:9000
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NRFDASH_API_URL", "")
	t.Setenv("NRFDASH_LISTEN", ":9999")
	t.Setenv("NRFDASH_PASSWORD", "secret")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.URL != "http://hub.local:5000" || cfg.API.Timeout != 4*time.Second {
		t.Errorf("api = %+v", cfg.API)
	}
	if cfg.Polling.Devices != 5*time.Second || cfg.Polling.Logs != 2*time.Second {
		t.Errorf("polling = %+v", cfg.Polling)
	}
	if cfg.Web.Listen != ":9999" {
		t.Errorf("listen = %q, env should win", cfg.Web.Listen)
	}
	if cfg.API.Password != "secret" {
		t.Error("password not taken from env")
	}
}

func TestLoadConfigInvalidURL(t *testing.T) {
	t.Setenv("NRFDASH_API_URL", "ftp://hub")
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected validation error")
	}
}
