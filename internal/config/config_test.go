package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func escribirConfig(t *testing.T, contenido string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contenido), 0644); err != nil {
		t.Fatalf("error escribiendo config de prueba: %v", err)
	}
	return path
}

func TestLoadConfigCompleta(t *testing.T) {
	path := escribirConfig(t, `
backend:
  base_url: "http://192.168.1.50:8899"
  timeout: "15s"
sync:
  poll_interval: "90s"
  reconnect_delay: "3s"
web:
  host: "localhost"
  port: 8080
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}

	if cfg.Backend.BaseURL != "http://192.168.1.50:8899" {
		t.Errorf("base_url incorrecta: %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.GetTimeout() != 15*time.Second {
		t.Errorf("timeout incorrecto: %s", cfg.Backend.GetTimeout())
	}
	if cfg.Sync.GetPollInterval() != 90*time.Second {
		t.Errorf("poll_interval incorrecto: %s", cfg.Sync.GetPollInterval())
	}
	if cfg.Sync.GetReconnectDelay() != 3*time.Second {
		t.Errorf("reconnect_delay incorrecto: %s", cfg.Sync.GetReconnectDelay())
	}
}

func TestDefaultsDeDuraciones(t *testing.T) {
	path := escribirConfig(t, `
backend:
  base_url: "http://localhost:8899"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}

	if cfg.Sync.GetPollInterval() != 60*time.Second {
		t.Errorf("poll_interval por defecto debería ser 60s: %s", cfg.Sync.GetPollInterval())
	}
	if cfg.Sync.GetReconnectDelay() != 5*time.Second {
		t.Errorf("reconnect_delay por defecto debería ser 5s: %s", cfg.Sync.GetReconnectDelay())
	}
	if cfg.Sync.GetKeepaliveEvery() != 30*time.Second {
		t.Errorf("keepalive_every por defecto debería ser 30s: %s", cfg.Sync.GetKeepaliveEvery())
	}
	if cfg.Backend.StalkerPath != "/api" || cfg.Backend.PulsePath != "/api/pulse" {
		t.Errorf("prefijos por defecto incorrectos: %s, %s", cfg.Backend.StalkerPath, cfg.Backend.PulsePath)
	}
}

func TestBaseURLObligatoria(t *testing.T) {
	path := escribirConfig(t, `
sync:
  poll_interval: "60s"
`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("sin base_url debe fallar la carga")
	}
}

func TestOverridesDeEntorno(t *testing.T) {
	path := escribirConfig(t, `
backend:
  base_url: "http://original:8899"
`)

	t.Setenv("PANEL_BACKEND_URL", "http://override:9000")
	t.Setenv("PANEL_POLL_INTERVAL", "120s")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}

	if cfg.Backend.BaseURL != "http://override:9000" {
		t.Errorf("PANEL_BACKEND_URL debe sobrescribir: %s", cfg.Backend.BaseURL)
	}
	if cfg.Sync.GetPollInterval() != 120*time.Second {
		t.Errorf("PANEL_POLL_INTERVAL debe sobrescribir: %s", cfg.Sync.GetPollInterval())
	}
}

func TestArchivoInexistente(t *testing.T) {
	if _, err := LoadConfig("/no/existe/config.yaml"); err == nil {
		t.Fatal("un archivo inexistente debe fallar")
	}
}
