package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa de un dashboard
type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	Sync     SyncConfig     `yaml:"sync"`
	Web      WebConfig      `yaml:"web"`
	Settings SettingsConfig `yaml:"settings"`
}

// BackendConfig apunta al servidor que emite el estado
type BackendConfig struct {
	BaseURL     string `yaml:"base_url"`     // ej: "http://192.168.1.50:8899"
	StalkerPath string `yaml:"stalker_path"` // prefijo REST del stalker (default /api)
	PulsePath   string `yaml:"pulse_path"`   // prefijo REST del pulse (default /api/pulse)
	Timeout     string `yaml:"timeout"`      // ej: "10s"
}

// SyncConfig controla los temporizadores del core de sincronización
type SyncConfig struct {
	PollInterval    string `yaml:"poll_interval"`    // ej: "60s"
	ReconnectDelay  string `yaml:"reconnect_delay"`  // ej: "5s"
	KeepaliveEvery  string `yaml:"keepalive_every"`  // ej: "30s"
	RefreshInterval string `yaml:"refresh_interval"` // auto-refresh de la UI, ej: "30s"
}

// WebConfig es la página de estado local que sirve cada dashboard
type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SettingsConfig apunta al almacén local de preferencias
type SettingsConfig struct {
	Path string `yaml:"path"` // ej: "./stalker-settings.db"
}

// GetTimeout retorna el timeout HTTP del backend
func (b *BackendConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(b.Timeout)
	if err != nil {
		return 10 * time.Second // default
	}
	return d
}

// GetPollInterval retorna el periodo del poll fallback
func (s *SyncConfig) GetPollInterval() time.Duration {
	d, err := time.ParseDuration(s.PollInterval)
	if err != nil {
		return 60 * time.Second // default
	}
	return d
}

// GetReconnectDelay retorna el retraso fijo de reconexión
func (s *SyncConfig) GetReconnectDelay() time.Duration {
	d, err := time.ParseDuration(s.ReconnectDelay)
	if err != nil {
		return 5 * time.Second // default
	}
	return d
}

// GetKeepaliveEvery retorna el periodo del keepalive
func (s *SyncConfig) GetKeepaliveEvery() time.Duration {
	d, err := time.ParseDuration(s.KeepaliveEvery)
	if err != nil {
		return 30 * time.Second // default
	}
	return d
}

// GetRefreshInterval retorna el periodo de auto-refresh de la UI
func (s *SyncConfig) GetRefreshInterval() time.Duration {
	d, err := time.ParseDuration(s.RefreshInterval)
	if err != nil {
		return 30 * time.Second // default
	}
	return d
}

// LoadConfig carga la configuración desde el archivo YAML y aplica los
// overrides de entorno (.env si existe, variables del proceso siempre)
func LoadConfig(configPath string) (*Config, error) {
	// .env es opcional; si no existe se ignora silenciosamente
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error leyendo archivo de configuración: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parseando YAML: %w", err)
	}

	applyEnvOverrides(&config)

	if config.Backend.BaseURL == "" {
		return nil, fmt.Errorf("backend.base_url es obligatorio (o variable PANEL_BACKEND_URL)")
	}
	if config.Backend.StalkerPath == "" {
		config.Backend.StalkerPath = "/api"
	}
	if config.Backend.PulsePath == "" {
		config.Backend.PulsePath = "/api/pulse"
	}

	return &config, nil
}

// applyEnvOverrides permite sobrescribir los campos principales por entorno,
// útil en despliegues Docker donde no se monta el YAML
func applyEnvOverrides(c *Config) {
	if v := os.Getenv("PANEL_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("PANEL_POLL_INTERVAL"); v != "" {
		c.Sync.PollInterval = v
	}
	if v := os.Getenv("PANEL_SETTINGS_PATH"); v != "" {
		c.Settings.Path = v
	}
}
