package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SettingsStore persiste las preferencias locales del panel (tema, filtros
// de gráficos) en una base SQLite de un solo archivo. Sobrevive reinicios
// del panel; no guarda nada del estado sincronizado, que siempre se
// reconstruye desde el backend.
type SettingsStore struct {
	db *sql.DB
}

// OpenSettings abre (o crea) la base de preferencias en path
func OpenSettings(path string) (*SettingsStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error abriendo base de preferencias: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS ajustes (
		clave TEXT PRIMARY KEY,
		valor TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creando esquema de preferencias: %w", err)
	}

	return &SettingsStore{db: db}, nil
}

// Close cierra la base
func (s *SettingsStore) Close() error {
	return s.db.Close()
}

// Get lee el valor de una clave; retorna "" sin error si no existe
func (s *SettingsStore) Get(clave string) (string, error) {
	var valor string
	err := s.db.QueryRow(`SELECT valor FROM ajustes WHERE clave = ?`, clave).Scan(&valor)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("error leyendo ajuste %q: %w", clave, err)
	}
	return valor, nil
}

// Set guarda (o reemplaza) el valor de una clave
func (s *SettingsStore) Set(clave, valor string) error {
	_, err := s.db.Exec(
		`INSERT INTO ajustes (clave, valor) VALUES (?, ?)
		 ON CONFLICT(clave) DO UPDATE SET valor = excluded.valor`,
		clave, valor,
	)
	if err != nil {
		return fmt.Errorf("error guardando ajuste %q: %w", clave, err)
	}
	return nil
}

// Theme retorna el tema guardado ("dark" por defecto)
func (s *SettingsStore) Theme() (string, error) {
	v, err := s.Get("theme")
	if err != nil {
		return "", err
	}
	if v == "" {
		return "dark", nil
	}
	return v, nil
}

// SetTheme guarda el tema elegido
func (s *SettingsStore) SetTheme(theme string) error {
	return s.Set("theme", theme)
}

// ChartFilters retorna los SSIDs excluidos de los gráficos
func (s *SettingsStore) ChartFilters() ([]string, error) {
	v, err := s.Get("chart_filters")
	if err != nil {
		return nil, err
	}
	if v == "" {
		return nil, nil
	}

	var filters []string
	if err := json.Unmarshal([]byte(v), &filters); err != nil {
		return nil, fmt.Errorf("error parseando filtros guardados: %w", err)
	}
	return filters, nil
}

// SetChartFilters guarda los SSIDs excluidos de los gráficos
func (s *SettingsStore) SetChartFilters(filters []string) error {
	data, err := json.Marshal(filters)
	if err != nil {
		return fmt.Errorf("error serializando filtros: %w", err)
	}
	return s.Set("chart_filters", string(data))
}
