package store

import (
	"path/filepath"
	"reflect"
	"testing"
)

func storeDePrueba(t *testing.T) *SettingsStore {
	t.Helper()

	s, err := OpenSettings(filepath.Join(t.TempDir(), "ajustes.db"))
	if err != nil {
		t.Fatalf("error abriendo base de prueba: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetClaveInexistente(t *testing.T) {
	s := storeDePrueba(t)

	v, err := s.Get("no-existe")
	if err != nil {
		t.Fatalf("una clave inexistente no debe dar error: %v", err)
	}
	if v != "" {
		t.Errorf("se esperaba cadena vacía, llegó %q", v)
	}
}

func TestSetYGet(t *testing.T) {
	s := storeDePrueba(t)

	if err := s.Set("clave", "valor"); err != nil {
		t.Fatalf("Set falló: %v", err)
	}
	if err := s.Set("clave", "valor2"); err != nil {
		t.Fatalf("Set de reemplazo falló: %v", err)
	}

	v, err := s.Get("clave")
	if err != nil {
		t.Fatalf("Get falló: %v", err)
	}
	if v != "valor2" {
		t.Errorf("el segundo Set debe reemplazar: %q", v)
	}
}

func TestThemePorDefecto(t *testing.T) {
	s := storeDePrueba(t)

	theme, err := s.Theme()
	if err != nil {
		t.Fatalf("Theme falló: %v", err)
	}
	if theme != "dark" {
		t.Errorf("el tema por defecto es dark, llegó %q", theme)
	}

	if err := s.SetTheme("light"); err != nil {
		t.Fatalf("SetTheme falló: %v", err)
	}
	theme, _ = s.Theme()
	if theme != "light" {
		t.Errorf("el tema guardado debe recuperarse: %q", theme)
	}
}

func TestChartFiltersIdaYVuelta(t *testing.T) {
	s := storeDePrueba(t)

	filters, err := s.ChartFilters()
	if err != nil {
		t.Fatalf("ChartFilters falló: %v", err)
	}
	if filters != nil {
		t.Errorf("sin filtros guardados debe retornar nil: %v", filters)
	}

	want := []string{"CasaNet-IoT", "CasaNet-Invitados"}
	if err := s.SetChartFilters(want); err != nil {
		t.Fatalf("SetChartFilters falló: %v", err)
	}

	filters, err = s.ChartFilters()
	if err != nil {
		t.Fatalf("ChartFilters falló: %v", err)
	}
	if !reflect.DeepEqual(filters, want) {
		t.Errorf("filtros incorrectos: %v, se esperaba %v", filters, want)
	}
}
