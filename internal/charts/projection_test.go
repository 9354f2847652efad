package charts

import (
	"reflect"
	"testing"
)

// superficieFalsa registra creaciones, actualizaciones y destrucciones
type superficieFalsa struct {
	created   int
	destroyed int
}

type handleFalso struct {
	surface *superficieFalsa
	updates []SeriesData
	muerto  bool
}

func (s *superficieFalsa) Create(slot Slot, kind Kind, data SeriesData) (Handle, error) {
	s.created++
	return &handleFalso{surface: s}, nil
}

func (h *handleFalso) Update(data SeriesData) {
	h.updates = append(h.updates, data)
}

func (h *handleFalso) Destroy() {
	h.muerto = true
	h.surface.destroyed++
}

func TestUpdateRedibujaEnElMismoHandle(t *testing.T) {
	surface := &superficieFalsa{}
	p := NewProjection(surface)

	datos := SeriesData{
		Labels: []string{"2.4 GHz", "5 GHz"},
		Values: []float64{3, 5},
	}
	if err := p.Render(SlotDoughnut, KindDoughnut, datos); err != nil {
		t.Fatalf("Render falló: %v", err)
	}
	if surface.created != 1 {
		t.Fatalf("debería haberse creado 1 gráfico, hay %d", surface.created)
	}

	// Nuevos valores para las mismas bandas: mismo handle, sin recrear
	p.Update(SlotDoughnut, SeriesData{
		Labels: []string{"2.4 GHz", "5 GHz"},
		Values: []float64{4, 6},
	})

	if surface.created != 1 {
		t.Errorf("Update no debe crear gráficos nuevos: %d creados", surface.created)
	}
	if surface.destroyed != 0 {
		t.Errorf("Update no debe destruir gráficos: %d destruidos", surface.destroyed)
	}
}

func TestRenderSobreSlotExistenteActualiza(t *testing.T) {
	surface := &superficieFalsa{}
	p := NewProjection(surface)

	datos := SeriesData{Labels: []string{"CasaNet"}, Values: []float64{4}}
	p.Render(SlotBar, KindBar, datos)
	p.Render(SlotBar, KindBar, datos)

	if surface.created != 1 {
		t.Errorf("el segundo Render debería reusar el handle: %d creados", surface.created)
	}
}

func TestRenderSinDatosNoCrea(t *testing.T) {
	surface := &superficieFalsa{}
	p := NewProjection(surface)

	if err := p.Render(SlotBar, KindBar, SeriesData{}); err != nil {
		t.Fatalf("Render vacío no debe fallar: %v", err)
	}
	if surface.created != 0 {
		t.Error("sin datos no debe crearse ningún gráfico")
	}
	if p.Active(SlotBar) {
		t.Error("el slot no debería figurar activo")
	}
}

func TestColoresEstablesPorPrimeraAparicion(t *testing.T) {
	p := NewProjection(&superficieFalsa{})

	primera := p.ColorsFor([]string{"CasaNet", "CasaNet-IoT"})
	if primera[0] != DefaultPalette[0] || primera[1] != DefaultPalette[1] {
		t.Errorf("asignación inicial incorrecta: %v", primera)
	}

	// El orden de llegada posterior no cambia los colores ya asignados
	segunda := p.ColorsFor([]string{"CasaNet-IoT", "CasaNet", "Invitados"})
	if segunda[0] != primera[1] || segunda[1] != primera[0] {
		t.Errorf("los colores asignados deben ser estables: %v vs %v", primera, segunda)
	}
	if segunda[2] != DefaultPalette[2] {
		t.Errorf("la etiqueta nueva toma el siguiente color: %v", segunda[2])
	}
}

func TestPaletaSeRecicla(t *testing.T) {
	p := NewProjection(&superficieFalsa{})

	labels := make([]string, len(DefaultPalette)+2)
	for i := range labels {
		labels[i] = string(rune('a' + i))
	}
	colors := p.ColorsFor(labels)

	if colors[len(DefaultPalette)] != DefaultPalette[0] {
		t.Error("agotada la paleta se recicla desde el principio")
	}
}

func TestColoresFijosPorBanda(t *testing.T) {
	p := NewProjection(&superficieFalsa{})

	colors := p.BandColors([]string{"5 GHz", "2.4 GHz", "6 GHz"})
	want := []string{
		DefaultBandColors["5 GHz"],
		DefaultBandColors["2.4 GHz"],
		DefaultBandColors["6 GHz"],
	}
	if !reflect.DeepEqual(colors, want) {
		t.Errorf("colores de banda incorrectos: %v, se esperaba %v", colors, want)
	}
}

func TestSetExcludedDestruyeYFiltra(t *testing.T) {
	surface := &superficieFalsa{}
	p := NewProjection(surface)

	p.Render(SlotBar, KindBar, SeriesData{
		Labels: []string{"CasaNet", "CasaNet-IoT"},
		Values: []float64{4, 9},
	})

	p.SetExcluded([]string{"CasaNet-IoT"})
	if surface.destroyed != 1 {
		t.Errorf("cambiar el filtro debe destruir los gráficos: %d destruidos", surface.destroyed)
	}

	// Re-render con el filtro aplicado
	p.Render(SlotBar, KindBar, SeriesData{
		Labels: []string{"CasaNet", "CasaNet-IoT"},
		Values: []float64{4, 9},
	})
	if surface.created != 2 {
		t.Fatalf("debería haberse recreado el gráfico: %d creados", surface.created)
	}

	// El mismo filtro otra vez no destruye nada
	p.SetExcluded([]string{"CasaNet-IoT"})
	if surface.destroyed != 1 {
		t.Error("un filtro idéntico no debe destruir los gráficos")
	}
}

func TestDestroyAll(t *testing.T) {
	surface := &superficieFalsa{}
	p := NewProjection(surface)

	p.Render(SlotDoughnut, KindDoughnut, SeriesData{Labels: []string{"5 GHz"}, Values: []float64{1}})
	p.Render(SlotBar, KindBar, SeriesData{Labels: []string{"CasaNet"}, Values: []float64{1}})

	p.DestroyAll()

	if surface.destroyed != 2 {
		t.Errorf("deberían haberse destruido 2 gráficos: %d", surface.destroyed)
	}
	if p.Active(SlotDoughnut) || p.Active(SlotBar) {
		t.Error("no deben quedar slots activos")
	}

	// Las asignaciones de color sobreviven a la destrucción
	colors := p.ColorsFor([]string{"5 GHz"})
	if colors[0] != DefaultPalette[0] {
		t.Error("los colores asignados deben sobrevivir al DestroyAll")
	}
}
