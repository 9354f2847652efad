package charts

import (
	"fmt"
	"sort"
)

// Slot identifica la posición de un gráfico en el dashboard. El invariante
// de la proyección es: como máximo UN handle vivo por slot.
type Slot string

const (
	SlotDoughnut Slot = "doughnut"
	SlotBar      Slot = "bar"
)

// Kind es el tipo de gráfico a dibujar en un slot
type Kind string

const (
	KindDoughnut Kind = "doughnut"
	KindBar      Kind = "bar"
	KindLine     Kind = "line"
)

// SeriesData son las series listas para dibujar: etiquetas, valores y el
// color asignado a cada etiqueta, alineados por índice
type SeriesData struct {
	Labels []string
	Values []float64
	Colors []string
}

// Handle es el gráfico vivo de un slot. Update redibuja en el mismo handle;
// Destroy libera los recursos del render.
type Handle interface {
	Update(data SeriesData)
	Destroy()
}

// Surface es el destino de render donde la proyección crea gráficos
type Surface interface {
	Create(slot Slot, kind Kind, data SeriesData) (Handle, error)
}

// Paleta de colores por defecto, asignada a etiquetas por orden de primera
// aparición y reciclada cuando se agota
var DefaultPalette = []string{
	"#36a2eb", "#ff6384", "#4bc0c0", "#ff9f40", "#9966ff", "#ffcd56", "#c9cbcf",
}

// Colores fijos por banda de radio; estos nunca dependen del orden de llegada
var DefaultBandColors = map[string]string{
	"2.4 GHz": "#36a2eb",
	"5 GHz":   "#4bc0c0",
	"6 GHz":   "#9966ff",
}

type slotState struct {
	kind   Kind
	handle Handle
}

// Projection mantiene los gráficos del dashboard sincronizados con los datos
// agregados. Cada slot tiene a lo sumo un handle; las actualizaciones
// redibujan en el handle existente en vez de recrearlo, y los colores por
// etiqueta son estables durante toda la sesión.
type Projection struct {
	surface    Surface
	palette    []string
	bandColors map[string]string

	// assigned fija el color de cada etiqueta en su primera aparición
	assigned map[string]string
	next     int

	slots    map[Slot]*slotState
	excluded map[string]bool
}

// NewProjection crea una proyección vacía sobre la superficie dada
func NewProjection(surface Surface) *Projection {
	return &Projection{
		surface:    surface,
		palette:    DefaultPalette,
		bandColors: DefaultBandColors,
		assigned:   make(map[string]string),
		slots:      make(map[Slot]*slotState),
		excluded:   make(map[string]bool),
	}
}

// Render crea el gráfico del slot si aún no existe y hay datos que mostrar.
// Si el slot ya tiene handle, delega en Update.
func (p *Projection) Render(slot Slot, kind Kind, data SeriesData) error {
	if st, ok := p.slots[slot]; ok && st.handle != nil {
		p.Update(slot, data)
		return nil
	}

	data = p.filter(data)
	if len(data.Labels) == 0 {
		// Sin datos no se crea nada; el siguiente tick con datos lo hará
		return nil
	}

	handle, err := p.surface.Create(slot, kind, data)
	if err != nil {
		return fmt.Errorf("error creando gráfico %s: %w", slot, err)
	}
	p.slots[slot] = &slotState{kind: kind, handle: handle}
	return nil
}

// Update redibuja el slot en su handle existente. Si el slot no está
// inicializado no hace nada (Render es quien crea).
func (p *Projection) Update(slot Slot, data SeriesData) {
	st, ok := p.slots[slot]
	if !ok || st.handle == nil {
		return
	}
	st.handle.Update(p.filter(data))
}

// Apply crea o actualiza según corresponda
func (p *Projection) Apply(slot Slot, kind Kind, data SeriesData) error {
	if st, ok := p.slots[slot]; ok && st.handle != nil {
		p.Update(slot, data)
		return nil
	}
	return p.Render(slot, kind, data)
}

// DestroyAll destruye todos los handles vivos. Las asignaciones de color se
// conservan para que un re-render use los mismos colores.
func (p *Projection) DestroyAll() {
	for slot, st := range p.slots {
		if st.handle != nil {
			st.handle.Destroy()
		}
		delete(p.slots, slot)
	}
}

// SetExcluded reemplaza el conjunto de etiquetas filtradas. Cambiar el filtro
// destruye todos los gráficos; el siguiente Render los recrea ya filtrados.
func (p *Projection) SetExcluded(labels []string) {
	next := make(map[string]bool, len(labels))
	for _, l := range labels {
		next[l] = true
	}

	if equalSets(p.excluded, next) {
		return
	}

	p.excluded = next
	p.DestroyAll()
}

// Excluded retorna las etiquetas filtradas actualmente, ordenadas
func (p *Projection) Excluded() []string {
	out := make([]string, 0, len(p.excluded))
	for l := range p.excluded {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// ColorsFor asigna un color a cada etiqueta: primera aparición toma el
// siguiente color de la paleta y la asignación queda fija para la sesión
func (p *Projection) ColorsFor(labels []string) []string {
	colors := make([]string, len(labels))
	for i, label := range labels {
		if c, ok := p.assigned[label]; ok {
			colors[i] = c
			continue
		}
		c := p.palette[p.next%len(p.palette)]
		p.next++
		p.assigned[label] = c
		colors[i] = c
	}
	return colors
}

// BandColors asigna el color fijo de cada banda de radio; las bandas no
// reconocidas caen en la paleta general
func (p *Projection) BandColors(labels []string) []string {
	colors := make([]string, len(labels))
	for i, label := range labels {
		if c, ok := p.bandColors[label]; ok {
			colors[i] = c
			continue
		}
		colors[i] = p.ColorsFor([]string{label})[0]
	}
	return colors
}

// Active indica si el slot tiene un handle vivo
func (p *Projection) Active(slot Slot) bool {
	st, ok := p.slots[slot]
	return ok && st.handle != nil
}

func (p *Projection) filter(data SeriesData) SeriesData {
	if len(p.excluded) == 0 {
		return data
	}

	out := SeriesData{}
	for i, label := range data.Labels {
		if p.excluded[label] {
			continue
		}
		out.Labels = append(out.Labels, label)
		if i < len(data.Values) {
			out.Values = append(out.Values, data.Values[i])
		}
		if i < len(data.Colors) {
			out.Colors = append(out.Colors, data.Colors[i])
		}
	}
	return out
}

func equalSets(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
