package web

import (
	"sync"

	"PANEL-UNIFI/internal/charts"
)

// ChartSurface es la superficie de render de los gráficos del panel: guarda
// la última serie dibujada por slot y la página de estado la pinta en HTML.
// Update redibuja sobre el mismo handle; Destroy borra la serie del slot.
type ChartSurface struct {
	mu    sync.RWMutex
	slots map[charts.Slot]*renderedChart
}

type renderedChart struct {
	surface *ChartSurface
	slot    charts.Slot
	kind    charts.Kind
	data    charts.SeriesData
}

// NewChartSurface crea una superficie vacía
func NewChartSurface() *ChartSurface {
	return &ChartSurface{
		slots: make(map[charts.Slot]*renderedChart),
	}
}

// Create dibuja un gráfico nuevo en el slot
func (s *ChartSurface) Create(slot charts.Slot, kind charts.Kind, data charts.SeriesData) (charts.Handle, error) {
	h := &renderedChart{surface: s, slot: slot, kind: kind, data: data}

	s.mu.Lock()
	s.slots[slot] = h
	s.mu.Unlock()

	return h, nil
}

func (h *renderedChart) Update(data charts.SeriesData) {
	h.surface.mu.Lock()
	h.data = data
	h.surface.mu.Unlock()
}

func (h *renderedChart) Destroy() {
	h.surface.mu.Lock()
	if h.surface.slots[h.slot] == h {
		delete(h.surface.slots, h.slot)
	}
	h.surface.mu.Unlock()
}

// Snapshot retorna una copia de las series dibujadas por slot
func (s *ChartSurface) Snapshot() map[charts.Slot]charts.SeriesData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[charts.Slot]charts.SeriesData, len(s.slots))
	for slot, h := range s.slots {
		out[slot] = h.data
	}
	return out
}
