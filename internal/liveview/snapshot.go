package liveview

import "sync"

// publishedSnapshot guarda la última copia publicada del estado Stalker
// para lectura concurrente desde los handlers web
type publishedSnapshot struct {
	mu   sync.RWMutex
	snap StalkerSnapshot
}

func (p *publishedSnapshot) store(s StalkerSnapshot) {
	p.mu.Lock()
	p.snap = s
	p.mu.Unlock()
}

func (p *publishedSnapshot) load() StalkerSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// publishedPulse es el equivalente para el estado del dashboard Pulse
type publishedPulse struct {
	mu   sync.RWMutex
	snap PulseSnapshot
}

func (p *publishedPulse) store(s PulseSnapshot) {
	p.mu.Lock()
	p.snap = s
	p.mu.Unlock()
}

func (p *publishedPulse) load() PulseSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}
