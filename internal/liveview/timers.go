package liveview

import (
	"sync"
	"time"
)

// TimerRole identifica los roles de temporizador del core. El invariante del
// sistema es: como máximo UN temporizador activo por rol y por instancia;
// re-armar un rol siempre cancela el anterior primero.
type TimerRole string

const (
	RoleReconnect TimerRole = "reconnect"
	RoleKeepalive TimerRole = "keepalive"
	RolePoll      TimerRole = "poll"
	RoleRefresh   TimerRole = "refresh"
)

// timerLedger es el registro de temporizadores pendientes de una instancia.
// Es la única defensa contra fugas de temporizadores tras reconexiones
// repetidas, así que el reemplazo-antes-de-armar no es negociable.
type timerLedger struct {
	mu     sync.Mutex
	timers map[TimerRole]*time.Timer
}

func newTimerLedger() *timerLedger {
	return &timerLedger{
		timers: make(map[TimerRole]*time.Timer),
	}
}

// Arm programa fn tras d para el rol indicado, cancelando cualquier
// temporizador previo del mismo rol. Los roles periódicos se re-arman
// a sí mismos desde fn.
func (l *timerLedger) Arm(role TimerRole, d time.Duration, fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if prev, ok := l.timers[role]; ok {
		prev.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		l.mu.Lock()
		// El disparo solo cuenta si seguimos siendo el temporizador vigente
		if l.timers[role] != t {
			l.mu.Unlock()
			return
		}
		delete(l.timers, role)
		l.mu.Unlock()
		fn()
	})
	l.timers[role] = t
}

// Cancel detiene y descarta el temporizador del rol; seguro si no existe
func (l *timerLedger) Cancel(role TimerRole) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.timers[role]; ok {
		t.Stop()
		delete(l.timers, role)
	}
}

// CancelAll detiene todos los temporizadores pendientes (shutdown)
func (l *timerLedger) CancelAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for role, t := range l.timers {
		t.Stop()
		delete(l.timers, role)
	}
}

// Active indica si hay un temporizador pendiente para el rol
func (l *timerLedger) Active(role TimerRole) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.timers[role]
	return ok
}

// ActiveCount retorna cuántos temporizadores hay pendientes en total
func (l *timerLedger) ActiveCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.timers)
}
