package liveview

import (
	"log"
	"time"
)

// PollScheduler ejecuta el refresco HTTP periódico que respalda al
// WebSocket. Corre SIEMPRE que el core esté activo, sin importar el estado
// del enlace: es lo que garantiza convergencia cuando el push se degrada
// en silencio.
type PollScheduler struct {
	interval time.Duration
	timers   *timerLedger
	post     func(func())

	// fetch lanza la petición HTTP en su propia goroutine y publica el
	// resultado en el bucle de eventos
	fetch func()

	running bool
}

// NewPollScheduler crea un scheduler detenido
func NewPollScheduler(interval time.Duration, timers *timerLedger, post func(func()), fetch func()) *PollScheduler {
	return &PollScheduler{
		interval: interval,
		timers:   timers,
		post:     post,
		fetch:    fetch,
	}
}

// Start dispara un fetch inmediato y arma el ciclo periódico. Idempotente.
// Solo desde el bucle de eventos.
func (p *PollScheduler) Start() {
	if p.running {
		return
	}
	p.running = true

	log.Printf("🔄 Poll de respaldo activo cada %s", p.interval)
	p.fetch()
	p.arm()
}

// Stop cancela el ciclo periódico. Solo desde el bucle de eventos.
func (p *PollScheduler) Stop() {
	if !p.running {
		return
	}
	p.running = false
	p.timers.Cancel(RolePoll)
}

// Running indica si el ciclo está armado
func (p *PollScheduler) Running() bool {
	return p.running
}

func (p *PollScheduler) arm() {
	p.timers.Arm(RolePoll, p.interval, func() {
		p.post(func() {
			if !p.running {
				return
			}
			p.fetch()
			p.arm()
		})
	})
}
