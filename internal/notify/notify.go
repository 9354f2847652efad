package notify

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Level es la severidad de una notificación transitoria
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification es el aviso transitorio que ve el usuario (toast). TTL
// controla cuánto tiempo permanece visible en el feed.
type Notification struct {
	Level     Level
	Title     string
	Message   string
	DeviceMAC string
	Timestamp time.Time
	TTL       time.Duration
}

// Sink recibe las notificaciones emitidas por los cores
type Sink interface {
	Notify(n Notification)
}

// LogSink escribe cada notificación al log con su prefijo de severidad
type LogSink struct{}

func (LogSink) Notify(n Notification) {
	prefix := "ℹ️"
	switch n.Level {
	case LevelSuccess:
		prefix = "✅"
	case LevelWarning:
		prefix = "⚠️"
	case LevelError:
		prefix = "❌"
	}

	if n.DeviceMAC != "" {
		log.Printf("%s %s: %s [%s]", prefix, n.Title, n.Message, n.DeviceMAC)
		return
	}
	log.Printf("%s %s: %s", prefix, n.Title, n.Message)
}

// Feed retiene las últimas notificaciones para mostrarlas en la página de
// estado. Buffer acotado; las vencidas se filtran al leer.
type Feed struct {
	mu    sync.Mutex
	max   int
	items []Notification
}

// NewFeed crea un feed con capacidad máxima max
func NewFeed(max int) *Feed {
	if max <= 0 {
		max = 20
	}
	return &Feed{max: max}
}

func (f *Feed) Notify(n Notification) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	if n.TTL == 0 {
		n.TTL = 10 * time.Second
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, n)
	if len(f.items) > f.max {
		f.items = f.items[len(f.items)-f.max:]
	}
}

// Active retorna las notificaciones aún vigentes a la hora dada, de la más
// reciente a la más antigua
func (f *Feed) Active(now time.Time) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Notification
	for i := len(f.items) - 1; i >= 0; i-- {
		n := f.items[i]
		if now.Sub(n.Timestamp) <= n.TTL {
			out = append(out, n)
		}
	}
	return out
}

// Multi reparte cada notificación a todos los sinks
type Multi []Sink

func (m Multi) Notify(n Notification) {
	for _, s := range m {
		s.Notify(n)
	}
}

// Infof emite una notificación informativa formateada al sink
func Infof(s Sink, title, format string, args ...interface{}) {
	s.Notify(Notification{
		Level:     LevelInfo,
		Title:     title,
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now(),
	})
}

// Errorf emite una notificación de error formateada al sink
func Errorf(s Sink, title, format string, args ...interface{}) {
	s.Notify(Notification{
		Level:     LevelError,
		Title:     title,
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now(),
	})
}
