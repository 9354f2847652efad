package liveview

import (
	"errors"
	"testing"
	"time"

	"PANEL-UNIFI/internal/models"
)

func TestDeriveEndpoint(t *testing.T) {
	casos := []struct {
		base   string
		path   string
		salida string
		falla  bool
	}{
		{"http://192.168.1.50:8899", "/ws/stalker", "ws://192.168.1.50:8899/ws/stalker", false},
		{"https://panel.casa.lan", "/ws/pulse", "wss://panel.casa.lan/ws/pulse", false},
		{"ws://host:1234", "/ws/stalker", "ws://host:1234/ws/stalker", false},
		{"http://host/api?x=1", "/ws/pulse", "ws://host/ws/pulse", false},
		{"ftp://host", "/ws/stalker", "", true},
		{"://mal", "/ws/stalker", "", true},
	}

	for _, c := range casos {
		got, err := DeriveEndpoint(c.base, c.path)
		if c.falla {
			if err == nil {
				t.Errorf("DeriveEndpoint(%q) debería fallar", c.base)
			}
			continue
		}
		if err != nil {
			t.Errorf("DeriveEndpoint(%q) falló: %v", c.base, err)
			continue
		}
		if got != c.salida {
			t.Errorf("DeriveEndpoint(%q) = %q, se esperaba %q", c.base, got, c.salida)
		}
	}
}

func TestConnStateString(t *testing.T) {
	casos := map[ConnState]string{
		StateDisconnected: "disconnected",
		StateConnecting:   "connecting",
		StateConnected:    "connected",
	}
	for state, want := range casos {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, se esperaba %q", state, got, want)
		}
	}
}

func TestConnectEsIdempotente(t *testing.T) {
	timers := newTimerLedger()
	posted := make(chan func(), 16)

	m := NewConnectionManager(ConnectionConfig{
		Endpoint:  "ws://127.0.0.1:1/ws/stalker", // puerto cerrado, el dial fallará
		OnMessage: func(models.PushMessage) {},
	}, timers, func(fn func()) { posted <- fn })

	m.Connect()
	if m.State() != StateConnecting {
		t.Fatalf("tras Connect el estado debería ser connecting, es %s", m.State())
	}

	// Una segunda llamada mientras hay intento en curso no hace nada
	m.Connect()
	if m.State() != StateConnecting {
		t.Errorf("Connect repetido no debe cambiar el estado")
	}
}

func TestCierresConsecutivosProgramanUnaSolaReconexion(t *testing.T) {
	timers := newTimerLedger()

	m := NewConnectionManager(ConnectionConfig{
		Endpoint:       "ws://127.0.0.1:1/ws/stalker",
		ReconnectDelay: time.Hour,
		KeepaliveEvery: time.Hour,
		OnMessage:      func(models.PushMessage) {},
	}, timers, func(fn func()) { fn() })

	gen := m.gen
	m.handleClose(gen, errors.New("cierre 1"))

	if m.State() != StateDisconnected {
		t.Fatalf("tras el cierre el estado debería ser disconnected, es %s", m.State())
	}
	if !timers.Active(RoleReconnect) {
		t.Fatal("el primer cierre debe armar la reconexión")
	}

	// Los cierres repetidos de la conexión ya invalidada no reprograman nada
	m.handleClose(gen, errors.New("cierre 2"))
	m.handleClose(gen, errors.New("cierre 3"))
	if n := timers.ActiveCount(); n != 1 {
		t.Errorf("solo debe quedar el temporizador de reconexión: %d", n)
	}

	// Y aunque lleguen cierres de generaciones sucesivas, el rol de
	// reconexión se rearma en vez de acumularse
	m.handleClose(m.gen, errors.New("cierre 4"))
	m.handleClose(m.gen, errors.New("cierre 5"))
	if n := timers.ActiveCount(); n != 1 {
		t.Errorf("la reconexión no debe acumular temporizadores: %d", n)
	}
}
