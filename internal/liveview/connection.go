package liveview

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"PANEL-UNIFI/internal/models"
)

// ConnState es el estado del enlace WebSocket hacia el backend
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// KeepaliveEncoding determina cómo se serializa el mensaje de keepalive.
// Los dos backends históricos difieren en esto y cada uno espera el suyo.
type KeepaliveEncoding int

const (
	// KeepaliveText envía el texto plano "ping"
	KeepaliveText KeepaliveEncoding = iota
	// KeepaliveJSON envía {"type":"ping"}
	KeepaliveJSON
)

// DeriveEndpoint convierte la URL base HTTP del backend en la URL del
// WebSocket correspondiente (http → ws, https → wss) con la ruta dada
func DeriveEndpoint(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("URL base inválida %q: %w", baseURL, err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		// ya es un esquema WebSocket
	default:
		return "", fmt.Errorf("esquema no soportado %q en la URL base", u.Scheme)
	}

	u.Path = path
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// ConnectionManager administra el ciclo de vida del WebSocket de un
// dashboard: conexión, keepalive, detección de cierre y reconexión con
// retardo fijo. Todos los cambios de estado ocurren en el bucle de eventos
// del core (vía post); solo el dial y el read loop corren en goroutines
// propias.
type ConnectionManager struct {
	endpoint  string
	encoding  KeepaliveEncoding
	delay     time.Duration
	keepalive time.Duration

	timers *timerLedger
	post   func(func())
	dialer *websocket.Dialer

	onMessage func(models.PushMessage)
	onState   func(ConnState)

	state ConnState
	conn  *websocket.Conn

	// gen invalida los resultados de dial y los read loops de conexiones
	// anteriores cuando el manager ya avanzó a otra conexión
	gen int

	closed bool
}

// ConnectionConfig agrupa los parámetros del manager
type ConnectionConfig struct {
	Endpoint       string
	Encoding       KeepaliveEncoding
	ReconnectDelay time.Duration
	KeepaliveEvery time.Duration
	OnMessage      func(models.PushMessage)
	OnState        func(ConnState)
}

// NewConnectionManager crea un manager desconectado. post debe encolar el
// closure en el bucle de eventos del core dueño.
func NewConnectionManager(cfg ConnectionConfig, timers *timerLedger, post func(func())) *ConnectionManager {
	return &ConnectionManager{
		endpoint:  cfg.Endpoint,
		encoding:  cfg.Encoding,
		delay:     cfg.ReconnectDelay,
		keepalive: cfg.KeepaliveEvery,
		timers:    timers,
		post:      post,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		onMessage: cfg.OnMessage,
		onState:   cfg.OnState,
		state:     StateDisconnected,
	}
}

// State retorna el estado actual del enlace. Solo desde el bucle de eventos.
func (m *ConnectionManager) State() ConnState {
	return m.state
}

// Connect inicia un intento de conexión. Es idempotente: si ya hay una
// conexión viva o un intento en curso no hace nada. Solo desde el bucle
// de eventos.
func (m *ConnectionManager) Connect() {
	if m.closed || m.state != StateDisconnected {
		return
	}

	m.setState(StateConnecting)
	gen := m.gen

	log.Printf("🔌 Conectando WebSocket a %s", m.endpoint)

	go func() {
		conn, _, err := m.dialer.Dial(m.endpoint, nil)
		m.post(func() {
			m.handleDialResult(gen, conn, err)
		})
	}()
}

// Shutdown cierra la conexión actual y deshabilita futuras reconexiones.
// Solo desde el bucle de eventos.
func (m *ConnectionManager) Shutdown() {
	m.closed = true
	m.gen++
	m.timers.Cancel(RoleReconnect)
	m.timers.Cancel(RoleKeepalive)
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	m.setState(StateDisconnected)
}

func (m *ConnectionManager) handleDialResult(gen int, conn *websocket.Conn, err error) {
	if gen != m.gen || m.closed {
		// Resultado de un intento ya invalidado
		if conn != nil {
			conn.Close()
		}
		return
	}

	if err != nil {
		log.Printf("⚠️ Fallo al conectar WebSocket (%s): %v", m.endpoint, err)
		m.setState(StateDisconnected)
		m.scheduleReconnect()
		return
	}

	log.Printf("✅ WebSocket conectado (%s)", m.endpoint)
	m.conn = conn
	m.setState(StateConnected)
	m.armKeepalive()

	go m.readLoop(gen, conn)
}

// readLoop lee frames hasta que la conexión muera y publica cada mensaje
// parseado en el bucle de eventos
func (m *ConnectionManager) readLoop(gen int, conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			m.post(func() {
				m.handleClose(gen, err)
			})
			return
		}

		msg, perr := models.ParsePushMessage(raw)
		if perr != nil {
			// Un frame malformado se descarta; no tumba la conexión
			log.Printf("⚠️ Mensaje push malformado descartado: %v", perr)
			continue
		}

		m.post(func() {
			if gen != m.gen {
				return
			}
			m.onMessage(msg)
		})
	}
}

func (m *ConnectionManager) handleClose(gen int, err error) {
	if gen != m.gen || m.closed {
		return
	}

	log.Printf("🔌 WebSocket cerrado (%s): %v", m.endpoint, err)
	m.gen++
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	m.timers.Cancel(RoleKeepalive)
	m.setState(StateDisconnected)
	m.scheduleReconnect()
}

// scheduleReconnect arma el temporizador de reconexión con retardo fijo.
// No hay backoff ni límite de intentos: el enlace se reintenta hasta que
// vuelva o el core se apague.
func (m *ConnectionManager) scheduleReconnect() {
	m.timers.Arm(RoleReconnect, m.delay, func() {
		m.post(func() {
			m.Connect()
		})
	})
}

// armKeepalive programa el siguiente ping; cada disparo se re-arma a sí
// mismo mientras la conexión siga viva
func (m *ConnectionManager) armKeepalive() {
	m.timers.Arm(RoleKeepalive, m.keepalive, func() {
		m.post(func() {
			m.sendKeepalive()
		})
	})
}

func (m *ConnectionManager) sendKeepalive() {
	if m.state != StateConnected || m.conn == nil {
		return
	}

	var payload []byte
	switch m.encoding {
	case KeepaliveJSON:
		payload = []byte(`{"type":"ping"}`)
	default:
		payload = []byte("ping")
	}

	if err := m.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Printf("⚠️ Fallo al enviar keepalive: %v", err)
		// El read loop detectará el cierre; no duplicamos la reconexión aquí
		return
	}

	m.armKeepalive()
}

func (m *ConnectionManager) setState(s ConnState) {
	if m.state == s {
		return
	}
	m.state = s
	if m.onState != nil {
		m.onState(s)
	}
}
