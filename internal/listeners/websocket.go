package listeners

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Rooms disponibles: cada dashboard tiene su propio canal de push
const (
	RoomStalker = "stalker"
	RoomPulse   = "pulse"
)

// PushEnvelope representa un mensaje push enviado a través del WebSocket
type PushEnvelope struct {
	Type   string      `json:"type"`
	Device interface{} `json:"device,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// Client representa un cliente WebSocket conectado
type Client struct {
	ID       string
	Conn     *websocket.Conn
	RoomName string
	Send     chan []byte
	Hub      *WebSocketHub
}

// WebSocketHub maneja todas las conexiones WebSocket y las rooms
type WebSocketHub struct {
	Rooms map[string]map[*Client]bool

	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan *BroadcastMessage

	mu sync.RWMutex
}

// BroadcastMessage contiene el mensaje y el nombre de la room objetivo
type BroadcastMessage struct {
	RoomName string
	Message  []byte
}

// Upgrader de HTTP a WebSocket
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// En producción, verificar origen
		return true
	},
}

// NewWebSocketHub crea un nuevo hub de WebSocket
func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		Rooms:      make(map[string]map[*Client]bool),
		Register:   make(chan *Client, 10),
		Unregister: make(chan *Client, 10),
		Broadcast:  make(chan *BroadcastMessage, 100),
	}
}

// Run inicia el hub de WebSocket (debe ejecutarse en goroutine)
func (h *WebSocketHub) Run() {
	log.Println("🔌 WebSocket Hub iniciado")

	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if h.Rooms[client.RoomName] == nil {
				h.Rooms[client.RoomName] = make(map[*Client]bool)
			}
			h.Rooms[client.RoomName][client] = true
			h.mu.Unlock()
			log.Printf("✅ Cliente %s conectado a room %s (Total: %d)",
				client.ID, client.RoomName, len(h.Rooms[client.RoomName]))

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.Rooms[client.RoomName]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.Send)
					log.Printf("❌ Cliente %s desconectado de room %s (Restantes: %d)",
						client.ID, client.RoomName, len(clients))
				}
			}
			h.mu.Unlock()

		case message := <-h.Broadcast:
			h.mu.RLock()
			clients := h.Rooms[message.RoomName]
			h.mu.RUnlock()

			for client := range clients {
				select {
				case client.Send <- message.Message:
				default:
					// Canal lleno, desconectar cliente
					log.Printf("⚠️  Canal lleno para cliente %s, desconectando", client.ID)
					h.Unregister <- client
				}
			}
		}
	}
}

// SendToRoom serializa y difunde un mensaje push a todos los clientes de la room
func (h *WebSocketHub) SendToRoom(roomName string, envelope PushEnvelope) {
	jsonData, err := json.Marshal(envelope)
	if err != nil {
		log.Printf("❌ Error al serializar mensaje WebSocket: %v", err)
		return
	}

	h.Broadcast <- &BroadcastMessage{
		RoomName: roomName,
		Message:  jsonData,
	}
}

// GetRoomStats retorna estadísticas de las rooms
func (h *WebSocketHub) GetRoomStats() map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := make(map[string]int)
	for roomName, clients := range h.Rooms {
		stats[roomName] = len(clients)
	}
	return stats
}

// readPump lee mensajes del cliente. Los dashboards envían keepalives en dos
// formatos históricos: el texto plano "ping" y el objeto {"type":"ping"}.
// Ambos reciben el mismo acuse {"type":"pong"}.
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(90 * time.Second))

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️  Error de lectura WebSocket: %v", err)
			}
			break
		}

		c.Conn.SetReadDeadline(time.Now().Add(90 * time.Second))

		if isKeepalive(message) {
			pong, _ := json.Marshal(PushEnvelope{Type: "pong"})
			select {
			case c.Send <- pong:
			default:
			}
			continue
		}

		log.Printf("📨 Mensaje recibido de cliente %s: %s", c.ID, string(message))
	}
}

func isKeepalive(message []byte) bool {
	if string(message) == "ping" {
		return true
	}
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(message, &env); err != nil {
		return false
	}
	return env.Type == "ping"
}

// writePump escribe mensajes al cliente WebSocket
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub cerró el canal
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleWebSocketConnection maneja una nueva conexión WebSocket a la room dada
func handleWebSocketConnection(hub *WebSocketHub, roomName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("❌ Error al hacer upgrade WebSocket: %v", err)
			return
		}

		client := &Client{
			ID:       uuid.NewString(),
			Conn:     conn,
			RoomName: roomName,
			Send:     make(chan []byte, 256),
			Hub:      hub,
		}

		client.Hub.Register <- client

		go client.writePump()
		go client.readPump()

		log.Printf("🔌 Cliente WebSocket conectado: %s → %s", client.ID, roomName)
	}
}

// SetupWebSocketRoutes configura las rutas de WebSocket en el router
func SetupWebSocketRoutes(router *gin.Engine, hub *WebSocketHub) {
	router.GET("/ws/stalker", handleWebSocketConnection(hub, RoomStalker))
	router.GET("/ws/pulse", handleWebSocketConnection(hub, RoomPulse))

	router.GET("/ws/stats", func(c *gin.Context) {
		stats := hub.GetRoomStats()
		total := 0
		for _, count := range stats {
			total += count
		}
		c.JSON(http.StatusOK, gin.H{
			"rooms":         stats,
			"total_rooms":   len(stats),
			"total_clients": total,
		})
	})
}
