package listeners

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"PANEL-UNIFI/internal/models"
)

// World es el estado simulado del backend: un controlador UniFi ficticio
// con dispositivos que se conectan y desconectan solos. Sirve para
// desarrollar y probar el panel sin un controlador real.
type World struct {
	mu sync.Mutex

	devices  []*models.TrackedDevice
	history  map[int][]models.HistoryEntry
	webhooks []*models.WebhookConfig

	nextDeviceID  int
	nextWebhookID int
	lastRefresh   time.Time

	rng *rand.Rand
	hub *WebSocketHub
}

var simAPs = []struct {
	mac, name string
}{
	{"aa:00:00:00:00:01", "AP Salón"},
	{"aa:00:00:00:00:02", "AP Oficina"},
	{"aa:00:00:00:00:03", "AP Terraza"},
}

var simSSIDs = []string{"CasaNet", "CasaNet-IoT", "CasaNet-Invitados"}
var simRadios = []string{"2.4 GHz", "5 GHz", "6 GHz"}

// NewWorld crea el mundo simulado con un puñado de dispositivos de arranque
func NewWorld(hub *WebSocketHub) *World {
	w := &World{
		history:     make(map[int][]models.HistoryEntry),
		lastRefresh: time.Now(),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		hub:         hub,
	}

	seeds := []struct {
		mac, name string
		connected bool
	}{
		{"11:22:33:44:55:01", "Teléfono de Ana", true},
		{"11:22:33:44:55:02", "Portátil de Dani", true},
		{"11:22:33:44:55:03", "Tablet del salón", false},
		{"11:22:33:44:55:04", "Cámara entrada", true},
		{"11:22:33:44:55:05", "Enchufe inteligente", true},
	}
	for _, s := range seeds {
		w.addDevice(s.mac, s.name, s.connected)
	}
	return w
}

func (w *World) addDevice(mac, name string, connected bool) *models.TrackedDevice {
	w.nextDeviceID++
	now := time.Now()
	ap := simAPs[w.rng.Intn(len(simAPs))]
	d := &models.TrackedDevice{
		ID:                    w.nextDeviceID,
		MACAddress:            mac,
		FriendlyName:          name,
		IsConnected:           connected,
		CurrentAPMac:          ap.mac,
		CurrentAPName:         ap.name,
		CurrentIPAddress:      fmt.Sprintf("192.168.1.%d", 100+w.nextDeviceID),
		CurrentSignalStrength: -45 - w.rng.Intn(30),
		CurrentRadio:          simRadios[w.rng.Intn(len(simRadios))],
		CurrentSSID:           simSSIDs[w.rng.Intn(len(simSSIDs))],
		AddedAt:               &now,
		SiteID:                "default",
	}
	if connected {
		d.LastSeen = &now
	}
	w.devices = append(w.devices, d)
	return d
}

// RunTicker hace avanzar el mundo: en cada tick uno o dos dispositivos
// cambian de estado y se difunden los pushes correspondientes a ambas rooms
func (w *World) RunTicker(ctx context.Context, interval time.Duration) {
	log.Printf("🎲 Simulación activa, tick cada %s", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Simulación detenida")
			return
		case <-ticker.C:
			w.step()
		}
	}
}

func (w *World) step() {
	w.mu.Lock()

	if len(w.devices) > 0 {
		d := w.devices[w.rng.Intn(len(w.devices))]
		update := w.mutateDevice(d)
		w.lastRefresh = time.Now()
		status := w.statusLocked()
		dashboard := w.dashboardLocked()
		w.mu.Unlock()

		w.hub.SendToRoom(RoomStalker, PushEnvelope{Type: "device_update", Device: update})
		w.hub.SendToRoom(RoomStalker, PushEnvelope{Type: "status_update", Data: status})
		w.hub.SendToRoom(RoomPulse, PushEnvelope{Type: "stats_update", Data: dashboard})
		return
	}

	w.mu.Unlock()
}

// mutateDevice cambia el estado de un dispositivo al azar y retorna la
// actualización parcial correspondiente
func (w *World) mutateDevice(d *models.TrackedDevice) models.DeviceUpdate {
	now := time.Now()
	update := models.DeviceUpdate{ID: d.ID, MACAddress: d.MACAddress}

	switch w.rng.Intn(3) {
	case 0:
		// Flip de conectividad
		connected := !d.IsConnected
		d.IsConnected = connected
		update.IsConnected = &connected
		if connected {
			d.LastSeen = &now
			update.LastSeen = &now
			w.appendHistoryLocked(d, now)
		} else {
			w.closeHistoryLocked(d, now)
		}
	case 1:
		// Variación de señal
		signal := -45 - w.rng.Intn(40)
		d.CurrentSignalStrength = signal
		update.CurrentSignalStrength = &signal
		if d.IsConnected {
			d.LastSeen = &now
			update.LastSeen = &now
		}
	default:
		// Roaming entre APs
		ap := simAPs[w.rng.Intn(len(simAPs))]
		d.CurrentAPMac = ap.mac
		d.CurrentAPName = ap.name
		update.CurrentAPMac = &d.CurrentAPMac
		update.CurrentAPName = &d.CurrentAPName
	}

	return update
}

func (w *World) appendHistoryLocked(d *models.TrackedDevice, now time.Time) {
	entries := w.history[d.ID]
	w.history[d.ID] = append(entries, models.HistoryEntry{
		ID:             len(entries) + 1,
		DeviceID:       d.ID,
		APMac:          d.CurrentAPMac,
		APName:         d.CurrentAPName,
		SSID:           d.CurrentSSID,
		ConnectedAt:    now,
		SignalStrength: d.CurrentSignalStrength,
		IsWired:        d.IsWired,
	})
}

func (w *World) closeHistoryLocked(d *models.TrackedDevice, now time.Time) {
	entries := w.history[d.ID]
	if len(entries) == 0 {
		return
	}
	last := &entries[len(entries)-1]
	if last.DisconnectedAt == nil {
		last.DisconnectedAt = &now
		last.DurationSeconds = int(now.Sub(last.ConnectedAt).Seconds())
	}
}

func (w *World) statusLocked() models.SystemStatus {
	connected := 0
	for _, d := range w.devices {
		if d.IsConnected {
			connected++
		}
	}
	refresh := w.lastRefresh
	return models.SystemStatus{
		LastRefresh:            &refresh,
		TrackedDevices:         len(w.devices),
		ConnectedDevices:       connected,
		RefreshIntervalSeconds: 30,
	}
}

func (w *World) dashboardLocked() models.DashboardData {
	byBand := make(map[string]int)
	bySSID := make(map[string]int)
	var topClients []models.TopClient

	for _, d := range w.devices {
		if !d.IsConnected {
			continue
		}
		byBand[d.CurrentRadio]++
		bySSID[d.CurrentSSID]++
		topClients = append(topClients, models.TopClient{
			Mac:      d.MACAddress,
			Name:     d.FriendlyName,
			IP:       d.CurrentIPAddress,
			TxBytes:  int64(w.rng.Intn(1 << 24)),
			RxBytes:  int64(w.rng.Intn(1 << 26)),
			RSSI:     d.CurrentSignalStrength,
			ESSID:    d.CurrentSSID,
			Radio:    d.CurrentRadio,
			APMac:    d.CurrentAPMac,
		})
	}
	for i := range topClients {
		topClients[i].TotalBytes = topClients[i].TxBytes + topClients[i].RxBytes
	}

	aps := make([]models.APStatus, 0, len(simAPs))
	for _, ap := range simAPs {
		aps = append(aps, models.APStatus{
			Mac:          ap.mac,
			Name:         ap.name,
			Model:        "U6-Lite",
			NumSta:       w.rng.Intn(8),
			Channels:     "6, 44",
			State:        1,
			Uptime:       int64(86400 + w.rng.Intn(100000)),
			Satisfaction: 85 + w.rng.Intn(15),
		})
	}

	refresh := w.lastRefresh
	return models.DashboardData{
		Gateway: models.GatewayStats{
			Model:          "UDM-Pro",
			Name:           "Gateway Casa",
			Version:        "3.2.12",
			Uptime:         int64(864000),
			CPUUtilization: 10 + w.rng.Float64()*20,
			MemUtilization: 40 + w.rng.Float64()*10,
			WANStatus:      "ok",
			WANIP:          "83.45.12.7",
		},
		WAN: models.WANHealth{
			Status:       "ok",
			WANIP:        "83.45.12.7",
			ISPName:      "Movistar",
			Availability: 99.7,
			Latency:      12 + w.rng.Float64()*8,
			TxBytesRate:  int64(w.rng.Intn(1 << 20)),
			RxBytesRate:  int64(w.rng.Intn(1 << 22)),
		},
		Devices: models.DeviceCounts{
			Clients:         len(topClients),
			WirelessClients: len(topClients),
			APs:             len(simAPs),
			Switches:        1,
		},
		CurrentTxRate: int64(w.rng.Intn(1 << 20)),
		CurrentRxRate: int64(w.rng.Intn(1 << 22)),
		AccessPoints:  aps,
		TopClients:    topClients,
		ChartData: models.ChartData{
			ClientsByBand: byBand,
			ClientsBySSID: bySSID,
		},
		LastRefresh:     &refresh,
		RefreshInterval: 30,
	}
}

// Snapshot de consulta para los handlers REST

func (w *World) ListDevices() models.DeviceListResponse {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]models.TrackedDevice, 0, len(w.devices))
	for _, d := range w.devices {
		out = append(out, *d)
	}
	return models.DeviceListResponse{Devices: out, Total: len(out)}
}

func (w *World) Status() models.SystemStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.statusLocked()
}

func (w *World) Dashboard() models.DashboardData {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dashboardLocked()
}

func (w *World) FindDevice(id int) (models.TrackedDevice, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, d := range w.devices {
		if d.ID == id {
			return *d, true
		}
	}
	return models.TrackedDevice{}, false
}

func (w *World) FindByMAC(mac string) (models.TrackedDevice, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, d := range w.devices {
		if d.MACAddress == mac {
			return *d, true
		}
	}
	return models.TrackedDevice{}, false
}

// CreateDevice da de alta un dispositivo nuevo; rechaza MACs duplicadas
func (w *World) CreateDevice(create models.DeviceCreate) (models.TrackedDevice, error) {
	mac, err := models.NormalizeMAC(create.MACAddress)
	if err != nil {
		return models.TrackedDevice{}, err
	}

	w.mu.Lock()
	for _, d := range w.devices {
		if d.MACAddress == mac {
			w.mu.Unlock()
			return models.TrackedDevice{}, fmt.Errorf("el dispositivo %s ya está siendo rastreado", mac)
		}
	}
	name := create.FriendlyName
	if name == "" {
		name = mac
	}
	d := w.addDevice(mac, name, false)
	copia := *d
	update := models.DeviceUpdate{ID: d.ID, MACAddress: d.MACAddress}
	status := w.statusLocked()
	w.mu.Unlock()

	w.hub.SendToRoom(RoomStalker, PushEnvelope{Type: "device_update", Device: update})
	w.hub.SendToRoom(RoomStalker, PushEnvelope{Type: "status_update", Data: status})
	return copia, nil
}

// DeleteDevice elimina el dispositivo del rastreo
func (w *World) DeleteDevice(id int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, d := range w.devices {
		if d.ID == id {
			w.devices = append(w.devices[:i], w.devices[i+1:]...)
			delete(w.history, id)
			return true
		}
	}
	return false
}

// SetBlocked marca el dispositivo como bloqueado o desbloqueado y difunde
// el cambio
func (w *World) SetBlocked(id int, blocked bool) bool {
	w.mu.Lock()
	var update *models.DeviceUpdate
	for _, d := range w.devices {
		if d.ID == id {
			d.IsBlocked = blocked
			if blocked {
				d.IsConnected = false
			}
			update = &models.DeviceUpdate{
				ID:          d.ID,
				MACAddress:  d.MACAddress,
				IsBlocked:   &d.IsBlocked,
				IsConnected: &d.IsConnected,
			}
			break
		}
	}
	status := w.statusLocked()
	w.mu.Unlock()

	if update == nil {
		return false
	}
	w.hub.SendToRoom(RoomStalker, PushEnvelope{Type: "device_update", Device: *update})
	w.hub.SendToRoom(RoomStalker, PushEnvelope{Type: "status_update", Data: status})
	return true
}

func (w *World) History(id int) models.HistoryListResponse {
	w.mu.Lock()
	defer w.mu.Unlock()
	entries := append([]models.HistoryEntry(nil), w.history[id]...)
	return models.HistoryListResponse{DeviceID: id, History: entries, Total: len(entries)}
}

// Detail construye el detalle ampliado con datos vivos ficticios
func (w *World) Detail(id int) (models.DeviceDetail, bool) {
	d, ok := w.FindDevice(id)
	if !ok {
		return models.DeviceDetail{}, false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return models.DeviceDetail{
		TrackedDevice: d,
		Hostname:      d.FriendlyName,
		Manufacturer:  "Simulado S.L.",
		TxRate:        float64(50 + w.rng.Intn(500)),
		RxRate:        float64(100 + w.rng.Intn(800)),
		Channel:       36,
		Uptime:        int64(w.rng.Intn(86400)),
		TxBytes:       int64(w.rng.Intn(1 << 28)),
		RxBytes:       int64(w.rng.Intn(1 << 30)),
	}, true
}

// Analytics ficticia derivada del historial

func (w *World) DwellTime(id int) models.DwellTimeResponse {
	w.mu.Lock()
	defer w.mu.Unlock()

	perAP := make(map[string]int)
	total := int64(0)
	for _, e := range w.history[id] {
		perAP[e.APName] += e.DurationSeconds
		total += int64(e.DurationSeconds)
	}
	return models.DwellTimeResponse{DeviceID: id, TotalSeconds: total, PerAP: perAP}
}

func (w *World) FavoriteAP(id int) models.FavoriteAPResponse {
	dwell := w.DwellTime(id)

	best := ""
	bestSeconds := 0
	for ap, secs := range dwell.PerAP {
		if secs >= bestSeconds {
			best = ap
			bestSeconds = secs
		}
	}
	share := 0.0
	if dwell.TotalSeconds > 0 {
		share = float64(bestSeconds) / float64(dwell.TotalSeconds)
	}

	w.mu.Lock()
	sessions := 0
	apMac := ""
	for _, e := range w.history[id] {
		if e.APName == best {
			sessions++
			apMac = e.APMac
		}
	}
	w.mu.Unlock()

	return models.FavoriteAPResponse{
		DeviceID:    id,
		APName:      best,
		APMac:       apMac,
		Sessions:    sessions,
		ShareOfTime: share,
	}
}

func (w *World) PresencePattern(id int) models.PresencePatternResponse {
	w.mu.Lock()
	defer w.mu.Unlock()

	var pattern [7][24]int
	for _, e := range w.history[id] {
		day := int(e.ConnectedAt.Weekday())
		hour := e.ConnectedAt.Hour()
		pattern[day][hour]++
	}
	return models.PresencePatternResponse{DeviceID: id, Pattern: pattern}
}

// Discover lista los clientes visibles del controlador ficticio
func (w *World) Discover() models.UniFiClientsResponse {
	w.mu.Lock()
	defer w.mu.Unlock()

	clients := make([]models.UniFiClientInfo, 0, len(w.devices)+2)
	for _, d := range w.devices {
		clients = append(clients, models.UniFiClientInfo{
			MACAddress: d.MACAddress,
			Name:       d.FriendlyName,
			Hostname:   d.FriendlyName,
			IsTracked:  true,
		})
	}
	clients = append(clients, models.UniFiClientInfo{
		MACAddress: "11:22:33:44:55:99",
		Name:       "Visitante",
		Hostname:   "android-guest",
		IsTracked:  false,
	})
	return models.UniFiClientsResponse{Clients: clients, Total: len(clients)}
}

// Webhooks CRUD

func (w *World) ListWebhooks() models.WebhooksListResponse {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]models.WebhookConfig, 0, len(w.webhooks))
	for _, wh := range w.webhooks {
		out = append(out, *wh)
	}
	return models.WebhooksListResponse{Webhooks: out, Total: len(out)}
}

func (w *World) CreateWebhook(create models.WebhookCreate) models.WebhookConfig {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextWebhookID++
	wh := &models.WebhookConfig{
		ID:                      w.nextWebhookID,
		Name:                    create.Name,
		URL:                     create.URL,
		WebhookType:             create.WebhookType,
		EventDeviceConnected:    create.EventDeviceConnected,
		EventDeviceDisconnected: create.EventDeviceDisconnected,
		EventDeviceRoamed:       create.EventDeviceRoamed,
		EventDeviceBlocked:      create.EventDeviceBlocked,
		EventDeviceUnblocked:    create.EventDeviceUnblocked,
		Enabled:                 create.Enabled,
		CreatedAt:               time.Now(),
	}
	w.webhooks = append(w.webhooks, wh)
	return *wh
}

func (w *World) UpdateWebhook(id int, update models.WebhookUpdate) (models.WebhookConfig, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, wh := range w.webhooks {
		if wh.ID != id {
			continue
		}
		if update.Name != nil {
			wh.Name = *update.Name
		}
		if update.URL != nil {
			wh.URL = *update.URL
		}
		if update.Enabled != nil {
			wh.Enabled = *update.Enabled
		}
		if update.EventDeviceConnected != nil {
			wh.EventDeviceConnected = *update.EventDeviceConnected
		}
		if update.EventDeviceDisconnected != nil {
			wh.EventDeviceDisconnected = *update.EventDeviceDisconnected
		}
		if update.EventDeviceRoamed != nil {
			wh.EventDeviceRoamed = *update.EventDeviceRoamed
		}
		if update.EventDeviceBlocked != nil {
			wh.EventDeviceBlocked = *update.EventDeviceBlocked
		}
		if update.EventDeviceUnblocked != nil {
			wh.EventDeviceUnblocked = *update.EventDeviceUnblocked
		}
		return *wh, true
	}
	return models.WebhookConfig{}, false
}

func (w *World) DeleteWebhook(id int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, wh := range w.webhooks {
		if wh.ID == id {
			w.webhooks = append(w.webhooks[:i], w.webhooks[i+1:]...)
			return true
		}
	}
	return false
}

func (w *World) HasWebhook(id int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, wh := range w.webhooks {
		if wh.ID == id {
			return true
		}
	}
	return false
}

func (w *World) PulseStatus() models.PulseStatus {
	w.mu.Lock()
	defer w.mu.Unlock()

	refresh := w.lastRefresh
	return models.PulseStatus{LastRefresh: &refresh, IsConnected: true}
}
