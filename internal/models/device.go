package models

import (
	"fmt"
	"strings"
	"time"
)

// TrackedDevice representa un dispositivo rastreado en el dashboard Stalker.
// La clave estable es la dirección MAC normalizada; el ViewModel garantiza
// como máximo un registro por MAC.
type TrackedDevice struct {
	ID                    int        `json:"id"`
	MACAddress            string     `json:"mac_address"`
	FriendlyName          string     `json:"friendly_name"`
	IsConnected           bool       `json:"is_connected"`
	IsBlocked             bool       `json:"is_blocked"`
	IsWired               bool       `json:"is_wired"`
	CurrentAPMac          string     `json:"current_ap_mac"`
	CurrentAPName         string     `json:"current_ap_name"`
	CurrentIPAddress      string     `json:"current_ip_address"`
	CurrentSignalStrength int        `json:"current_signal_strength"`
	CurrentRadio          string     `json:"current_radio"`
	CurrentSSID           string     `json:"current_ssid"`
	CurrentSwitchMac      string     `json:"current_switch_mac"`
	CurrentSwitchName     string     `json:"current_switch_name"`
	CurrentSwitchPort     int        `json:"current_switch_port"`
	LastSeen              *time.Time `json:"last_seen"`
	AddedAt               *time.Time `json:"added_at"`
	SiteID                string     `json:"site_id"`
}

// DeviceUpdate representa una actualización parcial empujada por el servidor.
// Los campos puntero ausentes en el JSON quedan en nil y NO sobrescriben el
// valor almacenado; el contrato de qué campos son actualizables es exactamente
// la lista de punteros de esta estructura.
type DeviceUpdate struct {
	ID                    int        `json:"id"`
	MACAddress            string     `json:"mac_address"`
	FriendlyName          *string    `json:"friendly_name,omitempty"`
	IsConnected           *bool      `json:"is_connected,omitempty"`
	IsBlocked             *bool      `json:"is_blocked,omitempty"`
	IsWired               *bool      `json:"is_wired,omitempty"`
	CurrentAPMac          *string    `json:"current_ap_mac,omitempty"`
	CurrentAPName         *string    `json:"current_ap_name,omitempty"`
	CurrentIPAddress      *string    `json:"current_ip_address,omitempty"`
	CurrentSignalStrength *int       `json:"current_signal_strength,omitempty"`
	CurrentRadio          *string    `json:"current_radio,omitempty"`
	CurrentSSID           *string    `json:"current_ssid,omitempty"`
	CurrentSwitchMac      *string    `json:"current_switch_mac,omitempty"`
	CurrentSwitchName     *string    `json:"current_switch_name,omitempty"`
	CurrentSwitchPort     *int       `json:"current_switch_port,omitempty"`
	LastSeen              *time.Time `json:"last_seen,omitempty"`
}

// Merge aplica la actualización parcial sobre el registro existente,
// campo por campo. Los campos nil se preservan.
func (d *TrackedDevice) Merge(u DeviceUpdate) {
	if u.ID != 0 {
		d.ID = u.ID
	}
	if u.FriendlyName != nil {
		d.FriendlyName = *u.FriendlyName
	}
	if u.IsConnected != nil {
		d.IsConnected = *u.IsConnected
	}
	if u.IsBlocked != nil {
		d.IsBlocked = *u.IsBlocked
	}
	if u.IsWired != nil {
		d.IsWired = *u.IsWired
	}
	if u.CurrentAPMac != nil {
		d.CurrentAPMac = *u.CurrentAPMac
	}
	if u.CurrentAPName != nil {
		d.CurrentAPName = *u.CurrentAPName
	}
	if u.CurrentIPAddress != nil {
		d.CurrentIPAddress = *u.CurrentIPAddress
	}
	if u.CurrentSignalStrength != nil {
		d.CurrentSignalStrength = *u.CurrentSignalStrength
	}
	if u.CurrentRadio != nil {
		d.CurrentRadio = *u.CurrentRadio
	}
	if u.CurrentSSID != nil {
		d.CurrentSSID = *u.CurrentSSID
	}
	if u.CurrentSwitchMac != nil {
		d.CurrentSwitchMac = *u.CurrentSwitchMac
	}
	if u.CurrentSwitchName != nil {
		d.CurrentSwitchName = *u.CurrentSwitchName
	}
	if u.CurrentSwitchPort != nil {
		d.CurrentSwitchPort = *u.CurrentSwitchPort
	}
	if u.LastSeen != nil {
		d.LastSeen = u.LastSeen
	}
}

// NewFromUpdate construye un registro nuevo a partir de una actualización
// parcial (caso "dispositivo descubierto" por push antes del snapshot).
func NewFromUpdate(u DeviceUpdate) *TrackedDevice {
	d := &TrackedDevice{
		ID:         u.ID,
		MACAddress: u.MACAddress,
		SiteID:     "default",
	}
	d.Merge(u)
	return d
}

// NormalizeMAC normaliza una dirección MAC al formato aa:bb:cc:dd:ee:ff.
// Acepta separadores ':', '-', '.' o ninguno.
func NormalizeMAC(mac string) (string, error) {
	var clean strings.Builder
	for _, r := range mac {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f':
			clean.WriteRune(r)
		case r >= 'A' && r <= 'F':
			clean.WriteRune(r + ('a' - 'A'))
		case r == ':' || r == '-' || r == '.':
			// separadores válidos, se descartan
		default:
			return "", fmt.Errorf("dirección MAC inválida: caracter '%c'", r)
		}
	}
	s := clean.String()
	if len(s) != 12 {
		return "", fmt.Errorf("dirección MAC inválida: longitud %d (esperado 12 hex)", len(s))
	}
	parts := make([]string, 0, 6)
	for i := 0; i < 12; i += 2 {
		parts = append(parts, s[i:i+2])
	}
	return strings.Join(parts, ":"), nil
}

// DeviceCreate representa la solicitud para registrar un dispositivo nuevo
type DeviceCreate struct {
	MACAddress   string `json:"mac_address"`
	FriendlyName string `json:"friendly_name,omitempty"`
	SiteID       string `json:"site_id,omitempty"`
}

// DeviceListResponse representa la respuesta del listado de dispositivos
type DeviceListResponse struct {
	Devices []TrackedDevice `json:"devices"`
	Total   int             `json:"total"`
}

// DeviceDetail amplía el registro con datos vivos del controlador
// (solo se consulta al abrir la vista de detalle)
type DeviceDetail struct {
	TrackedDevice
	Hostname     string  `json:"hostname"`
	Manufacturer string  `json:"manufacturer"`
	TxRate       float64 `json:"tx_rate"`
	RxRate       float64 `json:"rx_rate"`
	Channel      int     `json:"channel"`
	Uptime       int64   `json:"uptime"`
	TxBytes      int64   `json:"tx_bytes"`
	RxBytes      int64   `json:"rx_bytes"`
}

// HistoryEntry representa una entrada del historial de conexiones
type HistoryEntry struct {
	ID              int        `json:"id"`
	DeviceID        int        `json:"device_id"`
	APMac           string     `json:"ap_mac"`
	APName          string     `json:"ap_name"`
	SSID            string     `json:"ssid"`
	ConnectedAt     time.Time  `json:"connected_at"`
	DisconnectedAt  *time.Time `json:"disconnected_at"`
	DurationSeconds int        `json:"duration_seconds"`
	SignalStrength  int        `json:"signal_strength"`
	IsWired         bool       `json:"is_wired"`
}

// HistoryListResponse representa la respuesta del historial de un dispositivo
type HistoryListResponse struct {
	DeviceID int            `json:"device_id"`
	History  []HistoryEntry `json:"history"`
	Total    int            `json:"total"`
}

// UniFiClientInfo representa un cliente descubierto en el controlador
type UniFiClientInfo struct {
	MACAddress string `json:"mac_address"`
	Name       string `json:"name"`
	Hostname   string `json:"hostname"`
	IsTracked  bool   `json:"is_tracked"`
}

// UniFiClientsResponse representa el listado de clientes descubiertos
type UniFiClientsResponse struct {
	Clients []UniFiClientInfo `json:"clients"`
	Total   int               `json:"total"`
}
