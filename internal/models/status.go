package models

import "time"

// SystemStatus representa los campos agregados escalares del dashboard
// Stalker (contadores + timestamp + intervalo configurado). El reconciliador
// los sobrescribe completos sin tocar los registros de dispositivos.
type SystemStatus struct {
	LastRefresh            *time.Time `json:"last_refresh"`
	TrackedDevices         int        `json:"tracked_devices"`
	ConnectedDevices       int        `json:"connected_devices"`
	RefreshIntervalSeconds int        `json:"refresh_interval_seconds"`
}

// GatewayStats representa la salud del gateway (dashboard Pulse)
type GatewayStats struct {
	Model          string  `json:"model"`
	Name           string  `json:"name"`
	Version        string  `json:"version"`
	Uptime         int64   `json:"uptime"`
	CPUUtilization float64 `json:"cpu_utilization"`
	MemUtilization float64 `json:"mem_utilization"`
	WANStatus      string  `json:"wan_status"`
	WANIP          string  `json:"wan_ip"`
}

// WANHealth representa la salud del enlace WAN
type WANHealth struct {
	Status       string  `json:"status"`
	WANIP        string  `json:"wan_ip"`
	ISPName      string  `json:"isp_name"`
	Availability float64 `json:"availability"`
	Latency      float64 `json:"latency"`
	TxBytesRate  int64   `json:"tx_bytes_rate"`
	RxBytesRate  int64   `json:"rx_bytes_rate"`
}

// APStatus representa el estado de un punto de acceso
type APStatus struct {
	Mac          string `json:"mac"`
	Name         string `json:"name"`
	Model        string `json:"model"`
	NumSta       int    `json:"num_sta"`
	Channels     string `json:"channels"`
	State        int    `json:"state"` // 1 = online, 0 = offline
	Uptime       int64  `json:"uptime"`
	Satisfaction int    `json:"satisfaction"`
	TxBytes      int64  `json:"tx_bytes"`
	RxBytes      int64  `json:"rx_bytes"`
}

// TopClient representa un cliente ordenado por ancho de banda
type TopClient struct {
	Mac        string `json:"mac"`
	Name       string `json:"name"`
	Hostname   string `json:"hostname"`
	IP         string `json:"ip"`
	TxBytes    int64  `json:"tx_bytes"`
	RxBytes    int64  `json:"rx_bytes"`
	TotalBytes int64  `json:"total_bytes"`
	RSSI       int    `json:"rssi"`
	IsWired    bool   `json:"is_wired"`
	ESSID      string `json:"essid"`
	Radio      string `json:"radio"` // "2.4 GHz", "5 GHz", "6 GHz" o "" para cableado
	APMac      string `json:"ap_mac"`
}

// DeviceCounts representa el resumen de conteos de la red
type DeviceCounts struct {
	Clients         int `json:"clients"`
	WiredClients    int `json:"wired_clients"`
	WirelessClients int `json:"wireless_clients"`
	APs             int `json:"aps"`
	Switches        int `json:"switches"`
}

// ChartData contiene los agregados listos para graficar
type ChartData struct {
	ClientsByBand map[string]int `json:"clients_by_band"`
	ClientsBySSID map[string]int `json:"clients_by_ssid"`
}

// DashboardData representa el snapshot completo del dashboard Pulse.
// Llega entero tanto por push (stats_update) como por poll fallback.
type DashboardData struct {
	Gateway         GatewayStats `json:"gateway"`
	WAN             WANHealth    `json:"wan"`
	Devices         DeviceCounts `json:"devices"`
	CurrentTxRate   int64        `json:"current_tx_rate"`
	CurrentRxRate   int64        `json:"current_rx_rate"`
	AccessPoints    []APStatus   `json:"access_points"`
	TopClients      []TopClient  `json:"top_clients"`
	ChartData       ChartData    `json:"chart_data"`
	LastRefresh     *time.Time   `json:"last_refresh"`
	RefreshInterval int          `json:"refresh_interval"`
}

// PulseStatus representa el estado del colector de métricas
type PulseStatus struct {
	LastRefresh *time.Time `json:"last_refresh"`
	IsConnected bool       `json:"is_connected"`
	Error       string     `json:"error,omitempty"`
}
