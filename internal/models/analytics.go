package models

// Respuestas de los tres endpoints de analítica por dispositivo.
// El core NO calcula nada de esto: solo lo consulta y lo muestra
// (el cálculo vive en el backend).

// DwellTimeResponse representa el tiempo de permanencia por AP
type DwellTimeResponse struct {
	DeviceID     int            `json:"device_id"`
	TotalSeconds int64          `json:"total_seconds"`
	PerAP        map[string]int `json:"per_ap"` // nombre de AP → segundos
}

// FavoriteAPResponse representa el AP más frecuentado
type FavoriteAPResponse struct {
	DeviceID    int     `json:"device_id"`
	APName      string  `json:"ap_name"`
	APMac       string  `json:"ap_mac"`
	Sessions    int     `json:"sessions"`
	ShareOfTime float64 `json:"share_of_time"` // fracción 0..1
}

// PresencePatternResponse representa el patrón de presencia semanal
// (minutos conectado por franja día-hora, para el heat map)
type PresencePatternResponse struct {
	DeviceID int             `json:"device_id"`
	Pattern  [7][24]int      `json:"pattern"` // [día][hora] → minutos
}

// DeviceAnalytics agrupa las tres respuestas que la vista de detalle
// solicita en paralelo y espera conjuntamente
type DeviceAnalytics struct {
	DwellTime       *DwellTimeResponse
	FavoriteAP      *FavoriteAPResponse
	PresencePattern *PresencePatternResponse
}
