package models

import (
	"encoding/json"
	"fmt"
)

// Tipos de mensaje push reconocidos. El servidor envía un objeto JSON con el
// discriminador "type"; cualquier otro valor se clasifica como UnknownMessage
// y se ignora sin error.
const (
	MsgTypeDeviceUpdate = "device_update"
	MsgTypeStatusUpdate = "status_update"
	MsgTypeStatsUpdate  = "stats_update"
	MsgTypePong         = "pong"
)

// PushMessage es el conjunto cerrado de variantes de mensajes push.
// Los handlers hacen type-switch exhaustivo con brazo explícito para
// UnknownMessage.
type PushMessage interface {
	pushMessage()
}

// DeviceUpdateMessage transporta una actualización parcial de un dispositivo
type DeviceUpdateMessage struct {
	Device DeviceUpdate
}

// StatusUpdateMessage transporta los agregados escalares del Stalker
type StatusUpdateMessage struct {
	Status SystemStatus
}

// StatsUpdateMessage transporta el snapshot completo del Pulse
type StatsUpdateMessage struct {
	Data DashboardData
}

// PongMessage es el acuse del keepalive (sin payload)
type PongMessage struct{}

// UnknownMessage representa un discriminador no reconocido; se conserva el
// tipo original para poder loggearlo
type UnknownMessage struct {
	Type string
}

func (DeviceUpdateMessage) pushMessage() {}
func (StatusUpdateMessage) pushMessage() {}
func (StatsUpdateMessage) pushMessage()  {}
func (PongMessage) pushMessage()         {}
func (UnknownMessage) pushMessage()      {}

// envelope es la envoltura cruda del mensaje push
type envelope struct {
	Type   string          `json:"type"`
	Device json.RawMessage `json:"device,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// ParsePushMessage decodifica un mensaje push crudo en su variante tipada.
// Un payload malformado devuelve error (el mensaje se descarta y se loggea,
// nunca tumba la conexión).
func ParsePushMessage(raw []byte) (PushMessage, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("error parseando envoltura push: %w", err)
	}

	switch env.Type {
	case MsgTypeDeviceUpdate:
		var upd DeviceUpdate
		payload := env.Device
		if payload == nil {
			payload = env.Data
		}
		if err := json.Unmarshal(payload, &upd); err != nil {
			return nil, fmt.Errorf("error parseando device_update: %w", err)
		}
		if upd.MACAddress == "" {
			return nil, fmt.Errorf("device_update sin mac_address")
		}
		return DeviceUpdateMessage{Device: upd}, nil

	case MsgTypeStatusUpdate:
		var st SystemStatus
		if err := json.Unmarshal(env.Data, &st); err != nil {
			return nil, fmt.Errorf("error parseando status_update: %w", err)
		}
		return StatusUpdateMessage{Status: st}, nil

	case MsgTypeStatsUpdate:
		var data DashboardData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("error parseando stats_update: %w", err)
		}
		return StatsUpdateMessage{Data: data}, nil

	case MsgTypePong:
		return PongMessage{}, nil

	default:
		return UnknownMessage{Type: env.Type}, nil
	}
}
