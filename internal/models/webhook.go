package models

import "time"

// WebhookConfig representa una configuración de notificación webhook
// (Slack, Discord o n8n) gestionada desde el dashboard Stalker
type WebhookConfig struct {
	ID                      int        `json:"id"`
	Name                    string     `json:"name"`
	WebhookType             string     `json:"webhook_type"` // 'slack', 'discord', 'n8n'
	URL                     string     `json:"url"`
	EventDeviceConnected    bool       `json:"event_device_connected"`
	EventDeviceDisconnected bool       `json:"event_device_disconnected"`
	EventDeviceRoamed       bool       `json:"event_device_roamed"`
	EventDeviceBlocked      bool       `json:"event_device_blocked"`
	EventDeviceUnblocked    bool       `json:"event_device_unblocked"`
	Enabled                 bool       `json:"enabled"`
	CreatedAt               time.Time  `json:"created_at"`
	LastTriggered           *time.Time `json:"last_triggered"`
}

// WebhookCreate representa la solicitud de alta de un webhook
type WebhookCreate struct {
	Name                    string `json:"name"`
	WebhookType             string `json:"webhook_type"`
	URL                     string `json:"url"`
	EventDeviceConnected    bool   `json:"event_device_connected"`
	EventDeviceDisconnected bool   `json:"event_device_disconnected"`
	EventDeviceRoamed       bool   `json:"event_device_roamed"`
	EventDeviceBlocked      bool   `json:"event_device_blocked"`
	EventDeviceUnblocked    bool   `json:"event_device_unblocked"`
	Enabled                 bool   `json:"enabled"`
}

// WebhookUpdate representa una modificación parcial de un webhook.
// Igual que DeviceUpdate: solo los campos no-nil sobrescriben.
type WebhookUpdate struct {
	Name                    *string `json:"name,omitempty"`
	URL                     *string `json:"url,omitempty"`
	EventDeviceConnected    *bool   `json:"event_device_connected,omitempty"`
	EventDeviceDisconnected *bool   `json:"event_device_disconnected,omitempty"`
	EventDeviceRoamed       *bool   `json:"event_device_roamed,omitempty"`
	EventDeviceBlocked      *bool   `json:"event_device_blocked,omitempty"`
	EventDeviceUnblocked    *bool   `json:"event_device_unblocked,omitempty"`
	Enabled                 *bool   `json:"enabled,omitempty"`
}

// WebhooksListResponse representa el listado de webhooks configurados
type WebhooksListResponse struct {
	Webhooks []WebhookConfig `json:"webhooks"`
	Total    int             `json:"total"`
}
