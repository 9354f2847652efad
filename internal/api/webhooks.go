package api

import (
	"context"
	"fmt"
	"net/http"

	"PANEL-UNIFI/internal/models"
)

// ListWebhooks obtiene todas las configuraciones de webhook
func (c *Client) ListWebhooks(ctx context.Context) (*models.WebhooksListResponse, error) {
	var out models.WebhooksListResponse
	if err := c.doJSON(ctx, http.MethodGet, c.stalkerURL(EndpointWebhooks), webhookErrors, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateWebhook da de alta una configuración de webhook
func (c *Client) CreateWebhook(ctx context.Context, create models.WebhookCreate) (*models.WebhookConfig, error) {
	switch create.WebhookType {
	case "slack", "discord", "n8n":
		// tipos soportados
	default:
		return nil, ErrWebhookTipoInvalido
	}

	var out models.WebhookConfig
	if err := c.doJSON(ctx, http.MethodPost, c.stalkerURL(EndpointWebhooks), webhookErrors, create, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateWebhook modifica parcialmente una configuración de webhook
func (c *Client) UpdateWebhook(ctx context.Context, webhookID int, update models.WebhookUpdate) (*models.WebhookConfig, error) {
	url := fmt.Sprintf("%s/%d", c.stalkerURL(EndpointWebhooks), webhookID)
	var out models.WebhookConfig
	if err := c.doJSON(ctx, http.MethodPut, url, webhookErrors, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteWebhook elimina una configuración de webhook
func (c *Client) DeleteWebhook(ctx context.Context, webhookID int) error {
	url := fmt.Sprintf("%s/%d", c.stalkerURL(EndpointWebhooks), webhookID)
	return c.doJSON(ctx, http.MethodDelete, url, webhookErrors, nil, nil)
}

// TestWebhook dispara una notificación de prueba hacia el webhook
func (c *Client) TestWebhook(ctx context.Context, webhookID int) error {
	url := fmt.Sprintf("%s/%d/test", c.stalkerURL(EndpointWebhooks), webhookID)
	return c.doJSON(ctx, http.MethodPost, url, webhookErrors, nil, nil)
}
