package api

import (
	"context"
	"net/http"

	"PANEL-UNIFI/internal/models"
)

// GetDashboard obtiene el snapshot completo del dashboard Pulse
func (c *Client) GetDashboard(ctx context.Context) (*models.DashboardData, error) {
	var out models.DashboardData
	if err := c.doJSON(ctx, http.MethodGet, c.pulseURL(EndpointPulseDashboard), pulseErrors, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPulseStatus obtiene el estado del colector de métricas
func (c *Client) GetPulseStatus(ctx context.Context) (*models.PulseStatus, error) {
	var out models.PulseStatus
	if err := c.doJSON(ctx, http.MethodGet, c.pulseURL(EndpointPulseStatus), pulseErrors, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
