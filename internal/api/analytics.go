package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"PANEL-UNIFI/internal/models"
)

// GetDeviceDetails obtiene el detalle ampliado con datos vivos del controlador
func (c *Client) GetDeviceDetails(ctx context.Context, deviceID int) (*models.DeviceDetail, error) {
	url := fmt.Sprintf("%s/%d/details", c.stalkerURL(EndpointDevices), deviceID)
	var out models.DeviceDetail
	if err := c.doJSON(ctx, http.MethodGet, url, deviceErrors, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDwellTime obtiene el tiempo de permanencia por AP
func (c *Client) GetDwellTime(ctx context.Context, deviceID int) (*models.DwellTimeResponse, error) {
	url := fmt.Sprintf("%s/%d/analytics/dwell-time", c.stalkerURL(EndpointDevices), deviceID)
	var out models.DwellTimeResponse
	if err := c.doJSON(ctx, http.MethodGet, url, deviceErrors, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFavoriteAP obtiene el AP más frecuentado del dispositivo
func (c *Client) GetFavoriteAP(ctx context.Context, deviceID int) (*models.FavoriteAPResponse, error) {
	url := fmt.Sprintf("%s/%d/analytics/favorite-ap", c.stalkerURL(EndpointDevices), deviceID)
	var out models.FavoriteAPResponse
	if err := c.doJSON(ctx, http.MethodGet, url, deviceErrors, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPresencePattern obtiene el patrón de presencia semanal
func (c *Client) GetPresencePattern(ctx context.Context, deviceID int) (*models.PresencePatternResponse, error) {
	url := fmt.Sprintf("%s/%d/analytics/presence-pattern", c.stalkerURL(EndpointDevices), deviceID)
	var out models.PresencePatternResponse
	if err := c.doJSON(ctx, http.MethodGet, url, deviceErrors, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchAnalytics lanza las tres consultas de analítica en paralelo y las
// espera conjuntamente. Un fallo individual deja su campo en nil sin abortar
// las demás; solo si las tres fallan se retorna el primer error.
func (c *Client) FetchAnalytics(ctx context.Context, deviceID int) (*models.DeviceAnalytics, error) {
	result := &models.DeviceAnalytics{}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	failures := 0

	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		failures++
		if firstErr == nil {
			firstErr = err
		}
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		dwell, err := c.GetDwellTime(ctx, deviceID)
		if err != nil {
			record(err)
			return
		}
		mu.Lock()
		result.DwellTime = dwell
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		fav, err := c.GetFavoriteAP(ctx, deviceID)
		if err != nil {
			record(err)
			return
		}
		mu.Lock()
		result.FavoriteAP = fav
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		pattern, err := c.GetPresencePattern(ctx, deviceID)
		if err != nil {
			record(err)
			return
		}
		mu.Lock()
		result.PresencePattern = pattern
		mu.Unlock()
	}()
	wg.Wait()

	if failures == 3 {
		return nil, firstErr
	}
	return result, nil
}
