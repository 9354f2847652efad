package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"PANEL-UNIFI/internal/models"
)

// Client es el cliente HTTP para la API de los dashboards UniFi.
// Un mismo cliente sirve a ambos dashboards; los prefijos de ruta
// difieren por dashboard (contrato del backend).
type Client struct {
	baseURL       string
	stalkerPrefix string
	pulsePrefix   string
	httpClient    *http.Client
}

// NewClient crea una nueva instancia del cliente de la API
func NewClient(baseURL, stalkerPrefix, pulsePrefix string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:       baseURL,
		stalkerPrefix: stalkerPrefix,
		pulsePrefix:   pulsePrefix,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// doJSON ejecuta una petición y deserializa la respuesta 200 en out.
// Cualquier código no exitoso se convierte en el *APIError de la familia
// dada, usando el mensaje de detalle del backend cuando viene en la
// envoltura de error.
func (c *Client) doJSON(ctx context.Context, method, url string, fam errorFamily, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("error serializando payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("error creando request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error ejecutando request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error leyendo respuesta: %w", err)
	}

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("error deserializando respuesta: %w", err)
		}
		return nil
	}

	return c.mapError(resp.StatusCode, respBody, url, fam)
}

// mapError clasifica un código de estado en el centinela de la familia de
// endpoints. Si el servidor envió detalle, el error retornado lo lleva como
// mensaje y envuelve al centinela para errors.Is.
func (c *Client) mapError(statusCode int, body []byte, endpoint string, fam errorFamily) error {
	var env ErrorEnvelope
	detail := ""
	if err := json.Unmarshal(body, &env); err == nil && env.Error != "" {
		detail = env.Error
		if env.Details != "" {
			detail = fmt.Sprintf("%s: %s", env.Error, env.Details)
		}
	}

	var sentinel *APIError
	switch statusCode {
	case http.StatusBadRequest:
		sentinel = fam.badRequest
	case http.StatusNotFound:
		sentinel = fam.notFound
	case http.StatusConflict:
		sentinel = fam.conflict
	case http.StatusServiceUnavailable:
		sentinel = fam.unavailable
	case http.StatusBadGateway:
		sentinel = fam.badGateway
	case http.StatusInternalServerError:
		sentinel = ErrBackendInterno
	}

	if sentinel == nil {
		msg := detail
		if msg == "" {
			msg = string(body)
		}
		return &APIError{
			StatusCode: statusCode,
			Message:    msg,
			Endpoint:   endpoint,
			Timestamp:  time.Now(),
		}
	}

	if detail == "" {
		return sentinel
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    detail,
		Endpoint:   endpoint,
		Timestamp:  time.Now(),
		sentinel:   sentinel,
	}
}

func (c *Client) stalkerURL(path string) string {
	return c.baseURL + c.stalkerPrefix + path
}

func (c *Client) pulseURL(path string) string {
	return c.baseURL + c.pulsePrefix + path
}

// ListDevices obtiene el listado completo de dispositivos rastreados
func (c *Client) ListDevices(ctx context.Context) (*models.DeviceListResponse, error) {
	var out models.DeviceListResponse
	if err := c.doJSON(ctx, http.MethodGet, c.stalkerURL(EndpointDevices), deviceErrors, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStatus obtiene los agregados escalares del sistema (contadores + timestamp)
func (c *Client) GetStatus(ctx context.Context) (*models.SystemStatus, error) {
	var out models.SystemStatus
	if err := c.doJSON(ctx, http.MethodGet, c.stalkerURL(EndpointStatus), deviceErrors, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDevice registra un dispositivo nuevo para rastreo.
// La MAC se normaliza en el cliente antes de enviar.
func (c *Client) CreateDevice(ctx context.Context, create models.DeviceCreate) (*models.TrackedDevice, error) {
	mac, err := models.NormalizeMAC(create.MACAddress)
	if err != nil {
		return nil, ErrMACInvalida
	}
	create.MACAddress = mac

	var out models.TrackedDevice
	if err := c.doJSON(ctx, http.MethodPost, c.stalkerURL(EndpointDevices), deviceErrors, create, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDevice obtiene un dispositivo por ID
func (c *Client) GetDevice(ctx context.Context, deviceID int) (*models.TrackedDevice, error) {
	url := fmt.Sprintf("%s/%d", c.stalkerURL(EndpointDevices), deviceID)
	var out models.TrackedDevice
	if err := c.doJSON(ctx, http.MethodGet, url, deviceErrors, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDevice elimina un dispositivo del rastreo
func (c *Client) DeleteDevice(ctx context.Context, deviceID int) error {
	url := fmt.Sprintf("%s/%d", c.stalkerURL(EndpointDevices), deviceID)
	return c.doJSON(ctx, http.MethodDelete, url, deviceErrors, nil, nil)
}

// BlockDevice bloquea el dispositivo en el controlador
func (c *Client) BlockDevice(ctx context.Context, deviceID int) error {
	url := fmt.Sprintf("%s/%d/block", c.stalkerURL(EndpointDevices), deviceID)
	return c.doJSON(ctx, http.MethodPost, url, deviceErrors, nil, nil)
}

// UnblockDevice desbloquea el dispositivo en el controlador
func (c *Client) UnblockDevice(ctx context.Context, deviceID int) error {
	url := fmt.Sprintf("%s/%d/unblock", c.stalkerURL(EndpointDevices), deviceID)
	return c.doJSON(ctx, http.MethodPost, url, deviceErrors, nil, nil)
}

// GetHistory obtiene el historial de conexiones de un dispositivo
func (c *Client) GetHistory(ctx context.Context, deviceID int) (*models.HistoryListResponse, error) {
	url := fmt.Sprintf("%s/%d/history", c.stalkerURL(EndpointDevices), deviceID)
	var out models.HistoryListResponse
	if err := c.doJSON(ctx, http.MethodGet, url, deviceErrors, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportHistory descarga el historial como CSV y lo escribe en w.
// Retorna el número de bytes escritos.
func (c *Client) ExportHistory(ctx context.Context, deviceID int, w io.Writer) (int64, error) {
	url := fmt.Sprintf("%s/%d/history/export", c.stalkerURL(EndpointDevices), deviceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("error creando request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error ejecutando request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, c.mapError(resp.StatusCode, body, url, deviceErrors)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("error escribiendo export: %w", err)
	}
	return n, nil
}

// DiscoverClients lista los clientes visibles en el controlador, marcando
// cuáles ya están rastreados
func (c *Client) DiscoverClients(ctx context.Context) (*models.UniFiClientsResponse, error) {
	url := c.stalkerURL(EndpointDevices) + "/discover/unifi"
	var out models.UniFiClientsResponse
	if err := c.doJSON(ctx, http.MethodGet, url, deviceErrors, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Close cierra las conexiones del cliente
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
