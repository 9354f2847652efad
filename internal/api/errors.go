package api

import (
	"errors"
	"fmt"
)

// IsRetryable indica si el error es transitorio y vale la pena reintentar.
// Los fallos de red (no *APIError) y los 5xx/503 se consideran transitorios;
// los 4xx son definitivos hasta que el usuario corrija la solicitud.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 503
	}

	// Error de transporte (timeout, conexión rechazada, etc.)
	return true
}

// FormatError produce un mensaje legible para la notificación transitoria,
// con el detalle del servidor cuando está disponible
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Endpoint != "" {
			return fmt.Sprintf("[%d] %s (%s)", apiErr.StatusCode, apiErr.Message, apiErr.Endpoint)
		}
		return fmt.Sprintf("[%d] %s", apiErr.StatusCode, apiErr.Message)
	}

	return fmt.Sprintf("Error de conexión con el backend: %v", err)
}
