package api

import "time"

// Rutas relativas de la API del stalker (se montan bajo backend.stalker_path)
const (
	EndpointDevices  = "/devices"
	EndpointStatus   = "/status"
	EndpointWebhooks = "/webhooks"
)

// Rutas relativas de la API del pulse (se montan bajo backend.pulse_path)
const (
	EndpointPulseDashboard = "/dashboard"
	EndpointPulseStatus    = "/status"
)

// SuccessResponse representa la respuesta genérica de éxito del backend
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorEnvelope representa la envoltura de error del backend.
// El campo Error es el mensaje de detalle que se muestra al usuario
// cuando está disponible.
type ErrorEnvelope struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// APIError representa un error devuelto por la API del backend
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Timestamp  time.Time

	// sentinel conserva la identidad del error de familia cuando el mensaje
	// viene del servidor, para que errors.Is siga funcionando
	sentinel *APIError
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	if e.sentinel == nil {
		return nil
	}
	return e.sentinel
}

// Errores específicos de la API
var (
	// Errores de dispositivos
	ErrDeviceNoEncontrado = &APIError{StatusCode: 404, Message: "Dispositivo no encontrado"}
	ErrMACInvalida        = &APIError{StatusCode: 400, Message: "Dirección MAC inválida"}
	ErrDeviceDuplicado    = &APIError{StatusCode: 409, Message: "El dispositivo ya está siendo rastreado"}
	ErrControladorCaido   = &APIError{StatusCode: 503, Message: "Sin conexión con el controlador UniFi"}

	// Errores de webhooks
	ErrWebhookNoEncontrado = &APIError{StatusCode: 404, Message: "Webhook no encontrado"}
	ErrWebhookTipoInvalido = &APIError{StatusCode: 400, Message: "Tipo de webhook inválido (slack, discord, n8n)"}
	ErrWebhookTestFallido  = &APIError{StatusCode: 502, Message: "El webhook de prueba no respondió correctamente"}

	// Error interno genérico
	ErrBackendInterno = &APIError{StatusCode: 500, Message: "Error interno del backend"}
)

// errorFamily asocia cada código de estado con el centinela de su familia de
// endpoints. Los códigos sin centinela caen en el *APIError genérico.
type errorFamily struct {
	badRequest  *APIError
	notFound    *APIError
	conflict    *APIError
	unavailable *APIError
	badGateway  *APIError
}

var (
	deviceErrors = errorFamily{
		badRequest:  ErrMACInvalida,
		notFound:    ErrDeviceNoEncontrado,
		conflict:    ErrDeviceDuplicado,
		unavailable: ErrControladorCaido,
	}
	webhookErrors = errorFamily{
		badRequest:  ErrWebhookTipoInvalido,
		notFound:    ErrWebhookNoEncontrado,
		unavailable: ErrControladorCaido,
		badGateway:  ErrWebhookTestFallido,
	}
	pulseErrors = errorFamily{
		unavailable: ErrControladorCaido,
	}
)
