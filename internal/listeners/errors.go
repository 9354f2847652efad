package listeners

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse es la envoltura estándar de error del backend. El cliente
// del panel muestra el campo "error" al usuario cuando viene presente.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse es la envoltura estándar de las operaciones sin payload
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// BadRequest - Error 400
func BadRequest(c *gin.Context, message, details string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Details: details})
}

// NotFound - Error 404
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: message})
}

// Conflict - Error 409
func Conflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, ErrorResponse{Error: message})
}

// ServiceUnavailable - Error 503 (controlador caído)
func ServiceUnavailable(c *gin.Context, message string) {
	c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: message})
}

// InternalServerError - Error 500
func InternalServerError(c *gin.Context, message, details string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message, Details: details})
}

// OK - Operación exitosa sin payload
func OK(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: message})
}
