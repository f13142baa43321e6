package dto

import "time"

// APIResponse envoltura estándar de todas las respuestas HTTP:
// bandera de éxito, payload y timestamp.
type APIResponse struct {
	Success   bool           `json:"success"`
	Data      interface{}    `json:"data,omitempty"`
	Error     *ErrorResponse `json:"error,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OK construye una respuesta de éxito con el payload indicado.
func OK(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data, Timestamp: time.Now()}
}

// Fallo construye una respuesta de error.
func Fallo(code, message string) APIResponse {
	return APIResponse{
		Success:   false,
		Error:     &ErrorResponse{Code: code, Message: message},
		Timestamp: time.Now(),
	}
}
