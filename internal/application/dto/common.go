package dto

// ErrorResponse cuerpo de error HTTP. Message es el texto para el operador; Code es solo para clientes.
type ErrorResponse struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	FechaRetiro string `json:"fecha_retiro,omitempty"` // solo con ALREADY_COLLECTED
}

// MessageResponse respuesta simple con un mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}
