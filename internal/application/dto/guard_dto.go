package dto

// GuardLoginRequest entrada del login de guardia. Usuario es el RUT con o sin puntuación.
type GuardLoginRequest struct {
	Usuario  string `json:"usuario" validate:"required,max=20"`
	Password string `json:"password" validate:"required,max=72"`
}

// GuardResponse datos públicos del guardia (sin password).
type GuardResponse struct {
	Nombre  string `json:"nombre"`
	Rut     string `json:"rut"`
	Usuario string `json:"usuario"`
}

// GuardLoginResponse token de sesión del guardia.
type GuardLoginResponse struct {
	Token   string        `json:"token"`
	Guardia GuardResponse `json:"guardia"`
}

// WorkerResponse trabajador tal como lo ve el guardia.
type WorkerResponse struct {
	Rut          string `json:"rut"`
	Nombre       string `json:"nombre"`
	Correo       string `json:"correo,omitempty"`
	TipoContrato string `json:"tipo_contrato"`
	Beneficio    string `json:"beneficio"`
	TipoCaja     string `json:"tipo_caja"`
	Retirado     bool   `json:"retirado"`
	FechaRetiro  string `json:"fecha_retiro,omitempty"`
}

// ConfirmDeliveryRequest entrada de la confirmación. Rut vacío confirma el trabajador en pantalla.
type ConfirmDeliveryRequest struct {
	Rut string `json:"rut" validate:"omitempty,max=20"`
}

// DeliveryResponse resultado de una entrega confirmada.
type DeliveryResponse struct {
	Message    string         `json:"message"`
	Trabajador WorkerResponse `json:"trabajador"`
	Nota       string         `json:"nota"`
}

// ScanResponse resultado de un escaneo. Encontrado=false si ningún cuadro tenía un QR válido.
type ScanResponse struct {
	Encontrado bool            `json:"encontrado"`
	Trabajador *WorkerResponse `json:"trabajador,omitempty"`
}

// LastDeliveryResponse nota de la última entrega de la sesión.
type LastDeliveryResponse struct {
	Nota string `json:"nota"`
}
