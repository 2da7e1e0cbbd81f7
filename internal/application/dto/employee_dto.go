package dto

// EmployeeLoginRequest entrada del login de empleado.
type EmployeeLoginRequest struct {
	Rut      string `json:"rut" validate:"required,max=20"`
	Password string `json:"password" validate:"required,max=20"`
}

// EmployeeLoginResponse token del portal del empleado.
type EmployeeLoginResponse struct {
	Token  string `json:"token"`
	Nombre string `json:"nombre"`
	Rut    string `json:"rut"`
}

// BenefitResponse vista del beneficio del empleado (los mismos datos que lleva el QR).
type BenefitResponse struct {
	Nombre            string `json:"nombre"`
	Rut               string `json:"rut"`
	Cargo             string `json:"cargo"`
	TipoContrato      string `json:"tipoContrato"`
	BeneficioAsignado string `json:"beneficioAsignado"`
	EstadoBeneficio   string `json:"estadoBeneficio"`
	FechaLimite       string `json:"fechaLimite"`
	TipoCaja          string `json:"tipoCaja"`
	Correo            string `json:"correo,omitempty"`
	Localidad         string `json:"localidad,omitempty"`
}
