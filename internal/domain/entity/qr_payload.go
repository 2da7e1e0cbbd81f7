package entity

// QRPayload contenido del código QR: copia desechable y no autenticada del registro.
// Solo Rut es autoritativo; el resto es redundancia de despliegue y puede estar desactualizado.
// El orden de los campos define el orden de las claves en el JSON canónico.
type QRPayload struct {
	Nombre            string `json:"nombre"`
	Rut               string `json:"rut"`
	Cargo             string `json:"cargo"`
	TipoContrato      string `json:"tipoContrato"`
	BeneficioAsignado string `json:"beneficioAsignado"`
	EstadoBeneficio   string `json:"estadoBeneficio"`
	FechaLimite       string `json:"fechaLimite"`
	TipoCaja          string `json:"tipoCaja"`
	Timestamp         string `json:"timestamp"` // ISO-8601, momento de generación
}
