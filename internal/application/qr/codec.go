package qr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/jhoicas/beneficios-api/internal/domain"
	"github.com/jhoicas/beneficios-api/internal/domain/entity"
)

// TimestampLayout formato ISO-8601 del campo timestamp (milisegundos, zona UTC con "Z").
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Codec codifica registros de la nómina en símbolos QR y los decodifica de vuelta.
type Codec struct {
	enc         SymbolEncoder
	dec         SymbolDecoder
	fechaLimite string
}

// NewCodec construye el codec. fechaLimite es el texto de despliegue que viaja en el payload.
func NewCodec(enc SymbolEncoder, dec SymbolDecoder, fechaLimite string) *Codec {
	return &Codec{enc: enc, dec: dec, fechaLimite: fechaLimite}
}

// Encoded resultado de Encode: el texto canónico, la imagen y el payload que lo generó.
type Encoded struct {
	Text    string
	PNG     []byte
	Payload entity.QRPayload
}

// Cargo cargo de despliegue: el rol o "Empleado".
func Cargo(rec entity.BenefitRecord) string {
	if s := strings.TrimSpace(rec.Rol); s != "" {
		return s
	}
	return "Empleado"
}

// TipoCaja etiqueta de la caja con el contrato entre paréntesis.
func TipoCaja(rec entity.BenefitRecord) string {
	if rec.TipoContrato == entity.ContratoPlanta {
		return "Caja Grande (Planta)"
	}
	return "Caja Estándar (Plazo Fijo)"
}

// BuildPayload arma la vista desechable del registro que viaja en el QR.
func BuildPayload(rec entity.BenefitRecord, fechaLimite string, at time.Time) entity.QRPayload {
	estado := string(rec.Estado)
	if estado == "" {
		estado = string(entity.EstadoPendiente)
	}
	return entity.QRPayload{
		Nombre:            rec.Nombre,
		Rut:               rec.Rut,
		Cargo:             Cargo(rec),
		TipoContrato:      string(rec.TipoContrato),
		BeneficioAsignado: rec.BeneficioAsignado(),
		EstadoBeneficio:   estado,
		FechaLimite:       fechaLimite,
		TipoCaja:          TipoCaja(rec),
		Timestamp:         at.UTC().Format(TimestampLayout),
	}
}

// MarshalPayload serializa el payload como JSON canónico: orden de claves fijo, sin espacios
// y sin escapar caracteres HTML, de modo que el mismo payload produce siempre los mismos bytes.
func MarshalPayload(p entity.QRPayload) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrEncode, err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Encode genera el texto canónico y el símbolo QR del registro.
func (c *Codec) Encode(rec entity.BenefitRecord, generatedAt time.Time) (*Encoded, error) {
	if strings.TrimSpace(rec.Rut) == "" {
		return nil, fmt.Errorf("%w: registro sin rut", domain.ErrEncode)
	}
	payload := BuildPayload(rec, c.fechaLimite, generatedAt)
	text, err := MarshalPayload(payload)
	if err != nil {
		return nil, err
	}
	png, err := c.enc.EncodePNG(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEncode, err)
	}
	return &Encoded{Text: text, PNG: png, Payload: payload}, nil
}

// Decode intenta leer un símbolo QR del cuadro. domain.ErrQRNotFound es un resultado normal.
func (c *Codec) Decode(frame image.Image) (string, error) {
	if frame == nil {
		return "", domain.ErrQRNotFound
	}
	return c.dec.DecodeImage(frame)
}

// ParsePayload interpreta el texto leído. Solo se exige rut; los demás campos son informativos,
// pero si vienen deben ser strings.
func ParsePayload(text string) (*entity.QRPayload, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPayloadParse, err)
	}
	rutRaw, ok := raw["rut"]
	if !ok {
		return nil, fmt.Errorf("%w: falta rut", domain.ErrPayloadParse)
	}
	var rutValue string
	if err := json.Unmarshal(rutRaw, &rutValue); err != nil || strings.TrimSpace(rutValue) == "" {
		return nil, fmt.Errorf("%w: rut inválido", domain.ErrPayloadParse)
	}
	var p entity.QRPayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPayloadParse, err)
	}
	return &p, nil
}
