package qr_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/beneficios-api/internal/application/qr"
	"github.com/jhoicas/beneficios-api/internal/domain"
	"github.com/jhoicas/beneficios-api/internal/domain/entity"
	"github.com/jhoicas/beneficios-api/pkg/rut"
)

var generatedAt = time.Date(2024, 12, 10, 13, 45, 0, 0, time.UTC)

func sampleRecord() entity.BenefitRecord {
	return entity.BenefitRecord{
		ID:           1,
		Rut:          "16.234.567-8",
		Nombre:       "María José Soto",
		Correo:       "mjsoto@example.cl",
		TipoContrato: entity.ContratoPlanta,
		Rol:          "Operador de Producción",
		Beneficio:    "Caja Navidad 2024",
		Estado:       entity.EstadoPendiente,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Payload canónico
// ──────────────────────────────────────────────────────────────────────────────

func TestMarshalPayload_OrdenDeClavesEstable(t *testing.T) {
	p := qr.BuildPayload(sampleRecord(), "31 de Diciembre, 2024", generatedAt)

	text, err := qr.MarshalPayload(p)
	require.NoError(t, err)

	want := `{"nombre":"María José Soto","rut":"16.234.567-8","cargo":"Operador de Producción",` +
		`"tipoContrato":"Planta","beneficioAsignado":"Caja Navidad 2024","estadoBeneficio":"Pendiente",` +
		`"fechaLimite":"31 de Diciembre, 2024","tipoCaja":"Caja Grande (Planta)","timestamp":"2024-12-10T13:45:00.000Z"}`
	assert.Equal(t, want, text)

	again, err := qr.MarshalPayload(p)
	require.NoError(t, err)
	assert.Equal(t, text, again, "el mismo payload debe producir los mismos bytes")
}

func TestBuildPayload_ValoresPorDefecto(t *testing.T) {
	rec := entity.BenefitRecord{Rut: "11111111-1", Nombre: "Ana", TipoContrato: entity.ContratoPlazoFijo}

	p := qr.BuildPayload(rec, "31 de Diciembre, 2024", generatedAt)

	assert.Equal(t, "Empleado", p.Cargo)
	assert.Equal(t, "Beneficio asignado", p.BeneficioAsignado)
	assert.Equal(t, "Pendiente", p.EstadoBeneficio)
	assert.Equal(t, "Caja Estándar (Plazo Fijo)", p.TipoCaja)
}

// ──────────────────────────────────────────────────────────────────────────────
// Encode / ParsePayload
// ──────────────────────────────────────────────────────────────────────────────

func TestEncodeParse_RutIdaYVuelta(t *testing.T) {
	codec := qr.NewCodec(fakeSymbols{}, fakeSymbols{}, "31 de Diciembre, 2024")

	for _, value := range []string{"16.234.567-8", "16234567-8", "6-k", " 15.123.456-7 "} {
		rec := sampleRecord()
		rec.Rut = value

		enc, err := codec.Encode(rec, generatedAt)
		require.NoError(t, err)
		assert.Equal(t, []byte("PNG:"+enc.Text), enc.PNG)

		p, err := qr.ParsePayload(enc.Text)
		require.NoError(t, err)
		assert.Equal(t, value, p.Rut)
		assert.Equal(t, rut.Normalize(value), rut.Normalize(p.Rut))
	}

	assert.Equal(t, rut.Normalize("16.234.567-8"), rut.Normalize("16234567-8"))
}

func TestEncode_SinRutFalla(t *testing.T) {
	codec := qr.NewCodec(fakeSymbols{}, fakeSymbols{}, "")
	rec := sampleRecord()
	rec.Rut = "  "

	_, err := codec.Encode(rec, generatedAt)
	assert.ErrorIs(t, err, domain.ErrEncode)
}

func TestParsePayload_Invalidos(t *testing.T) {
	cases := map[string]string{
		"no json":         "16234567-8",
		"sin rut":         `{"nombre":"Ana"}`,
		"rut vacío":       `{"rut":""}`,
		"rut no string":   `{"rut":16234567}`,
		"campo no string": `{"rut":"1-9","nombre":3}`,
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := qr.ParsePayload(text)
			assert.ErrorIs(t, err, domain.ErrPayloadParse)
		})
	}
}

func TestParsePayload_SoloRutEsSuficiente(t *testing.T) {
	p, err := qr.ParsePayload(`{"rut":"16234567-8"}`)
	require.NoError(t, err)
	assert.Equal(t, "16234567-8", p.Rut)
	assert.Empty(t, p.Nombre)
}
