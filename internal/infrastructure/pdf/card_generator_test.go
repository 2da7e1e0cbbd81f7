package pdf

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/beneficios-api/internal/application/employee"
	"github.com/jhoicas/beneficios-api/internal/domain"
	"github.com/jhoicas/beneficios-api/internal/domain/entity"
)

func sampleCard() employee.Card {
	return employee.Card{
		Empresa: "Tresmontes Lucchetti",
		Payload: entity.QRPayload{
			Nombre:            "Ana Rojas",
			Rut:               "16.234.567-8",
			Cargo:             "Operaria",
			TipoContrato:      "Planta",
			BeneficioAsignado: "Caja Navidad",
			EstadoBeneficio:   "Pendiente",
			FechaLimite:       "31 de Diciembre, 2024",
			TipoCaja:          "Caja Grande (Planta)",
			Timestamp:         "2024-12-01T09:00:00.000Z",
		},
		QRText:      `{"nombre":"Ana Rojas","rut":"16.234.567-8"}`,
		GeneratedAt: time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestRenderCard_ProducesPDF(t *testing.T) {
	out, err := NewMarotoCardGenerator().RenderCard(sampleCard())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un documento PDF")
	assert.Greater(t, len(out), 1000)
}

func TestRenderCard_MissingOptionalFields(t *testing.T) {
	card := sampleCard()
	card.Empresa = ""
	card.Payload.Cargo = ""
	card.GeneratedAt = time.Time{}

	out, err := NewMarotoCardGenerator().RenderCard(card)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderCard_EmptyQRText(t *testing.T) {
	card := sampleCard()
	card.QRText = "  "

	_, err := NewMarotoCardGenerator().RenderCard(card)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEncode))
}

func TestNonEmpty(t *testing.T) {
	assert.Equal(t, "x", nonEmpty("x", "—"))
	assert.Equal(t, "—", nonEmpty(" ", "—"))
}
