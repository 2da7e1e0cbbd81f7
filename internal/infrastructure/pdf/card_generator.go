// Package pdf genera la tarjeta imprimible con el código QR de retiro del beneficio.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Sistema de Gestión de Beneficios + Empresa          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CÓDIGO QR PARA RETIRO                                       │
//	│  QR + instrucción de portería                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  INFORMACIÓN DEL EMPLEADO: nombre, cargo, beneficio          │
//	│  Fecha Límite / Generado el                                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/beneficios-api/internal/application/employee"
	"github.com/jhoicas/beneficios-api/internal/domain"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 211, Green: 32, Blue: 39}
	colorAccent  = &props.Color{Red: 0, Green: 140, Blue: 69}
	colorText    = &props.Color{Red: 51, Green: 51, Blue: 51}
	colorGray    = &props.Color{Red: 102, Green: 102, Blue: 102}
	colorLight   = &props.Color{Red: 153, Green: 153, Blue: 153}
)

// GeneratedLayout formato de la fecha de generación impresa en la tarjeta.
const GeneratedLayout = "02-01-2006 15:04:05"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoCardGenerator implementa employee.CardRenderer usando Maroto v2.
type MarotoCardGenerator struct{}

var _ employee.CardRenderer = (*MarotoCardGenerator)(nil)

// NewMarotoCardGenerator construye el generador.
func NewMarotoCardGenerator() *MarotoCardGenerator { return &MarotoCardGenerator{} }

// RenderCard genera el PDF de la tarjeta y devuelve sus bytes.
func (g *MarotoCardGenerator) RenderCard(card employee.Card) ([]byte, error) {
	if strings.TrimSpace(card.QRText) == "" {
		return nil, fmt.Errorf("%w: tarjeta sin contenido QR", domain.ErrEncode)
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Código QR de Beneficio", true).
		WithAuthor(nonEmpty(card.Empresa, "Sistema de Gestión de Beneficios"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(card.Empresa))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.6}))
	m.AddRows(row.New(4))
	m.AddRows(qrRows(card.QRText)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(employeeRows(card)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar tarjeta: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título del sistema y nombre de la empresa.
func headerRow(empresa string) core.Row {
	return row.New(20).Add(
		col.New(12).Add(
			text.New("Sistema de Gestión de Beneficios", props.Text{
				Style: fontstyle.Bold, Size: 16, Align: align.Center,
				Color: colorPrimary, Top: 2,
			}),
			text.New(nonEmpty(empresa, "—"), props.Text{
				Size: 11, Align: align.Center, Color: colorGray, Top: 12,
			}),
		),
	)
}

// qrRows: título, símbolo QR centrado e instrucción para portería.
func qrRows(qrText string) []core.Row {
	return []core.Row{
		row.New(10).Add(col.New(12).Add(
			text.New("CÓDIGO QR PARA RETIRO", props.Text{
				Style: fontstyle.Bold, Size: 13, Align: align.Center,
				Color: colorPrimary, Top: 2,
			}),
		)),
		row.New(80).Add(
			col.New(3),
			col.New(6).Add(code.NewQr(qrText, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(3),
		),
		row.New(12).Add(col.New(12).Add(
			text.New("Presenta este código en portería para retirar tu beneficio", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center,
				Color: colorAccent, Top: 3,
			}),
		)),
	}
}

// employeeRows: datos del trabajador tomados del payload codificado.
func employeeRows(card employee.Card) []core.Row {
	p := card.Payload
	centered := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 10, Align: align.Center, Color: colorText, Top: top})
	}

	generated := "—"
	if !card.GeneratedAt.IsZero() {
		generated = card.GeneratedAt.Format(GeneratedLayout)
	}

	return []core.Row{
		row.New(10).Add(col.New(12).Add(
			text.New("INFORMACIÓN DEL EMPLEADO", props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Center,
				Color: colorPrimary, Top: 3,
			}),
		)),
		row.New(22).Add(col.New(12).Add(
			centered(fmt.Sprintf("%s • %s", nonEmpty(p.Nombre, "—"), nonEmpty(p.Rut, "—")), 1),
			centered(fmt.Sprintf("%s • %s", nonEmpty(p.Cargo, "—"), nonEmpty(p.TipoContrato, "—")), 8),
			centered(fmt.Sprintf("%s • %s", nonEmpty(p.BeneficioAsignado, "—"), nonEmpty(p.TipoCaja, "—")), 15),
		)),
		row.New(9).Add(col.New(12).Add(
			text.New("Fecha Límite: "+nonEmpty(p.FechaLimite, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center,
				Color: colorPrimary, Top: 2,
			}),
		)),
		row.New(8).Add(col.New(12).Add(
			text.New("Generado el: "+generated, props.Text{
				Size: 8, Align: align.Center, Color: colorLight, Top: 2,
			}),
		)),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}
