package bootstrap

import (
	"context"
	"fmt"
	"io"

	"github.com/jhoicas/beneficios-api/internal/domain/entity"
)

// GuardPresence indica si el directorio de guardias ya fue inicializado (la clave existe).
type GuardPresence interface {
	GuardsPresent(ctx context.Context) (bool, error)
}

// RosterParser convierte un archivo de nómina en registros.
type RosterParser interface {
	ParseRoster(r io.Reader) (*ParsedRoster, error)
}

// ParsedRoster resultado del parseo: registros válidos más advertencias por fila.
type ParsedRoster struct {
	Records  []entity.BenefitRecord
	Warnings []ImportWarning
}

// ImportWarning advertencia no fatal: la fila se omitió o se importó con un dato dudoso.
type ImportWarning struct {
	Row     int
	Message string
}

func (w ImportWarning) String() string {
	return fmt.Sprintf("fila %d: %s", w.Row, w.Message)
}
