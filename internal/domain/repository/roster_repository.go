package repository

import (
	"context"

	"github.com/jhoicas/beneficios-api/internal/domain/entity"
)

// RosterStore puerto de la nómina. La colección se lee y se reemplaza completa:
// no hay parches por registro ni bloqueo, la última escritura gana.
type RosterStore interface {
	LoadRoster(ctx context.Context) ([]entity.BenefitRecord, error)
	SaveRoster(ctx context.Context, records []entity.BenefitRecord) error
}

// GuardDirectory puerto del directorio de guardias enrolados.
type GuardDirectory interface {
	LoadGuards(ctx context.Context) ([]entity.GuardAccount, error)
	SaveGuards(ctx context.Context, guards []entity.GuardAccount) error
}

// RosterNotifier publica el aviso "la nómina cambió". Es fire-and-forget: no lleva carga útil,
// quien lo recibe vuelve a leer la nómina.
type RosterNotifier interface {
	NotifyRosterChanged(ctx context.Context) error
}

// RosterSubscriber entrega un canal con un valor por cada aviso recibido.
// El canal se cierra cuando ctx termina.
type RosterSubscriber interface {
	SubscribeRoster(ctx context.Context) (<-chan struct{}, error)
}
