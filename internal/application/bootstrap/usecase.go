package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/beneficios-api/internal/application/guard"
	"github.com/jhoicas/beneficios-api/internal/domain"
	"github.com/jhoicas/beneficios-api/internal/domain/entity"
	"github.com/jhoicas/beneficios-api/internal/domain/repository"
	"github.com/jhoicas/beneficios-api/pkg/rut"
)

// DefaultGuards guardias de demostración que se siembran en el primer arranque.
var DefaultGuards = []struct{ Nombre, Rut string }{
	{"Juan Pérez", "15.123.456-7"},
	{"Pedro González", "16.234.567-8"},
}

// UseCase inicialización de datos: guardias por defecto e importación de la nómina.
type UseCase struct {
	guards       repository.GuardDirectory
	presence     GuardPresence
	roster       repository.RosterStore
	notifier     repository.RosterNotifier
	parser       RosterParser
	passwordMode string
	now          func() time.Time
}

// NewUseCase construye el caso de uso de inicialización. notifier y parser pueden ser nil
// si solo se usa SeedGuards.
func NewUseCase(
	guards repository.GuardDirectory,
	presence GuardPresence,
	roster repository.RosterStore,
	notifier repository.RosterNotifier,
	parser RosterParser,
	passwordMode string,
) *UseCase {
	return &UseCase{
		guards:       guards,
		presence:     presence,
		roster:       roster,
		notifier:     notifier,
		parser:       parser,
		passwordMode: passwordMode,
		now:          time.Now,
	}
}

// SeedGuards escribe los guardias por defecto solo si la clave de guardias no existe.
// Devuelve true si sembró.
func (uc *UseCase) SeedGuards(ctx context.Context) (bool, error) {
	present, err := uc.presence.GuardsPresent(ctx)
	if err != nil {
		return false, fmt.Errorf("verificar guardias: %w", err)
	}
	if present {
		return false, nil
	}

	created := uc.now().Format(time.RFC3339)
	list := make([]entity.GuardAccount, 0, len(DefaultGuards))
	for i, g := range DefaultGuards {
		password, err := guard.HashPassword(rut.DefaultPassword(g.Rut), uc.passwordMode)
		if err != nil {
			return false, err
		}
		list = append(list, entity.GuardAccount{
			ID:            i + 1,
			Nombre:        g.Nombre,
			Rut:           g.Rut,
			Usuario:       rut.NormalizeUser(g.Rut),
			Password:      password,
			Activo:        true,
			FechaCreacion: created,
		})
	}
	if err := uc.guards.SaveGuards(ctx, list); err != nil {
		return false, fmt.Errorf("sembrar guardias: %w", err)
	}
	log.Info().Int("guardias", len(list)).Msg("guardias por defecto creados")
	return true, nil
}

// ImportResult resumen de una importación.
type ImportResult struct {
	Imported int
	Warnings []ImportWarning
}

// ImportRoster reemplaza la nómina completa con el archivo. Todos los registros quedan Pendiente.
func (uc *UseCase) ImportRoster(ctx context.Context, r io.Reader) (*ImportResult, error) {
	if uc.parser == nil {
		return nil, fmt.Errorf("%w: importador no configurado", domain.ErrInvalidInput)
	}
	parsed, err := uc.parser.ParseRoster(r)
	if err != nil {
		return nil, fmt.Errorf("leer nómina: %w", err)
	}
	if len(parsed.Records) == 0 {
		return nil, fmt.Errorf("%w: el archivo no tiene trabajadores válidos", domain.ErrInvalidInput)
	}
	records := make([]entity.BenefitRecord, len(parsed.Records))
	for i, rec := range parsed.Records {
		rec.ID = i + 1
		rec.Estado = entity.EstadoPendiente
		rec.FechaRetiro = ""
		records[i] = rec
	}
	if err := uc.roster.SaveRoster(ctx, records); err != nil {
		return nil, fmt.Errorf("guardar nómina: %w", err)
	}
	if uc.notifier != nil {
		if err := uc.notifier.NotifyRosterChanged(ctx); err != nil {
			log.Warn().Err(err).Msg("aviso de nómina actualizada no enviado")
		}
	}
	for _, w := range parsed.Warnings {
		log.Warn().Int("fila", w.Row).Msg(w.Message)
	}
	log.Info().Int("trabajadores", len(records)).Int("advertencias", len(parsed.Warnings)).Msg("nómina importada")
	return &ImportResult{Imported: len(records), Warnings: parsed.Warnings}, nil
}
