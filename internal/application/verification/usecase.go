package verification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/beneficios-api/internal/domain"
	"github.com/jhoicas/beneficios-api/internal/domain/entity"
	"github.com/jhoicas/beneficios-api/internal/domain/repository"
	"github.com/jhoicas/beneficios-api/pkg/rut"
)

// Resultados de entrega para métricas.
const (
	ResultConfirmed   = "confirmada"
	ResultAlready     = "ya_retirado"
	ResultNotEnrolled = "no_enrolado"
	ResultConflict    = "conflicto"
)

// DeliveryRecorder registra el resultado de cada Confirm.
type DeliveryRecorder interface {
	ObserveDelivery(result string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveDelivery(string) {}

// RecordView lo que ve el guardia de un trabajador.
type RecordView struct {
	Rut          string
	Nombre       string
	Correo       string
	TipoContrato string
	Beneficio    string
	TipoCaja     string
	Retirado     bool
	FechaRetiro  string
}

// Delivery resultado de una entrega confirmada.
type Delivery struct {
	Record  RecordView
	Message string // confirmación para el operador
	Note    string // "última entrega"
}

// VerificationUseCase resuelve trabajadores de la nómina y confirma el retiro del beneficio.
// No hay bloqueo: la nómina se lee, se modifica y se reemplaza completa (la última escritura gana).
type VerificationUseCase struct {
	roster   repository.RosterStore
	notifier repository.RosterNotifier
	recorder DeliveryRecorder
	now      func() time.Time
}

// NewVerificationUseCase construye el caso de uso. notifier y recorder pueden ser nil.
func NewVerificationUseCase(roster repository.RosterStore, notifier repository.RosterNotifier, recorder DeliveryRecorder) *VerificationUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &VerificationUseCase{roster: roster, notifier: notifier, recorder: recorder, now: time.Now}
}

// SetClock reemplaza el reloj (tests).
func (uc *VerificationUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// Resolve busca el trabajador por RUT normalizado. domain.ErrNotEnrolled si no está en la nómina.
func (uc *VerificationUseCase) Resolve(ctx context.Context, rutValue string) (*RecordView, error) {
	if rut.Normalize(rutValue) == "" {
		return nil, fmt.Errorf("%w: Ingrese un RUT válido", domain.ErrInvalidInput)
	}
	list, err := uc.roster.LoadRoster(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer nómina: %w", err)
	}
	idx := entity.FindByRut(list, rutValue)
	if idx < 0 {
		return nil, domain.ErrNotEnrolled
	}
	view := toView(list[idx])
	return &view, nil
}

// Confirm marca el beneficio como retirado.
//
// Siempre vuelve a leer la nómina antes de modificarla; nunca usa la vista de un Resolve anterior.
// Si ya estaba retirado devuelve *domain.AlreadyCollectedError sin tocar nada.
// Si la escritura falla devuelve domain.ErrWriteConflict y el operador debe reintentar.
func (uc *VerificationUseCase) Confirm(ctx context.Context, rutValue string) (*Delivery, error) {
	if rut.Normalize(rutValue) == "" {
		return nil, fmt.Errorf("%w: Ingrese un RUT válido", domain.ErrInvalidInput)
	}

	// ── 1. Lectura fresca ────────────────────────────────────────────────────
	list, err := uc.roster.LoadRoster(ctx)
	if err != nil {
		uc.recorder.ObserveDelivery(ResultConflict)
		return nil, fmt.Errorf("%w: %w", domain.ErrWriteConflict, err)
	}
	idx := entity.FindByRut(list, rutValue)
	if idx < 0 {
		uc.recorder.ObserveDelivery(ResultNotEnrolled)
		return nil, domain.ErrNotEnrolled
	}

	// ── 2. Idempotencia ──────────────────────────────────────────────────────
	if list[idx].Retirado() {
		uc.recorder.ObserveDelivery(ResultAlready)
		return nil, &domain.AlreadyCollectedError{Rut: list[idx].Rut, FechaRetiro: list[idx].FechaRetiro}
	}

	// ── 3. Transición Pendiente → Retirado y reemplazo completo ─────────────
	updated := make([]entity.BenefitRecord, len(list))
	copy(updated, list)
	at := uc.now()
	updated[idx].Estado = entity.EstadoRetirado
	updated[idx].FechaRetiro = at.Format(time.RFC3339)

	if err := uc.roster.SaveRoster(ctx, updated); err != nil {
		uc.recorder.ObserveDelivery(ResultConflict)
		log.Error().Err(err).Str("rut", updated[idx].Key()).Msg("no se pudo guardar la nómina")
		return nil, fmt.Errorf("%w: %w", domain.ErrWriteConflict, err)
	}

	// ── 4. Aviso best-effort ─────────────────────────────────────────────────
	if uc.notifier != nil {
		if err := uc.notifier.NotifyRosterChanged(ctx); err != nil {
			log.Warn().Err(err).Msg("aviso de nómina actualizada no enviado")
		}
	}
	uc.recorder.ObserveDelivery(ResultConfirmed)

	rec := updated[idx]
	correo := strings.TrimSpace(rec.Correo)
	if correo == "" {
		correo = "correo no registrado"
	}
	fecha := DisplayFecha(rec.FechaRetiro)
	log.Info().Str("rut", rec.Key()).Str("fecha_retiro", rec.FechaRetiro).Msg("entrega confirmada")

	return &Delivery{
		Record:  toView(rec),
		Message: fmt.Sprintf("✓ Entrega confirmada exitosamente\n📧 Notificación enviada a: %s", correo),
		Note:    fmt.Sprintf("%s - %s (📧 %s)", rec.Nombre, fecha, correo),
	}, nil
}

// DisplayFecha formatea una fecha de retiro para mostrarla ("10-12-2024 13:45:00").
// Valores que no son RFC 3339 (datos antiguos) se devuelven tal cual.
func DisplayFecha(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Format("02-01-2006 15:04:05")
}

// IsAlreadyCollected desenvuelve el resultado "ya retirado".
func IsAlreadyCollected(err error) (*domain.AlreadyCollectedError, bool) {
	var ac *domain.AlreadyCollectedError
	if errors.As(err, &ac) {
		return ac, true
	}
	return nil, false
}

func toView(r entity.BenefitRecord) RecordView {
	return RecordView{
		Rut:          r.Rut,
		Nombre:       r.Nombre,
		Correo:       r.Correo,
		TipoContrato: string(r.TipoContrato),
		Beneficio:    r.BeneficioAsignado(),
		TipoCaja:     r.TipoCaja(),
		Retirado:     r.Retirado(),
		FechaRetiro:  r.FechaRetiro,
	}
}
