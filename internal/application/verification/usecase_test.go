package verification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/beneficios-api/internal/application/verification"
	"github.com/jhoicas/beneficios-api/internal/domain"
	"github.com/jhoicas/beneficios-api/internal/domain/entity"
	"github.com/jhoicas/beneficios-api/internal/domain/repository"
)

var fixedNow = time.Date(2024, 12, 18, 10, 30, 0, 0, time.UTC)

func pendingRoster() *stubRoster {
	return &stubRoster{records: []entity.BenefitRecord{
		{ID: 1, Rut: "15.123.456-9", Nombre: "Ana Rojas", Correo: "arojas@example.cl", TipoContrato: entity.ContratoPlazoFijo, Beneficio: "Caja Navidad", Estado: entity.EstadoPendiente},
		{ID: 2, Rut: "16234567-8", Nombre: "Luis Soto", Correo: "lsoto@example.cl", TipoContrato: entity.ContratoPlanta, Beneficio: "Caja Navidad", Estado: entity.EstadoPendiente},
	}}
}

func newUseCase(r *stubRoster, n *stubNotifier) *verification.VerificationUseCase {
	var notifier repository.RosterNotifier
	if n != nil {
		notifier = n
	}
	uc := verification.NewVerificationUseCase(r, notifier, nil)
	uc.SetClock(func() time.Time { return fixedNow })
	return uc
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolve
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_NominaVacia(t *testing.T) {
	uc := newUseCase(&stubRoster{}, nil)

	_, err := uc.Resolve(context.Background(), "11111111-1")
	assert.ErrorIs(t, err, domain.ErrNotEnrolled)
}

func TestResolve_PuntuacionIndistinta(t *testing.T) {
	uc := newUseCase(pendingRoster(), nil)

	for _, value := range []string{"16.234.567-8", "16234567-8", "162345678", " 16.234.567-8 "} {
		view, err := uc.Resolve(context.Background(), value)
		require.NoError(t, err, value)
		assert.Equal(t, "Luis Soto", view.Nombre)
		assert.Equal(t, "Caja Grande", view.TipoCaja)
		assert.False(t, view.Retirado)
	}
}

func TestResolve_RutVacio(t *testing.T) {
	uc := newUseCase(pendingRoster(), nil)

	_, err := uc.Resolve(context.Background(), " .- ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirm
// ──────────────────────────────────────────────────────────────────────────────

// Pendiente → Confirm → Retirado con fecha; segundo Confirm → AlreadyCollected con la misma fecha.
func TestConfirm_Idempotente(t *testing.T) {
	roster := pendingRoster()
	notifier := &stubNotifier{}
	uc := newUseCase(roster, notifier)
	ctx := context.Background()

	d, err := uc.Confirm(ctx, "16234567-8")
	require.NoError(t, err)

	stored := roster.get(1)
	assert.Equal(t, entity.EstadoRetirado, stored.Estado)
	assert.Equal(t, fixedNow.Format(time.RFC3339), stored.FechaRetiro)
	assert.True(t, d.Record.Retirado)
	assert.Equal(t, "✓ Entrega confirmada exitosamente\n📧 Notificación enviada a: lsoto@example.cl", d.Message)
	assert.Equal(t, "Luis Soto - 18-12-2024 10:30:00 (📧 lsoto@example.cl)", d.Note)
	assert.Equal(t, 1, notifier.calls())

	uc.SetClock(func() time.Time { return fixedNow.Add(time.Hour) })
	_, err = uc.Confirm(ctx, "16.234.567-8")
	require.Error(t, err)
	ac, ok := verification.IsAlreadyCollected(err)
	require.True(t, ok)
	assert.ErrorIs(t, err, domain.ErrAlreadyCollected)
	assert.Equal(t, stored.FechaRetiro, ac.FechaRetiro)

	assert.Equal(t, stored, roster.get(1), "el segundo Confirm no modifica la nómina")
	assert.Equal(t, 1, roster.saves)
	assert.Equal(t, 1, notifier.calls())
}

func TestConfirm_NoTocaOtrosRegistros(t *testing.T) {
	roster := pendingRoster()
	uc := newUseCase(roster, nil)

	_, err := uc.Confirm(context.Background(), "16234567-8")
	require.NoError(t, err)

	other := roster.get(0)
	assert.Equal(t, entity.EstadoPendiente, other.Estado)
	assert.Empty(t, other.FechaRetiro)
}

func TestConfirm_ConsistenteConResolve(t *testing.T) {
	uc := newUseCase(pendingRoster(), nil)
	ctx := context.Background()

	for _, value := range []string{"11111111-1", "99.999.999-9", "K"} {
		_, rerr := uc.Resolve(ctx, value)
		_, cerr := uc.Confirm(ctx, value)
		assert.ErrorIs(t, rerr, domain.ErrNotEnrolled, value)
		assert.ErrorIs(t, cerr, domain.ErrNotEnrolled, value)
	}
}

func TestConfirm_RelecturaFresca(t *testing.T) {
	roster := pendingRoster()
	uc := newUseCase(roster, nil)
	ctx := context.Background()

	view, err := uc.Resolve(ctx, "16234567-8")
	require.NoError(t, err)
	require.False(t, view.Retirado)

	// Otro dispositivo retira el beneficio entre Resolve y Confirm.
	other := newUseCase(roster, nil)
	_, err = other.Confirm(ctx, "16234567-8")
	require.NoError(t, err)

	_, err = uc.Confirm(ctx, "16234567-8")
	assert.ErrorIs(t, err, domain.ErrAlreadyCollected)
}

func TestConfirm_FallaDeEscritura(t *testing.T) {
	roster := pendingRoster()
	roster.saveErr = errDisk
	notifier := &stubNotifier{}
	uc := newUseCase(roster, notifier)

	_, err := uc.Confirm(context.Background(), "16234567-8")
	assert.ErrorIs(t, err, domain.ErrWriteConflict)
	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, entity.EstadoPendiente, roster.get(1).Estado)
	assert.Equal(t, 0, notifier.calls(), "sin escritura no hay aviso")

	roster.saveErr = nil
	_, err = uc.Confirm(context.Background(), "16234567-8")
	assert.NoError(t, err, "el operador reintenta")
}

func TestConfirm_AvisoFallidoNoAfectaEntrega(t *testing.T) {
	roster := pendingRoster()
	uc := newUseCase(roster, &stubNotifier{err: errors.New("broker caído")})

	d, err := uc.Confirm(context.Background(), "15123456-9")
	require.NoError(t, err)
	assert.True(t, d.Record.Retirado)
	assert.Equal(t, entity.EstadoRetirado, roster.get(0).Estado)
}

func TestConfirm_SinCorreo(t *testing.T) {
	roster := pendingRoster()
	roster.records[1].Correo = ""
	uc := newUseCase(roster, nil)

	d, err := uc.Confirm(context.Background(), "16234567-8")
	require.NoError(t, err)
	assert.Contains(t, d.Message, "correo no registrado")
}

func TestDisplayFecha_ValorAntiguo(t *testing.T) {
	assert.Equal(t, "18-12-2024, 10:30:00", verification.DisplayFecha("18-12-2024, 10:30:00"))
}
