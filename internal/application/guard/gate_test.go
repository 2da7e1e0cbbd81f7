package guard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/beneficios-api/internal/application/guard"
	"github.com/jhoicas/beneficios-api/internal/domain"
	"github.com/jhoicas/beneficios-api/internal/domain/entity"
	"github.com/jhoicas/beneficios-api/pkg/config"
)

// stubDirectory directorio de guardias en memoria.
type stubDirectory struct {
	guards  []entity.GuardAccount
	loadErr error
}

func (s *stubDirectory) LoadGuards(context.Context) ([]entity.GuardAccount, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]entity.GuardAccount(nil), s.guards...), nil
}

func (s *stubDirectory) SaveGuards(_ context.Context, g []entity.GuardAccount) error {
	s.guards = g
	return nil
}

func defaultGuards() []entity.GuardAccount {
	return []entity.GuardAccount{
		{ID: 1, Nombre: "Juan Pérez", Rut: "15.123.456-7", Usuario: "151234567", Password: "15123456", Activo: true},
		{ID: 2, Nombre: "Pedro González", Rut: "16.234.567-8", Usuario: "162345678", Password: "16234567", Activo: false},
	}
}

func rejectReason(t *testing.T, err error) string {
	t.Helper()
	var rejected *domain.RejectedError
	require.True(t, errors.As(err, &rejected), "se esperaba RejectedError, se obtuvo %v", err)
	assert.ErrorIs(t, err, domain.ErrGuardRejected)
	return rejected.Reason
}

// ──────────────────────────────────────────────────────────────────────────────
// Authorize
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthorize_Activo(t *testing.T) {
	gate := guard.NewGate(&stubDirectory{guards: defaultGuards()}, config.PasswordModePlain, nil)

	err := gate.Authorize(context.Background(), entity.GuardAccount{Usuario: "15.123.456-7"})
	assert.NoError(t, err)
}

func TestAuthorize_Inactivo(t *testing.T) {
	gate := guard.NewGate(&stubDirectory{guards: defaultGuards()}, config.PasswordModePlain, nil)

	err := gate.Authorize(context.Background(), entity.GuardAccount{Usuario: "162345678", Activo: true})
	assert.Equal(t, domain.ReasonInactive, rejectReason(t, err))
}

func TestAuthorize_NoEnrolado(t *testing.T) {
	dir := &stubDirectory{guards: defaultGuards()}
	gate := guard.NewGate(dir, config.PasswordModePlain, nil)

	err := gate.Authorize(context.Background(), entity.GuardAccount{Usuario: "99999999-9"})
	assert.Equal(t, domain.ReasonNotEnrolled, rejectReason(t, err))

	dir.guards = nil
	err = gate.Authorize(context.Background(), entity.GuardAccount{Usuario: "151234567"})
	assert.Equal(t, domain.ReasonNotEnrolled, rejectReason(t, err))
}

func TestAuthorize_DirectorioIlegible(t *testing.T) {
	gate := guard.NewGate(&stubDirectory{loadErr: domain.ErrCorruptData}, config.PasswordModePlain, nil)

	err := gate.Authorize(context.Background(), entity.GuardAccount{Usuario: "151234567"})
	assert.ErrorIs(t, err, domain.ErrCorruptData)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_UsuarioConOSinPuntuacion(t *testing.T) {
	gate := guard.NewGate(&stubDirectory{guards: defaultGuards()}, config.PasswordModePlain, nil)

	for _, usuario := range []string{"151234567", "15.123.456-7", "15123456-7", " 15123456-7 "} {
		acct, err := gate.Login(context.Background(), usuario, "15123456")
		require.NoError(t, err, usuario)
		assert.Equal(t, "Juan Pérez", acct.Nombre)
	}
}

func TestLogin_Errores(t *testing.T) {
	gate := guard.NewGate(&stubDirectory{guards: defaultGuards()}, config.PasswordModePlain, nil)
	ctx := context.Background()

	_, err := gate.Login(ctx, "", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = gate.Login(ctx, "11111111-1", "11111111")
	assert.Equal(t, domain.ReasonNotEnrolled, rejectReason(t, err))

	_, err = gate.Login(ctx, "151234567", "otra")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = gate.Login(ctx, "162345678", "16234567")
	assert.Equal(t, domain.ReasonInactive, rejectReason(t, err))
}

func TestLogin_ModoBcrypt(t *testing.T) {
	hash, err := guard.HashPassword("15123456", config.PasswordModeBcrypt)
	require.NoError(t, err)
	assert.NotEqual(t, "15123456", hash)

	guards := defaultGuards()
	guards[0].Password = hash
	gate := guard.NewGate(&stubDirectory{guards: guards}, config.PasswordModeBcrypt, nil)

	_, err = gate.Login(context.Background(), "151234567", "15123456")
	require.NoError(t, err)

	_, err = gate.Login(context.Background(), "151234567", "15123457")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestHashPassword_ModoPlainNoCambia(t *testing.T) {
	got, err := guard.HashPassword("15123456", config.PasswordModePlain)
	require.NoError(t, err)
	assert.Equal(t, "15123456", got)
}
