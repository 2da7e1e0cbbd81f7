package guard

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/beneficios-api/internal/domain"
	"github.com/jhoicas/beneficios-api/internal/domain/entity"
	"github.com/jhoicas/beneficios-api/internal/domain/repository"
	"github.com/jhoicas/beneficios-api/pkg/config"
)

// AuthorizationRecorder registra el resultado de cada autorización ("ok", "not enrolled", "inactive").
type AuthorizationRecorder interface {
	ObserveAuthorization(result string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAuthorization(string) {}

// Gate control de acceso de guardias: login y re-autorización contra el directorio vigente.
type Gate struct {
	guards       repository.GuardDirectory
	passwordMode string
	recorder     AuthorizationRecorder
}

// NewGate construye el control. passwordMode es config.PasswordModePlain o config.PasswordModeBcrypt.
func NewGate(guards repository.GuardDirectory, passwordMode string, recorder AuthorizationRecorder) *Gate {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if passwordMode == "" {
		passwordMode = config.PasswordModePlain
	}
	return &Gate{guards: guards, passwordMode: passwordMode, recorder: recorder}
}

// Authorize vuelve a validar la cuenta con la que se abrió la sesión contra el directorio actual.
// nil = Ok. *domain.RejectedError si el guardia ya no está enrolado o quedó inactivo.
// Si el directorio no se puede leer se devuelve ese error; quien llama lo trata como rechazo.
func (g *Gate) Authorize(ctx context.Context, account entity.GuardAccount) error {
	list, err := g.guards.LoadGuards(ctx)
	if err != nil {
		return fmt.Errorf("leer guardias: %w", err)
	}
	usuario := account.Usuario
	if strings.TrimSpace(usuario) == "" {
		usuario = account.Rut
	}
	idx := entity.FindGuard(list, usuario)
	if idx < 0 {
		g.recorder.ObserveAuthorization(domain.ReasonNotEnrolled)
		return &domain.RejectedError{Reason: domain.ReasonNotEnrolled}
	}
	if !list[idx].Activo {
		g.recorder.ObserveAuthorization(domain.ReasonInactive)
		return &domain.RejectedError{Reason: domain.ReasonInactive}
	}
	g.recorder.ObserveAuthorization("ok")
	return nil
}

// Login valida usuario y contraseña. El usuario puede escribirse con o sin puntos y guion.
// Orden de validación: enrolado, contraseña, activo.
func (g *Gate) Login(ctx context.Context, usuario, password string) (*entity.GuardAccount, error) {
	usuario = strings.TrimSpace(usuario)
	password = strings.TrimSpace(password)
	if usuario == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := g.guards.LoadGuards(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer guardias: %w", err)
	}
	idx := entity.FindGuard(list, usuario)
	if idx < 0 {
		log.Info().Str("usuario", usuario).Msg("login de guardia no enrolado")
		return nil, &domain.RejectedError{Reason: domain.ReasonNotEnrolled}
	}
	account := list[idx]
	if !g.passwordMatches(account.Password, password) {
		return nil, domain.ErrUnauthorized
	}
	if !account.Activo {
		return nil, &domain.RejectedError{Reason: domain.ReasonInactive}
	}
	return &account, nil
}

func (g *Gate) passwordMatches(stored, given string) bool {
	if g.passwordMode == config.PasswordModeBcrypt {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return stored == given
}

// HashPassword prepara la contraseña para guardarla según el modo configurado.
// En modo plain se guarda tal cual.
func HashPassword(plain, passwordMode string) (string, error) {
	if passwordMode != config.PasswordModeBcrypt {
		return plain, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash contraseña: %w", err)
	}
	return string(hash), nil
}
