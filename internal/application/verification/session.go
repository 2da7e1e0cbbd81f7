package verification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/beneficios-api/internal/application/qr"
	"github.com/jhoicas/beneficios-api/internal/domain"
	"github.com/jhoicas/beneficios-api/internal/domain/entity"
)

// Authorizer re-valida al guardia contra el directorio vigente (guard.Gate).
type Authorizer interface {
	Authorize(ctx context.Context, account entity.GuardAccount) error
}

// SessionDeps dependencias compartidas por todas las sesiones de guardia.
type SessionDeps struct {
	Gate     Authorizer
	Verifier *VerificationUseCase
	Scanner  *qr.Scanner
}

// GuardSession sesión de un guardia. Toda acción pasa antes por Authorize; el primer rechazo
// termina la sesión y desde ahí cualquier llamada devuelve domain.ErrSessionTerminated.
type GuardSession struct {
	ID      string
	Account entity.GuardAccount
	deps    SessionDeps

	mu           sync.Mutex
	terminated   bool
	current      *RecordView
	lastDelivery string
	lastSeen     time.Time
}

// StartSession abre una sesión solo si el guardia está autorizado.
func StartSession(ctx context.Context, deps SessionDeps, account entity.GuardAccount) (*GuardSession, error) {
	if err := deps.Gate.Authorize(ctx, account); err != nil {
		return nil, err
	}
	return &GuardSession{
		ID:       uuid.NewString(),
		Account:  account,
		deps:     deps,
		lastSeen: time.Now(),
	}, nil
}

func (s *GuardSession) authorize(ctx context.Context) error {
	s.mu.Lock()
	if s.terminated {
		s.mu.Unlock()
		return domain.ErrSessionTerminated
	}
	s.lastSeen = time.Now()
	s.mu.Unlock()

	if err := s.deps.Gate.Authorize(ctx, s.Account); err != nil {
		s.mu.Lock()
		s.terminated = true
		s.current = nil
		s.mu.Unlock()
		log.Warn().Err(err).Str("usuario", s.Account.Usuario).Str("session_id", s.ID).Msg("sesión de guardia terminada")
		return err
	}
	return nil
}

// Resolve busca un trabajador ingresado a mano y lo deja como trabajador actual.
func (s *GuardSession) Resolve(ctx context.Context, rutValue string) (*RecordView, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}
	return s.resolve(ctx, rutValue)
}

// ResolvePayload resuelve el texto de un QR. Del payload solo se usa rut.
func (s *GuardSession) ResolvePayload(ctx context.Context, text string) (*RecordView, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}
	p, err := qr.ParsePayload(text)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, p.Rut)
}

// Scan escanea con la cámara hasta leer un QR válido y resuelve su rut.
// La cámara se libera siempre antes de volver.
func (s *GuardSession) Scan(ctx context.Context, cam qr.Camera) (*RecordView, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}
	p, err := s.deps.Scanner.ScanRUT(ctx, cam)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, p.Rut)
}

func (s *GuardSession) resolve(ctx context.Context, rutValue string) (*RecordView, error) {
	view, err := s.deps.Verifier.Resolve(ctx, rutValue)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.current = nil
		return nil, err
	}
	s.current = view
	return view, nil
}

// Confirm confirma la entrega. Con rut vacío usa el trabajador actual.
func (s *GuardSession) Confirm(ctx context.Context, rutValue string) (*Delivery, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(rutValue) == "" {
		s.mu.Lock()
		if s.current != nil {
			rutValue = s.current.Rut
		}
		s.mu.Unlock()
	}
	if strings.TrimSpace(rutValue) == "" {
		return nil, fmt.Errorf("%w: no hay trabajador seleccionado", domain.ErrInvalidInput)
	}

	d, err := s.deps.Verifier.Confirm(ctx, rutValue)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	view := d.Record
	s.current = &view
	s.lastDelivery = d.Note
	s.mu.Unlock()
	log.Info().Str("usuario", s.Account.Usuario).Str("session_id", s.ID).Str("rut", view.Rut).Msg("entrega registrada por guardia")
	return d, nil
}

// Cancel descarta el trabajador actual.
func (s *GuardSession) Cancel() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// Current trabajador en pantalla (nil si no hay).
func (s *GuardSession) Current() *RecordView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	v := *s.current
	return &v
}

// LastDelivery nota de la última entrega confirmada en esta sesión.
func (s *GuardSession) LastDelivery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDelivery
}

// Terminated indica si la sesión fue terminada por un rechazo.
func (s *GuardSession) Terminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminated
}

func (s *GuardSession) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
