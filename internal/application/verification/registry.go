package verification

import (
	"sync"
	"time"

	"github.com/jhoicas/beneficios-api/internal/domain"
)

// SessionRegistry sesiones de guardia vivas indexadas por ID, con expiración por inactividad.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*GuardSession
	idle     time.Duration
	now      func() time.Time
}

// NewSessionRegistry crea el registro. idle <= 0 desactiva la expiración.
func NewSessionRegistry(idle time.Duration) *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*GuardSession), idle: idle, now: time.Now}
}

// Put registra la sesión.
func (r *SessionRegistry) Put(s *GuardSession) {
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
}

// Get devuelve la sesión viva. domain.ErrSessionTerminated si no existe, expiró o fue terminada.
func (r *SessionRegistry) Get(id string) (*GuardSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionTerminated
	}
	if s.Terminated() || r.expired(s) {
		delete(r.sessions, id)
		return nil, domain.ErrSessionTerminated
	}
	return s, nil
}

// Remove elimina la sesión (logout o rechazo).
func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Sweep elimina sesiones vencidas o terminadas y devuelve cuántas quitó.
func (r *SessionRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.Terminated() || r.expired(s) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Len cantidad de sesiones registradas.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *SessionRegistry) expired(s *GuardSession) bool {
	return r.idle > 0 && r.now().Sub(s.idleSince()) > r.idle
}

// SetClock reemplaza el reloj (tests).
func (r *SessionRegistry) SetClock(now func() time.Time) {
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
}
