package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/beneficios-api/internal/domain/repository"
)

var (
	_ repository.RosterNotifier   = (*Notifier)(nil)
	_ repository.RosterSubscriber = (*Notifier)(nil)
)

// Notifier difusión dentro del proceso. Cada suscriptor tiene un buffer de 1: avisos que llegan
// mientras el anterior no fue leído se funden en uno (el mensaje es solo "releer la nómina").
type Notifier struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

// NewNotifier crea el difusor.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[chan struct{}]struct{})}
}

// NotifyRosterChanged avisa a todos los suscriptores sin bloquear.
func (n *Notifier) NotifyRosterChanged(context.Context) error {
	n.Broadcast()
	return nil
}

// Broadcast entrega el aviso a cada suscriptor (no bloquea). Lo usan también los
// notificadores remotos al recibir un aviso de otro proceso.
func (n *Notifier) Broadcast() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// SubscribeRoster registra un suscriptor hasta que ctx termine.
func (n *Notifier) SubscribeRoster(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		delete(n.subs, ch)
		close(ch)
		n.mu.Unlock()
	}()
	return ch, nil
}

// Subscribers cantidad de suscriptores activos.
func (n *Notifier) Subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
