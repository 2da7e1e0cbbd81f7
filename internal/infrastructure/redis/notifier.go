package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/beneficios-api/internal/domain/repository"
	"github.com/jhoicas/beneficios-api/internal/infrastructure/memory"
)

var (
	_ repository.RosterNotifier   = (*Notifier)(nil)
	_ repository.RosterSubscriber = (*Notifier)(nil)
)

// Notifier aviso "nómina cambió" con PUBLISH/SUBSCRIBE. Reparte localmente con memory.Notifier.
type Notifier struct {
	rdb     *goredis.Client
	channel string
	local   *memory.Notifier
}

// NewNotifier construye el notificador sobre el canal dado.
func NewNotifier(rdb *goredis.Client, channel string) *Notifier {
	return &Notifier{rdb: rdb, channel: channel, local: memory.NewNotifier()}
}

// NotifyRosterChanged publica el aviso.
func (n *Notifier) NotifyRosterChanged(ctx context.Context) error {
	if err := n.rdb.Publish(ctx, n.channel, "").Err(); err != nil {
		return fmt.Errorf("publish %s: %w", n.channel, err)
	}
	return nil
}

// SubscribeRoster suscribe al reparto local.
func (n *Notifier) SubscribeRoster(ctx context.Context) (<-chan struct{}, error) {
	return n.local.SubscribeRoster(ctx)
}

// Listen se suscribe al canal y reparte los avisos hasta que ctx termine.
// go-redis reconecta la suscripción por su cuenta.
func (n *Notifier) Listen(ctx context.Context) {
	sub := n.rdb.Subscribe(ctx, n.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		log.Warn().Err(err).Str("canal", n.channel).Msg("no se pudo suscribir")
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			n.local.Broadcast()
		}
	}
}
