package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/beneficios-api/internal/domain/repository"
	"github.com/jhoicas/beneficios-api/internal/infrastructure/memory"
)

var (
	_ repository.RosterNotifier   = (*Notifier)(nil)
	_ repository.RosterSubscriber = (*Notifier)(nil)
)

// Notifier aviso "nómina cambió" entre procesos con NOTIFY/LISTEN.
// Los avisos recibidos se reparten localmente con un memory.Notifier.
type Notifier struct {
	pool    *pgxpool.Pool
	channel string
	local   *memory.Notifier
}

// NewNotifier construye el notificador sobre el canal dado.
func NewNotifier(pool *pgxpool.Pool, channel string) *Notifier {
	return &Notifier{pool: pool, channel: channel, local: memory.NewNotifier()}
}

// NotifyRosterChanged publica el aviso. Sin carga útil.
func (n *Notifier) NotifyRosterChanged(ctx context.Context) error {
	if _, err := n.pool.Exec(ctx, `SELECT pg_notify($1, '')`, n.channel); err != nil {
		return fmt.Errorf("pg_notify: %w", err)
	}
	return nil
}

// SubscribeRoster suscribe al reparto local. Los avisos llegan mientras Listen esté corriendo.
func (n *Notifier) SubscribeRoster(ctx context.Context) (<-chan struct{}, error) {
	return n.local.SubscribeRoster(ctx)
}

// Listen toma una conexión del pool, ejecuta LISTEN y reparte cada aviso hasta que ctx termine.
// Si la conexión se cae, reintenta con espera.
func (n *Notifier) Listen(ctx context.Context) {
	backoff := time.Second
	for ctx.Err() == nil {
		err := n.listenOnce(ctx)
		if ctx.Err() != nil {
			return
		}
		log.Warn().Err(err).Dur("reintento", backoff).Msg("LISTEN interrumpido")
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (n *Notifier) listenOnce(ctx context.Context) error {
	conn, err := n.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	defer conn.Release()
	defer func() {
		// La conexión vuelve al pool: no debe quedar escuchando.
		_, _ = conn.Exec(context.Background(), "UNLISTEN *")
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{n.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	for {
		if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			return fmt.Errorf("esperar aviso: %w", err)
		}
		n.local.Broadcast()
	}
}
