// Package storage arma el backend de persistencia según STORE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/beneficios-api/internal/domain/repository"
	"github.com/jhoicas/beneficios-api/internal/infrastructure/localstore"
	"github.com/jhoicas/beneficios-api/internal/infrastructure/memory"
	"github.com/jhoicas/beneficios-api/internal/infrastructure/postgres"
	"github.com/jhoicas/beneficios-api/internal/infrastructure/redis"
	"github.com/jhoicas/beneficios-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/beneficios-api/pkg/config"
)

// notifier lo que cada backend ofrece para el aviso de cambios.
type notifier interface {
	repository.RosterNotifier
	repository.RosterSubscriber
}

// Backend nómina, guardias y aviso de cambios sobre el almacén elegido.
type Backend struct {
	Driver   string
	KV       repository.KVStore
	Roster   *localstore.RosterRepo
	Guards   *localstore.GuardRepo
	Notifier notifier

	listen func(ctx context.Context)
}

// Open abre el backend configurado. memory y sqlite avisan dentro del proceso;
// postgres y redis avisan entre procesos (requiere Listen).
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{Driver: cfg.Store.Driver}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		b.KV = memory.NewKVStore()
		b.Notifier = memory.NewNotifier()

	case config.DriverSQLite:
		kv, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		b.KV = kv
		b.Notifier = memory.NewNotifier()

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		kv, err := postgres.NewKVStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres: %w", err)
		}
		n := postgres.NewNotifier(pool, cfg.Store.RosterChannel)
		b.KV, b.Notifier, b.listen = kv, n, n.Listen

	case config.DriverRedis:
		rdb, err := redis.NewClient(ctx, cfg.Store.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		n := redis.NewNotifier(rdb, cfg.App.Name+":"+cfg.Store.RosterChannel)
		b.KV, b.Notifier, b.listen = redis.NewKVStore(rdb, cfg.App.Name+":"), n, n.Listen

	default:
		return nil, fmt.Errorf("STORE_DRIVER desconocido %q", cfg.Store.Driver)
	}

	b.Roster = localstore.NewRosterRepository(b.KV, cfg.Store.RosterKey)
	b.Guards = localstore.NewGuardRepository(b.KV, cfg.Store.GuardsKey)
	log.Info().Str("driver", b.Driver).Msg("almacenamiento listo")
	return b, nil
}

// Listen arranca la escucha de avisos de otros procesos (si el backend la tiene) hasta que ctx termine.
func (b *Backend) Listen(ctx context.Context) {
	if b.listen != nil {
		go b.listen(ctx)
	}
}

// Close libera el almacén.
func (b *Backend) Close() error {
	if b.KV == nil {
		return nil
	}
	return b.KV.Close()
}
