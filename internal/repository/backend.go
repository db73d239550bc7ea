package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"eatrite-api/internal/config"
	"eatrite-api/internal/db"
	"eatrite-api/internal/domain"
)

type BackendKind string

const (
	BackendManaged  BackendKind = "managed"
	BackendFallback BackendKind = "fallback"
)

// Backend agrupa los repositorios del backend elegido al arrancar. Nunca se
// mezclan: todas las escrituras van al mismo almacenamiento.
type Backend struct {
	Kind        BackendKind
	Users       UserRepository
	Preferences PreferencesRepository

	pool *pgxpool.Pool
}

func NewManagedBackend(pool *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) *Backend {
	g := newGuard("managed-backend", cfg.DatabaseTimeout, logger)
	return &Backend{
		Kind:        BackendManaged,
		Users:       NewPgUserRepository(pool, g),
		Preferences: NewPgPreferencesRepository(pool, g),
		pool:        pool,
	}
}

func NewFallbackBackend(store *MemoryStore) *Backend {
	return &Backend{
		Kind:        BackendFallback,
		Users:       store.Users(),
		Preferences: store.Preferences(),
	}
}

// Close libera el pool del backend gestionado, si lo hay.
func (b *Backend) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
}

// OpenBackend decide una sola vez entre el backend gestionado y el de respaldo.
// Si el gestionado no esta configurado o no responde se usa el MemoryStore con
// los usuarios semilla, salvo que la configuracion exija el gestionado.
func OpenBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger, seed ...domain.User) (*Backend, error) {
	pool, err := openManaged(ctx, cfg)
	if err == nil {
		logger.Info("using managed backend")
		return NewManagedBackend(pool, cfg, logger), nil
	}
	if cfg.RequireManagedBackend {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	logger.Warn("managed backend unavailable, using in-memory fallback store",
		zap.String("reason", err.Error()),
		zap.Int("seed_users", len(seed)),
	)
	return NewFallbackBackend(NewMemoryStore(seed...)), nil
}

func openManaged(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(ctx, pool, cfg.DatabaseTimeout); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return pool, nil
}
