package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"eatrite-api/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// pgxQuerier es la parte de pgxpool.Pool que usan los repositorios.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgUserRepository implementa UserRepository sobre Postgres.
type PgUserRepository struct {
	db    pgxQuerier
	guard *guard
}

func NewPgUserRepository(db pgxQuerier, g *guard) *PgUserRepository {
	return &PgUserRepository{db: db, guard: g}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, full_name, password_hash, disabled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	return r.guard.run(ctx, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query,
			user.ID,
			user.Email,
			user.FullName,
			user.PasswordHash,
			user.Disabled,
			user.CreatedAt,
		)
		return err
	})
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `
		SELECT id::text, email, full_name, password_hash, disabled, created_at
		FROM users
		WHERE id::text = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `
		SELECT id::text, email, full_name, password_hash, disabled, created_at
		FROM users
		WHERE email = $1
	`
	return r.getOne(ctx, query, email)
}

func (r *PgUserRepository) getOne(ctx context.Context, query string, arg string) (domain.User, error) {
	var u domain.User
	err := r.guard.run(ctx, func(ctx context.Context) error {
		return r.db.QueryRow(ctx, query, arg).Scan(
			&u.ID,
			&u.Email,
			&u.FullName,
			&u.PasswordHash,
			&u.Disabled,
			&u.CreatedAt,
		)
	})
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
