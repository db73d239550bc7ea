package repository

import (
	"context"
	"time"

	"eatrite-api/internal/domain"
)

// PreferencesRepository guarda un unico registro de preferencias por usuario.
type PreferencesRepository interface {
	Get(ctx context.Context, userID string) (domain.Preferences, error)
	Create(ctx context.Context, prefs domain.Preferences) error
	Update(ctx context.Context, userID string, patch domain.PreferencesPatch, now time.Time) (domain.Preferences, error)
	Delete(ctx context.Context, userID string) error
}

type PgPreferencesRepository struct {
	db    pgxQuerier
	guard *guard
}

func NewPgPreferencesRepository(db pgxQuerier, g *guard) *PgPreferencesRepository {
	return &PgPreferencesRepository{db: db, guard: g}
}

func (r *PgPreferencesRepository) Get(ctx context.Context, userID string) (domain.Preferences, error) {
	const query = `
		SELECT user_id::text, allergies, dietary_restrictions, health_goals, created_at, updated_at
		FROM user_preferences
		WHERE user_id::text = $1
	`
	var p domain.Preferences
	err := r.guard.run(ctx, func(ctx context.Context) error {
		return r.db.QueryRow(ctx, query, userID).Scan(
			&p.UserID,
			&p.Allergies,
			&p.DietaryRestrictions,
			&p.HealthGoals,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
	})
	if err != nil {
		return domain.Preferences{}, err
	}
	return p, nil
}

func (r *PgPreferencesRepository) Create(ctx context.Context, prefs domain.Preferences) error {
	const query = `
		INSERT INTO user_preferences (user_id, allergies, dietary_restrictions, health_goals, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	return r.guard.run(ctx, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query,
			prefs.UserID,
			prefs.Allergies,
			prefs.DietaryRestrictions,
			prefs.HealthGoals,
			prefs.CreatedAt,
			prefs.UpdatedAt,
		)
		return err
	})
}

// Update aplica el patch en una sola sentencia; los parametros NULL conservan
// el valor actual de la columna.
func (r *PgPreferencesRepository) Update(ctx context.Context, userID string, patch domain.PreferencesPatch, now time.Time) (domain.Preferences, error) {
	const query = `
		UPDATE user_preferences
		SET allergies = COALESCE($2, allergies),
			dietary_restrictions = COALESCE($3, dietary_restrictions),
			health_goals = COALESCE($4, health_goals),
			updated_at = $5
		WHERE user_id::text = $1
		RETURNING user_id::text, allergies, dietary_restrictions, health_goals, created_at, updated_at
	`
	var allergies, restrictions []string
	if patch.Allergies != nil {
		allergies = domain.NormalizeTags(*patch.Allergies)
	}
	if patch.DietaryRestrictions != nil {
		restrictions = domain.NormalizeTags(*patch.DietaryRestrictions)
	}

	var p domain.Preferences
	err := r.guard.run(ctx, func(ctx context.Context) error {
		return r.db.QueryRow(ctx, query, userID, allergies, restrictions, patch.HealthGoals, now).Scan(
			&p.UserID,
			&p.Allergies,
			&p.DietaryRestrictions,
			&p.HealthGoals,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
	})
	if err != nil {
		return domain.Preferences{}, err
	}
	return p, nil
}

func (r *PgPreferencesRepository) Delete(ctx context.Context, userID string) error {
	const query = `DELETE FROM user_preferences WHERE user_id::text = $1`
	return r.guard.run(ctx, func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, query, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
