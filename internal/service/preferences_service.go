package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"eatrite-api/internal/domain"
	"eatrite-api/internal/repository"
)

// PreferencesService gestiona el registro unico de preferencias de cada usuario.
type PreferencesService struct {
	logger *zap.Logger
	repo   repository.PreferencesRepository
	now    func() time.Time
}

func NewPreferencesService(logger *zap.Logger, repo repository.PreferencesRepository) *PreferencesService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferencesService{
		logger: logger,
		repo:   repo,
		now:    time.Now,
	}
}

type CreatePreferencesInput struct {
	Allergies           []string
	DietaryRestrictions []string
	HealthGoals         *string
}

func (s *PreferencesService) Get(ctx context.Context, userID string) (domain.Preferences, error) {
	if userID == "" {
		return domain.Preferences{}, domain.ErrNotFound
	}
	return s.repo.Get(ctx, userID)
}

// Create falla con domain.ErrConflict si el usuario ya tiene registro.
func (s *PreferencesService) Create(ctx context.Context, userID string, input CreatePreferencesInput) (domain.Preferences, error) {
	if userID == "" {
		return domain.Preferences{}, domain.ErrMalformed
	}
	now := s.now().UTC()
	prefs := domain.Preferences{
		UserID:              userID,
		Allergies:           domain.NormalizeTags(input.Allergies),
		DietaryRestrictions: domain.NormalizeTags(input.DietaryRestrictions),
		HealthGoals:         input.HealthGoals,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.repo.Create(ctx, prefs); err != nil {
		return domain.Preferences{}, fmt.Errorf("create preferences: %w", err)
	}
	s.logger.Info("preferences created", zap.String("user_id", userID))
	return prefs, nil
}

// Update aplica una actualizacion parcial; falla con domain.ErrNotFound si no hay registro.
func (s *PreferencesService) Update(ctx context.Context, userID string, patch domain.PreferencesPatch) (domain.Preferences, error) {
	if userID == "" {
		return domain.Preferences{}, domain.ErrNotFound
	}
	prefs, err := s.repo.Update(ctx, userID, patch, s.now().UTC())
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("update preferences: %w", err)
	}
	return prefs, nil
}

// Delete no es idempotente: un segundo borrado devuelve domain.ErrNotFound.
func (s *PreferencesService) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrNotFound
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}
	s.logger.Info("preferences deleted", zap.String("user_id", userID))
	return nil
}
