package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"eatrite-api/internal/domain"
	"eatrite-api/internal/repository"
)

const (
	DevAccountID       = "00000000-0000-0000-0000-000000000000"
	DevAccountEmail    = "test@example.com"
	DevAccountPassword = "secret"
)

// CredentialService registra y autentica usuarios contra el backend elegido.
type CredentialService struct {
	logger  *zap.Logger
	users   repository.UserRepository
	limiter LoginRateLimiter
	cost    int
}

func NewCredentialService(logger *zap.Logger, users repository.UserRepository, limiter LoginRateLimiter, cost int) *CredentialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialService{
		logger:  logger,
		users:   users,
		limiter: limiter,
		cost:    cost,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

func (s *CredentialService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return domain.User{}, domain.ErrMalformed
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Verify autentica email y password. Email desconocido, password incorrecto y
// usuario deshabilitado devuelven el mismo domain.ErrUnauthorized y cuentan
// como fallo para el limitador; un login correcto lo reinicia.
func (s *CredentialService) Verify(ctx context.Context, emailAddr, password string) (domain.User, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.User{}, domain.ErrUnauthorized
	}
	if s.limiter != nil && !s.limiter.Allow(emailAddr) {
		return domain.User{}, domain.ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, s.failed(emailAddr)
		}
		return domain.User{}, err
	}
	if user.Disabled || user.PasswordHash == "" {
		return domain.User{}, s.failed(emailAddr)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, s.failed(emailAddr)
	}
	if s.limiter != nil {
		s.limiter.Reset(emailAddr)
	}
	return user, nil
}

func (s *CredentialService) failed(emailAddr string) error {
	if s.limiter != nil {
		s.limiter.RecordFailure(emailAddr)
	}
	return domain.ErrUnauthorized
}

func (s *CredentialService) GetByID(ctx context.Context, id string) (domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// DevAccount construye la cuenta de desarrollo que siembra el store de respaldo.
func DevAccount(cost int) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DevAccountPassword), cost)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		ID:           DevAccountID,
		Email:        DevAccountEmail,
		FullName:     "Test User",
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
