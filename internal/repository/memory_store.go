package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"eatrite-api/internal/domain"
)

// MemoryStore es el almacenamiento de respaldo cuando no hay backend gestionado.
// Vive lo que vive el proceso: nada se persiste entre reinicios.
type MemoryStore struct {
	mu          sync.Mutex
	users       map[string]domain.User
	emails      map[string]string
	preferences map[string]domain.Preferences
}

// NewMemoryStore crea un store vacio con los usuarios semilla indicados.
func NewMemoryStore(seed ...domain.User) *MemoryStore {
	s := &MemoryStore{
		users:       make(map[string]domain.User),
		emails:      make(map[string]string),
		preferences: make(map[string]domain.Preferences),
	}
	for _, u := range seed {
		s.users[u.ID] = u
		s.emails[strings.ToLower(u.Email)] = u.ID
	}
	return s
}

func (s *MemoryStore) Users() UserRepository {
	return &memoryUserRepository{store: s}
}

func (s *MemoryStore) Preferences() PreferencesRepository {
	return &memoryPreferencesRepository{store: s}
}

type memoryUserRepository struct {
	store *MemoryStore
}

func (r *memoryUserRepository) Create(_ context.Context, user domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, ok := s.emails[key]; ok {
		return domain.ErrConflict
	}
	if _, ok := s.users[user.ID]; ok {
		return domain.ErrConflict
	}
	s.users[user.ID] = user
	s.emails[key] = user.ID
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return s.users[id], nil
}

type memoryPreferencesRepository struct {
	store *MemoryStore
}

func (r *memoryPreferencesRepository) Get(_ context.Context, userID string) (domain.Preferences, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.preferences[userID]
	if !ok {
		return domain.Preferences{}, domain.ErrNotFound
	}
	return clonePreferences(p), nil
}

func (r *memoryPreferencesRepository) Create(_ context.Context, prefs domain.Preferences) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.preferences[prefs.UserID]; ok {
		return domain.ErrConflict
	}
	s.preferences[prefs.UserID] = clonePreferences(prefs)
	return nil
}

func (r *memoryPreferencesRepository) Update(_ context.Context, userID string, patch domain.PreferencesPatch, now time.Time) (domain.Preferences, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.preferences[userID]
	if !ok {
		return domain.Preferences{}, domain.ErrNotFound
	}
	updated := current.Apply(patch, now)
	s.preferences[userID] = clonePreferences(updated)
	return clonePreferences(updated), nil
}

func (r *memoryPreferencesRepository) Delete(_ context.Context, userID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.preferences[userID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.preferences, userID)
	return nil
}

// clonePreferences evita que quien llama comparta slices con el mapa interno.
func clonePreferences(p domain.Preferences) domain.Preferences {
	out := p
	out.Allergies = append([]string{}, p.Allergies...)
	out.DietaryRestrictions = append([]string{}, p.DietaryRestrictions...)
	if p.HealthGoals != nil {
		goals := *p.HealthGoals
		out.HealthGoals = &goals
	}
	return out
}
