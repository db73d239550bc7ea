package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"eatrite-api/internal/domain"
	"eatrite-api/internal/repository"
)

func newTestPreferencesService(clock func() time.Time) *PreferencesService {
	svc := NewPreferencesService(zap.NewNop(), repository.NewMemoryStore().Preferences())
	if clock != nil {
		svc.now = clock
	}
	return svc
}

func TestPreferencesService_CreateGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestPreferencesService(func() time.Time { return created })

	goals := "lose weight"
	prefs, err := svc.Create(ctx, "u1", CreatePreferencesInput{
		Allergies:           []string{"peanuts", "", "peanuts", "shellfish"},
		DietaryRestrictions: nil,
		HealthGoals:         &goals,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !reflect.DeepEqual(prefs.Allergies, []string{"peanuts", "shellfish"}) {
		t.Fatalf("unexpected allergies %v", prefs.Allergies)
	}
	if prefs.DietaryRestrictions == nil || len(prefs.DietaryRestrictions) != 0 {
		t.Fatalf("expected empty, non-nil restrictions, got %#v", prefs.DietaryRestrictions)
	}
	if !prefs.CreatedAt.Equal(created) || !prefs.UpdatedAt.Equal(created) {
		t.Fatalf("unexpected timestamps %v %v", prefs.CreatedAt, prefs.UpdatedAt)
	}

	got, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(got, prefs) {
		t.Fatalf("get mismatch:\n got %+v\nwant %+v", got, prefs)
	}
}

func TestPreferencesService_CreateTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	svc := newTestPreferencesService(nil)
	if _, err := svc.Create(ctx, "u1", CreatePreferencesInput{Allergies: []string{"milk"}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "u1", CreatePreferencesInput{Allergies: []string{"eggs"}}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	got, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(got.Allergies, []string{"milk"}) {
		t.Fatalf("record changed by conflicting create: %v", got.Allergies)
	}
}

func TestPreferencesService_UpdatePartial(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestPreferencesService(func() time.Time { return current })

	goals := "more protein"
	if _, err := svc.Create(ctx, "u1", CreatePreferencesInput{
		Allergies:           []string{"peanuts"},
		DietaryRestrictions: []string{"vegan"},
		HealthGoals:         &goals,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	current = current.Add(time.Hour)
	restrictions := []string{"gluten-free", "gluten-free"}
	updated, err := svc.Update(ctx, "u1", domain.PreferencesPatch{DietaryRestrictions: &restrictions})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !reflect.DeepEqual(updated.Allergies, []string{"peanuts"}) {
		t.Fatalf("allergies must be unchanged, got %v", updated.Allergies)
	}
	if !reflect.DeepEqual(updated.DietaryRestrictions, []string{"gluten-free"}) {
		t.Fatalf("unexpected restrictions %v", updated.DietaryRestrictions)
	}
	if updated.HealthGoals == nil || *updated.HealthGoals != goals {
		t.Fatalf("health goals must be unchanged, got %v", updated.HealthGoals)
	}
	if !updated.UpdatedAt.Equal(current) {
		t.Fatalf("expected updated_at %v, got %v", current, updated.UpdatedAt)
	}
	if updated.CreatedAt.Equal(updated.UpdatedAt) {
		t.Fatalf("created_at must not move on update")
	}
}

func TestPreferencesService_UpdateMissingRecord(t *testing.T) {
	svc := newTestPreferencesService(nil)
	allergies := []string{"milk"}
	_, err := svc.Update(context.Background(), "ghost", domain.PreferencesPatch{Allergies: &allergies})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPreferencesService_DeleteIsNotIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestPreferencesService(nil)
	if _, err := svc.Create(ctx, "u1", CreatePreferencesInput{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestPreferencesService_UsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc := newTestPreferencesService(nil)
	if _, err := svc.Create(ctx, "u1", CreatePreferencesInput{Allergies: []string{"milk"}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Get(ctx, "u2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
	if err := svc.Delete(ctx, "u2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting other user, got %v", err)
	}
	if _, err := svc.Get(ctx, "u1"); err != nil {
		t.Fatalf("u1 record must survive: %v", err)
	}
}
