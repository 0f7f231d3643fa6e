package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cvai-core/internal/models"
)

// GetUserProfile returns the stored profile or ErrNotFound.
func (s *Store) GetUserProfile(ctx context.Context) (models.UserProfile, error) {
	p, ok, err := s.readProfile(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}
	if !ok {
		return models.UserProfile{}, ErrNotFound
	}
	return p, nil
}

// CreateUserProfile stores a new profile. It fails with ErrProfileExists when
// one is already stored.
func (s *Store) CreateUserProfile(ctx context.Context, name, email, phone string) (models.UserProfile, error) {
	p := models.UserProfile{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		Phone: strings.TrimSpace(phone),
	}
	if err := p.Validate(); err != nil {
		return models.UserProfile{}, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok, err := s.readProfile(ctx); err != nil {
		return models.UserProfile{}, err
	} else if ok {
		return models.UserProfile{}, ErrProfileExists
	}

	now := s.clock.Now()
	p.ID = s.GenerateID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := writeRaw(ctx, s.medium, KeyUserProfile, p); err != nil {
		return models.UserProfile{}, err
	}
	return p, nil
}

// SaveUserProfile fully replaces the singleton. The stored id and createdAt
// survive; a first save allocates them.
func (s *Store) SaveUserProfile(ctx context.Context, p models.UserProfile) (models.UserProfile, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	if err := p.Validate(); err != nil {
		return models.UserProfile{}, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok, err := s.readProfile(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}
	now := s.clock.Now()
	if ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	}
	if strings.TrimSpace(p.ID) == "" {
		p.ID = s.GenerateID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if err := writeRaw(ctx, s.medium, KeyUserProfile, p); err != nil {
		return models.UserProfile{}, err
	}
	return p, nil
}

// DeleteUserProfile removes the singleton. Deleting an absent profile succeeds.
func (s *Store) DeleteUserProfile(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.medium.Remove(ctx, KeyUserProfile); err != nil {
		return fmt.Errorf("%w: remove %s: %w", ErrStorageUnavailable, KeyUserProfile, err)
	}
	return nil
}

func (s *Store) readProfile(ctx context.Context) (models.UserProfile, bool, error) {
	data, err := readRaw(ctx, s.medium, KeyUserProfile)
	if err != nil {
		return models.UserProfile{}, false, err
	}
	if len(data) == 0 {
		return models.UserProfile{}, false, nil
	}
	var p models.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return models.UserProfile{}, false, fmt.Errorf("decode %s: %w", KeyUserProfile, err)
	}
	return p, true, nil
}
