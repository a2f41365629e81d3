package service

import (
	"context"
	"strings"
	"time"

	"MeridianWebserver/internal/domain"
)

type FeaturesStore interface {
	ListFeatures(ctx context.Context) ([]domain.Feature, error)
	GetFeature(ctx context.Context, id string) (domain.Feature, error)
	CreateFeature(ctx context.Context, f domain.Feature) error
	UpdateFeature(ctx context.Context, f domain.Feature) error
	DeleteFeature(ctx context.Context, id string) error
}

// FeaturesService manages the site feature flags edited from the admin
// console.
type FeaturesService struct {
	Store FeaturesStore
	Now   func() time.Time
}

func (s *FeaturesService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *FeaturesService) List(ctx context.Context) ([]domain.Feature, error) {
	return s.Store.ListFeatures(ctx)
}

func (s *FeaturesService) Get(ctx context.Context, id string) (domain.Feature, error) {
	return s.Store.GetFeature(ctx, id)
}

func (s *FeaturesService) Create(ctx context.Context, name, description string, enabled bool) (domain.Feature, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Feature{}, domain.NewValidationError(map[string]string{"name": "required"})
	}

	now := s.now().UTC()
	f := domain.Feature{
		ID:          newID("feat", now),
		Name:        name,
		Description: strings.TrimSpace(description),
		Enabled:     enabled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.CreateFeature(ctx, f); err != nil {
		return domain.Feature{}, err
	}
	return f, nil
}

type FeaturePatch struct {
	Name        *string
	Description *string
	Enabled     *bool
}

func (s *FeaturesService) Update(ctx context.Context, id string, patch FeaturePatch) (domain.Feature, error) {
	f, err := s.Store.GetFeature(ctx, id)
	if err != nil {
		return domain.Feature{}, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return domain.Feature{}, domain.NewValidationError(map[string]string{"name": "must not be empty"})
		}
		f.Name = name
	}
	if patch.Description != nil {
		f.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Enabled != nil {
		f.Enabled = *patch.Enabled
	}
	f.UpdatedAt = s.now().UTC()

	if err := s.Store.UpdateFeature(ctx, f); err != nil {
		return domain.Feature{}, err
	}
	return f, nil
}

func (s *FeaturesService) Delete(ctx context.Context, id string) error {
	return s.Store.DeleteFeature(ctx, id)
}
