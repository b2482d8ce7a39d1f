// Package profileservice manages business logic of the translator directory.
package profileservice

import (
	"context"

	"github.com/linguamarket/lingua/internal/domain"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=profileservice

// Repo provides data access layer to the profile service.
type Repo interface {
	Create(ctx context.Context, arg domain.CreateProfileParams) (domain.TranslatorProfile, error)
	GetByUsername(ctx context.Context, username string) (domain.TranslatorProfile, error)
	List(ctx context.Context) ([]domain.TranslatorProfile, error)
	SetAvailability(ctx context.Context, available bool, username string) (domain.TranslatorProfile, error)
}

// Service facilitates translator directory logic.
type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{
		repo: repo,
	}
}

// Create publishes the translator profile in the directory.
func (s *Service) Create(ctx context.Context, arg domain.CreateProfileParams) (domain.TranslatorProfile, error) {
	return s.repo.Create(ctx, arg)
}

// Get returns the profile owned by the given translator.
func (s *Service) Get(ctx context.Context, username string) (domain.TranslatorProfile, error) {
	return s.repo.GetByUsername(ctx, username)
}

// List returns every translator profile in the directory.
func (s *Service) List(ctx context.Context) ([]domain.TranslatorProfile, error) {
	return s.repo.List(ctx)
}

// SetAvailability toggles whether the translator accepts new assignments.
func (s *Service) SetAvailability(ctx context.Context, available bool, username string) (domain.TranslatorProfile, error) {
	return s.repo.SetAvailability(ctx, available, username)
}
