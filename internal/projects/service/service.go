// Package service contains project catalog business logic.
package service

import (
	"context"

	"github.com/google/uuid"

	"estatepilot_backend/internal/projects/repository"
	"estatepilot_backend/platform/apperr"
	"estatepilot_backend/platform/logger"
)

// Service implements project catalog operations.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create adds a project to the builder's catalog.
func (s *Service) Create(ctx context.Context, params repository.CreateParams) (repository.Project, error) {
	if err := validateCreate(params); err != nil {
		return repository.Project{}, err
	}
	return s.repo.Create(ctx, params)
}

// Get returns a project scoped to its builder.
func (s *Service) Get(ctx context.Context, builderID, id uuid.UUID) (repository.Project, error) {
	return s.repo.GetByID(ctx, builderID, id)
}

// List returns all of a builder's projects.
func (s *Service) List(ctx context.Context, builderID uuid.UUID) ([]repository.Project, error) {
	return s.repo.ListByBuilder(ctx, builderID)
}

// Active returns the project the assistant grounds replies on.
func (s *Service) Active(ctx context.Context, builderID uuid.UUID) (repository.Project, error) {
	return s.repo.ActiveForBuilder(ctx, builderID)
}

// Update applies a partial edit to a project.
func (s *Service) Update(ctx context.Context, builderID, id uuid.UUID, params repository.UpdateParams) (repository.Project, error) {
	if err := validateUpdate(params); err != nil {
		return repository.Project{}, err
	}
	return s.repo.Update(ctx, builderID, id, params)
}

// SetActive toggles whether a project is eligible for conversations.
func (s *Service) SetActive(ctx context.Context, builderID, id uuid.UUID, active bool) error {
	return s.repo.SetActive(ctx, builderID, id, active)
}

// Delete removes a project from the catalog.
func (s *Service) Delete(ctx context.Context, builderID, id uuid.UUID) error {
	return s.repo.Delete(ctx, builderID, id)
}

func validateCreate(params repository.CreateParams) error {
	if params.ProjectName == "" {
		return apperr.Validation("project name is required")
	}
	if params.PriceMin < 0 || params.PriceMax < 0 {
		return apperr.Validation("prices must be non-negative")
	}
	if params.PriceMin > params.PriceMax {
		return apperr.Validation("price minimum exceeds maximum")
	}
	for _, unit := range params.UnitConfigurations {
		if unit.PriceMin > unit.PriceMax {
			return apperr.Validation("unit price minimum exceeds maximum")
		}
	}
	return nil
}

func validateUpdate(params repository.UpdateParams) error {
	if params.ProjectName != nil && *params.ProjectName == "" {
		return apperr.Validation("project name cannot be empty")
	}
	if params.PriceMin != nil && params.PriceMax != nil && *params.PriceMin > *params.PriceMax {
		return apperr.Validation("price minimum exceeds maximum")
	}
	if params.UnitConfigurations != nil {
		for _, unit := range *params.UnitConfigurations {
			if unit.PriceMin > unit.PriceMax {
				return apperr.Validation("unit price minimum exceeds maximum")
			}
		}
	}
	return nil
}
