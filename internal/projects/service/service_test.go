package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"estatepilot_backend/internal/projects/repository"
	"estatepilot_backend/platform/apperr"
	"estatepilot_backend/platform/logger"
)

type fakeRepo struct {
	projects map[uuid.UUID]repository.Project
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{projects: make(map[uuid.UUID]repository.Project)}
}

func (r *fakeRepo) Create(ctx context.Context, params repository.CreateParams) (repository.Project, error) {
	project := repository.Project{
		ID:          uuid.New(),
		BuilderID:   params.BuilderID,
		ProjectName: params.ProjectName,
		PriceMin:    params.PriceMin,
		PriceMax:    params.PriceMax,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	r.projects[project.ID] = project
	return project, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, builderID, id uuid.UUID) (repository.Project, error) {
	project, ok := r.projects[id]
	if !ok || project.BuilderID != builderID {
		return repository.Project{}, apperr.NotFound("project not found")
	}
	return project, nil
}

func (r *fakeRepo) ListByBuilder(ctx context.Context, builderID uuid.UUID) ([]repository.Project, error) {
	var projects []repository.Project
	for _, p := range r.projects {
		if p.BuilderID == builderID {
			projects = append(projects, p)
		}
	}
	return projects, nil
}

func (r *fakeRepo) ActiveForBuilder(ctx context.Context, builderID uuid.UUID) (repository.Project, error) {
	for _, p := range r.projects {
		if p.BuilderID == builderID && p.IsActive {
			return p, nil
		}
	}
	return repository.Project{}, apperr.NotFound("no active project")
}

func (r *fakeRepo) Update(ctx context.Context, builderID, id uuid.UUID, params repository.UpdateParams) (repository.Project, error) {
	project, err := r.GetByID(ctx, builderID, id)
	if err != nil {
		return repository.Project{}, err
	}
	if params.ProjectName != nil {
		project.ProjectName = *params.ProjectName
	}
	if params.PriceMin != nil {
		project.PriceMin = *params.PriceMin
	}
	if params.PriceMax != nil {
		project.PriceMax = *params.PriceMax
	}
	r.projects[id] = project
	return project, nil
}

func (r *fakeRepo) SetActive(ctx context.Context, builderID, id uuid.UUID, active bool) error {
	project, err := r.GetByID(ctx, builderID, id)
	if err != nil {
		return err
	}
	project.IsActive = active
	r.projects[id] = project
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, builderID, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, builderID, id); err != nil {
		return err
	}
	delete(r.projects, id)
	return nil
}

func newService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return New(repo, logger.New("test")), repo
}

func TestCreateValidProject(t *testing.T) {
	svc, _ := newService()

	project, err := svc.Create(context.Background(), repository.CreateParams{
		BuilderID:   uuid.New(),
		ProjectName: "Green Valley Heights",
		PriceMin:    5000000,
		PriceMax:    9000000,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !project.IsActive {
		t.Fatal("new project should be active")
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newService()
	builderID := uuid.New()

	cases := []struct {
		name   string
		params repository.CreateParams
	}{
		{"missing name", repository.CreateParams{BuilderID: builderID}},
		{"negative price", repository.CreateParams{BuilderID: builderID, ProjectName: "P", PriceMin: -1}},
		{"min above max", repository.CreateParams{BuilderID: builderID, ProjectName: "P", PriceMin: 100, PriceMax: 50}},
		{"unit min above max", repository.CreateParams{
			BuilderID:   builderID,
			ProjectName: "P",
			UnitConfigurations: []repository.UnitConfiguration{
				{Type: "2BHK", PriceMin: 100, PriceMax: 50},
			},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.params)
			if apperr.GetKind(err) != apperr.KindValidation {
				t.Fatalf("err = %v, want validation error", err)
			}
		})
	}
}

func TestUpdateValidation(t *testing.T) {
	svc, repo := newService()
	builderID := uuid.New()
	created, err := repo.Create(context.Background(), repository.CreateParams{
		BuilderID:   builderID,
		ProjectName: "Green Valley Heights",
		PriceMin:    5000000,
		PriceMax:    9000000,
	})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}

	empty := ""
	if _, err := svc.Update(context.Background(), builderID, created.ID, repository.UpdateParams{ProjectName: &empty}); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("empty name err = %v, want validation error", err)
	}

	low, high := int64(100), int64(50)
	if _, err := svc.Update(context.Background(), builderID, created.ID, repository.UpdateParams{PriceMin: &low, PriceMax: &high}); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("inverted range err = %v, want validation error", err)
	}

	name := "Green Valley Phase 2"
	updated, err := svc.Update(context.Background(), builderID, created.ID, repository.UpdateParams{ProjectName: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ProjectName != name {
		t.Fatalf("name = %q", updated.ProjectName)
	}
}

func TestActiveScopedToBuilder(t *testing.T) {
	svc, repo := newService()
	builderID := uuid.New()
	if _, err := repo.Create(context.Background(), repository.CreateParams{BuilderID: builderID, ProjectName: "Mine"}); err != nil {
		t.Fatalf("seed project: %v", err)
	}

	project, err := svc.Active(context.Background(), builderID)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if project.ProjectName != "Mine" {
		t.Fatalf("project = %q", project.ProjectName)
	}

	if _, err := svc.Active(context.Background(), uuid.New()); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("other builder err = %v, want not found", err)
	}
}

func TestSetActiveAndDelete(t *testing.T) {
	svc, repo := newService()
	builderID := uuid.New()
	created, err := repo.Create(context.Background(), repository.CreateParams{BuilderID: builderID, ProjectName: "Mine"})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}

	if err := svc.SetActive(context.Background(), builderID, created.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if _, err := svc.Active(context.Background(), builderID); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("deactivated project still active: %v", err)
	}

	if err := svc.Delete(context.Background(), builderID, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), builderID, created.ID); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("deleted project still readable: %v", err)
	}
}
