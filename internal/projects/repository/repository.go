package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"estatepilot_backend/platform/apperr"
)

const projectNotFoundMessage = "project not found"

const projectColumns = `
	id, builder_id, project_name, location, price_min, price_max,
	unit_configurations, amenities, specifications, rera_number,
	possession_timeline, payment_plans, loan_options, faq_points,
	objection_points, is_active, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new projects repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a project scoped to its builder.
func (r *Repo) GetByID(ctx context.Context, builderID, id uuid.UUID) (Project, error) {
	query := `SELECT` + projectColumns + `
		FROM projects
		WHERE id = $1 AND builder_id = $2`

	row := r.pool.QueryRow(ctx, query, id, builderID)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, apperr.NotFound(projectNotFoundMessage)
		}
		return Project{}, fmt.Errorf("get project by id: %w", err)
	}
	return project, nil
}

// ListByBuilder retrieves all of a builder's projects, newest first.
func (r *Repo) ListByBuilder(ctx context.Context, builderID uuid.UUID) ([]Project, error) {
	query := `SELECT` + projectColumns + `
		FROM projects
		WHERE builder_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, builderID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// ActiveForBuilder returns the builder's first active project.
func (r *Repo) ActiveForBuilder(ctx context.Context, builderID uuid.UUID) (Project, error) {
	query := `SELECT` + projectColumns + `
		FROM projects
		WHERE builder_id = $1 AND is_active = true
		ORDER BY created_at ASC
		LIMIT 1`

	row := r.pool.QueryRow(ctx, query, builderID)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, apperr.NotFound("no active project for builder")
		}
		return Project{}, fmt.Errorf("active project for builder: %w", err)
	}
	return project, nil
}

// Create inserts a new project.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Project, error) {
	query := `
		INSERT INTO projects (
			builder_id, project_name, location, price_min, price_max,
			unit_configurations, amenities, specifications, rera_number,
			possession_timeline, payment_plans, loan_options, faq_points,
			objection_points
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING` + projectColumns

	location, err := json.Marshal(params.Location)
	if err != nil {
		return Project{}, fmt.Errorf("marshal location: %w", err)
	}
	units, err := json.Marshal(params.UnitConfigurations)
	if err != nil {
		return Project{}, fmt.Errorf("marshal unit configurations: %w", err)
	}
	paymentPlans, err := json.Marshal(params.PaymentPlans)
	if err != nil {
		return Project{}, fmt.Errorf("marshal payment plans: %w", err)
	}
	loanOptions, err := json.Marshal(params.LoanOptions)
	if err != nil {
		return Project{}, fmt.Errorf("marshal loan options: %w", err)
	}
	faqPoints, err := json.Marshal(params.FAQPoints)
	if err != nil {
		return Project{}, fmt.Errorf("marshal faq points: %w", err)
	}
	objectionPoints, err := json.Marshal(params.ObjectionPoints)
	if err != nil {
		return Project{}, fmt.Errorf("marshal objection points: %w", err)
	}

	row := r.pool.QueryRow(ctx, query,
		params.BuilderID, params.ProjectName, location, params.PriceMin, params.PriceMax,
		units, params.Amenities, params.Specifications, params.ReraNumber,
		params.PossessionTimeline, paymentPlans, loanOptions, faqPoints, objectionPoints,
	)
	project, err := scanProject(row)
	if err != nil {
		return Project{}, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

// Update applies the provided fields and returns the updated project.
func (r *Repo) Update(ctx context.Context, builderID, id uuid.UUID, params UpdateParams) (Project, error) {
	current, err := r.GetByID(ctx, builderID, id)
	if err != nil {
		return Project{}, err
	}

	applyUpdate(&current, params)

	query := `
		UPDATE projects SET
			project_name = $3, location = $4, price_min = $5, price_max = $6,
			unit_configurations = $7, amenities = $8, specifications = $9,
			rera_number = $10, possession_timeline = $11, payment_plans = $12,
			loan_options = $13, faq_points = $14, objection_points = $15,
			updated_at = now()
		WHERE id = $1 AND builder_id = $2
		RETURNING` + projectColumns

	location, err := json.Marshal(current.Location)
	if err != nil {
		return Project{}, fmt.Errorf("marshal location: %w", err)
	}
	units, err := json.Marshal(current.UnitConfigurations)
	if err != nil {
		return Project{}, fmt.Errorf("marshal unit configurations: %w", err)
	}
	paymentPlans, err := json.Marshal(current.PaymentPlans)
	if err != nil {
		return Project{}, fmt.Errorf("marshal payment plans: %w", err)
	}
	loanOptions, err := json.Marshal(current.LoanOptions)
	if err != nil {
		return Project{}, fmt.Errorf("marshal loan options: %w", err)
	}
	faqPoints, err := json.Marshal(current.FAQPoints)
	if err != nil {
		return Project{}, fmt.Errorf("marshal faq points: %w", err)
	}
	objectionPoints, err := json.Marshal(current.ObjectionPoints)
	if err != nil {
		return Project{}, fmt.Errorf("marshal objection points: %w", err)
	}

	row := r.pool.QueryRow(ctx, query,
		id, builderID,
		current.ProjectName, location, current.PriceMin, current.PriceMax,
		units, current.Amenities, current.Specifications,
		current.ReraNumber, current.PossessionTimeline, paymentPlans,
		loanOptions, faqPoints, objectionPoints,
	)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, apperr.NotFound(projectNotFoundMessage)
		}
		return Project{}, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

// SetActive toggles the project's active flag.
func (r *Repo) SetActive(ctx context.Context, builderID, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE projects SET is_active = $3, updated_at = now() WHERE id = $1 AND builder_id = $2`,
		id, builderID, active)
	if err != nil {
		return fmt.Errorf("set project active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(projectNotFoundMessage)
	}
	return nil
}

// Delete removes a project.
func (r *Repo) Delete(ctx context.Context, builderID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM projects WHERE id = $1 AND builder_id = $2`, id, builderID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(projectNotFoundMessage)
	}
	return nil
}

func applyUpdate(project *Project, params UpdateParams) {
	if params.ProjectName != nil {
		project.ProjectName = *params.ProjectName
	}
	if params.Location != nil {
		project.Location = *params.Location
	}
	if params.PriceMin != nil {
		project.PriceMin = *params.PriceMin
	}
	if params.PriceMax != nil {
		project.PriceMax = *params.PriceMax
	}
	if params.UnitConfigurations != nil {
		project.UnitConfigurations = *params.UnitConfigurations
	}
	if params.Amenities != nil {
		project.Amenities = *params.Amenities
	}
	if params.Specifications != nil {
		project.Specifications = *params.Specifications
	}
	if params.ReraNumber != nil {
		project.ReraNumber = *params.ReraNumber
	}
	if params.PossessionTimeline != nil {
		project.PossessionTimeline = *params.PossessionTimeline
	}
	if params.PaymentPlans != nil {
		project.PaymentPlans = *params.PaymentPlans
	}
	if params.LoanOptions != nil {
		project.LoanOptions = *params.LoanOptions
	}
	if params.FAQPoints != nil {
		project.FAQPoints = *params.FAQPoints
	}
	if params.ObjectionPoints != nil {
		project.ObjectionPoints = *params.ObjectionPoints
	}
}

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	var location, units, paymentPlans, loanOptions, faqPoints, objectionPoints []byte

	err := row.Scan(
		&p.ID, &p.BuilderID, &p.ProjectName, &location, &p.PriceMin, &p.PriceMax,
		&units, &p.Amenities, &p.Specifications, &p.ReraNumber,
		&p.PossessionTimeline, &paymentPlans, &loanOptions, &faqPoints,
		&objectionPoints, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return Project{}, err
	}

	if err := unmarshalInto(location, &p.Location); err != nil {
		return Project{}, fmt.Errorf("decode location: %w", err)
	}
	if err := unmarshalInto(units, &p.UnitConfigurations); err != nil {
		return Project{}, fmt.Errorf("decode unit configurations: %w", err)
	}
	if err := unmarshalInto(paymentPlans, &p.PaymentPlans); err != nil {
		return Project{}, fmt.Errorf("decode payment plans: %w", err)
	}
	if err := unmarshalInto(loanOptions, &p.LoanOptions); err != nil {
		return Project{}, fmt.Errorf("decode loan options: %w", err)
	}
	if err := unmarshalInto(faqPoints, &p.FAQPoints); err != nil {
		return Project{}, fmt.Errorf("decode faq points: %w", err)
	}
	if err := unmarshalInto(objectionPoints, &p.ObjectionPoints); err != nil {
		return Project{}, fmt.Errorf("decode objection points: %w", err)
	}
	return p, nil
}

func unmarshalInto(data []byte, target interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}
