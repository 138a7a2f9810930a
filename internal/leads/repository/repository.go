package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"estatepilot_backend/internal/leads/scoring"
	"estatepilot_backend/platform/apperr"
)

const leadNotFoundMessage = "lead not found"

const leadColumns = `
	id, builder_id, project_id, phone, name, language, status, score,
	budget_min, budget_max, unit_type, timeline, last_intent, escalated,
	is_active, followup_count, next_followup_at, last_followup_at,
	last_message_at, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	var timeline *string
	err := row.Scan(
		&lead.ID, &lead.BuilderID, &lead.ProjectID, &lead.Phone, &lead.Name,
		&lead.Language, &lead.Status, &lead.Score, &lead.BudgetMin,
		&lead.BudgetMax, &lead.UnitType, &timeline, &lead.LastIntent,
		&lead.Escalated, &lead.IsActive, &lead.FollowUpCount,
		&lead.NextFollowUpAt, &lead.LastFollowUp,
		&lead.LastMessageAt, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return Lead{}, err
	}
	if timeline != nil {
		t := scoring.Timeline(*timeline)
		lead.Timeline = &t
	}
	return lead, nil
}

// GetByID retrieves a lead scoped to its builder.
func (r *Repo) GetByID(ctx context.Context, builderID, id uuid.UUID) (Lead, error) {
	query := `SELECT` + leadColumns + `
		FROM leads
		WHERE id = $1 AND builder_id = $2`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id, builderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}
	return lead, nil
}

// GetByPhone retrieves an active lead by its E.164 phone number within a
// builder.
func (r *Repo) GetByPhone(ctx context.Context, builderID uuid.UUID, phone string) (Lead, error) {
	query := `SELECT` + leadColumns + `
		FROM leads
		WHERE builder_id = $1 AND phone = $2 AND is_active`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, builderID, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead by phone: %w", err)
	}
	return lead, nil
}

// Create inserts a new lead. A concurrent insert for the same builder and
// phone resolves to the existing row, reactivated and with its activity
// timestamp refreshed.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Lead, error) {
	query := `
		INSERT INTO leads (builder_id, project_id, phone, name, language)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (builder_id, phone)
		DO UPDATE SET is_active = TRUE, followup_count = 0,
			last_message_at = now(), updated_at = now()
		RETURNING` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query,
		params.BuilderID, params.ProjectID, params.Phone, params.Name, params.Language,
	))
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

// Update applies the non-nil fields of params.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Lead, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Name != nil {
		appendSet("name", *params.Name)
	}
	if params.Language != nil {
		appendSet("language", *params.Language)
	}
	if params.BudgetMin != nil {
		appendSet("budget_min", *params.BudgetMin)
	}
	if params.BudgetMax != nil {
		appendSet("budget_max", *params.BudgetMax)
	}
	if params.UnitType != nil {
		appendSet("unit_type", *params.UnitType)
	}
	if params.Timeline != nil {
		appendSet("timeline", string(*params.Timeline))
	}
	if params.LastIntent != nil {
		appendSet("last_intent", *params.LastIntent)
	}
	if params.ProjectID != nil {
		appendSet("project_id", *params.ProjectID)
	}

	query := `UPDATE leads SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1
		RETURNING` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("update lead: %w", err)
	}
	return lead, nil
}

// TouchLastMessage records inbound activity and restarts the follow-up
// cycle. Runs on every inbound message regardless of what else the pipeline
// does with it.
func (r *Repo) TouchLastMessage(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET last_message_at = $2, followup_count = 0, updated_at = now() WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("touch last message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}
	return nil
}

// UpdateScore persists a recomputed score and tier.
func (r *Repo) UpdateScore(ctx context.Context, id uuid.UUID, score int, status scoring.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET score = $2, status = $3, updated_at = now() WHERE id = $1`,
		id, score, status,
	)
	if err != nil {
		return fmt.Errorf("update lead score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}
	return nil
}

// UpdateStatus sets a lead's status directly, used for manual transitions
// such as CONVERTED and LOST.
func (r *Repo) UpdateStatus(ctx context.Context, builderID, id uuid.UUID, status scoring.Status) (Lead, error) {
	query := `UPDATE leads SET status = $3, updated_at = now()
		WHERE id = $1 AND builder_id = $2
		RETURNING` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id, builderID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("update lead status: %w", err)
	}
	return lead, nil
}

// SetEscalated marks or clears a lead's human handoff flag.
func (r *Repo) SetEscalated(ctx context.Context, id uuid.UUID, escalated bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET escalated = $2, updated_at = now() WHERE id = $1`,
		id, escalated,
	)
	if err != nil {
		return fmt.Errorf("set lead escalated: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}
	return nil
}

// RecordFollowUp mirrors follow-up progress onto the lead row.
func (r *Repo) RecordFollowUp(ctx context.Context, id uuid.UUID, count int, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET followup_count = $2, last_followup_at = $3, updated_at = now() WHERE id = $1`,
		id, count, at,
	)
	if err != nil {
		return fmt.Errorf("record followup: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}
	return nil
}

// SetNextFollowUp mirrors the pending follow-up's due time onto the lead.
// A nil time clears it.
func (r *Repo) SetNextFollowUp(ctx context.Context, id uuid.UUID, at *time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET next_followup_at = $2, updated_at = now() WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("set next followup: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}
	return nil
}

// SetActive soft-deletes or restores a lead. Rows are never hard-deleted.
func (r *Repo) SetActive(ctx context.Context, builderID, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET is_active = $3, updated_at = now() WHERE id = $1 AND builder_id = $2`,
		id, builderID, active,
	)
	if err != nil {
		return fmt.Errorf("set lead active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}
	return nil
}

// List returns a page of a builder's leads, most recently active first,
// with the total count before paging.
func (r *Repo) List(ctx context.Context, builderID uuid.UUID, params ListParams) ([]Lead, int, error) {
	conditions := []string{"builder_id = $1", "is_active"}
	args := []any{builderID}

	if params.Status != nil {
		args = append(args, *params.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		args = append(args, "%"+search+"%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR phone ILIKE $%d)", len(args), len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM leads WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	query := `SELECT` + leadColumns + `
		FROM leads
		WHERE ` + where + `
		ORDER BY last_message_at DESC
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("list leads: %w", rows.Err())
	}
	return leads, total, nil
}

// Stats aggregates a builder's pipeline in a single scan.
func (r *Repo) Stats(ctx context.Context, builderID uuid.UUID) (Stats, error) {
	query := `
		SELECT
			count(*),
			count(*) FILTER (WHERE status = 'HOT'),
			count(*) FILTER (WHERE status = 'WARM'),
			count(*) FILTER (WHERE status = 'COLD'),
			count(*) FILTER (WHERE status = 'CONVERTED'),
			count(*) FILTER (WHERE status = 'LOST'),
			count(*) FILTER (WHERE escalated)
		FROM leads
		WHERE builder_id = $1 AND is_active`

	var stats Stats
	err := r.pool.QueryRow(ctx, query, builderID).Scan(
		&stats.Total, &stats.Hot, &stats.Warm, &stats.Cold,
		&stats.Converted, &stats.Lost, &stats.Escalated,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("lead stats: %w", err)
	}
	return stats, nil
}
