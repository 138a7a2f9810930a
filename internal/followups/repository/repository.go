package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"estatepilot_backend/platform/apperr"
)

const followUpNotFoundMessage = "followup not found"

const followUpColumns = `id, builder_id, lead_id, tier, attempt, scheduled_at, active, sent_at, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new follow-ups repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanFollowUp(row pgx.Row) (FollowUp, error) {
	var f FollowUp
	err := row.Scan(
		&f.ID, &f.BuilderID, &f.LeadID, &f.Tier, &f.Attempt,
		&f.ScheduledAt, &f.Active, &f.SentAt, &f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}

// Create schedules a follow-up. A second active row for the same lead
// violates the partial unique index and maps to a conflict error.
func (r *Repo) Create(ctx context.Context, params CreateParams) (FollowUp, error) {
	query := `
		INSERT INTO followups (builder_id, lead_id, tier, attempt, scheduled_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + followUpColumns

	followUp, err := scanFollowUp(r.pool.QueryRow(ctx, query,
		params.BuilderID, params.LeadID, params.Tier, params.Attempt, params.ScheduledAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return FollowUp{}, apperr.Conflict("lead already has an active followup")
		}
		return FollowUp{}, fmt.Errorf("create followup: %w", err)
	}
	return followUp, nil
}

// GetByID retrieves a follow-up.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (FollowUp, error) {
	query := `SELECT ` + followUpColumns + ` FROM followups WHERE id = $1`

	followUp, err := scanFollowUp(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FollowUp{}, apperr.NotFound(followUpNotFoundMessage)
		}
		return FollowUp{}, fmt.Errorf("get followup by id: %w", err)
	}
	return followUp, nil
}

// GetActiveByLead retrieves the lead's pending follow-up.
func (r *Repo) GetActiveByLead(ctx context.Context, leadID uuid.UUID) (FollowUp, error) {
	query := `SELECT ` + followUpColumns + ` FROM followups WHERE lead_id = $1 AND active`

	followUp, err := scanFollowUp(r.pool.QueryRow(ctx, query, leadID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FollowUp{}, apperr.NotFound(followUpNotFoundMessage)
		}
		return FollowUp{}, fmt.Errorf("get active followup: %w", err)
	}
	return followUp, nil
}

// CancelActiveForLead deactivates the lead's pending follow-up, if any.
func (r *Repo) CancelActiveForLead(ctx context.Context, leadID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE followups SET active = false, updated_at = now() WHERE lead_id = $1 AND active`,
		leadID,
	)
	if err != nil {
		return fmt.Errorf("cancel followup: %w", err)
	}
	return nil
}

// MarkSent closes a follow-up after delivery.
func (r *Repo) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE followups SET active = false, sent_at = $2, updated_at = now() WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("mark followup sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(followUpNotFoundMessage)
	}
	return nil
}

// Deactivate closes a follow-up without sending.
func (r *Repo) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE followups SET active = false, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deactivate followup: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(followUpNotFoundMessage)
	}
	return nil
}

// Due returns active follow-ups whose scheduled time has passed. The sweep
// uses this to recover touches whose queued task was lost.
func (r *Repo) Due(ctx context.Context, now time.Time, limit int) ([]FollowUp, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + followUpColumns + `
		FROM followups
		WHERE active AND scheduled_at <= $1
		ORDER BY scheduled_at ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("due followups: %w", err)
	}
	defer rows.Close()

	followUps := make([]FollowUp, 0)
	for rows.Next() {
		followUp, err := scanFollowUp(rows)
		if err != nil {
			return nil, fmt.Errorf("scan followup: %w", err)
		}
		followUps = append(followUps, followUp)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("due followups: %w", rows.Err())
	}
	return followUps, nil
}

// StatsForBuilder aggregates a builder's follow-up activity.
func (r *Repo) StatsForBuilder(ctx context.Context, builderID uuid.UUID) (Stats, error) {
	query := `
		SELECT
			count(*) FILTER (WHERE active),
			count(*) FILTER (WHERE active AND scheduled_at <= now()),
			count(*) FILTER (WHERE sent_at IS NOT NULL),
			count(*) FILTER (WHERE sent_at >= date_trunc('day', now()))
		FROM followups
		WHERE builder_id = $1`

	var stats Stats
	err := r.pool.QueryRow(ctx, query, builderID).
		Scan(&stats.Pending, &stats.Due, &stats.Sent, &stats.SentToday)
	if err != nil {
		return Stats{}, fmt.Errorf("followup stats: %w", err)
	}
	return stats, nil
}
