package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"estatepilot_backend/platform/apperr"
)

const builderNotFoundMessage = "builder not found"

const builderColumns = `id, email, password_hash, company_name, whatsapp_phone_number_id, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new builders repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanBuilder(row pgx.Row) (Builder, error) {
	var b Builder
	err := row.Scan(
		&b.ID, &b.Email, &b.PasswordHash, &b.CompanyName,
		&b.WhatsAppPhoneNumberID, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// Create inserts a builder account. Duplicate email or phone number ID maps
// to a conflict error.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Builder, error) {
	query := `
		INSERT INTO builders (email, password_hash, company_name, whatsapp_phone_number_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + builderColumns

	builder, err := scanBuilder(r.pool.QueryRow(ctx, query,
		params.Email, params.PasswordHash, params.CompanyName, params.WhatsAppPhoneNumberID,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Builder{}, apperr.Conflict("account already exists")
		}
		return Builder{}, fmt.Errorf("create builder: %w", err)
	}
	return builder, nil
}

// GetByEmail retrieves a builder by login email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (Builder, error) {
	query := `SELECT ` + builderColumns + ` FROM builders WHERE email = $1`

	builder, err := scanBuilder(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Builder{}, apperr.NotFound(builderNotFoundMessage)
		}
		return Builder{}, fmt.Errorf("get builder by email: %w", err)
	}
	return builder, nil
}

// GetByID retrieves a builder by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Builder, error) {
	query := `SELECT ` + builderColumns + ` FROM builders WHERE id = $1`

	builder, err := scanBuilder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Builder{}, apperr.NotFound(builderNotFoundMessage)
		}
		return Builder{}, fmt.Errorf("get builder by id: %w", err)
	}
	return builder, nil
}

// GetByPhoneNumberID routes an inbound webhook to its builder.
func (r *Repo) GetByPhoneNumberID(ctx context.Context, phoneNumberID string) (Builder, error) {
	query := `SELECT ` + builderColumns + ` FROM builders WHERE whatsapp_phone_number_id = $1`

	builder, err := scanBuilder(r.pool.QueryRow(ctx, query, phoneNumberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Builder{}, apperr.NotFound(builderNotFoundMessage)
		}
		return Builder{}, fmt.Errorf("get builder by phone number id: %w", err)
	}
	return builder, nil
}
