package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Builder is a real-estate builder account. Each builder owns one WhatsApp
// Business phone number that inbound webhooks are routed by.
type Builder struct {
	ID                    uuid.UUID `json:"id"`
	Email                 string    `json:"email"`
	PasswordHash          string    `json:"-"`
	CompanyName           string    `json:"companyName"`
	WhatsAppPhoneNumberID string    `json:"whatsappPhoneNumberId"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// CreateParams registers a builder account.
type CreateParams struct {
	Email                 string
	PasswordHash          string
	CompanyName           string
	WhatsAppPhoneNumberID string
}

// Repository is the builder account persistence contract.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Builder, error)
	GetByEmail(ctx context.Context, email string) (Builder, error)
	GetByID(ctx context.Context, id uuid.UUID) (Builder, error)
	GetByPhoneNumberID(ctx context.Context, phoneNumberID string) (Builder, error)
}
