// Package transport defines request and response shapes for the auth API.
package transport

import "estatepilot_backend/internal/auth/repository"

// RegisterRequest creates a builder account.
type RegisterRequest struct {
	Email                 string `json:"email" binding:"required,email"`
	Password              string `json:"password" binding:"required,min=8"`
	CompanyName           string `json:"companyName" binding:"required"`
	WhatsAppPhoneNumberID string `json:"whatsappPhoneNumberId" binding:"required"`
}

// LoginRequest authenticates a builder.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse returns the account with its bearer token.
type SessionResponse struct {
	Builder repository.Builder `json:"builder"`
	Token   string             `json:"token"`
}
