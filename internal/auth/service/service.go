// Package service contains builder account and session logic.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"estatepilot_backend/internal/auth/password"
	"estatepilot_backend/internal/auth/repository"
	"estatepilot_backend/platform/apperr"
	"estatepilot_backend/platform/config"
	"estatepilot_backend/platform/logger"
)

const accessTokenType = "access"

// Service implements builder registration and login.
type Service struct {
	repo repository.Repository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo repository.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Register creates a builder account and returns it with a session token.
func (s *Service) Register(ctx context.Context, email, plainPassword, companyName, phoneNumberID string) (repository.Builder, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return repository.Builder{}, "", apperr.Validation("email is required")
	}
	if len(plainPassword) < 8 {
		return repository.Builder{}, "", apperr.Validation("password must be at least 8 characters")
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return repository.Builder{}, "", err
	}

	builder, err := s.repo.Create(ctx, repository.CreateParams{
		Email:                 email,
		PasswordHash:          hash,
		CompanyName:           companyName,
		WhatsAppPhoneNumberID: phoneNumberID,
	})
	if err != nil {
		s.log.AuthEvent("register", email, false, err.Error())
		return repository.Builder{}, "", err
	}

	token, err := s.signJWT(builder.ID)
	if err != nil {
		return repository.Builder{}, "", err
	}
	s.log.AuthEvent("register", email, true, "")
	return builder, token, nil
}

// Login verifies credentials and returns the builder with a session token.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (repository.Builder, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	builder, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.log.AuthEvent("login", email, false, "unknown email")
		return repository.Builder{}, "", apperr.Unauthorized("invalid credentials")
	}
	if err := password.Compare(builder.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", email, false, "wrong password")
		return repository.Builder{}, "", apperr.Unauthorized("invalid credentials")
	}

	token, err := s.signJWT(builder.ID)
	if err != nil {
		return repository.Builder{}, "", err
	}
	s.log.AuthEvent("login", email, true, "")
	return builder, token, nil
}

// Me returns the authenticated builder's account.
func (s *Service) Me(ctx context.Context, builderID uuid.UUID) (repository.Builder, error) {
	return s.repo.GetByID(ctx, builderID)
}

// BuilderByPhoneNumberID resolves the builder that owns a WhatsApp Business
// phone number, used for webhook routing.
func (s *Service) BuilderByPhoneNumberID(ctx context.Context, phoneNumberID string) (repository.Builder, error) {
	return s.repo.GetByPhoneNumberID(ctx, phoneNumberID)
}

func (s *Service) signJWT(builderID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        builderID.String(),
		"builder_id": builderID.String(),
		"type":       accessTokenType,
		"exp":        now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":        now.Unix(),
	}
	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
