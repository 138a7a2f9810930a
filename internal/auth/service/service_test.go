package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"estatepilot_backend/internal/auth/repository"
	"estatepilot_backend/platform/apperr"
	"estatepilot_backend/platform/logger"
)

type fakeRepo struct {
	builders map[uuid.UUID]repository.Builder
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{builders: make(map[uuid.UUID]repository.Builder)}
}

func (r *fakeRepo) Create(ctx context.Context, params repository.CreateParams) (repository.Builder, error) {
	for _, b := range r.builders {
		if b.Email == params.Email {
			return repository.Builder{}, apperr.Conflict("account already exists")
		}
	}
	builder := repository.Builder{
		ID:                    uuid.New(),
		Email:                 params.Email,
		PasswordHash:          params.PasswordHash,
		CompanyName:           params.CompanyName,
		WhatsAppPhoneNumberID: params.WhatsAppPhoneNumberID,
		CreatedAt:             time.Now(),
		UpdatedAt:             time.Now(),
	}
	r.builders[builder.ID] = builder
	return builder, nil
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (repository.Builder, error) {
	for _, b := range r.builders {
		if b.Email == email {
			return b, nil
		}
	}
	return repository.Builder{}, apperr.NotFound("builder not found")
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.Builder, error) {
	b, ok := r.builders[id]
	if !ok {
		return repository.Builder{}, apperr.NotFound("builder not found")
	}
	return b, nil
}

func (r *fakeRepo) GetByPhoneNumberID(ctx context.Context, phoneNumberID string) (repository.Builder, error) {
	for _, b := range r.builders {
		if b.WhatsAppPhoneNumberID == phoneNumberID {
			return b, nil
		}
	}
	return repository.Builder{}, apperr.NotFound("builder not found")
}

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string      { return "test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration { return time.Hour }

func newService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return New(repo, testConfig{}, logger.New("test")), repo
}

func TestRegisterNormalizesEmailAndIssuesToken(t *testing.T) {
	svc, _ := newService()

	builder, token, err := svc.Register(context.Background(), "  Builder@Example.COM ", "supersecret", "Acme Constructions", "12345")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if builder.Email != "builder@example.com" {
		t.Fatalf("email = %q, want lowercase", builder.Email)
	}
	if builder.PasswordHash == "supersecret" {
		t.Fatal("password stored in plaintext")
	}

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["builder_id"] != builder.ID.String() {
		t.Fatalf("builder_id claim = %v", claims["builder_id"])
	}
	if claims["type"] != "access" {
		t.Fatalf("type claim = %v", claims["type"])
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newService()

	_, _, err := svc.Register(context.Background(), "builder@example.com", "short", "Acme", "12345")
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newService()

	if _, _, err := svc.Register(context.Background(), "builder@example.com", "supersecret", "Acme", "12345"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, _, err := svc.Register(context.Background(), "builder@example.com", "supersecret", "Acme", "67890")
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _ := newService()
	registered, _, err := svc.Register(context.Background(), "builder@example.com", "supersecret", "Acme", "12345")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	builder, token, err := svc.Login(context.Background(), "Builder@Example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if builder.ID != registered.ID {
		t.Fatal("login returned a different builder")
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newService()
	if _, _, err := svc.Register(context.Background(), "builder@example.com", "supersecret", "Acme", "12345"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "builder@example.com", "wrongpassword")
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newService()

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "supersecret")
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestBuilderByPhoneNumberID(t *testing.T) {
	svc, _ := newService()
	registered, _, err := svc.Register(context.Background(), "builder@example.com", "supersecret", "Acme", "12345")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	builder, err := svc.BuilderByPhoneNumberID(context.Background(), "12345")
	if err != nil {
		t.Fatalf("BuilderByPhoneNumberID: %v", err)
	}
	if builder.ID != registered.ID {
		t.Fatal("resolved a different builder")
	}

	if _, err := svc.BuilderByPhoneNumberID(context.Background(), "99999"); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}
