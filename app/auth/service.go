// Package auth signs marketplace users in and gates routes by role.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/weavelink/weavelink/logging"
	"github.com/weavelink/weavelink/models"
)

// ProfileStore persists marketplace profiles.
type ProfileStore interface {
	CreateProfile(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
}

type SignUpInput struct {
	Email    string      `json:"email" validate:"required,email,max=320"`
	Password string      `json:"password" validate:"required,min=8,bytes=72"`
	Name     string      `json:"name" validate:"required,max=200"`
	Location string      `json:"location" validate:"max=200"`
	Role     models.Role `json:"role" validate:"required,role"`
}

type SignInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Result is a signed-in profile with its session token.
type Result struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   *models.Profile `json:"profile"`
}

// Service wraps authentication business rules.
type Service struct {
	profiles    ProfileStore
	tokens      *Tokens
	revocations *Revocations
	validate    *validator.Validate
	cost        int
	logger      *zap.Logger
}

type ServiceOption func(*Service)

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) ServiceOption {
	return func(s *Service) { s.cost = cost }
}

func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) { s.logger = logging.OrNop(logger) }
}

func NewService(profiles ProfileStore, tokens *Tokens, revocations *Revocations, opts ...ServiceOption) *Service {
	s := &Service{
		profiles:    profiles,
		tokens:      tokens,
		revocations: revocations,
		validate:    models.NewValidator(),
		cost:        bcrypt.DefaultCost,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUp registers a profile and signs it in.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*Result, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	if err := models.Validate(s.validate, in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	profile := &models.Profile{
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Location:     in.Location,
		Role:         in.Role,
	}
	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("profile registered",
		zap.String("user_id", profile.ID),
		zap.String("role", string(profile.Role)),
	)
	return s.issue(profile)
}

// SignIn checks credentials and issues a new token.
func (s *Service) SignIn(ctx context.Context, in SignInInput) (*Result, error) {
	in.Email = normalizeEmail(in.Email)
	if err := models.Validate(s.validate, in); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByEmail(ctx, in.Email)
	if errors.Is(err, models.ErrProfileNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(in.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}
	return s.issue(profile)
}

// SignOut revokes the token described by claims.
func (s *Service) SignOut(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return models.ErrUnauthenticated
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke token: %w: %w", models.ErrTransport, err)
	}
	return nil
}

// Authenticate resolves a bearer token to the current profile. The profile,
// and so the role, is loaded fresh on every call.
func (s *Service) Authenticate(ctx context.Context, raw string) (*models.Profile, *Claims, error) {
	if raw == "" {
		return nil, nil, models.ErrUnauthenticated
	}
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, nil, models.ErrUnauthenticated
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("check revocation: %w: %w", models.ErrTransport, err)
	}
	if revoked {
		return nil, nil, models.ErrUnauthenticated
	}

	profile, err := s.profiles.GetByID(ctx, claims.Subject)
	if errors.Is(err, models.ErrProfileNotFound) {
		return nil, nil, models.ErrUnauthenticated
	}
	if err != nil {
		return nil, nil, err
	}
	return profile, claims, nil
}

// Profile returns the profile with id.
func (s *Service) Profile(ctx context.Context, id string) (*models.Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

func (s *Service) issue(profile *models.Profile) (*Result, error) {
	token, claims, err := s.tokens.Issue(profile.ID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Result{Token: token, ExpiresAt: claims.ExpiresAt.Time, Profile: profile}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
