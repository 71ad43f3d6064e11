package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/contracthub/auth-service/internal/core/domain"
	"github.com/contracthub/auth-service/internal/core/ports"
)

// dummyPassword seeds the digest compared against when a login targets an
// unknown email, keeping that path's cost in line with a real verification.
const dummyPassword = "correct horse battery staple"

// AuthService orchestrates registration and login: hashing, persistence and
// token minting. Each call is self-contained; the only shared state is the
// injected collaborators, all read-only after construction.
type AuthService struct {
	repo        ports.UserRepository
	hasher      ports.PasswordHasher
	tokens      ports.TokenService
	limiter     ports.LoginLimiter
	dummyDigest string
}

// NewAuthService wires the service. limiter may be nil, which disables login
// throttling (useful in tests).
func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, limiter ports.LoginLimiter) (*AuthService, error) {
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		tokens:      tokens,
		limiter:     limiter,
		dummyDigest: dummy,
	}, nil
}

// Register creates a user with a hashed password and returns a session token
// alongside the stored record. Email uniqueness is decided by the repository,
// not by a prior lookup.
func (s *AuthService) Register(ctx context.Context, email, name, password string, role domain.Role) (string, *domain.User, error) {
	if !role.Valid() {
		return "", nil, domain.ErrInvalidRole
	}
	if email == "" || name == "" || password == "" {
		return "", nil, domain.ErrValidation
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: digest,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Mint(created)
	if err != nil {
		return "", nil, err
	}

	return token, created, nil
}

// Login authenticates by email and password, returning a fresh session token.
// An unknown email and a wrong password both yield ErrInvalidCredentials with
// the same shape and cost, so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, email)
		if err != nil {
			// A limiter outage is infrastructure trouble, not a credential
			// verdict.
			return "", nil, fmt.Errorf("login limiter: %w: %w", domain.ErrStorageUnavailable, err)
		}
		if !ok {
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn a comparable amount of work before denying so the
			// unknown-email path is indistinguishable from a mismatch.
			s.hasher.Verify(password, s.dummyDigest)
			s.recordFailure(ctx, email)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Mint(user)
	if err != nil {
		return "", nil, err
	}

	if s.limiter != nil {
		_ = s.limiter.Reset(ctx, email)
	}
	return token, user, nil
}

// CurrentUser fetches the user record behind a verified token subject.
func (s *AuthService) CurrentUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.limiter != nil {
		_ = s.limiter.RecordFailure(ctx, email)
	}
}
