package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/contracthub/auth-service/internal/core/domain"
	"github.com/contracthub/auth-service/internal/core/ports"
)

// stubUserRepo enforces email uniqueness atomically under a mutex, matching
// the storage contract the real repository implements with a unique index.
type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.users[user.Email] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type stubLimiter struct {
	allow    bool
	allowErr error
	failures int
	resets   int
}

func (l *stubLimiter) Allow(context.Context, string) (bool, error) { return l.allow, l.allowErr }
func (l *stubLimiter) RecordFailure(context.Context, string) error { l.failures++; return nil }
func (l *stubLimiter) Reset(context.Context, string) error         { l.resets++; return nil }

func newTestAuthService(t *testing.T, repo ports.UserRepository, limiter ports.LoginLimiter) *AuthService {
	t.Helper()
	svc, err := NewAuthService(repo, NewBcryptHasher(bcrypt.MinCost), NewTokenService("secret", time.Hour), limiter)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return svc
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo, nil)

	token, user, err := svc.Register(context.Background(), "a@x.com", "Ana", "Secret123!", domain.RoleSupplier)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user == nil || user.ID == "" {
		t.Fatalf("expected user with generated id, got %+v", user)
	}
	if user.Role != domain.RoleSupplier {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if user.PasswordHash == "Secret123!" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Secret123!")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	claims, err := NewTokenService("secret", time.Hour).Verify(token)
	if err != nil {
		t.Fatalf("minted token invalid: %v", err)
	}
	if claims.Subject != user.ID {
		t.Fatalf("token subject %s does not match user id %s", claims.Subject, user.ID)
	}
	if claims.Role != domain.RoleSupplier {
		t.Fatalf("token role %s does not match user role", claims.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(t, newStubUserRepo(), nil)

	if _, _, err := svc.Register(context.Background(), "", "Ana", "pass", domain.RoleSupplier); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty email, got %v", err)
	}
	if _, _, err := svc.Register(context.Background(), "a@x.com", "Ana", "", domain.RoleSupplier); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty password, got %v", err)
	}
	if _, _, err := svc.Register(context.Background(), "a@x.com", "Ana", "pass", domain.Role("superuser")); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newTestAuthService(t, newStubUserRepo(), nil)

	if _, _, err := svc.Register(context.Background(), "a@x.com", "Ana", "Secret123!", domain.RoleSupplier); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), "a@x.com", "Bob", "Other456?", domain.RoleAdministrator); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_ConcurrentDuplicate(t *testing.T) {
	svc := newTestAuthService(t, newStubUserRepo(), nil)

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Register(context.Background(), "race@x.com", "Racer", "Secret123!", domain.RoleSupplier)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrUserExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != attempts-1 {
		t.Fatalf("expected exactly one winner, got %d wins and %d conflicts", wins, conflicts)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{allow: true}
	svc := newTestAuthService(t, repo, limiter)

	_, registered, err := svc.Register(context.Background(), "carol@x.com", "Carol", "s3cretpass", domain.RoleCEO)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol@x.com", "s3cretpass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.ID != registered.ID {
		t.Fatalf("login user does not match registration: %+v", user)
	}

	claims, err := NewTokenService("secret", time.Hour).Verify(token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Subject != registered.ID {
		t.Fatalf("token subject %s, want %s", claims.Subject, registered.ID)
	}
	if limiter.resets != 1 {
		t.Fatalf("expected limiter reset after success, got %d", limiter.resets)
	}
}

func TestAuthService_Login_NonEnumeration(t *testing.T) {
	svc := newTestAuthService(t, newStubUserRepo(), nil)

	_, _, err := svc.Register(context.Background(), "dave@x.com", "Dave", "goodpass1", domain.RoleSupplier)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, wrongPass := svc.Login(context.Background(), "dave@x.com", "badpass99")
	_, _, noUser := svc.Login(context.Background(), "ghost@x.com", "whatever1")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(noUser, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", noUser)
	}
	// Identical outcome: a caller must not be able to tell the cases apart.
	if wrongPass.Error() != noUser.Error() {
		t.Fatalf("error shapes differ: %q vs %q", wrongPass, noUser)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{allow: false}
	svc := newTestAuthService(t, repo, limiter)

	if _, _, err := svc.Login(context.Background(), "dave@x.com", "whatever1"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_LimiterOutage(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{allow: true, allowErr: errors.New("connection refused")}
	svc := newTestAuthService(t, repo, limiter)

	_, _, err := svc.Login(context.Background(), "dave@x.com", "whatever1")
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable for limiter outage, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("limiter outage must not look like a credential verdict")
	}
}

func TestAuthService_Login_RecordsFailures(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{allow: true}
	svc := newTestAuthService(t, repo, limiter)

	_, _, err := svc.Register(context.Background(), "erin@x.com", "Erin", "goodpass1", domain.RoleSupplier)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, _ = svc.Login(context.Background(), "erin@x.com", "badpass99")
	_, _, _ = svc.Login(context.Background(), "ghost@x.com", "whatever1")

	if limiter.failures != 2 {
		t.Fatalf("expected 2 recorded failures, got %d", limiter.failures)
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo, nil)

	_, registered, err := svc.Register(context.Background(), "frank@x.com", "Frank", "Secret123!", domain.RoleAdministrator)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.CurrentUser(context.Background(), registered.ID)
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user.Email != "frank@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.CurrentUser(context.Background(), "missing-id"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_EmailLookupIsCaseSensitive(t *testing.T) {
	svc := newTestAuthService(t, newStubUserRepo(), nil)

	_, _, err := svc.Register(context.Background(), "Grace@x.com", "Grace", "Secret123!", domain.RoleSupplier)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Comparison policy is byte equality, applied consistently.
	if _, _, err := svc.Login(context.Background(), strings.ToLower("Grace@x.com"), "Secret123!"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for case-mismatched email, got %v", err)
	}
}
