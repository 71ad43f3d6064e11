package mongo

import (
	"errors"
	"testing"
	"time"

	"github.com/contracthub/auth-service/internal/core/domain"
)

func TestToDomainUser(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	mu := mongoUser{
		ID:           "user-1",
		Email:        "a@x.com",
		Name:         "Ana",
		PasswordHash: "$2a$10$digest",
		Role:         "supplier",
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	}

	user, err := toDomainUser(mu)
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}
	if user.ID != "user-1" || user.Role != domain.RoleSupplier {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !user.CreatedAt.Equal(now) {
		t.Fatalf("created_at mismatch: got %v, want %v", user.CreatedAt, now)
	}
}

func TestToDomainUser_CorruptRole(t *testing.T) {
	for _, role := range []string{"", "superuser", "CEO"} {
		mu := mongoUser{ID: "user-1", Email: "a@x.com", Role: role}

		_, err := toDomainUser(mu)
		if !errors.Is(err, domain.ErrCorruptRecord) {
			t.Fatalf("role %q: expected ErrCorruptRecord, got %v", role, err)
		}
		if errors.Is(err, domain.ErrStorageUnavailable) {
			t.Fatalf("role %q: corruption must not look like an outage", role)
		}
	}
}
