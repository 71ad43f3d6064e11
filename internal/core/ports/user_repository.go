package ports

import (
	"context"

	"github.com/contracthub/auth-service/internal/core/domain"
)

// UserRepository defines the persistence contract for user records. Email
// uniqueness is enforced atomically by the storage layer: Create returns
// domain.ErrUserExists when the email is already taken, so concurrent
// registrations of the same address resolve to exactly one winner without a
// racy read-then-write.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
