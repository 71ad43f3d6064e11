package ports

import (
	"context"

	"github.com/contracthub/auth-service/internal/core/domain"
)

// AuthService implements registration, login and current-user lookup. Both
// Register and Login return a freshly minted session token alongside the
// created/authenticated user.
type AuthService interface {
	Register(ctx context.Context, email, name, password string, role domain.Role) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	CurrentUser(ctx context.Context, id string) (*domain.User, error)
}
