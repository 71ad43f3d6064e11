package ports

import (
	"github.com/contracthub/auth-service/internal/core/domain"
)

// TokenService mints and verifies signed bearer tokens. Verify checks the
// signature before anything else; its errors are the domain token sentinels
// (ErrTokenMalformed, ErrTokenSignatureInvalid, ErrTokenExpired).
type TokenService interface {
	Mint(user *domain.User) (string, error)
	Verify(token string) (*domain.Claims, error)
}
