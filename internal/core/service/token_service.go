package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/contracthub/auth-service/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// tokenClaims is the wire shape of a session token: registered claims plus
// the role held at mint time.
type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies HS256-signed session tokens. The secret and
// TTL are fixed at construction and never mutated while serving traffic.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService signing with secret. If ttl <= 0 the
// default 24h horizon is used.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Mint produces a signed token asserting the user's id and role, valid from
// now until now + ttl.
func (s *TokenService) Mint(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		Role: user.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify validates the signature first, then expiry, then claim structure,
// and returns the claims on success. Failures map to the domain token
// sentinels so callers can distinguish "log in again" from tampering.
func (s *TokenService) Verify(token string) (*domain.Claims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrTokenSignatureInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		default:
			return nil, domain.ErrTokenMalformed
		}
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenSignatureInvalid
	}

	role, roleErr := domain.ParseRole(claims.Role)
	if roleErr != nil || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, domain.ErrTokenMalformed
	}

	out := &domain.Claims{
		Subject:   claims.Subject,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
