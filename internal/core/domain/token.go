package domain

import (
	"errors"
	"time"
)

// Token verification failures. Callers rely on the distinction: an expired
// token means "log in again", a bad signature means the token was tampered
// with; both still deny access.
var (
	ErrTokenMalformed        = errors.New("malformed token")
	ErrTokenSignatureInvalid = errors.New("invalid token signature")
	ErrTokenExpired          = errors.New("token expired")
)

// Claims is the verified payload of a session token. Role is a copy of the
// user's role at mint time; later role changes do not alter issued tokens.
type Claims struct {
	Subject   string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
