package ports

// PasswordHasher is the contract for one-way password hashing. Hash salts per
// call, so two digests of the same plaintext differ while both verify. Verify
// never reports a match for a malformed digest.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}
