package api

import (
	"time"

	"github.com/contracthub/auth-service/internal/api/metrics"
	"github.com/contracthub/auth-service/internal/core/ports"
)

// instrumentedHasher decorates a PasswordHasher with a hash-duration
// histogram, keeping the core hasher free of metrics plumbing.
type instrumentedHasher struct {
	inner ports.PasswordHasher
}

func instrumentHasher(inner ports.PasswordHasher) ports.PasswordHasher {
	return &instrumentedHasher{inner: inner}
}

func (h *instrumentedHasher) Hash(plaintext string) (string, error) {
	start := time.Now()
	digest, err := h.inner.Hash(plaintext)
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	return digest, err
}

func (h *instrumentedHasher) Verify(plaintext, digest string) bool {
	return h.inner.Verify(plaintext, digest)
}
