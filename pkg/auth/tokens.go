package auth

import (
	"context"
	"time"
)

// TokenGenerator abstracts token creation (e.g., JWT).
// It allows use cases to stay framework-agnostic.
type TokenGenerator interface {
	Generate(ctx context.Context, user User) (string, error)
}

// RevocationStore keeps identifiers of tokens invalidated before expiry.
// The zero-value NoopRevocations is used when no backing store is configured.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NoopRevocations never revokes anything; logout becomes client-side only.
type NoopRevocations struct{}

func (NoopRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return nil
}

func (NoopRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return false, nil
}
