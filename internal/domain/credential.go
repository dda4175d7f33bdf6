package domain

import "time"

// TemporaryCredential is a one-time password issued on approval. It is never
// mutated after issue; expiry removes it from the store.
type TemporaryCredential struct {
	Password   string    `json:"password"`
	OwnerEmail string    `json:"owner_email"`
	ExpiresAt  time.Time `json:"expires_at"`
	RequestID  string    `json:"request_id"`
}

type VerificationResult string

const (
	VerificationValid   VerificationResult = "valid"
	VerificationInvalid VerificationResult = "invalid"
	VerificationExpired VerificationResult = "expired"
)
