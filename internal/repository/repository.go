package repository

import (
	"context"
	"time"

	"portfolio-access-backend/internal/domain"
)

type RequestRepository interface {
	Put(ctx context.Context, req *domain.AccessRequest) error
	GetByID(ctx context.Context, id string) (*domain.AccessRequest, error)
	Update(ctx context.Context, req *domain.AccessRequest) error
	// UpdateIfPending stores req only while the stored entry is still pending,
	// checked under the store lock. It returns domain.ErrAlreadyProcessed once
	// another caller has won the pending-to-terminal transition, which keeps
	// concurrent approve/decline calls from both completing it.
	UpdateIfPending(ctx context.Context, req *domain.AccessRequest) error
	Delete(ctx context.Context, id string) error
	ListOlderThan(ctx context.Context, cutoff time.Time) ([]string, error)
}

type CredentialRepository interface {
	// Issue stores a credential expiring at exactly expiresAt; the caller
	// derives it from the approval time so the two always agree.
	Issue(ctx context.Context, password, ownerEmail, requestID string, expiresAt time.Time) (*domain.TemporaryCredential, error)
	// Verify checks a password against the store, returning the owner email on
	// a valid match. An expired entry is removed as part of the check, so
	// expiry is reported at most once per password.
	Verify(ctx context.Context, password string) (domain.VerificationResult, string, error)
	GetByPassword(ctx context.Context, password string) (*domain.TemporaryCredential, error)
	SweepExpired(ctx context.Context) (int, error)
}
