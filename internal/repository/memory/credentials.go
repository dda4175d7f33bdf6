package memory

import (
	"context"
	"sync"
	"time"

	"portfolio-access-backend/internal/clock"
	"portfolio-access-backend/internal/domain"
	"portfolio-access-backend/internal/repository"
)

// credentialRepository keys issued credentials by password value. Expired
// entries are evicted lazily on Verify and proactively by SweepExpired.
type credentialRepository struct {
	mu          sync.Mutex
	credentials map[string]*domain.TemporaryCredential
	clock       clock.Clock
}

func NewCredentialRepository(clk clock.Clock) repository.CredentialRepository {
	return &credentialRepository{
		credentials: make(map[string]*domain.TemporaryCredential),
		clock:       clk,
	}
}

func (r *credentialRepository) Issue(ctx context.Context, password, ownerEmail, requestID string, expiresAt time.Time) (*domain.TemporaryCredential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.credentials[password]; ok {
		return nil, domain.ErrDuplicatePassword
	}

	cred := &domain.TemporaryCredential{
		Password:   password,
		OwnerEmail: ownerEmail,
		ExpiresAt:  expiresAt,
		RequestID:  requestID,
	}
	r.credentials[password] = cred

	cp := *cred
	return &cp, nil
}

func (r *credentialRepository) Verify(ctx context.Context, password string) (domain.VerificationResult, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cred, ok := r.credentials[password]
	if !ok {
		return domain.VerificationInvalid, "", nil
	}

	// Valid strictly before ExpiresAt. At or past it the entry is removed as
	// part of the check, so the password is gone even if the sweeper never runs.
	if !r.clock.Now().Before(cred.ExpiresAt) {
		delete(r.credentials, password)
		return domain.VerificationExpired, "", nil
	}

	return domain.VerificationValid, cred.OwnerEmail, nil
}

func (r *credentialRepository) GetByPassword(ctx context.Context, password string) (*domain.TemporaryCredential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cred, ok := r.credentials[password]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *cred
	return &cp, nil
}

func (r *credentialRepository) SweepExpired(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	removed := 0
	for password, cred := range r.credentials {
		if !now.Before(cred.ExpiresAt) {
			delete(r.credentials, password)
			removed++
		}
	}
	return removed, nil
}
