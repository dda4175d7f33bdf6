package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-access-backend/internal/clock"
	"portfolio-access-backend/internal/domain"
)

func TestCredentialRepository_IssueAndVerify(t *testing.T) {
	clk := clock.NewManual(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC))
	repo := NewCredentialRepository(clk)
	ctx := context.Background()

	expiresAt := clk.Now().Add(72 * time.Hour)
	cred, err := repo.Issue(ctx, "ABCDEF0123456789", "a@x.com", "r1", expiresAt)
	require.NoError(t, err)
	assert.Equal(t, expiresAt, cred.ExpiresAt)

	result, ownerEmail, err := repo.Verify(ctx, "ABCDEF0123456789")
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationValid, result)
	assert.Equal(t, "a@x.com", ownerEmail)
}

func TestCredentialRepository_DuplicatePassword(t *testing.T) {
	clk := clock.NewManual(time.Now())
	repo := NewCredentialRepository(clk)
	ctx := context.Background()

	_, err := repo.Issue(ctx, "SAME", "a@x.com", "r1", clk.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = repo.Issue(ctx, "SAME", "b@x.com", "r2", clk.Now().Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrDuplicatePassword)
}

func TestCredentialRepository_VerifyUnknown(t *testing.T) {
	repo := NewCredentialRepository(clock.NewManual(time.Now()))

	result, ownerEmail, err := repo.Verify(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationInvalid, result)
	assert.Empty(t, ownerEmail)
}

// A credential is usable strictly before its expiry, reports expired exactly
// once at or after it, and is gone afterward without any sweeper involved.
func TestCredentialRepository_LazyEviction(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	clk := clock.NewManual(base)
	repo := NewCredentialRepository(clk)
	ctx := context.Background()

	_, err := repo.Issue(ctx, "P1", "a@x.com", "r1", base.Add(72*time.Hour))
	require.NoError(t, err)

	clk.Advance(72*time.Hour - time.Second)
	result, ownerEmail, err := repo.Verify(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationValid, result)
	assert.Equal(t, "a@x.com", ownerEmail)

	clk.Advance(time.Second) // exactly at ExpiresAt
	result, ownerEmail, err = repo.Verify(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationExpired, result)
	assert.Empty(t, ownerEmail)

	// Evicted as part of the check: a second attempt is plain invalid and the
	// entry is absent from the store.
	result, _, err = repo.Verify(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationInvalid, result)

	_, err = repo.GetByPassword(ctx, "P1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCredentialRepository_SweepExpired(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	clk := clock.NewManual(base)
	repo := NewCredentialRepository(clk)
	ctx := context.Background()

	_, err := repo.Issue(ctx, "SHORT", "a@x.com", "r1", base.Add(time.Hour))
	require.NoError(t, err)
	_, err = repo.Issue(ctx, "LONG", "b@x.com", "r2", base.Add(100*time.Hour))
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	removed, err := repo.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = repo.GetByPassword(ctx, "SHORT")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	result, _, err := repo.Verify(ctx, "LONG")
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationValid, result)

	// Nothing left to remove.
	removed, err = repo.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
