package jobs

import (
	"context"

	"portfolio-access-backend/internal/logger"
)

// SweepExpiredCredentials evicts every credential whose expiry has passed.
// Verify also evicts lazily; this keeps never-retried passwords from piling up.
func (jr *JobRunner) SweepExpiredCredentials() {
	jr.runWithRecovery("SweepExpiredCredentials", func() {
		ctx := context.Background()

		removed, err := jr.credentials.SweepExpired(ctx)
		if err != nil {
			logger.Error("Failed to sweep expired credentials", "error", err)
			return
		}
		if removed > 0 {
			logger.Info("Swept expired credentials", "count", removed)
		}
	})
}

// PurgeStaleRequests deletes access requests older than the retention window,
// whatever their status.
func (jr *JobRunner) PurgeStaleRequests() {
	jr.runWithRecovery("PurgeStaleRequests", func() {
		ctx := context.Background()

		cutoff := jr.clock.Now().Add(-jr.retention)
		ids, err := jr.requests.ListOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list stale requests", "error", err)
			return
		}

		purged := 0
		for _, id := range ids {
			if err := jr.requests.Delete(ctx, id); err != nil {
				logger.Error("Failed to delete stale request", "request_id", id, "error", err)
				continue
			}
			purged++
		}
		if purged > 0 {
			logger.Info("Purged stale access requests", "count", purged, "cutoff", cutoff)
		}
	})
}
