package jobs

import (
	"time"

	"portfolio-access-backend/internal/clock"
	"portfolio-access-backend/internal/logger"
	"portfolio-access-backend/internal/repository"
)

// JobRunner coordinates the background cleanup jobs.
type JobRunner struct {
	requests    repository.RequestRepository
	credentials repository.CredentialRepository
	clock       clock.Clock
	retention   time.Duration
}

// NewJobRunner creates a new job runner. retention is how long access
// requests are kept before being purged.
func NewJobRunner(
	requests repository.RequestRepository,
	credentials repository.CredentialRepository,
	clk clock.Clock,
	retention time.Duration,
) *JobRunner {
	return &JobRunner{
		requests:    requests,
		credentials: credentials,
		clock:       clk,
		retention:   retention,
	}
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Debug("Starting job", "job", jobName)
	jobFunc()
	logger.Debug("Job completed", "job", jobName)
}

// RunSweep runs both cleanup jobs (for manual execution)
func (jr *JobRunner) RunSweep() {
	jr.SweepExpiredCredentials()
	jr.PurgeStaleRequests()
}
